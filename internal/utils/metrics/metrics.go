// internal/utils/metrics/metrics.go
package metrics

import (
	"context"
	"errors"
	"time"
)

// RecordOperation записывает метрики вызова движка с учетом контекста
func (c *Collector) RecordOperation(operation string, duration time.Duration, err error) {
	if c == nil {
		return
	}

	status := "success"
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = "cancelled"
	case err != nil:
		status = "failed"
	}

	c.operationCounter.WithLabelValues(operation, status).Inc()
	c.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordEquilibrium записывает исход и число раундов симуляции
func (c *Collector) RecordEquilibrium(outcome string, rounds int) {
	if c == nil {
		return
	}
	c.equilibriumRuns.WithLabelValues(outcome).Inc()
	c.equilibriumRounds.Observe(float64(rounds))
}

// RecordCacheLookup учитывает попадание или промах кэша результатов
func (c *Collector) RecordCacheLookup(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}
