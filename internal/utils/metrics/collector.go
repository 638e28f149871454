// internal/utils/metrics/collector.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "simward"

// Collector управляет набором метрик движка
type Collector struct {
	operationCounter  *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	equilibriumRuns   *prometheus.CounterVec
	equilibriumRounds prometheus.Histogram
	cacheLookups      *prometheus.CounterVec
}

// NewCollector создает коллектор и регистрирует метрики в reg.
// A nil reg uses the default registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		operationCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of engine calls",
			},
			[]string{"operation", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Engine call duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"operation"},
		),
		equilibriumRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "equilibrium_runs_total",
				Help:      "Equilibrium runs by outcome",
			},
			[]string{"outcome"},
		),
		equilibriumRounds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "equilibrium_rounds",
				Help:      "Rounds executed per equilibrium run",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Result cache lookups by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		c.operationCounter,
		c.operationDuration,
		c.equilibriumRuns,
		c.equilibriumRounds,
		c.cacheLookups,
	)

	return c
}
