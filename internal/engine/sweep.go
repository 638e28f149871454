package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/simward/internal/config"
	"github.com/rovshanmuradov/simward/internal/curve"
	"github.com/rovshanmuradov/simward/internal/equilibrium"
)

// SweepResult collects all three figures for one scenario.
type SweepResult struct {
	RunID       string              `json:"run_id" yaml:"run_id"`
	Scenario    string              `json:"scenario" yaml:"scenario"`
	Params      curve.Params        `json:"params" yaml:"params"`
	Curve       CurveResult         `json:"curve" yaml:"curve"`
	Supply      curve.SupplyFigures `json:"supply" yaml:"supply"`
	Equilibrium equilibrium.Result  `json:"equilibrium" yaml:"equilibrium"`
	Duration    time.Duration       `json:"duration" yaml:"duration"`
}

// Sweep evaluates every scenario with at most workers running at once.
// Results keep the order of scenarios. The first error cancels the rest.
func (e *Engine) Sweep(ctx context.Context, scenarios []config.Scenario, workers int) ([]SweepResult, error) {
	if workers <= 0 {
		workers = config.DefaultWorkers
	}

	runID := uuid.New().String()
	sweepLogger := e.logger.With(zap.String("run_id", runID))
	sweepLogger.Info("Starting sweep",
		zap.Int("scenarios", len(scenarios)),
		zap.Int("workers", workers))

	results := make([]SweepResult, len(scenarios))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			start := time.Now()

			curveRes, err := e.ComputeCurve(sc.Params)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			supply, err := e.ComputeDerivedSupplyFigures(sc.Params)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			eq, err := e.RunEquilibrium(gCtx, sc.Params)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}

			results[i] = SweepResult{
				RunID:       runID,
				Scenario:    sc.Name,
				Params:      sc.Params.Resolved(),
				Curve:       curveRes,
				Supply:      supply,
				Equilibrium: eq,
				Duration:    time.Since(start),
			}
			sweepLogger.Debug("Scenario done",
				zap.String("scenario", sc.Name),
				zap.String("outcome", eq.Outcome()),
				zap.Duration("duration", results[i].Duration))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		sweepLogger.Error("Sweep failed", zap.Error(err))
		return nil, err
	}

	if e.cache != nil {
		e.cache.LogStats()
	}
	sweepLogger.Info("Sweep completed", zap.Int("scenarios", len(results)))
	return results, nil
}
