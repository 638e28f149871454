// Package report renders engine results as terminal tables.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/simward/internal/curve"
	"github.com/rovshanmuradov/simward/internal/engine"
	"github.com/rovshanmuradov/simward/internal/equilibrium"
)

// RenderCurve renders the sampled curve of one scenario.
func RenderCurve(scenario string, res engine.CurveResult) string {
	table := NewTable(
		Column{Header: "P", Align: lipgloss.Right},
		Column{Header: "Reward", Align: lipgloss.Right},
		Column{Header: "Cumulative", Align: lipgloss.Right},
		Column{Header: "Reward $", Align: lipgloss.Right},
		Column{Header: "Cumulative $", Align: lipgloss.Right},
		Column{Header: "Density", Align: lipgloss.Right},
		Column{Header: "Cum. %", Align: lipgloss.Right},
	)
	for _, sp := range res.Samples {
		table.AddRow(
			fixed(sp.P, curve.TokenDecimals),
			fixed(sp.Y, curve.TokenDecimals),
			fixed(sp.Cumulative, curve.TokenDecimals),
			fixed(sp.YUSD, curve.USDDecimals),
			fixed(sp.CumulativeUSD, curve.USDDecimals),
			fixed(sp.Density, curve.DensityDecimals),
			fixed(sp.CumulativeProbability, curve.ProbabilityDecimals),
		)
	}

	breakEven := mutedStyle.Render("break-even: not reached")
	if res.BreakEven != nil {
		breakEven = fmt.Sprintf("break-even: P = %s at $%s",
			fixed(res.BreakEven.P, curve.TokenDecimals),
			fixed(res.BreakEven.USD, curve.USDDecimals))
	}

	lines := []string{titleStyle.Render("Reward curve · " + scenario), table.View()}
	if len(res.Ticks) > 0 {
		labels := make([]string, len(res.Ticks))
		for i, tick := range res.Ticks {
			labels[i] = strconv.FormatFloat(tick, 'f', -1, 64)
		}
		lines = append(lines, mutedStyle.Render("P axis: "+strings.Join(labels, " · ")))
	}
	lines = append(lines, breakEven)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderSupply renders the derived calibration figures.
func RenderSupply(scenario string, figures curve.SupplyFigures) string {
	table := NewTable(
		Column{Header: "Figure", Align: lipgloss.Left},
		Column{Header: "Value", Align: lipgloss.Right},
	)
	table.AddRow("a", fixed(figures.A, 4))
	table.AddRow("Treasury supply", fixed(figures.TreasurySupply, curve.TokenDecimals))
	table.AddRow("Current supply", fixed(figures.CurrentSupply, curve.TokenDecimals))

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Supply · "+scenario),
		table.View(),
	)
}

// RenderEquilibrium renders one simulation result.
func RenderEquilibrium(scenario string, res equilibrium.Result) string {
	table := NewTable(
		Column{Header: "Metric", Align: lipgloss.Left},
		Column{Header: "Value", Align: lipgloss.Right},
	)
	table.AddRow("Outcome", outcomeStyle(res.Outcome()).Render(res.Outcome()))
	table.AddRow("Rounds", strconv.Itoa(res.RoundsRun))
	if res.Stalled {
		table.AddRow("Stalled at round", strconv.Itoa(res.StalledAt))
	}
	table.AddRow("Mints / burns", fmt.Sprintf("%d / %d", res.Mints, res.Burns))
	table.AddRow("Supply created", signed(res.SupplyCreated, curve.TokenDecimals))
	table.AddRow("USD extracted", signed(res.USDExtracted, curve.USDDecimals))
	table.AddRow("Final price", fixed(res.FinalPrice, 8))
	table.AddRow("Final supply", fixed(res.FinalSupply, curve.TokenDecimals))
	table.AddRow("Initial break-even", optional(res.InitialBreakEven))
	table.AddRow("Current break-even", optional(res.CurrentBreakEven))

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Equilibrium · "+scenario),
		table.View(),
	)
}

// RenderSweep renders one summary row per scenario.
func RenderSweep(results []engine.SweepResult) string {
	table := NewTable(
		Column{Header: "Scenario", Align: lipgloss.Left},
		Column{Header: "Break-even", Align: lipgloss.Right},
		Column{Header: "Outcome", Align: lipgloss.Left},
		Column{Header: "Rounds", Align: lipgloss.Right},
		Column{Header: "Supply created", Align: lipgloss.Right},
		Column{Header: "USD extracted", Align: lipgloss.Right},
		Column{Header: "Final price", Align: lipgloss.Right},
	)
	for _, r := range results {
		var be *float64
		if r.Curve.BreakEven != nil {
			be = &r.Curve.BreakEven.P
		}
		table.AddRow(
			r.Scenario,
			optional(be),
			outcomeStyle(r.Equilibrium.Outcome()).Render(r.Equilibrium.Outcome()),
			strconv.Itoa(r.Equilibrium.RoundsRun),
			signed(r.Equilibrium.SupplyCreated, curve.TokenDecimals),
			signed(r.Equilibrium.USDExtracted, curve.USDDecimals),
			fixed(r.Equilibrium.FinalPrice, 8),
		)
	}

	var title strings.Builder
	title.WriteString(titleStyle.Render(fmt.Sprintf("Sweep · %d scenarios", len(results))))
	if len(results) > 0 && results[0].RunID != "" {
		title.WriteString(" ")
		title.WriteString(mutedStyle.Render(results[0].RunID))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title.String(), table.View())
}

func fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

func signed(v float64, places int32) string {
	s := fixed(v, places)
	palette := DefaultPalette()
	switch {
	case v > 0:
		return lipgloss.NewStyle().Foreground(palette.Success).Render("+" + s)
	case v < 0:
		return lipgloss.NewStyle().Foreground(palette.Error).Render(s)
	default:
		return s
	}
}

func optional(v *float64) string {
	if v == nil {
		return mutedStyle.Render("—")
	}
	return fixed(*v, curve.TokenDecimals)
}
