// Package report renders comparison and experiment results as terminal
// tables for the CLI.
package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/greenhub/hubsim/internal/experiment"
	"github.com/greenhub/hubsim/internal/service"
	"github.com/greenhub/hubsim/internal/sim"
)

// ComparisonTable renders the baseline-vs-smart headline figures.
func ComparisonTable(cmp *service.Comparison) string {
	base := cmp.Baseline.Result.Summary
	smart := cmp.Smart.Result.Summary

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle("Baseline vs Smart")
	t.AppendHeader(table.Row{"Metric", "Baseline", "Smart", "Delta"})
	t.AppendRows([]table.Row{
		{"Grid energy (kWh)", kwh(base.TotalGridKWh), kwh(smart.TotalGridKWh), kwh(base.TotalGridKWh - smart.TotalGridKWh)},
		{"Solar energy (kWh)", kwh(base.SolarKWh), kwh(smart.SolarKWh), kwh(smart.SolarKWh - base.SolarKWh)},
		{"Cooling energy (kWh)", kwh(base.CoolingKWh), kwh(smart.CoolingKWh), kwh(base.CoolingKWh - smart.CoolingKWh)},
		{"Solar share (%)", pct(base.SolarPercentage), pct(smart.SolarPercentage), pct(smart.SolarPercentage - base.SolarPercentage)},
		{"Carbon (kg CO2)", kg(base.CarbonKg), kg(smart.CarbonKg), kg(base.CarbonKg - smart.CarbonKg)},
		{"Deadline violations", base.DeadlineViolations, smart.DeadlineViolations, base.DeadlineViolations - smart.DeadlineViolations},
		{"Total cost", money(base.TotalCost), money(smart.TotalCost), money(base.TotalCost - smart.TotalCost)},
	})
	t.AppendFooter(table.Row{"Savings", "", "",
		fmt.Sprintf("cost %.1f%% / grid %.1f%%", cmp.CostSavingsPct, cmp.GridSavingsPct)})

	return t.Render()
}

// TimelineTable renders when each job ran under a policy.
func TimelineTable(policy string, entries []sim.TimelineEntry) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Job timeline (%s)", policy))
	t.AppendHeader(table.Row{"Job", "Priority", "Power (kW)", "Start", "End", "Done", "Missed deadline"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.Name, e.Priority, fmt.Sprintf("%.1f", e.PowerKW),
			hourLabel(e.StartHour), hourLabel(e.EndHour),
			yesNo(e.Completed), yesNo(e.DeadlineMissed),
		})
	}
	return t.Render()
}

// SummaryTable renders experiment batch statistics.
func SummaryTable(s experiment.Summary) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Experiment summary (%d trials)", s.Trials))
	t.AppendHeader(table.Row{"Metric", "Baseline", "Smart"})
	t.AppendRows([]table.Row{
		{"Mean cost", money(s.MeanBaselineCost), money(s.MeanSmartCost)},
		{"Cost stddev", money(s.StdDevBaselineCost), money(s.StdDevSmartCost)},
		{"Mean grid energy (kWh)", kwh(s.MeanBaselineGridKWh), kwh(s.MeanSmartGridKWh)},
		{"Mean solar energy (kWh)", kwh(s.MeanBaselineSolar), kwh(s.MeanSmartSolar)},
		{"Deadline violations", s.BaselineViolations, s.SmartViolations},
	})
	t.AppendFooter(table.Row{"Savings",
		fmt.Sprintf("cost %.1f%%", s.CostSavingsPct),
		fmt.Sprintf("grid %.1f%% / %.2f kg CO2 per trial", s.GridSavingsPct, s.MeanCarbonSavedKg)})

	return t.Render()
}

func kwh(v float64) string   { return fmt.Sprintf("%.2f", v) }
func kg(v float64) string    { return fmt.Sprintf("%.2f", v) }
func pct(v float64) string   { return fmt.Sprintf("%.1f", v) }
func money(v float64) string { return fmt.Sprintf("%.2f", v) }

func hourLabel(hour float64) string {
	h := int(hour)
	m := int((hour - float64(h)) * 60)
	return fmt.Sprintf("%02d:%02d", h%24, m)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
