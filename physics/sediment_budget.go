package physics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SedimentBudget summarizes the erosion field set's sediment load across
// every cell: total mass plus its mean/stddev, used to catch a runaway
// accumulation or drain that per-cell rate laws alone wouldn't surface.
type SedimentBudget struct {
	TotalLoad float64
	MeanLoad  float64
	StdDev    float64
}

// sedimentBudgetWarnThreshold is the standard-deviation-to-mean ratio past
// which the budget is reported as an outlier (diagnostics "sediment_budget").
const sedimentBudgetWarnThreshold = 5.0

// SedimentBudgetReport computes the current sediment-conservation
// statistics over fs.Sediment and reports a diagnostic if the
// distribution has become extremely uneven (a symptom of a runaway
// transport/deposition imbalance rather than any single rate law).
func (e *ErosionEngine) SedimentBudgetReport(fs *ErosionFieldSet) SedimentBudget {
	_, _, _, data := fs.Sediment.Snapshot()
	mean, std := stat.MeanStdDev(data, nil)
	total := floats.Sum(data)

	budget := SedimentBudget{TotalLoad: total, MeanLoad: mean, StdDev: std}
	if mean > 0 && std/mean > sedimentBudgetWarnThreshold {
		e.Diagnostics.Warnf("sediment_budget", "sediment load stddev/mean ratio %.2f exceeds %.2f (mean=%.3f, total=%.1f)",
			std/mean, sedimentBudgetWarnThreshold, mean, total)
	}
	return budget
}
