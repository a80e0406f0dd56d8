// Package divergence implements the AM-GM divergence advisor: it never
// accepts or rejects a strategy, it only gates whether the robustness
// cascade runs at all.
package divergence

import "math"

// Thresholds bundles the advisor's configurable tolerances.
type Thresholds struct {
	AbsThreshold float64 // default 0.05
	RelThreshold float64 // default 0.30
}

// DefaultThresholds mirrors spec 4.17's stated defaults.
var DefaultThresholds = Thresholds{AbsThreshold: 0.05, RelThreshold: 0.30}

// Result is the advisor's output.
type Result struct {
	Abs      float64
	Rel      float64
	Flagged  bool
}

// Evaluate computes |LB_ann(GM) - LB_ann(AM)| and, when max(GM, AM) > 0,
// the relative divergence abs/max, flagging when either exceeds
// threshold.
func Evaluate(lbAnnualGM, lbAnnualAM float64, t Thresholds) Result {
	abs := math.Abs(lbAnnualGM - lbAnnualAM)
	peak := math.Max(lbAnnualGM, lbAnnualAM)

	rel := 0.0
	if peak > 0 {
		rel = abs / peak
	}

	flagged := abs > t.AbsThreshold || rel > t.RelThreshold
	return Result{Abs: abs, Rel: rel, Flagged: flagged}
}
