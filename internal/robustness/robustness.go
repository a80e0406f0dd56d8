// Package robustness implements the validation pipeline's conditional
// diagnostic cascade: L-sensitivity, split-sample, and tail-risk checks
// run against a strategy's bootstrap result when triggered by AM-GM
// divergence, a near-hurdle baseline, or a small sample.
package robustness

import (
	"math"

	"github.com/ohlcquant/palvalidator/internal/bootstrap"
	"github.com/ohlcquant/palvalidator/internal/statx"
)

// Thresholds bundles the cascade's configurable tolerances.
type Thresholds struct {
	RelVarFail   float64 // broad L-sensitivity rel_var fail threshold, default 0.25
	NearAbs      float64 // absolute near-hurdle margin
	NearRel      float64 // relative near-hurdle margin, fraction of hurdle
	TailMultiple float64 // default 3
}

// DefaultThresholds mirrors spec 4.13/4.16's stated defaults.
var DefaultThresholds = Thresholds{
	RelVarFail:   0.25,
	NearAbs:      0.01,
	NearRel:      0.10,
	TailMultiple: 3,
}

// NearHurdle reports whether lbAnnual is within an absolute or relative
// margin of hurdle, the "borderline baseline" condition shared by the
// tail-risk stage and the fragile-edge advisory.
func NearHurdle(lbAnnual, hurdle float64, t Thresholds) bool {
	gap := math.Abs(lbAnnual - hurdle)
	if gap <= t.NearAbs {
		return true
	}
	if hurdle != 0 && gap <= t.NearRel*math.Abs(hurdle) {
		return true
	}
	return false
}

// RelVar returns (max-min)/max across a set of annualized LBs, 0 when
// max <= 0 (there is no meaningful spread to report).
func RelVar(lbs []float64) float64 {
	if len(lbs) == 0 {
		return 0
	}
	maxLB, minLB := lbs[0], lbs[0]
	for _, v := range lbs[1:] {
		if v > maxLB {
			maxLB = v
		}
		if v < minLB {
			minLB = v
		}
	}
	if maxLB <= 0 {
		return 0
	}
	return (maxLB - minLB) / maxLB
}

// SevereTail reports whether |q05| or |ES05| exceeds tailMultiple times
// the per-period GM lower bound, per spec 4.13/4.16.
func SevereTail(q05, es05, lbPerGM float64, t Thresholds) bool {
	bound := t.TailMultiple * math.Abs(lbPerGM)
	return math.Abs(q05) > bound || math.Abs(es05) > bound
}

// Params are the inputs shared by every cascade stage.
type Params struct {
	Returns             []float64
	MedianHoldingBars   int
	Hurdle              float64
	AnnualizationFactor float64
	Confidence          float64
	Resamples           int
	Seed                uint64
	Thresholds          Thresholds
}

func bcaGMAnnualLB(returns []float64, blockLength int, p Params, seedOffset uint64) float64 {
	iv := bootstrap.Run(returns, bootstrap.GeometricMean, blockLength, p.Resamples, p.Confidence, p.Seed+seedOffset)
	return annualizeLB(iv, p.AnnualizationFactor)
}

func annualizeLB(iv bootstrap.Interval, k float64) float64 {
	return statx.Annualize(iv.LB, k)
}
