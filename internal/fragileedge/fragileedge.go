// Package fragileedge implements the non-veto advisory that flags a
// strategy's edge as statistically fragile: near the hurdle, with a
// severe tail, or highly L-sensitive.
package fragileedge

import (
	"math"

	"github.com/ohlcquant/palvalidator/internal/robustness"
)

// Advice is the advisory decision.
type Advice int

const (
	Keep Advice = iota
	Downweight
	Drop
)

func (a Advice) String() string {
	switch a {
	case Keep:
		return "Keep"
	case Downweight:
		return "Downweight"
	case Drop:
		return "Drop"
	default:
		return "Unknown"
	}
}

// DownweightFactor is the weight applied to a Downweight-advised
// strategy in downstream aggregation, per spec 4.16.
const DownweightFactor = 0.5

// Thresholds bundles the advisory's configurable tolerances, layered on
// top of the robustness stage's shared near-hurdle/tail thresholds.
type Thresholds struct {
	robustness.Thresholds
	RelVarDrop       float64
	RelVarDownweight float64
	MinNDownweight   int
}

// DefaultThresholds mirrors spec 4.16's stated defaults.
var DefaultThresholds = Thresholds{
	Thresholds:       robustness.DefaultThresholds,
	RelVarDrop:       0.40,
	RelVarDownweight: 0.25,
	MinNDownweight:   40,
}

// Inputs are the per-strategy figures the advisory reasons over.
type Inputs struct {
	LBAnnual float64
	Hurdle   float64
	Q05      float64
	ES05     float64
	LBPerGM  float64
	RelVar   float64
	N        int
}

// Evaluate returns the advisory decision for one strategy.
func Evaluate(in Inputs, t Thresholds) Advice {
	nearHurdle := robustness.NearHurdle(in.LBAnnual, in.Hurdle, t.Thresholds)
	severeTail := math.Abs(in.Q05) > t.TailMultiple*math.Abs(in.LBPerGM) ||
		math.Abs(in.ES05) > t.TailMultiple*math.Abs(in.LBPerGM)

	if (severeTail && nearHurdle) || (in.RelVar > t.RelVarDrop && nearHurdle) {
		return Drop
	}
	if severeTail || in.RelVar > t.RelVarDownweight || in.N < t.MinNDownweight {
		return Downweight
	}
	return Keep
}
