package bootstrap

import "github.com/ohlcquant/palvalidator/internal/statx"

// BlockLength returns the stationary bootstrap's mean block length L,
// the median holding period floored at 2 bars.
func BlockLength(medianHoldingPeriodBars int) int {
	if medianHoldingPeriodBars < 2 {
		return 2
	}
	return medianHoldingPeriodBars
}

// Result is the bootstrap stage's output: per-period BCa intervals for
// both statistics, their annualized counterparts, and the parameters
// that produced them.
type Result struct {
	BlockLength         int
	Resamples           int
	Confidence          float64
	AnnualizationFactor float64

	AM         Interval
	GM         Interval
	PF         *Interval
	AMAnnual   Interval
	GMAnnual   Interval
}

// Params bundles the bootstrap stage's tunables.
type Params struct {
	Resamples          int
	Confidence         float64
	AnnualizationFactor float64
	Seed               uint64
	WithProfitFactor   bool
}

// Evaluate runs the full bootstrap stage over returns: BCa for AM and
// GM (and optionally PF), each annualized by params.AnnualizationFactor.
func Evaluate(returns []float64, blockLength int, params Params) Result {
	am := Run(returns, ArithmeticMean, blockLength, params.Resamples, params.Confidence, params.Seed)
	gm := Run(returns, GeometricMean, blockLength, params.Resamples, params.Confidence, params.Seed+1)

	res := Result{
		BlockLength:         blockLength,
		Resamples:           params.Resamples,
		Confidence:          params.Confidence,
		AnnualizationFactor: params.AnnualizationFactor,
		AM:                  am,
		GM:                  gm,
		AMAnnual:            annualizeInterval(am, params.AnnualizationFactor),
		GMAnnual:             annualizeInterval(gm, params.AnnualizationFactor),
	}
	if params.WithProfitFactor {
		pf := Run(returns, ProfitFactorRatio, blockLength, params.Resamples, params.Confidence, params.Seed+2)
		res.PF = &pf
	}
	return res
}

func annualizeInterval(iv Interval, k float64) Interval {
	return Interval{
		PointEstimate: statx.Annualize(iv.PointEstimate, k),
		LB:            statx.Annualize(iv.LB, k),
		UB:            statx.Annualize(iv.UB, k),
		Degenerate:    iv.Degenerate,
	}
}
