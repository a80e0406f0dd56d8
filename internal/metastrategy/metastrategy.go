// Package metastrategy forms the equal-weight meta-portfolio of
// survivor strategies and re-validates it as a single combined return
// series, per spec 4.20.
package metastrategy

import (
	"sort"

	"github.com/ohlcquant/palvalidator/internal/bootstrap"
	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/hurdle"
	"github.com/ohlcquant/palvalidator/internal/statx"
)

// Survivor is one accepted strategy's replay output feeding the
// meta-portfolio.
type Survivor struct {
	Name                    string
	Returns                 []float64
	MedianHoldingPeriodBars int
}

// CombineEqualWeight aligns k survivors' return vectors by truncating to
// the shortest length T and forms r_t = (1/k) * sum_i r_{i,t}.
func CombineEqualWeight(survivors []Survivor) []float64 {
	if len(survivors) == 0 {
		return nil
	}
	t := len(survivors[0].Returns)
	for _, s := range survivors[1:] {
		if len(s.Returns) < t {
			t = len(s.Returns)
		}
	}

	combined := make([]float64, t)
	k := float64(len(survivors))
	for _, s := range survivors {
		for i := 0; i < t; i++ {
			combined[i] += s.Returns[i] / k
		}
	}
	return combined
}

// MedianOfMedianHoldingPeriods returns the median across survivors'
// median holding periods, clamped >= 2 (the block length spec 4.20
// requires for the meta's own BCa-GM run).
func MedianOfMedianHoldingPeriods(survivors []Survivor) int {
	if len(survivors) == 0 {
		return 2
	}
	values := make([]int, len(survivors))
	for i, s := range survivors {
		values[i] = s.MedianHoldingPeriodBars
	}
	sort.Ints(values)
	n := len(values)
	median := values[n/2]
	if n%2 == 0 {
		median = (values[n/2-1] + values[n/2]) / 2
	}
	if median < 2 {
		return 2
	}
	return median
}

// Result is the meta-portfolio's validation outcome.
type Result struct {
	Combined []float64
	GMAnnual bootstrap.Interval
	Hurdle   float64
	Pass     bool
}

// Evaluate combines survivors, runs BCa-GM at the clamped median block
// length, annualizes, and compares to the legacy meta-hurdle (the
// buffered max of the portfolio's base cost hurdle and risk_free +
// risk_premium).
func Evaluate(survivors []Survivor, hurdleCfg hurdle.Config, baseHurdle float64, resamples int, confidence, annualizationFactor float64, seed uint64) Result {
	combined := CombineEqualWeight(survivors)
	blockLength := MedianOfMedianHoldingPeriods(survivors)

	iv := bootstrap.Run(combined, bootstrap.GeometricMean, blockLength, resamples, confidence, seed)
	gmAnnual := bootstrap.Interval{
		PointEstimate: statx.Annualize(iv.PointEstimate, annualizationFactor),
		LB:            statx.Annualize(iv.LB, annualizationFactor),
		UB:            statx.Annualize(iv.UB, annualizationFactor),
		Degenerate:    iv.Degenerate,
	}

	metaHurdleVal, _ := hurdle.MetaHurdle(hurdleCfg, decimalx.NewFromFloat(baseHurdle)).Float64()

	return Result{
		Combined: combined,
		GMAnnual: gmAnnual,
		Hurdle:   metaHurdleVal,
		Pass:     gmAnnual.LB > 0 && gmAnnual.LB > metaHurdleVal,
	}
}
