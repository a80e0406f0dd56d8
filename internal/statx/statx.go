// Package statx wraps gonum.org/v1/gonum/stat's mean/stddev primitives,
// plus a type-7 quantile computed directly, for the return-vector
// statistics the bootstrap, tail-risk
// and divergence stages need, mirroring how quantum-zig-forge's
// pairs_trading.go reaches for stat.Mean/stat.StdDev/stat.Correlation
// in the retrieved pack.
package statx

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of xs, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// GeometricMean returns exp(mean(log(1+r)))-1 over returns xs.
func GeometricMean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	logs := make([]float64, len(xs))
	for i, r := range xs {
		logs[i] = math.Log(1 + r)
	}
	return math.Exp(stat.Mean(logs, nil)) - 1
}

// StdDev returns the sample standard deviation of xs.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}

// Quantile returns the type-7 (Excel/NumPy default, linear
// interpolation between order statistics) quantile of xs at
// probability p in [0,1].
func Quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// ExpectedShortfall returns the mean of the worst alpha-fraction of xs
// (e.g. alpha=0.05 for ES05), using a fractional boundary weight
// consistent with the type-7 quantile definition so the cutoff
// observation is partially included rather than rounded.
func ExpectedShortfall(xs []float64, alpha float64) float64 {
	if len(xs) == 0 || alpha <= 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	target := alpha * n // fractional count of observations in the tail
	sum := 0.0
	whole := int(math.Floor(target))
	for i := 0; i < whole && i < len(sorted); i++ {
		sum += sorted[i]
	}
	frac := target - float64(whole)
	if frac > 0 && whole < len(sorted) {
		sum += frac * sorted[whole]
	}
	if target == 0 {
		return sorted[0]
	}
	return sum / target
}

// Annualize converts a per-period rate x to an annualized rate via
// (1+x)^k - 1, where k is the bars-per-year factor derived from the
// series' dominant interval or the calendar timeframe.
func Annualize(x, k float64) float64 {
	return math.Pow(1+x, k) - 1
}
