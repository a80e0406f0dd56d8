// Package regimemix labels each bar of a return series with a
// deterministic regime and re-validates a strategy's bootstrap lower
// bound under several reweighted target mixes of those regimes.
package regimemix

import (
	"math"

	"github.com/ohlcquant/palvalidator/internal/statx"
)

// Regime is a bar's deterministic classification.
type Regime int

const (
	RegimeLow Regime = iota
	RegimeMid
	RegimeHigh
)

// Labeler assigns a Regime to every bar of a return series.
type Labeler interface {
	Label(returns []float64) []Regime
}

// VolatilityTercileLabeler buckets bars into low/mid/high volatility
// terciles using a trailing rolling standard deviation of window Bars,
// the same rolling-variance recurrence the teacher's ZScore indicator
// uses, classified against the full-sample tercile cutoffs so labels
// are stable regardless of resample order.
type VolatilityTercileLabeler struct {
	Window int
}

var _ Labeler = VolatilityTercileLabeler{}

// Label returns one Regime per bar in returns.
func (l VolatilityTercileLabeler) Label(returns []float64) []Regime {
	n := len(returns)
	labels := make([]Regime, n)
	if n == 0 {
		return labels
	}
	window := l.Window
	if window < 2 {
		window = 2
	}

	vol := rollingStdDev(returns, window)
	lowCut := statx.Quantile(vol, 1.0/3)
	highCut := statx.Quantile(vol, 2.0/3)

	for i, v := range vol {
		switch {
		case v <= lowCut:
			labels[i] = RegimeLow
		case v >= highCut:
			labels[i] = RegimeHigh
		default:
			labels[i] = RegimeMid
		}
	}
	return labels
}

// rollingStdDev mirrors the teacher's ZScore rolling-sum recurrence,
// returning the trailing population stddev over window at each index
// (using the first window-1 bars' full-history stddev as a warm-up value).
func rollingStdDev(returns []float64, window int) []float64 {
	n := len(returns)
	out := make([]float64, n)
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		x := returns[i]
		sum += x
		sumSq += x * x
		if i >= window {
			y := returns[i-window]
			sum -= y
			sumSq -= y * y
		}
		count := float64(window)
		if i < window {
			count = float64(i + 1)
		}
		mean := sum / count
		variance := sumSq/count - mean*mean
		out[i] = math.Sqrt(math.Max(variance, 0))
	}
	return out
}
