package bootstrap

import "github.com/ohlcquant/palvalidator/internal/statx"

// StatFunc summarizes a return vector into a single scalar (arithmetic
// mean, geometric mean, or a profit-factor-style ratio).
type StatFunc func(returns []float64) float64

// ArithmeticMean is the StatFunc for the per-period AM bootstrap stage.
func ArithmeticMean(returns []float64) float64 { return statx.Mean(returns) }

// GeometricMean is the StatFunc for the per-period GM bootstrap stage:
// exp(mean(log(1+r)))-1.
func GeometricMean(returns []float64) float64 { return statx.GeometricMean(returns) }

// ProfitFactorRatio is the optional PF statistic: gross gains over gross
// losses across the resampled return vector.
func ProfitFactorRatio(returns []float64) float64 {
	grossGain, grossLoss := 0.0, 0.0
	for _, r := range returns {
		if r >= 0 {
			grossGain += r
		} else {
			grossLoss += -r
		}
	}
	if grossLoss == 0 {
		return 0
	}
	return grossGain / grossLoss
}
