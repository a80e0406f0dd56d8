package robustness

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func flatReturns(n int, mean float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean
	}
	return out
}

func TestNearHurdleAbsoluteAndRelative(t *testing.T) {
	th := DefaultThresholds
	require.True(t, NearHurdle(0.10, 0.105, th))
	require.True(t, NearHurdle(0.10, 0.11, th))
	require.False(t, NearHurdle(0.10, 0.50, th))
}

func TestRelVarZeroWhenMaxNonPositive(t *testing.T) {
	require.Equal(t, 0.0, RelVar([]float64{-0.1, -0.2, -0.05}))
}

func TestSplitSampleNotApplicableBelowMinimumSize(t *testing.T) {
	p := Params{Returns: flatReturns(30, 0.001), Resamples: 50, Confidence: 0.95, Seed: 1, Thresholds: DefaultThresholds}
	res := SplitSample(p)
	require.False(t, res.Applicable)
	require.True(t, res.Pass)
}

func TestSplitSampleDetectsDivergingHalves(t *testing.T) {
	returns := append(flatReturns(50, 0.004), flatReturns(50, -0.002)...)
	p := Params{Returns: returns, MedianHoldingBars: 5, Hurdle: 0.02, Resamples: 300, Confidence: 0.95, Seed: 11, Thresholds: DefaultThresholds}
	res := SplitSample(p)
	require.True(t, res.Applicable)
	require.False(t, res.Pass)
}

func TestTailRiskPassesWhenNotSevere(t *testing.T) {
	p := Params{Returns: flatReturns(40, 0.002), Hurdle: 0.01, Thresholds: DefaultThresholds}
	res := TailRisk(p, 0.002, 0.3)
	require.True(t, res.Pass)
}
