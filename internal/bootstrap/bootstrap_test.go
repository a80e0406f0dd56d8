package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func constantReturns(n int, r float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = r
	}
	return out
}

func TestStationaryBlockResampleLengthAndWrap(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	returns := []float64{0.01, 0.02, -0.01, 0.03, -0.02}
	out := StationaryBlockResample(rng, returns, 2)
	require.Len(t, out, len(returns))
	for _, v := range out {
		require.Contains(t, returns, v)
	}
}

func TestRunConstantReturnsCollapsesInterval(t *testing.T) {
	returns := constantReturns(60, 0.01)
	iv := Run(returns, ArithmeticMean, 3, 500, 0.95, 7)
	require.InDelta(t, 0.01, iv.PointEstimate, 1e-9)
	require.InDelta(t, 0.01, iv.LB, 1e-9)
	require.InDelta(t, 0.01, iv.UB, 1e-9)
}

func TestRunDegeneratesOnEmptyReturns(t *testing.T) {
	iv := Run(nil, ArithmeticMean, 2, 100, 0.95, 1)
	require.True(t, iv.Degenerate)
}

func TestEvaluateAnnualizesBothStatistics(t *testing.T) {
	returns := append(constantReturns(30, 0.002), constantReturns(30, -0.001)...)
	res := Evaluate(returns, BlockLength(5), Params{
		Resamples:          200,
		Confidence:         0.95,
		AnnualizationFactor: 252,
		Seed:               42,
	})
	require.Equal(t, 5, res.BlockLength)
	require.True(t, res.AMAnnual.LB <= res.AMAnnual.UB || res.AMAnnual.Degenerate)
	require.True(t, res.GMAnnual.LB <= res.GMAnnual.UB || res.GMAnnual.Degenerate)
}

func TestBlockLengthFloorsAtTwo(t *testing.T) {
	require.Equal(t, 2, BlockLength(0))
	require.Equal(t, 2, BlockLength(1))
	require.Equal(t, 7, BlockLength(7))
}
