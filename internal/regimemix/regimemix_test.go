package regimemix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVolatilityTercileLabelerLabelsEveryBar(t *testing.T) {
	returns := make([]float64, 90)
	for i := range returns {
		switch {
		case i < 30:
			returns[i] = 0.0005
		case i < 60:
			returns[i] = 0.002
		default:
			returns[i] = 0.02
		}
	}
	labels := VolatilityTercileLabeler{Window: 10}.Label(returns)
	require.Len(t, labels, len(returns))

	seen := map[Regime]bool{}
	for _, l := range labels {
		seen[l] = true
	}
	require.True(t, seen[RegimeLow] || seen[RegimeMid] || seen[RegimeHigh])
}

func TestEvaluatePassesOnConstantProfitableReturns(t *testing.T) {
	returns := make([]float64, 80)
	for i := range returns {
		returns[i] = 0.01
	}
	labels := VolatilityTercileLabeler{Window: 10}.Label(returns)
	res := Evaluate(returns, labels, DefaultMixes(), 5, 200, 0.95, 252, 0.05, 0.6, 9)
	require.True(t, res.Pass)
	require.Equal(t, len(DefaultMixes()), res.PassCount)
}

func TestEvaluateNoMixesPassesTrivially(t *testing.T) {
	res := Evaluate([]float64{0.01, 0.02}, []Regime{RegimeLow, RegimeHigh}, nil, 2, 50, 0.95, 252, 0.0, 0.5, 1)
	require.True(t, res.Pass)
}
