package metastrategy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/hurdle"
)

func TestCombineEqualWeightTruncatesToShortest(t *testing.T) {
	survivors := []Survivor{
		{Name: "a", Returns: []float64{0.01, 0.02, 0.03}},
		{Name: "b", Returns: []float64{0.02, 0.00}},
	}
	combined := CombineEqualWeight(survivors)
	require.Len(t, combined, 2)
	require.InDelta(t, 0.015, combined[0], 1e-9)
	require.InDelta(t, 0.01, combined[1], 1e-9)
}

func TestMedianOfMedianHoldingPeriodsClampsAtTwo(t *testing.T) {
	survivors := []Survivor{{MedianHoldingPeriodBars: 1}, {MedianHoldingPeriodBars: 1}}
	require.Equal(t, 2, MedianOfMedianHoldingPeriods(survivors))
}

func TestEvaluatePassesProfitableMeta(t *testing.T) {
	returns := make([]float64, 80)
	for i := range returns {
		returns[i] = 0.01
	}
	survivors := []Survivor{
		{Name: "a", Returns: returns, MedianHoldingPeriodBars: 5},
		{Name: "b", Returns: returns, MedianHoldingPeriodBars: 7},
	}
	cfg := hurdle.Config{ConfiguredSlippage: decimalx.NewFromFloat(0.0005)}
	res := Evaluate(survivors, cfg, 0.01, 300, 0.95, 252, 3)
	require.True(t, res.Pass)
}
