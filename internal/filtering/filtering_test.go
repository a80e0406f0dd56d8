package filtering

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohlcquant/palvalidator/internal/backtester"
	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/hurdle"
)

func TestRunFailsOnInsufficientData(t *testing.T) {
	cfg := DefaultConfig()
	stats := backtester.ClosedTradeStats{Count: 5, MedianHoldingPeriodBars: 3}
	returns := []float64{0.01, 0.02}
	decision := Run(cfg, returns, stats, 50, nil)
	require.False(t, decision.Pass)
	require.Equal(t, InsufficientData, decision.Kind)
}

func TestRunPassesCleanProfitableStrategy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resamples = 300
	cfg.Hurdle = hurdle.Config{ConfiguredSlippage: decimalx.NewFromFloat(0.0005)}
	cfg.AnnualizationFactor = 252
	cfg.RegimeMixes = nil // keep the unit test focused on the core gate

	returns := make([]float64, 120)
	for i := range returns {
		returns[i] = 0.01
	}
	stats := backtester.ClosedTradeStats{Count: 40, MedianHoldingPeriodBars: 5}

	decision := Run(cfg, returns, stats, 5, nil)
	require.True(t, decision.Pass, decision.Reason)
	require.NotNil(t, decision.Bootstrap)
}

func TestRunFailsOnHurdleForUnprofitableStrategy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Resamples = 200
	cfg.Hurdle = hurdle.Config{ConfiguredSlippage: decimalx.NewFromFloat(0.001)}
	cfg.AnnualizationFactor = 252

	returns := make([]float64, 100)
	for i := range returns {
		returns[i] = -0.002
	}
	stats := backtester.ClosedTradeStats{Count: 30, MedianHoldingPeriodBars: 4}

	decision := Run(cfg, returns, stats, 10, nil)
	require.False(t, decision.Pass)
	require.Equal(t, Hurdle, decision.Kind)
}

func TestSummaryRecordsCounts(t *testing.T) {
	s := NewSummary()
	s.Record(Decision{Pass: true})
	s.Record(Decision{Pass: false, Kind: Hurdle})
	s.Record(Decision{Pass: false, Kind: Hurdle})
	require.Equal(t, 3, s.Total)
	require.Equal(t, 1, s.Passed)
	require.Equal(t, 2, s.Counts[Hurdle])
}
