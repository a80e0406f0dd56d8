package backtester

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ohlcquant/palvalidator/internal/broker"
	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/position"
	"github.com/ohlcquant/palvalidator/internal/timeseries"
)

func makeClosedTrade(number int, side position.UnitSide, entryPrice, exitPrice float64, holdingBars int) broker.ClosedTrade {
	entryBar := timeseries.Bar{
		Timestamp: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Open:      decimalx.NewFromFloat(entryPrice),
		High:      decimalx.NewFromFloat(entryPrice),
		Low:       decimalx.NewFromFloat(entryPrice),
		Close:     decimalx.NewFromFloat(entryPrice),
		Volume:    decimalx.NewFromInt(1000),
	}
	u := position.NewUnit(number, "TEST", side, entryBar, decimalx.NewFromFloat(entryPrice), decimalx.One)
	u.BarsSinceEntry = holdingBars
	u.Close(entryBar.Timestamp.AddDate(0, 0, holdingBars), decimalx.NewFromFloat(exitPrice))
	return broker.ClosedTrade{Unit: u}
}

func TestMedianIntOddAndEven(t *testing.T) {
	require.Equal(t, 3, medianInt([]int{5, 1, 3}))
	require.Equal(t, 3, medianInt([]int{1, 2, 4, 5}))
	require.Equal(t, 0, medianInt(nil))
}

func TestSummarizeComputesProfitFactorAndMedianHolding(t *testing.T) {
	trades := []broker.ClosedTrade{
		makeClosedTrade(1, position.UnitLong, 100, 110, 3),
		makeClosedTrade(2, position.UnitLong, 100, 105, 5),
		makeClosedTrade(3, position.UnitLong, 100, 95, 1),
	}

	stats := summarize(trades)
	require.Equal(t, 3, stats.Count)
	require.Equal(t, 2, stats.Wins)
	require.Equal(t, 1, stats.Losses)
	require.Equal(t, 3, stats.MedianHoldingPeriodBars)
	require.True(t, stats.ProfitFactor.GreaterThan(decimalx.One), "gross wins must exceed gross losses here")
}

func TestSummarizeShortSideFlipsSign(t *testing.T) {
	trade := makeClosedTrade(1, position.UnitShort, 100, 90, 2)
	require.True(t, trade.IsWin(), "a short that falls in price is a win")

	stats := summarize([]broker.ClosedTrade{trade})
	require.Equal(t, 1, stats.Wins)
	require.Equal(t, 0, stats.Losses)
}

func TestSummarizeNoTradesReturnsZeroValue(t *testing.T) {
	stats := summarize(nil)
	require.Equal(t, 0, stats.Count)
	require.True(t, stats.ProfitFactor.IsZero())
}
