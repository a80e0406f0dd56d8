package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ohlcquant/palvalidator/internal/backtester"
	"github.com/ohlcquant/palvalidator/internal/broker"
	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/pattern"
	"github.com/ohlcquant/palvalidator/internal/portfolio"
	"github.com/ohlcquant/palvalidator/internal/security"
	"github.com/ohlcquant/palvalidator/internal/timeseries"
)

func risingSecurity(t *testing.T, n int) *security.Security {
	t.Helper()
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]timeseries.Bar, n)
	price := 100.0
	for i := 0; i < n; i++ {
		price += 0.5
		amp := 0.05 * math.Sin(float64(i)/2.0)
		open := decimalx.NewFromFloat(price - amp)
		closeP := decimalx.NewFromFloat(price + amp)
		bars[i] = timeseries.Bar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      open,
			High:      decimalx.Max(open, closeP).Add(decimalx.NewFromFloat(0.2)),
			Low:       decimalx.Min(open, closeP).Sub(decimalx.NewFromFloat(0.2)),
			Close:     closeP,
			Volume:    decimalx.NewFromInt(1000),
		}
	}
	series, err := timeseries.New("TEST", bars)
	require.NoError(t, err)
	attrs := security.DefaultEquityAttributes(false, base)
	return security.New("TEST", "Test Security", attrs, series)
}

func alwaysUpPattern() Pattern {
	return Pattern{
		Name: "always-up",
		AST: pattern.GreaterThan{
			LeftExpr:  pattern.PriceRef{FieldName: pattern.Close, Offset: 0},
			RightExpr: pattern.PriceRef{FieldName: pattern.Close, Offset: 1},
		},
		Side:                Long,
		ProfitTargetPercent: decimalx.NewFromFloat(50), // effectively unreachable, isolates the pyramiding cap
		StopLossPercent:     decimalx.NewFromFloat(50),
	}
}

func runWithOptions(t *testing.T, opts Options) (*backtester.Result, *broker.Broker, string) {
	t.Helper()
	sec := risingSecurity(t, 60)
	p := portfolio.New()
	require.NoError(t, p.Add(sec))
	b := broker.New(p)
	s := NewPalStrategy("always-up", p, b, opts, alwaysUpPattern(), FixedUnitSizer{})
	bt := backtester.New(p, b, s, decimalx.NewFromInt(100000))

	dates := make([]time.Time, sec.Series().Len())
	for i, bar := range sec.Series().All() {
		dates[i] = bar.Timestamp
	}
	return bt.Run(dates), b, sec.Symbol()
}

func TestPyramidingDisabledCapsAtOneUnit(t *testing.T) {
	_, b, symbol := runWithOptions(t, Options{PyramidingEnabled: false})
	ip := b.Positions().Get(symbol)
	require.LessOrEqual(t, ip.UnitCount(), 1, "pyramiding disabled must never hold more than one open unit")
}

func TestPyramidingCapEnforced(t *testing.T) {
	_, b, symbol := runWithOptions(t, Options{PyramidingEnabled: true, MaxPyramidPositions: 2})
	ip := b.Positions().Get(symbol)
	require.LessOrEqual(t, ip.UnitCount(), 3, "at most 1 + MaxPyramidPositions units may ever be open at once")
	require.Greater(t, ip.UnitCount(), 1, "pyramiding enabled on a steadily rising series should open more than one unit")
}
