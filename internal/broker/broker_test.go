package broker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/order"
	"github.com/ohlcquant/palvalidator/internal/portfolio"
	"github.com/ohlcquant/palvalidator/internal/security"
	"github.com/ohlcquant/palvalidator/internal/timeseries"
)

func bar(t time.Time, o, h, l, c float64) timeseries.Bar {
	return timeseries.Bar{
		Timestamp: t,
		Open:      decimalx.NewFromFloat(o),
		High:      decimalx.NewFromFloat(h),
		Low:       decimalx.NewFromFloat(l),
		Close:     decimalx.NewFromFloat(c),
		Volume:    decimalx.NewFromInt(1000),
	}
}

func testPortfolio(t *testing.T, bars []timeseries.Bar) *portfolio.Portfolio {
	t.Helper()
	series, err := timeseries.New("TEST", bars)
	require.NoError(t, err)
	attrs := security.DefaultEquityAttributes(false, bars[0].Timestamp)
	sec := security.New("TEST", "Test Security", attrs, series)
	p := portfolio.New()
	require.NoError(t, p.Add(sec))
	return p
}

func TestSubmitEntryFillsOnNextOpen(t *testing.T) {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []timeseries.Bar{
		bar(base, 100, 101, 99, 100.5),
		bar(base.AddDate(0, 0, 1), 101, 102, 100, 101.5),
	}
	p := testPortfolio(t, bars)
	b := New(p)

	entry := order.NewMarketOnOpenLong("TEST", decimalx.NewFromInt(1), bars[1].Timestamp)
	b.SubmitEntry(entry)

	b.ProcessPending(bars[0].Timestamp)
	require.Equal(t, order.StatePending, entry.State, "entry must not fill before its requested bar")

	b.ProcessPending(bars[1].Timestamp)
	require.Equal(t, order.StateExecuted, entry.State)

	ip := b.Positions().Get("TEST")
	units := ip.Units()
	require.Len(t, units, 1)
	require.True(t, units[0].EntryPrice.Equal(decimalx.NewFromFloat(101)))
}

func TestUnitExitCancelsComplement(t *testing.T) {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []timeseries.Bar{
		bar(base, 100, 101, 99, 100.5),
		bar(base.AddDate(0, 0, 1), 100, 101, 99, 100.5),
		bar(base.AddDate(0, 0, 2), 100, 110, 90, 105),
	}
	p := testPortfolio(t, bars)
	b := New(p)

	entry := order.NewMarketOnOpenLong("TEST", decimalx.NewFromInt(1), bars[1].Timestamp)
	b.SubmitEntry(entry)
	b.ProcessPending(bars[0].Timestamp)
	b.ProcessPending(bars[1].Timestamp)
	require.Equal(t, order.StateExecuted, entry.State)

	ip := b.Positions().Get("TEST")
	units := ip.Units()
	require.Len(t, units, 1)
	unitNumber := units[0].Number

	require.NoError(t, b.SubmitExitUnitAtLimit("TEST", decimalx.NewFromInt(1), bars[2].Timestamp, decimalx.NewFromFloat(103), unitNumber, true))
	require.NoError(t, b.SubmitExitUnitAtStop("TEST", decimalx.NewFromInt(1), bars[2].Timestamp, decimalx.NewFromFloat(95), unitNumber, true))

	pending := b.orders.Pending()
	require.Len(t, pending, 2)
	var limitOrder, stopOrder *order.Order
	for _, o := range pending {
		if o.Kind == order.KindLimit {
			limitOrder = o
		} else if o.Kind == order.KindStop {
			stopOrder = o
		}
	}
	require.NotNil(t, limitOrder)
	require.NotNil(t, stopOrder)

	b.ProcessPending(bars[2].Timestamp)

	require.Equal(t, order.StateExecuted, limitOrder.State, "limit should fill since the bar's high clears it")
	require.Equal(t, order.StateCanceled, stopOrder.State, "sibling stop must be canceled once the limit fills")

	require.Len(t, b.ClosedTrades(), 1)
	trade := b.ClosedTrades()[0]
	require.True(t, trade.IsWin())
}

func TestAllUnitExitClosesEveryUnit(t *testing.T) {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []timeseries.Bar{
		bar(base, 100, 101, 99, 100.5),
		bar(base.AddDate(0, 0, 1), 100, 101, 99, 100.5),
		bar(base.AddDate(0, 0, 2), 100, 101, 99, 100.5),
	}
	p := testPortfolio(t, bars)
	b := New(p)

	e1 := order.NewMarketOnOpenLong("TEST", decimalx.NewFromInt(1), bars[1].Timestamp)
	e2 := order.NewMarketOnOpenLong("TEST", decimalx.NewFromInt(1), bars[1].Timestamp)
	b.SubmitEntry(e1)
	b.SubmitEntry(e2)
	b.ProcessPending(bars[0].Timestamp)
	b.ProcessPending(bars[1].Timestamp)

	ip := b.Positions().Get("TEST")
	require.Len(t, ip.Units(), 2)

	exitAll := order.NewSellOnOpen("TEST", decimalx.NewFromInt(2), bars[2].Timestamp, 0)
	b.SubmitUnitExit(exitAll, ip.Units()[0].ID)
	b.ProcessPending(bars[2].Timestamp)

	require.Empty(t, ip.Units(), "all open units must be closed by the all-unit exit")
	require.Len(t, b.ClosedTrades(), 2)
}
