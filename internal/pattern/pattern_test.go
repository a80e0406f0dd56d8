package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/security"
	"github.com/ohlcquant/palvalidator/internal/timeseries"
)

func mustSecurity(t *testing.T, bars []timeseries.Bar) *security.Security {
	t.Helper()
	series, err := timeseries.New("TEST", bars)
	require.NoError(t, err)
	attrs := security.DefaultEquityAttributes(true, bars[0].Timestamp)
	return security.New("TEST", "Test Co", attrs, series)
}

func bar(day int, o, h, l, c float64) timeseries.Bar {
	return timeseries.Bar{
		Timestamp: time.Date(2020, 1, day, 0, 0, 0, 0, time.UTC),
		Open:      decimalx.NewFromFloat(o),
		High:      decimalx.NewFromFloat(h),
		Low:       decimalx.NewFromFloat(l),
		Close:     decimalx.NewFromFloat(c),
		Volume:    decimalx.NewFromInt(1000),
	}
}

func TestIBS1(t *testing.T) {
	bars := []timeseries.Bar{bar(1, 10, 12, 8, 11)}
	sec := mustSecurity(t, bars)
	ts := bars[0].Timestamp

	got, err := ibs1At(sec, ts, 0)
	require.NoError(t, err)
	// (11-8)/(12-8) * 100 = 75
	require.True(t, got.Equal(decimalx.NewFromInt(75)))
}

func TestIBS1FlatRange(t *testing.T) {
	bars := []timeseries.Bar{bar(1, 10, 10, 10, 10)}
	sec := mustSecurity(t, bars)
	got, err := ibs1At(sec, bars[0].Timestamp, 0)
	require.NoError(t, err)
	require.True(t, got.IsZero())
}

func TestCompileAndTrueWhenBothSidesHold(t *testing.T) {
	bars := []timeseries.Bar{
		bar(1, 10, 12, 8, 11),
		bar(2, 11, 13, 9, 12),
	}
	sec := mustSecurity(t, bars)
	ts := bars[1].Timestamp

	expr := And{
		LeftExpr:  GreaterThan{LeftExpr: PriceRef{FieldName: Close, Offset: 0}, RightExpr: PriceRef{FieldName: Close, Offset: 1}},
		RightExpr: GreaterThan{LeftExpr: PriceRef{FieldName: High, Offset: 0}, RightExpr: PriceRef{FieldName: Low, Offset: 0}},
	}
	pred := Compile(expr)
	require.True(t, pred(sec, ts))
}

func TestCompileFoldsMissingDataToFalse(t *testing.T) {
	bars := []timeseries.Bar{bar(1, 10, 12, 8, 11)}
	sec := mustSecurity(t, bars)
	ts := bars[0].Timestamp

	// Offset 5 walks off the head of a 1-bar series.
	expr := GreaterThan{LeftExpr: PriceRef{FieldName: Close, Offset: 5}, RightExpr: PriceRef{FieldName: Close, Offset: 0}}
	pred := Compile(expr)
	require.False(t, pred(sec, ts))
}

func TestCompileStrictSurfacesError(t *testing.T) {
	bars := []timeseries.Bar{bar(1, 10, 12, 8, 11)}
	sec := mustSecurity(t, bars)
	ts := bars[0].Timestamp

	expr := GreaterThan{LeftExpr: PriceRef{FieldName: Close, Offset: 5}, RightExpr: PriceRef{FieldName: Close, Offset: 0}}
	pred := CompileStrict(expr)
	_, err := pred(sec, ts)
	require.Error(t, err)
}

func TestMeanderZeroPrevCloseFoldsToFalse(t *testing.T) {
	bars := []timeseries.Bar{
		bar(1, 0, 1, 0, 0),
		bar(2, 1, 1, 1, 1),
		bar(3, 1, 1, 1, 1),
		bar(4, 1, 1, 1, 1),
		bar(5, 1, 1, 1, 1),
		bar(6, 1, 1, 1, 1),
	}
	sec := mustSecurity(t, bars)
	ts := bars[5].Timestamp

	expr := GreaterThan{LeftExpr: Meander{BaseOffset: 0}, RightExpr: PriceRef{FieldName: Close, Offset: 0}}
	pred := Compile(expr)
	require.False(t, pred(sec, ts))
}

func TestValueChartHighZeroVolatilityUnit(t *testing.T) {
	bars := make([]timeseries.Bar, 0, 6)
	for d := 1; d <= 6; d++ {
		bars = append(bars, bar(d, 5, 5, 5, 5))
	}
	sec := mustSecurity(t, bars)
	ts := bars[5].Timestamp

	v := ValueChartHigh{BaseOffset: 0}
	got, err := v.eval(sec, ts)
	require.NoError(t, err)
	require.True(t, got.IsZero())
}
