package timeseries

import (
	"fmt"
	"time"

	"github.com/ohlcquant/palvalidator/internal/decimalx"
)

// Bar is one OHLCV observation. Daily bars carry DefaultDailyTime as their
// time-of-day; intraday bars carry the real time-of-day.
type Bar struct {
	Timestamp time.Time
	Open      decimalx.Decimal
	High      decimalx.Decimal
	Low       decimalx.Decimal
	Close     decimalx.Decimal
	Volume    decimalx.Decimal
}

// DefaultDailyTime is the canonical time-of-day assigned to daily bars
// that carry a date only.
var DefaultDailyTime = struct {
	Hour, Minute, Second int
}{0, 0, 0}

// Validate enforces the OHLC invariant: low <= min(open, close) <=
// max(open, close) <= high, and volume >= 0.
func (b Bar) Validate() error {
	lo := decimalx.Min(b.Open, b.Close)
	hi := decimalx.Max(b.Open, b.Close)
	if b.Low.GreaterThan(lo) {
		return fmt.Errorf("bar %s: low %s > min(open,close) %s", b.Timestamp, b.Low, lo)
	}
	if hi.GreaterThan(b.High) {
		return fmt.Errorf("bar %s: max(open,close) %s > high %s", b.Timestamp, hi, b.High)
	}
	if b.Low.GreaterThan(b.High) {
		return fmt.Errorf("bar %s: low %s > high %s", b.Timestamp, b.Low, b.High)
	}
	if b.Volume.IsNegative() {
		return fmt.Errorf("bar %s: negative volume %s", b.Timestamp, b.Volume)
	}
	return nil
}

// MidHL returns (High+Low)/2, used by several derived indicators.
func (b Bar) MidHL() decimalx.Decimal {
	return b.High.Add(b.Low).Div(decimalx.Two)
}

// TrueRange returns max(|Close-prevClose|, High-Low).
func (b Bar) TrueRange(prevClose decimalx.Decimal) decimalx.Decimal {
	a := b.Close.Sub(prevClose).Abs()
	c := b.High.Sub(b.Low)
	return decimalx.Max(a, c)
}
