package order

import (
	"time"

	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/timeseries"
)

// TryFill attempts to fill o against bar, per the tie-break rules of
// spec 4.3. It returns (fillPrice, true) on a fill, or (zero, false) if
// the order should remain pending. It never mutates o -- callers call
// MarkExecuted themselves once they have also performed the
// complementary-cancel step (spec 4.6).
func TryFill(o *Order, bar timeseries.Bar) (decimalx.Decimal, bool) {
	switch o.Kind {
	case KindMarketOnOpen:
		// Fills at the open of the bar whose timestamp equals the
		// order's requested timestamp; "otherwise pending until the
		// next available bar" falls out naturally since callers only
		// offer bars at or after RequestedAt.
		if !bar.Timestamp.Before(o.RequestedAt) {
			return bar.Open, true
		}
		return decimalx.Zero, false

	case KindLimit:
		limit := *o.Price
		switch o.Side {
		case SideSellToCloseLong:
			if bar.High.GreaterThanOrEqual(limit) {
				return decimalx.Max(limit, bar.Open), true
			}
		case SideBuyToCoverShort:
			if bar.Low.LessThanOrEqual(limit) {
				return decimalx.Min(limit, bar.Open), true
			}
		}
		return decimalx.Zero, false

	case KindStop:
		stop := *o.Price
		switch o.Side {
		case SideSellToCloseLong:
			if bar.Low.LessThanOrEqual(stop) {
				return decimalx.Min(stop, bar.Open), true
			}
		case SideBuyToCoverShort:
			if bar.High.GreaterThanOrEqual(stop) {
				return decimalx.Max(stop, bar.Open), true
			}
		}
		return decimalx.Zero, false
	}
	return decimalx.Zero, false
}

// RequestedAtOrBefore reports whether the order's requested timestamp is
// at or before ts, the gate used to decide whether a market-on-open
// order is even eligible to be attempted on a given bar.
func (o *Order) RequestedAtOrBefore(ts time.Time) bool {
	return !o.RequestedAt.After(ts)
}
