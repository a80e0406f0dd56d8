package security

import (
	"time"

	"github.com/ohlcquant/palvalidator/internal/decimalx"
)

// Historical regime boundaries (spec 4.4).
var (
	eighthRegimeEnd    = time.Date(1997, 6, 1, 0, 0, 0, 0, time.UTC)  // tick >= 1/8 before this date
	sixteenthRegimeEnd = time.Date(2001, 4, 9, 0, 0, 0, 0, time.UTC) // tick >= 1/16 before this date

	oneEighth     = decimalx.MustFromString("0.125")
	oneSixteenth  = decimalx.MustFromString("0.0625")
	onePenny      = decimalx.MustFromString("0.01")
	oneBasisPoint = decimalx.MustFromString("0.0001")
	oneDollar     = decimalx.One
)

// ResolveTick implements the execution-tick policy of spec 4.4:
// historical fractional regimes for equities pre-decimalization, then the
// Rule 612 sub-penny floor, respecting the split-adjusted carve-out.
// Non-equities pass the base tick through unchanged.
func ResolveTick(attrs Attributes, date time.Time, reference decimalx.Decimal) (tick, half decimalx.Decimal) {
	if attrs.Kind != KindEquity {
		return attrs.Tick, attrs.TickHalf
	}

	base := attrs.Tick
	t := base

	switch {
	case date.Before(eighthRegimeEnd):
		t = decimalx.Max(base, oneEighth)
	case date.Before(sixteenthRegimeEnd):
		t = decimalx.Max(base, oneSixteenth)
	default:
		// Decimal ticks: Rule 612 applies.
		if reference.GreaterThanOrEqual(oneDollar) {
			t = onePenny
		} else if attrs.SplitAdjusted {
			// Disallow sub-penny on adjusted historical series below $1,
			// to avoid false triggers (spec 4.4).
			t = onePenny
		} else {
			t = oneBasisPoint
		}
	}

	return t, t.Div(decimalx.Two)
}

// RoundToExecutionTick rounds a derived limit/stop price to the tick
// resolved for (attrs, date, reference).
func RoundToExecutionTick(attrs Attributes, date time.Time, reference, price decimalx.Decimal) decimalx.Decimal {
	tick, _ := ResolveTick(attrs, date, reference)
	return decimalx.RoundToTick(price, tick)
}
