// Package decimalx supplies the fixed-point numeric types used throughout
// the validation core: every price, tick, return and P&L figure is a
// Decimal, never a bare float64.
package decimalx

import (
	"github.com/shopspring/decimal"
)

// Decimal is the fixed-point type used for all financial quantities.
type Decimal = decimal.Decimal

// Common constants, mirroring the teacher's habit of naming magic numbers.
var (
	Zero        = decimal.Zero
	One         = decimal.NewFromInt(1)
	Two         = decimal.NewFromInt(2)
	Hundred     = decimal.NewFromInt(100)
	HundredHalf = decimal.NewFromFloat(0.5)
)

// NewFromFloat is a thin re-export so callers never need to import
// shopspring/decimal directly.
func NewFromFloat(f float64) Decimal { return decimal.NewFromFloat(f) }

// NewFromInt is a thin re-export for integer-valued decimals (units, counts).
func NewFromInt(i int64) Decimal { return decimal.NewFromInt(i) }

// MustFromString parses a decimal literal, panicking on malformed input.
// Reserved for constants known at compile time (tests, default configs).
func MustFromString(s string) Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic("decimalx: invalid literal " + s + ": " + err.Error())
	}
	return d
}

// Max returns the larger of a and b.
func Max(a, b Decimal) Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b Decimal) Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Clamp constrains x to [lo, hi].
func Clamp(x, lo, hi Decimal) Decimal {
	if x.LessThan(lo) {
		return lo
	}
	if x.GreaterThan(hi) {
		return hi
	}
	return x
}

// RoundToTick rounds price to the nearest multiple of tick, rounding half
// away from zero for the reference price's sign. tick must be positive.
func RoundToTick(price, tick Decimal) Decimal {
	if tick.IsZero() {
		return price
	}
	units := price.Div(tick).Round(0)
	return units.Mul(tick)
}

// Pow1p computes (1+x)^k for a non-negative integer k via the Decimal
// arithmetic used for annualization. For non-integer k (the general
// annualization factor), use PowFloat which round-trips through float64 --
// shopspring/decimal has no general fractional power, and spec 4.12 only
// needs double precision here, not fixed-point exactness.
func Pow1p(x Decimal, k int64) Decimal {
	return One.Add(x).Pow(decimal.NewFromInt(k))
}

// PowFloat computes (1+x)^k for a real-valued k (bars-per-year factors are
// rarely integral once intraday dominant-interval ratios are involved).
func PowFloat(x Decimal, k float64) Decimal {
	base, _ := One.Add(x).Float64()
	return decimal.NewFromFloat(powFloat(base, k))
}
