package decimalx

import "math"

// powFloat is split out so Pow1p/PowFloat stay readable; math.Pow handles
// the fractional-exponent annualization factor (spec 4.12's k).
func powFloat(base, exp float64) float64 {
	return math.Pow(base, exp)
}
