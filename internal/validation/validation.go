// Package validation holds the single acceptance gate every candidate
// strategy's bootstrap lower bound must clear against its cost hurdle.
package validation

import (
	"github.com/ohlcquant/palvalidator/internal/decimalx"
)

// HasPassed is the pure predicate lowerBound > 0 AND lowerBound >
// costHurdle -- the only gate deciding acceptance.
func HasPassed(lowerBound, costHurdle decimalx.Decimal) bool {
	return lowerBound.IsPositive() && lowerBound.GreaterThan(costHurdle)
}
