package strategy

import (
	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/security"
)

// PositionSizer decides how many units (shares/contracts) a new entry
// opens. This is supplemental to spec.md's body (which only states the
// default "one share/one contract" rule) but present in
// PositionSizingCalculator.h/.cpp of the original implementation.
type PositionSizer interface {
	Size(sec *security.Security, entryPrice decimalx.Decimal) decimalx.Decimal
}

// FixedUnitSizer always returns one unit: one share for an equity, one
// contract for a future. This is spec 4.8's default sizing rule.
type FixedUnitSizer struct{}

func (FixedUnitSizer) Size(*security.Security, decimalx.Decimal) decimalx.Decimal {
	return decimalx.One
}

// VolatilityScaledSizer scales unit count inversely with a supplied
// volatility estimate (e.g. average true range), capped at MaxUnits,
// grounded on other_examples/evdnx-gots' volatility_scaled_position.go.
// RiskBudget is the target dollar risk per trade; VolatilityPerUnit is
// the dollar risk one unit represents (e.g. ATR * BigPointValue).
type VolatilityScaledSizer struct {
	RiskBudget decimalx.Decimal
	MaxUnits   decimalx.Decimal
}

func (s VolatilityScaledSizer) Size(sec *security.Security, volatilityPerUnit decimalx.Decimal) decimalx.Decimal {
	if volatilityPerUnit.IsZero() {
		return decimalx.One
	}
	units := s.RiskBudget.Div(volatilityPerUnit).Truncate(0)
	if units.LessThan(decimalx.One) {
		return decimalx.One
	}
	if !s.MaxUnits.IsZero() && units.GreaterThan(s.MaxUnits) {
		return s.MaxUnits
	}
	return units
}
