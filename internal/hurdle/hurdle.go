// Package hurdle computes the cost-and-risk-aware required annual return a
// strategy's lower bound must clear, per-side slippage derived from
// configured defaults or observed out-of-sample spread statistics.
package hurdle

import (
	"github.com/ohlcquant/palvalidator/internal/decimalx"
)

// SpreadStats summarizes an out-of-sample round-trip spread sample: its
// mean and a robust scale estimate (Qn), both expressed as round-trip
// proportions of price.
type SpreadStats struct {
	Mean decimalx.Decimal
	Qn   decimalx.Decimal
}

// Config holds the hurdle calculator's tunables.
type Config struct {
	ConfiguredSlippage decimalx.Decimal // per-side slippage floor, absent OOS stats
	RiskFree           decimalx.Decimal
	RiskPremium        decimalx.Decimal
	MetaBuffer         decimalx.Decimal // legacy meta-hurdle buffer multiplier, default 1.5
}

// DefaultMetaBuffer is the legacy meta-hurdle buffer multiplier when a
// caller does not override Config.MetaBuffer.
var DefaultMetaBuffer = decimalx.NewFromFloat(1.5)

// PerSideSlippage returns the base per-side slippage s used for the
// unstressed hurdle: the configured floor, or half the observed OOS
// round-trip mean spread, whichever is larger.
func PerSideSlippage(cfg Config, stats *SpreadStats) decimalx.Decimal {
	if stats == nil {
		return cfg.ConfiguredSlippage
	}
	return decimalx.Max(cfg.ConfiguredSlippage, stats.Mean.Div(decimalx.Two))
}

// StressedSlippage returns the stressed per-side slippage s_k for stress
// level k, capped at 3*mean/2, given OOS spread statistics.
func StressedSlippage(stats SpreadStats, k int) decimalx.Decimal {
	kd := decimalx.NewFromInt(int64(k))
	raw := stats.Mean.Add(kd.Mul(stats.Qn)).Div(decimalx.Two)
	ceiling := stats.Mean.Mul(decimalx.NewFromInt(3)).Div(decimalx.Two)
	return decimalx.Min(raw, ceiling)
}

// CostHurdle returns the annualized required return trades_per_year * 2s,
// where s is PerSideSlippage(cfg, stats).
func CostHurdle(cfg Config, tradesPerYear decimalx.Decimal, stats *SpreadStats) decimalx.Decimal {
	s := PerSideSlippage(cfg, stats)
	roundTrip := s.Mul(decimalx.Two)
	return tradesPerYear.Mul(roundTrip)
}

// StressedHurdle is CostHurdle computed from a stressed per-side slippage,
// for the k in {1,2,3} stressed-slippage variants.
func StressedHurdle(tradesPerYear decimalx.Decimal, stats SpreadStats, k int) decimalx.Decimal {
	s := StressedSlippage(stats, k)
	return tradesPerYear.Mul(s).Mul(decimalx.Two)
}

// MetaHurdle returns the legacy meta-hurdle: max(buffer*base, risk_free +
// risk_premium). A zero buffer falls back to DefaultMetaBuffer.
func MetaHurdle(cfg Config, base decimalx.Decimal) decimalx.Decimal {
	buffer := cfg.MetaBuffer
	if buffer.IsZero() {
		buffer = DefaultMetaBuffer
	}
	buffered := buffer.Mul(base)
	floor := cfg.RiskFree.Add(cfg.RiskPremium)
	return decimalx.Max(buffered, floor)
}
