// Package pattern compiles boolean price-action expressions into
// reusable predicates over (security, timestamp), generalizing the
// teacher's indicators.go (SMA/RSI/ZScore over []Candle) to an
// AST-driven interpreter over a security's time series.
package pattern

import (
	"time"

	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/security"
)

// Field names a raw OHLCV series column a PriceRef leaf can read.
type Field int

const (
	Open Field = iota
	High
	Low
	Close
	Volume
)

// ValueExpr evaluates to a decimal at (sec, ts): a raw field reference
// or a derived indicator.
type ValueExpr interface {
	eval(sec *security.Security, ts time.Time) (decimalx.Decimal, error)
	// Lookback reports the maximum bar offset, relative to ts, this
	// expression reads -- used to size the required warm-up window.
	Lookback() int
}

// BoolExpr is an internal AST node: And or GreaterThan.
type BoolExpr interface {
	eval(sec *security.Security, ts time.Time) (bool, error)
	Lookback() int
}

// PriceRef reads field at offset bars back from ts (0 = the bar at ts).
type PriceRef struct {
	FieldName Field
	Offset    int
}

func (p PriceRef) Lookback() int { return p.Offset }

func (p PriceRef) eval(sec *security.Security, ts time.Time) (decimalx.Decimal, error) {
	switch p.FieldName {
	case Open:
		return sec.Series().GetOpen(ts, p.Offset)
	case High:
		return sec.Series().GetHigh(ts, p.Offset)
	case Low:
		return sec.Series().GetLow(ts, p.Offset)
	case Close:
		return sec.Series().GetClose(ts, p.Offset)
	case Volume:
		return sec.Series().GetVolume(ts, p.Offset)
	default:
		return decimalx.Zero, errUnknownField
	}
}

// And is true iff both operands are true. It short-circuits: Right is
// never evaluated once Left is false.
type And struct {
	LeftExpr  BoolExpr
	RightExpr BoolExpr
}

func (a And) Lookback() int { return maxInt(a.LeftExpr.Lookback(), a.RightExpr.Lookback()) }

func (a And) eval(sec *security.Security, ts time.Time) (bool, error) {
	left, err := a.LeftExpr.eval(sec, ts)
	if err != nil {
		return false, err
	}
	if !left {
		return false, nil
	}
	return a.RightExpr.eval(sec, ts)
}

// GreaterThan is true iff LeftExpr strictly exceeds RightExpr. Both
// sides are always evaluated.
type GreaterThan struct {
	LeftExpr  ValueExpr
	RightExpr ValueExpr
}

func (g GreaterThan) Lookback() int { return maxInt(g.LeftExpr.Lookback(), g.RightExpr.Lookback()) }

func (g GreaterThan) eval(sec *security.Security, ts time.Time) (bool, error) {
	left, err := g.LeftExpr.eval(sec, ts)
	if err != nil {
		return false, err
	}
	right, err := g.RightExpr.eval(sec, ts)
	if err != nil {
		return false, err
	}
	return left.GreaterThan(right), nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
