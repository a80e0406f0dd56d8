// Package position implements spec section 4.5's instrument position
// model: a Flat/Long/Short state machine over per-unit positions, each
// carrying its own stop/target/R-multiple/bar-age, plus the manager and
// its binding cache. It generalizes the teacher's single-slot
// "in position or not" bookkeeping (trader.go) into the multi-unit,
// pyramiding-aware model the backtester needs.
package position

import (
	"time"

	"github.com/google/uuid"

	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/timeseries"
)

// UnitSide is long or short; it is fixed for the unit's lifetime.
type UnitSide int

const (
	UnitLong UnitSide = iota
	UnitShort
)

// UnitState tracks whether the unit is still open.
type UnitState int

const (
	UnitOpen UnitState = iota
	UnitClosed
)

// Unit is one entry in a (possibly pyramided) instrument position.
type Unit struct {
	ID         uuid.UUID
	Number     int // 1-based, preserved in entry order
	Symbol     string
	Side       UnitSide
	EntryAt    time.Time
	EntryPrice decimalx.Decimal
	Units      decimalx.Decimal

	StopLoss     *decimalx.Decimal
	ProfitTarget *decimalx.Decimal
	RMultipleStop decimalx.Decimal // the stop level R-multiple is computed from

	BarsSinceEntry int
	LastClose      decimalx.Decimal
	History        []timeseries.Bar // post-entry bars; the first is the entry bar

	State   UnitState
	ExitAt  time.Time
	ExitPrice decimalx.Decimal
}

// NewUnit opens a new unit on entryBar.
func NewUnit(number int, symbol string, side UnitSide, entryBar timeseries.Bar, entryPrice, units decimalx.Decimal) *Unit {
	return &Unit{
		ID:         uuid.New(),
		Number:     number,
		Symbol:     symbol,
		Side:       side,
		EntryAt:    entryBar.Timestamp,
		EntryPrice: entryPrice,
		Units:      units,
		LastClose:  entryBar.Close,
		History:    []timeseries.Bar{entryBar},
		State:      UnitOpen,
	}
}

// AppendBar appends bar to the unit's post-entry history, guarding
// against double-appending the entry bar (spec 4.5's bar-update rule:
// only append when bar.Timestamp is strictly after EntryAt).
func (u *Unit) AppendBar(bar timeseries.Bar) {
	if !bar.Timestamp.After(u.EntryAt) {
		return
	}
	u.BarsSinceEntry++
	u.LastClose = bar.Close
	u.History = append(u.History, bar)
}

// IsProfitable reports whether the unit is currently ahead, per side.
func (u *Unit) IsProfitable() bool {
	switch u.Side {
	case UnitLong:
		return u.LastClose.GreaterThan(u.EntryPrice)
	default:
		return u.LastClose.LessThan(u.EntryPrice)
	}
}

// Close marks the unit closed at (at, price).
func (u *Unit) Close(at time.Time, price decimalx.Decimal) {
	u.State = UnitClosed
	u.ExitAt = at
	u.ExitPrice = price
}

// RMultiple computes the realized P&L expressed as a multiple of the
// unit's initial risk (distance from entry to stop), per the glossary.
// Returns zero if no stop was ever set.
func (u *Unit) RMultiple() decimalx.Decimal {
	if u.RMultipleStop.IsZero() {
		return decimalx.Zero
	}
	risk := u.EntryPrice.Sub(u.RMultipleStop).Abs()
	if risk.IsZero() {
		return decimalx.Zero
	}
	pnl := u.ExitPrice.Sub(u.EntryPrice)
	if u.Side == UnitShort {
		pnl = pnl.Neg()
	}
	return pnl.Div(risk)
}
