package broker

import (
	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/order"
	"github.com/ohlcquant/palvalidator/internal/position"
)

// ClosedTrade is a finalized round trip: the entry order, exit order,
// and the unit they bracket, per spec 4.6's "closed-trade linkage".
type ClosedTrade struct {
	EntryOrder *order.Order
	ExitOrder  *order.Order
	Unit       *position.Unit
}

// transaction tracks an open round trip between entry fill and exit
// fill, keyed by position ID (the unit's uuid).
type transaction struct {
	entryOrder *order.Order
	unit       *position.Unit
}

// PnL returns the closed trade's realized profit/loss per unit of size,
// in price terms (ExitPrice - EntryPrice, sign-adjusted for side).
func (c ClosedTrade) PnL() decimalx.Decimal {
	pnl := c.Unit.ExitPrice.Sub(c.Unit.EntryPrice)
	if c.Unit.Side == position.UnitShort {
		pnl = pnl.Neg()
	}
	return pnl
}

// IsWin reports whether the trade closed profitably.
func (c ClosedTrade) IsWin() bool { return c.PnL().IsPositive() }

// HoldingBars returns the number of bars the unit was held.
func (c ClosedTrade) HoldingBars() int { return c.Unit.BarsSinceEntry }
