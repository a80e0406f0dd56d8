// Package broker implements the strategy broker of spec section 4.6:
// order submission, deterministic per-bar fill processing, unit-exit
// complementary cancellation, and closed-trade linkage. It generalizes
// the teacher's Broker interface (broker.go) -- price lookup and market
// order placement against a live venue -- into a pure in-process
// simulator driven entirely by a security's time series.
package broker

import (
	"time"

	"github.com/google/uuid"

	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/errs"
	"github.com/ohlcquant/palvalidator/internal/order"
	"github.com/ohlcquant/palvalidator/internal/portfolio"
	"github.com/ohlcquant/palvalidator/internal/position"
	"github.com/ohlcquant/palvalidator/internal/security"
)

// Broker routes orders, simulates fills against the current bar, and
// maintains the closed-trade history for one backtest run.
type Broker struct {
	portfolio *portfolio.Portfolio
	positions *position.Manager
	orders    *order.Manager

	// unitExits / reverse implement spec 4.6's complementary-cancel map:
	// every unit-scoped exit order is registered by order ID -> position
	// ID, and the reverse index is used to cancel siblings on a fill.
	unitExits map[order.ID]uuid.UUID
	reverse   map[uuid.UUID][]order.ID

	openTx  map[uuid.UUID]*transaction
	history []ClosedTrade
}

// New returns a broker operating over p, with its own order manager and
// a fresh instrument-position manager.
func New(p *portfolio.Portfolio) *Broker {
	return &Broker{
		portfolio: p,
		positions: position.NewManager(p),
		orders:    order.NewManager(),
		unitExits: map[order.ID]uuid.UUID{},
		reverse:   map[uuid.UUID][]order.ID{},
		openTx:    map[uuid.UUID]*transaction{},
	}
}

// Positions exposes the instrument-position manager (strategies read
// current state through this).
func (b *Broker) Positions() *position.Manager { return b.positions }

// ClosedTrades returns the finalized round trips in close order.
func (b *Broker) ClosedTrades() []ClosedTrade { return b.history }

func (b *Broker) securityFor(symbol string) (*security.Security, error) {
	sec, ok := b.portfolio.Find(symbol)
	if !ok {
		return nil, &errs.BrokerError{Op: "lookup", Symbol: symbol, Reason: "unknown symbol"}
	}
	return sec, nil
}

// SubmitEntry queues a market-on-open entry order.
func (b *Broker) SubmitEntry(o *order.Order) {
	b.orders.Submit(o)
}

// SubmitUnitExit queues a unit-scoped exit order (limit, stop, or
// market-on-open) and registers it in the complementary-cancel maps
// keyed by the unit's position ID.
func (b *Broker) SubmitUnitExit(o *order.Order, positionID uuid.UUID) {
	b.orders.Submit(o)
	b.unitExits[o.ID] = positionID
	b.reverse[positionID] = append(b.reverse[positionID], o.ID)
}

// ExitAtLimitFromPercent derives a limit price from a percent offset off
// basePrice (sign per side) and rounds it to the execution tick for
// (symbol, dt, basePrice), per spec 4.6. pct is a percent (3 means 3%).
func ExitAtLimitFromPercent(attrs security.Attributes, dt time.Time, basePrice decimalx.Decimal, pct decimalx.Decimal, side position.UnitSide) decimalx.Decimal {
	frac := decimalx.FromDecimal(pct).AsDecimal()
	var target decimalx.Decimal
	if side == position.UnitLong {
		target = basePrice.Add(basePrice.Mul(frac))
	} else {
		target = basePrice.Sub(basePrice.Mul(frac))
	}
	return security.RoundToExecutionTick(attrs, dt, basePrice, target)
}

// ExitAtStopFromPercent derives a stop price from a percent offset off
// basePrice, opposite sign from the limit/target side. pct is a percent.
func ExitAtStopFromPercent(attrs security.Attributes, dt time.Time, basePrice decimalx.Decimal, pct decimalx.Decimal, side position.UnitSide) decimalx.Decimal {
	frac := decimalx.FromDecimal(pct).AsDecimal()
	var target decimalx.Decimal
	if side == position.UnitLong {
		target = basePrice.Sub(basePrice.Mul(frac))
	} else {
		target = basePrice.Add(basePrice.Mul(frac))
	}
	return security.RoundToExecutionTick(attrs, dt, basePrice, target)
}

