package broker

import (
	"time"

	"github.com/google/uuid"

	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/errs"
	"github.com/ohlcquant/palvalidator/internal/order"
	"github.com/ohlcquant/palvalidator/internal/position"
)

// ProcessPending implements spec 4.6's per-bar pending-order processing:
// (1) append the bar to every open position via the manager, (2) attempt
// fills in insertion order across all pending orders, (3) on a
// unit-scoped exit fill, cancel sibling orders tied to the same unit
// before closing it.
func (b *Broker) ProcessPending(ts time.Time) {
	b.positions.AppendBarToAll(ts)

	for _, o := range b.orders.Pending() {
		// A sibling earlier in this same pass may have already canceled
		// o (spec invariant 3's complementary cancel); re-check state
		// since Pending() was snapshotted before the loop started.
		if o.State != order.StatePending {
			continue
		}
		sec, err := b.securityFor(o.Symbol)
		if err != nil {
			continue
		}
		bar, err := sec.Series().Get(ts)
		if err != nil {
			continue
		}

		fillPrice, ok := order.TryFill(o, bar)
		if !ok {
			continue
		}

		if o.IsEntry() {
			b.fillEntry(o, bar.Timestamp, fillPrice)
			continue
		}
		b.fillExit(o, bar.Timestamp, fillPrice)
	}
}

func (b *Broker) fillEntry(o *order.Order, at time.Time, fillPrice decimalx.Decimal) {
	if err := o.MarkExecuted(fillPrice, at); err != nil {
		return
	}
	sec, err := b.securityFor(o.Symbol)
	if err != nil {
		return
	}
	bar, err := sec.Series().Get(at)
	if err != nil {
		return
	}
	side := position.UnitLong
	if o.Side == order.SideShortSell {
		side = position.UnitShort
	}
	ip := b.positions.Get(o.Symbol)
	unit, err := ip.AddUnit(side, bar, fillPrice, o.Units)
	if err != nil {
		return
	}
	b.openTx[unit.ID] = &transaction{entryOrder: o, unit: unit}
}

func (b *Broker) fillExit(o *order.Order, at time.Time, fillPrice decimalx.Decimal) {
	positionID, tracked := b.unitExits[o.ID]
	ip := b.positions.Get(o.Symbol)

	unitNumber := o.UnitNumber
	if unitNumber == 0 {
		// All-unit exit: close every open unit with this same order.
		// Iterate over a copy, since CloseUnit shrinks ip.Units() in place.
		for _, u := range append([]*position.Unit(nil), ip.Units()...) {
			b.closeOneUnit(o, ip, u.Number, at, fillPrice)
		}
		_ = o.MarkExecuted(fillPrice, at)
		return
	}

	if tracked {
		b.cancelSiblings(positionID, o.ID)
	}
	b.closeOneUnit(o, ip, unitNumber, at, fillPrice)
	_ = o.MarkExecuted(fillPrice, at)
}

func (b *Broker) closeOneUnit(o *order.Order, ip *position.InstrumentPosition, unitNumber int, at time.Time, fillPrice decimalx.Decimal) {
	unit, err := ip.CloseUnit(at, fillPrice, unitNumber)
	if err != nil {
		return
	}
	tx, ok := b.openTx[unit.ID]
	if !ok {
		tx = &transaction{unit: unit}
	}
	delete(b.openTx, unit.ID)
	b.history = append(b.history, ClosedTrade{EntryOrder: tx.entryOrder, ExitOrder: o, Unit: unit})
}

// cancelSiblings marks every still-pending order tied to positionID,
// other than keep, as canceled -- the invariant tested by spec 8's
// "unit exit cancels complements".
func (b *Broker) cancelSiblings(positionID uuid.UUID, keep order.ID) {
	for _, oid := range b.reverse[positionID] {
		if oid == keep {
			continue
		}
		for _, pending := range b.orders.Pending() {
			if pending.ID == oid {
				_ = pending.MarkCanceled()
			}
		}
	}
}

// CancelUnitExits cancels every still-pending exit order tied to
// positionID, for strategies that need to rearm a unit's stop (e.g.
// breakeven activation) before submitting a replacement.
func (b *Broker) CancelUnitExits(positionID uuid.UUID) {
	for _, oid := range b.reverse[positionID] {
		for _, pending := range b.orders.Pending() {
			if pending.ID == oid {
				_ = pending.MarkCanceled()
			}
		}
	}
}

// SubmitExitUnitAtLimit / SubmitExitUnitAtStop / SubmitExitUnitOnOpen are
// the helpers strategies use to submit unit exits;
// kept here (rather than in the strategy package) so the tick-rounding
// and order-construction logic lives next to the fill simulator it feeds.
func (b *Broker) SubmitExitUnitAtLimit(symbol string, units decimalx.Decimal, at time.Time, limit decimalx.Decimal, unitNumber int, long bool) error {
	var o *order.Order
	if long {
		o = order.NewSellAtLimit(symbol, units, at, limit, unitNumber)
	} else {
		o = order.NewCoverAtLimit(symbol, units, at, limit, unitNumber)
	}
	ip := b.positions.Get(symbol)
	unit, ok := ip.UnitByNumber(unitNumber)
	if !ok {
		return &errs.BrokerError{Op: "exit-at-limit", Symbol: symbol, Reason: "invalid unit number"}
	}
	b.SubmitUnitExit(o, unit.ID)
	return nil
}

func (b *Broker) SubmitExitUnitAtStop(symbol string, units decimalx.Decimal, at time.Time, stop decimalx.Decimal, unitNumber int, long bool) error {
	ip := b.positions.Get(symbol)
	unit, ok := ip.UnitByNumber(unitNumber)
	if !ok {
		return &errs.BrokerError{Op: "exit-at-stop", Symbol: symbol, Reason: "invalid unit number"}
	}
	var o *order.Order
	if long {
		o = order.NewSellAtStop(symbol, units, at, stop, unitNumber)
	} else {
		o = order.NewCoverAtStop(symbol, units, at, stop, unitNumber)
	}
	b.SubmitUnitExit(o, unit.ID)
	return nil
}

func (b *Broker) SubmitExitUnitOnOpen(symbol string, units decimalx.Decimal, at time.Time, unitNumber int, long bool) error {
	ip := b.positions.Get(symbol)
	unit, ok := ip.UnitByNumber(unitNumber)
	if !ok {
		return &errs.BrokerError{Op: "exit-on-open", Symbol: symbol, Reason: "invalid unit number"}
	}
	var o *order.Order
	if long {
		o = order.NewSellOnOpen(symbol, units, at, unitNumber)
	} else {
		o = order.NewCoverOnOpen(symbol, units, at, unitNumber)
	}
	b.SubmitUnitExit(o, unit.ID)
	return nil
}
