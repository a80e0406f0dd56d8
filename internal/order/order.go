// Package order implements the trading-order model of spec section 4.3:
// a tagged union over side x type with a monotonic ID and an explicit
// pending -> {executed, canceled} state machine. Order IDs carry both a
// process-monotonic sequence number (for deterministic tie-breaking and
// log ordering) and a uuid.UUID, generalizing the teacher's broker_*.go
// files, which mint a google/uuid per placed order for bridge/exchange
// correlation.
package order

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ohlcquant/palvalidator/internal/decimalx"
)

// Side is the order's directional intent.
type Side int

const (
	SideLongBuy Side = iota
	SideShortSell
	SideSellToCloseLong
	SideBuyToCoverShort
)

// Kind is the order's execution type.
type Kind int

const (
	KindMarketOnOpen Kind = iota
	KindLimit
	KindStop
)

// State is the order's lifecycle stage. pending is the only
// non-terminal state; executed and canceled are sinks.
type State int

const (
	StatePending State = iota
	StateExecuted
	StateCanceled
)

func (s State) String() string {
	switch s {
	case StateExecuted:
		return "executed"
	case StateCanceled:
		return "canceled"
	default:
		return "pending"
	}
}

// ID uniquely identifies an order: Seq is the process-monotonic sequence
// used for deterministic ordering, UUID is a stable external handle.
type ID struct {
	Seq  uint64
	UUID uuid.UUID
}

func (id ID) String() string { return fmt.Sprintf("%d/%s", id.Seq, id.UUID) }

var seqCounter atomic.Uint64

func nextID() ID {
	return ID{Seq: seqCounter.Add(1), UUID: uuid.New()}
}

// Order is the tagged union described in spec 4.3.
type Order struct {
	ID               ID
	Symbol           string
	Side             Side
	Kind             Kind
	Units            decimalx.Decimal
	RequestedAt      time.Time
	Price            *decimalx.Decimal // limit/stop price, when applicable
	StopLossPrice    *decimalx.Decimal
	ProfitTargetPrice *decimalx.Decimal
	UnitNumber       int // 0 means "all units" / not unit-scoped

	State       State
	FillPrice   decimalx.Decimal
	FillAt      time.Time
}

func newOrder(symbol string, side Side, kind Kind, units decimalx.Decimal, at time.Time) *Order {
	return &Order{
		ID:          nextID(),
		Symbol:      symbol,
		Side:        side,
		Kind:        kind,
		Units:       units,
		RequestedAt: at,
		State:       StatePending,
	}
}

// NewMarketOnOpenLong / NewMarketOnOpenShort enter a new position.
func NewMarketOnOpenLong(symbol string, units decimalx.Decimal, at time.Time) *Order {
	return newOrder(symbol, SideLongBuy, KindMarketOnOpen, units, at)
}

func NewMarketOnOpenShort(symbol string, units decimalx.Decimal, at time.Time) *Order {
	return newOrder(symbol, SideShortSell, KindMarketOnOpen, units, at)
}

// NewSellAtLimit / NewSellAtStop close a long unit.
func NewSellAtLimit(symbol string, units decimalx.Decimal, at time.Time, limit decimalx.Decimal, unitNumber int) *Order {
	o := newOrder(symbol, SideSellToCloseLong, KindLimit, units, at)
	o.Price = &limit
	o.UnitNumber = unitNumber
	return o
}

func NewSellAtStop(symbol string, units decimalx.Decimal, at time.Time, stop decimalx.Decimal, unitNumber int) *Order {
	o := newOrder(symbol, SideSellToCloseLong, KindStop, units, at)
	o.Price = &stop
	o.UnitNumber = unitNumber
	return o
}

func NewSellOnOpen(symbol string, units decimalx.Decimal, at time.Time, unitNumber int) *Order {
	o := newOrder(symbol, SideSellToCloseLong, KindMarketOnOpen, units, at)
	o.UnitNumber = unitNumber
	return o
}

// NewCoverAtLimit / NewCoverAtStop close a short unit.
func NewCoverAtLimit(symbol string, units decimalx.Decimal, at time.Time, limit decimalx.Decimal, unitNumber int) *Order {
	o := newOrder(symbol, SideBuyToCoverShort, KindLimit, units, at)
	o.Price = &limit
	o.UnitNumber = unitNumber
	return o
}

func NewCoverAtStop(symbol string, units decimalx.Decimal, at time.Time, stop decimalx.Decimal, unitNumber int) *Order {
	o := newOrder(symbol, SideBuyToCoverShort, KindStop, units, at)
	o.Price = &stop
	o.UnitNumber = unitNumber
	return o
}

func NewCoverOnOpen(symbol string, units decimalx.Decimal, at time.Time, unitNumber int) *Order {
	o := newOrder(symbol, SideBuyToCoverShort, KindMarketOnOpen, units, at)
	o.UnitNumber = unitNumber
	return o
}

// IsEntry reports whether this order opens a new unit rather than
// closing an existing one.
func (o *Order) IsEntry() bool {
	return o.Side == SideLongBuy || o.Side == SideShortSell
}

// MarkExecuted transitions pending -> executed. It is a no-op error on
// an already-terminal order.
func (o *Order) MarkExecuted(fillPrice decimalx.Decimal, at time.Time) error {
	if o.State != StatePending {
		return fmt.Errorf("order %s: cannot execute from state %s", o.ID, o.State)
	}
	o.State = StateExecuted
	o.FillPrice = fillPrice
	o.FillAt = at
	return nil
}

// MarkCanceled transitions pending -> canceled.
func (o *Order) MarkCanceled() error {
	if o.State != StatePending {
		return fmt.Errorf("order %s: cannot cancel from state %s", o.ID, o.State)
	}
	o.State = StateCanceled
	return nil
}
