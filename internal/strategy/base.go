package strategy

import (
	"time"

	"github.com/google/uuid"

	"github.com/ohlcquant/palvalidator/internal/broker"
	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/order"
	"github.com/ohlcquant/palvalidator/internal/portfolio"
	"github.com/ohlcquant/palvalidator/internal/security"
)

// unitExitState tracks, per open unit, which exit orders have already
// been placed so OnBarExit doesn't resubmit an unchanged stop/target
// pair every single bar.
type unitExitState struct {
	initialPlaced   bool
	breakevenApplied bool
	timeExitIssued  bool
}

// base holds the fields common to PalStrategy and MetaStrategy: identity,
// the portfolio/broker pair it trades against, sizing, and the per-symbol
// bar counters spec 4.8 gates entries on.
type base struct {
	name       string
	instanceID uuid.UUID
	portfolio  *portfolio.Portfolio
	broker     *broker.Broker
	options    Options
	sizer      PositionSizer

	counters map[string]int
	exits    map[uuid.UUID]*unitExitState
}

func newBase(name string, p *portfolio.Portfolio, b *broker.Broker, opts Options, sizer PositionSizer) base {
	if sizer == nil {
		sizer = FixedUnitSizer{}
	}
	return base{
		name:       name,
		instanceID: uuid.New(),
		portfolio:  p,
		broker:     b,
		options:    opts,
		sizer:      sizer,
		counters:   map[string]int{},
		exits:      map[uuid.UUID]*unitExitState{},
	}
}

func (b *base) Name() string       { return b.name }
func (b *base) InstanceID() uuid.UUID { return b.instanceID }

// OnBarCounter advances the per-symbol bar counter (spec 4.8's
// "per-symbol bar counter").
func (b *base) OnBarCounter(symbol string) {
	b.counters[symbol]++
}

func (b *base) counter(symbol string) int { return b.counters[symbol] }

func (b *base) exitState(unitID uuid.UUID) *unitExitState {
	st, ok := b.exits[unitID]
	if !ok {
		st = &unitExitState{}
		b.exits[unitID] = st
	}
	return st
}

// submitEntry places a market-on-open entry order for one unit of sec,
// sized by b.sizer, on the given side.
func (b *base) submitEntry(sec *security.Security, dt time.Time, side Side) {
	units := b.sizer.Size(sec, decimalx.Zero)
	var o *order.Order
	if side == Long {
		o = order.NewMarketOnOpenLong(sec.Symbol(), units, dt)
	} else {
		o = order.NewMarketOnOpenShort(sec.Symbol(), units, dt)
	}
	b.broker.SubmitEntry(o)
}
