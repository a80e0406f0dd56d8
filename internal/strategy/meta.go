package strategy

import (
	"time"

	"github.com/google/uuid"

	"github.com/ohlcquant/palvalidator/internal/broker"
	"github.com/ohlcquant/palvalidator/internal/portfolio"
	"github.com/ohlcquant/palvalidator/internal/position"
	"github.com/ohlcquant/palvalidator/internal/security"
)

// MetaStrategy trades a list of patterns against the same symbol,
// adding both-sides neutrality and an optional breakeven rule on top
// of PalStrategy's single-pattern policy (spec 4.8).
type MetaStrategy struct {
	base
	patterns            []Pattern
	bothSidesNeutrality bool
	breakeven           BreakevenOptions

	// openedBy remembers which pattern opened each unit, keyed by unit
	// ID, so the exit policy can read back its percent levels.
	// pendingBySymbol is the FIFO of patterns behind entry orders not
	// yet filled into a unit: since units for a symbol are numbered in
	// fill order and this strategy is this symbol's only order source,
	// the unit that appears next is opened by the pattern at the front
	// of the queue.
	openedBy        map[uuid.UUID]Pattern
	pendingBySymbol map[string][]Pattern
}

// NewMetaStrategy returns a strategy trading patterns against p via b.
func NewMetaStrategy(name string, p *portfolio.Portfolio, b *broker.Broker, opts Options, patterns []Pattern, bothSidesNeutrality bool, breakeven BreakevenOptions, sizer PositionSizer) *MetaStrategy {
	return &MetaStrategy{
		base:                newBase(name, p, b, opts, sizer),
		patterns:            patterns,
		bothSidesNeutrality: bothSidesNeutrality,
		breakeven:           breakeven,
		openedBy:            map[uuid.UUID]Pattern{},
		pendingBySymbol:     map[string][]Pattern{},
	}
}

var _ BacktesterHooks = (*MetaStrategy)(nil)

func (s *MetaStrategy) OnBarExit(sec *security.Security, dt time.Time) {
	s.absorbNewUnits(sec)
	s.applyExitPolicy(sec, dt, s.options.MaxHoldingPeriodBars, func(u *position.Unit) exitParams {
		pat, ok := s.openedBy[u.ID]
		if !ok {
			pat = s.firstPatternForSide(u.Side)
		}
		return exitParams{
			profitTargetPercent: pat.ProfitTargetPercent,
			stopLossPercent:     pat.StopLossPercent,
			breakeven:           s.breakeven,
		}
	})
}

// absorbNewUnits assigns the next queued pattern to any open unit this
// strategy hasn't yet recorded an owner for. Units for one symbol are
// numbered in fill order and this strategy is the symbol's only order
// source, so the oldest untracked unit was opened by the oldest queued
// pattern.
func (s *MetaStrategy) absorbNewUnits(sec *security.Security) {
	symbol := sec.Symbol()
	queue := s.pendingBySymbol[symbol]
	if len(queue) == 0 {
		return
	}
	ip := s.broker.Positions().Get(symbol)
	for _, u := range ip.Units() {
		if _, tracked := s.openedBy[u.ID]; tracked {
			continue
		}
		if len(queue) == 0 {
			break
		}
		s.openedBy[u.ID] = queue[0]
		queue = queue[1:]
	}
	s.pendingBySymbol[symbol] = queue
}

func (s *MetaStrategy) firstPatternForSide(side position.UnitSide) Pattern {
	want := Long
	if side == position.UnitShort {
		want = Short
	}
	for _, p := range s.patterns {
		if p.Side == want {
			return p
		}
	}
	return Pattern{}
}

func (s *MetaStrategy) OnBarEntry(sec *security.Security, dt time.Time) {
	counter := s.counter(sec.Symbol())

	var longHit, shortHit *Pattern
	for i := range s.patterns {
		p := &s.patterns[i]
		if counter <= p.MaxLookback() {
			continue
		}
		if !p.Predicate()(sec, dt) {
			continue
		}
		if p.Side == Long && longHit == nil {
			longHit = p
		}
		if p.Side == Short && shortHit == nil {
			shortHit = p
		}
	}

	ip := s.broker.Positions().Get(sec.Symbol())

	if ip.IsFlat() {
		if s.bothSidesNeutrality && longHit != nil && shortHit != nil {
			return
		}
		switch {
		case longHit != nil:
			s.enter(sec, dt, *longHit)
		case shortHit != nil:
			s.enter(sec, dt, *shortHit)
		}
		return
	}

	if !s.options.PyramidingEnabled {
		return
	}
	if ip.UnitCount() >= 1+s.options.MaxPyramidPositions {
		return
	}
	if sameSide(ip, Long) && longHit != nil {
		s.enter(sec, dt, *longHit)
	} else if sameSide(ip, Short) && shortHit != nil {
		s.enter(sec, dt, *shortHit)
	}
}

func (s *MetaStrategy) enter(sec *security.Security, dt time.Time, pat Pattern) {
	s.submitEntry(sec, dt, pat.Side)
	s.pendingBySymbol[sec.Symbol()] = append(s.pendingBySymbol[sec.Symbol()], pat)
}
