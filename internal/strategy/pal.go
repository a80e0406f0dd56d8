package strategy

import (
	"time"

	"github.com/ohlcquant/palvalidator/internal/broker"
	"github.com/ohlcquant/palvalidator/internal/portfolio"
	"github.com/ohlcquant/palvalidator/internal/position"
	"github.com/ohlcquant/palvalidator/internal/security"
)

// PalStrategy trades a single pattern, long-only or short-only, per
// spec 4.8. It has no breakeven rule (that's meta-only) and no
// both-sides neutrality (there being only one side to trade).
type PalStrategy struct {
	base
	pattern Pattern
}

// NewPalStrategy returns a strategy trading pattern against p via b.
// pattern.Side fixes whether this instance is long-only or short-only.
func NewPalStrategy(name string, p *portfolio.Portfolio, b *broker.Broker, opts Options, pat Pattern, sizer PositionSizer) *PalStrategy {
	return &PalStrategy{base: newBase(name, p, b, opts, sizer), pattern: pat}
}

var _ BacktesterHooks = (*PalStrategy)(nil)

func (s *PalStrategy) OnBarExit(sec *security.Security, dt time.Time) {
	s.applyExitPolicy(sec, dt, s.options.MaxHoldingPeriodBars, func(*position.Unit) exitParams {
		return exitParams{
			profitTargetPercent: s.pattern.ProfitTargetPercent,
			stopLossPercent:     s.pattern.StopLossPercent,
		}
	})
}

func (s *PalStrategy) OnBarEntry(sec *security.Security, dt time.Time) {
	if s.counter(sec.Symbol()) <= s.pattern.MaxLookback() {
		return
	}
	if !s.pattern.Predicate()(sec, dt) {
		return
	}

	ip := s.broker.Positions().Get(sec.Symbol())
	if ip.IsFlat() {
		s.submitEntry(sec, dt, s.pattern.Side)
		return
	}

	if !s.options.PyramidingEnabled {
		return
	}
	if !sameSide(ip, s.pattern.Side) {
		return
	}
	if ip.UnitCount() >= 1+s.options.MaxPyramidPositions {
		return
	}
	s.submitEntry(sec, dt, s.pattern.Side)
}

func sameSide(ip *position.InstrumentPosition, side Side) bool {
	switch ip.State() {
	case position.StateLong:
		return side == Long
	case position.StateShort:
		return side == Short
	default:
		return false
	}
}
