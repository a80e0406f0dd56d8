package strategy

import (
	"time"

	"github.com/ohlcquant/palvalidator/internal/broker"
	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/position"
	"github.com/ohlcquant/palvalidator/internal/security"
)

// exitParams carries the per-unit percent levels the exit policy needs,
// plus the (meta-only) breakeven rule; PalStrategy passes a zero-value
// BreakevenOptions since it has no breakeven rule.
type exitParams struct {
	profitTargetPercent decimalx.Decimal
	stopLossPercent     decimalx.Decimal
	breakeven           BreakevenOptions
}

// applyExitPolicy implements spec 4.8's per-unit exit policy, newest
// unit first, for one security. paramsFor supplies the percent levels
// for a given unit (in a meta strategy these come from the pattern that
// opened it).
func (b *base) applyExitPolicy(sec *security.Security, dt time.Time, maxHoldingPeriod int, paramsFor func(u *position.Unit) exitParams) {
	ip := b.broker.Positions().Get(sec.Symbol())
	units := ip.Units()
	long := func(u *position.Unit) bool { return u.Side == position.UnitLong }

	for i := len(units) - 1; i >= 0; i-- {
		u := units[i]
		st := b.exitState(u.ID)
		params := paramsFor(u)
		attrs := sec.Attributes()

		if maxHoldingPeriod > 0 && u.BarsSinceEntry >= maxHoldingPeriod {
			if !st.timeExitIssued {
				b.broker.CancelUnitExits(u.ID)
				_ = b.broker.SubmitExitUnitOnOpen(sec.Symbol(), u.Units, dt, u.Number, long(u))
				st.timeExitIssued = true
			}
			continue
		}

		if params.breakeven.Enabled && !st.breakevenApplied &&
			u.BarsSinceEntry >= params.breakeven.ActivationBars && u.IsProfitable() {
			b.broker.CancelUnitExits(u.ID)
			target := broker.ExitAtLimitFromPercent(attrs, dt, u.EntryPrice, params.profitTargetPercent, u.Side)
			_ = b.broker.SubmitExitUnitAtLimit(sec.Symbol(), u.Units, dt, target, u.Number, long(u))
			stop := u.EntryPrice
			_ = b.broker.SubmitExitUnitAtStop(sec.Symbol(), u.Units, dt, stop, u.Number, long(u))
			u.StopLoss = &stop
			u.RMultipleStop = stop
			u.ProfitTarget = &target
			st.breakevenApplied = true
			st.initialPlaced = true
			continue
		}

		if !st.initialPlaced {
			target := broker.ExitAtLimitFromPercent(attrs, dt, u.EntryPrice, params.profitTargetPercent, u.Side)
			_ = b.broker.SubmitExitUnitAtLimit(sec.Symbol(), u.Units, dt, target, u.Number, long(u))
			stop := broker.ExitAtStopFromPercent(attrs, dt, u.EntryPrice, params.stopLossPercent, u.Side)
			_ = b.broker.SubmitExitUnitAtStop(sec.Symbol(), u.Units, dt, stop, u.Number, long(u))
			u.StopLoss = &stop
			u.ProfitTarget = &target
			u.RMultipleStop = stop
			st.initialPlaced = true
		}
	}
}
