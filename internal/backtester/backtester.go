// Package backtester drives the per-bar simulation loop of spec
// sections 4.9 and 5: counter, exit, entry, then the broker's own
// pending-order processing, in that load-bearing order. It generalizes
// the teacher's live trading loop (trader.go's step-driven bot) into an
// offline, deterministic replay over a fixed bar sequence.
package backtester

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ohlcquant/palvalidator/internal/broker"
	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/portfolio"
	"github.com/ohlcquant/palvalidator/internal/position"
	"github.com/ohlcquant/palvalidator/internal/strategy"
)

// Backtester replays a fixed bar sequence against one strategy's hooks
// and broker, accumulating a per-bar return series and a closed-trade
// history.
type Backtester struct {
	portfolio     *portfolio.Portfolio
	broker        *broker.Broker
	hooks         strategy.BacktesterHooks
	initialEquity decimalx.Decimal
}

// New returns a backtester driving hooks against p/b, marking to market
// off a notional starting equity (the basis for the per-bar return
// series -- the spec leaves sizing/equity-basis as an implementation
// detail of the broker's mark-to-market, not a named type).
func New(p *portfolio.Portfolio, b *broker.Broker, hooks strategy.BacktesterHooks, initialEquity decimalx.Decimal) *Backtester {
	return &Backtester{portfolio: p, broker: b, hooks: hooks, initialEquity: initialEquity}
}

// Result is the backtester's output: the return series feeding
// validation, and the closed-trade statistics.
type Result struct {
	ReturnSeries []decimalx.Decimal
	Trades       []broker.ClosedTrade
	Stats        ClosedTradeStats
}

// ClosedTradeStats summarizes the closed-trade history, per spec 4.9.
type ClosedTradeStats struct {
	Count                   int
	Wins                    int
	Losses                  int
	ProfitFactor            decimalx.Decimal
	PalProfitability        decimalx.Decimal // fraction of trades that closed profitably
	MedianHoldingPeriodBars int
}

type unitSnapshot struct {
	prevClose     decimalx.Decimal
	units         decimalx.Decimal
	side          position.UnitSide
	bigPointValue decimalx.Decimal
}

// Run replays dates (ascending, the active date range of spec 4.9) and
// returns the accumulated result.
func (bt *Backtester) Run(dates []time.Time) *Result {
	equity := bt.initialEquity
	returns := make([]decimalx.Decimal, 0, len(dates))

	for _, ts := range dates {
		for _, symbol := range bt.portfolio.Symbols() {
			sec, ok := bt.portfolio.Find(symbol)
			if !ok || !sec.Series().IsDateFound(ts) {
				continue
			}
			bt.hooks.OnBarCounter(symbol)
			ip := bt.broker.Positions().Get(symbol)
			if !ip.IsFlat() {
				bt.hooks.OnBarExit(sec, ts)
			}
			bt.hooks.OnBarEntry(sec, ts)
		}

		before := bt.snapshotOpenUnits()
		closedBefore := len(bt.broker.ClosedTrades())
		bt.broker.ProcessPending(ts)

		pnl := decimalx.Zero
		for _, ct := range bt.broker.ClosedTrades()[closedBefore:] {
			if snap, ok := before[ct.Unit.ID]; ok {
				pnl = pnl.Add(unitPnL(snap, ct.Unit.ExitPrice))
				delete(before, ct.Unit.ID)
			}
		}
		for _, symbol := range bt.portfolio.Symbols() {
			for _, u := range bt.broker.Positions().Get(symbol).Units() {
				if snap, ok := before[u.ID]; ok {
					pnl = pnl.Add(unitPnL(snap, u.LastClose))
				}
			}
		}

		ret := decimalx.Zero
		if !equity.IsZero() {
			ret = pnl.Div(equity)
		}
		equity = equity.Add(pnl)
		returns = append(returns, ret)
	}

	trades := bt.broker.ClosedTrades()
	return &Result{
		ReturnSeries: returns,
		Trades:       trades,
		Stats:        summarize(trades),
	}
}

func unitPnL(snap unitSnapshot, exitOrMarkPrice decimalx.Decimal) decimalx.Decimal {
	delta := exitOrMarkPrice.Sub(snap.prevClose)
	if snap.side == position.UnitShort {
		delta = delta.Neg()
	}
	return delta.Mul(snap.units).Mul(snap.bigPointValue)
}

func (bt *Backtester) snapshotOpenUnits() map[uuid.UUID]unitSnapshot {
	out := map[uuid.UUID]unitSnapshot{}
	for _, symbol := range bt.portfolio.Symbols() {
		sec, ok := bt.portfolio.Find(symbol)
		if !ok {
			continue
		}
		bpv := sec.Attributes().BigPointValue
		for _, u := range bt.broker.Positions().Get(symbol).Units() {
			out[u.ID] = unitSnapshot{prevClose: u.LastClose, units: u.Units, side: u.Side, bigPointValue: bpv}
		}
	}
	return out
}

func summarize(trades []broker.ClosedTrade) ClosedTradeStats {
	stats := ClosedTradeStats{Count: len(trades)}
	if len(trades) == 0 {
		return stats
	}

	grossWin := decimalx.Zero
	grossLoss := decimalx.Zero
	holding := make([]int, 0, len(trades))
	for _, t := range trades {
		pnl := t.PnL()
		if t.IsWin() {
			stats.Wins++
			grossWin = grossWin.Add(pnl)
		} else {
			stats.Losses++
			grossLoss = grossLoss.Add(pnl.Abs())
		}
		holding = append(holding, t.HoldingBars())
	}

	stats.PalProfitability = decimalx.NewFromInt(int64(stats.Wins)).Div(decimalx.NewFromInt(int64(stats.Count)))
	if !grossLoss.IsZero() {
		stats.ProfitFactor = grossWin.Div(grossLoss)
	}
	stats.MedianHoldingPeriodBars = medianInt(holding)
	return stats
}

func medianInt(xs []int) int {
	sorted := make([]int, len(xs))
	copy(sorted, xs)
	sort.Ints(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
