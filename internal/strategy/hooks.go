package strategy

import (
	"time"

	"github.com/ohlcquant/palvalidator/internal/security"
)

// BacktesterHooks is the per-bar interface internal/backtester drives,
// per spec 4.8/4.9's fixed schedule: counter, exit, entry, then the
// broker's own pending-order processing (which is not part of this
// interface -- it belongs to internal/broker.Broker.ProcessPending).
type BacktesterHooks interface {
	OnBarCounter(symbol string)
	OnBarExit(sec *security.Security, dt time.Time)
	OnBarEntry(sec *security.Security, dt time.Time)
}
