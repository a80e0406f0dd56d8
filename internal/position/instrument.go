package position

import (
	"fmt"
	"time"

	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/timeseries"
)

// FlatShortLong is the three-state machine of spec 4.5: Flat | Long(units)
// | Short(units). It is not a sum type in the Rust/OCaml sense (Go lacks
// one) but enforces the same invariants a tagged-variant dispatch would:
// every operation checks the current state and returns an error instead
// of the "flat singleton that throws" pattern the original C++ used.
type FlatShortLong int

const (
	StateFlat FlatShortLong = iota
	StateLong
	StateShort
)

// InstrumentPosition is the per-symbol state machine over one side's
// units. All units within a non-flat state share the symbol and side;
// unit numbering is 1-based and preserved in entry order.
type InstrumentPosition struct {
	symbol string
	state  FlatShortLong
	units  []*Unit
}

// NewInstrumentPosition returns a flat position for symbol.
func NewInstrumentPosition(symbol string) *InstrumentPosition {
	return &InstrumentPosition{symbol: symbol, state: StateFlat}
}

func (ip *InstrumentPosition) Symbol() string      { return ip.symbol }
func (ip *InstrumentPosition) State() FlatShortLong { return ip.state }
func (ip *InstrumentPosition) IsFlat() bool         { return ip.state == StateFlat }

// Units returns the open units in entry order. Callers must not mutate
// the returned slice.
func (ip *InstrumentPosition) Units() []*Unit { return ip.units }

// UnitCount returns the number of currently open units.
func (ip *InstrumentPosition) UnitCount() int { return len(ip.units) }

// TotalUnits sums the per-unit size across all open units.
func (ip *InstrumentPosition) TotalUnits() decimalx.Decimal {
	total := decimalx.Zero
	for _, u := range ip.units {
		total = total.Add(u.Units)
	}
	return total
}

func sideOf(s FlatShortLong) UnitSide {
	if s == StateShort {
		return UnitShort
	}
	return UnitLong
}

// AddUnit opens unit on the given side. From Flat it transitions to
// Long/Short; adding an opposite-side unit while already Long/Short
// fails (spec invariant 13).
func (ip *InstrumentPosition) AddUnit(side UnitSide, entryBar timeseries.Bar, entryPrice, units decimalx.Decimal) (*Unit, error) {
	wantState := StateLong
	if side == UnitShort {
		wantState = StateShort
	}

	switch ip.state {
	case StateFlat:
		ip.state = wantState
	case wantState:
		// same-side pyramiding, allowed
	default:
		return nil, fmt.Errorf("position %s: cannot add %v unit while %v", ip.symbol, side, ip.state)
	}

	number := 1
	if len(ip.units) > 0 {
		number = ip.units[len(ip.units)-1].Number + 1
	}
	u := NewUnit(number, ip.symbol, side, entryBar, entryPrice, units)
	ip.units = append(ip.units, u)
	return u, nil
}

// CloseUnit closes unitNumber (1-based) at (at, price), transitioning to
// Flat if it was the last open unit.
func (ip *InstrumentPosition) CloseUnit(at time.Time, price decimalx.Decimal, unitNumber int) (*Unit, error) {
	idx := -1
	for i, u := range ip.units {
		if u.Number == unitNumber && u.State == UnitOpen {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("position %s: no open unit #%d", ip.symbol, unitNumber)
	}
	u := ip.units[idx]
	u.Close(at, price)
	ip.units = append(ip.units[:idx], ip.units[idx+1:]...)
	if len(ip.units) == 0 {
		ip.state = StateFlat
	}
	return u, nil
}

// CloseAll closes every open unit at (at, price), the "all-unit exit" of
// spec 4.5, and transitions to Flat.
func (ip *InstrumentPosition) CloseAll(at time.Time, price decimalx.Decimal) []*Unit {
	closed := make([]*Unit, 0, len(ip.units))
	for _, u := range ip.units {
		u.Close(at, price)
		closed = append(closed, u)
	}
	ip.units = nil
	ip.state = StateFlat
	return closed
}

// AppendBar advances every open unit's history by one bar (spec 4.5's
// bar-update rule).
func (ip *InstrumentPosition) AppendBar(bar timeseries.Bar) {
	for _, u := range ip.units {
		u.AppendBar(bar)
	}
}

// UnitByNumber returns the open unit numbered n, if any.
func (ip *InstrumentPosition) UnitByNumber(n int) (*Unit, bool) {
	for _, u := range ip.units {
		if u.Number == n {
			return u, true
		}
	}
	return nil, false
}
