package decimalx

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Percent stores a percentage value as its decimal equivalent: a value
// created from "50" (meaning 50%) is held internally as 0.50. Instances
// are obtained exclusively through FromDecimal/FromString, which serve
// them from a process-wide, magnitude-indexed cache -- this is the one
// sanctioned shared mutable named in spec.md section 5 besides the
// order-ID sequence.
type Percent struct {
	value Decimal
}

// AsDecimal returns the stored decimal equivalent (0.50 for 50%).
func (p Percent) AsDecimal() Decimal { return p.value }

var (
	percentCacheMu sync.Mutex
	percentCache   = map[string]Percent{}
)

// FromDecimal returns the Percent for number (treated as a percentage,
// e.g. 50 for 50%), reusing a cached instance keyed by number's exact
// string form when one already exists.
func FromDecimal(number Decimal) Percent {
	key := number.String()

	percentCacheMu.Lock()
	defer percentCacheMu.Unlock()

	if p, ok := percentCache[key]; ok {
		return p
	}
	p := Percent{value: number.Div(Hundred)}
	percentCache[key] = p
	return p
}

// FromString parses numberString as a percentage literal and returns the
// cached Percent, e.g. FromString("3.0") yields 0.03.
func FromString(numberString string) (Percent, error) {
	d, err := decimal.NewFromString(numberString)
	if err != nil {
		return Percent{}, err
	}
	return FromDecimal(d), nil
}
