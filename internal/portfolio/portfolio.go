// Package portfolio implements the symbol -> Security map of spec
// section 4.2, generalizing the teacher's single hard-coded ProductID
// (config.go) into a multi-instrument container with a unique-symbol
// invariant and deterministic iteration.
package portfolio

import (
	"fmt"

	"github.com/ohlcquant/palvalidator/internal/security"
)

// Portfolio maps symbol to Security. Iteration order is insertion order,
// held stable for reproducibility of downstream bootstraps (spec 4.2).
type Portfolio struct {
	bySymbol map[string]*security.Security
	order    []string
}

// New returns an empty Portfolio.
func New() *Portfolio {
	return &Portfolio{bySymbol: map[string]*security.Security{}}
}

// Add inserts sec, failing if its symbol is already present.
func (p *Portfolio) Add(sec *security.Security) error {
	if _, exists := p.bySymbol[sec.Symbol()]; exists {
		return fmt.Errorf("portfolio: duplicate symbol %q", sec.Symbol())
	}
	p.bySymbol[sec.Symbol()] = sec
	p.order = append(p.order, sec.Symbol())
	return nil
}

// Replace upserts sec by symbol.
func (p *Portfolio) Replace(sec *security.Security) {
	if _, exists := p.bySymbol[sec.Symbol()]; !exists {
		p.order = append(p.order, sec.Symbol())
	}
	p.bySymbol[sec.Symbol()] = sec
}

// Find returns the security for symbol, and whether it was found.
func (p *Portfolio) Find(symbol string) (*security.Security, bool) {
	s, ok := p.bySymbol[symbol]
	return s, ok
}

// Symbols returns the symbols in stable insertion order.
func (p *Portfolio) Symbols() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Securities returns the securities in the same stable order as Symbols.
func (p *Portfolio) Securities() []*security.Security {
	out := make([]*security.Security, 0, len(p.order))
	for _, sym := range p.order {
		out = append(out, p.bySymbol[sym])
	}
	return out
}

// Len returns the number of securities held.
func (p *Portfolio) Len() int { return len(p.order) }

// Clone returns an independent Portfolio holding clones of every
// Security, for the per-worker isolation required by spec section 5.
func (p *Portfolio) Clone() *Portfolio {
	clone := New()
	for _, sym := range p.order {
		clone.Replace(p.bySymbol[sym].Clone())
	}
	return clone
}
