package position

import (
	"time"

	"github.com/ohlcquant/palvalidator/internal/portfolio"
	"github.com/ohlcquant/palvalidator/internal/security"
)

// binding pairs an instrument position with the security it trades, the
// cache entry spec 4.5 describes for O(1) per-bar updates.
type binding struct {
	position *InstrumentPosition
	security *security.Security
}

// Manager is the symbol -> InstrumentPosition map with the binding
// cache. The cache is invalidated whenever an instrument is added or the
// owning portfolio pointer changes, and on explicit Invalidate().
type Manager struct {
	bySymbol  map[string]*InstrumentPosition
	portfolio *portfolio.Portfolio
	cache     []binding
	cacheOK   bool
}

// NewManager returns a manager bound to p.
func NewManager(p *portfolio.Portfolio) *Manager {
	return &Manager{bySymbol: map[string]*InstrumentPosition{}, portfolio: p}
}

// Get returns the InstrumentPosition for symbol, creating a flat one if
// absent, and marks the binding cache stale on first creation.
func (m *Manager) Get(symbol string) *InstrumentPosition {
	ip, ok := m.bySymbol[symbol]
	if !ok {
		ip = NewInstrumentPosition(symbol)
		m.bySymbol[symbol] = ip
		m.cacheOK = false
	}
	return ip
}

// SetPortfolio rebinds the manager to a different portfolio, the other
// cache-invalidation trigger named in spec 4.5.
func (m *Manager) SetPortfolio(p *portfolio.Portfolio) {
	m.portfolio = p
	m.cacheOK = false
}

// Invalidate forces a cache rebuild on the next AppendBarToAll.
func (m *Manager) Invalidate() { m.cacheOK = false }

func (m *Manager) rebuild() {
	m.cache = m.cache[:0]
	for symbol, ip := range m.bySymbol {
		sec, ok := m.portfolio.Find(symbol)
		if !ok {
			continue
		}
		m.cache = append(m.cache, binding{position: ip, security: sec})
	}
	m.cacheOK = true
}

// AppendBarToAll advances every tracked instrument's open units by one
// bar, using each security's series to look up the bar at ts. This is
// the O(1)-per-instrument hot path the binding cache exists for.
func (m *Manager) AppendBarToAll(ts time.Time) {
	if !m.cacheOK {
		m.rebuild()
	}
	for _, b := range m.cache {
		bar, err := b.security.Series().Get(ts)
		if err != nil {
			continue
		}
		b.position.AppendBar(bar)
	}
}
