// Package security implements spec section 4.3's instrument model:
// symbol, big-point value, tick, kind, and the time series a security
// observes. It generalizes the teacher's implicit "one product, one
// granularity" assumption (Config.ProductID/Granularity in config.go)
// into a first-class, portfolio-held type.
package security

import (
	"time"

	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/timeseries"
)

// Kind distinguishes the instrument families the tick policy and sizing
// rules care about.
type Kind int

const (
	KindEquity Kind = iota
	KindFuture
	KindFundETF
	KindFundMutual
)

// Attributes holds the metadata the execution-tick policy and position
// sizer consult.
type Attributes struct {
	Kind          Kind
	Tick          decimalx.Decimal
	TickHalf      decimalx.Decimal
	BigPointValue decimalx.Decimal
	Inception     time.Time
	SplitAdjusted bool
}

// DefaultEquityAttributes returns the equity defaults named in spec 4.3:
// tick $0.01, big-point 1.
func DefaultEquityAttributes(splitAdjusted bool, inception time.Time) Attributes {
	tick := decimalx.MustFromString("0.01")
	return Attributes{
		Kind:          KindEquity,
		Tick:          tick,
		TickHalf:      tick.Div(decimalx.Two),
		BigPointValue: decimalx.One,
		Inception:     inception,
		SplitAdjusted: splitAdjusted,
	}
}

// NewFutureAttributes builds attributes for a future, where tick and
// big-point value must be supplied explicitly.
func NewFutureAttributes(tick, bigPoint decimalx.Decimal, inception time.Time) Attributes {
	return Attributes{
		Kind:          KindFuture,
		Tick:          tick,
		TickHalf:      tick.Div(decimalx.Two),
		BigPointValue: bigPoint,
		Inception:     inception,
	}
}

// Security is an instrument's identity plus a read-only reference to its
// time series. The series may be swapped (ResetTimeSeries) for synthetic
// permutations; all other fields are immutable after construction.
type Security struct {
	symbol     string
	name       string
	attributes Attributes
	series     *timeseries.Series
}

// New constructs a Security over an existing series.
func New(symbol, name string, attrs Attributes, series *timeseries.Series) *Security {
	return &Security{symbol: symbol, name: name, attributes: attrs, series: series}
}

func (s *Security) Symbol() string            { return s.symbol }
func (s *Security) Name() string              { return s.name }
func (s *Security) Attributes() Attributes    { return s.attributes }
func (s *Security) Series() *timeseries.Series { return s.series }

// ResetTimeSeries is the one sanctioned mutation (spec 4.3, 4.5): swap in
// a new series for synthetic permutations. It is NOT thread-safe against
// concurrent readers of the same Security -- callers running strategies
// in parallel must operate on per-worker Clone()s (spec section 5).
func (s *Security) ResetTimeSeries(series *timeseries.Series) {
	s.series = series
}

// Clone returns an independent copy sharing no mutable state with s,
// suitable for handing to a worker goroutine per spec section 5. The
// underlying Series is read-only after construction so it is safe to
// share the pointer across clones.
func (s *Security) Clone() *Security {
	return &Security{symbol: s.symbol, name: s.name, attributes: s.attributes, series: s.series}
}
