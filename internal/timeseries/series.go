// Package timeseries implements the ordered OHLCV bar store of spec
// section 4.1: O(log n) lookup by timestamp, O(1) relative-offset access
// once a base index is known, and forward iteration. It generalizes the
// teacher's ad hoc loadCSV([]Candle) slice (backtest.go) into the
// structured, invariant-checked store the rest of the system depends on.
package timeseries

import (
	"sort"
	"time"

	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/errs"
)

// Series is an ordered, duplicate-free sequence of bars for one symbol.
// Mutation (none is exposed after construction) would invalidate any
// outstanding iterator; in practice the only mutation point in the
// system is Security.ResetTimeSeries, which swaps in a whole new Series
// rather than mutating one in place.
type Series struct {
	symbol string
	bars   []Bar
	index  map[int64]int // unix-nano timestamp -> position in bars
}

// New builds a Series from a timestamp-sorted, duplicate-free sequence.
// It re-sorts defensively (stable, so equal timestamps -- disallowed by
// the uniqueness invariant but asserted here -- preserve insertion order)
// and fails on duplicates.
func New(symbol string, bars []Bar) (*Series, error) {
	sorted := make([]Bar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	idx := make(map[int64]int, len(sorted))
	for i, b := range sorted {
		if err := b.Validate(); err != nil {
			return nil, err
		}
		key := b.Timestamp.UnixNano()
		if _, exists := idx[key]; exists {
			return nil, &errs.ConfigurationError{Field: "timeseries", Reason: "duplicate timestamp " + b.Timestamp.String()}
		}
		idx[key] = i
	}
	return &Series{symbol: symbol, bars: sorted, index: idx}, nil
}

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.bars) }

// Symbol returns the owning symbol.
func (s *Series) Symbol() string { return s.symbol }

// IsDateFound reports whether ts is present in the series.
func (s *Series) IsDateFound(ts time.Time) bool {
	_, ok := s.index[ts.UnixNano()]
	return ok
}

func (s *Series) indexOf(ts time.Time) (int, error) {
	i, ok := s.index[ts.UnixNano()]
	if !ok {
		return 0, &errs.DataNotFound{Symbol: s.symbol, Timestamp: ts}
	}
	return i, nil
}

// Get returns the bar at ts, or DataNotFound.
func (s *Series) Get(ts time.Time) (Bar, error) {
	i, err := s.indexOf(ts)
	if err != nil {
		return Bar{}, err
	}
	return s.bars[i], nil
}

// GetOffset returns the bar k positions earlier than ts (k=0 is the same
// bar). Fails with DataNotFound if ts is absent, OffsetOutOfRange if the
// offset walks off the head of the series.
func (s *Series) GetOffset(ts time.Time, k int) (Bar, error) {
	i, err := s.indexOf(ts)
	if err != nil {
		return Bar{}, err
	}
	j := i - k
	if j < 0 || j >= len(s.bars) {
		return Bar{}, &errs.OffsetOutOfRange{Symbol: s.symbol, Timestamp: ts, Offset: k}
	}
	return s.bars[j], nil
}

// IndexAt returns the positional index of ts, for callers (the bar
// counter) that need to know how far into the series a timestamp sits.
func (s *Series) IndexAt(ts time.Time) (int, error) { return s.indexOf(ts) }

// At returns the bar at a known positional index; used by iteration and
// by callers holding an index from IndexAt.
func (s *Series) At(i int) (Bar, bool) {
	if i < 0 || i >= len(s.bars) {
		return Bar{}, false
	}
	return s.bars[i], true
}

// All returns every bar in ascending timestamp order. Callers must treat
// the returned slice as read-only.
func (s *Series) All() []Bar { return s.bars }

// GetOpen, GetHigh, GetLow, GetClose, GetVolume are field-accessor
// conveniences mirroring spec 4.1's get{Open,High,Low,Close,Volume}(ts,k).
func (s *Series) GetOpen(ts time.Time, k int) (decimalx.Decimal, error) {
	b, err := s.GetOffset(ts, k)
	return b.Open, err
}
func (s *Series) GetHigh(ts time.Time, k int) (decimalx.Decimal, error) {
	b, err := s.GetOffset(ts, k)
	return b.High, err
}
func (s *Series) GetLow(ts time.Time, k int) (decimalx.Decimal, error) {
	b, err := s.GetOffset(ts, k)
	return b.Low, err
}
func (s *Series) GetClose(ts time.Time, k int) (decimalx.Decimal, error) {
	b, err := s.GetOffset(ts, k)
	return b.Close, err
}
func (s *Series) GetVolume(ts time.Time, k int) (decimalx.Decimal, error) {
	b, err := s.GetOffset(ts, k)
	return b.Volume, err
}

// GetDateTime returns the timestamp k bars before ts.
func (s *Series) GetDateTime(ts time.Time, k int) (time.Time, error) {
	b, err := s.GetOffset(ts, k)
	return b.Timestamp, err
}

// DominantInterval returns the modal inter-bar gap, used to classify
// intraday series and pick an annualization factor.
func (s *Series) DominantInterval() time.Duration {
	if len(s.bars) < 2 {
		return 0
	}
	counts := map[time.Duration]int{}
	best, bestN := time.Duration(0), 0
	for i := 1; i < len(s.bars); i++ {
		gap := s.bars[i].Timestamp.Sub(s.bars[i-1].Timestamp)
		counts[gap]++
		if counts[gap] > bestN {
			best, bestN = gap, counts[gap]
		}
	}
	return best
}
