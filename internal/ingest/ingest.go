// Package ingest declares the narrow contracts main.go needs to obtain
// OHLC bars and a compiled pattern set. The concrete file formats
// (PAL's XML pattern grammar, CSV/binary OHLC readers) are explicit
// external collaborators -- this package defines only the interfaces a
// concrete loader must satisfy, per the Non-goals around raw OHLC file
// readers and the upstream pattern miner.
package ingest

import (
	"github.com/ohlcquant/palvalidator/internal/security"
	"github.com/ohlcquant/palvalidator/internal/strategy"
	"github.com/ohlcquant/palvalidator/internal/timeseries"
)

// BarSource loads a security's OHLC history. A concrete implementation
// might read CSV, Parquet, or a vendor API; this package only names the
// contract the rest of the pipeline depends on.
type BarSource interface {
	LoadSeries(symbol string) (*timeseries.Series, error)
}

// SecuritySource resolves a symbol to a fully-formed Security, combining
// a BarSource's bars with the instrument's Attributes.
type SecuritySource interface {
	LoadSecurity(symbol string) (*security.Security, error)
}

// PatternSource loads the compiled pattern set a strategy is built
// around. A concrete implementation might parse PAL's XML grammar or a
// JSON intermediate form produced by an external miner.
type PatternSource interface {
	LoadPatterns(path string) ([]strategy.Pattern, error)
}
