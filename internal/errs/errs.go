// Package errs defines the semantic error kinds named in spec section 7.
// They are plain structs implementing error so callers can errors.As on
// the kind they care about, rather than string-matching messages.
package errs

import (
	"fmt"
	"time"
)

// DataNotFound is raised by the time-series store when a timestamp is
// absent from the series.
type DataNotFound struct {
	Symbol    string
	Timestamp time.Time
}

func (e *DataNotFound) Error() string {
	return fmt.Sprintf("data not found: %s @ %s", e.Symbol, e.Timestamp)
}

// OffsetOutOfRange is raised when a relative-offset lookup walks off the
// head of the series.
type OffsetOutOfRange struct {
	Symbol    string
	Timestamp time.Time
	Offset    int
}

func (e *OffsetOutOfRange) Error() string {
	return fmt.Sprintf("offset out of range: %s @ %s, k=%d", e.Symbol, e.Timestamp, e.Offset)
}

// BrokerError covers the broker's invariant violations: missing position,
// invalid unit number, unknown symbol.
type BrokerError struct {
	Op     string
	Symbol string
	Reason string
}

func (e *BrokerError) Error() string {
	return fmt.Sprintf("broker error: %s %s: %s", e.Op, e.Symbol, e.Reason)
}

// BootstrapFailure marks a degenerate BCa fit (extreme z0/a, zero
// variance, too few effective resamples) that fell back to a percentile
// interval.
type BootstrapFailure struct {
	Reason string
}

func (e *BootstrapFailure) Error() string {
	return fmt.Sprintf("bootstrap fallback to percentile interval: %s", e.Reason)
}

// PipelineFailure wraps a stage's Fail(kind, reason) outcome so it can be
// propagated as a Go error where needed (e.g. by the wrapper/worker layer).
type PipelineFailure struct {
	Kind   string
	Reason string
}

func (e *PipelineFailure) Error() string {
	return fmt.Sprintf("pipeline failure [%s]: %s", e.Kind, e.Reason)
}

// ConfigurationError is fatal at startup: invalid ranges, nonsensical
// thresholds.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}
