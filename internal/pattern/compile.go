package pattern

import (
	"time"

	"github.com/ohlcquant/palvalidator/internal/security"
)

// Predicate is a compiled pattern: repeatedly evaluable over
// (security, timestamp) with stable cost per call.
type Predicate func(sec *security.Security, ts time.Time) bool

// MaxLookback returns the greatest bar offset expr reads, the warm-up
// window a caller must guarantee before ever evaluating it.
func MaxLookback(expr BoolExpr) int { return expr.Lookback() }

// Compile walks expr once and returns a predicate under the mandatory
// safety net: any data-access failure (missing bar, offset past the
// head of the series) folds the whole evaluation to false rather than
// propagating. This is the default mode real strategies run under.
func Compile(expr BoolExpr) Predicate {
	return func(sec *security.Security, ts time.Time) bool {
		return evalSafe(expr, sec, ts)
	}
}

// StrictPredicate is CompileStrict's result: it surfaces data-access
// errors instead of folding them, for callers that want to distinguish
// "pattern is false" from "pattern could not be evaluated here" (Open
// Question 1 -- ships as opt-in, off by default).
type StrictPredicate func(sec *security.Security, ts time.Time) (bool, error)

// CompileStrict is Compile's strict counterpart: data-access errors are
// returned rather than folded to false.
func CompileStrict(expr BoolExpr) StrictPredicate {
	return func(sec *security.Security, ts time.Time) (bool, error) {
		return expr.eval(sec, ts)
	}
}
