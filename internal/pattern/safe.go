package pattern

import (
	"time"

	"github.com/ohlcquant/palvalidator/internal/security"
)

// evalSafe is the mandatory safety net: a compiled predicate must never
// crash or propagate a data-access failure. It folds both returned
// errors (DataNotFound, OffsetOutOfRange, the Meander zero-PrevClose
// case) and any panic (e.g. a decimal division whose divisor turned
// out to be zero in a path this package didn't already guard) to
// false.
func evalSafe(expr BoolExpr, sec *security.Security, ts time.Time) (result bool) {
	defer func() {
		if recover() != nil {
			result = false
		}
	}()
	ok, err := expr.eval(sec, ts)
	if err != nil {
		return false
	}
	return ok
}
