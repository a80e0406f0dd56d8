package strategy

import (
	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/pattern"
)

// Side is the directional bias a pattern trades.
type Side int

const (
	Long Side = iota
	Short
)

// Pattern pairs a compiled boolean expression with the side, percent
// exit levels, and human identifier a pattern-file entry carries (spec
// section 6's pattern-file contract).
type Pattern struct {
	Name               string
	AST                pattern.BoolExpr
	Side               Side
	ProfitTargetPercent decimalx.Decimal
	StopLossPercent     decimalx.Decimal
	MaxBarsBack         int // the human-readable label from the pattern file
}

// MaxLookback returns the AST-computed lookback -- the value gating
// entries, per spec 4.8 ("only if the per-symbol bar counter exceeds
// the pattern's maximum lookback"). This is independent of the
// pattern file's own MaxBarsBack label, which may be a looser
// human estimate.
func (p Pattern) MaxLookback() int { return pattern.MaxLookback(p.AST) }

// Predicate compiles p.AST under the mandatory safety net.
func (p Pattern) Predicate() pattern.Predicate { return pattern.Compile(p.AST) }
