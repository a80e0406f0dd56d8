// Package strategy implements the PAL and meta strategy variants of
// spec section 4.8: the per-bar hooks the backtester drives, entry/exit
// policy over a pattern predicate, pyramiding, breakeven, and both-sides
// neutrality. It generalizes the teacher's single hard-coded strategy
// loop (strategy.go's "one signal, one position" model) into a
// pattern-driven, multi-unit strategy.
package strategy

// Options bundles the per-strategy knobs named in spec 3's Strategy
// type: pyramiding, pyramid cap, and a time-stop on holding period.
// Breakeven is meta-only and lives on MetaStrategy itself.
type Options struct {
	PyramidingEnabled    bool
	MaxPyramidPositions  int
	MaxHoldingPeriodBars int
}

// BreakevenOptions governs the meta strategy's breakeven rule (spec
// 4.8's exit policy step 2).
type BreakevenOptions struct {
	Enabled          bool
	ActivationBars   int
}
