// Package robustnesswrapper re-runs the filtering pipeline across N
// deterministic seeds derived from one master seed and accepts a
// strategy only when its pass rate clears a configured minimum.
package robustnesswrapper

import (
	"github.com/ohlcquant/palvalidator/internal/filtering"
	"github.com/ohlcquant/palvalidator/internal/seed"
)

// Bucket classifies a pass rate into the reporting buckets of spec
// 4.19.
type Bucket int

const (
	VeryLow Bucket = iota
	Low
	Moderate
	High
	Perfect
)

func (b Bucket) String() string {
	switch b {
	case Perfect:
		return "perfect"
	case High:
		return "high"
	case Moderate:
		return "moderate"
	case Low:
		return "low"
	default:
		return "very low"
	}
}

// BucketFor classifies a pass rate in [0,1] per spec 4.19's stated
// boundaries: perfect (1.0), high [0.95,0.99], moderate [0.8,0.94], low
// [0.5,0.79], very low (<0.5).
func BucketFor(passRate float64) Bucket {
	switch {
	case passRate >= 1.0:
		return Perfect
	case passRate >= 0.95:
		return High
	case passRate >= 0.8:
		return Moderate
	case passRate >= 0.5:
		return Low
	default:
		return VeryLow
	}
}

// RunFn invokes the filtering pipeline, black-box, for one derived
// seed. Callers close over their own portfolio/broker/strategy clone
// construction and the bootstrap seed usage within.
type RunFn func(derivedSeed uint64) filtering.Decision

// Config bundles the wrapper's tunables.
type Config struct {
	N              int
	MasterSeed     uint64
	MinPassRate    float64 // default 0.8
	RequirePerfect bool    // true requires pass rate == 1.0
}

// Result is the wrapper's aggregate outcome for one strategy.
type Result struct {
	Seeds     []uint64
	Decisions []filtering.Decision
	PassCount int
	PassRate  float64
	Bucket    Bucket
	Accepted  bool
}

// Run derives cfg.N seeds from cfg.MasterSeed and invokes run once per
// seed, aggregating to a pass rate and bucket.
func Run(cfg Config, run RunFn) Result {
	seeds := seed.Derive(cfg.MasterSeed, cfg.N)
	decisions := make([]filtering.Decision, len(seeds))
	passCount := 0
	for i, s := range seeds {
		d := run(s)
		decisions[i] = d
		if d.Pass {
			passCount++
		}
	}

	passRate := 0.0
	if len(seeds) > 0 {
		passRate = float64(passCount) / float64(len(seeds))
	}

	minPassRate := cfg.MinPassRate
	if minPassRate == 0 {
		minPassRate = 0.8
	}
	accepted := passRate >= minPassRate
	if cfg.RequirePerfect {
		accepted = passRate >= 1.0
	}

	return Result{
		Seeds:     seeds,
		Decisions: decisions,
		PassCount: passCount,
		PassRate:  passRate,
		Bucket:    BucketFor(passRate),
		Accepted:  accepted,
	}
}
