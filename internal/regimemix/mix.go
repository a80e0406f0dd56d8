package regimemix

import (
	"golang.org/x/exp/rand"

	"github.com/ohlcquant/palvalidator/internal/bootstrap"
	"github.com/ohlcquant/palvalidator/internal/statx"
)

// TargetMix assigns a resampling weight to each regime; weights need not
// sum to 1, they are normalized internally.
type TargetMix map[Regime]float64

// reweightedResample is StationaryBlockResample with one change: each new
// block's starting index is drawn by first picking a regime according to
// mix, then uniformly among that regime's bar indices, implementing the
// "reweighting bootstrap probabilities" spec 4.15 describes.
func reweightedResample(rng *rand.Rand, returns []float64, labels []Regime, mix TargetMix, meanBlockLen int) []float64 {
	n := len(returns)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	if meanBlockLen < 1 {
		meanBlockLen = 1
	}
	continuationProb := 1 - 1/float64(meanBlockLen)

	byRegime := indexByRegime(labels)
	start := func() int { return drawReweightedIndex(rng, byRegime, mix, n) }

	i := start()
	for t := 0; t < n; t++ {
		out[t] = returns[i]
		if rng.Float64() < continuationProb {
			i = (i + 1) % n
		} else {
			i = start()
		}
	}
	return out
}

func indexByRegime(labels []Regime) map[Regime][]int {
	byRegime := map[Regime][]int{}
	for i, r := range labels {
		byRegime[r] = append(byRegime[r], i)
	}
	return byRegime
}

func drawReweightedIndex(rng *rand.Rand, byRegime map[Regime][]int, mix TargetMix, n int) int {
	total := 0.0
	for _, w := range mix {
		total += w
	}
	if total <= 0 {
		return rng.Intn(n)
	}

	draw := rng.Float64() * total
	for _, regime := range []Regime{RegimeLow, RegimeMid, RegimeHigh} {
		w, ok := mix[regime]
		if !ok {
			continue
		}
		if draw < w {
			indices := byRegime[regime]
			if len(indices) == 0 {
				return rng.Intn(n)
			}
			return indices[rng.Intn(len(indices))]
		}
		draw -= w
	}
	return rng.Intn(n)
}

// MixResult is one target mix's BCa-GM outcome.
type MixResult struct {
	Mix       TargetMix
	LBAnnual  float64
	Pass      bool
}

// Result is the regime-mix stage's aggregate outcome: fails when fewer
// than mixPassFraction of the target mixes clear the hurdle.
type Result struct {
	Mixes     []MixResult
	PassCount int
	Pass      bool
	Reason    string
}

// Evaluate runs BCa-GM on a reweighted resample for each mix in mixes
// and fails the stage if fewer than mixPassFraction of them clear
// hurdle (annualized).
func Evaluate(returns []float64, labels []Regime, mixes []TargetMix, blockLength, resamples int, confidence, annualizationFactor, hurdle, mixPassFraction float64, seed uint64) Result {
	results := make([]MixResult, 0, len(mixes))
	passCount := 0

	for i, mix := range mixes {
		rng := rand.New(rand.NewSource(seed + uint64(500+i)))
		resampleFn := func(rs []float64) []float64 {
			return reweightedResample(rng, rs, labels, mix, blockLength)
		}
		iv := bootstrap.RunCustom(returns, bootstrap.GeometricMean, resampleFn, resamples, confidence)
		lbAnnual := statx.Annualize(iv.LB, annualizationFactor)
		pass := lbAnnual > hurdle
		if pass {
			passCount++
		}
		results = append(results, MixResult{Mix: mix, LBAnnual: lbAnnual, Pass: pass})
	}

	out := Result{Mixes: results, PassCount: passCount}
	if len(mixes) == 0 {
		out.Pass = true
		return out
	}
	fraction := float64(passCount) / float64(len(mixes))
	if fraction < mixPassFraction {
		out.Reason = "regime-mix FAIL: fewer than the minimum fraction of mixes cleared the hurdle"
		return out
	}
	out.Pass = true
	return out
}

// DefaultMixes returns three illustrative target mixes: an all-equal
// weighting of the three regimes, plus low-vol-heavy and high-vol-heavy
// stress mixes.
func DefaultMixes() []TargetMix {
	return []TargetMix{
		{RegimeLow: 1, RegimeMid: 1, RegimeHigh: 1},
		{RegimeLow: 3, RegimeMid: 1, RegimeHigh: 1},
		{RegimeLow: 1, RegimeMid: 1, RegimeHigh: 3},
	}
}
