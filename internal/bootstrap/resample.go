// Package bootstrap implements the stationary block bootstrap and the
// BCa confidence interval construction the validation pipeline runs
// against a strategy's per-bar return vector.
package bootstrap

import (
	"golang.org/x/exp/rand"
)

// StationaryBlockResample draws one resample of length len(returns) using
// Politis & Romano's stationary bootstrap: blocks have geometrically
// distributed length with mean meanBlockLen, and the index space wraps
// circularly so every bar has an equal chance of starting a block.
func StationaryBlockResample(rng *rand.Rand, returns []float64, meanBlockLen int) []float64 {
	n := len(returns)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	if meanBlockLen < 1 {
		meanBlockLen = 1
	}
	continuationProb := 1 - 1/float64(meanBlockLen)

	i := rng.Intn(n)
	for t := 0; t < n; t++ {
		out[t] = returns[i]
		if rng.Float64() < continuationProb {
			i = (i + 1) % n
		} else {
			i = rng.Intn(n)
		}
	}
	return out
}
