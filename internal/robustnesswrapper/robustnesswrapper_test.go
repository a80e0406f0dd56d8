package robustnesswrapper

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohlcquant/palvalidator/internal/filtering"
)

func TestBucketForBoundaries(t *testing.T) {
	require.Equal(t, Perfect, BucketFor(1.0))
	require.Equal(t, High, BucketFor(0.96))
	require.Equal(t, Moderate, BucketFor(0.8))
	require.Equal(t, Low, BucketFor(0.55))
	require.Equal(t, VeryLow, BucketFor(0.2))
}

func TestRunAggregatesPassRateDeterministically(t *testing.T) {
	cfg := Config{N: 10, MasterSeed: 99, MinPassRate: 0.8}
	calls := 0
	res := Run(cfg, func(s uint64) filtering.Decision {
		calls++
		return filtering.Decision{Pass: s%3 != 0}
	})
	require.Equal(t, 10, calls)
	require.Len(t, res.Seeds, 10)
	require.InDelta(t, float64(res.PassCount)/10, res.PassRate, 1e-9)

	again := Run(cfg, func(s uint64) filtering.Decision {
		return filtering.Decision{Pass: s%3 != 0}
	})
	require.Equal(t, res.Seeds, again.Seeds)
	require.Equal(t, res.PassRate, again.PassRate)
}

func TestRunRequirePerfect(t *testing.T) {
	cfg := Config{N: 5, MasterSeed: 1, RequirePerfect: true}
	res := Run(cfg, func(uint64) filtering.Decision { return filtering.Decision{Pass: true} })
	require.True(t, res.Accepted)

	res = Run(cfg, func(s uint64) filtering.Decision { return filtering.Decision{Pass: s%2 == 0} })
	require.False(t, res.Accepted)
}
