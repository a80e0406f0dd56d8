package divergence

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateFlagsOnAbsoluteThreshold(t *testing.T) {
	res := Evaluate(0.10, 0.04, DefaultThresholds)
	require.True(t, res.Flagged)
}

func TestEvaluateDoesNotFlagCloseValues(t *testing.T) {
	res := Evaluate(0.10, 0.095, DefaultThresholds)
	require.False(t, res.Flagged)
}

func TestEvaluateHandlesNonPositiveMax(t *testing.T) {
	res := Evaluate(-0.01, -0.02, DefaultThresholds)
	require.Equal(t, 0.0, res.Rel)
}
