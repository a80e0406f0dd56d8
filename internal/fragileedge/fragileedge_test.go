package fragileedge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateKeepsCleanStrategy(t *testing.T) {
	in := Inputs{LBAnnual: 0.30, Hurdle: 0.05, Q05: -0.01, ES05: -0.015, LBPerGM: 0.01, RelVar: 0.05, N: 200}
	require.Equal(t, Keep, Evaluate(in, DefaultThresholds))
}

func TestEvaluateDropsSevereTailNearHurdle(t *testing.T) {
	in := Inputs{LBAnnual: 0.051, Hurdle: 0.05, Q05: -0.06, ES05: -0.08, LBPerGM: 0.01, RelVar: 0.05, N: 200}
	require.Equal(t, Drop, Evaluate(in, DefaultThresholds))
}

func TestEvaluateDownweightsSmallSample(t *testing.T) {
	in := Inputs{LBAnnual: 0.30, Hurdle: 0.05, Q05: -0.01, ES05: -0.015, LBPerGM: 0.01, RelVar: 0.05, N: 10}
	require.Equal(t, Downweight, Evaluate(in, DefaultThresholds))
}

func TestAdviceString(t *testing.T) {
	require.Equal(t, "Keep", Keep.String())
	require.Equal(t, "Downweight", Downweight.String())
	require.Equal(t, "Drop", Drop.String())
}
