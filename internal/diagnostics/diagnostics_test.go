package diagnostics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNullBootstrapCollectorDiscards(t *testing.T) {
	var obs BootstrapObserver = NullBootstrapCollector{}
	obs.OnBootstrapResult(Record{StrategyName: "ignored"})
}

func TestCsvBootstrapCollectorWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.csv")

	c, err := NewCsvBootstrapCollector(path)
	require.NoError(t, err)
	c.OnBootstrapResult(Record{
		StrategyUniqueID: 1,
		StrategyName:     "strat-a",
		Symbol:           "SPY",
		Metric:           MetricGeoMean,
		ChosenMethod:     "BCa",
		ChosenLowerBound: 0.01,
		ChosenUpperBound: 0.05,
		IsChosen:         true,
		BCaAvailable:     true,
		BCaZ0:            0.1,
		BCaAccel:         0.02,
		SampleSize:       250,
	})
	require.NoError(t, c.Close())

	c2, err := NewCsvBootstrapCollector(path)
	require.NoError(t, err)
	c2.OnBootstrapResult(Record{StrategyName: "strat-b"})
	require.NoError(t, c2.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 3, len(splitLines(string(data))))
}

func splitLines(s string) []string {
	var lines []string
	cur := ""
	for _, r := range s {
		if r == '\n' {
			if cur != "" {
				lines = append(lines, cur)
			}
			cur = ""
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
