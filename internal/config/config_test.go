package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultHasSaneBaseline(t *testing.T) {
	cfg := Default()
	require.Equal(t, 2000, cfg.Resamples)
	require.Equal(t, 0.95, cfg.Confidence)
	require.Equal(t, 252.0, cfg.AnnualizationFactor)
}

func TestLoadFromEnvOverridesDefaults(t *testing.T) {
	os.Setenv("PALVALIDATOR_RESAMPLES", "500")
	os.Setenv("PALVALIDATOR_SYMBOL", "SPY")
	t.Cleanup(func() {
		os.Unsetenv("PALVALIDATOR_RESAMPLES")
		os.Unsetenv("PALVALIDATOR_SYMBOL")
	})

	cfg := LoadFromEnv()
	require.Equal(t, 500, cfg.Resamples)
	require.Equal(t, "SPY", cfg.Symbol)
}

func TestLoadDotEnvDoesNotOverrideExistingEnv(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/.env"
	require.NoError(t, os.WriteFile(path, []byte("PALVALIDATOR_SYMBOL=FROM_FILE\n"), 0o644))

	os.Setenv("PALVALIDATOR_SYMBOL", "FROM_PROCESS")
	t.Cleanup(func() { os.Unsetenv("PALVALIDATOR_SYMBOL") })

	loadDotEnv(path)
	require.Equal(t, "FROM_PROCESS", os.Getenv("PALVALIDATOR_SYMBOL"))
}
