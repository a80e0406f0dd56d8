// Package config reads the validation run's knobs from the process
// environment, generalizing the teacher's env.go getEnv/getEnvFloat/
// getEnvBool/getEnvInt helpers and .env loader to the pipeline's own
// settings rather than trading-bot settings.
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/hurdle"
)

// Config holds every runtime knob the validation pipeline reads from
// the environment.
type Config struct {
	// Inputs
	OHLCPath    string
	PatternFile string
	Symbol      string

	// Bootstrap
	Resamples           int
	Confidence           float64
	AnnualizationFactor float64
	Seed                uint64

	// Hurdle
	Hurdle hurdle.Config

	// Filtering toggles
	PFVetoEnabled   bool
	PFVetoThreshold float64
	ApplyAdvisory   bool
	MixPassFraction float64
	SmallSampleBars int

	// Wrapper
	WrapperN           int
	WrapperMinPassRate float64
	RequirePerfect     bool

	// Concurrency
	WorkerLimit int

	// Outputs
	DiagnosticsCSVPath string
	ReportDir          string
	RunLogPath         string

	// Ops
	MetricsPort int
}

// Default returns the pipeline's baseline configuration before any
// environment overrides are applied.
func Default() Config {
	return Config{
		Symbol:              "UNKNOWN",
		Resamples:           2000,
		Confidence:          0.95,
		AnnualizationFactor: 252,
		Seed:                1,
		Hurdle: hurdle.Config{
			ConfiguredSlippage: decimalx.NewFromFloat(0.0005),
			RiskFree:           decimalx.NewFromFloat(0.02),
			RiskPremium:        decimalx.NewFromFloat(0.03),
			MetaBuffer:         hurdle.DefaultMetaBuffer,
		},
		PFVetoEnabled:      false,
		PFVetoThreshold:    1.0,
		ApplyAdvisory:      true,
		MixPassFraction:    0.6,
		SmallSampleBars:    60,
		WrapperN:           0,
		WrapperMinPassRate: 0.8,
		WorkerLimit:        4,
		MetricsPort:        9090,
	}
}

// LoadFromEnv reads ./.env and ../.env (if present) then overlays
// process-environment overrides onto Default().
func LoadFromEnv() Config {
	loadDotEnv(".env")
	loadDotEnv("../.env")

	cfg := Default()
	cfg.OHLCPath = getEnv("PALVALIDATOR_OHLC_PATH", cfg.OHLCPath)
	cfg.PatternFile = getEnv("PALVALIDATOR_PATTERN_FILE", cfg.PatternFile)
	cfg.Symbol = getEnv("PALVALIDATOR_SYMBOL", cfg.Symbol)

	cfg.Resamples = getEnvInt("PALVALIDATOR_RESAMPLES", cfg.Resamples)
	cfg.Confidence = getEnvFloat("PALVALIDATOR_CONFIDENCE", cfg.Confidence)
	cfg.AnnualizationFactor = getEnvFloat("PALVALIDATOR_ANNUALIZATION_FACTOR", cfg.AnnualizationFactor)
	cfg.Seed = uint64(getEnvInt("PALVALIDATOR_SEED", int(cfg.Seed)))

	cfg.Hurdle.ConfiguredSlippage = decimalx.NewFromFloat(getEnvFloat("PALVALIDATOR_SLIPPAGE", mustFloat(cfg.Hurdle.ConfiguredSlippage)))
	cfg.Hurdle.RiskFree = decimalx.NewFromFloat(getEnvFloat("PALVALIDATOR_RISK_FREE", mustFloat(cfg.Hurdle.RiskFree)))
	cfg.Hurdle.RiskPremium = decimalx.NewFromFloat(getEnvFloat("PALVALIDATOR_RISK_PREMIUM", mustFloat(cfg.Hurdle.RiskPremium)))
	cfg.Hurdle.MetaBuffer = decimalx.NewFromFloat(getEnvFloat("PALVALIDATOR_META_BUFFER", mustFloat(cfg.Hurdle.MetaBuffer)))

	cfg.PFVetoEnabled = getEnvBool("PALVALIDATOR_PF_VETO_ENABLED", cfg.PFVetoEnabled)
	cfg.PFVetoThreshold = getEnvFloat("PALVALIDATOR_PF_VETO_THRESHOLD", cfg.PFVetoThreshold)
	cfg.ApplyAdvisory = getEnvBool("PALVALIDATOR_APPLY_ADVISORY", cfg.ApplyAdvisory)
	cfg.MixPassFraction = getEnvFloat("PALVALIDATOR_MIX_PASS_FRACTION", cfg.MixPassFraction)
	cfg.SmallSampleBars = getEnvInt("PALVALIDATOR_SMALL_SAMPLE_BARS", cfg.SmallSampleBars)

	cfg.WrapperN = getEnvInt("PALVALIDATOR_WRAPPER_N", cfg.WrapperN)
	cfg.WrapperMinPassRate = getEnvFloat("PALVALIDATOR_WRAPPER_MIN_PASS_RATE", cfg.WrapperMinPassRate)
	cfg.RequirePerfect = getEnvBool("PALVALIDATOR_REQUIRE_PERFECT", cfg.RequirePerfect)

	cfg.WorkerLimit = getEnvInt("PALVALIDATOR_WORKER_LIMIT", cfg.WorkerLimit)

	cfg.DiagnosticsCSVPath = getEnv("PALVALIDATOR_DIAGNOSTICS_CSV", cfg.DiagnosticsCSVPath)
	cfg.ReportDir = getEnv("PALVALIDATOR_REPORT_DIR", cfg.ReportDir)
	cfg.RunLogPath = getEnv("PALVALIDATOR_RUN_LOG", cfg.RunLogPath)
	cfg.MetricsPort = getEnvInt("PALVALIDATOR_METRICS_PORT", cfg.MetricsPort)

	return cfg
}

func mustFloat(d decimalx.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "y", "yes":
		return true
	case "0", "false", "n", "no":
		return false
	default:
		return def
	}
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// loadDotEnv sets process-environment variables from a simple KEY=VALUE
// file, never overriding a variable already present in the environment.
// Missing files are silently ignored.
func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.Trim(strings.TrimSpace(val), `"'`)
		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, val)
		}
	}
}
