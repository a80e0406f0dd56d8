package main

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ohlcquant/palvalidator/internal/config"
	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/diagnostics"
	"github.com/ohlcquant/palvalidator/internal/filtering"
	"github.com/ohlcquant/palvalidator/internal/ingest"
	"github.com/ohlcquant/palvalidator/internal/logging"
	"github.com/ohlcquant/palvalidator/internal/metastrategy"
	"github.com/ohlcquant/palvalidator/internal/pattern"
	"github.com/ohlcquant/palvalidator/internal/report"
	"github.com/ohlcquant/palvalidator/internal/security"
	"github.com/ohlcquant/palvalidator/internal/strategy"
	"github.com/ohlcquant/palvalidator/internal/timeseries"
)

type fakeSecuritySource struct{ sec *security.Security }

func (f fakeSecuritySource) LoadSecurity(string) (*security.Security, error) { return f.sec, nil }

type fakePatternSource struct{ pats []strategy.Pattern }

func (f fakePatternSource) LoadPatterns(string) ([]strategy.Pattern, error) { return f.pats, nil }

type captureWriter struct {
	outcomes []report.StrategyOutcome
	summary  filtering.Summary
	meta     *metastrategy.Result
}

func (c *captureWriter) WriteOutcomes(o []report.StrategyOutcome) error { c.outcomes = o; return nil }
func (c *captureWriter) WriteSummary(s filtering.Summary) error         { c.summary = s; return nil }
func (c *captureWriter) WriteMetaResult(r metastrategy.Result) error    { c.meta = &r; return nil }

var _ ingest.SecuritySource = fakeSecuritySource{}
var _ ingest.PatternSource = fakePatternSource{}
var _ report.Writer = (*captureWriter)(nil)

func trendingSecurity(t *testing.T, n int) *security.Security {
	t.Helper()
	bars := make([]timeseries.Bar, n)
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := 0; i < n; i++ {
		price += 0.2
		amp := 0.05 * math.Sin(float64(i)/3.0)
		open := decimalx.NewFromFloat(price - amp)
		closeP := decimalx.NewFromFloat(price + amp)
		high := decimalx.Max(open, closeP).Add(decimalx.NewFromFloat(0.1))
		low := decimalx.Min(open, closeP).Sub(decimalx.NewFromFloat(0.1))
		bars[i] = timeseries.Bar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closeP,
			Volume:    decimalx.NewFromInt(1000),
		}
	}
	series, err := timeseries.New("TEST", bars)
	require.NoError(t, err)
	attrs := security.DefaultEquityAttributes(false, base)
	return security.New("TEST", "Test Security", attrs, series)
}

func upPattern(name string) strategy.Pattern {
	return strategy.Pattern{
		Name: name,
		AST: pattern.GreaterThan{
			LeftExpr:  pattern.PriceRef{FieldName: pattern.Close, Offset: 0},
			RightExpr: pattern.PriceRef{FieldName: pattern.Close, Offset: 2},
		},
		Side:                strategy.Long,
		ProfitTargetPercent: decimalx.NewFromFloat(5),
		StopLossPercent:     decimalx.NewFromFloat(5),
	}
}

func TestRunEndToEndProducesOutcomesAndSummary(t *testing.T) {
	sec := trendingSecurity(t, 400)
	pats := []strategy.Pattern{upPattern("up-a"), upPattern("up-b")}

	writer := &captureWriter{}
	var diag diagnostics.BootstrapObserver = diagnostics.NullBootstrapCollector{}

	cfg := config.Default()
	cfg.Symbol = "TEST"
	cfg.WorkerLimit = 2
	cfg.Resamples = 200

	logger, _, err := logging.New("")
	require.NoError(t, err)

	err = Run(context.Background(), cfg, logger, fakeSecuritySource{sec: sec}, fakePatternSource{pats: pats}, writer, diag)
	require.NoError(t, err)
	require.Len(t, writer.outcomes, 2)
	require.Equal(t, 2, writer.summary.Total)
}

func TestRunFailsOnNoPatterns(t *testing.T) {
	sec := trendingSecurity(t, 50)
	writer := &captureWriter{}
	var diag diagnostics.BootstrapObserver = diagnostics.NullBootstrapCollector{}

	cfg := config.Default()
	cfg.Symbol = "TEST"

	logger, _, err := logging.New("")
	require.NoError(t, err)

	err = Run(context.Background(), cfg, logger, fakeSecuritySource{sec: sec}, fakePatternSource{pats: nil}, writer, diag)
	require.Error(t, err)
}
