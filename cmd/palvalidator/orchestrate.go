// Package main is the palvalidator command: it loads one instrument's
// OHLC history and a set of candidate patterns, backtests each pattern
// as its own single-signal strategy, and runs every candidate through
// the validation pipeline on a bounded worker pool, in the teacher's
// own entrypoint style (env-driven Config, structured startup log,
// explicit exit codes).
package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ohlcquant/palvalidator/internal/backtester"
	"github.com/ohlcquant/palvalidator/internal/broker"
	"github.com/ohlcquant/palvalidator/internal/config"
	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/diagnostics"
	"github.com/ohlcquant/palvalidator/internal/filtering"
	"github.com/ohlcquant/palvalidator/internal/ingest"
	"github.com/ohlcquant/palvalidator/internal/metastrategy"
	"github.com/ohlcquant/palvalidator/internal/portfolio"
	"github.com/ohlcquant/palvalidator/internal/report"
	"github.com/ohlcquant/palvalidator/internal/robustnesswrapper"
	"github.com/ohlcquant/palvalidator/internal/security"
	"github.com/ohlcquant/palvalidator/internal/strategy"
	"github.com/ohlcquant/palvalidator/internal/telemetry"
	"github.com/ohlcquant/palvalidator/internal/worker"
)

// Run executes one full validation pass: one backtest per pattern,
// filtered through the pipeline, optionally wrapped in the N-seed
// robustness wrapper, optionally re-validated as an equal-weight meta
// portfolio, then published through writer and diag. Per-pattern
// failures are logged and counted; Run only returns an error for
// configuration/I-O problems that prevent any candidate from running.
func Run(ctx context.Context, cfg config.Config, log zerolog.Logger, securities ingest.SecuritySource, patterns ingest.PatternSource, writer report.Writer, diag diagnostics.BootstrapObserver) error {
	sec, err := securities.LoadSecurity(cfg.Symbol)
	if err != nil {
		return fmt.Errorf("load security %s: %w", cfg.Symbol, err)
	}
	pats, err := patterns.LoadPatterns(cfg.PatternFile)
	if err != nil {
		return fmt.Errorf("load patterns %s: %w", cfg.PatternFile, err)
	}
	if len(pats) == 0 {
		return fmt.Errorf("no patterns loaded from %s", cfg.PatternFile)
	}

	base := portfolio.New()
	if err := base.Add(sec); err != nil {
		return fmt.Errorf("build portfolio: %w", err)
	}
	dates := barDates(sec)

	filterCfg := filterConfigFrom(cfg)
	summary := filtering.NewSummary()
	var summaryMu sync.Mutex
	outcomes := make([]report.StrategyOutcome, len(pats))

	jobs := make([]worker.Job, len(pats))
	for i, pat := range pats {
		i, pat := i, pat
		jobs[i] = worker.Job{Name: pat.Name, Run: func(ctx context.Context) error {
			p := base.Clone()
			b := broker.New(p)
			s := strategy.NewPalStrategy(pat.Name, p, b, strategy.Options{}, pat, strategy.FixedUnitSizer{})
			bt := backtester.New(p, b, s, decimalx.NewFromInt(100000))
			result := bt.Run(dates)

			returns := decimalSliceToFloat(result.ReturnSeries)
			tradesPerYear := annualizedTradeCount(result.Stats.Count, len(returns), cfg.AnnualizationFactor)

			var decision filtering.Decision
			if cfg.WrapperN > 0 {
				wrapped := robustnesswrapper.Run(robustnesswrapper.Config{
					N:              cfg.WrapperN,
					MasterSeed:     cfg.Seed,
					MinPassRate:    cfg.WrapperMinPassRate,
					RequirePerfect: cfg.RequirePerfect,
				}, func(seed uint64) filtering.Decision {
					perSeed := filterCfg
					perSeed.Seed = seed
					return filtering.Run(perSeed, returns, result.Stats, tradesPerYear, nil)
				})
				decision = wrapped.Decisions[0]
				decision.Pass = wrapped.Accepted
				telemetry.WrapperPassRate.WithLabelValues(pat.Name).Set(wrapped.PassRate)
			} else {
				decision = filtering.Run(filterCfg, returns, result.Stats, tradesPerYear, nil)
			}

			summaryMu.Lock()
			summary.Record(decision)
			summaryMu.Unlock()
			telemetry.CandidatesConsidered.Inc()
			telemetry.StageOutcomes.WithLabelValues(decision.Kind.String(), outcomeLabel(decision.Pass)).Inc()
			if decision.Pass {
				telemetry.SurvivorsTotal.Inc()
			}

			outcomes[i] = report.StrategyOutcome{Name: pat.Name, Symbol: cfg.Symbol, Decision: decision}
			diag.OnBootstrapResult(recordFor(pat.Name, cfg.Symbol, decision))

			log.Info().
				Str("pattern", pat.Name).
				Bool("pass", decision.Pass).
				Str("kind", decision.Kind.String()).
				Msg("candidate evaluated")
			return nil
		}}
	}
	pool := worker.NewPool(cfg.WorkerLimit)
	results := pool.RunAll(ctx, jobs)
	for _, r := range results {
		if r.Err != nil {
			log.Warn().Str("pattern", r.Name).Err(r.Err).Msg("candidate backtest failed, skipping")
		}
	}

	if err := writer.WriteOutcomes(outcomes); err != nil {
		return fmt.Errorf("write outcomes: %w", err)
	}
	if err := writer.WriteSummary(*summary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	survivors := survivorsOf(outcomes, pats, dates, base)
	if len(survivors) >= 2 {
		metaResult := metastrategy.Evaluate(survivors, cfg.Hurdle, 0, cfg.Resamples, cfg.Confidence, cfg.AnnualizationFactor, cfg.Seed)
		if err := writer.WriteMetaResult(metaResult); err != nil {
			return fmt.Errorf("write meta result: %w", err)
		}
		log.Info().Bool("pass", metaResult.Pass).Msg("meta-portfolio evaluated")
	}

	return nil
}

func filterConfigFrom(cfg config.Config) filtering.Config {
	fc := filtering.DefaultConfig()
	fc.Resamples = cfg.Resamples
	fc.Confidence = cfg.Confidence
	fc.AnnualizationFactor = cfg.AnnualizationFactor
	fc.Hurdle = cfg.Hurdle
	fc.PFVetoEnabled = cfg.PFVetoEnabled
	fc.PFVetoThreshold = cfg.PFVetoThreshold
	fc.ApplyAdvisory = cfg.ApplyAdvisory
	fc.MixPassFraction = cfg.MixPassFraction
	fc.SmallSampleBars = cfg.SmallSampleBars
	fc.Seed = cfg.Seed
	return fc
}

func barDates(sec *security.Security) []time.Time {
	bars := sec.Series().All()
	dates := make([]time.Time, len(bars))
	for i, b := range bars {
		dates[i] = b.Timestamp
	}
	return dates
}

func decimalSliceToFloat(ds []decimalx.Decimal) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		f, _ := d.Float64()
		out[i] = f
	}
	return out
}

// annualizedTradeCount estimates trades/year from the backtest's span:
// (trades / bars) * bars-per-year.
func annualizedTradeCount(tradeCount, bars int, annualizationFactor float64) float64 {
	if bars == 0 {
		return 0
	}
	return float64(tradeCount) / float64(bars) * annualizationFactor
}

func outcomeLabel(pass bool) string {
	if pass {
		return "pass"
	}
	return "fail"
}

func recordFor(name, symbol string, d filtering.Decision) diagnostics.Record {
	r := diagnostics.Record{
		StrategyName: name,
		Symbol:       symbol,
		Metric:       diagnostics.MetricGeoMean,
		ChosenMethod: "BCa",
		IsChosen:     d.Pass,
	}
	if d.Bootstrap != nil {
		r.ChosenLowerBound = d.Bootstrap.GMAnnual.LB
		r.ChosenUpperBound = d.Bootstrap.GMAnnual.UB
		r.BCaAvailable = !d.Bootstrap.GM.Degenerate
		r.NumResamples = d.Bootstrap.Resamples
	}
	return r
}

// survivorsOf rebuilds each surviving pattern's return series for the
// meta-portfolio stage. Re-running the backtest here (rather than
// carrying the series through the worker) keeps worker.Job's contract
// narrow (name + error) at the cost of one extra replay per survivor.
func survivorsOf(outcomes []report.StrategyOutcome, pats []strategy.Pattern, dates []time.Time, base *portfolio.Portfolio) []metastrategy.Survivor {
	var survivors []metastrategy.Survivor
	for i, o := range outcomes {
		if !o.Decision.Pass || o.Decision.Bootstrap == nil {
			continue
		}
		p := base.Clone()
		b := broker.New(p)
		s := strategy.NewPalStrategy(pats[i].Name, p, b, strategy.Options{}, pats[i], strategy.FixedUnitSizer{})
		bt := backtester.New(p, b, s, decimalx.NewFromInt(100000))
		result := bt.Run(dates)
		survivors = append(survivors, metastrategy.Survivor{
			Name:                    pats[i].Name,
			Returns:                 decimalSliceToFloat(result.ReturnSeries),
			MedianHoldingPeriodBars: result.Stats.MedianHoldingPeriodBars,
		})
	}
	return survivors
}
