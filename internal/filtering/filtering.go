// Package filtering orchestrates the validation pipeline's stages
// against one candidate strategy's backtest result, in order, stopping
// at the first veto.
package filtering

import (
	"github.com/ohlcquant/palvalidator/internal/backtester"
	"github.com/ohlcquant/palvalidator/internal/bootstrap"
	"github.com/ohlcquant/palvalidator/internal/decimalx"
	"github.com/ohlcquant/palvalidator/internal/divergence"
	"github.com/ohlcquant/palvalidator/internal/fragileedge"
	"github.com/ohlcquant/palvalidator/internal/hurdle"
	"github.com/ohlcquant/palvalidator/internal/regimemix"
	"github.com/ohlcquant/palvalidator/internal/robustness"
	"github.com/ohlcquant/palvalidator/internal/validation"
)

// FailureKind enumerates the decision's possible failure categories.
type FailureKind int

const (
	None FailureKind = iota
	InsufficientData
	Hurdle
	Robustness
	LSensitivity
	RegimeMix
	FragileEdge
)

func (k FailureKind) String() string {
	switch k {
	case InsufficientData:
		return "InsufficientData"
	case Hurdle:
		return "Hurdle"
	case Robustness:
		return "Robustness"
	case LSensitivity:
		return "LSensitivity"
	case RegimeMix:
		return "RegimeMix"
	case FragileEdge:
		return "FragileEdge"
	default:
		return "None"
	}
}

// Decision is one strategy's filtering outcome.
type Decision struct {
	Pass       bool
	Kind       FailureKind
	Reason     string
	Bootstrap  *bootstrap.Result
	Divergence *divergence.Result
	Advice     *fragileedge.Advice
}

// Config bundles every stage's tunables. Defaults mirror spec 4.18's
// stated 20/20 minimums and the other stages' own default thresholds.
type Config struct {
	MinReturnsForBootstrap int
	MinTradesForBootstrap  int

	Resamples           int
	Confidence          float64
	AnnualizationFactor float64

	Hurdle hurdle.Config

	PFVetoEnabled   bool
	PFVetoThreshold float64

	ApplyAdvisory bool // promote robustness/regime-mix/fragile-edge to vetoes

	Thresholds        robustness.Thresholds
	FineGrid          *robustness.FineGridParams
	DivergenceThresh  divergence.Thresholds
	FragileEdgeThresh fragileedge.Thresholds
	RegimeLabeler     regimemix.Labeler
	RegimeMixes       []regimemix.TargetMix
	MixPassFraction   float64
	SmallSampleBars   int

	Seed uint64
}

// DefaultConfig returns a Config with spec's stated defaults.
func DefaultConfig() Config {
	return Config{
		MinReturnsForBootstrap: 20,
		MinTradesForBootstrap:  20,
		Resamples:              2000,
		Confidence:             0.95,
		PFVetoThreshold:        0.95,
		Thresholds:             robustness.DefaultThresholds,
		DivergenceThresh:       divergence.DefaultThresholds,
		FragileEdgeThresh:      fragileedge.DefaultThresholds,
		RegimeLabeler:          regimemix.VolatilityTercileLabeler{Window: 20},
		RegimeMixes:            regimemix.DefaultMixes(),
		MixPassFraction:        0.67,
		SmallSampleBars:        40,
	}
}

// Run evaluates one strategy's returns/trade stats against cfg,
// short-circuiting at the first veto.
func Run(cfg Config, returns []float64, stats backtester.ClosedTradeStats, tradesPerYear float64, spread *hurdle.SpreadStats) Decision {
	if len(returns) < cfg.MinReturnsForBootstrap || stats.Count < cfg.MinTradesForBootstrap {
		return Decision{Kind: InsufficientData, Reason: "insufficient returns or trades for bootstrap"}
	}

	blockLength := bootstrap.BlockLength(stats.MedianHoldingPeriodBars)
	btResult := bootstrap.Evaluate(returns, blockLength, bootstrap.Params{
		Resamples:           cfg.Resamples,
		Confidence:          cfg.Confidence,
		AnnualizationFactor: cfg.AnnualizationFactor,
		Seed:                cfg.Seed,
		WithProfitFactor:    cfg.PFVetoEnabled,
	})

	hurdleDecimal := hurdle.CostHurdle(cfg.Hurdle, decimalx.NewFromFloat(tradesPerYear), spread)
	hurdleVal, _ := hurdleDecimal.Float64()

	if !validation.HasPassed(decimalx.NewFromFloat(btResult.GMAnnual.LB), hurdleDecimal) {
		return Decision{Kind: Hurdle, Reason: "GM lower bound did not clear the cost hurdle", Bootstrap: &btResult}
	}
	if cfg.PFVetoEnabled && btResult.PF != nil && btResult.PF.LB < cfg.PFVetoThreshold {
		return Decision{Kind: Hurdle, Reason: "profit-factor lower bound below veto threshold", Bootstrap: &btResult}
	}

	div := divergence.Evaluate(btResult.GMAnnual.LB, btResult.AMAnnual.LB, cfg.DivergenceThresh)
	nearHurdle := robustness.NearHurdle(btResult.GMAnnual.LB, hurdleVal, cfg.Thresholds)
	smallSample := len(returns) < cfg.SmallSampleBars
	decision := Decision{Pass: true, Bootstrap: &btResult, Divergence: &div}

	if !robustness.Trigger(div.Flagged, nearHurdle, smallSample) {
		return finalizeAdvice(cfg, decision, btResult, hurdleVal, stats.Count, 0, 0, 0)
	}

	rp := robustness.Params{
		Returns:             returns,
		MedianHoldingBars:   stats.MedianHoldingPeriodBars,
		Hurdle:              hurdleVal,
		AnnualizationFactor: cfg.AnnualizationFactor,
		Confidence:          cfg.Confidence,
		Resamples:           cfg.Resamples,
		Seed:                cfg.Seed,
		Thresholds:          cfg.Thresholds,
	}

	relVar, q05, es05 := 0.0, 0.0, 0.0

	broad := robustness.LSensitivityBroad(rp, btResult.GMAnnual.LB)
	relVar = broad.RelVar
	if !broad.Pass && cfg.ApplyAdvisory {
		return Decision{Kind: LSensitivity, Reason: broad.Reason, Bootstrap: &btResult, Divergence: &div}
	}

	split := robustness.SplitSample(rp)
	if !split.Pass && cfg.ApplyAdvisory {
		return Decision{Kind: Robustness, Reason: split.Reason, Bootstrap: &btResult, Divergence: &div}
	}

	lbPerGM := btResult.GM.LB
	tail := robustness.TailRisk(rp, lbPerGM, btResult.GMAnnual.LB)
	q05, es05 = tail.Q05, tail.ES05
	if !tail.Pass && cfg.ApplyAdvisory {
		return Decision{Kind: Robustness, Reason: tail.Reason, Bootstrap: &btResult, Divergence: &div}
	}

	if cfg.FineGrid != nil {
		fine := robustness.LSensitivityFine(rp, *cfg.FineGrid)
		if !fine.Pass && cfg.ApplyAdvisory {
			return Decision{Kind: LSensitivity, Reason: fine.Reason, Bootstrap: &btResult, Divergence: &div}
		}
	}

	if cfg.RegimeLabeler != nil && len(cfg.RegimeMixes) > 0 {
		labels := cfg.RegimeLabeler.Label(returns)
		mix := regimemix.Evaluate(returns, labels, cfg.RegimeMixes, blockLength, cfg.Resamples, cfg.Confidence, cfg.AnnualizationFactor, hurdleVal, cfg.MixPassFraction, cfg.Seed)
		if !mix.Pass && cfg.ApplyAdvisory {
			return Decision{Kind: RegimeMix, Reason: mix.Reason, Bootstrap: &btResult, Divergence: &div}
		}
	}

	return finalizeAdvice(cfg, decision, btResult, hurdleVal, stats.Count, relVar, q05, es05)
}

func finalizeAdvice(cfg Config, decision Decision, bt bootstrap.Result, hurdleVal float64, n int, relVar, q05, es05 float64) Decision {
	advice := fragileedge.Evaluate(fragileedge.Inputs{
		LBAnnual: bt.GMAnnual.LB,
		Hurdle:   hurdleVal,
		Q05:      q05,
		ES05:     es05,
		LBPerGM:  bt.GM.LB,
		RelVar:   relVar,
		N:        n,
	}, cfg.FragileEdgeThresh)
	decision.Advice = &advice

	if advice == fragileedge.Drop && cfg.ApplyAdvisory {
		decision.Pass = false
		decision.Kind = FragileEdge
		decision.Reason = "fragile-edge advisory: Drop"
	}
	return decision
}
