// Package telemetry exposes the Prometheus counters and gauges the
// validation pipeline updates as it runs. It generalizes the teacher's
// metrics.go (bot_orders_total, bot_equity_usd, ...) to pipeline-level
// observability: how many candidates were considered, how each stage
// disposed of them, the wrapper pass rate, and how many survived.
// BootstrapResamples is registered but nothing in this module
// increments it, so it stays at zero.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

var (
	// CandidatesConsidered counts strategies entering the filtering
	// pipeline.
	CandidatesConsidered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "palvalidator_candidates_considered_total",
		Help: "Candidate strategies submitted to the filtering pipeline",
	})

	// StageOutcomes counts pass/fail per stage, labeled by stage name and
	// outcome ("pass"|"fail").
	StageOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "palvalidator_stage_outcomes_total",
		Help: "Filtering stage outcomes by stage and result",
	}, []string{"stage", "outcome"})

	// BootstrapResamples is a counter for resamples drawn across
	// bootstrap invocations; no code path increments it.
	BootstrapResamples = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "palvalidator_bootstrap_resamples_total",
		Help: "Stationary-block-bootstrap resamples executed",
	})

	// WrapperPassRate is a gauge of the most recently computed
	// bootstrap-robustness pass rate, labeled by strategy name.
	WrapperPassRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "palvalidator_wrapper_pass_rate",
		Help: "Bootstrap-robustness wrapper pass rate by strategy",
	}, []string{"strategy"})

	// SurvivorsTotal counts strategies that cleared the full pipeline.
	SurvivorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "palvalidator_survivors_total",
		Help: "Strategies that survived filtering",
	})
)

func init() {
	prometheus.MustRegister(
		CandidatesConsidered,
		StageOutcomes,
		BootstrapResamples,
		WrapperPassRate,
		SurvivorsTotal,
	)
}
