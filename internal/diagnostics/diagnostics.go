// Package diagnostics records per-candidate bootstrap diagnostics to a
// CSV sink, directly grounded on original_source's
// palvalidator::diagnostics (IBootstrapObserver, BootstrapDiagnosticRecord,
// CsvBootstrapCollector, NullBootstrapCollector).
package diagnostics

// MetricType names which statistic a diagnostic record describes.
type MetricType string

const (
	MetricGeoMean      MetricType = "GeoMean"
	MetricProfitFactor MetricType = "ProfitFactor"
)

// Record is one row of bootstrap tournament output: which method was
// chosen for a candidate strategy, its interval, and the BCa internals
// that produced it (when applicable).
type Record struct {
	StrategyUniqueID uint64
	StrategyName     string
	Symbol           string
	Metric           MetricType
	ChosenMethod     string
	ChosenLowerBound float64
	ChosenUpperBound float64
	Score            float64
	SampleSize       int
	NumResamples     int
	StandardError    float64
	Skewness         float64
	BCaAvailable     bool
	BCaZ0            float64
	BCaAccel         float64
	IsChosen         bool
	BootMedian       float64
	EffectiveB       float64
	InnerFailureRate float64
}

// BootstrapObserver receives one Record per candidate method evaluated
// during a bootstrap tournament.
type BootstrapObserver interface {
	OnBootstrapResult(r Record)
}

// NullBootstrapCollector discards every record. It is the default
// observer so diagnostics collection is opt-in.
type NullBootstrapCollector struct{}

func (NullBootstrapCollector) OnBootstrapResult(Record) {}
