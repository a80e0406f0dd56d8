// Package report declares the narrow contract main.go uses to publish
// the validation run's outcome. Concrete report formats (HTML, JSON
// dashboards, spreadsheets) are explicit external collaborators, per
// the Non-goal around report formatting -- this package names only the
// interface a concrete writer must satisfy.
package report

import (
	"github.com/ohlcquant/palvalidator/internal/filtering"
	"github.com/ohlcquant/palvalidator/internal/metastrategy"
)

// StrategyOutcome pairs one candidate strategy's identity with its
// filtering decision, for a writer to render as a survivor or reject.
type StrategyOutcome struct {
	Name     string
	Symbol   string
	Decision filtering.Decision
}

// Writer publishes a run's strategy outcomes, summary counts, and (if
// one was evaluated) the meta-portfolio result.
type Writer interface {
	WriteOutcomes(outcomes []StrategyOutcome) error
	WriteSummary(summary filtering.Summary) error
	WriteMetaResult(result metastrategy.Result) error
}
