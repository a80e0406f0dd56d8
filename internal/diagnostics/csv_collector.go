package diagnostics

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
)

var csvHeader = []string{
	"StrategyID", "Strategy", "Symbol", "Metric", "Method", "IsChosen", "Score",
	"BCa_Z0", "BCa_Accel",
	"SE", "Skew", "BootMedian", "EffB", "InnerFail", "LB", "UB", "N",
}

// CsvBootstrapCollector is a thread-safe observer that appends one row
// per Record to a single CSV file, writing the header once.
type CsvBootstrapCollector struct {
	mu            sync.Mutex
	f             *os.File
	w             *csv.Writer
	headerWritten bool
}

// NewCsvBootstrapCollector opens (or creates) path in append mode. If the
// file already has content the header is assumed already written.
func NewCsvBootstrapCollector(path string) (*CsvBootstrapCollector, error) {
	info, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open diagnostic file %s: %w", path, err)
	}
	c := &CsvBootstrapCollector{
		f:             f,
		w:             csv.NewWriter(f),
		headerWritten: statErr == nil && info.Size() > 0,
	}
	if !c.headerWritten {
		if err := c.w.Write(csvHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("write diagnostic header: %w", err)
		}
		c.w.Flush()
		c.headerWritten = true
	}
	return c, nil
}

// Close flushes and closes the underlying file.
func (c *CsvBootstrapCollector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.w.Flush()
	return c.f.Close()
}

// OnBootstrapResult writes one row for r, flushing immediately so a run
// that crashes mid-tournament still leaves a readable partial file.
func (c *CsvBootstrapCollector) OnBootstrapResult(r Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bcaZ0, bcaAccel := "", ""
	if r.BCaAvailable {
		bcaZ0 = strconv.FormatFloat(r.BCaZ0, 'g', -1, 64)
		bcaAccel = strconv.FormatFloat(r.BCaAccel, 'g', -1, 64)
	}

	row := []string{
		strconv.FormatUint(r.StrategyUniqueID, 10),
		r.StrategyName,
		r.Symbol,
		string(r.Metric),
		r.ChosenMethod,
		strconv.FormatBool(r.IsChosen),
		strconv.FormatFloat(r.Score, 'g', -1, 64),
		bcaZ0,
		bcaAccel,
		strconv.FormatFloat(r.StandardError, 'g', -1, 64),
		strconv.FormatFloat(r.Skewness, 'g', -1, 64),
		strconv.FormatFloat(r.BootMedian, 'g', -1, 64),
		strconv.FormatFloat(r.EffectiveB, 'g', -1, 64),
		strconv.FormatFloat(r.InnerFailureRate, 'g', -1, 64),
		strconv.FormatFloat(r.ChosenLowerBound, 'g', -1, 64),
		strconv.FormatFloat(r.ChosenUpperBound, 'g', -1, 64),
		strconv.Itoa(r.SampleSize),
	}
	if err := c.w.Write(row); err != nil {
		return
	}
	c.w.Flush()
}
