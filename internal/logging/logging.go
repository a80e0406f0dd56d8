// Package logging provides the structured, tee'd log stream described in
// spec section 6: a human-readable pipeline trace mirrored to stdout and
// a per-run log file. It generalizes the teacher's bare log.Printf calls
// (env.go, backtest.go, trader.go) to the structured logger the rest of
// the retrieved pack reaches for (bitunixbot/internal/exec, cryptorun).
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger. When runLogPath is empty, output goes to
// stdout only.
func New(runLogPath string) (zerolog.Logger, func() error, error) {
	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	closer := func() error { return nil }
	var w io.Writer = console

	if runLogPath != "" {
		f, err := os.OpenFile(runLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, nil, err
		}
		w = zerolog.MultiLevelWriter(console, f)
		closer = f.Close
	}

	logger := zerolog.New(w).With().Timestamp().Logger()
	return logger, closer, nil
}

// Component returns a sub-logger tagged with the given component name,
// the way each stage/package identifies itself in the pipeline trace.
func Component(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}
