package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ohlcquant/palvalidator/internal/config"
	"github.com/ohlcquant/palvalidator/internal/diagnostics"
	"github.com/ohlcquant/palvalidator/internal/ingest"
	"github.com/ohlcquant/palvalidator/internal/logging"
	"github.com/ohlcquant/palvalidator/internal/report"
)

// ErrNoIngestSource is returned when main is run without a concrete
// ingest.SecuritySource/PatternSource wired in. Concrete OHLC and
// pattern-file readers are external collaborators (per Non-goals) --
// a deployment embeds this binary's Run function with its own adapters
// rather than this package providing one.
var ErrNoIngestSource = errors.New("palvalidator: no ingest.SecuritySource/PatternSource configured")

// SecuritySourceFactory and PatternSourceFactory let a deployment
// inject concrete ingest adapters without forking main(). Both are nil
// by default; main() exits with a configuration error if either is
// unset when invoked directly.
var (
	SecuritySourceFactory func(config.Config) (ingest.SecuritySource, error)
	PatternSourceFactory  func(config.Config) (ingest.PatternSource, error)
	ReportWriterFactory   func(config.Config) (report.Writer, error)
)

func main() {
	os.Exit(mainExitCode())
}

func mainExitCode() int {
	cfg := config.LoadFromEnv()

	logger, closeLog, err := logging.New(cfg.RunLogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "palvalidator: open log: %v\n", err)
		return 1
	}
	defer closeLog()
	log := logging.Component(logger, "main")

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.MetricsPort), Handler: mux}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server")
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	code := run(ctx, cfg, log)

	shutdownCtx, c := context.WithTimeout(context.Background(), 2*time.Second)
	defer c()
	_ = srv.Shutdown(shutdownCtx)

	return code
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) int {
	if SecuritySourceFactory == nil || PatternSourceFactory == nil || ReportWriterFactory == nil {
		log.Error().Err(ErrNoIngestSource).Msg("startup")
		return 2
	}

	securities, err := SecuritySourceFactory(cfg)
	if err != nil {
		log.Error().Err(err).Msg("build security source")
		return 2
	}
	patterns, err := PatternSourceFactory(cfg)
	if err != nil {
		log.Error().Err(err).Msg("build pattern source")
		return 2
	}
	writer, err := ReportWriterFactory(cfg)
	if err != nil {
		log.Error().Err(err).Msg("build report writer")
		return 2
	}

	var diag diagnostics.BootstrapObserver = diagnostics.NullBootstrapCollector{}
	if cfg.DiagnosticsCSVPath != "" {
		csvDiag, err := diagnostics.NewCsvBootstrapCollector(cfg.DiagnosticsCSVPath)
		if err != nil {
			log.Error().Err(err).Msg("open diagnostics csv")
			return 2
		}
		defer func() { _ = csvDiag.Close() }()
		diag = csvDiag
	}

	if err := Run(ctx, cfg, log, securities, patterns, writer, diag); err != nil {
		log.Error().Err(err).Msg("validation run failed")
		return 1
	}
	return 0
}
