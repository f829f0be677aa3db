package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/specialistvlad/dpcheck/internal/ctxlog"
	"github.com/specialistvlad/dpcheck/internal/hcl"
	"github.com/specialistvlad/dpcheck/internal/metrics"
	"github.com/specialistvlad/dpcheck/internal/report"
	"github.com/specialistvlad/dpcheck/internal/validator"
)

// App encapsulates the application's dependencies and configuration.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	format    report.Format
	loader    *hcl.Loader
	metrics   *metrics.Registry
	validator *validator.Validator
	runID     string
}

// NewApp is the constructor for the main application. Verdicts are written
// to outW and logs to logW. Every App gets its own logger, metrics registry
// and run identifier.
func NewApp(outW, logW io.Writer, cfg *Config) (*App, error) {
	format, err := report.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW).With("run_id", runID)
	logger.Debug("Logger configured successfully.")

	reg := metrics.NewRegistry()
	return &App{
		outW:      outW,
		logger:    logger,
		config:    cfg,
		format:    format,
		loader:    hcl.NewLoader(),
		metrics:   reg,
		validator: validator.New(validator.WithMetrics(reg)),
		runID:     runID,
	}, nil
}

// RunID identifies this App's batch in logs.
func (a *App) RunID() string {
	return a.runID
}

// Metrics returns the application's metrics registry. This is primarily for
// testing.
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
