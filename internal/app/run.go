package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/specialistvlad/dpcheck/internal/ctxlog"
	"github.com/specialistvlad/dpcheck/internal/report"
	"github.com/specialistvlad/dpcheck/internal/validator"
	"github.com/specialistvlad/dpcheck/internal/wire"
	"golang.org/x/sync/errgroup"
)

// Validate validates every analysis found under paths and writes one verdict
// per analysis. It reports whether all of them were accepted.
func (a *App) Validate(ctx context.Context, paths []string) (bool, error) {
	ctx = a.context(ctx)
	entries, err := a.validateAll(ctx, paths)
	if err != nil {
		return false, err
	}
	if err := report.Write(a.outW, a.format, entries); err != nil {
		return false, fmt.Errorf("failed to write report: %w", err)
	}
	return allAccepted(entries), a.flushMetrics(ctx)
}

// Usage validates every analysis found under paths and writes only the
// privacy budget each one consumes. It reports whether all of them were
// accepted.
func (a *App) Usage(ctx context.Context, paths []string) (bool, error) {
	ctx = a.context(ctx)
	entries, err := a.validateAll(ctx, paths)
	if err != nil {
		return false, err
	}
	if err := report.WriteUsage(a.outW, a.format, entries); err != nil {
		return false, fmt.Errorf("failed to write report: %w", err)
	}
	return allAccepted(entries), a.flushMetrics(ctx)
}

// Encode converts the HCL analysis at in into its wire encoding and writes
// it to out, snappy-compressed when out ends in ".sz".
func (a *App) Encode(ctx context.Context, in, out string) error {
	ctx = a.context(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Encoding analysis.", "in", in, "out", out)

	an, err := a.loader.LoadFile(ctx, in)
	if err != nil {
		return err
	}
	data := wire.Encode(an)
	if strings.HasSuffix(out, extSnappy) {
		data = snappy.Encode(nil, data)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	logger.Info("Analysis encoded.", "out", out, "bytes", len(data), "nodes", len(an.Nodes))
	return nil
}

func (a *App) validateAll(ctx context.Context, paths []string) ([]report.Entry, error) {
	logger := ctxlog.FromContext(ctx)
	files, err := a.findInputs(ctx, paths)
	if err != nil {
		return nil, err
	}

	logger.Debug("Starting validation.", "files", len(files), "workers", a.config.Workers)
	entries := make([]report.Entry, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Workers)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries[i] = report.Entry{Source: file, Verdict: a.validateFile(gctx, file)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Debug("Validation finished.", "files", len(files))
	return entries, nil
}

func (a *App) validateFile(ctx context.Context, path string) *validator.Verdict {
	ctx = ctxlog.WithLogger(ctx, ctxlog.FromContext(ctx).With("file", path))
	data, err := a.readInput(ctx, path)
	if err != nil {
		return a.validator.RejectInput(ctx, err)
	}
	return a.validator.Validate(ctx, data)
}

func (a *App) flushMetrics(ctx context.Context) error {
	if a.config.MetricsFile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.config.MetricsFile); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Metrics written.", "path", a.config.MetricsFile)
	return nil
}

func allAccepted(entries []report.Entry) bool {
	for _, e := range entries {
		if !e.Accepted {
			return false
		}
	}
	return true
}
