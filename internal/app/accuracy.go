package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/dpcheck/internal/analysis"
	"github.com/specialistvlad/dpcheck/internal/ctxlog"
	"github.com/specialistvlad/dpcheck/internal/report"
)

// Accuracy validates every analysis found under paths and writes the noise
// accuracy of each accounted mechanism at alpha. It reports whether all
// analyses were accepted.
func (a *App) Accuracy(ctx context.Context, paths []string, alpha float64) (bool, error) {
	ctx = a.context(ctx)
	entries, err := a.validateAll(ctx, paths)
	if err != nil {
		return false, err
	}
	if err := report.WriteAccuracy(a.outW, a.format, entries, alpha); err != nil {
		return false, fmt.Errorf("failed to write report: %w", err)
	}
	return allAccepted(entries), a.flushMetrics(ctx)
}

// Calibrate writes the scale and privacy cost that give m's family the
// requested accuracy at alpha. m.Scale is ignored.
func (a *App) Calibrate(ctx context.Context, m analysis.Mechanism, accuracy, alpha float64) error {
	logger := ctxlog.FromContext(a.context(ctx))
	logger.Debug("Calibrating mechanism.", "family", m.Family.String(), "accuracy", accuracy, "alpha", alpha)

	scale, usage, err := m.AccuracyToUsage(accuracy, alpha)
	if err != nil {
		return err
	}
	c := report.Calibration{
		Family:      m.Family.String(),
		Sensitivity: m.Sensitivity,
		Accuracy:    accuracy,
		Alpha:       alpha,
		Scale:       scale,
		Epsilon:     usage.Epsilon,
		Delta:       usage.Delta,
	}
	if err := report.WriteCalibration(a.outW, a.format, c); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
