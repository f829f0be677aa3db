package validator

import (
	"context"
	"time"

	"github.com/specialistvlad/dpcheck/internal/accountant"
	"github.com/specialistvlad/dpcheck/internal/analysis"
	"github.com/specialistvlad/dpcheck/internal/ctxlog"
	"github.com/specialistvlad/dpcheck/internal/diag"
	"github.com/specialistvlad/dpcheck/internal/graph"
	"github.com/specialistvlad/dpcheck/internal/metrics"
	"github.com/specialistvlad/dpcheck/internal/structural"
	"github.com/specialistvlad/dpcheck/internal/wire"
)

// Validator validates analyses.
type Validator struct {
	metrics *metrics.Registry
}

// Option configures a Validator.
type Option func(*Validator)

// WithMetrics records every verdict in r.
func WithMetrics(r *metrics.Registry) Option {
	return func(v *Validator) {
		v.metrics = r
	}
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = New()

// Validate validates data with a Validator that records no metrics.
func Validate(ctx context.Context, data []byte) *Verdict {
	return defaultValidator.Validate(ctx, data)
}

// IsValid reports whether data is an accepted analysis.
func (v *Validator) IsValid(ctx context.Context, data []byte) bool {
	return v.Validate(ctx, data).Accepted
}

// Validate decodes data and validates the analysis it contains. data is
// neither retained nor modified.
func (v *Validator) Validate(ctx context.Context, data []byte) *Verdict {
	start := time.Now()
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Validate: Decoding analysis.", "bytes", len(data))

	a, err := wire.Decode(data)
	if err != nil {
		logger.Debug("Validate: Decoding failed.", "error", err)
		return v.finish(ctx, reject(diag.List{diag.Deserialization(err)}), start)
	}
	return v.finish(ctx, v.check(ctx, a), start)
}

// RejectInput returns the verdict for an input that could not be read or
// parsed before reaching the decoder. It is logged and recorded like any
// other verdict.
func (v *Validator) RejectInput(ctx context.Context, err error) *Verdict {
	return v.finish(ctx, reject(diag.List{diag.Deserialization(err)}), time.Now())
}

// ValidateAnalysis validates an already decoded analysis. a is not modified.
func (v *Validator) ValidateAnalysis(ctx context.Context, a *analysis.Analysis) *Verdict {
	start := time.Now()
	return v.finish(ctx, v.check(ctx, a), start)
}

func (v *Validator) check(ctx context.Context, a *analysis.Analysis) *Verdict {
	logger := ctxlog.FromContext(ctx)

	g, err := graph.New(a)
	if err != nil {
		logger.Debug("Validate: Graph construction failed.", "error", err)
		diags, ok := diag.AsList(err)
		if !ok {
			diags = diag.List{diag.MalformedAnalysis("", "%v", err)}
		}
		return reject(diags)
	}
	logger.Debug("Validate: Graph constructed.", "node_count", g.Len())

	if diags := structural.Validate(ctx, g); len(diags) > 0 {
		verdict := reject(diags)
		verdict.setPrivacy(g.Privacy())
		return verdict
	}

	res, diags := accountant.Account(ctx, g)
	verdict := &Verdict{
		Accepted:    len(diags) == 0,
		Diagnostics: diags,
	}
	verdict.setPrivacy(g.Privacy())
	if res != nil {
		usage := res.Usage
		verdict.Usage = &usage
		verdict.Mechanisms = res.Mechanisms
		verdict.Groups = res.Groups
	}
	return verdict
}

func (v *Validator) finish(ctx context.Context, verdict *Verdict, start time.Time) *Verdict {
	logger := ctxlog.FromContext(ctx)
	attrs := []any{"accepted", verdict.Accepted, "diagnostics", len(verdict.Diagnostics)}
	if verdict.Usage != nil {
		attrs = append(attrs, "epsilon", verdict.Usage.Epsilon, "delta", verdict.Usage.Delta)
	}
	logger.Info("Validate: Verdict reached.", attrs...)

	if v.metrics != nil {
		var epsilon *float64
		if verdict.Usage != nil {
			epsilon = &verdict.Usage.Epsilon
		}
		v.metrics.RecordValidation(verdict.Accepted, verdict.Diagnostics.Codes(), epsilon, time.Since(start))
	}
	return verdict
}
