package validator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/specialistvlad/dpcheck/internal/analysis"
	"github.com/specialistvlad/dpcheck/internal/ctxlog"
	"github.com/specialistvlad/dpcheck/internal/diag"
	"github.com/specialistvlad/dpcheck/internal/metrics"
	dptest "github.com/specialistvlad/dpcheck/internal/testutil"
	"github.com/specialistvlad/dpcheck/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var verdictOpts = cmpopts.IgnoreUnexported(diag.Diagnostic{})

// singleRelease is d1/c1 feeding a released Laplace mechanism with
// sensitivity 1 and scale 2.
func singleRelease(budget float64) *analysis.Analysis {
	return dptest.NewAnalysis(budget, 0).
		Datasource("d1", "d1", "c1").
		Laplace("noise", 1.0, 2.0, "d1").Released().
		Build()
}

func TestValidate_Scenarios(t *testing.T) {
	t.Run("within budget is accepted", func(t *testing.T) {
		// --- Arrange ---
		data := wire.Encode(singleRelease(1.0))

		// --- Act ---
		v := Validate(context.Background(), data)

		// --- Assert ---
		assert.True(t, v.Accepted)
		assert.Empty(t, v.Diagnostics)
		require.NotNil(t, v.Usage)
		assert.InDelta(t, 0.5, v.Usage.Epsilon, 1e-12)
		assert.Equal(t, 0.0, v.Usage.Delta)
		require.NotNil(t, v.Budget)
		assert.Equal(t, 1.0, v.Budget.Epsilon)
	})

	t.Run("over budget is rejected with totals", func(t *testing.T) {
		data := wire.Encode(singleRelease(0.4))

		v := Validate(context.Background(), data)

		assert.False(t, v.Accepted)
		require.Len(t, v.Diagnostics, 1)
		assert.Equal(t, diag.CodeBudgetExceeded, v.Diagnostics[0].Code)
		require.NotNil(t, v.Usage)
		assert.InDelta(t, 0.5, v.Usage.Epsilon, 1e-12)
		assert.Error(t, v.Err())
	})

	t.Run("unknown reference is rejected", func(t *testing.T) {
		a := dptest.NewAnalysis(1, 0).
			Datasource("d1", "d1", "c1").
			Laplace("noise", 1, 2, "d2").Released().
			Build()

		v := Validate(context.Background(), wire.Encode(a))

		assert.False(t, v.Accepted)
		assert.True(t, v.Diagnostics.Has(diag.CodeUnknownReference))
		assert.Nil(t, v.Usage)
	})
}

func TestValidate_Pipeline(t *testing.T) {
	testCases := []struct {
		name      string
		data      []byte
		wantCodes []diag.Code
	}{
		{
			name:      "undecodable bytes",
			data:      []byte{0x0a, 0xff},
			wantCodes: []diag.Code{diag.CodeDeserialization},
		},
		{
			name:      "no privacy definition",
			data:      nil,
			wantCodes: []diag.Code{diag.CodeMalformedAnalysis},
		},
		{
			name: "structural defects stop before accounting",
			data: wire.Encode(dptest.NewAnalysis(1, 0).
				Datasource("d", "patients", "age").
				Aggregator("mean", "d").Released().
				Laplace("bad", 1, 0, "d").Released().
				Build()),
			wantCodes: []diag.Code{diag.CodeUnprotectedRelease},
		},
		{
			name: "invalid parameters",
			data: wire.Encode(dptest.NewAnalysis(1, 0).
				Datasource("d", "patients", "age").
				Laplace("bad", 1, -2, "d").Released().
				Build()),
			wantCodes: []diag.Code{diag.CodeInvalidParameters},
		},
		{
			name: "unbounded cost",
			data: wire.Encode(dptest.NewAnalysis(1, 0).
				Datasource("d", "patients", "age").
				Laplace("tiny", 1e308, 1e-308, "d").Released().
				Build()),
			wantCodes: []diag.Code{diag.CodeUnboundedCost},
		},
		{
			name: "no releases",
			data: wire.Encode(dptest.NewAnalysis(1, 0).
				Datasource("d", "patients", "age").
				Aggregator("mean", "d").
				Build()),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := New().Validate(context.Background(), tc.data)

			if len(tc.wantCodes) == 0 {
				assert.True(t, v.Accepted)
				assert.Empty(t, v.Diagnostics)
				return
			}
			assert.False(t, v.Accepted)
			assert.Equal(t, tc.wantCodes, v.Diagnostics.Codes())
		})
	}
}

func TestValidate_DoesNotModifyInput(t *testing.T) {
	data := wire.Encode(singleRelease(1))
	original := append([]byte(nil), data...)

	Validate(context.Background(), data)

	assert.Equal(t, original, data)
}

func TestValidateAnalysis(t *testing.T) {
	a := singleRelease(1)

	v := New().ValidateAnalysis(context.Background(), a)

	assert.True(t, v.Accepted)
	require.Len(t, v.Mechanisms, 1)
	assert.Equal(t, "noise", v.Mechanisms[0].Node)
	assert.Equal(t, [][]string{{"noise"}}, v.Groups)
}

func TestValidate_VerdictRestatesPrivacyDefinition(t *testing.T) {
	t.Run("accounted", func(t *testing.T) {
		a := singleRelease(10)
		a.Privacy.Neighboring = analysis.NeighboringSubstitute
		a.Privacy.GroupSize = 2

		v := New().ValidateAnalysis(context.Background(), a)

		assert.True(t, v.Accepted)
		assert.Equal(t, "substitute", v.Neighboring)
		assert.Equal(t, uint32(2), v.GroupSize)
		require.NotNil(t, v.Budget)
		assert.Equal(t, 10.0, v.Budget.Epsilon)
	})

	t.Run("structurally rejected", func(t *testing.T) {
		a := dptest.NewAnalysis(1, 0).
			Datasource("d", "patients", "age").
			Aggregator("mean", "d").Released().
			Build()

		v := New().ValidateAnalysis(context.Background(), a)

		assert.False(t, v.Accepted)
		assert.Equal(t, "add_remove", v.Neighboring)
		assert.Equal(t, uint32(1), v.GroupSize)
	})
}

func TestIsValid(t *testing.T) {
	v := New()

	assert.True(t, v.IsValid(context.Background(), wire.Encode(singleRelease(1))))
	assert.False(t, v.IsValid(context.Background(), wire.Encode(singleRelease(0.1))))
}

func TestValidate_RecordsMetrics(t *testing.T) {
	// --- Arrange ---
	reg := metrics.NewRegistry()
	v := New(WithMetrics(reg))

	// --- Act ---
	v.Validate(context.Background(), wire.Encode(singleRelease(1)))
	v.Validate(context.Background(), wire.Encode(singleRelease(0.1)))

	// --- Assert ---
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.ValidationsTotal.WithLabelValues(metrics.OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.ValidationsTotal.WithLabelValues(metrics.OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.DiagnosticsTotal.WithLabelValues(string(diag.CodeBudgetExceeded))))
}

func TestRejectInput(t *testing.T) {
	// --- Arrange ---
	reg := metrics.NewRegistry()
	v := New(WithMetrics(reg))

	// --- Act ---
	verdict := v.RejectInput(context.Background(), errors.New("unexpected EOF"))

	// --- Assert ---
	assert.False(t, verdict.Accepted)
	require.Len(t, verdict.Diagnostics, 1)
	assert.Equal(t, diag.CodeDeserialization, verdict.Diagnostics[0].Code)
	assert.Contains(t, verdict.Diagnostics[0].Message, "unexpected EOF")
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.ValidationsTotal.WithLabelValues(metrics.OutcomeRejected)))
}

func TestValidate_LogsVerdict(t *testing.T) {
	buf := &dptest.SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	Validate(ctx, wire.Encode(singleRelease(1)))

	out := buf.String()
	assert.Contains(t, out, "Validate: Verdict reached.")
	assert.Contains(t, out, "accepted=true")
	assert.Contains(t, out, "Account: Composition complete.")
}

func TestValidate_Concurrent(t *testing.T) {
	v := New()
	accepted := wire.Encode(singleRelease(1))
	rejected := wire.Encode(singleRelease(0.1))
	want := v.Validate(context.Background(), accepted)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				got := v.Validate(context.Background(), accepted)
				assert.Empty(t, cmp.Diff(want, got, verdictOpts))
				return
			}
			assert.False(t, v.IsValid(context.Background(), rejected))
		}(i)
	}
	wg.Wait()
}
