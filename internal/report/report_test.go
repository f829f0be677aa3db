package report

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/specialistvlad/dpcheck/internal/analysis"
	"github.com/specialistvlad/dpcheck/internal/testutil"
	"github.com/specialistvlad/dpcheck/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func entries(t *testing.T) []Entry {
	t.Helper()
	v := validator.New()
	broken := testutil.NewAnalysis(1, 0).
		Datasource("d", "patients", "age").
		Laplace("noise", 1, 2, "ghost").Released().
		Build()
	return []Entry{
		{Source: "ok.hcl", Verdict: v.ValidateAnalysis(context.Background(), testutil.Mean(1, 1, 2))},
		{Source: "over.hcl", Verdict: v.ValidateAnalysis(context.Background(), testutil.Mean(0.1, 1, 2))},
		{Source: "broken.hcl", Verdict: v.ValidateAnalysis(context.Background(), broken)},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Write(&buf, FormatText, entries(t)))

	out := buf.String()
	assert.Contains(t, out, "PASS ok.hcl usage (epsilon=0.5, delta=0) budget (epsilon=1, delta=0) under add_remove\n")
	assert.Contains(t, out, "  mechanism noise (laplace): (epsilon=0.5, delta=0) reads patients/age\n")
	assert.Contains(t, out, "FAIL over.hcl")
	assert.Contains(t, out, "  [budget-exceeded] privacy usage (epsilon=0.5, delta=0) exceeds budget (epsilon=0.1, delta=0)\n")
	assert.Contains(t, out, "FAIL broken.hcl budget")
	assert.Contains(t, out, `[unknown-reference] node "noise" references unknown input "ghost"`)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Write(&buf, FormatJSON, entries(t)))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "ok.hcl", got[0]["source"])
	assert.Equal(t, true, got[0]["accepted"])
	assert.Equal(t, 0.5, got[0]["usage"].(map[string]any)["epsilon"])
	assert.Equal(t, "add_remove", got[0]["neighboring"])
	assert.Equal(t, 1.0, got[0]["group_size"])
	diags := got[1]["diagnostics"].([]any)
	assert.Equal(t, "budget-exceeded", diags[0].(map[string]any)["code"])
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Write(&buf, FormatYAML, entries(t)))

	var got []struct {
		Source   string          `yaml:"source"`
		Accepted bool            `yaml:"accepted"`
		Usage    *analysis.Usage `yaml:"usage"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "ok.hcl", got[0].Source)
	assert.True(t, got[0].Accepted)
	require.NotNil(t, got[0].Usage)
	assert.Equal(t, 0.5, got[0].Usage.Epsilon)
	assert.Nil(t, got[2].Usage)
}

func TestWriteUsage(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteUsage(&buf, FormatText, entries(t)))

	assert.Equal(t,
		"ok.hcl\tepsilon=0.5\tdelta=0\n"+
			"over.hcl\tepsilon=0.5\tdelta=0\n"+
			"broken.hcl\t[unknown-reference] node \"noise\" references unknown input \"ghost\"\n",
		buf.String())
}

func TestWrite_TextShowsPrivacyDefinition(t *testing.T) {
	// --- Arrange ---
	a := testutil.NewAnalysis(10, 0).GroupSize(2).
		Datasource("d", "patients", "age").
		Laplace("noise", 1, 2, "d").Released().
		Build()
	a.Privacy.Neighboring = analysis.NeighboringSubstitute
	v := validator.New().ValidateAnalysis(context.Background(), a)
	var buf bytes.Buffer

	// --- Act ---
	require.NoError(t, Write(&buf, FormatText, []Entry{{Source: "group.hcl", Verdict: v}}))

	// --- Assert ---
	assert.Contains(t, buf.String(), "budget (epsilon=10, delta=0) under substitute group 2\n")
}

func TestWriteAccuracy(t *testing.T) {
	// --- Arrange ---
	var buf bytes.Buffer

	// --- Act ---
	require.NoError(t, WriteAccuracy(&buf, FormatJSON, entries(t), 0.05))

	// --- Assert ---
	var got []AccuracyEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "ok.hcl", got[0].Source)
	assert.Equal(t, "noise", got[0].Node)
	require.NotNil(t, got[0].Accuracy)
	assert.InDelta(t, 2*math.Log(20), *got[0].Accuracy, 1e-9)
	require.NotNil(t, got[1].Accuracy, "over-budget analyses still report accuracy")
	assert.Nil(t, got[2].Accuracy)
	assert.Contains(t, got[2].Error, "[unknown-reference]")
}

func TestWriteAccuracy_Text(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteAccuracy(&buf, FormatText, entries(t)[:1], 0.05))

	assert.Contains(t, buf.String(), "ok.hcl\tnoise (laplace)\talpha=0.05\taccuracy=5.99146")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestWriteCalibration(t *testing.T) {
	var buf bytes.Buffer
	c := Calibration{Family: "laplace", Sensitivity: 1, Accuracy: 4, Alpha: 0.05, Scale: 2, Epsilon: 0.5}

	require.NoError(t, WriteCalibration(&buf, FormatYAML, c))

	var got Calibration
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, c, got)
}
