package diag

import (
	"errors"
	"fmt"
	"testing"

	"github.com/specialistvlad/dpcheck/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_Error(t *testing.T) {
	testCases := []struct {
		name string
		list List
		want string
	}{
		{"empty", nil, "no diagnostics"},
		{"single", List{UnprotectedRelease("x")}, `[unprotected-release] node "x" is released without a mechanism guarding every path to it`},
		{
			name: "many",
			list: List{UnknownReference("a", "b"), UnknownReference("c", "d"), CycleDetected([]string{"a", "a"})},
			want: `[unknown-reference] node "a" references unknown input "b" (and 2 more)`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.list.Error())
		})
	}
}

func TestList_Err(t *testing.T) {
	assert.NoError(t, List(nil).Err())
	assert.Error(t, List{UnprotectedRelease("x")}.Err())
}

func TestList_Queries(t *testing.T) {
	l := List{
		UnknownReference("a", "b"),
		CycleDetected([]string{"a", "b", "a"}),
		UnknownReference("c", "d"),
	}

	assert.True(t, l.Has(CodeCycleDetected))
	assert.False(t, l.Has(CodeBudgetExceeded))
	assert.Len(t, l.ByCode(CodeUnknownReference), 2)
	assert.Equal(t, []Code{CodeUnknownReference, CodeCycleDetected, CodeUnknownReference}, l.Codes())
}

func TestAsList(t *testing.T) {
	t.Run("wrapped list", func(t *testing.T) {
		err := fmt.Errorf("building: %w", List{UnprotectedRelease("x")})
		list, ok := AsList(err)
		require.True(t, ok)
		assert.Equal(t, CodeUnprotectedRelease, list[0].Code)
	})

	t.Run("single diagnostic", func(t *testing.T) {
		cause := errors.New("boom")
		d := Deserialization(cause)
		list, ok := AsList(&d)
		require.True(t, ok)
		require.Len(t, list, 1)
		assert.Equal(t, CodeDeserialization, list[0].Code)
		assert.Contains(t, list[0].Message, "boom")
	})

	t.Run("plain error", func(t *testing.T) {
		_, ok := AsList(errors.New("plain"))
		assert.False(t, ok)
	})
}

func TestDiagnostic_Unwrap(t *testing.T) {
	d := InvalidParameters("noise", fmt.Errorf("%w: scale", analysis.ErrInvalidParameters))
	assert.ErrorIs(t, &d, analysis.ErrInvalidParameters)

	cause := errors.New("truncated")
	decoded := Deserialization(cause)
	assert.ErrorIs(t, &decoded, cause)
}

func TestConstructorsBuildListValues(t *testing.T) {
	cause := errors.New("truncated")

	list := List{
		Deserialization(cause),
		MalformedAnalysis("n", "duplicate node identifier %q", "n"),
		UnknownReference("n", "m"),
	}

	assert.Equal(t, []Code{CodeDeserialization, CodeMalformedAnalysis, CodeUnknownReference}, list.Codes())
	assert.Equal(t, "n", list[1].Node)
	assert.Equal(t, `duplicate node identifier "n"`, list[1].Message)
}

func TestCycleDetected(t *testing.T) {
	path := []string{"a", "b", "a"}
	d := CycleDetected(path)
	path[0] = "mutated"

	assert.Equal(t, "a", d.Node)
	assert.Equal(t, []string{"a", "b", "a"}, d.Path)
	assert.Equal(t, "dependency cycle: a -> b -> a", d.Message)
}

func TestBudgetExceeded(t *testing.T) {
	d := BudgetExceeded(analysis.Usage{Epsilon: 1.5}, analysis.Usage{Epsilon: 1})

	require.NotNil(t, d.Consumed)
	require.NotNil(t, d.Allowed)
	assert.Equal(t, 1.5, d.Consumed.Epsilon)
	assert.Equal(t, 1.0, d.Allowed.Epsilon)
}
