package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMechanism_PrivacyCost(t *testing.T) {
	testCases := []struct {
		name  string
		mech  Mechanism
		want  Usage
		isErr bool
	}{
		{
			name: "laplace is sensitivity over scale",
			mech: Mechanism{Family: FamilyLaplace, Scale: 2, Sensitivity: 1},
			want: Usage{Epsilon: 0.5},
		},
		{
			name: "geometric matches laplace",
			mech: Mechanism{Family: FamilyGeometric, Scale: 4, Sensitivity: 2},
			want: Usage{Epsilon: 0.5},
		},
		{
			name: "exponential doubles the laplace bound",
			mech: Mechanism{Family: FamilyExponential, Scale: 4, Sensitivity: 1},
			want: Usage{Epsilon: 0.5},
		},
		{
			name: "zero sensitivity costs nothing",
			mech: Mechanism{Family: FamilyLaplace, Scale: 1, Sensitivity: 0},
			want: Usage{},
		},
		{
			name:  "zero scale",
			mech:  Mechanism{Family: FamilyLaplace, Scale: 0, Sensitivity: 1},
			isErr: true,
		},
		{
			name:  "negative scale",
			mech:  Mechanism{Family: FamilyLaplace, Scale: -1, Sensitivity: 1},
			isErr: true,
		},
		{
			name:  "infinite scale",
			mech:  Mechanism{Family: FamilyLaplace, Scale: math.Inf(1), Sensitivity: 1},
			isErr: true,
		},
		{
			name:  "NaN sensitivity",
			mech:  Mechanism{Family: FamilyLaplace, Scale: 1, Sensitivity: math.NaN()},
			isErr: true,
		},
		{
			name:  "negative sensitivity",
			mech:  Mechanism{Family: FamilyLaplace, Scale: 1, Sensitivity: -1},
			isErr: true,
		},
		{
			name:  "gaussian without delta",
			mech:  Mechanism{Family: FamilyGaussian, Scale: 1, Sensitivity: 1},
			isErr: true,
		},
		{
			name:  "unknown family",
			mech:  Mechanism{Scale: 1, Sensitivity: 1},
			isErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.mech.PrivacyCost()
			if tc.isErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidParameters)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want.Epsilon, got.Epsilon, 1e-12)
			assert.InDelta(t, tc.want.Delta, got.Delta, 1e-12)
		})
	}
}

func TestMechanism_PrivacyCost_Gaussian(t *testing.T) {
	// --- Arrange ---
	m := Mechanism{Family: FamilyGaussian, Scale: 2, Sensitivity: 1, Delta: 1e-5}
	wantEpsilon := math.Sqrt(2*math.Log(1.25/1e-5)) / 2

	// --- Act ---
	got, err := m.PrivacyCost()

	// --- Assert ---
	require.NoError(t, err)
	assert.InDelta(t, wantEpsilon, got.Epsilon, 1e-12)
	assert.Equal(t, 1e-5, got.Delta)
}

func TestMechanism_PrivacyCost_TinyScaleIsInfinite(t *testing.T) {
	m := Mechanism{Family: FamilyLaplace, Scale: math.SmallestNonzeroFloat64, Sensitivity: 1e10}

	got, err := m.PrivacyCost()

	require.NoError(t, err)
	assert.False(t, got.Finite())
}
