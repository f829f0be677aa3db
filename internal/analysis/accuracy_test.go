package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMechanism_Accuracy(t *testing.T) {
	testCases := []struct {
		name    string
		mech    Mechanism
		alpha   float64
		want    float64
		wantErr error
	}{
		{
			name:  "laplace tail",
			mech:  Mechanism{Family: FamilyLaplace, Scale: 2, Sensitivity: 1},
			alpha: 0.05,
			want:  2 * math.Log(20),
		},
		{
			name:  "geometric uses the laplace tail",
			mech:  Mechanism{Family: FamilyGeometric, Scale: 1, Sensitivity: 1},
			alpha: math.Exp(-3),
			want:  3,
		},
		{
			name:  "gaussian two-sided quantile",
			mech:  Mechanism{Family: FamilyGaussian, Scale: 1, Sensitivity: 1, Delta: 1e-6},
			alpha: 0.05,
			want:  1.959963984540054,
		},
		{
			name:    "exponential has no bound",
			mech:    Mechanism{Family: FamilyExponential, Scale: 1, Sensitivity: 1},
			alpha:   0.05,
			wantErr: ErrNoAccuracyBound,
		},
		{
			name:    "alpha out of range",
			mech:    Mechanism{Family: FamilyLaplace, Scale: 1, Sensitivity: 1},
			alpha:   1,
			wantErr: ErrInvalidParameters,
		},
		{
			name:    "non-positive scale",
			mech:    Mechanism{Family: FamilyLaplace, Scale: 0, Sensitivity: 1},
			alpha:   0.05,
			wantErr: ErrInvalidParameters,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.mech.Accuracy(tc.alpha)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestMechanism_AccuracyToUsage(t *testing.T) {
	testCases := []struct {
		name      string
		mech      Mechanism
		accuracy  float64
		alpha     float64
		wantScale float64
		want      Usage
		wantErr   error
	}{
		{
			name:      "laplace",
			mech:      Mechanism{Family: FamilyLaplace, Sensitivity: 1},
			accuracy:  2 * math.Log(20),
			alpha:     0.05,
			wantScale: 2,
			want:      Usage{Epsilon: 0.5},
		},
		{
			name:      "gaussian keeps the declared delta",
			mech:      Mechanism{Family: FamilyGaussian, Sensitivity: 1, Delta: 1e-5},
			accuracy:  1.959963984540054,
			alpha:     0.05,
			wantScale: 1,
			want:      Usage{Epsilon: math.Sqrt(2 * math.Log(1.25/1e-5)), Delta: 1e-5},
		},
		{
			name:     "gaussian without delta",
			mech:     Mechanism{Family: FamilyGaussian, Sensitivity: 1},
			accuracy: 1,
			alpha:    0.05,
			wantErr:  ErrInvalidParameters,
		},
		{
			name:     "zero accuracy",
			mech:     Mechanism{Family: FamilyLaplace, Sensitivity: 1},
			accuracy: 0,
			alpha:    0.05,
			wantErr:  ErrInvalidParameters,
		},
		{
			name:     "exponential",
			mech:     Mechanism{Family: FamilyExponential, Sensitivity: 1},
			accuracy: 1,
			alpha:    0.05,
			wantErr:  ErrNoAccuracyBound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			scale, got, err := tc.mech.AccuracyToUsage(tc.accuracy, tc.alpha)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.wantScale, scale, 1e-9)
			assert.InDelta(t, tc.want.Epsilon, got.Epsilon, 1e-9)
			assert.Equal(t, tc.want.Delta, got.Delta)
		})
	}
}

func TestMechanism_AccuracyRoundTrip(t *testing.T) {
	for _, m := range []Mechanism{
		{Family: FamilyLaplace, Scale: 3, Sensitivity: 2},
		{Family: FamilyGeometric, Scale: 0.5, Sensitivity: 1},
		{Family: FamilyGaussian, Scale: 7, Sensitivity: 4, Delta: 1e-6},
	} {
		t.Run(m.Family.String(), func(t *testing.T) {
			want, err := m.PrivacyCost()
			require.NoError(t, err)

			accuracy, err := m.Accuracy(0.01)
			require.NoError(t, err)
			scale, got, err := m.AccuracyToUsage(accuracy, 0.01)

			require.NoError(t, err)
			assert.InDelta(t, m.Scale, scale, 1e-9)
			assert.InDelta(t, want.Epsilon, got.Epsilon, 1e-9)
		})
	}
}

func TestSum_IsCompensated(t *testing.T) {
	terms := make([]Usage, 10)
	for i := range terms {
		terms[i] = Usage{Epsilon: 0.1, Delta: 1e-7}
	}

	got := Sum(terms)

	assert.Equal(t, 1.0, got.Epsilon)
	assert.InDelta(t, 1e-6, got.Delta, 1e-20)
	assert.Equal(t, Usage{}, Sum(nil))
}
