package analysis

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameters marks mechanism parameters that admit no calibration.
var ErrInvalidParameters = errors.New("invalid mechanism parameters")

// PrivacyCost returns the (epsilon, delta) a single application of m spends,
// derived from its scale and the claimed sensitivity of its input.
//
//   - laplace, geometric: epsilon = sensitivity / scale, delta = 0
//   - exponential:        epsilon = 2 * sensitivity / scale, delta = 0
//   - gaussian:           epsilon = sensitivity * sqrt(2 ln(1.25/delta)) / scale
//
// The result may be non-finite when scale is a boundary value; callers
// decide how to treat that.
func (m Mechanism) PrivacyCost() (Usage, error) {
	if math.IsNaN(m.Scale) || math.IsInf(m.Scale, 0) || m.Scale <= 0 {
		return Usage{}, fmt.Errorf("%w: scale must be positive and finite, got %g", ErrInvalidParameters, m.Scale)
	}
	if math.IsNaN(m.Sensitivity) || math.IsInf(m.Sensitivity, 0) || m.Sensitivity < 0 {
		return Usage{}, fmt.Errorf("%w: sensitivity must be non-negative and finite, got %g", ErrInvalidParameters, m.Sensitivity)
	}

	switch m.Family {
	case FamilyLaplace, FamilyGeometric:
		return Usage{Epsilon: m.Sensitivity / m.Scale}, nil
	case FamilyExponential:
		return Usage{Epsilon: 2 * m.Sensitivity / m.Scale}, nil
	case FamilyGaussian:
		if !(m.Delta > 0 && m.Delta < 1) {
			return Usage{}, fmt.Errorf("%w: gaussian delta must be in (0, 1), got %g", ErrInvalidParameters, m.Delta)
		}
		return Usage{
			Epsilon: m.Sensitivity * math.Sqrt(2*math.Log(1.25/m.Delta)) / m.Scale,
			Delta:   m.Delta,
		}, nil
	default:
		return Usage{}, fmt.Errorf("%w: unknown family %s", ErrInvalidParameters, m.Family)
	}
}
