package analysis

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoAccuracyBound marks a mechanism family whose output is not additive
// noise, so no accuracy interval exists for it.
var ErrNoAccuracyBound = errors.New("mechanism family has no accuracy bound")

// Accuracy returns the half-width a of the interval the noise of m stays in
// with probability at least 1 - alpha, that is P(|noise| > a) <= alpha.
//
//   - laplace, geometric: a = scale * ln(1/alpha)
//   - gaussian:           a = scale * sqrt(2) * erfinv(1 - alpha)
//
// The geometric bound is the continuous Laplace tail, which dominates the
// two-sided geometric tail at the same scale.
func (m Mechanism) Accuracy(alpha float64) (float64, error) {
	q, err := tailQuantile(m.Family, alpha)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(m.Scale) || math.IsInf(m.Scale, 0) || m.Scale <= 0 {
		return 0, fmt.Errorf("%w: scale must be positive and finite, got %g", ErrInvalidParameters, m.Scale)
	}
	return m.Scale * q, nil
}

// AccuracyToUsage returns the scale that calibrates m's family to the given
// accuracy at alpha, and the privacy cost of m at that scale. m.Scale is
// ignored; Sensitivity, and Delta for gaussian, are taken from m.
func (m Mechanism) AccuracyToUsage(accuracy, alpha float64) (float64, Usage, error) {
	if math.IsNaN(accuracy) || math.IsInf(accuracy, 0) || accuracy <= 0 {
		return 0, Usage{}, fmt.Errorf("%w: accuracy must be positive and finite, got %g", ErrInvalidParameters, accuracy)
	}
	q, err := tailQuantile(m.Family, alpha)
	if err != nil {
		return 0, Usage{}, err
	}
	m.Scale = accuracy / q
	usage, err := m.PrivacyCost()
	if err != nil {
		return 0, Usage{}, err
	}
	return m.Scale, usage, nil
}

// tailQuantile returns the noise half-width at scale 1 for alpha.
func tailQuantile(f Family, alpha float64) (float64, error) {
	if !(alpha > 0 && alpha < 1) {
		return 0, fmt.Errorf("%w: alpha must be in (0, 1), got %g", ErrInvalidParameters, alpha)
	}
	switch f {
	case FamilyLaplace, FamilyGeometric:
		return math.Log(1 / alpha), nil
	case FamilyGaussian:
		return math.Sqrt2 * math.Erfinv(1-alpha), nil
	case FamilyExponential:
		return 0, fmt.Errorf("%w: %s", ErrNoAccuracyBound, f)
	default:
		return 0, fmt.Errorf("%w: unknown family %s", ErrInvalidParameters, f)
	}
}
