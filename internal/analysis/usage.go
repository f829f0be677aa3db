package analysis

import (
	"fmt"
	"math"
)

// Usage is an (epsilon, delta) privacy cost or budget.
type Usage struct {
	Epsilon float64 `json:"epsilon" yaml:"epsilon"`
	Delta   float64 `json:"delta" yaml:"delta"`
}

// Add returns the sequential composition of u and v.
func (u Usage) Add(v Usage) Usage {
	return Usage{Epsilon: u.Epsilon + v.Epsilon, Delta: u.Delta + v.Delta}
}

// Sum returns the sequential composition of all usages. Components are
// accumulated with compensated summation so the total does not drift with
// the number or order of terms.
func Sum(usages []Usage) Usage {
	var eps, delta compensated
	for _, u := range usages {
		eps.add(u.Epsilon)
		delta.add(u.Delta)
	}
	return Usage{Epsilon: eps.value(), Delta: delta.value()}
}

// compensated is a Neumaier running sum.
type compensated struct {
	sum, c float64
}

func (k *compensated) add(x float64) {
	t := k.sum + x
	if math.Abs(k.sum) >= math.Abs(x) {
		k.c += (k.sum - t) + x
	} else {
		k.c += (x - t) + k.sum
	}
	k.sum = t
}

func (k *compensated) value() float64 {
	return k.sum + k.c
}

// Max returns the component-wise maximum of u and v, the parallel
// composition of costs spent on disjoint data.
func (u Usage) Max(v Usage) Usage {
	return Usage{Epsilon: math.Max(u.Epsilon, v.Epsilon), Delta: math.Max(u.Delta, v.Delta)}
}

// Finite reports whether both components are finite numbers.
func (u Usage) Finite() bool {
	return !math.IsInf(u.Epsilon, 0) && !math.IsNaN(u.Epsilon) &&
		!math.IsInf(u.Delta, 0) && !math.IsNaN(u.Delta)
}

func (u Usage) String() string {
	return fmt.Sprintf("(epsilon=%g, delta=%g)", u.Epsilon, u.Delta)
}
