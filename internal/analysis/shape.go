package analysis

import "fmt"

// Shape describes the value a node produces or expects. A zero Rank or
// Element means the dimension is not declared and matches anything.
type Shape struct {
	Rank    Rank    `json:"rank,omitempty" yaml:"rank,omitempty"`
	Element Element `json:"element,omitempty" yaml:"element,omitempty"`
}

// Scalar returns a scalar shape of element e.
func Scalar(e Element) Shape { return Shape{Rank: RankScalar, Element: e} }

// Vector returns a vector shape of element e.
func Vector(e Element) Shape { return Shape{Rank: RankVector, Element: e} }

// Matrix returns a matrix shape of element e.
func Matrix(e Element) Shape { return Shape{Rank: RankMatrix, Element: e} }

// Known reports whether both dimensions of s are declared.
func (s Shape) Known() bool {
	return s.Rank != 0 && s.Element != 0
}

// String renders s in the authoring syntax, e.g. "vector(float)".
func (s Shape) String() string {
	return fmt.Sprintf("%s(%s)", s.Rank, s.Element)
}

// AcceptsFrom reports whether a consumer expecting s can take a producer
// value of shape actual. Element types must match exactly; ranks must match
// or the producer must be a scalar broadcast into a vector or matrix.
func (s Shape) AcceptsFrom(actual Shape) bool {
	if s.Element != 0 && actual.Element != 0 && s.Element != actual.Element {
		return false
	}
	if s.Rank == 0 || actual.Rank == 0 || s.Rank == actual.Rank {
		return true
	}
	return actual.Rank == RankScalar && (s.Rank == RankVector || s.Rank == RankMatrix)
}
