package analysis

import (
	"fmt"
	"strings"
)

// Kind is the closed set of computation steps a node can represent. The zero
// value is unspecified and never valid.
type Kind int

const (
	KindDatasource Kind = iota + 1
	KindTransform
	KindAggregator
	KindMechanism
)

var kindNames = map[Kind]string{
	KindDatasource: "datasource",
	KindTransform:  "transform",
	KindAggregator: "aggregator",
	KindMechanism:  "mechanism",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Element is the element type of a value.
type Element int

const (
	ElementBool Element = iota + 1
	ElementInt
	ElementFloat
	ElementString
)

var elementNames = map[Element]string{
	ElementBool:   "bool",
	ElementInt:    "int",
	ElementFloat:  "float",
	ElementString: "string",
}

func (e Element) String() string {
	if name, ok := elementNames[e]; ok {
		return name
	}
	if e == 0 {
		return "any"
	}
	return fmt.Sprintf("element(%d)", int(e))
}

// ParseElement converts an element keyword such as "float" into an Element.
func ParseElement(s string) (Element, error) {
	for e, name := range elementNames {
		if strings.EqualFold(s, name) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown element type %q", s)
}

// Rank is the dimensionality of a value.
type Rank int

const (
	RankScalar Rank = iota + 1
	RankVector
	RankMatrix
)

var rankNames = map[Rank]string{
	RankScalar: "scalar",
	RankVector: "vector",
	RankMatrix: "matrix",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	if r == 0 {
		return "any"
	}
	return fmt.Sprintf("rank(%d)", int(r))
}

// ParseRank converts a rank keyword such as "vector" into a Rank.
func ParseRank(s string) (Rank, error) {
	for r, name := range rankNames {
		if strings.EqualFold(s, name) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", s)
}

// Family is the noise distribution a mechanism draws from.
type Family int

const (
	FamilyLaplace Family = iota + 1
	FamilyGaussian
	FamilyGeometric
	FamilyExponential
)

var familyNames = map[Family]string{
	FamilyLaplace:     "laplace",
	FamilyGaussian:    "gaussian",
	FamilyGeometric:   "geometric",
	FamilyExponential: "exponential",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// ParseFamily converts a family name such as "laplace" into a Family.
func ParseFamily(s string) (Family, error) {
	for f, name := range familyNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown mechanism family %q", s)
}

// Neighboring is the notion of adjacent datasets the budget is stated under.
type Neighboring int

const (
	NeighboringAddRemove Neighboring = iota
	NeighboringSubstitute
)

func (n Neighboring) String() string {
	switch n {
	case NeighboringAddRemove:
		return "add_remove"
	case NeighboringSubstitute:
		return "substitute"
	default:
		return fmt.Sprintf("neighboring(%d)", int(n))
	}
}

// ParseNeighboring converts "add_remove" or "substitute" into a Neighboring.
func ParseNeighboring(s string) (Neighboring, error) {
	switch strings.ToLower(s) {
	case "", "add_remove", "addremove":
		return NeighboringAddRemove, nil
	case "substitute":
		return NeighboringSubstitute, nil
	default:
		return 0, fmt.Errorf("unknown neighboring definition %q", s)
	}
}
