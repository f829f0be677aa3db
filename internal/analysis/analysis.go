package analysis

// PrivacyDefinition is the total budget an analysis declares.
type PrivacyDefinition struct {
	Epsilon     float64     `json:"epsilon" yaml:"epsilon" validate:"gt=0"`
	Delta       float64     `json:"delta" yaml:"delta" validate:"gte=0,lt=1"`
	Neighboring Neighboring `json:"neighboring" yaml:"neighboring" validate:"oneof=0 1"`
	// GroupSize is the number of records one individual may contribute.
	GroupSize uint32 `json:"group_size" yaml:"group_size" validate:"gte=1"`
}

// Budget returns the (epsilon, delta) pair of the definition.
func (p PrivacyDefinition) Budget() Usage {
	return Usage{Epsilon: p.Epsilon, Delta: p.Delta}
}

// Analysis is the unit submitted for validation.
type Analysis struct {
	SchemaVersion string             `json:"schema_version,omitempty" yaml:"schema_version,omitempty"`
	Nodes         []*Node            `json:"nodes" yaml:"nodes"`
	Privacy       *PrivacyDefinition `json:"privacy_definition" yaml:"privacy_definition"`
}
