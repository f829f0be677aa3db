package analysis

// Source identifies the private column a datasource reads.
type Source struct {
	Dataset string `json:"dataset" yaml:"dataset" validate:"required"`
	Column  string `json:"column" yaml:"column" validate:"required"`
}

// Key returns the dataset/column pair used to reason about disjointness.
func (s Source) Key() string {
	return s.Dataset + "/" + s.Column
}

// Mechanism holds the calibration parameters of a noise-adding node.
// Scale and Sensitivity are checked by PrivacyCost, not by struct tags.
type Mechanism struct {
	Family      Family  `json:"family" yaml:"family" validate:"oneof=1 2 3 4"`
	Scale       float64 `json:"scale" yaml:"scale"`
	Sensitivity float64 `json:"sensitivity" yaml:"sensitivity"`
	// Delta is the failure probability the mechanism is calibrated for.
	// Only the Gaussian family uses it.
	Delta float64 `json:"delta,omitempty" yaml:"delta,omitempty"`
}

// Input is one in-edge of a node: the producer identifier and, optionally,
// the shape the consumer expects at this position.
type Input struct {
	Node   string `json:"node" yaml:"node" validate:"required"`
	Expect *Shape `json:"expect,omitempty" yaml:"expect,omitempty"`
}

// Node is one computation step of an analysis.
type Node struct {
	ID      string  `json:"id" yaml:"id" validate:"required"`
	Name    string  `json:"name,omitempty" yaml:"name,omitempty"`
	Kind    Kind    `json:"kind" yaml:"kind" validate:"oneof=1 2 3 4"`
	Inputs  []Input `json:"inputs,omitempty" yaml:"inputs,omitempty" validate:"dive"`
	Release bool    `json:"will_release" yaml:"will_release"`
	Shape   Shape   `json:"shape" yaml:"shape"`

	Source    *Source    `json:"source,omitempty" yaml:"source,omitempty" validate:"required_if=Kind 1"`
	Mechanism *Mechanism `json:"mechanism,omitempty" yaml:"mechanism,omitempty" validate:"required_if=Kind 4"`

	// Stability is the factor by which a transform can amplify the influence
	// of a single record. Zero is read as 1.
	Stability float64 `json:"stability,omitempty" yaml:"stability,omitempty" validate:"omitempty,gte=1"`
}

// InputIDs returns the identifiers of n's inputs in declared order.
func (n *Node) InputIDs() []string {
	ids := make([]string, len(n.Inputs))
	for i, in := range n.Inputs {
		ids[i] = in.Node
	}
	return ids
}

// StabilityFactor returns the node's c-stability, defaulting to 1.
func (n *Node) StabilityFactor() float64 {
	if n.Stability <= 0 {
		return 1
	}
	return n.Stability
}

// Label returns the human readable name of the node, falling back to its ID.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}
