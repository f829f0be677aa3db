package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// rootSchema lists every top-level construct of an analysis file. Blocks are
// read through a schema rather than struct tags so that node order follows
// the source across block types.
var rootSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "schema_version"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "privacy"},
		{Type: "datasource", LabelNames: []string{"id"}},
		{Type: "transform", LabelNames: []string{"id"}},
		{Type: "aggregator", LabelNames: []string{"id"}},
		{Type: "mechanism", LabelNames: []string{"id"}},
	},
}

// privacyBlock is the body of a `privacy` block.
type privacyBlock struct {
	Epsilon     float64 `hcl:"epsilon"`
	Delta       float64 `hcl:"delta,optional"`
	Neighboring string  `hcl:"neighboring,optional"`
	GroupSize   uint32  `hcl:"group_size,optional"`
}

// nodeBlock is the body shared by every node block. Kind-specific attributes
// are rejected for other kinds during translation.
type nodeBlock struct {
	Name      string         `hcl:"name,optional"`
	Shape     hcl.Expression `hcl:"shape,optional"`
	Release   bool           `hcl:"release,optional"`
	Stability float64        `hcl:"stability,optional"`
	Inputs    []*inputBlock  `hcl:"input,block"`

	// datasource
	Dataset string `hcl:"dataset,optional"`
	Column  string `hcl:"column,optional"`

	// mechanism
	Family      string  `hcl:"family,optional"`
	Scale       float64 `hcl:"scale,optional"`
	Sensitivity float64 `hcl:"sensitivity,optional"`
	Delta       float64 `hcl:"delta,optional"`
}

// inputBlock is one `input "<node>" { expect = ... }` block.
type inputBlock struct {
	Node   string         `hcl:"node,label"`
	Expect hcl.Expression `hcl:"expect,optional"`
}
