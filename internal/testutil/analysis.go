package testutil

import (
	"github.com/specialistvlad/dpcheck/internal/analysis"
)

// AnalysisBuilder assembles analyses for tests. Modifiers such as Released
// and WithShape apply to the most recently added node.
type AnalysisBuilder struct {
	a *analysis.Analysis
}

// NewAnalysis starts an analysis with budget (epsilon, delta) and group size 1.
func NewAnalysis(epsilon, delta float64) *AnalysisBuilder {
	return &AnalysisBuilder{a: &analysis.Analysis{
		Privacy: &analysis.PrivacyDefinition{Epsilon: epsilon, Delta: delta, GroupSize: 1},
	}}
}

// Build returns the assembled analysis.
func (b *AnalysisBuilder) Build() *analysis.Analysis {
	return b.a
}

// Node appends n as is.
func (b *AnalysisBuilder) Node(n *analysis.Node) *AnalysisBuilder {
	b.a.Nodes = append(b.a.Nodes, n)
	return b
}

// Datasource appends a datasource reading dataset/column as a vector of floats.
func (b *AnalysisBuilder) Datasource(id, dataset, column string) *AnalysisBuilder {
	return b.Node(&analysis.Node{
		ID:     id,
		Kind:   analysis.KindDatasource,
		Shape:  analysis.Vector(analysis.ElementFloat),
		Source: &analysis.Source{Dataset: dataset, Column: column},
	})
}

// Transform appends a transform producing a vector of floats.
func (b *AnalysisBuilder) Transform(id string, inputs ...string) *AnalysisBuilder {
	return b.Node(&analysis.Node{
		ID:     id,
		Kind:   analysis.KindTransform,
		Inputs: toInputs(inputs),
		Shape:  analysis.Vector(analysis.ElementFloat),
	})
}

// Aggregator appends an aggregator producing a float scalar.
func (b *AnalysisBuilder) Aggregator(id string, inputs ...string) *AnalysisBuilder {
	return b.Node(&analysis.Node{
		ID:     id,
		Kind:   analysis.KindAggregator,
		Inputs: toInputs(inputs),
		Shape:  analysis.Scalar(analysis.ElementFloat),
	})
}

// Mechanism appends a mechanism with parameters m producing a float scalar.
func (b *AnalysisBuilder) Mechanism(id string, m analysis.Mechanism, inputs ...string) *AnalysisBuilder {
	return b.Node(&analysis.Node{
		ID:        id,
		Kind:      analysis.KindMechanism,
		Inputs:    toInputs(inputs),
		Shape:     analysis.Scalar(analysis.ElementFloat),
		Mechanism: &m,
	})
}

// Laplace appends a Laplace mechanism costing sensitivity/scale epsilon.
func (b *AnalysisBuilder) Laplace(id string, sensitivity, scale float64, inputs ...string) *AnalysisBuilder {
	return b.Mechanism(id, analysis.Mechanism{
		Family:      analysis.FamilyLaplace,
		Sensitivity: sensitivity,
		Scale:       scale,
	}, inputs...)
}

// Released marks the last node as released.
func (b *AnalysisBuilder) Released() *AnalysisBuilder {
	b.last().Release = true
	return b
}

// WithShape sets the declared output shape of the last node.
func (b *AnalysisBuilder) WithShape(s analysis.Shape) *AnalysisBuilder {
	b.last().Shape = s
	return b
}

// Expecting sets the expected shape of the last node's input at position pos.
func (b *AnalysisBuilder) Expecting(pos int, s analysis.Shape) *AnalysisBuilder {
	b.last().Inputs[pos].Expect = &s
	return b
}

// WithStability sets the c-stability of the last node.
func (b *AnalysisBuilder) WithStability(c float64) *AnalysisBuilder {
	b.last().Stability = c
	return b
}

// GroupSize sets the group size of the privacy definition.
func (b *AnalysisBuilder) GroupSize(k uint32) *AnalysisBuilder {
	b.a.Privacy.GroupSize = k
	return b
}

// SchemaVersion sets the declared schema version.
func (b *AnalysisBuilder) SchemaVersion(v string) *AnalysisBuilder {
	b.a.SchemaVersion = v
	return b
}

func (b *AnalysisBuilder) last() *analysis.Node {
	if len(b.a.Nodes) == 0 {
		panic("testutil: no node to modify")
	}
	return b.a.Nodes[len(b.a.Nodes)-1]
}

func toInputs(ids []string) []analysis.Input {
	if len(ids) == 0 {
		return nil
	}
	inputs := make([]analysis.Input, len(ids))
	for i, id := range ids {
		inputs[i] = analysis.Input{Node: id}
	}
	return inputs
}

// Mean returns the canonical single-release analysis: datasource d, an
// aggregator mean and a released Laplace mechanism of the given cost.
func Mean(budget, sensitivity, scale float64) *analysis.Analysis {
	return NewAnalysis(budget, 0).
		Datasource("d", "patients", "age").
		Aggregator("mean", "d").
		Laplace("noise", sensitivity, scale, "mean").Released().
		Build()
}
