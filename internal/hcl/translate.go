package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/dpcheck/internal/analysis"
	"github.com/specialistvlad/dpcheck/internal/ctxlog"
)

var blockKinds = map[string]analysis.Kind{
	"datasource": analysis.KindDatasource,
	"transform":  analysis.KindTransform,
	"aggregator": analysis.KindAggregator,
	"mechanism":  analysis.KindMechanism,
}

// translatePrivacy decodes a privacy block. An omitted group size is 1.
func (l *Loader) translatePrivacy(ctx context.Context, block *hcl.Block) (*analysis.PrivacyDefinition, error) {
	ctxlog.FromContext(ctx).Debug("Translating privacy block.")

	var pb privacyBlock
	if diags := gohcl.DecodeBody(block.Body, nil, &pb); diags.HasErrors() {
		return nil, fmt.Errorf("privacy block: %w", diags)
	}

	neighboring, err := analysis.ParseNeighboring(pb.Neighboring)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", block.DefRange, err)
	}
	groupSize := pb.GroupSize
	if groupSize == 0 {
		groupSize = 1
	}
	return &analysis.PrivacyDefinition{
		Epsilon:     pb.Epsilon,
		Delta:       pb.Delta,
		Neighboring: neighboring,
		GroupSize:   groupSize,
	}, nil
}

// translateNode decodes one node block into an analysis node.
func (l *Loader) translateNode(ctx context.Context, block *hcl.Block) (*analysis.Node, error) {
	id := block.Labels[0]
	logger := ctxlog.FromContext(ctx).With("node_kind", block.Type, "node_id", id)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating HCL node block.")

	kind, ok := blockKinds[block.Type]
	if !ok {
		return nil, fmt.Errorf("%s: unknown block type %q", block.DefRange, block.Type)
	}

	var nb nodeBlock
	if diags := gohcl.DecodeBody(block.Body, nil, &nb); diags.HasErrors() {
		return nil, fmt.Errorf("%s %q: %w", block.Type, id, diags)
	}

	shape, err := shapeExpr(ctx, nb.Shape)
	if err != nil {
		return nil, fmt.Errorf("%s %q: shape: %w", block.Type, id, err)
	}

	n := &analysis.Node{
		ID:        id,
		Name:      nb.Name,
		Kind:      kind,
		Release:   nb.Release,
		Shape:     shape,
		Stability: nb.Stability,
	}

	for _, in := range nb.Inputs {
		input := analysis.Input{Node: in.Node}
		if isExprDefined(ctx, in.Expect, "expect") {
			expect, err := shapeExpr(ctx, in.Expect)
			if err != nil {
				return nil, fmt.Errorf("%s %q: input %q: expect: %w", block.Type, id, in.Node, err)
			}
			input.Expect = &expect
		}
		n.Inputs = append(n.Inputs, input)
	}

	hasSource := nb.Dataset != "" || nb.Column != ""
	hasMechanism := nb.Family != "" || nb.Scale != 0 || nb.Sensitivity != 0 || nb.Delta != 0

	switch kind {
	case analysis.KindDatasource:
		n.Source = &analysis.Source{Dataset: nb.Dataset, Column: nb.Column}
	case analysis.KindMechanism:
		family, err := analysis.ParseFamily(nb.Family)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", block.Type, id, err)
		}
		n.Mechanism = &analysis.Mechanism{
			Family:      family,
			Scale:       nb.Scale,
			Sensitivity: nb.Sensitivity,
			Delta:       nb.Delta,
		}
	case analysis.KindTransform, analysis.KindAggregator:
	default:
		return nil, fmt.Errorf("%s %q: unhandled node kind %s", block.Type, id, kind)
	}

	if hasSource && kind != analysis.KindDatasource {
		return nil, fmt.Errorf("%s %q: dataset and column are only valid in datasource blocks", block.Type, id)
	}
	if hasMechanism && kind != analysis.KindMechanism {
		return nil, fmt.Errorf("%s %q: noise parameters are only valid in mechanism blocks", block.Type, id)
	}

	logger.Debug("Translated HCL node block.", "inputs", len(n.Inputs), "shape", n.Shape.String())
	return n, nil
}
