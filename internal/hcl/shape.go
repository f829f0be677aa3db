package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/dpcheck/internal/analysis"
	"github.com/specialistvlad/dpcheck/internal/ctxlog"
)

// isExprDefined checks if an HCL expression was actually present in the
// source. Omitted optional attributes decode to zero-width expressions, so a
// nil check alone is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	defined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", r.String(),
		"is_defined", defined,
	)
	return defined
}

// shapeExpr converts a type expression such as `vector(float)` into a Shape.
// An omitted expression yields the undeclared shape.
func shapeExpr(ctx context.Context, expr hcl.Expression) (analysis.Shape, error) {
	logger := ctxlog.FromContext(ctx)
	if !isExprDefined(ctx, expr, "shape") {
		return analysis.Shape{}, nil
	}

	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		logger.Debug("Parsing shape expression as a function call.", "call", v.Name)
		rank, err := analysis.ParseRank(v.Name)
		if err != nil {
			return analysis.Shape{}, err
		}
		if len(v.Args) != 1 {
			return analysis.Shape{}, fmt.Errorf("%s() requires exactly one element type, got %d", v.Name, len(v.Args))
		}
		keyword, err := keywordExpr(v.Args[0])
		if err != nil {
			return analysis.Shape{}, err
		}
		if keyword == "any" {
			return analysis.Shape{Rank: rank}, nil
		}
		elem, err := analysis.ParseElement(keyword)
		if err != nil {
			return analysis.Shape{}, err
		}
		return analysis.Shape{Rank: rank, Element: elem}, nil

	case *hclsyntax.ScopeTraversalExpr:
		keyword, err := keywordExpr(v)
		if err != nil {
			return analysis.Shape{}, err
		}
		logger.Debug("Parsing shape expression as a keyword.", "keyword", keyword)
		if keyword == "any" {
			return analysis.Shape{}, nil
		}
		rank, err := analysis.ParseRank(keyword)
		if err != nil {
			return analysis.Shape{}, err
		}
		return analysis.Shape{Rank: rank}, nil

	default:
		return analysis.Shape{}, fmt.Errorf("unsupported expression for shape definition: %T", v)
	}
}

// keywordExpr returns the identifier of a single-name traversal.
func keywordExpr(expr hcl.Expression) (string, error) {
	trav, ok := expr.(*hclsyntax.ScopeTraversalExpr)
	if !ok || len(trav.Traversal) != 1 {
		return "", fmt.Errorf("expected a type keyword, got %T", expr)
	}
	return trav.Traversal.RootName(), nil
}
