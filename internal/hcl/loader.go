package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/dpcheck/internal/analysis"
	"github.com/specialistvlad/dpcheck/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader reads analyses from HCL sources.
type Loader struct{}

// NewLoader creates a new HCL analysis loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile reads and parses the analysis at path.
func (l *Loader) LoadFile(ctx context.Context, path string) (*analysis.Analysis, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return l.Parse(ctx, src, path)
}

// Parse parses one analysis from src. filename is used in error messages.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*analysis.Analysis, error) {
	logger := ctxlog.FromContext(ctx).With("file", filename)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("HCL loader started.")

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	content, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	a := &analysis.Analysis{}
	if attr, ok := content.Attributes["schema_version"]; ok {
		v, err := stringAttr(attr)
		if err != nil {
			return nil, err
		}
		a.SchemaVersion = v
	}

	for _, block := range content.Blocks {
		switch block.Type {
		case "privacy":
			if a.Privacy != nil {
				return nil, fmt.Errorf("%s: duplicate privacy block", block.DefRange)
			}
			p, err := l.translatePrivacy(ctx, block)
			if err != nil {
				return nil, err
			}
			a.Privacy = p
		default:
			n, err := l.translateNode(ctx, block)
			if err != nil {
				return nil, err
			}
			a.Nodes = append(a.Nodes, n)
		}
	}

	logger.Debug("HCL loading complete.", "nodes", len(a.Nodes), "has_privacy", a.Privacy != nil)
	return a, nil
}

// stringAttr evaluates a constant string attribute.
func stringAttr(attr *hcl.Attribute) (string, error) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", fmt.Errorf("%s: %w", attr.Range, diags)
	}
	if val.IsNull() || !val.Type().Equals(cty.String) {
		return "", fmt.Errorf("%s: %s must be a string", attr.Range, attr.Name)
	}
	return val.AsString(), nil
}
