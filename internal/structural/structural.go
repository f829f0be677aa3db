package structural

import (
	"context"

	"github.com/specialistvlad/dpcheck/internal/ctxlog"
	"github.com/specialistvlad/dpcheck/internal/diag"
	"github.com/specialistvlad/dpcheck/internal/graph"
)

// Validate runs every structural check over g and returns all defects in
// check order. An empty list means g is structurally sound.
func Validate(ctx context.Context, g *graph.Graph) diag.List {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Structural: Starting checks.", "node_count", g.Len())

	var out diag.List

	refs := checkReferences(g)
	logger.Debug("Structural: Reference check complete.", "defects", len(refs))
	out = append(out, refs...)

	cycles := checkCycles(g)
	logger.Debug("Structural: Cycle check complete.", "defects", len(cycles))
	out = append(out, cycles...)

	shapes := checkShapes(g)
	logger.Debug("Structural: Shape check complete.", "defects", len(shapes))
	out = append(out, shapes...)

	releases := checkReleases(g)
	logger.Debug("Structural: Release check complete.", "defects", len(releases))
	out = append(out, releases...)

	return out
}
