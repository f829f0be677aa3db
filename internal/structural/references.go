package structural

import (
	"github.com/specialistvlad/dpcheck/internal/diag"
	"github.com/specialistvlad/dpcheck/internal/graph"
)

// checkReferences reports each input identifier that does not resolve to a
// node, once per referencing node.
func checkReferences(g *graph.Graph) diag.List {
	var out diag.List
	for _, n := range g.Nodes() {
		seen := make(map[string]bool)
		for _, in := range n.Inputs {
			if g.Has(in.Node) || seen[in.Node] {
				continue
			}
			seen[in.Node] = true
			out = append(out, diag.UnknownReference(n.ID, in.Node))
		}
	}
	return out
}
