package structural

import (
	"github.com/specialistvlad/dpcheck/internal/diag"
	"github.com/specialistvlad/dpcheck/internal/graph"
)

// checkShapes reports every input position whose producer does not satisfy
// the declared expectation. Positions without an expectation, and positions
// naming unknown producers, are skipped.
func checkShapes(g *graph.Graph) diag.List {
	var out diag.List
	for _, n := range g.Nodes() {
		for _, in := range n.Inputs {
			if in.Expect == nil {
				continue
			}
			producer, ok := g.Node(in.Node)
			if !ok {
				continue
			}
			if !in.Expect.AcceptsFrom(producer.Shape) {
				out = append(out, diag.TypeMismatch(n.ID, producer.ID, *in.Expect, producer.Shape))
			}
		}
	}
	return out
}
