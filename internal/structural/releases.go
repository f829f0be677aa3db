package structural

import (
	"github.com/specialistvlad/dpcheck/internal/analysis"
	"github.com/specialistvlad/dpcheck/internal/diag"
	"github.com/specialistvlad/dpcheck/internal/graph"
)

// checkReleases reports, in insertion order, released nodes that can observe
// private data without noise and released nodes with no mechanism on
// themselves or any ancestor.
func checkReleases(g *graph.Graph) diag.List {
	exposed := exposedNodes(g)
	guarded := newGuardFinder(g)

	var out diag.List
	for _, n := range g.Nodes() {
		if !n.Release {
			continue
		}
		if exposed[n.ID] || !guarded.hasMechanism(n.ID) {
			out = append(out, diag.UnprotectedRelease(n.ID))
		}
	}
	return out
}

// guardFinder memoizes whether a node or any of its ancestors is a mechanism.
type guardFinder struct {
	g    *graph.Graph
	memo map[string]bool
}

func newGuardFinder(g *graph.Graph) *guardFinder {
	return &guardFinder{g: g, memo: make(map[string]bool)}
}

func (f *guardFinder) hasMechanism(id string) bool {
	if v, ok := f.memo[id]; ok {
		return v
	}
	// Guards re-entry on cyclic input.
	f.memo[id] = false

	n, ok := f.g.Node(id)
	if !ok {
		return false
	}
	found := n.Kind == analysis.KindMechanism
	for _, dep := range n.InputIDs() {
		if found {
			break
		}
		found = f.hasMechanism(dep)
	}
	f.memo[id] = found
	return found
}

// exposedNodes returns the nodes reachable from a datasource along a path that
// contains no mechanism. Mechanisms stop propagation and are never exposed.
// The search follows dependents forward, so cycles and dangling references
// cannot affect the result.
func exposedNodes(g *graph.Graph) map[string]bool {
	exposed := make(map[string]bool)
	var queue []string
	for _, n := range g.Nodes() {
		if n.Kind == analysis.KindDatasource {
			exposed[n.ID] = true
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range g.Dependents(id) {
			if exposed[next] {
				continue
			}
			n, ok := g.Node(next)
			if !ok || n.Kind == analysis.KindMechanism {
				continue
			}
			exposed[next] = true
			queue = append(queue, next)
		}
	}
	return exposed
}
