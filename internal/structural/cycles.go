package structural

import (
	"github.com/specialistvlad/dpcheck/internal/diag"
	"github.com/specialistvlad/dpcheck/internal/graph"
)

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// checkCycles walks dependency edges depth first, visiting roots in insertion
// order, and reports one cycle per back edge. The reported path starts at the
// node the back edge returns to, lists each node followed by one of its
// inputs, and repeats the first node at the end.
func checkCycles(g *graph.Graph) diag.List {
	var (
		out    diag.List
		states = make(map[string]visitState, g.Len())
		stack  []string
		onPos  = make(map[string]int, g.Len())
	)

	var visit func(id string)
	visit = func(id string) {
		states[id] = stateVisiting
		onPos[id] = len(stack)
		stack = append(stack, id)

		seen := make(map[string]bool)
		for _, next := range g.Dependencies(id) {
			if !g.Has(next) || seen[next] {
				continue
			}
			seen[next] = true

			switch states[next] {
			case stateVisiting:
				path := make([]string, 0, len(stack)-onPos[next]+1)
				path = append(path, stack[onPos[next]:]...)
				path = append(path, next)
				out = append(out, diag.CycleDetected(path))
			case stateDone:
			default:
				visit(next)
			}
		}

		stack = stack[:len(stack)-1]
		delete(onPos, id)
		states[id] = stateDone
	}

	for _, n := range g.Nodes() {
		if states[n.ID] == 0 {
			visit(n.ID)
		}
	}
	return out
}
