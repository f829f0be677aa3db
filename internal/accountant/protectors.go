package accountant

import (
	"math"
	"slices"

	"github.com/specialistvlad/dpcheck/internal/analysis"
	"github.com/specialistvlad/dpcheck/internal/graph"
)

type protector struct {
	id       string
	protects []string
}

// findProtectors returns the closest mechanism on every path above each
// released node, deduplicated in first-discovery order.
func findProtectors(g *graph.Graph) []protector {
	var (
		out   []protector
		index = make(map[string]int)
	)
	record := func(mech, release string) {
		i, ok := index[mech]
		if !ok {
			i = len(out)
			index[mech] = i
			out = append(out, protector{id: mech})
		}
		if !slices.Contains(out[i].protects, release) {
			out[i].protects = append(out[i].protects, release)
		}
	}

	for _, r := range g.Nodes() {
		if !r.Release {
			continue
		}
		visited := make(map[string]bool)
		var walk func(id string)
		walk = func(id string) {
			if visited[id] {
				return
			}
			visited[id] = true
			n, ok := g.Node(id)
			if !ok {
				return
			}
			if n.Kind == analysis.KindMechanism {
				record(id, r.ID)
				return
			}
			for _, dep := range n.InputIDs() {
				walk(dep)
			}
		}
		walk(r.ID)
	}
	return out
}

// amplifier memoizes the largest stability product on any path from a
// datasource to a node.
type amplifier struct {
	g    *graph.Graph
	memo map[string]float64
}

func newAmplifier(g *graph.Graph) *amplifier {
	return &amplifier{g: g, memo: make(map[string]float64)}
}

// stability returns the amplification applied to mechanism id's cost. It is
// 1 when no stable transform lies between the mechanism and private data.
func (a *amplifier) stability(id string) float64 {
	best := 0.0
	for _, dep := range a.g.Dependencies(id) {
		best = math.Max(best, a.chain(dep))
	}
	if best < 1 {
		return 1
	}
	return best
}

// chain returns the stability product of the worst path from a datasource to
// id, or 0 when no datasource is reachable.
func (a *amplifier) chain(id string) float64 {
	if v, ok := a.memo[id]; ok {
		return v
	}
	// Guards re-entry on cyclic input.
	a.memo[id] = 0

	n, ok := a.g.Node(id)
	if !ok {
		return 0
	}

	var v float64
	switch n.Kind {
	case analysis.KindDatasource:
		v = 1
	case analysis.KindTransform, analysis.KindAggregator:
		for _, dep := range n.InputIDs() {
			v = math.Max(v, a.chain(dep))
		}
		v *= n.StabilityFactor()
	case analysis.KindMechanism:
		// Noised output carries no further amplification.
		v = 0
	default:
		v = 0
	}
	a.memo[id] = v
	return v
}

// ancestry returns the sorted dataset/column keys of every datasource id
// transitively depends on.
func ancestry(g *graph.Graph, id string) []string {
	seen := make(map[string]bool)
	keys := make(map[string]bool)
	var walk func(string)
	walk = func(cur string) {
		if seen[cur] {
			return
		}
		seen[cur] = true
		n, ok := g.Node(cur)
		if !ok {
			return
		}
		if n.Kind == analysis.KindDatasource && n.Source != nil {
			keys[n.Source.Key()] = true
		}
		for _, dep := range n.InputIDs() {
			walk(dep)
		}
	}
	walk(id)

	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// groupPrivacy applies the group privacy rule for factor k.
func groupPrivacy(u analysis.Usage, k float64) analysis.Usage {
	if k == 1 {
		return u
	}
	return analysis.Usage{
		Epsilon: k * u.Epsilon,
		Delta:   k * math.Exp((k-1)*u.Epsilon) * u.Delta,
	}
}
