package graph

import (
	"github.com/specialistvlad/dpcheck/internal/analysis"
	"github.com/specialistvlad/dpcheck/internal/diag"
)

// Graph is an indexed, read-only view of an analysis.
type Graph struct {
	nodes      []*analysis.Node
	index      map[string]int
	dependents map[string][]string
	privacy    analysis.PrivacyDefinition
}

// New indexes a. It fails with a diag.List of MalformedAnalysis diagnostics
// when a cannot be indexed.
func New(a *analysis.Analysis) (*Graph, error) {
	if a == nil {
		return nil, diag.List{diag.MalformedAnalysis("", "analysis is nil")}
	}

	var (
		problems diag.List
		privacy  analysis.PrivacyDefinition
	)
	if a.Privacy == nil {
		problems = append(problems, diag.MalformedAnalysis("", "privacy definition is missing"))
	} else {
		privacy = *a.Privacy
		if privacy.GroupSize == 0 {
			privacy.GroupSize = 1
		}
		if err := analysis.ValidatePrivacy(&privacy); err != nil {
			problems = append(problems, diag.MalformedAnalysis("", "invalid privacy definition: %v", err))
		}
	}

	g := &Graph{
		nodes:      make([]*analysis.Node, 0, len(a.Nodes)),
		index:      make(map[string]int, len(a.Nodes)),
		dependents: make(map[string][]string),
	}

	// First pass: index nodes.
	for i, n := range a.Nodes {
		if n == nil {
			problems = append(problems, diag.MalformedAnalysis("", "node at position %d is nil", i))
			continue
		}
		if n.ID == "" {
			problems = append(problems, diag.MalformedAnalysis("", "node at position %d has an empty identifier", i))
			continue
		}
		if _, exists := g.index[n.ID]; exists {
			problems = append(problems, diag.MalformedAnalysis(n.ID, "duplicate node identifier %q", n.ID))
			continue
		}
		if err := analysis.ValidateNode(n); err != nil {
			problems = append(problems, diag.MalformedAnalysis(n.ID, "invalid node %q: %v", n.ID, err))
		}
		g.index[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}

	if len(problems) > 0 {
		return nil, problems
	}

	// Second pass: reverse index. References to unknown nodes are kept so
	// the structural validator can report them.
	for _, n := range g.nodes {
		for _, in := range n.Inputs {
			g.dependents[in.Node] = append(g.dependents[in.Node], n.ID)
		}
	}

	g.privacy = privacy
	return g, nil
}

// Nodes returns all nodes in insertion order. The slice is a copy; the nodes
// must not be modified.
func (g *Graph) Nodes() []*analysis.Node {
	out := make([]*analysis.Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Node looks up a node by identifier.
func (g *Graph) Node(id string) (*analysis.Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Has reports whether a node with identifier id exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Dependencies returns the input identifiers of id in declared order,
// including identifiers that do not resolve to a node.
func (g *Graph) Dependencies(id string) []string {
	n, ok := g.Node(id)
	if !ok {
		return nil
	}
	return n.InputIDs()
}

// Dependents returns the identifiers of nodes that take id as an input, in
// insertion order of the consumers. A consumer listing id twice appears twice.
func (g *Graph) Dependents(id string) []string {
	deps := g.dependents[id]
	out := make([]string, len(deps))
	copy(out, deps)
	return out
}

// Privacy returns the analysis' privacy definition with defaults applied.
func (g *Graph) Privacy() analysis.PrivacyDefinition {
	return g.privacy
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}
