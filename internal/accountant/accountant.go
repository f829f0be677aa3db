package accountant

import (
	"context"

	"github.com/specialistvlad/dpcheck/internal/analysis"
	"github.com/specialistvlad/dpcheck/internal/ctxlog"
	"github.com/specialistvlad/dpcheck/internal/diag"
	"github.com/specialistvlad/dpcheck/internal/graph"
)

// MechanismUsage is the accounted cost of one protecting mechanism.
type MechanismUsage struct {
	Node      string         `json:"node" yaml:"node"`
	Family    string         `json:"family" yaml:"family"`
	Scale     float64        `json:"scale" yaml:"scale"`
	Base      analysis.Usage `json:"base" yaml:"base"`
	Stability float64        `json:"stability" yaml:"stability"`
	Usage     analysis.Usage `json:"usage" yaml:"usage"`
	Ancestry  []string       `json:"ancestry,omitempty" yaml:"ancestry,omitempty"`
	Protects  []string       `json:"protects" yaml:"protects"`
}

// Accuracy returns the noise accuracy of the mechanism at alpha. It depends
// on the noise scale only, not on stability or group size.
func (m MechanismUsage) Accuracy(alpha float64) (float64, error) {
	family, err := analysis.ParseFamily(m.Family)
	if err != nil {
		return 0, err
	}
	return analysis.Mechanism{Family: family, Scale: m.Scale}.Accuracy(alpha)
}

// Result is the outcome of a completed accounting pass.
type Result struct {
	// Usage is the composed cost of the analysis.
	Usage analysis.Usage `json:"usage" yaml:"usage"`
	// Budget is the declared privacy budget.
	Budget analysis.Usage `json:"budget" yaml:"budget"`
	// Mechanisms lists protectors in discovery order.
	Mechanisms []MechanismUsage `json:"mechanisms,omitempty" yaml:"mechanisms,omitempty"`
	// Groups lists the protectors of each sequential-composition group.
	Groups [][]string `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Exceeded reports whether either component of the composed usage is
// strictly above the budget.
func (r *Result) Exceeded() bool {
	return r.Usage.Epsilon > r.Budget.Epsilon || r.Usage.Delta > r.Budget.Delta
}

// Account computes the privacy usage of g, which must have passed structural
// validation. The result is nil when a mechanism has invalid parameters or
// an unbounded cost; otherwise it is always returned, together with a
// BudgetExceeded diagnostic when the budget is overspent.
func Account(ctx context.Context, g *graph.Graph) (*Result, diag.List) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Account: Starting privacy accounting.")

	privacy := g.Privacy()
	protectors := findProtectors(g)
	logger.Debug("Account: Protector discovery complete.", "protectors", len(protectors))

	amp := newAmplifier(g)
	usages := make([]MechanismUsage, 0, len(protectors))
	for _, p := range protectors {
		n, _ := g.Node(p.id)
		base, err := n.Mechanism.PrivacyCost()
		if err != nil {
			logger.Debug("Account: Invalid mechanism parameters.", "node", p.id, "error", err)
			return nil, diag.List{diag.InvalidParameters(p.id, err)}
		}

		stability := amp.stability(p.id)
		usage := groupPrivacy(groupPrivacy(base, stability), float64(privacy.GroupSize))
		if !usage.Finite() {
			logger.Debug("Account: Unbounded mechanism cost.", "node", p.id, "usage", usage.String())
			return nil, diag.List{diag.UnboundedCost(p.id, usage)}
		}

		usages = append(usages, MechanismUsage{
			Node:      p.id,
			Family:    n.Mechanism.Family.String(),
			Scale:     n.Mechanism.Scale,
			Base:      base,
			Stability: stability,
			Usage:     usage,
			Ancestry:  ancestry(g, p.id),
			Protects:  p.protects,
		})
	}
	logger.Debug("Account: Mechanism costs computed.")

	res := &Result{
		Budget:     privacy.Budget(),
		Mechanisms: usages,
	}
	res.Usage, res.Groups = compose(usages)
	if !res.Usage.Finite() {
		return nil, diag.List{diag.UnboundedCost("", res.Usage)}
	}
	logger.Debug("Account: Composition complete.", "groups", len(res.Groups), "usage", res.Usage.String())

	if res.Exceeded() {
		return res, diag.List{diag.BudgetExceeded(res.Usage, res.Budget)}
	}
	return res, nil
}
