package validator

import (
	"github.com/specialistvlad/dpcheck/internal/accountant"
	"github.com/specialistvlad/dpcheck/internal/analysis"
	"github.com/specialistvlad/dpcheck/internal/diag"
)

// Verdict is the outcome of validating one analysis.
type Verdict struct {
	Accepted    bool      `json:"accepted" yaml:"accepted"`
	Diagnostics diag.List `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	// Usage is the composed privacy cost. It is set whenever accounting
	// completed, including when the budget was exceeded.
	Usage *analysis.Usage `json:"usage,omitempty" yaml:"usage,omitempty"`
	// Budget is the declared privacy budget, set once the graph was built.
	Budget *analysis.Usage `json:"budget,omitempty" yaml:"budget,omitempty"`
	// Neighboring and GroupSize restate the privacy definition the budget
	// is stated under. Mechanism sensitivities are claimed by the analysis,
	// so neither is used to derive them.
	Neighboring string                      `json:"neighboring,omitempty" yaml:"neighboring,omitempty"`
	GroupSize   uint32                      `json:"group_size,omitempty" yaml:"group_size,omitempty"`
	Mechanisms  []accountant.MechanismUsage `json:"mechanisms,omitempty" yaml:"mechanisms,omitempty"`
	Groups      [][]string                  `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Err returns the verdict's diagnostics as an error, or nil when accepted.
func (v *Verdict) Err() error {
	return v.Diagnostics.Err()
}

func (v *Verdict) setPrivacy(p analysis.PrivacyDefinition) {
	budget := p.Budget()
	v.Budget = &budget
	v.Neighboring = p.Neighboring.String()
	v.GroupSize = p.GroupSize
}

func reject(diags diag.List) *Verdict {
	return &Verdict{Diagnostics: diags}
}
