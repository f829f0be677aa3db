// Package diag defines the rejection taxonomy produced while validating an
// analysis. Every rejection is a Diagnostic value with a stable Code; a
// sequence of them is a List, which itself implements error.
package diag

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/dpcheck/internal/analysis"
)

// Code identifies the kind of defect a Diagnostic describes.
type Code string

const (
	// CodeDeserialization indicates the input bytes did not decode into an analysis.
	CodeDeserialization Code = "deserialization-error"
	// CodeMalformedAnalysis indicates a decoded analysis is missing required fields.
	CodeMalformedAnalysis Code = "malformed-analysis"
	// CodeUnknownReference indicates an input references a node that does not exist.
	CodeUnknownReference Code = "unknown-reference"
	// CodeCycleDetected indicates the dependency relation is not acyclic.
	CodeCycleDetected Code = "cycle-detected"
	// CodeTypeMismatch indicates a producer shape is incompatible with the consumer's expectation.
	CodeTypeMismatch Code = "type-mismatch"
	// CodeUnprotectedRelease indicates a released value is not guarded by a mechanism.
	CodeUnprotectedRelease Code = "unprotected-release"
	// CodeInvalidParameters indicates mechanism calibration parameters are out of range.
	CodeInvalidParameters Code = "invalid-parameters"
	// CodeUnboundedCost indicates a mechanism's privacy cost is not finite.
	CodeUnboundedCost Code = "unbounded-cost"
	// CodeBudgetExceeded indicates the composed cost exceeds the declared budget.
	CodeBudgetExceeded Code = "budget-exceeded"
)

// Diagnostic describes one reason an analysis is rejected.
type Diagnostic struct {
	Code     Code            `json:"code" yaml:"code"`
	Message  string          `json:"message" yaml:"message"`
	Node     string          `json:"node,omitempty" yaml:"node,omitempty"`
	Related  string          `json:"related,omitempty" yaml:"related,omitempty"`
	Path     []string        `json:"path,omitempty" yaml:"path,omitempty"`
	Expected string          `json:"expected,omitempty" yaml:"expected,omitempty"`
	Actual   string          `json:"actual,omitempty" yaml:"actual,omitempty"`
	Consumed *analysis.Usage `json:"consumed,omitempty" yaml:"consumed,omitempty"`
	Allowed  *analysis.Usage `json:"allowed,omitempty" yaml:"allowed,omitempty"`

	cause error
}

// Error formats the diagnostic as "[code] message".
func (d *Diagnostic) Error() string {
	if d == nil {
		return "diagnostic <nil>"
	}
	return fmt.Sprintf("[%s] %s", d.Code, d.Message)
}

// Unwrap returns the error the diagnostic was derived from, if any.
func (d *Diagnostic) Unwrap() error {
	return d.cause
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// Error returns a compact summary of the diagnostics.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no diagnostics"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", l[0].Error(), len(l)-1)
	}
}

// Err returns l as an error, or nil when l is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Has reports whether any diagnostic in l carries code.
func (l List) Has(code Code) bool {
	for i := range l {
		if l[i].Code == code {
			return true
		}
	}
	return false
}

// ByCode returns the diagnostics in l that carry code, in order.
func (l List) ByCode(code Code) List {
	var out List
	for _, d := range l {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Codes returns the code of every diagnostic in l, in order.
func (l List) Codes() []Code {
	codes := make([]Code, len(l))
	for i, d := range l {
		codes[i] = d.Code
	}
	return codes
}

// AsList extracts the diagnostics carried by err. A *Diagnostic becomes a
// one-element List; any other non-nil error becomes nil and false.
func AsList(err error) (List, bool) {
	var list List
	if errors.As(err, &list) {
		return list, true
	}
	var d *Diagnostic
	if errors.As(err, &d) {
		return List{*d}, true
	}
	return nil, false
}
