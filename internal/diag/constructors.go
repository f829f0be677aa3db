package diag

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/dpcheck/internal/analysis"
)

// Deserialization reports input bytes that could not be decoded.
func Deserialization(err error) Diagnostic {
	return Diagnostic{
		Code:    CodeDeserialization,
		Message: fmt.Sprintf("analysis could not be decoded: %v", err),
		cause:   err,
	}
}

// MalformedAnalysis reports a decoded analysis missing required content.
func MalformedAnalysis(node, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:    CodeMalformedAnalysis,
		Message: fmt.Sprintf(format, args...),
		Node:    node,
	}
}

// UnknownReference reports node referencing missing as an input.
func UnknownReference(node, missing string) Diagnostic {
	return Diagnostic{
		Code:    CodeUnknownReference,
		Message: fmt.Sprintf("node %q references unknown input %q", node, missing),
		Node:    node,
		Related: missing,
	}
}

// CycleDetected reports a dependency cycle. path lists node identifiers in
// dependency order and ends with its first element.
func CycleDetected(path []string) Diagnostic {
	node := ""
	if len(path) > 0 {
		node = path[0]
	}
	return Diagnostic{
		Code:    CodeCycleDetected,
		Message: "dependency cycle: " + strings.Join(path, " -> "),
		Node:    node,
		Path:    append([]string(nil), path...),
	}
}

// TypeMismatch reports a producer whose output shape the consumer cannot accept.
func TypeMismatch(consumer, producer string, expected, actual analysis.Shape) Diagnostic {
	return Diagnostic{
		Code: CodeTypeMismatch,
		Message: fmt.Sprintf("node %q expects %s from input %q, which produces %s",
			consumer, expected, producer, actual),
		Node:     consumer,
		Related:  producer,
		Expected: expected.String(),
		Actual:   actual.String(),
	}
}

// UnprotectedRelease reports a released node that has an un-noised path to
// private data or no mechanism among itself and its ancestors.
func UnprotectedRelease(node string) Diagnostic {
	return Diagnostic{
		Code:    CodeUnprotectedRelease,
		Message: fmt.Sprintf("node %q is released without a mechanism guarding every path to it", node),
		Node:    node,
	}
}

// InvalidParameters reports mechanism parameters that cannot be calibrated.
func InvalidParameters(node string, err error) Diagnostic {
	return Diagnostic{
		Code:    CodeInvalidParameters,
		Message: fmt.Sprintf("mechanism %q has invalid parameters: %v", node, err),
		Node:    node,
		cause:   err,
	}
}

// UnboundedCost reports a mechanism whose privacy cost is not finite. The
// cost only appears in the message since it cannot be encoded as JSON.
func UnboundedCost(node string, cost analysis.Usage) Diagnostic {
	return Diagnostic{
		Code:    CodeUnboundedCost,
		Message: fmt.Sprintf("mechanism %q has unbounded privacy cost %s", node, cost),
		Node:    node,
	}
}

// BudgetExceeded reports a composed cost above the declared budget.
func BudgetExceeded(consumed, allowed analysis.Usage) Diagnostic {
	return Diagnostic{
		Code:     CodeBudgetExceeded,
		Message:  fmt.Sprintf("privacy usage %s exceeds budget %s", consumed, allowed),
		Consumed: &consumed,
		Allowed:  &allowed,
	}
}
