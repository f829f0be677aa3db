package analysis

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance.
var validate = validator.New()

// ValidateNode checks the structural completeness of a single node: a known
// kind, an identifier, and the kind-specific payload.
func ValidateNode(n *Node) error {
	if n == nil {
		return errors.New("node is nil")
	}
	if err := validate.Struct(n); err != nil {
		return formatValidationError(err)
	}
	if n.Kind != KindDatasource && n.Source != nil {
		return fmt.Errorf("Source: only datasources may declare a source, node is a %s", n.Kind)
	}
	if n.Kind != KindMechanism && n.Mechanism != nil {
		return fmt.Errorf("Mechanism: only mechanisms may declare parameters, node is a %s", n.Kind)
	}
	if n.Kind == KindDatasource && len(n.Inputs) > 0 {
		return fmt.Errorf("Inputs: a datasource has no inputs, got %d", len(n.Inputs))
	}
	if math.IsNaN(n.Stability) || math.IsInf(n.Stability, 0) {
		return fmt.Errorf("Stability: must be finite, got %g", n.Stability)
	}
	return nil
}

// ValidatePrivacy checks that p states a meaningful budget.
func ValidatePrivacy(p *PrivacyDefinition) error {
	if p == nil {
		return errors.New("privacy definition is missing")
	}
	if err := validate.Struct(p); err != nil {
		return formatValidationError(err)
	}
	if math.IsInf(p.Epsilon, 0) {
		return errors.New("Epsilon: must be finite")
	}
	return nil
}

// formatValidationError converts validator errors into a readable message.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := fe.StructNamespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required", "required_if":
			messages = append(messages, fmt.Sprintf("%s: is required", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s: must be one of [%s], got %v", field, fe.Param(), fe.Value()))
		default:
			messages = append(messages, fmt.Sprintf("%s: failed '%s=%s' constraint, got %v", field, fe.Tag(), fe.Param(), fe.Value()))
		}
	}
	return errors.New(strings.Join(messages, "; "))
}
