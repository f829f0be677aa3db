package wire

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// DefaultSchemaVersion is assumed when an analysis does not declare one.
const DefaultSchemaVersion = "1.0.0"

// SupportedSchemas is the range of schema versions Decode accepts.
const SupportedSchemas = ">= 1.0.0, < 2.0.0"

var supported = mustConstraint(SupportedSchemas)

func mustConstraint(raw string) *semver.Constraints {
	c, err := semver.NewConstraint(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// CheckSchemaVersion returns an error when raw is not a semantic version in
// the supported range. An empty string is read as DefaultSchemaVersion.
func CheckSchemaVersion(raw string) error {
	if raw == "" {
		raw = DefaultSchemaVersion
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("schema version %q: %w", raw, err)
	}
	if !supported.Check(v) {
		return fmt.Errorf("schema version %s is not supported (want %s)", v, SupportedSchemas)
	}
	return nil
}
