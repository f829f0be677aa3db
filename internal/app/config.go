package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`
	// Output is the verdict rendering format.
	Output string `validate:"oneof=text json yaml"`
	// Workers bounds how many inputs are validated concurrently.
	Workers int `validate:"gte=1,lte=1024"`
	// MetricsFile, when set, receives the Prometheus metrics of the run.
	MetricsFile string
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		LogFormat: "text",
		LogLevel:  "warn",
		Output:    "text",
		Workers:   4,
	}
}

var configValidate = validator.New()

// NewConfig normalises and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Output = strings.ToLower(cfg.Output)

	if err := configValidate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("invalid %s %v: must satisfy %s=%s", fe.Field(), fe.Value(), fe.Tag(), fe.Param()))
		}
		return nil, errors.New(strings.Join(msgs, "; "))
	}
	return &cfg, nil
}
