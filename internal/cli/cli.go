package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/specialistvlad/dpcheck/internal/analysis"
	"github.com/specialistvlad/dpcheck/internal/app"
	"github.com/spf13/cobra"
)

// Exit codes returned through ExitError.
const (
	ExitRejected = 1
	ExitUsage    = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

var errRejected = &ExitError{Code: ExitRejected, Message: "one or more analyses were rejected"}

// NewRootCommand returns the dpcheck command tree. Command output goes to
// outW, logs and errors go to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	cfg := app.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "dpcheck",
		Short: "Validate differential privacy analyses before they run",
		Long: `dpcheck checks that an analysis graph is well formed and that the
privacy budget its released mechanisms consume stays within the declared
budget. Inputs are HCL files, wire-encoded analyses (.pb) or snappy
compressed wire encodings (.sz).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(outW)
	rootCmd.SetErr(errW)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Logging level: debug, info, warn or error.")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log output format: text or json.")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Verdict format: text, json or yaml.")
	flags.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of analyses validated concurrently.")
	flags.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this file.")

	newApp := func() (*app.App, error) {
		validated, err := app.NewConfig(cfg)
		if err != nil {
			return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
		}
		a, err := app.NewApp(outW, errW, validated)
		if err != nil {
			return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
		}
		return a, nil
	}

	validateCmd := &cobra.Command{
		Use:   "validate PATH...",
		Short: "Validate analyses and print a verdict for each",
		Args:  requireArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return verdictError(a.Validate(cmd.Context(), args))
		},
	}

	usageCmd := &cobra.Command{
		Use:   "usage PATH...",
		Short: "Print the privacy budget each analysis consumes",
		Args:  requireArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return verdictError(a.Usage(cmd.Context(), args))
		},
	}

	encodeCmd := &cobra.Command{
		Use:   "encode IN.hcl OUT",
		Short: "Encode an HCL analysis into its wire form",
		Long:  "Encode an HCL analysis into its wire form. OUT is snappy compressed when it ends in .sz.",
		Args:  requireArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.Encode(cmd.Context(), args[0], args[1])
		},
	}

	var alpha float64
	accuracyCmd := &cobra.Command{
		Use:   "accuracy PATH...",
		Short: "Print the noise accuracy of each accounted mechanism",
		Long: `Print the noise accuracy of each accounted mechanism: the bound the
mechanism's noise stays within with probability 1-alpha.`,
		Args: requireArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if alpha <= 0 || alpha >= 1 {
				return &ExitError{Code: ExitUsage, Message: "alpha must lie strictly between 0 and 1"}
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			return verdictError(a.Accuracy(cmd.Context(), args, alpha))
		},
	}
	accuracyCmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Probability that the noise exceeds the reported accuracy.")

	var (
		family   string
		target   float64
		calAlpha float64
		mech     analysis.Mechanism
	)
	calibrateCmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Print the scale and privacy cost that reach a target accuracy",
		Args:  requireArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := analysis.ParseFamily(family)
			if err != nil {
				return &ExitError{Code: ExitUsage, Message: err.Error()}
			}
			mech.Family = f
			a, err := newApp()
			if err != nil {
				return err
			}
			return calibrationError(a.Calibrate(cmd.Context(), mech, target, calAlpha))
		},
	}
	calFlags := calibrateCmd.Flags()
	calFlags.StringVar(&family, "family", "laplace", "Mechanism family: laplace, gaussian, geometric or exponential.")
	calFlags.Float64Var(&mech.Sensitivity, "sensitivity", 1, "Sensitivity of the query the mechanism releases.")
	calFlags.Float64Var(&target, "accuracy", 0, "Target accuracy.")
	calFlags.Float64Var(&calAlpha, "alpha", 0.05, "Probability that the noise exceeds the accuracy.")
	calFlags.Float64Var(&mech.Delta, "delta", 0, "Failure probability for the gaussian family.")
	_ = calibrateCmd.MarkFlagRequired("accuracy")

	rootCmd.AddCommand(validateCmd, usageCmd, encodeCmd, accuracyCmd, calibrateCmd)
	return rootCmd
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, cmd *cobra.Command, args []string) error {
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) && isUsageError(err) {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return err
}

func isUsageError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "required flag")
}

func requireArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &ExitError{Code: ExitUsage, Message: err.Error()}
		}
		return nil
	}
}

func verdictError(accepted bool, err error) error {
	if errors.Is(err, app.ErrInput) {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	if err != nil {
		return err
	}
	if !accepted {
		return errRejected
	}
	return nil
}

func calibrationError(err error) error {
	if errors.Is(err, analysis.ErrInvalidParameters) || errors.Is(err, analysis.ErrNoAccuracyBound) {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return err
}
