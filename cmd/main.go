package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"propertytax/internal/assessment"
	"propertytax/internal/config"
	"propertytax/internal/logging"
	"propertytax/internal/pin"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

// usageError marks errors caused by how the command was invoked.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// usageArgs wraps a positional argument validator so its failures exit 2.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

var rootCmd = &cobra.Command{
	Use:   "propertytax",
	Short: "Property tax estimates from assessment and neighborhood rate data",
	Long: `propertytax looks up properties by 14-digit PIN, selects the assessment
value to use (Board of Review, Certified or Mailed), resolves the most recent
neighborhood tax rate and estimates the annual tax bill.

Estimates are reported with every data-quality warning that applies, and can
be exported as a job packet (CSV or JSON) or emailed as an HTML report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		// The default file is optional; an explicit --config must exist.
		cfg, err = config.Load(configPath, !cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level, cfg.Logging.JSON)
		if err != nil {
			return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFile, "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(pinsCmd)
	rootCmd.AddCommand(dbCmd)
}

// exitCode maps an error to the process exit status: 2 for invocation and
// configuration problems, 1 for everything else.
func exitCode(err error) int {
	var ue *usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, assessment.ErrInvalidArgument),
		errors.Is(err, pin.ErrInvalidPIN):
		return 2
	}
	return 1
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// commandContext returns the command's context, which is nil when a command
// function is called directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
