package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/tire-pressure-alarm/internal/config"
	"github.com/oshokin/tire-pressure-alarm/internal/service/monitor"
	"github.com/oshokin/tire-pressure-alarm/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// readings are replayed by a scripted sensor instead of random sampling.
	readings []float64
	// seed makes the random sensor reproducible.
	seed uint64
	// maxChecks stops monitoring after that many checks.
	maxChecks int
	// logLevel overrides the configured log level.
	logLevel string

	// rootCmd represents the base command for monitoring tire pressure.
	rootCmd = &cobra.Command{
		Use:   "tpms-monitor",
		Short: "Monitor tire pressure and raise a latched alarm.",
		Long: `Polls a pressure sensor and raises an alarm when a reading leaves the safe range.

The safe range is 17.0 to 21.0 PSI inclusive. Once the alarm is on it stays on
until the process exits, even if later readings are back in range.

By default readings come from a pseudo-random sensor producing values between
16.0 and 22.0 PSI. Pass --readings to replay a fixed sequence instead; the
monitor stops right after the last reading of the sequence.

Run "tpms-monitor config init" to write the default settings file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &monitor.Options{
				ConfigPath: configPath,
				Readings:   readings,
				MaxChecks:  maxChecks,
				LogLevel:   logLevel,
			}

			if cmd.Flags().Changed("seed") {
				options.Seed = &seed
			}

			return monitor.Run(ctx, options)
		},
	}
)

// Execute runs the tpms-monitor CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	config.AttachCobraConfigCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to configuration file (defaults are used when empty)")
	rootCmd.Flags().Float64SliceVarP(&readings, "readings", "r", nil, "replay these PSI readings instead of random ones")
	rootCmd.Flags().Uint64Var(&seed, "seed", 0, "seed for the random sensor")
	rootCmd.Flags().IntVarP(&maxChecks, "max-checks", "n", 0, "stop after this many checks (0 means the configured value)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}
