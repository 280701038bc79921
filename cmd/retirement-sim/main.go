package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/buckalew/retirement-sim/internal/config"
)

var (
	settingsFile string
	logLevel     string

	settings *config.Settings
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "retirement-sim",
	Short: "Monte Carlo retirement simulator and savings calculators",
	Long: `retirement-sim projects retirement savings under uncertain market returns.

It runs Monte Carlo simulations over one or more scenarios, reports percentile
bands and success rates, and exposes deterministic compound growth, retirement
projection and mortgage calculators. The same engine can be served over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.LoadSettings(settingsFile)
		if err != nil {
			return err
		}
		l, err := config.BuildLogger(s.Logging, logLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		settings = s
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsFile, "config", "", "settings file (YAML, JSON or TOML); RSIM_* environment variables override it")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(simulateCmd, compoundCmd, retirementCmd, mortgageCmd, calibrateCmd, serveCmd, exampleCmd, formatsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
