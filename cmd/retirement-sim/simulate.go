package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/buckalew/retirement-sim/internal/calculation"
	"github.com/buckalew/retirement-sim/internal/config"
	"github.com/buckalew/retirement-sim/internal/output"
)

var (
	simFormat    string
	simOutputDir string
	simHistory   string
	simRuns      int
	simSeed      int64
	simRetain    bool
	simTimeout   time.Duration
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [scenario-file]",
	Short: "Run Monte Carlo simulations for every scenario in a file",
	Long: `Run Monte Carlo simulations for every scenario in a YAML or JSON file.

Scenarios run concurrently under the file's simulation settings. Interrupting
the command (Ctrl-C) or reaching --timeout stops after the batch in flight and
reports the partial results.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		parser := config.NewInputParser()
		parser.Defaults = settings.Simulation.RunConfig()

		file, err := parser.LoadFromFile(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("runs") {
			file.Simulation.SimulationRuns = simRuns
		}
		if cmd.Flags().Changed("seed") {
			file.Simulation.Seed = simSeed
		}
		if simRetain {
			file.Simulation.RetainPaths = true
		}

		history, err := file.ApplyHistory(simHistory, filepath.Dir(path))
		if err != nil {
			return err
		}
		if history != nil {
			for _, issue := range history.ValidateDataQuality() {
				logger.Warn("history data quality: "+issue, zap.String("op", "simulate"), zap.String("source", history.Source))
			}
			cal := history.Calibration()
			logger.Info("calibrated return model from history",
				zap.String("op", "simulate"),
				zap.String("source", history.Source),
				zap.Float64("expected_return", cal.ExpectedReturn),
				zap.Float64("volatility", cal.Volatility),
				zap.Int("years", cal.Years))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if simTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, simTimeout)
			defer cancel()
		}

		monitor := calculation.NewPerformanceMonitor()
		runner := calculation.NewRunner(calculation.NewMonteCarloSimulator(calculation.NewZapLogger(logger), monitor))

		logger.Info("running scenarios",
			zap.String("op", "simulate"),
			zap.Int("scenarios", len(file.Scenarios)),
			zap.Int("runs", file.Simulation.SimulationRuns),
			zap.Int("batch_size", file.Simulation.EffectiveBatchSize()))

		runs, err := runner.RunScenarios(ctx, file.NamedInputs(), file.Simulation, func(name string, snap calculation.ProgressSnapshot) {
			logger.Debug("progress",
				zap.String("op", "simulate"),
				zap.String("scenario", name),
				zap.Int("batch", snap.BatchesCompleted),
				zap.Int("of", snap.TotalBatches),
				zap.Float64("success_rate", snap.Aggregate.SuccessRate))
		})
		if err != nil {
			return err
		}

		scenarios := make([]output.ScenarioReport, len(runs))
		for i, run := range runs {
			scenarios[i] = output.ScenarioReport{Name: run.Name, Input: run.Input, Config: file.Simulation, Result: run.Result}
			if run.Result.Status == calculation.StatusCancelled {
				logger.Warn("scenario stopped early",
					zap.String("op", "simulate"),
					zap.String("scenario", run.Name),
					zap.Int("completed_runs", run.Result.Output.CompletedRuns))
			}
		}
		report := output.NewReport(time.Now(), scenarios...)

		summary := monitor.Summary()
		logger.Info("simulation finished",
			zap.String("op", "simulate"),
			zap.Int("paths", summary.Paths),
			zap.Float64("paths_per_second", summary.PathsPerSecond))

		if output.NormalizeFormatName(simFormat) == "console" && simOutputDir == "" {
			f, err := output.LookupFormatter(simFormat)
			if err != nil {
				return err
			}
			data, err := f.Format(report)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		}

		written, err := output.GenerateReport(report, simFormat, simOutputDir)
		if err != nil {
			return err
		}
		fmt.Println(written)
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringVarP(&simFormat, "format", "f", "console", fmt.Sprintf("output format %v", output.AvailableFormatterNames()))
	simulateCmd.Flags().StringVarP(&simOutputDir, "output-dir", "o", "", "directory for report files (default: current directory)")
	simulateCmd.Flags().StringVar(&simHistory, "history", "", "CSV of historical returns used to calibrate every scenario")
	simulateCmd.Flags().IntVar(&simRuns, "runs", 0, "override the number of simulation runs")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "override the random seed")
	simulateCmd.Flags().BoolVar(&simRetain, "retain-paths", false, "keep every path's yearly balances (needed for yearly CSV detail)")
	simulateCmd.Flags().DurationVar(&simTimeout, "timeout", 0, "stop after this long and report partial results")
}
