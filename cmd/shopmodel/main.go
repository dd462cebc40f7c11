package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/shopmodel/internal/breakeven"
	"github.com/rgehrsitz/shopmodel/internal/calculation"
	"github.com/rgehrsitz/shopmodel/internal/config"
	"github.com/rgehrsitz/shopmodel/internal/logging"
	"github.com/shopspring/decimal"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what every subcommand needs once the persistent flags have
// been read.
type app struct {
	configFile string
	logLevel   string
	logFormat  string
	debug      bool

	settings *config.Settings
	logger   *zap.Logger
}

// setup loads settings and builds the logger. Flags win over settings.
func (a *app) setup(cmd *cobra.Command) error {
	settings, err := config.LoadSettings(a.configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		settings.Logging.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		settings.Logging.Format = a.logFormat
	}
	if a.debug {
		settings.Logging.Level = "debug"
	}

	logger, err := logging.New(settings.Logging.Options())
	if err != nil {
		return err
	}
	a.settings = settings
	a.logger = logger
	logger.Debug("settings loaded",
		zap.String("default_preset", settings.DefaultPreset),
		zap.String("output_format", settings.OutputFormat))
	return nil
}

func (a *app) engine() *calculation.Engine {
	engine := calculation.NewEngine()
	engine.SetLogger(a.logger.Sugar())
	return engine
}

func (a *app) solver(engine *calculation.Engine) *breakeven.Solver {
	return breakeven.NewSolver(engine, breakeven.SolverOptions{
		Tolerance:     decimal.NewFromFloat(a.settings.Solver.Tolerance),
		MaxIterations: a.settings.Solver.MaxIterations,
	})
}

func (a *app) sync() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "shopmodel",
		Short: "Running shop financial model CLI",
		Long: "Annual turnover, gross profit, operating profit, breakeven sales and " +
			"seasonality for an independent running shop, from a preset and overrides",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.sync()
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Settings file (default: ./shopmodel.yaml or ~/.config/shopmodel/shopmodel.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "Log format (console, json)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		calculateCmd(a),
		validateCmd(a),
		exportCmd(a),
		presetsCmd(a),
		fieldsCmd(a),
		breakEvenCmd(a),
		serveCmd(a),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Skip settings and logger setup.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shopmodel %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
