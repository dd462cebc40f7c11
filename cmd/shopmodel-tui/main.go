package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/shopmodel/internal/breakeven"
	"github.com/rgehrsitz/shopmodel/internal/calculation"
	"github.com/rgehrsitz/shopmodel/internal/config"
	"github.com/rgehrsitz/shopmodel/internal/logging"
	"github.com/rgehrsitz/shopmodel/internal/tui"
	"github.com/shopspring/decimal"
)

func newRootCmd() *cobra.Command {
	var (
		configFile string
		preset     string
		exportDir  string
		logFile    string
	)

	cmd := &cobra.Command{
		Use:          "shopmodel-tui",
		Short:        "Interactive running shop model",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings(configFile)
			if err != nil {
				return err
			}
			if preset == "" {
				preset = settings.DefaultPreset
			}
			if exportDir == "" {
				exportDir = settings.OutputDir
			}

			// The alternate screen owns the terminal, so logs go to a file or nowhere.
			// An unusable log file is reported and the TUI runs without logs.
			logger := zap.NewNop()
			if logFile != "" {
				opts := settings.Logging.Options()
				opts.OutputFile = logFile
				logger = logging.Must(opts)
			}
			defer func() { _ = logger.Sync() }()

			engine := calculation.NewEngine()
			engine.SetLogger(logger.Sugar())
			solver := breakeven.NewSolver(engine, breakeven.SolverOptions{
				Tolerance:     decimal.NewFromFloat(settings.Solver.Tolerance),
				MaxIterations: settings.Solver.MaxIterations,
			})

			model, err := tui.NewModel(tui.Options{
				Engine:    engine,
				Solver:    solver,
				Preset:    preset,
				ExportDir: exportDir,
			})
			if err != nil {
				return err
			}

			p := tea.NewProgram(
				model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			logger.Info("starting TUI", zap.String("preset", preset), zap.String("export_dir", exportDir))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Settings file")
	cmd.Flags().StringVarP(&preset, "preset", "p", "", "Preset to start from (default from settings)")
	cmd.Flags().StringVarP(&exportDir, "out", "o", "", "Directory for CSV exports (default from settings)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
