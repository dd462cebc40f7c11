// Package tui is the interactive terminal dashboard for the shop model.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/shopmodel/internal/breakeven"
	"github.com/rgehrsitz/shopmodel/internal/calculation"
	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/output"
	"github.com/rgehrsitz/shopmodel/internal/tui/scenes"
	"github.com/rgehrsitz/shopmodel/internal/tui/tuimsg"
)

// solveTimeout bounds one break-even sweep.
const solveTimeout = 5 * time.Second

// Options configure a new Model. Zero values pick defaults.
type Options struct {
	Engine    *calculation.Engine
	Solver    *breakeven.Solver
	Preset    string // starting preset; Base when empty
	ExportDir string // where e writes the CSV; current directory when empty
}

// Model represents the entire application state
type Model struct {
	currentScene  Scene
	previousScene Scene

	width  int
	height int

	engine    *calculation.Engine
	solver    *breakeven.Solver
	exportDir string

	// preset is the catalogue entry the assumptions started from.
	preset      string
	assumptions domain.Assumptions
	run         domain.Run
	modified    bool

	dashboardModel  *scenes.DashboardModel
	parametersModel *scenes.ParametersModel
	metricsModel    *scenes.MetricsModel
	presetsModel    *scenes.PresetsModel
	breakevenModel  *scenes.BreakevenModel

	status string
	err    error
}

// NewModel creates a new application model showing the starting preset.
func NewModel(opts Options) (Model, error) {
	engine := opts.Engine
	if engine == nil {
		engine = calculation.NewEngine()
	}
	solver := opts.Solver
	if solver == nil {
		solver = breakeven.NewDefaultSolver(engine)
	}
	preset := opts.Preset
	if preset == "" {
		preset = domain.DefaultPresetName
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	runs := make([]domain.Run, 0, len(domain.PresetNames()))
	for _, name := range domain.PresetNames() {
		run, err := engine.RunPreset(name)
		if err != nil {
			return Model{}, err
		}
		runs = append(runs, run)
	}

	m := Model{
		currentScene:    SceneDashboard,
		previousScene:   SceneDashboard,
		engine:          engine,
		solver:          solver,
		exportDir:       exportDir,
		dashboardModel:  scenes.NewDashboardModel(),
		parametersModel: scenes.NewParametersModel(),
		metricsModel:    scenes.NewMetricsModel(),
		presetsModel:    scenes.NewPresetsModel(runs),
		breakevenModel:  scenes.NewBreakevenModel(),
		width:           100,
		height:          30,
	}
	if err := m.applyPreset(preset); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return nil
}

// Run returns the run currently on display.
func (m Model) Run() domain.Run {
	return m.run
}

// CurrentScene returns the scene on display.
func (m Model) CurrentScene() Scene {
	return m.currentScene
}

// applyPreset replaces every assumption with the named preset.
func (m *Model) applyPreset(name string) error {
	a, err := domain.Preset(name)
	if err != nil {
		return err
	}
	canonical, _ := domain.CanonicalPresetName(name)
	m.preset = canonical
	m.assumptions = a
	m.modified = false
	m.presetsModel.SetActive(canonical)
	m.recalculate()
	return nil
}

// setField changes one assumption, clamped into the field's range.
func (m *Model) setField(key string, v decimal.Decimal) {
	f, ok := domain.LookupField(key)
	if !ok {
		return
	}
	m.assumptions = f.Set(m.assumptions, f.Clamp(v))
	m.modified = !m.assumptions.Equal(mustPreset(m.preset))
	m.recalculate()
}

// recalculate runs the engine and pushes the result to every scene.
func (m *Model) recalculate() {
	m.run = m.engine.Run(m.preset, m.assumptions)
	m.dashboardModel.SetRun(m.run)
	m.metricsModel.SetRun(m.run)
	m.parametersModel.SetAssumptions(m.assumptions, m.modified)
	m.breakevenModel.Invalidate()
}

func mustPreset(name string) domain.Assumptions {
	a, _ := domain.Preset(name)
	return a
}

// exportCmd writes the current run as CSV.
func exportCmd(run domain.Run, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := output.WriteFormatted(output.CSVExporter{}, run, dir)
		return tuimsg.ExportCompleteMsg{Path: path, Err: err}
	}
}

// solveCmd runs a break-even sweep over the default drivers.
func solveCmd(solver *breakeven.Solver, a domain.Assumptions, target decimal.Decimal) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), solveTimeout)
		defer cancel()
		result, err := solver.SolveAll(ctx, a, target, nil)
		return tuimsg.SolveCompleteMsg{Result: result, Err: err}
	}
}
