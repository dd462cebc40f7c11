package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/output"
	"github.com/rgehrsitz/shopmodel/internal/tui/tuimsg"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(Options{ExportDir: t.TempDir()})
	require.NoError(t, err)
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send delivers msg and returns the updated model and command.
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)
	return updated, cmd
}

// drain runs cmd and feeds its message back, following chained commands.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		m, cmd = send(t, m, cmd())
	}
	return m
}

func TestNewModel(t *testing.T) {
	m := newTestModel(t)

	assert.Equal(t, SceneDashboard, m.CurrentScene())
	assert.Equal(t, domain.PresetBase, m.Run().Preset)
	assert.InDelta(t, 3781.81, m.Run().Results.OperatingProfit.InexactFloat64(), 0.01)
	assert.False(t, m.modified)
}

func TestNewModel_UnknownPreset(t *testing.T) {
	_, err := NewModel(Options{Preset: "Optimistic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown preset")
}

func TestNavigation(t *testing.T) {
	m := newTestModel(t)

	tests := []struct {
		key  string
		want Scene
	}{
		{"p", SceneParameters},
		{"m", SceneMetrics},
		{"t", ScenePresets},
		{"?", SceneHelp},
		{"d", SceneDashboard},
	}
	for _, tt := range tests {
		m, _ = send(t, m, runes(tt.key))
		assert.Equal(t, tt.want, m.CurrentScene(), tt.key)
	}

	m, _ = send(t, m, runes("m"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, SceneDashboard, m.CurrentScene(), "esc returns to the previous scene")
}

func TestPresetKeys(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(t, m, runes("1"))
	assert.Equal(t, domain.PresetConservative, m.Run().Preset)
	assert.True(t, m.Run().Results.IsLossMaking())
	assert.Contains(t, m.View(), "Operating loss")

	m, _ = send(t, m, runes("3"))
	assert.Equal(t, domain.PresetStretch, m.Run().Preset)
	assert.Equal(t, "Applied preset Stretch", m.status)
}

func TestPresetsScene_EnterApplies(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(t, m, runes("t"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = drain(t, m, cmd)

	assert.Equal(t, domain.PresetConservative, m.Run().Preset)
}

func TestParameterChangeRecalculates(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(t, m, runes("p"))
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.NotNil(t, cmd)
	m = drain(t, m, cmd)

	assert.Equal(t, 8960, m.Run().Assumptions.Population)
	assert.True(t, m.modified)
	assert.Greater(t, m.Run().Results.Turnover.InexactFloat64(), 144361.344, "recomputed")
	assert.Contains(t, m.View(), "Base (modified)")

	m, _ = send(t, m, runes("r"))
	assert.Equal(t, 8860, m.Run().Assumptions.Population)
	assert.False(t, m.modified)
}

func TestParameterChange_Clamps(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(t, m, tuimsg.ParameterChangedMsg{Key: "gm_shoes", Value: domain.DefaultAssumptions().Rent})
	assert.Equal(t, "0.99", m.Run().Assumptions.GMShoes.String())

	before := m.Run()
	m, _ = send(t, m, tuimsg.ParameterChangedMsg{Key: "parking"})
	assert.Equal(t, before, m.Run(), "unknown keys are ignored")
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	m, err := NewModel(Options{ExportDir: dir})
	require.NoError(t, err)

	m, cmd := send(t, m, runes("e"))
	require.NotNil(t, cmd)
	m = drain(t, m, cmd)

	path := filepath.Join(dir, output.ExportFilename)
	assert.Equal(t, "Exported "+path, m.status)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestExport_Error(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	m, err := NewModel(Options{ExportDir: file})
	require.NoError(t, err)

	m, cmd := send(t, m, runes("e"))
	m = drain(t, m, cmd)

	require.Error(t, m.err)
	assert.Contains(t, m.View(), "Error:")

	m, _ = send(t, m, runes("x"))
	assert.NoError(t, m.err, "any key dismisses the error")
}

func TestBreakevenScene(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(t, m, runes("b"))
	require.Equal(t, SceneBreakeven, m.CurrentScene())
	require.True(t, m.breakevenModel.Editing())

	// Global keys are typed into the target field while it has focus.
	m, _ = send(t, m, runes("q"))
	assert.Equal(t, SceneBreakeven, m.CurrentScene())
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m = drain(t, m, cmd)

	view := m.View()
	assert.Contains(t, view, "Break-even drivers")
	assert.Contains(t, view, "◀")
	assert.Contains(t, view, "Your capture of local pairs")

	// Changing an assumption drops the stale sweep.
	m, _ = send(t, m, runes("1"))
	assert.NotContains(t, m.View(), "◀")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)

	_, cmd := send(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestView(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 130, Height: 50})

	view := m.View()
	assert.Contains(t, view, output.ReportTitle)
	assert.Contains(t, view, "Dashboard / Base")
	assert.Contains(t, view, "£144,361")
	assert.Contains(t, view, "Blended GP%: 47.0% | Breakeven sales: £136,307")
	assert.Contains(t, view, "Revenue by stream")

	m, _ = send(t, m, runes("m"))
	assert.Contains(t, m.View(), "Local pairs captured")

	m, _ = send(t, m, runes("?"))
	assert.Contains(t, m.View(), "Apply Conservative / Base / Stretch")
}

func TestSceneString(t *testing.T) {
	assert.Equal(t, "Break-even", SceneBreakeven.String())
	assert.Equal(t, "Unknown", Scene(99).String())
}
