package scenes

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/shopmodel/internal/calculation"
	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/tui/tuimsg"
)

func presetRuns(t *testing.T) []domain.Run {
	t.Helper()
	engine := calculation.NewEngine()
	var runs []domain.Run
	for _, name := range domain.PresetNames() {
		run, err := engine.RunPreset(name)
		require.NoError(t, err)
		runs = append(runs, run)
	}
	return runs
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "0", false},
		{"  ", "0", false},
		{"5000", "5000", false},
		{"£12,500", "12500", false},
		{"-250.5", "-250.5", false},
		{"lots", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTarget(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid target")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParametersModel_Adjust(t *testing.T) {
	m := NewParametersModel()
	m.SetAssumptions(domain.DefaultAssumptions(), false)
	require.Equal(t, "population", m.Focused().Field.Key)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.NotNil(t, cmd)
	msg, ok := cmd().(tuimsg.ParameterChangedMsg)
	require.True(t, ok)
	assert.Equal(t, "population", msg.Key)
	assert.Equal(t, "8960", msg.Value.String())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("<")})
	require.NotNil(t, cmd)
	assert.Equal(t, "7960", cmd().(tuimsg.ParameterChangedMsg).Value.String())
}

func TestParametersModel_AdjustAtBound(t *testing.T) {
	m := NewParametersModel()
	a := domain.DefaultAssumptions()
	a.Population = 1000
	m.SetAssumptions(a, false)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd, "no message when the value cannot move")
}

func TestParametersModel_Focus(t *testing.T) {
	m := NewParametersModel()
	m.SetAssumptions(domain.DefaultAssumptions(), false)

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "population", m.Focused().Field.Key, "focus stops at the first field")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "adult_share", m.Focused().Field.Key)

	m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	last := domain.Fields()[len(domain.Fields())-1]
	assert.Equal(t, last.Key, m.Focused().Field.Key, "unsized scenes page over every field")
}

func TestParametersModel_View(t *testing.T) {
	m := NewParametersModel()
	m.SetAssumptions(domain.DefaultAssumptions(), true)
	m.SetSize(120, 40)

	view := m.View()
	assert.Contains(t, view, "Local population")
	assert.Contains(t, view, "8,860")
}

func TestPresetsModel(t *testing.T) {
	m := NewPresetsModel(presetRuns(t))
	m.SetActive(domain.PresetBase)
	assert.Equal(t, domain.PresetBase, m.SelectedPreset())

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, domain.PresetStretch, m.SelectedPreset(), "selection stops at the last preset")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tuimsg.PresetSelectedMsg{Name: domain.PresetStretch}, cmd())

	m.SetSize(150, 40)
	view := m.View()
	for _, name := range domain.PresetNames() {
		assert.Contains(t, view, name)
	}
	assert.Contains(t, view, "Base (in use)")
}

func TestPresetsModel_Empty(t *testing.T) {
	m := NewPresetsModel(nil)
	assert.Empty(t, m.SelectedPreset())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "No presets")
}

func TestBreakevenModel_Flow(t *testing.T) {
	m := NewBreakevenModel()
	m.Focus()
	require.True(t, m.Editing())

	for _, r := range "2500" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(tuimsg.SolveRequestedMsg)
	require.True(t, ok)
	assert.Equal(t, "2500", msg.Target.String())
	assert.False(t, m.Editing())

	m.SetResult(nil, errors.New("solver timed out"))
	assert.Contains(t, m.View(), "solver timed out")

	m.Invalidate()
	assert.NotContains(t, m.View(), "solver timed out")
}

func TestBreakevenModel_InvalidTarget(t *testing.T) {
	m := NewBreakevenModel()
	m.Focus()

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.True(t, m.Editing(), "stays on the input after a bad target")
	assert.Contains(t, m.View(), "invalid target")
}

func TestDashboardAndMetrics(t *testing.T) {
	run := presetRuns(t)[0]

	d := NewDashboardModel()
	d.SetSize(100, 40)
	d.SetRun(run)
	assert.Contains(t, d.View(), "Operating loss")

	mm := NewMetricsModel()
	mm.SetRun(run)
	assert.Contains(t, mm.View(), "Detailed metrics")
}
