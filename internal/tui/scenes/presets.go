package scenes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/tui/components"
	"github.com/rgehrsitz/shopmodel/internal/tui/tuimsg"
	"github.com/rgehrsitz/shopmodel/internal/tui/tuistyles"
)

// PresetsModel lists the preset catalogue with each preset's results
type PresetsModel struct {
	runs          []domain.Run
	active        string
	selectedIndex int
	width         int
	height        int
}

// NewPresetsModel creates a presets scene from one run per preset, in
// catalogue order.
func NewPresetsModel(runs []domain.Run) *PresetsModel {
	return &PresetsModel{runs: runs}
}

// SetActive marks the preset the current assumptions came from and moves
// the selection onto it.
func (m *PresetsModel) SetActive(name string) {
	m.active = name
	for i, r := range m.runs {
		if r.Preset == name {
			m.selectedIndex = i
		}
	}
}

// SetSize updates the scene dimensions
func (m *PresetsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SelectedPreset returns the highlighted preset name
func (m *PresetsModel) SelectedPreset() string {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.runs) {
		return m.runs[m.selectedIndex].Preset
	}
	return ""
}

// Update handles messages for the presets scene
func (m *PresetsModel) Update(msg tea.Msg) (*PresetsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m *PresetsModel) handleKeyPress(msg tea.KeyMsg) (*PresetsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k", "left"))):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j", "right"))):
		if m.selectedIndex < len(m.runs)-1 {
			m.selectedIndex++
		}
	case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
		name := m.SelectedPreset()
		if name == "" {
			return m, nil
		}
		return m, func() tea.Msg {
			return tuimsg.PresetSelectedMsg{Name: name}
		}
	}
	return m, nil
}

// View renders the preset cards side by side, or stacked when narrow
func (m *PresetsModel) View() string {
	if len(m.runs) == 0 {
		return tuistyles.InfoStyle.Render("No presets available")
	}

	cards := make([]string, 0, len(m.runs))
	for i, run := range m.runs {
		card := components.PresetCardFor(run).
			SetSelected(i == m.selectedIndex).
			SetActive(run.Preset == m.active)
		cards = append(cards, card.Render())
	}

	var body string
	if m.width > 0 && m.width < 140 {
		list := components.PresetListCompact(m.presetCards(), m.selectedIndex)
		body = lipgloss.JoinVertical(lipgloss.Left, list, "", cards[m.selectedIndex])
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		tuistyles.TitleStyle.Render("Presets"),
		tuistyles.SubtitleStyle.Render("Applying a preset replaces every assumption."),
		"",
		body,
		"",
		renderPresetsHelp(),
	)
}

func (m *PresetsModel) presetCards() []*components.PresetCard {
	cards := make([]*components.PresetCard, 0, len(m.runs))
	for _, run := range m.runs {
		cards = append(cards, components.PresetCardFor(run))
	}
	return cards
}

func renderPresetsHelp() string {
	return tuistyles.HelpDescStyle.Render("↑/↓ select • Enter apply • 1/2/3 apply directly • ESC back")
}
