package scenes

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/tui/components"
	"github.com/rgehrsitz/shopmodel/internal/tui/tuimsg"
	"github.com/rgehrsitz/shopmodel/internal/tui/tuistyles"
)

// bigStep is how many field steps < and > move.
const bigStep = 10

// ParametersModel edits the assumptions, one slider per field
type ParametersModel struct {
	sliders       []*components.ParameterSlider
	focusedSlider int
	offset        int // first visible slider
	modified      bool
	width         int
	height        int
}

// NewParametersModel creates a new parameters scene model
func NewParametersModel() *ParametersModel {
	m := &ParametersModel{}
	for _, f := range domain.Fields() {
		m.sliders = append(m.sliders, components.NewParameterSlider(f, f.Min))
	}
	m.sliders[0].SetFocused(true)
	return m
}

// SetAssumptions moves every slider to the values in a
func (m *ParametersModel) SetAssumptions(a domain.Assumptions, modified bool) {
	for _, s := range m.sliders {
		s.SetValue(s.Field.Get(a))
	}
	m.modified = modified
}

// Focused returns the slider with focus
func (m *ParametersModel) Focused() *components.ParameterSlider {
	return m.sliders[m.focusedSlider]
}

// SetSize updates the scene dimensions
func (m *ParametersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the parameters scene
func (m *ParametersModel) Update(msg tea.Msg) (*ParametersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m *ParametersModel) handleKeyPress(msg tea.KeyMsg) (*ParametersModel, tea.Cmd) {
	switch {
	case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
		m.moveFocus(-1)
	case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
		m.moveFocus(1)
	case key.Matches(msg, key.NewBinding(key.WithKeys("pgup"))):
		m.moveFocus(-m.visibleCount())
	case key.Matches(msg, key.NewBinding(key.WithKeys("pgdown"))):
		m.moveFocus(m.visibleCount())
	case key.Matches(msg, key.NewBinding(key.WithKeys("right", "l"))):
		return m, m.adjust(1)
	case key.Matches(msg, key.NewBinding(key.WithKeys("left", "h"))):
		return m, m.adjust(-1)
	case key.Matches(msg, key.NewBinding(key.WithKeys(">", "shift+right"))):
		return m, m.adjust(bigStep)
	case key.Matches(msg, key.NewBinding(key.WithKeys("<", "shift+left"))):
		return m, m.adjust(-bigStep)
	}
	return m, nil
}

func (m *ParametersModel) moveFocus(delta int) {
	next := m.focusedSlider + delta
	next = max(0, min(len(m.sliders)-1, next))
	if next == m.focusedSlider {
		return
	}
	m.sliders[m.focusedSlider].SetFocused(false)
	m.focusedSlider = next
	m.sliders[next].SetFocused(true)

	visible := m.visibleCount()
	if next < m.offset {
		m.offset = next
	} else if next >= m.offset+visible {
		m.offset = next - visible + 1
	}
}

// adjust moves the focused slider and reports the new value when it changed
func (m *ParametersModel) adjust(steps int) tea.Cmd {
	s := m.Focused()
	before := s.Value
	if steps > 0 {
		s.Increment(steps)
	} else {
		s.Decrement(-steps)
	}
	if s.Value.Equal(before) {
		return nil
	}
	m.modified = true
	msg := tuimsg.ParameterChangedMsg{Key: s.Field.Key, Value: s.Value}
	return func() tea.Msg { return msg }
}

// visibleCount is how many compact rows fit, with group headers
func (m *ParametersModel) visibleCount() int {
	if m.height <= 0 {
		return len(m.sliders)
	}
	// Reserve lines for the detail panel, headers and help.
	n := m.height - 20
	return max(6, min(len(m.sliders), n))
}

// View renders the parameters scene
func (m *ParametersModel) View() string {
	list := m.renderList()
	detail := tuistyles.ActiveBorderStyle.Width(50).Render(m.Focused().Render())

	var body string
	if m.width >= 110 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", detail)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, detail, list)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		tuistyles.TitleStyle.Render("Edit assumptions"),
		"",
		body,
		renderParameterStatus(m.modified),
		renderParameterHelp(),
	)
}

func (m *ParametersModel) renderList() string {
	visible := m.visibleCount()
	end := min(len(m.sliders), m.offset+visible)

	groupStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorSecondary)

	var b strings.Builder
	group := ""
	for i := m.offset; i < end; i++ {
		s := m.sliders[i]
		if s.Field.Group != group {
			group = s.Field.Group
			b.WriteString(groupStyle.Render(group))
			b.WriteString("\n")
		}
		b.WriteString(s.RenderCompact())
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderParameterStatus(modified bool) string {
	if !modified {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(tuistyles.ColorInfo).
		Bold(true).
		Render("\n⚠ Modified from preset • r to reset")
}

func renderParameterHelp() string {
	return tuistyles.HelpDescStyle.Render("\n↑/↓ select • ←/→ adjust • </> big steps • PgUp/PgDn page • r reset • ESC back")
}
