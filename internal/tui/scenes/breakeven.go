package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/shopmodel/internal/breakeven"
	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/output"
	"github.com/rgehrsitz/shopmodel/internal/tui/tuimsg"
	"github.com/rgehrsitz/shopmodel/internal/tui/tuistyles"
)

// BreakevenMode is the step the break-even scene is on
type BreakevenMode int

const (
	ModeSetTarget BreakevenMode = iota
	ModeSolving
	ModeShowResults
)

// BreakevenModel finds, for each driver on its own, the value that brings
// operating profit to a target
type BreakevenModel struct {
	mode        BreakevenMode
	targetInput textinput.Model
	target      decimal.Decimal
	result      *breakeven.SweepResult
	err         error
	width       int
	height      int
}

// NewBreakevenModel creates a new break-even scene model
func NewBreakevenModel() *BreakevenModel {
	ti := textinput.New()
	ti.Placeholder = "0"
	ti.Prompt = "£ "
	ti.CharLimit = 10
	ti.Width = 14

	return &BreakevenModel{
		mode:        ModeSetTarget,
		targetInput: ti,
	}
}

// Editing reports whether the scene is capturing typed input
func (m *BreakevenModel) Editing() bool {
	return m.mode == ModeSetTarget && m.targetInput.Focused()
}

// Focus puts the cursor in the target field
func (m *BreakevenModel) Focus() tea.Cmd {
	if m.mode != ModeSetTarget {
		return nil
	}
	return m.targetInput.Focus()
}

// Blur releases the target field
func (m *BreakevenModel) Blur() {
	m.targetInput.Blur()
}

// SetSize updates the model dimensions
func (m *BreakevenModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetResult shows a finished sweep
func (m *BreakevenModel) SetResult(result *breakeven.SweepResult, err error) {
	m.result = result
	m.err = err
	m.mode = ModeShowResults
	m.targetInput.Blur()
}

// Invalidate drops a shown result after the assumptions change
func (m *BreakevenModel) Invalidate() {
	if m.mode == ModeShowResults {
		m.mode = ModeSetTarget
		m.result = nil
		m.err = nil
	}
}

// Update handles messages for the break-even scene
func (m *BreakevenModel) Update(msg tea.Msg) (*BreakevenModel, tea.Cmd) {
	switch m.mode {
	case ModeSetTarget:
		return m.updateTargetInput(msg)
	case ModeShowResults:
		return m.updateResults(msg)
	}
	return m, nil
}

func (m *BreakevenModel) updateTargetInput(msg tea.Msg) (*BreakevenModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			if !m.targetInput.Focused() {
				return m, m.targetInput.Focus()
			}
			target, err := parseTarget(m.targetInput.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.target = target
			m.mode = ModeSolving
			m.targetInput.Blur()
			return m, func() tea.Msg {
				return tuimsg.SolveRequestedMsg{Target: target}
			}
		case tea.KeyEsc:
			m.targetInput.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.targetInput, cmd = m.targetInput.Update(msg)
	return m, cmd
}

func (m *BreakevenModel) updateResults(msg tea.Msg) (*BreakevenModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, key.NewBinding(key.WithKeys("n", "enter"))) {
			m.mode = ModeSetTarget
			m.result = nil
			m.err = nil
			return m, m.targetInput.Focus()
		}
	}
	return m, nil
}

// parseTarget reads a target profit in pounds; blank means zero.
func parseTarget(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.NewReplacer("£", "", ",", "").Replace(s))
	if s == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid target %q: enter an amount in pounds", s)
	}
	return v, nil
}

// View renders the break-even scene
func (m *BreakevenModel) View() string {
	var content strings.Builder

	content.WriteString(tuistyles.TitleStyle.Render("Break-even drivers"))
	content.WriteString("\n")
	content.WriteString(tuistyles.SubtitleStyle.Render(
		"For each driver on its own, the value that brings operating profit to the target."))
	content.WriteString("\n\n")

	switch m.mode {
	case ModeSetTarget:
		content.WriteString("Target operating profit:\n")
		content.WriteString(tuistyles.BorderStyle.Padding(0, 1).Render(m.targetInput.View()))
		content.WriteString("\n")
		if m.err != nil {
			content.WriteString(tuistyles.ErrorStyle.Render(m.err.Error()))
			content.WriteString("\n")
		}
		content.WriteString(tuistyles.HelpDescStyle.Render("Enter solve • ESC leave the field"))
	case ModeSolving:
		content.WriteString(tuistyles.InfoStyle.Render(
			fmt.Sprintf("Solving for %s...", output.FormatGBP(m.target))))
	case ModeShowResults:
		content.WriteString(m.renderResults())
		content.WriteString("\n\n")
		content.WriteString(tuistyles.HelpDescStyle.Render("n new target • ESC back"))
	}

	return content.String()
}

func (m *BreakevenModel) renderResults() string {
	if m.result == nil {
		if m.err != nil {
			return tuistyles.ErrorStyle.Render(m.err.Error())
		}
		return ""
	}
	res := m.result

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Target %s • current profit %s\n\n",
		output.FormatGBP(res.Target), output.FormatGBP(res.BaseProfit)))

	header := fmt.Sprintf("%-34s %12s %12s %9s", "Driver", "Current", "Required", "Change")
	b.WriteString(tuistyles.TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, r := range res.Results {
		change := "n/a"
		if r.RelativeChange.Valid {
			change = output.FormatPercent(r.RelativeChange.Decimal)
		}
		line := fmt.Sprintf("%-34s %12s %12s %9s", r.Label,
			formatSolved(r, r.BaseValue), formatSolved(r, r.Value), change)
		style := tuistyles.TableCellStyle
		if res.SmallestChange != nil && res.SmallestChange.Field == r.Field {
			style = tuistyles.TableHighlightStyle
			line += " ◀"
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if len(res.Unreachable) > 0 {
		b.WriteString("\n")
		b.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("%d driver(s) cannot reach the target alone", len(res.Unreachable))))
		b.WriteString("\n")
	}
	for _, rec := range res.Recommendations {
		b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorInfo).Render("• " + rec))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(tuistyles.ErrorStyle.Render(m.err.Error()))
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatSolved(r breakeven.Result, v decimal.Decimal) string {
	f, ok := domain.LookupField(r.Field)
	if !ok {
		return v.String()
	}
	return output.FormatFieldValue(f, v)
}
