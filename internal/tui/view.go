package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/shopmodel/internal/output"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderError()
	}

	var content string
	switch m.currentScene {
	case SceneDashboard:
		content = m.dashboardModel.View()
	case SceneParameters:
		content = m.parametersModel.View()
	case SceneMetrics:
		content = m.metricsModel.View()
	case ScenePresets:
		content = m.presetsModel.View()
	case SceneBreakeven:
		content = m.breakevenModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar, status bar, and main container
func (m Model) renderApp(content string) string {
	titleBar := m.renderTitleBar()
	statusBar := m.renderStatusBar()

	contentHeight := max(1, m.height-4) // title (2) + status (1) + padding (1)

	contentContainer := lipgloss.NewStyle().
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleBar,
		contentContainer,
		statusBar,
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render(output.ReportTitle)

	preset := m.preset
	if m.modified {
		preset += " (modified)"
	}
	breadcrumb := SubtitleStyle.Render(fmt.Sprintf("%s / %s", m.currentScene.String(), preset))

	return lipgloss.JoinVertical(lipgloss.Left, title, breadcrumb)
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("d", "dashboard"),
		formatShortcut("p", "parameters"),
		formatShortcut("m", "metrics"),
		formatShortcut("t", "presets"),
		formatShortcut("b", "break-even"),
		formatShortcut("1-3", "preset"),
		formatShortcut("e", "export"),
		formatShortcut("r", "reset"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}

	statusText := strings.Join(shortcuts, " • ")

	if m.status != "" {
		status := InfoStyle.Render(m.status)
		width := m.width - lipgloss.Width(statusText) - lipgloss.Width(status) - 4
		statusText = statusText + strings.Repeat(" ", max(1, width)) + status
	}

	return StatusBarStyle.Width(m.width).Render(statusText)
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

// renderError renders an error message
func (m Model) renderError() string {
	content := ErrorStyle.Render(
		fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err.Error()),
	)
	return m.renderApp(content)
}

var helpSections = []struct {
	title string
	keys  [][2]string
}{
	{"SCENES", [][2]string{
		{"d", "Dashboard: KPIs, revenue by stream, seasonality"},
		{"p", "Parameters: one slider per assumption"},
		{"m", "Metrics: the detailed metrics table"},
		{"t", "Presets: browse and apply a preset"},
		{"b", "Break-even: value of each driver that hits a target profit"},
		{"?", "This help"},
		{"ESC", "Go back"},
	}},
	{"ACTIONS", [][2]string{
		{"1/2/3", "Apply Conservative / Base / Stretch"},
		{"r", "Reset to the current preset"},
		{"e", "Export the current model as CSV"},
		{"q", "Quit (Ctrl+C from anywhere)"},
	}},
	{"PARAMETERS", [][2]string{
		{"↑/↓", "Select an assumption"},
		{"←/→", "Adjust by one step"},
		{"</>", "Adjust by ten steps"},
	}},
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(output.ReportTitle))
	b.WriteString("\n")
	for _, section := range helpSections {
		b.WriteString("\n")
		b.WriteString(SubtitleStyle.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, k := range section.keys {
			b.WriteString("  ")
			b.WriteString(HelpKeyStyle.Width(8).Render(k[0]))
			b.WriteString(HelpDescStyle.Render(k[1]))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(HelpDescStyle.Render("Values are clamped to each assumption's valid range. Every change recalculates immediately."))

	return BorderStyle.Render(b.String())
}
