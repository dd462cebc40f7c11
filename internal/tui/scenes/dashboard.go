package scenes

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/output"
	"github.com/rgehrsitz/shopmodel/internal/tui/components"
	"github.com/rgehrsitz/shopmodel/internal/tui/tuistyles"
)

// DashboardModel shows the headline figures of the current run
type DashboardModel struct {
	run    *domain.Run
	width  int
	height int
}

// NewDashboardModel creates a new dashboard scene model
func NewDashboardModel() *DashboardModel {
	return &DashboardModel{}
}

// SetRun updates the run on display
func (m *DashboardModel) SetRun(run domain.Run) {
	m.run = &run
}

// SetSize updates the model dimensions
func (m *DashboardModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the dashboard; it has no input of its own.
func (m *DashboardModel) Update(tea.Msg) (*DashboardModel, tea.Cmd) {
	return m, nil
}

// View renders the dashboard
func (m *DashboardModel) View() string {
	if m.run == nil {
		return tuistyles.InfoStyle.Render("Calculating...")
	}
	r := m.run.Results

	var content strings.Builder

	columns := 4
	if m.width > 0 && m.width < 96 {
		columns = 2
	}
	content.WriteString(components.MetricGrid(components.KPICards(output.KPIs(r)), columns))
	content.WriteString("\n")

	captionStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorForeground)
	content.WriteString(captionStyle.Render(output.Caption(r)))
	content.WriteString("\n")

	if r.IsLossMaking() {
		content.WriteString(tuistyles.ErrorStyle.Render(
			"⚠ Operating loss: gross profit does not cover operating costs."))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	barWidth := 30
	chartWidth := 60
	if m.width >= 120 {
		barWidth = 40
		chartWidth = m.width/2 - 4
	}

	streams := components.StreamChart(r).WithWidth(barWidth).Render()
	monthly := components.MonthlyChart(r.Monthly).WithSize(chartWidth, 8).Render()

	if m.width >= 120 {
		content.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, streams, "    ", monthly))
	} else {
		content.WriteString(streams)
		content.WriteString("\n\n")
		content.WriteString(monthly)
	}

	return content.String()
}
