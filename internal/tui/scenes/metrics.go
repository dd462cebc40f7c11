package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/output"
	"github.com/rgehrsitz/shopmodel/internal/tui/tuistyles"
)

// MetricsModel renders the detailed metrics table
type MetricsModel struct {
	run    *domain.Run
	width  int
	height int
}

// NewMetricsModel creates a new metrics scene model
func NewMetricsModel() *MetricsModel {
	return &MetricsModel{}
}

// SetRun updates the run to display
func (m *MetricsModel) SetRun(run domain.Run) {
	m.run = &run
}

// SetSize updates the scene dimensions
func (m *MetricsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the metrics scene; it is read-only.
func (m *MetricsModel) Update(tea.Msg) (*MetricsModel, tea.Cmd) {
	return m, nil
}

// View renders the metrics scene
func (m *MetricsModel) View() string {
	if m.run == nil {
		return renderNoResultsState()
	}

	table := renderMetricTable(output.MetricRows(m.run.Results))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		tuistyles.TitleStyle.Render("Detailed metrics"),
		"",
		table,
		"",
		tuistyles.HelpDescStyle.Render("e export CSV • d dashboard • p parameters"),
	)
}

func renderNoResultsState() string {
	return "No results yet.\n\nPick a preset (1/2/3) or adjust parameters (p)."
}

// highlighted rows are the totals
var totalRows = map[string]bool{
	"TOTAL turnover":     true,
	"TOTAL gross profit": true,
	"Operating profit":   true,
}

func renderMetricTable(rows []output.MetricRow) string {
	labelWidth := len("Metric")
	for _, r := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.Metric))
	}
	valueWidth := 12

	var b strings.Builder
	header := fmt.Sprintf("%-*s  %*s", labelWidth, "Metric", valueWidth, "Value")
	b.WriteString(tuistyles.TableHeaderStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(tuistyles.SubtitleStyle.Render(strings.Repeat("─", labelWidth+valueWidth+2)))
	b.WriteString("\n")

	for i, r := range rows {
		style := tuistyles.TableCellStyle
		if totalRows[r.Metric] {
			style = tuistyles.TableHighlightStyle
		}
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(r.Metric))
		b.WriteString(style.Render(fmt.Sprintf("%s%s  %*s", r.Metric, pad, valueWidth, r.Value)))
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}

	return tuistyles.BorderStyle.Render(b.String())
}
