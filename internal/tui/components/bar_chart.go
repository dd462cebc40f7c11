package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/output"
	"github.com/rgehrsitz/shopmodel/internal/tui/tuistyles"
)

// BarChart draws labelled horizontal bars scaled to the largest value
type BarChart struct {
	Title string
	Bars  []output.Bar
	Width int
}

// NewBarChart creates a new bar chart
func NewBarChart(title string, bars []output.Bar) *BarChart {
	return &BarChart{
		Title: title,
		Bars:  bars,
		Width: 30,
	}
}

// StreamChart charts the five revenue streams.
func StreamChart(r domain.Results) *BarChart {
	streams := r.Streams()
	bars := make([]output.Bar, 0, len(streams))
	for _, s := range streams {
		bars = append(bars, output.Bar{Label: s.Name, Value: s.Revenue})
	}
	return NewBarChart("Revenue by stream", bars)
}

// WithWidth sets the widest bar
func (b *BarChart) WithWidth(width int) *BarChart {
	b.Width = width
	return b
}

// Filled returns how many cells the bar for v fills. Non-positive values
// draw nothing; any positive value draws at least one cell.
func (b *BarChart) Filled(v decimal.Decimal) int {
	peak := decimal.Zero
	for _, bar := range b.Bars {
		peak = decimal.Max(peak, bar.Value)
	}
	if !peak.IsPositive() || !v.IsPositive() {
		return 0
	}
	n := int(v.Div(peak).Mul(decimal.NewFromInt(int64(b.Width))).Round(0).IntPart())
	if n == 0 {
		n = 1
	}
	return n
}

// Render returns the styled chart
func (b *BarChart) Render() string {
	if len(b.Bars) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder

	if b.Title != "" {
		titleStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(tuistyles.ColorPrimary)
		content.WriteString(titleStyle.Render(b.Title))
		content.WriteString("\n\n")
	}

	labelWidth := 0
	for _, bar := range b.Bars {
		labelWidth = max(labelWidth, lipgloss.Width(bar.Label))
	}

	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Width(labelWidth)
	barStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess)
	emptyStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorBorder)
	valueStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)

	for i, bar := range b.Bars {
		filled := b.Filled(bar.Value)
		content.WriteString(fmt.Sprintf("%s │%s%s %s",
			labelStyle.Render(bar.Label),
			barStyle.Render(strings.Repeat("█", filled)),
			emptyStyle.Render(strings.Repeat("░", b.Width-filled)),
			valueStyle.Render(output.FormatGBP(bar.Value))))
		if i < len(b.Bars)-1 {
			content.WriteString("\n")
		}
	}

	return content.String()
}
