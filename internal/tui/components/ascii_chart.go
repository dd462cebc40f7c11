package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/tui/tuistyles"
)

// DataSeries represents a single line in a chart
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// ASCIIChart displays a simple line chart
type ASCIIChart struct {
	Title      string
	Series     []*DataSeries
	Labels     []string // X-axis labels, one per point
	Width      int
	Height     int
	ShowLegend bool
	XAxisLabel string
}

const yAxisWidth = 8

// NewASCIIChart creates a new ASCII chart
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:      title,
		Series:     []*DataSeries{},
		Labels:     []string{},
		Width:      60,
		Height:     10,
		ShowLegend: true,
	}
}

// MonthlyChart plots the seasonal turnover allocation, January first.
func MonthlyChart(profile domain.MonthlyProfile) *ASCIIChart {
	points := make([]float64, 0, len(profile))
	for _, t := range profile.Turnovers() {
		points = append(points, t.InexactFloat64())
	}
	return NewASCIIChart("Seasonality – monthly turnover").
		AddSeries("Turnover", points, tuistyles.ColorChartLine1).
		WithLabels(profile.Labels())
}

// AddSeries adds a data series to the chart
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	c.Series = append(c.Series, &DataSeries{
		Name:   name,
		Points: points,
		Color:  color,
	})
	return c
}

// WithLabels sets the X-axis labels
func (c *ASCIIChart) WithLabels(labels []string) *ASCIIChart {
	c.Labels = labels
	return c
}

// WithSize sets the chart dimensions
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = width
	c.Height = height
	if c.Height < 2 {
		c.Height = 2
	}
	return c
}

// Render returns the styled chart
func (c *ASCIIChart) Render() string {
	if len(c.Series) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder

	if c.Title != "" {
		titleStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(tuistyles.ColorPrimary)
		content.WriteString(titleStyle.Render(c.Title))
		content.WriteString("\n\n")
	}

	globalMin, globalMax := c.getGlobalMinMax()
	content.WriteString(c.renderGrid(globalMin, globalMax))

	if c.XAxisLabel != "" {
		content.WriteString("\n")
		labelStyle := lipgloss.NewStyle().
			Foreground(tuistyles.ColorMuted).
			Italic(true)
		content.WriteString(labelStyle.Render(c.XAxisLabel))
	}

	if c.ShowLegend && len(c.Series) > 1 {
		content.WriteString("\n\n")
		content.WriteString(c.renderLegend())
	}

	return content.String()
}

// getGlobalMinMax finds the min and max values across all series, padded
// so flat series still get a usable scale.
func (c *ASCIIChart) getGlobalMinMax() (float64, float64) {
	globalMin := math.Inf(1)
	globalMax := math.Inf(-1)

	for _, series := range c.Series {
		for _, point := range series.Points {
			globalMin = math.Min(globalMin, point)
			globalMax = math.Max(globalMax, point)
		}
	}
	if math.IsInf(globalMin, 1) {
		return 0, 1
	}

	padding := (globalMax - globalMin) * 0.1
	if padding == 0 {
		padding = math.Max(math.Abs(globalMax)*0.1, 1)
	}
	return globalMin - padding, globalMax + padding
}

// column maps point i of n onto the chart width
func column(i, n, chartWidth int) int {
	if n <= 1 {
		return 0
	}
	return int(float64(i) / float64(n-1) * float64(chartWidth-1))
}

// row maps a value onto the chart height, top row first
func (c *ASCIIChart) row(v, minVal, maxVal float64) int {
	return c.Height - 1 - int((v-minVal)/(maxVal-minVal)*float64(c.Height-1))
}

// renderGrid renders the chart grid with data points
func (c *ASCIIChart) renderGrid(minVal, maxVal float64) string {
	chartWidth := c.Width - yAxisWidth - 3
	if chartWidth < 2 {
		chartWidth = 2
	}

	grid := make([][]rune, c.Height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", chartWidth))
	}

	for seriesIdx, series := range c.Series {
		pointChar := c.getSeriesChar(seriesIdx)
		n := len(series.Points)
		for i, point := range series.Points {
			x, y := column(i, n, chartWidth), c.row(point, minVal, maxVal)
			if i > 0 {
				prevX := column(i-1, n, chartWidth)
				prevY := c.row(series.Points[i-1], minVal, maxVal)
				drawLine(grid, prevX, prevY, x, y, '·')
			}
			if y >= 0 && y < c.Height {
				grid[y][x] = pointChar
			}
		}
	}

	var out strings.Builder
	yAxisStyle := lipgloss.NewStyle().
		Foreground(tuistyles.ColorMuted).
		Width(yAxisWidth).
		Align(lipgloss.Right)

	for i, r := range grid {
		yValue := maxVal - (float64(i)/float64(c.Height-1))*(maxVal-minVal)
		label := ""
		if i == 0 || i == c.Height-1 || i == c.Height/2 {
			label = formatChartValue(yValue)
		}
		out.WriteString(yAxisStyle.Render(label))
		out.WriteString(" │ ")
		out.WriteString(string(r))
		out.WriteString("\n")
	}

	out.WriteString(strings.Repeat(" ", yAxisWidth))
	out.WriteString(" └")
	out.WriteString(strings.Repeat("─", chartWidth+1))
	out.WriteString("\n")

	if len(c.Labels) > 0 {
		out.WriteString(c.renderXAxisLabels(chartWidth))
	}

	return out.String()
}

// getSeriesChar returns the character to use for a series
func (c *ASCIIChart) getSeriesChar(index int) rune {
	chars := []rune{'●', '■', '▲', '♦'}
	return chars[index%len(chars)]
}

// drawLine draws a line between two points using Bresenham's algorithm
func drawLine(grid [][]rune, x0, y0, x1, y1 int, char rune) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)

	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}

	err := dx - dy
	x, y := x0, y0

	for {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) && grid[y][x] == ' ' {
			grid[y][x] = char
		}
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// renderXAxisLabels places each label under its point, skipping labels that
// would overlap the previous one.
func (c *ASCIIChart) renderXAxisLabels(chartWidth int) string {
	line := []rune(strings.Repeat(" ", chartWidth+4))
	next := 0
	for i, label := range c.Labels {
		x := column(i, len(c.Labels), chartWidth)
		runes := []rune(label)
		if x < next || x+len(runes) > len(line) {
			continue
		}
		copy(line[x:], runes)
		next = x + len(runes) + 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	return strings.Repeat(" ", yAxisWidth+3) + labelStyle.Render(strings.TrimRight(string(line), " "))
}

// renderLegend renders the chart legend
func (c *ASCIIChart) renderLegend() string {
	var items []string

	for i, series := range c.Series {
		style := lipgloss.NewStyle().Foreground(series.Color)
		symbol := style.Render(string(c.getSeriesChar(i)))
		name := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Render(series.Name)
		items = append(items, fmt.Sprintf("%s %s", symbol, name))
	}

	return lipgloss.NewStyle().
		Foreground(tuistyles.ColorMuted).
		Render("Legend: " + strings.Join(items, " • "))
}

// formatChartValue formats a value for the Y-axis
func formatChartValue(value float64) string {
	switch {
	case math.Abs(value) >= 1000000:
		return fmt.Sprintf("£%.1fM", value/1000000)
	case math.Abs(value) >= 1000:
		return fmt.Sprintf("£%.1fK", value/1000)
	}
	return fmt.Sprintf("£%.0f", value)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
