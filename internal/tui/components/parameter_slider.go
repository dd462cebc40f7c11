package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/output"
	"github.com/rgehrsitz/shopmodel/internal/tui/tuistyles"
)

// ParameterSlider displays one assumption field with a visual slider. Values
// stay inside the field's bounds and its UI ceiling.
type ParameterSlider struct {
	Field       domain.Field
	Value       decimal.Decimal
	Width       int // Total width of slider bar
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a slider for field starting at value
func NewParameterSlider(field domain.Field, value decimal.Decimal) *ParameterSlider {
	p := &ParameterSlider{
		Field: field,
		Width: 30,
	}
	p.SetValue(value)
	return p
}

// WithWidth sets the slider width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// WithDescription adds a description/help text
func (p *ParameterSlider) WithDescription(desc string) *ParameterSlider {
	p.Description = desc
	return p
}

// Min returns the lowest value the slider reaches
func (p *ParameterSlider) Min() decimal.Decimal {
	return p.Field.Clamp(p.Field.Min)
}

// Max returns the highest value the slider reaches
func (p *ParameterSlider) Max() decimal.Decimal {
	return p.Field.Clamp(p.Field.Upper())
}

// Increment increases the value by steps multiples of the field step
func (p *ParameterSlider) Increment(steps int) {
	p.SetValue(p.Value.Add(p.Field.Step.Mul(decimal.NewFromInt(int64(steps)))))
}

// Decrement decreases the value by steps multiples of the field step
func (p *ParameterSlider) Decrement(steps int) {
	p.SetValue(p.Value.Sub(p.Field.Step.Mul(decimal.NewFromInt(int64(steps)))))
}

// SetValue sets the value directly, clamping to the slider range
func (p *ParameterSlider) SetValue(value decimal.Decimal) {
	value = p.Field.Clamp(value)
	if hi := p.Max(); value.GreaterThan(hi) {
		value = hi
	}
	p.Value = value
}

// Percentage returns the value as a fraction of the range
func (p *ParameterSlider) Percentage() float64 {
	lo, hi := p.Min(), p.Max()
	if !hi.GreaterThan(lo) {
		return 0
	}
	return p.Value.Sub(lo).Div(hi.Sub(lo)).InexactFloat64()
}

// Text renders the current value the way the reports show it
func (p *ParameterSlider) Text() string {
	return output.FormatFieldValue(p.Field, p.Value)
}

// Render returns the styled parameter slider
func (p *ParameterSlider) Render() string {
	var content strings.Builder

	labelStyle := tuistyles.ParameterLabelStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
	}
	content.WriteString(labelStyle.Render(p.Field.Label))
	content.WriteString("\n")

	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}
	content.WriteString(valueStyle.Render(p.Text()))
	content.WriteString("\n")

	content.WriteString(p.renderSliderBar())

	rangeStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	rangeText := fmt.Sprintf("%s  ─  %s",
		output.FormatFieldValue(p.Field, p.Min()),
		output.FormatFieldValue(p.Field, p.Max()))
	content.WriteString("\n")
	content.WriteString(rangeStyle.Render(rangeText))

	if p.Description != "" {
		content.WriteString("\n")
		descStyle := lipgloss.NewStyle().
			Foreground(tuistyles.ColorMuted).
			Italic(true)
		content.WriteString(descStyle.Render(p.Description))
	}

	if p.IsFocused {
		content.WriteString("\n")
		hintStyle := lipgloss.NewStyle().
			Foreground(tuistyles.ColorInfo).
			Italic(true)
		content.WriteString(hintStyle.Render("← → to adjust • < > for big steps • ↑↓ to navigate"))
	}

	return content.String()
}

// renderSliderBar creates the visual slider bar
func (p *ParameterSlider) renderSliderBar() string {
	filled := int(math.Round(float64(p.Width) * p.Percentage()))
	if filled < 0 {
		filled = 0
	}
	if filled > p.Width {
		filled = p.Width
	}
	empty := p.Width - filled

	var bar strings.Builder

	trackStyle := tuistyles.SliderTrackStyle
	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	bar.WriteString("[")
	if filled > 1 {
		bar.WriteString(thumbStyle.Render(strings.Repeat("━", filled-1)))
	}
	bar.WriteString(thumbStyle.Render("●"))
	if empty > 1 {
		bar.WriteString(trackStyle.Render(strings.Repeat("─", empty-1)))
	}
	bar.WriteString("]")

	return bar.String()
}

// RenderCompact returns a compact single-line version
func (p *ParameterSlider) RenderCompact() string {
	labelStyle := tuistyles.ParameterLabelStyle.Width(34)
	valueStyle := tuistyles.ParameterValueStyle.Width(10).Align(lipgloss.Right)

	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}

	prefix := "  "
	if p.IsFocused {
		prefix = "▸ "
	}

	return fmt.Sprintf("%s%s %s %s", prefix,
		labelStyle.Render(p.Field.Label),
		valueStyle.Render(p.Text()),
		p.renderMiniSliderBar(12))
}

// renderMiniSliderBar creates a compact slider bar
func (p *ParameterSlider) renderMiniSliderBar(width int) string {
	filled := int(math.Round(float64(width-1) * p.Percentage()))

	var bar strings.Builder
	bar.WriteString("[")

	thumbStyle := tuistyles.SliderThumbStyle
	trackStyle := tuistyles.SliderTrackStyle

	for i := 0; i < width; i++ {
		switch {
		case i == filled:
			bar.WriteString(thumbStyle.Render("●"))
		case i < filled:
			bar.WriteString(thumbStyle.Render("━"))
		default:
			bar.WriteString(trackStyle.Render("─"))
		}
	}

	bar.WriteString("]")
	return bar.String()
}
