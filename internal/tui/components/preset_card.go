package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/output"
	"github.com/rgehrsitz/shopmodel/internal/tui/tuistyles"
)

// PresetCard displays a compact preset overview
type PresetCard struct {
	Name        string
	Description string
	Highlights  []string // headline results
	IsSelected  bool
	IsActive    bool // the preset the current assumptions started from
	Width       int
}

// NewPresetCard creates a new preset card
func NewPresetCard(name string) *PresetCard {
	return &PresetCard{
		Name:       name,
		Highlights: []string{},
		Width:      44,
	}
}

// PresetCardFor builds a card summarising the results of run.
func PresetCardFor(run domain.Run) *PresetCard {
	card := NewPresetCard(run.Preset)
	r := run.Results
	card.AddHighlight("Turnover " + output.FormatGBP(r.Turnover))
	card.AddHighlight("Operating profit " + output.FormatGBP(r.OperatingProfit))
	card.AddHighlight(output.Caption(r))
	a := run.Assumptions
	card.WithDescription(fmt.Sprintf("Local capture %s, rent %s",
		output.FormatPercent(a.CaptureLocal), output.FormatGBP(a.Rent)))
	return card
}

// WithDescription adds a description
func (s *PresetCard) WithDescription(desc string) *PresetCard {
	s.Description = desc
	return s
}

// AddHighlight adds a key metric or parameter
func (s *PresetCard) AddHighlight(highlight string) *PresetCard {
	s.Highlights = append(s.Highlights, highlight)
	return s
}

// SetSelected marks the card as selected
func (s *PresetCard) SetSelected(selected bool) *PresetCard {
	s.IsSelected = selected
	return s
}

// SetActive marks the card as the preset in use
func (s *PresetCard) SetActive(active bool) *PresetCard {
	s.IsActive = active
	return s
}

// WithWidth sets the card width
func (s *PresetCard) WithWidth(width int) *PresetCard {
	s.Width = width
	return s
}

// Render returns the styled preset card
func (s *PresetCard) Render() string {
	var content strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorPrimary)
	title := s.Name
	if s.IsActive {
		title += " (in use)"
	}
	content.WriteString(titleStyle.Render(title))
	content.WriteString("\n")

	if s.Description != "" {
		descStyle := lipgloss.NewStyle().
			Foreground(tuistyles.ColorMuted).
			Italic(true)
		content.WriteString(descStyle.Render(s.Description))
		content.WriteString("\n")
	}

	if len(s.Highlights) > 0 {
		content.WriteString("\n")
		highlightStyle := lipgloss.NewStyle().
			Foreground(tuistyles.ColorForeground)
		for _, h := range s.Highlights {
			content.WriteString(highlightStyle.Render("• " + h))
			content.WriteString("\n")
		}
	}

	border := tuistyles.ColorBorder
	if s.IsSelected {
		border = tuistyles.ColorPrimary
	}
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(s.Width)

	return cardStyle.Render(strings.TrimRight(content.String(), "\n"))
}

// RenderCompact returns a compact single-line version
func (s *PresetCard) RenderCompact() string {
	var parts []string

	nameStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorPrimary)
	parts = append(parts, nameStyle.Render(s.Name))

	if len(s.Highlights) > 1 {
		highlightStyle := lipgloss.NewStyle().
			Foreground(tuistyles.ColorMuted)
		parts = append(parts, highlightStyle.Render("• "+s.Highlights[1]))
	}

	return strings.Join(parts, " ")
}

// PresetListCompact renders a compact list for selection menus
func PresetListCompact(cards []*PresetCard, selectedIndex int) string {
	if len(cards) == 0 {
		return tuistyles.InfoStyle.Render("No presets available")
	}

	rendered := make([]string, len(cards))
	for i, card := range cards {
		prefix := "  "
		style := tuistyles.UnselectedItemStyle

		if i == selectedIndex {
			prefix = "▸ "
			style = tuistyles.SelectedItemStyle
		}

		rendered[i] = style.Render(fmt.Sprintf("%s%s", prefix, card.RenderCompact()))
	}

	return strings.Join(rendered, "\n")
}
