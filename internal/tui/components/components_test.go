package components

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/shopmodel/internal/calculation"
	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/output"
)

func field(t *testing.T, key string) domain.Field {
	t.Helper()
	f, ok := domain.LookupField(key)
	require.True(t, ok, key)
	return f
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParameterSlider_Steps(t *testing.T) {
	s := NewParameterSlider(field(t, "capture_local"), dec("0.40"))

	s.Increment(1)
	assert.Equal(t, "0.41", s.Value.String())
	s.Decrement(10)
	assert.Equal(t, "0.31", s.Value.String())
	assert.Equal(t, "31.0%", s.Text())
}

func TestParameterSlider_Clamps(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"below min", "capture_local", "0.01", "0.05"},
		{"above max", "capture_local", "0.95", "0.9"},
		{"open bound", "gm_shoes", "1", "0.99"},
		{"open lower bound", "gm_shoes", "0", "0.01"},
		{"ui ceiling", "rent", "1000000", "80000"},
		{"whole units", "num_events", "2.6", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewParameterSlider(field(t, tt.key), dec(tt.value))
			assert.True(t, s.Value.Equal(dec(tt.want)), "got %s", s.Value)
		})
	}
}

func TestParameterSlider_Percentage(t *testing.T) {
	s := NewParameterSlider(field(t, "rent"), dec("40000"))
	assert.InDelta(t, 0.5, s.Percentage(), 1e-9)

	s.SetValue(dec("0"))
	assert.Zero(t, s.Percentage())
}

func TestParameterSlider_Render(t *testing.T) {
	s := NewParameterSlider(field(t, "rent"), dec("29000")).SetFocused(true)

	out := s.Render()
	assert.Contains(t, out, "Rent & rates (£)")
	assert.Contains(t, out, "£29,000")
	assert.Contains(t, out, "£0  ─  £80,000")
	assert.Contains(t, out, "← → to adjust")

	compact := s.RenderCompact()
	assert.True(t, strings.HasPrefix(compact, "▸ "))
	assert.Contains(t, compact, "●")
}

func baseRun(t *testing.T) domain.Run {
	t.Helper()
	run, err := calculation.NewEngine().RunPreset(domain.PresetBase)
	require.NoError(t, err)
	return run
}

func TestKPICards(t *testing.T) {
	cards := KPICards(output.KPIs(baseRun(t).Results))

	require.Len(t, cards, 4)
	assert.Equal(t, "£144,361", cards[0].Value)
	assert.Nil(t, cards[0].Trend)
	require.NotNil(t, cards[3].Trend)
	assert.True(t, cards[3].Trend.IsPositive)
	assert.Contains(t, cards[3].Render(), "▲ profit")

	loss := KPICards([]output.KPI{{Label: "Operating profit", Value: dec("-5"), Text: "£-5"}})
	assert.False(t, loss[0].Trend.IsPositive)
	assert.Contains(t, loss[0].RenderCompact(), "▼ loss")
}

func TestMetricGrid(t *testing.T) {
	assert.Empty(t, MetricGrid(nil, 2))

	cards := []*MetricCard{NewMetricCard("A", "1"), NewMetricCard("B", "2"), NewMetricCard("C", "3")}
	grid := MetricGrid(cards, 2)
	for _, s := range []string{"A", "B", "C"} {
		assert.Contains(t, grid, s)
	}
}

func TestBarChart(t *testing.T) {
	chart := NewBarChart("T", []output.Bar{
		{Label: "big", Value: dec("100")},
		{Label: "half", Value: dec("50")},
		{Label: "tiny", Value: dec("0.1")},
		{Label: "neg", Value: dec("-5")},
	}).WithWidth(20)

	assert.Equal(t, 20, chart.Filled(dec("100")))
	assert.Equal(t, 10, chart.Filled(dec("50")))
	assert.Equal(t, 1, chart.Filled(dec("0.1")), "positive values always show")
	assert.Zero(t, chart.Filled(dec("-5")))

	lines := strings.Split(chart.Render(), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, 20, strings.Count(lines[2], "█"))
	assert.Contains(t, lines[5], "£-5")
}

func TestStreamChart(t *testing.T) {
	out := StreamChart(baseRun(t).Results).Render()

	assert.Contains(t, out, "Revenue by stream")
	for _, name := range []string{domain.StreamLocalShoes, domain.StreamEventBursts, domain.StreamServices} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "£77,401")
}

func TestMonthlyChart(t *testing.T) {
	chart := MonthlyChart(baseRun(t).Results.Monthly).WithSize(60, 8)

	out := chart.Render()
	assert.Contains(t, out, "Seasonality")
	assert.Contains(t, out, "Jan")
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "£")
}

func TestASCIIChart_Empty(t *testing.T) {
	assert.Contains(t, NewASCIIChart("x").Render(), "No data")

	flat := NewASCIIChart("").AddSeries("flat", []float64{5, 5, 5}, "")
	assert.NotPanics(t, func() { flat.Render() })
}

func TestFormatChartValue(t *testing.T) {
	assert.Equal(t, "£1.5M", formatChartValue(1500000))
	assert.Equal(t, "£12.0K", formatChartValue(12000))
	assert.Equal(t, "£999", formatChartValue(999))
}

func TestPresetCard(t *testing.T) {
	card := PresetCardFor(baseRun(t)).SetActive(true).SetSelected(true)

	out := card.Render()
	assert.Contains(t, out, "Base (in use)")
	assert.Contains(t, out, "Turnover £144,361")
	assert.Contains(t, out, "Local capture 40.0%, rent £29,000")

	list := PresetListCompact([]*PresetCard{card, NewPresetCard("Other")}, 0)
	assert.True(t, strings.HasPrefix(list, "▸ Base"))
	assert.Contains(t, PresetListCompact(nil, 0), "No presets")
}
