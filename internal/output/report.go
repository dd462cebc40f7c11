package output

import (
	"fmt"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/shopspring/decimal"
)

// KPI is one headline figure.
type KPI struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
	Text  string          `json:"text"`
}

// MetricRow is one line of the detailed metrics table.
type MetricRow struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

// AssumptionRow is one input as displayed.
type AssumptionRow struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Group string          `json:"group"`
	Value decimal.Decimal `json:"value"`
	Text  string          `json:"text"`
}

// Report is the presentation view of a Run. Every formatter renders one.
type Report struct {
	Title       string                 `json:"title"`
	Preset      string                 `json:"preset"`
	KPIs        []KPI                  `json:"kpis"`
	Caption     string                 `json:"caption"`
	Streams     []domain.RevenueStream `json:"streams"`
	Monthly     domain.MonthlyProfile  `json:"monthly"`
	Metrics     []MetricRow            `json:"metrics"`
	Assumptions []AssumptionRow        `json:"assumptions"`
	Notes       []string               `json:"notes"`
	LossMaking  bool                   `json:"loss_making"`
}

// ReportTitle heads every rendered report.
const ReportTitle = "Cockermouth Running Shop – Tweakable Model"

// NewReport builds the presentation view of run.
func NewReport(run domain.Run) Report {
	return Report{
		Title:       ReportTitle,
		Preset:      run.Preset,
		KPIs:        KPIs(run.Results),
		Caption:     Caption(run.Results),
		Streams:     run.Results.Streams(),
		Monthly:     run.Results.Monthly,
		Metrics:     MetricRows(run.Results),
		Assumptions: AssumptionRows(run.Assumptions),
		Notes:       ModelNotes,
		LossMaking:  run.Results.IsLossMaking(),
	}
}

// KPIs returns the four headline figures.
func KPIs(r domain.Results) []KPI {
	kpi := func(label string, v decimal.Decimal) KPI {
		return KPI{Label: label, Value: v, Text: FormatGBP(v)}
	}
	return []KPI{
		kpi("Turnover", r.Turnover),
		kpi("Gross profit", r.GPTotal),
		kpi("Opex", r.Opex),
		kpi("Operating profit", r.OperatingProfit),
	}
}

// Caption is the one-line margin and breakeven summary.
func Caption(r domain.Results) string {
	return fmt.Sprintf("Blended GP%%: %s | Breakeven sales: %s",
		FormatPercentOrDash(r.GPPct), FormatGBPOrDash(r.BreakevenSales))
}

// MetricRows returns the detailed metrics table.
func MetricRows(r domain.Results) []MetricRow {
	return []MetricRow{
		{"Adults", FormatCount(r.Adults)},
		{"Runners", FormatCount(r.Runners)},
		{"Local pairs (all)", FormatCount(r.LocalPairs)},
		{"Local pairs captured", FormatCount(r.LocalPairsCaptured)},
		{"Local shoe revenue", FormatGBP(r.RevLocalShoes)},
		{"Local apparel/acc. revenue", FormatGBP(r.RevLocalApparel)},
		{"Tourist revenue (core)", FormatGBP(r.RevTouristCore)},
		{"Event burst revenue", FormatGBP(r.RevEvents)},
		{"Service revenue", FormatGBP(r.RevServices)},
		{"TOTAL turnover", FormatGBP(r.Turnover)},
		{"GP – shoes", FormatGBP(r.GPShoes)},
		{"GP – apparel/acc.", FormatGBP(r.GPApparel)},
		{"GP – tourist/events", FormatGBP(r.GPTour)},
		{"GP – services", FormatGBP(r.GPServices)},
		{"TOTAL gross profit", FormatGBP(r.GPTotal)},
		{"Opex", FormatGBP(r.Opex)},
		{"Operating profit", FormatGBP(r.OperatingProfit)},
		{"Blended GP%", FormatPercentOrDash(r.GPPct)},
		{"Breakeven sales", FormatGBPOrDash(r.BreakevenSales)},
	}
}

// AssumptionRows lists every input in field order.
func AssumptionRows(a domain.Assumptions) []AssumptionRow {
	fields := domain.Fields()
	rows := make([]AssumptionRow, 0, len(fields))
	for _, f := range fields {
		v := f.Get(a)
		rows = append(rows, AssumptionRow{
			Key:   f.Key,
			Label: f.Label,
			Group: f.Group,
			Value: v,
			Text:  FormatFieldValue(f, v),
		})
	}
	return rows
}
