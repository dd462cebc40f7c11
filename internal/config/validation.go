package config

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/shopspring/decimal"
)

// Level indicates which validation stage produced an issue.
type Level string

const (
	LevelSchema       Level = "schema"
	LevelRange        Level = "range"
	LevelPlausibility Level = "plausibility"
)

// Severity indicates how critical an issue is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single validation finding.
type Issue struct {
	Level       Level    `json:"level"`
	Severity    Severity `json:"severity"`
	Field       string   `json:"field,omitempty"`
	Message     string   `json:"message"`
	ActualValue string   `json:"actual_value,omitempty"`
	Expected    string   `json:"expected,omitempty"`
}

func (i Issue) String() string {
	var sb strings.Builder
	if i.Field != "" {
		sb.WriteString(i.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)
	if i.ActualValue != "" || i.Expected != "" {
		sb.WriteString(" (")
		if i.ActualValue != "" {
			sb.WriteString("got ")
			sb.WriteString(i.ActualValue)
		}
		if i.Expected != "" {
			if i.ActualValue != "" {
				sb.WriteString(", ")
			}
			sb.WriteString("expected ")
			sb.WriteString(i.Expected)
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// Report is the complete validation output for one set of assumptions.
type Report struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
	Info     []Issue `json:"info"`
	Summary  string  `json:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	r := &Report{
		Valid:    true,
		Errors:   []Issue{},
		Warnings: []Issue{},
		Info:     []Issue{},
	}
	r.updateSummary()
	return r
}

// AddError adds an error and marks the report invalid.
func (r *Report) AddError(issue Issue) {
	issue.Severity = SeverityError
	r.Errors = append(r.Errors, issue)
	r.Valid = false
	r.updateSummary()
}

// AddWarning adds a warning.
func (r *Report) AddWarning(issue Issue) {
	issue.Severity = SeverityWarning
	r.Warnings = append(r.Warnings, issue)
	r.updateSummary()
}

// AddInfo adds an informational note.
func (r *Report) AddInfo(issue Issue) {
	issue.Severity = SeverityInfo
	r.Info = append(r.Info, issue)
	r.updateSummary()
}

// Merge combines another report into this one.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	if !other.Valid {
		r.Valid = false
	}
	r.updateSummary()
}

// Messages returns every warning and info line, warnings first.
func (r *Report) Messages() []string {
	out := make([]string, 0, len(r.Warnings)+len(r.Info))
	for _, w := range r.Warnings {
		out = append(out, w.String())
	}
	for _, i := range r.Info {
		out = append(out, i.String())
	}
	return out
}

// Err returns a *ValidationError when the report holds errors, nil otherwise.
func (r *Report) Err() error {
	if r == nil || r.Valid {
		return nil
	}
	return &ValidationError{Report: r}
}

func (r *Report) updateSummary() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d info",
		len(r.Errors), len(r.Warnings), len(r.Info))
}

// ValidationError carries a failed report across an error return.
type ValidationError struct {
	Report *Report
}

func (e *ValidationError) Error() string {
	if e.Report == nil || len(e.Report.Errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Report.Errors))
	for i, issue := range e.Report.Errors {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// ValidateAssumptions checks every field against its valid range. Margins
// outside their typical band and inputs that cannot affect the result are
// reported but do not fail validation.
func ValidateAssumptions(a domain.Assumptions) *Report {
	report := NewReport()

	for _, f := range domain.Fields() {
		v := f.Get(a)
		if !f.InRange(v) {
			report.AddError(Issue{
				Level:       LevelRange,
				Field:       f.Key,
				Message:     fmt.Sprintf("%s is out of range", f.Label),
				ActualValue: v.String(),
				Expected:    f.RangeString(),
			})
			continue
		}
		if outsideTypical(f, v) {
			report.AddWarning(Issue{
				Level:       LevelPlausibility,
				Field:       f.Key,
				Message:     fmt.Sprintf("%s is unusual for a running shop", f.Label),
				ActualValue: v.String(),
				Expected:    typicalString(f),
			})
		}
	}

	if a.NumEvents > 0 && a.EventSales.IsZero() {
		report.AddInfo(Issue{Level: LevelPlausibility, Field: "event_sales",
			Message: "event weeks are planned but take no sales"})
	}
	if a.NumEvents == 0 && a.EventSales.IsPositive() {
		report.AddInfo(Issue{Level: LevelPlausibility, Field: "num_events",
			Message: "event sales are set but no event weeks are planned"})
	}
	if a.ServiceUnits > 0 && a.ServicePrice.IsZero() {
		report.AddInfo(Issue{Level: LevelPlausibility, Field: "service_price",
			Message: "services are free and add no revenue"})
	}

	return report
}

// ClampAssumptions pulls every field into range and records a warning for
// each value that moved.
func ClampAssumptions(a domain.Assumptions) (domain.Assumptions, *Report) {
	report := NewReport()
	out := a
	for _, f := range domain.Fields() {
		before := f.Get(a)
		after := f.Clamp(before)
		if after.Equal(before) {
			continue
		}
		out = f.Set(out, after)
		report.AddWarning(Issue{
			Level:       LevelRange,
			Field:       f.Key,
			Message:     fmt.Sprintf("%s clamped to %s", f.Label, after.String()),
			ActualValue: before.String(),
			Expected:    f.RangeString(),
		})
	}
	return out, report
}

func outsideTypical(f domain.Field, v decimal.Decimal) bool {
	if f.TypicalMin.Valid && v.LessThan(f.TypicalMin.Decimal) {
		return true
	}
	if f.TypicalMax.Valid && v.GreaterThan(f.TypicalMax.Decimal) {
		return true
	}
	return false
}

func typicalString(f domain.Field) string {
	return fmt.Sprintf("typically %s-%s", f.TypicalMin.Decimal.String(), f.TypicalMax.Decimal.String())
}
