package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rgehrsitz/shopmodel/internal/domain"
)

// ConsoleFormatter renders the full dashboard as plain text.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(run domain.Run) ([]byte, error) {
	var buf bytes.Buffer
	rep := NewReport(run)

	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	fmt.Fprintln(&buf, rep.Title)
	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	if rep.Preset != "" {
		fmt.Fprintf(&buf, "Preset: %s\n", rep.Preset)
	}
	fmt.Fprintln(&buf)

	for _, k := range rep.KPIs {
		fmt.Fprintf(&buf, "%-18s %14s\n", k.Label+":", k.Text)
	}
	fmt.Fprintln(&buf, rep.Caption)
	if rep.LossMaking {
		fmt.Fprintln(&buf, "⚠ Operating loss at these assumptions")
	}
	fmt.Fprintln(&buf)

	streams := make([]Bar, 0, len(rep.Streams))
	for _, s := range rep.Streams {
		streams = append(streams, Bar{Label: s.Name, Value: s.Revenue})
	}
	WriteBarChart(&buf, "REVENUE BY STREAM", streams)

	months := make([]Bar, 0, len(rep.Monthly))
	for _, m := range rep.Monthly {
		months = append(months, Bar{Label: m.Label(), Value: m.Turnover})
	}
	WriteBarChart(&buf, "SEASONALITY – MONTHLY TURNOVER", months)

	writeMetricTable(&buf, rep.Metrics)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "NOTES:")
	for _, n := range rep.Notes {
		fmt.Fprintf(&buf, "• %s\n", n)
	}
	return buf.Bytes(), nil
}

// TableFormatter renders only the detailed metrics table.
type TableFormatter struct{}

func (t TableFormatter) Name() string { return "table" }

func (t TableFormatter) Format(run domain.Run) ([]byte, error) {
	var buf bytes.Buffer
	writeMetricTable(&buf, MetricRows(run.Results))
	return buf.Bytes(), nil
}

func writeMetricTable(w io.Writer, rows []MetricRow) {
	width := len("Metric")
	for _, r := range rows {
		if n := utf8.RuneCountInString(r.Metric); n > width {
			width = n
		}
	}
	line := strings.Repeat("-", width+2+14)

	fmt.Fprintln(w, "DETAILED METRICS")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "%s%s  %14s\n", "Metric", strings.Repeat(" ", width-len("Metric")), "Value")
	fmt.Fprintln(w, line)
	for _, r := range rows {
		pad := strings.Repeat(" ", width-utf8.RuneCountInString(r.Metric))
		fmt.Fprintf(w, "%s%s  %14s\n", r.Metric, pad, r.Value)
	}
}
