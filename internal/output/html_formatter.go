package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/shopspring/decimal"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

const htmlBarPixels = 320

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"gbp": FormatGBP,
	"pct": FormatPercentOrDash,
	"barWidth": func(v, peak decimal.Decimal) int64 {
		if !peak.IsPositive() || !v.IsPositive() {
			return 0
		}
		return v.Div(peak).Mul(decimal.NewFromInt(htmlBarPixels)).Round(0).IntPart()
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(run domain.Run) ([]byte, error) {
	var buf bytes.Buffer
	rep := NewReport(run)
	data := struct {
		Report
		StreamPeak decimal.Decimal
		MonthPeak  decimal.Decimal
	}{Report: rep}
	for _, s := range rep.Streams {
		data.StreamPeak = decimal.Max(data.StreamPeak, s.Revenue)
	}
	for _, m := range rep.Monthly {
		data.MonthPeak = decimal.Max(data.MonthPeak, m.Turnover)
	}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
