package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/shopspring/decimal"
)

// ExportFilename is the fixed name of the assumptions and outputs download.
const ExportFilename = "cockermouth_running_shop_model.csv"

// ExportRow is one key/value line of the export. Value is empty for
// undefined results.
type ExportRow struct {
	Key   string
	Value string
}

// ExportRows lists every input under its export key, in field order,
// followed by the headline results.
func ExportRows(run domain.Run) []ExportRow {
	fields := domain.Fields()
	rows := make([]ExportRow, 0, len(fields)+6)
	for _, f := range fields {
		rows = append(rows, ExportRow{Key: f.ExportKey, Value: f.Get(run.Assumptions).String()})
	}

	r := run.Results
	rows = append(rows,
		ExportRow{"Turnover", r.Turnover.String()},
		ExportRow{"Gross profit", r.GPTotal.String()},
		ExportRow{"Opex", r.Opex.String()},
		ExportRow{"Operating profit", r.OperatingProfit.String()},
		ExportRow{"Breakeven sales", nullString(r.BreakevenSales)},
		ExportRow{"Blended GP%", nullString(r.GPPct)},
	)
	return rows
}

func nullString(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.String()
}

// CSVExporter writes the two-column key,value export.
type CSVExporter struct{}

func (c CSVExporter) Name() string { return "csv" }

func (c CSVExporter) Format(run domain.Run) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"key", "value"}); err != nil {
		return nil, err
	}
	for _, row := range ExportRows(run) {
		if err := w.Write([]string{row.Key, row.Value}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
