package output

import (
	"encoding/json"

	"github.com/rgehrsitz/shopmodel/internal/domain"
)

// JSONFormatter emits the run together with its presentation view.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

// Document is the JSON shape shared by the json formatter and the HTTP API.
type Document struct {
	domain.Run
	Report   Report   `json:"report"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewDocument pairs run with its report.
func NewDocument(run domain.Run, warnings []string) Document {
	return Document{Run: run, Report: NewReport(run), Warnings: warnings}
}

func (j JSONFormatter) Format(run domain.Run) ([]byte, error) {
	data, err := json.MarshalIndent(NewDocument(run, nil), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
