package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/shopmodel/internal/domain"
)

// Formatter renders a model run in one output format.
type Formatter interface {
	Name() string
	Format(run domain.Run) ([]byte, error)
}

var formatters = map[string]Formatter{
	"console": ConsoleFormatter{},
	"table":   TableFormatter{},
	"json":    JSONFormatter{},
	"html":    HTMLFormatter{},
	"csv":     CSVExporter{},
}

var formatAliases = map[string]string{
	"text":   "console",
	"txt":    "console",
	"report": "console",
	"export": "csv",
}

var extensions = map[string]string{
	"console": "txt",
	"table":   "txt",
	"json":    "json",
	"html":    "html",
	"csv":     "csv",
}

// GetFormatterByName returns the formatter registered under name or one of
// its aliases, or nil.
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// AvailableFormatterNames lists registered formatter names, sorted.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for n := range formatters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases, sorted.
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for a := range formatAliases {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	return aliases
}

// Filename returns the file name WriteFormatted uses for a formatter. The CSV
// export keeps its fixed name; other reports are timestamped.
func Filename(f Formatter, now time.Time) string {
	if f.Name() == "csv" {
		return ExportFilename
	}
	ext, ok := extensions[f.Name()]
	if !ok {
		ext = "txt"
	}
	return fmt.Sprintf("shop_model_report_%s.%s", now.Format("20060102_150405"), ext)
}

// WriteFormatted renders run with f and writes it into dir, returning the
// path written.
func WriteFormatted(f Formatter, run domain.Run, dir string) (string, error) {
	data, err := f.Format(run)
	if err != nil {
		return "", fmt.Errorf("failed to format %s output: %w", f.Name(), err)
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, Filename(f, time.Now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
