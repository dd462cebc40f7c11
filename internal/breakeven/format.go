package breakeven

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/output"
	"github.com/shopspring/decimal"
)

// TableFormatter formats solver results as a console table
type TableFormatter struct{}

// Format generates a formatted table for a single-field solve
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN SOLVE\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Driver:              %s (%s)\n", result.Label, result.Field))
	sb.WriteString(fmt.Sprintf("Target profit:       %s\n", tf.formatCurrency(result.Target)))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("REQUIRED VALUE\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Current:             %s\n", tf.formatValue(result.Kind, result.BaseValue)))
	sb.WriteString(fmt.Sprintf("Required:            %s\n", tf.formatValue(result.Kind, result.Value)))
	sb.WriteString(fmt.Sprintf("Change:              %s%s", tf.deltaSymbol(result.Change), tf.formatValue(result.Kind, result.Change)))
	if result.RelativeChange.Valid {
		sb.WriteString(fmt.Sprintf(" (%s)", signedPercent(result.RelativeChange.Decimal)))
	}
	sb.WriteString("\n\n")

	sb.WriteString("PROJECTED RESULTS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Turnover:            %s\n", tf.formatCurrency(result.Turnover)))
	sb.WriteString(fmt.Sprintf("Operating profit:    %s\n", tf.formatCurrency(result.OperatingProfit)))
	sb.WriteString("\n")

	return sb.String()
}

// FormatSweep formats a SolveAll result
func (tf *TableFormatter) FormatSweep(result *SweepResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN SWEEP\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Target profit:       %s\n", tf.formatCurrency(result.Target)))
	sb.WriteString(fmt.Sprintf("Current profit:      %s\n\n", tf.formatCurrency(result.BaseProfit)))

	sb.WriteString("SINGLE-DRIVER SOLUTIONS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-32s %14s %14s %10s %6s\n", "Driver", "Current", "Required", "Change", ""))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, res := range result.Results {
		change := "n/a"
		if res.RelativeChange.Valid {
			change = signedPercent(res.RelativeChange.Decimal)
		}
		marker := ""
		if result.SmallestChange != nil && result.SmallestChange.Field == res.Field {
			marker = "◀"
		}
		sb.WriteString(fmt.Sprintf("%-32s %14s %14s %10s %6s\n",
			tf.truncate(res.Label, 32),
			tf.formatValue(res.Kind, res.BaseValue),
			tf.formatValue(res.Kind, res.Value),
			change,
			marker))
	}
	sb.WriteString("\n")

	if len(result.Unreachable) > 0 {
		sb.WriteString("UNREACHABLE ALONE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		keys := make([]string, 0, len(result.Unreachable))
		for k := range result.Unreachable {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("%-20s %s\n", k, result.Unreachable[k]))
		}
		sb.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *Result) (string, error) {
	return jf.marshal(result)
}

// FormatSweep formats a sweep as JSON
func (jf *JSONFormatter) FormatSweep(result *SweepResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v interface{}) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return output.FormatGBP(d)
}

func (tf *TableFormatter) formatValue(kind domain.FieldKind, d decimal.Decimal) string {
	switch kind {
	case domain.KindMoney:
		return tf.formatCurrency(d)
	case domain.KindRatio:
		return d.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
	default:
		return d.Round(0).String()
	}
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len([]rune(s)) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}
