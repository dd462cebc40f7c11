package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// BarWidth is the widest bar the text charts draw.
const BarWidth = 40

// Bar is one labelled value in a text chart.
type Bar struct {
	Label string
	Value decimal.Decimal
}

// WriteBarChart draws horizontal bars scaled to the largest value, each
// followed by its currency label. Negative values draw no bar.
func WriteBarChart(w io.Writer, title string, bars []Bar) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))

	labelWidth := 0
	peak := decimal.Zero
	for _, b := range bars {
		if n := utf8.RuneCountInString(b.Label); n > labelWidth {
			labelWidth = n
		}
		if b.Value.GreaterThan(peak) {
			peak = b.Value
		}
	}

	for _, b := range bars {
		pad := strings.Repeat(" ", labelWidth-utf8.RuneCountInString(b.Label))
		fmt.Fprintf(w, "%s%s │%s %s\n", b.Label, pad, bar(b.Value, peak), FormatGBP(b.Value))
	}
	fmt.Fprintln(w)
}

func bar(v, peak decimal.Decimal) string {
	if !peak.IsPositive() || !v.IsPositive() {
		return ""
	}
	n := int(v.Div(peak).Mul(decimal.NewFromInt(BarWidth)).Round(0).IntPart())
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
