package output

import (
	"math"
	"strings"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Dash stands in for values that are not defined.
const Dash = "—"

var (
	hundred    = decimal.NewFromInt(100)
	int64Limit = decimal.NewFromInt(math.MaxInt64)
	printer    = message.NewPrinter(language.BritishEnglish)
)

// FormatGBP renders whole pounds with thousands separators, rounding half
// to even: 144361.344 -> "£144,361", -3781.5 -> "£-3,782".
func FormatGBP(amount decimal.Decimal) string {
	return "£" + groupWhole(amount.RoundBank(0))
}

// FormatGBPOrDash is FormatGBP for values that may be undefined.
func FormatGBPOrDash(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return Dash
	}
	return FormatGBP(amount.Decimal)
}

// FormatPercent renders a fraction as a percentage with one decimal place.
func FormatPercent(ratio decimal.Decimal) string {
	return ratio.Mul(hundred).StringFixedBank(1) + "%"
}

// FormatPercentOrDash is FormatPercent for values that may be undefined.
func FormatPercentOrDash(ratio decimal.NullDecimal) string {
	if !ratio.Valid {
		return Dash
	}
	return FormatPercent(ratio.Decimal)
}

// FormatCount renders a derived head or pair count as a rounded whole number.
func FormatCount(v decimal.Decimal) string {
	return groupWhole(v.RoundBank(0))
}

// groupWhole adds thousands separators to a whole number. Values beyond
// int64 are grouped from their decimal text instead of being truncated.
func groupWhole(v decimal.Decimal) string {
	if v.Abs().LessThan(int64Limit) {
		return printer.Sprintf("%d", v.IntPart())
	}
	digits := v.Abs().String()
	var b strings.Builder
	if v.IsNegative() {
		b.WriteByte('-')
	}
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// FormatFieldValue renders an assumption the way its input widget shows it.
func FormatFieldValue(f domain.Field, v decimal.Decimal) string {
	switch f.Kind {
	case domain.KindMoney:
		return FormatGBP(v)
	case domain.KindRatio:
		if f.Key == "pairs_per_runner" {
			return v.StringFixed(2)
		}
		return v.Mul(hundred).StringFixedBank(1) + "%"
	default:
		return groupWhole(v.Round(0))
	}
}
