package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldKind describes how a field is entered and displayed.
type FieldKind string

const (
	KindCount FieldKind = "count" // whole number
	KindRatio FieldKind = "ratio" // fraction, displayed as a percentage
	KindMoney FieldKind = "money" // pounds
)

// MaxCount is the largest value a count field accepts. Larger inputs are
// stored as MaxCount+1 so that validation still sees them as out of range.
const MaxCount = 1 << 30

var maxCount = decimal.NewFromInt(MaxCount)

// Field groups, in display order.
const (
	GroupLocalDemand = "Local demand"
	GroupTourism     = "Tourism & events"
	GroupServices    = "Service revenue (gait / fitting)"
	GroupMargins     = "Margins (gross)"
	GroupCosts       = "Operating costs (annual)"
	GroupSeasonality = "Seasonality (uplift vs base)"
)

// Field describes one assumption: its keys, valid range and how to read and
// write it on an Assumptions value.
type Field struct {
	Key       string // YAML / JSON / override key
	ExportKey string // key used in the CSV export
	Label     string // input prompt
	Group     string
	Kind      FieldKind

	Min decimal.Decimal
	// Max is unset for fields without an upper bound.
	Max decimal.NullDecimal
	// Open marks (Min, Max) as exclusive bounds.
	Open bool
	Step decimal.Decimal
	// UIMax bounds sliders and solver searches for fields without Max.
	UIMax decimal.Decimal
	// TypicalMin/TypicalMax flag plausible but unusual values.
	TypicalMin decimal.NullDecimal
	TypicalMax decimal.NullDecimal

	get func(Assumptions) decimal.Decimal
	set func(*Assumptions, decimal.Decimal)
}

// Get reads the field from a.
func (f Field) Get(a Assumptions) decimal.Decimal {
	return f.get(a)
}

// Set returns a copy of a with the field set to v. Count fields are rounded
// to the nearest whole number.
func (f Field) Set(a Assumptions, v decimal.Decimal) Assumptions {
	if f.Kind == KindCount {
		v = v.Round(0)
	}
	f.set(&a, v)
	return a
}

// Upper returns the largest value sliders and searches should use.
func (f Field) Upper() decimal.Decimal {
	if f.Max.Valid {
		return f.Max.Decimal
	}
	return f.UIMax
}

// InRange reports whether v satisfies the field's bounds.
func (f Field) InRange(v decimal.Decimal) bool {
	if f.Open {
		if v.LessThanOrEqual(f.Min) {
			return false
		}
		if f.Max.Valid && v.GreaterThanOrEqual(f.Max.Decimal) {
			return false
		}
		return true
	}
	if v.LessThan(f.Min) {
		return false
	}
	if f.Max.Valid && v.GreaterThan(f.Max.Decimal) {
		return false
	}
	if f.Kind == KindCount && v.GreaterThan(maxCount) {
		return false
	}
	return true
}

// Clamp pulls v into the field's bounds. Open bounds clamp one step inside.
func (f Field) Clamp(v decimal.Decimal) decimal.Decimal {
	lo := f.Min
	hi := f.Max
	if f.Open {
		lo = lo.Add(f.Step)
		if hi.Valid {
			hi = decimal.NullDecimal{Decimal: hi.Decimal.Sub(f.Step), Valid: true}
		}
	}
	if v.LessThan(lo) {
		v = lo
	}
	if hi.Valid && v.GreaterThan(hi.Decimal) {
		v = hi.Decimal
	}
	if f.Kind == KindCount {
		v = decimal.Min(v.Round(0), maxCount)
	}
	return v
}

// RangeString renders the valid range, e.g. "0.05-0.9" or "> 0".
func (f Field) RangeString() string {
	if !f.Max.Valid {
		if f.Open {
			return "> " + f.Min.String()
		}
		if f.Kind == KindCount {
			return fmt.Sprintf("%s-%d", f.Min.String(), MaxCount)
		}
		return ">= " + f.Min.String()
	}
	if f.Open {
		return fmt.Sprintf("(%s, %s)", f.Min.String(), f.Max.Decimal.String())
	}
	return fmt.Sprintf("%s-%s", f.Min.String(), f.Max.Decimal.String())
}

var fieldTable = buildFieldTable()

// Fields returns every assumption field in input order.
func Fields() []Field {
	return append([]Field(nil), fieldTable...)
}

// LookupField finds a field by key, ignoring case and treating '-' as '_'.
func LookupField(key string) (Field, bool) {
	key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
	for _, f := range fieldTable {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// FieldKeys returns every field key in input order.
func FieldKeys() []string {
	keys := make([]string, len(fieldTable))
	for i, f := range fieldTable {
		keys[i] = f.Key
	}
	return keys
}

// Clamp returns a copy of a with every field pulled into its valid range.
func Clamp(a Assumptions) Assumptions {
	for _, f := range fieldTable {
		a = f.Set(a, f.Clamp(f.Get(a)))
	}
	return a
}

func count(v int) decimal.Decimal { return decimal.NewFromInt(int64(v)) }

// toCount converts a whole-number decimal to int, saturating just outside
// [-MaxCount, MaxCount] instead of wrapping.
func toCount(v decimal.Decimal) int {
	v = v.Round(0)
	switch {
	case v.GreaterThan(maxCount):
		return MaxCount + 1
	case v.LessThan(maxCount.Neg()):
		return -(MaxCount + 1)
	}
	return int(v.IntPart())
}

func unbounded() decimal.NullDecimal { return decimal.NullDecimal{} }

func upTo(s string) decimal.NullDecimal { return decimal.NullDecimal{Decimal: d(s), Valid: true} }

func buildFieldTable() []Field {
	ratioStep := d("0.01")
	return []Field{
		{
			Key: "population", ExportKey: "Population", Label: "Local population",
			Group: GroupLocalDemand, Kind: KindCount,
			Min: d("1000"), Max: unbounded(), Step: d("100"), UIMax: d("50000"),
			get: func(a Assumptions) decimal.Decimal { return count(a.Population) },
			set: func(a *Assumptions, v decimal.Decimal) { a.Population = toCount(v) },
		},
		{
			Key: "adult_share", ExportKey: "Adult share", Label: "Adults (% of population)",
			Group: GroupLocalDemand, Kind: KindRatio,
			Min: d("0.50"), Max: upTo("0.95"), Step: ratioStep,
			get: func(a Assumptions) decimal.Decimal { return a.AdultShare },
			set: func(a *Assumptions, v decimal.Decimal) { a.AdultShare = v },
		},
		{
			Key: "run_share", ExportKey: "Runner share", Label: "Run at least occasionally (% of adults)",
			Group: GroupLocalDemand, Kind: KindRatio,
			Min: d("0.05"), Max: upTo("0.60"), Step: ratioStep,
			get: func(a Assumptions) decimal.Decimal { return a.RunShare },
			set: func(a *Assumptions, v decimal.Decimal) { a.RunShare = v },
		},
		{
			Key: "pairs_per_runner", ExportKey: "Pairs per runner", Label: "Pairs per runner / year",
			Group: GroupLocalDemand, Kind: KindRatio,
			Min: d("0.20"), Max: upTo("2.0"), Step: d("0.05"),
			get: func(a Assumptions) decimal.Decimal { return a.PairsPerRunner },
			set: func(a *Assumptions, v decimal.Decimal) { a.PairsPerRunner = v },
		},
		{
			Key: "capture_local", ExportKey: "Capture local", Label: "Your capture of local pairs",
			Group: GroupLocalDemand, Kind: KindRatio,
			Min: d("0.05"), Max: upTo("0.90"), Step: ratioStep,
			get: func(a Assumptions) decimal.Decimal { return a.CaptureLocal },
			set: func(a *Assumptions, v decimal.Decimal) { a.CaptureLocal = v },
		},
		{
			Key: "asp_shoes", ExportKey: "ASP shoes", Label: "Average shoe price (ASP, £)",
			Group: GroupLocalDemand, Kind: KindMoney,
			Min: d("40"), Max: unbounded(), Step: d("5"), UIMax: d("300"),
			get: func(a Assumptions) decimal.Decimal { return a.ASPShoes },
			set: func(a *Assumptions, v decimal.Decimal) { a.ASPShoes = v },
		},
		{
			Key: "attach_apparel", ExportKey: "Attach apparel", Label: "Apparel+accessories as % of shoe revenue",
			Group: GroupLocalDemand, Kind: KindRatio,
			Min: d("0"), Max: upTo("1.0"), Step: ratioStep,
			get: func(a Assumptions) decimal.Decimal { return a.AttachApparel },
			set: func(a *Assumptions, v decimal.Decimal) { a.AttachApparel = v },
		},
		{
			Key: "tourist_footfall", ExportKey: "Tourist footfall", Label: "Reachable tourist footfall / year",
			Group: GroupTourism, Kind: KindCount,
			Min: d("0"), Max: unbounded(), Step: d("500"), UIMax: d("50000"),
			get: func(a Assumptions) decimal.Decimal { return count(a.TouristFootfall) },
			set: func(a *Assumptions, v decimal.Decimal) { a.TouristFootfall = toCount(v) },
		},
		{
			Key: "tourist_conv", ExportKey: "Tourist conversion", Label: "Tourist conversion rate",
			Group: GroupTourism, Kind: KindRatio,
			Min: d("0"), Max: upTo("0.10"), Step: d("0.001"),
			get: func(a Assumptions) decimal.Decimal { return a.TouristConv },
			set: func(a *Assumptions, v decimal.Decimal) { a.TouristConv = v },
		},
		{
			Key: "tourist_aov", ExportKey: "Tourist AOV", Label: "Tourist average order value (£)",
			Group: GroupTourism, Kind: KindMoney,
			Min: d("10"), Max: unbounded(), Step: d("5"), UIMax: d("400"),
			get: func(a Assumptions) decimal.Decimal { return a.TouristAOV },
			set: func(a *Assumptions, v decimal.Decimal) { a.TouristAOV = v },
		},
		{
			Key: "num_events", ExportKey: "Event weeks", Label: "Major event weeks / year",
			Group: GroupTourism, Kind: KindCount,
			Min: d("0"), Max: unbounded(), Step: d("1"), UIMax: d("12"),
			get: func(a Assumptions) decimal.Decimal { return count(a.NumEvents) },
			set: func(a *Assumptions, v decimal.Decimal) { a.NumEvents = toCount(v) },
		},
		{
			Key: "event_sales", ExportKey: "Event sales per week", Label: "Avg sales per event week (£)",
			Group: GroupTourism, Kind: KindMoney,
			Min: d("0"), Max: unbounded(), Step: d("500"), UIMax: d("30000"),
			get: func(a Assumptions) decimal.Decimal { return a.EventSales },
			set: func(a *Assumptions, v decimal.Decimal) { a.EventSales = v },
		},
		{
			Key: "service_units", ExportKey: "Service units", Label: "Chargeable services / year",
			Group: GroupServices, Kind: KindCount,
			Min: d("0"), Max: unbounded(), Step: d("10"), UIMax: d("3000"),
			get: func(a Assumptions) decimal.Decimal { return count(a.ServiceUnits) },
			set: func(a *Assumptions, v decimal.Decimal) { a.ServiceUnits = toCount(v) },
		},
		{
			Key: "service_price", ExportKey: "Service price", Label: "Average service price (£)",
			Group: GroupServices, Kind: KindMoney,
			Min: d("0"), Max: unbounded(), Step: d("1"), UIMax: d("100"),
			get: func(a Assumptions) decimal.Decimal { return a.ServicePrice },
			set: func(a *Assumptions, v decimal.Decimal) { a.ServicePrice = v },
		},
		{
			Key: "gm_shoes", ExportKey: "GM shoes", Label: "Shoes GM%",
			Group: GroupMargins, Kind: KindRatio,
			Min: d("0"), Max: upTo("1"), Open: true, Step: ratioStep,
			TypicalMin: upTo("0.20"), TypicalMax: upTo("0.60"),
			get: func(a Assumptions) decimal.Decimal { return a.GMShoes },
			set: func(a *Assumptions, v decimal.Decimal) { a.GMShoes = v },
		},
		{
			Key: "gm_apparel", ExportKey: "GM apparel", Label: "Apparel/acc. GM%",
			Group: GroupMargins, Kind: KindRatio,
			Min: d("0"), Max: upTo("1"), Open: true, Step: ratioStep,
			TypicalMin: upTo("0.30"), TypicalMax: upTo("0.70"),
			get: func(a Assumptions) decimal.Decimal { return a.GMApparel },
			set: func(a *Assumptions, v decimal.Decimal) { a.GMApparel = v },
		},
		{
			Key: "gm_tour", ExportKey: "GM tourist", Label: "Tourist basket GM%",
			Group: GroupMargins, Kind: KindRatio,
			Min: d("0"), Max: upTo("1"), Open: true, Step: ratioStep,
			TypicalMin: upTo("0.20"), TypicalMax: upTo("0.60"),
			get: func(a Assumptions) decimal.Decimal { return a.GMTour },
			set: func(a *Assumptions, v decimal.Decimal) { a.GMTour = v },
		},
		costField("rent", "Rent", "Rent & rates (£)", "80000",
			func(a Assumptions) decimal.Decimal { return a.Rent },
			func(a *Assumptions, v decimal.Decimal) { a.Rent = v }),
		costField("staff", "Staff", "Staff (£)", "80000",
			func(a Assumptions) decimal.Decimal { return a.Staff },
			func(a *Assumptions, v decimal.Decimal) { a.Staff = v }),
		costField("utilities", "Utilities", "Utilities/insurance/EPOS (£)", "30000",
			func(a Assumptions) decimal.Decimal { return a.Utilities },
			func(a *Assumptions, v decimal.Decimal) { a.Utilities = v }),
		costField("marketing", "Marketing", "Marketing & events (£)", "30000",
			func(a Assumptions) decimal.Decimal { return a.Marketing },
			func(a *Assumptions, v decimal.Decimal) { a.Marketing = v }),
		costField("misc", "Misc", "Misc. & professional fees (£)", "20000",
			func(a Assumptions) decimal.Decimal { return a.Misc },
			func(a *Assumptions, v decimal.Decimal) { a.Misc = v }),
		costField("other", "Other", "Other opex (£)", "20000",
			func(a Assumptions) decimal.Decimal { return a.Other },
			func(a *Assumptions, v decimal.Decimal) { a.Other = v }),
		{
			Key: "summer_uplift", ExportKey: "Summer uplift", Label: "June–Aug uplift",
			Group: GroupSeasonality, Kind: KindRatio,
			Min: d("0"), Max: upTo("0.75"), Step: ratioStep,
			get: func(a Assumptions) decimal.Decimal { return a.SummerUplift },
			set: func(a *Assumptions, v decimal.Decimal) { a.SummerUplift = v },
		},
		{
			Key: "shoulder_uplift", ExportKey: "Shoulder uplift", Label: "May & Sep uplift",
			Group: GroupSeasonality, Kind: KindRatio,
			Min: d("0"), Max: upTo("0.50"), Step: ratioStep,
			get: func(a Assumptions) decimal.Decimal { return a.ShoulderUplift },
			set: func(a *Assumptions, v decimal.Decimal) { a.ShoulderUplift = v },
		},
	}
}

func costField(key, exportKey, label, uiMax string,
	get func(Assumptions) decimal.Decimal, set func(*Assumptions, decimal.Decimal)) Field {
	return Field{
		Key: key, ExportKey: exportKey, Label: label,
		Group: GroupCosts, Kind: KindMoney,
		Min: d("0"), Max: unbounded(), Step: d("500"), UIMax: d(uiMax),
		get: get, set: set,
	}
}
