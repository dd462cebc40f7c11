package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Preset names.
const (
	PresetConservative = "Conservative"
	PresetBase         = "Base"
	PresetStretch      = "Stretch"

	DefaultPresetName = PresetBase
)

// presetOrder is the display order used by selectors.
var presetOrder = []string{PresetConservative, PresetBase, PresetStretch}

// presets holds every preset as a fully specified record. Base is the
// default record; the others spell out every field rather than patching Base
// so that a field added later must be given a value in each preset.
var presets = map[string]Assumptions{
	PresetConservative: {
		Population:      8860,
		AdultShare:      d("0.80"),
		RunShare:        d("0.30"),
		PairsPerRunner:  d("0.70"),
		CaptureLocal:    d("0.30"),
		ASPShoes:        d("130"),
		AttachApparel:   d("0.40"),
		TouristFootfall: 6000,
		TouristConv:     d("0.015"),
		TouristAOV:      d("125"),
		NumEvents:       1,
		EventSales:      d("5000"),
		ServiceUnits:    400,
		ServicePrice:    d("10"),
		GMShoes:         d("0.43"),
		GMApparel:       d("0.52"),
		GMTour:          d("0.45"),
		Rent:            d("29000"),
		Staff:           d("12000"),
		Utilities:       d("7000"),
		Marketing:       d("6000"),
		Misc:            d("5000"),
		Other:           d("0"),
		SummerUplift:    d("0.25"),
		ShoulderUplift:  d("0.10"),
	},
	PresetBase: {
		Population:      8860,
		AdultShare:      d("0.80"),
		RunShare:        d("0.30"),
		PairsPerRunner:  d("0.70"),
		CaptureLocal:    d("0.40"),
		ASPShoes:        d("130"),
		AttachApparel:   d("0.40"),
		TouristFootfall: 8000,
		TouristConv:     d("0.020"),
		TouristAOV:      d("125"),
		NumEvents:       2,
		EventSales:      d("6000"),
		ServiceUnits:    400,
		ServicePrice:    d("10"),
		GMShoes:         d("0.43"),
		GMApparel:       d("0.52"),
		GMTour:          d("0.45"),
		Rent:            d("29000"),
		Staff:           d("15000"),
		Utilities:       d("7000"),
		Marketing:       d("8000"),
		Misc:            d("5000"),
		Other:           d("0"),
		SummerUplift:    d("0.25"),
		ShoulderUplift:  d("0.10"),
	},
	PresetStretch: {
		Population:      8860,
		AdultShare:      d("0.80"),
		RunShare:        d("0.30"),
		PairsPerRunner:  d("0.70"),
		CaptureLocal:    d("0.55"),
		ASPShoes:        d("130"),
		AttachApparel:   d("0.40"),
		TouristFootfall: 10000,
		TouristConv:     d("0.025"),
		TouristAOV:      d("125"),
		NumEvents:       3,
		EventSales:      d("8000"),
		ServiceUnits:    400,
		ServicePrice:    d("10"),
		GMShoes:         d("0.43"),
		GMApparel:       d("0.52"),
		GMTour:          d("0.45"),
		Rent:            d("29000"),
		Staff:           d("20000"),
		Utilities:       d("7000"),
		Marketing:       d("10000"),
		Misc:            d("5000"),
		Other:           d("0"),
		SummerUplift:    d("0.25"),
		ShoulderUplift:  d("0.10"),
	},
}

// UnknownPresetError is returned when a preset name does not match the catalog.
type UnknownPresetError struct {
	Name string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown preset %q (valid: %s)", e.Name, strings.Join(presetOrder, ", "))
}

// PresetNames returns the preset names in display order.
func PresetNames() []string {
	return append([]string(nil), presetOrder...)
}

// DefaultAssumptions returns the Base preset.
func DefaultAssumptions() Assumptions {
	return presets[PresetBase]
}

// Preset returns a copy of the named preset. Names match case-insensitively.
func Preset(name string) (Assumptions, error) {
	canonical, ok := CanonicalPresetName(name)
	if !ok {
		return Assumptions{}, &UnknownPresetError{Name: name}
	}
	return presets[canonical], nil
}

// CanonicalPresetName maps a user supplied name onto the catalog spelling.
func CanonicalPresetName(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, p := range presetOrder {
		if strings.EqualFold(p, name) {
			return p, true
		}
	}
	return "", false
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
