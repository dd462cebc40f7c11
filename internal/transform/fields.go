package transform

import (
	"fmt"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/shopspring/decimal"
)

// SetField overrides one assumption with an absolute value. Range checks are
// left to the boundary validator so that a run can report every problem at
// once; only the field name is checked here.
type SetField struct {
	Field string
	Value decimal.Decimal
}

func (sf *SetField) Name() string {
	return "set"
}

func (sf *SetField) Description() string {
	return fmt.Sprintf("Set %s to %s", sf.Field, sf.Value.String())
}

func (sf *SetField) Validate(_ domain.Assumptions) error {
	if _, ok := domain.LookupField(sf.Field); !ok {
		return NewTransformError(sf.Name(), "validate", fmt.Sprintf("unknown field %q", sf.Field), nil)
	}
	return nil
}

func (sf *SetField) Apply(base domain.Assumptions) (domain.Assumptions, error) {
	f, ok := domain.LookupField(sf.Field)
	if !ok {
		return base, NewTransformError(sf.Name(), "apply", fmt.Sprintf("unknown field %q", sf.Field), nil)
	}
	return f.Set(base, sf.Value), nil
}

// ScaleField multiplies one assumption by a non-negative factor, e.g. 1.1 for
// a ten percent rent review.
type ScaleField struct {
	Field  string
	Factor decimal.Decimal
}

func (sc *ScaleField) Name() string {
	return "scale"
}

func (sc *ScaleField) Description() string {
	pct := sc.Factor.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100))
	sign := "+"
	if pct.IsNegative() {
		sign = ""
	}
	return fmt.Sprintf("Scale %s by %s%s%%", sc.Field, sign, pct.StringFixed(1))
}

func (sc *ScaleField) Validate(_ domain.Assumptions) error {
	if _, ok := domain.LookupField(sc.Field); !ok {
		return NewTransformError(sc.Name(), "validate", fmt.Sprintf("unknown field %q", sc.Field), nil)
	}
	if sc.Factor.IsNegative() {
		return NewTransformError(sc.Name(), "validate", fmt.Sprintf("factor must be non-negative, got %s", sc.Factor.String()), nil)
	}
	return nil
}

func (sc *ScaleField) Apply(base domain.Assumptions) (domain.Assumptions, error) {
	f, ok := domain.LookupField(sc.Field)
	if !ok {
		return base, NewTransformError(sc.Name(), "apply", fmt.Sprintf("unknown field %q", sc.Field), nil)
	}
	return f.Set(base, f.Get(base).Mul(sc.Factor)), nil
}

// UsePreset discards base and starts again from a named preset. Placing it
// first in a chain gives "preset then overrides".
type UsePreset struct {
	Preset string
}

func (up *UsePreset) Name() string {
	return "preset"
}

func (up *UsePreset) Description() string {
	return fmt.Sprintf("Start from the %s preset", up.Preset)
}

func (up *UsePreset) Validate(_ domain.Assumptions) error {
	if _, ok := domain.CanonicalPresetName(up.Preset); !ok {
		_, err := domain.Preset(up.Preset)
		return NewTransformError(up.Name(), "validate", "unknown preset", err)
	}
	return nil
}

func (up *UsePreset) Apply(_ domain.Assumptions) (domain.Assumptions, error) {
	a, err := domain.Preset(up.Preset)
	if err != nil {
		return domain.Assumptions{}, NewTransformError(up.Name(), "apply", "unknown preset", err)
	}
	return a, nil
}
