package transform

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestApplyTransforms_EmptyTransforms(t *testing.T) {
	base := domain.DefaultAssumptions()

	result, err := ApplyTransforms(base, nil)
	if err != nil {
		t.Fatalf("Expected no error for empty transforms, got: %v", err)
	}

	if !result.Equal(base) {
		t.Error("Expected unchanged assumptions")
	}
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	base := domain.DefaultAssumptions()
	transforms := []AssumptionTransform{
		&SetField{Field: "rent", Value: dec("30000")},
		nil,
	}

	_, err := ApplyTransforms(base, transforms)
	if err == nil {
		t.Error("Expected error for nil transform in list, got nil")
	}
}

func TestApplyTransforms_ValidationFailure(t *testing.T) {
	base := domain.DefaultAssumptions()
	transforms := []AssumptionTransform{
		&SetField{Field: "rent", Value: dec("30000")},
		&SetField{Field: "parking", Value: dec("1")},
	}

	result, err := ApplyTransforms(base, transforms)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transform set validation failed")

	var te *TransformError
	assert.True(t, errors.As(err, &te))
	assert.True(t, result.Equal(base), "failed chain returns the base")
}

func TestApplyTransforms_DoesNotMutateBase(t *testing.T) {
	base := domain.DefaultAssumptions()

	result, err := ApplyTransforms(base, []AssumptionTransform{
		&SetField{Field: "capture_local", Value: dec("0.5")},
		&ScaleField{Field: "rent", Factor: dec("1.1")},
	})
	require.NoError(t, err)

	assert.True(t, result.CaptureLocal.Equal(dec("0.5")))
	assert.True(t, result.Rent.Equal(dec("31900")))
	assert.True(t, base.CaptureLocal.Equal(dec("0.40")), "Original assumptions were modified")
	assert.True(t, base.Rent.Equal(dec("29000")))
}

func TestApplyTransforms_TransformChaining(t *testing.T) {
	base := domain.DefaultAssumptions()

	// Each transform receives the output of the previous one
	result, err := ApplyTransforms(base, []AssumptionTransform{
		&ScaleField{Field: "marketing", Factor: dec("1.5")},
		&ScaleField{Field: "marketing", Factor: dec("2")},
	})
	require.NoError(t, err)
	assert.True(t, result.Marketing.Equal(dec("24000")), "got %s", result.Marketing)
}

func TestApplyTransforms_PresetThenOverrides(t *testing.T) {
	base := domain.DefaultAssumptions()
	base.Rent = dec("50000")

	result, err := ApplyTransforms(base, []AssumptionTransform{
		&UsePreset{Preset: "stretch"},
		&SetField{Field: "staff", Value: dec("18000")},
	})
	require.NoError(t, err)

	stretch, _ := domain.Preset(domain.PresetStretch)
	assert.True(t, result.Rent.Equal(stretch.Rent), "preset must replace earlier values")
	assert.True(t, result.Staff.Equal(dec("18000")))
	assert.True(t, result.CaptureLocal.Equal(stretch.CaptureLocal))
}

func TestSetField_CountRounds(t *testing.T) {
	sf := &SetField{Field: "num-events", Value: dec("2.6")}
	require.NoError(t, sf.Validate(domain.DefaultAssumptions()))

	result, err := sf.Apply(domain.DefaultAssumptions())
	require.NoError(t, err)
	assert.Equal(t, 3, result.NumEvents)
}

func TestScaleField_Validate(t *testing.T) {
	base := domain.DefaultAssumptions()

	assert.NoError(t, (&ScaleField{Field: "rent", Factor: dec("0")}).Validate(base))
	assert.Error(t, (&ScaleField{Field: "rent", Factor: dec("-1")}).Validate(base))
	assert.Error(t, (&ScaleField{Field: "rates", Factor: dec("1")}).Validate(base))
}

func TestUsePreset_Unknown(t *testing.T) {
	up := &UsePreset{Preset: "Optimistic"}

	err := up.Validate(domain.DefaultAssumptions())
	require.Error(t, err)

	var unknown *domain.UnknownPresetError
	assert.True(t, errors.As(err, &unknown), "should wrap the catalog error")
}

func TestDescriptions(t *testing.T) {
	assert.Equal(t, "Set rent to 31000", (&SetField{Field: "rent", Value: dec("31000")}).Description())
	assert.Equal(t, "Scale rent by +10.0%", (&ScaleField{Field: "rent", Factor: dec("1.1")}).Description())
	assert.Equal(t, "Scale staff by -20.0%", (&ScaleField{Field: "staff", Factor: dec("0.8")}).Description())
	assert.Equal(t, "Start from the Base preset", (&UsePreset{Preset: "Base"}).Description())

	got := Describe([]AssumptionTransform{&UsePreset{Preset: "Base"}, nil})
	assert.Equal(t, []string{"Start from the Base preset"}, got)
}

func TestTransformError(t *testing.T) {
	err := NewTransformError("test_transform", "apply", "test reason", nil)

	if err == nil {
		t.Fatal("Expected non-nil error")
	}

	expectedMsg := "transform test_transform (apply): test reason"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}
}

func TestTransformError_WithWrappedError(t *testing.T) {
	innerErr := fmt.Errorf("inner error")
	err := NewTransformError("test_transform", "validate", "outer reason", innerErr)

	expectedMsg := "transform test_transform (validate): outer reason: inner error"
	if err.Error() != expectedMsg {
		t.Errorf("Expected error message %q, got %q", expectedMsg, err.Error())
	}

	if !errors.Is(err, innerErr) {
		t.Error("Expected wrapped error to be reachable with errors.Is")
	}
}

func TestNewTransformRegistry(t *testing.T) {
	registry := NewTransformRegistry()

	assert.NotNil(t, registry, "Should create registry")
	assert.Equal(t, []string{"preset", "scale", "set"}, registry.List())
}

func TestTransformRegistry_Create_UnknownTransform(t *testing.T) {
	registry := NewTransformRegistry()

	transform, err := registry.Create("unknown_transform", map[string]string{})

	assert.Error(t, err, "Should error for unknown transform")
	assert.Nil(t, transform, "Should return nil transform")
	assert.Contains(t, err.Error(), "unknown transform", "Should have specific error message")
}

func TestParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		name     string
		spec     string
		wantName string
		wantErr  string
	}{
		{"set", "set:field=rent,value=31000", "set", ""},
		{"scale with spaces", "scale: field = staff , factor = 1.2", "scale", ""},
		{"preset", "preset:name=Stretch", "preset", ""},
		{"missing colon", "set", "", "invalid transform spec format"},
		{"bad pair", "set:field", "", "invalid parameter format"},
		{"missing value", "set:field=rent", "", "requires 'value'"},
		{"bad number", "scale:field=rent,factor=lots", "", "invalid factor value"},
		{"missing preset name", "preset:", "", "requires 'name'"},
		{"unknown", "nudge:field=rent", "", "unknown transform"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := registry.ParseTransformSpec(tt.spec)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, tr.Name())
		})
	}
}

func TestParseTransformSpecs_AppliesInOrder(t *testing.T) {
	registry := NewTransformRegistry()

	transforms, err := registry.ParseTransformSpecs([]string{
		"preset:name=Conservative",
		"set:field=marketing,value=7000",
		"scale:field=marketing,factor=2",
	})
	require.NoError(t, err)

	result, err := ApplyTransforms(domain.DefaultAssumptions(), transforms)
	require.NoError(t, err)
	assert.True(t, result.Marketing.Equal(dec("14000")))
	assert.Equal(t, 6000, result.TouristFootfall)
}

func TestParseAssignment(t *testing.T) {
	sf, err := ParseAssignment("capture_local=0.45")
	require.NoError(t, err)
	assert.Equal(t, "capture_local", sf.Field)
	assert.True(t, sf.Value.Equal(dec("0.45")))

	_, err = ParseAssignment("capture_local")
	assert.Error(t, err)

	_, err = ParseAssignment("=3")
	assert.Error(t, err)

	_, err = ParseAssignment("rent=£300")
	assert.Error(t, err)
}
