package transform

import (
	"strings"
	"testing"

	"github.com/rgehrsitz/shopmodel/internal/domain"
)

func TestTemplateRegistry_RegisterAndGet(t *testing.T) {
	registry := NewTemplateRegistry()

	template := Template{
		Name:        "test_template",
		Description: "A test template",
		Transforms:  []AssumptionTransform{},
	}

	registry.Register(template)

	retrieved, ok := registry.Get("test_template")
	if !ok {
		t.Fatal("Expected to find template")
	}
	if retrieved.Name != template.Name {
		t.Errorf("Expected name %s, got %s", template.Name, retrieved.Name)
	}

	// Test case-insensitive
	if _, ok = registry.Get("TEST_TEMPLATE"); !ok {
		t.Fatal("Expected case-insensitive lookup to work")
	}

	if _, ok = registry.Get("nonexistent"); ok {
		t.Error("Expected not to find nonexistent template")
	}
}

func TestCreateBuiltInTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates()

	for _, name := range []string{"rent_review", "part_time_hire", "tourism_push", "extra_event_week", "club_partnership", "price_rise", "margin_squeeze"} {
		if _, ok := registry.Get(name); !ok {
			t.Errorf("Expected built-in template %s", name)
		}
	}
}

func TestBuiltInTemplates_ApplyToEveryPreset(t *testing.T) {
	registry := CreateBuiltInTemplates()

	for _, preset := range domain.PresetNames() {
		base, _ := domain.Preset(preset)
		for _, name := range registry.List() {
			template, _ := registry.Get(name)
			result, err := ApplyTemplate(base, template)
			if err != nil {
				t.Errorf("%s on %s: %v", name, preset, err)
				continue
			}
			if result.Equal(base) {
				t.Errorf("%s on %s changed nothing", name, preset)
			}
		}
	}
}

func TestBuiltInTemplate_RentReview(t *testing.T) {
	template, _ := CreateBuiltInTemplates().Get("rent_review")

	result, err := ApplyTemplate(domain.DefaultAssumptions(), template)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.Rent.Equal(dec("31900")) {
		t.Errorf("Expected rent 31900, got %s", result.Rent)
	}
}

func TestBuiltInTemplate_ExtraEventWeek(t *testing.T) {
	template, _ := CreateBuiltInTemplates().Get("extra_event_week")

	result, err := ApplyTemplate(domain.DefaultAssumptions(), template)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.NumEvents != 3 {
		t.Errorf("Expected 3 event weeks, got %d", result.NumEvents)
	}
}

func TestBuiltInTemplate_MarginSqueeze(t *testing.T) {
	template, _ := CreateBuiltInTemplates().Get("margin_squeeze")

	result, err := ApplyTemplate(domain.DefaultAssumptions(), template)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.GMShoes.Equal(dec("0.40")) || !result.GMApparel.Equal(dec("0.49")) || !result.GMTour.Equal(dec("0.42")) {
		t.Errorf("Unexpected margins: %s %s %s", result.GMShoes, result.GMApparel, result.GMTour)
	}
}

func TestParseTemplateList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"Single template", "rent_review", []string{"rent_review"}},
		{"Multiple templates", "rent_review,price_rise", []string{"rent_review", "price_rise"}},
		{"With spaces", " rent_review , price_rise ", []string{"rent_review", "price_rise"}},
		{"Empty string", "", nil},
		{"Only spaces", "  ,  ,  ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseTemplateList(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("Expected %d templates, got %d", len(tt.expected), len(result))
				return
			}
			for i, expected := range tt.expected {
				if result[i] != expected {
					t.Errorf("Expected template[%d] = %s, got %s", i, expected, result[i])
				}
			}
		})
	}
}

func TestGetTemplateHelp(t *testing.T) {
	help := GetTemplateHelp(CreateBuiltInTemplates())

	for _, want := range []string{"Available Templates", CategoryCosts, CategoryDemand, CategoryPricing, "rent_review", "Usage:"} {
		if !strings.Contains(help, want) {
			t.Errorf("Help should contain %q", want)
		}
	}
}

func TestGetTemplateHelp_EmptyRegistry(t *testing.T) {
	help := GetTemplateHelp(NewTemplateRegistry())

	if help != "No templates registered" {
		t.Errorf("Expected 'No templates registered', got: %s", help)
	}
}
