package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Category    string
	Description string
	Transforms  []AssumptionTransform
}

// Template categories, in help order.
const (
	CategoryCosts   = "Cost pressure"
	CategoryDemand  = "Demand"
	CategoryPricing = "Pricing & margin"
)

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func pct(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// CreateBuiltInTemplates creates a template registry with common what-if cases
// for a small running shop.
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "rent_review",
		Category:    CategoryCosts,
		Description: "Rent & rates up 10% at review",
		Transforms: []AssumptionTransform{
			&ScaleField{Field: "rent", Factor: pct("1.10")},
		},
	})

	registry.Register(Template{
		Name:        "part_time_hire",
		Category:    CategoryCosts,
		Description: "Add a part-time assistant (+£9,000 staff)",
		Transforms: []AssumptionTransform{
			&addToField{Field: "staff", Amount: pct("9000")},
		},
	})

	registry.Register(Template{
		Name:        "tourism_push",
		Category:    CategoryDemand,
		Description: "Tourist footfall +25% and conversion +0.5pt",
		Transforms: []AssumptionTransform{
			&ScaleField{Field: "tourist_footfall", Factor: pct("1.25")},
			&addToField{Field: "tourist_conv", Amount: pct("0.005")},
		},
	})

	registry.Register(Template{
		Name:        "extra_event_week",
		Category:    CategoryDemand,
		Description: "One more major event week per year",
		Transforms: []AssumptionTransform{
			&addToField{Field: "num_events", Amount: pct("1")},
		},
	})

	registry.Register(Template{
		Name:        "club_partnership",
		Category:    CategoryDemand,
		Description: "Running club deal: local capture +10pt, marketing +£2,000",
		Transforms: []AssumptionTransform{
			&addToField{Field: "capture_local", Amount: pct("0.10")},
			&addToField{Field: "marketing", Amount: pct("2000")},
		},
	})

	registry.Register(Template{
		Name:        "price_rise",
		Category:    CategoryPricing,
		Description: "Shoe ASP and tourist AOV up 5%",
		Transforms: []AssumptionTransform{
			&ScaleField{Field: "asp_shoes", Factor: pct("1.05")},
			&ScaleField{Field: "tourist_aov", Factor: pct("1.05")},
		},
	})

	registry.Register(Template{
		Name:        "margin_squeeze",
		Category:    CategoryPricing,
		Description: "Supplier terms tighten: every product margin down 3pt",
		Transforms: []AssumptionTransform{
			&addToField{Field: "gm_shoes", Amount: pct("-0.03")},
			&addToField{Field: "gm_apparel", Amount: pct("-0.03")},
			&addToField{Field: "gm_tour", Amount: pct("-0.03")},
		},
	})

	return registry
}

// addToField shifts a field by a fixed amount. Templates use it for
// percentage-point and pound changes; it is not exposed through the registry.
type addToField struct {
	Field  string
	Amount decimal.Decimal
}

func (at *addToField) Name() string { return "add" }

func (at *addToField) Description() string {
	return fmt.Sprintf("Add %s to %s", at.Amount.String(), at.Field)
}

func (at *addToField) Validate(_ domain.Assumptions) error {
	if _, ok := domain.LookupField(at.Field); !ok {
		return NewTransformError(at.Name(), "validate", fmt.Sprintf("unknown field %q", at.Field), nil)
	}
	return nil
}

func (at *addToField) Apply(base domain.Assumptions) (domain.Assumptions, error) {
	f, _ := domain.LookupField(at.Field)
	return f.Set(base, f.Get(base).Add(at.Amount)), nil
}

// ApplyTemplate applies a template to base
func ApplyTemplate(base domain.Assumptions, template Template) (domain.Assumptions, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := map[string][]Template{}
	for _, name := range registry.List() {
		t := registry.templates[name]
		categories[t.Category] = append(categories[t.Category], t)
	}

	for _, category := range []string{CategoryCosts, CategoryDemand, CategoryPricing} {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-20s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  shopmodel calculate --preset Base --template rent_review,price_rise\n")

	return sb.String()
}
