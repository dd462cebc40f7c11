package config

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/xeipuuv/gojsonschema"
)

// AssumptionsSchema returns the JSON schema of an assumptions document,
// including every field's valid range.
func AssumptionsSchema() map[string]interface{} {
	return buildSchema(true)
}

// structuralSchema checks keys and types only; ranges are reported by
// ValidateAssumptions so they can be clamped instead of rejected.
func structuralSchema() map[string]interface{} {
	return buildSchema(false)
}

func buildSchema(withBounds bool) map[string]interface{} {
	overrides := make(map[string]interface{}, len(domain.Fields()))
	for _, f := range domain.Fields() {
		prop := map[string]interface{}{
			"description": f.Label,
		}
		if f.Kind == domain.KindCount {
			prop["type"] = "integer"
		} else {
			prop["type"] = "number"
		}
		if withBounds {
			lo, _ := f.Min.Float64()
			if f.Open {
				prop["exclusiveMinimum"] = lo
			} else {
				prop["minimum"] = lo
			}
			if f.Max.Valid {
				hi, _ := f.Max.Decimal.Float64()
				if f.Open {
					prop["exclusiveMaximum"] = hi
				} else {
					prop["maximum"] = hi
				}
			} else if f.Kind == domain.KindCount {
				prop["maximum"] = domain.MaxCount
			}
		}
		overrides[f.Key] = prop
	}

	presetPattern := fmt.Sprintf("(?i)^\\s*(%s)\\s*$", strings.Join(domain.PresetNames(), "|"))

	return map[string]interface{}{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"title":                "Running shop assumptions",
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"preset": map[string]interface{}{
				"type":        "string",
				"description": "Preset to start from: " + strings.Join(domain.PresetNames(), ", "),
				"pattern":     presetPattern,
			},
			"overrides": map[string]interface{}{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           overrides,
			},
		},
	}
}

// validateDocument runs doc through schema and converts failures into
// schema-level report errors.
func validateDocument(schema, doc map[string]interface{}) (*Report, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	report := NewReport()
	for _, desc := range result.Errors() {
		field := strings.TrimPrefix(desc.Field(), "(root).")
		field = strings.TrimPrefix(field, "overrides.")
		if prop, ok := desc.Details()["property"].(string); ok && desc.Type() == "additional_property_not_allowed" {
			field = prop
		}
		issue := Issue{
			Level:   LevelSchema,
			Field:   field,
			Message: desc.Description(),
		}
		if v := desc.Value(); v != nil && desc.Type() != "additional_property_not_allowed" {
			issue.ActualValue = fmt.Sprint(v)
		}
		report.AddError(issue)
	}
	return report, nil
}
