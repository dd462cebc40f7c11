package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (AssumptionTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("set", createSetField)
	registry.Register("scale", createScaleField)
	registry.Register("preset", createUsePreset)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (AssumptionTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "scale:field=rent,factor=1.1"
func (r *TransformRegistry) ParseTransformSpec(spec string) (AssumptionTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseTransformSpecs parses every spec in order.
func (r *TransformRegistry) ParseTransformSpecs(specs []string) ([]AssumptionTransform, error) {
	out := make([]AssumptionTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ParseAssignment turns "field=value" into a SetField transform.
func ParseAssignment(assignment string) (*SetField, error) {
	kv := strings.SplitN(assignment, "=", 2)
	if len(kv) != 2 {
		return nil, fmt.Errorf("invalid assignment, expected 'field=value', got: %s", assignment)
	}
	return createSetFieldFrom(strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1]))
}

func createSetField(params map[string]string) (AssumptionTransform, error) {
	field, ok := params["field"]
	if !ok {
		return nil, fmt.Errorf("set requires 'field' parameter")
	}

	value, ok := params["value"]
	if !ok {
		return nil, fmt.Errorf("set requires 'value' parameter")
	}

	return createSetFieldFrom(field, value)
}

func createSetFieldFrom(field, value string) (*SetField, error) {
	if field == "" {
		return nil, fmt.Errorf("field name cannot be empty")
	}
	v, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %w", field, err)
	}
	return &SetField{Field: field, Value: v}, nil
}

func createScaleField(params map[string]string) (AssumptionTransform, error) {
	field, ok := params["field"]
	if !ok {
		return nil, fmt.Errorf("scale requires 'field' parameter")
	}

	factorStr, ok := params["factor"]
	if !ok {
		return nil, fmt.Errorf("scale requires 'factor' parameter")
	}

	factor, err := decimal.NewFromString(factorStr)
	if err != nil {
		return nil, fmt.Errorf("invalid factor value: %w", err)
	}

	return &ScaleField{Field: field, Factor: factor}, nil
}

func createUsePreset(params map[string]string) (AssumptionTransform, error) {
	name, ok := params["name"]
	if !ok {
		return nil, fmt.Errorf("preset requires 'name' parameter")
	}
	return &UsePreset{Preset: name}, nil
}
