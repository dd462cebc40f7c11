package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/transform"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk and on-the-wire form of a set of assumptions:
// a preset to start from plus field overrides.
type Document struct {
	Preset    string                     `yaml:"preset,omitempty" json:"preset,omitempty"`
	Overrides map[string]decimal.Decimal `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// Input is a parsed, resolved and validated Document.
type Input struct {
	Preset      string
	Assumptions domain.Assumptions
	Report      *Report
}

// InputParser handles parsing of assumption files
type InputParser struct {
	// DefaultPreset is used when a document names no preset.
	DefaultPreset string
	// Clamp pulls out-of-range values into range instead of rejecting them.
	Clamp bool
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{DefaultPreset: domain.DefaultPresetName}
}

// LoadFromFile loads assumptions from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*Input, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	input, err := ip.Parse(data)
	if err != nil {
		return input, fmt.Errorf("%s: %w", filename, err)
	}
	return input, nil
}

// Parse decodes, schema-checks and resolves a YAML or JSON document. On a
// validation failure the returned error is a *ValidationError and the
// partially filled Input still carries the report.
func (ip *InputParser) Parse(data []byte) (*Input, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	report, err := validateDocument(structuralSchema(), raw)
	if err != nil {
		return nil, err
	}
	if !report.Valid {
		return &Input{Report: report}, report.Err()
	}

	var doc rawDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	overrides := make(map[string]decimal.Decimal, len(doc.Overrides))
	for key, node := range doc.Overrides {
		v, err := decimal.NewFromString(node.Value)
		if err != nil {
			return nil, fmt.Errorf("override %s: %w", key, err)
		}
		overrides[key] = v
	}

	return ip.Resolve(Document{Preset: doc.Preset, Overrides: overrides})
}

// Resolve applies a document's preset and overrides and validates the result.
func (ip *InputParser) Resolve(doc Document) (*Input, error) {
	presetName := doc.Preset
	if presetName == "" {
		presetName = ip.defaultPreset()
	}
	canonical, ok := domain.CanonicalPresetName(presetName)
	if !ok {
		report := NewReport()
		report.AddError(Issue{
			Level:       LevelSchema,
			Field:       "preset",
			Message:     "unknown preset",
			ActualValue: presetName,
			Expected:    fmt.Sprintf("one of %v", domain.PresetNames()),
		})
		return &Input{Report: report}, report.Err()
	}

	transforms := []transform.AssumptionTransform{&transform.UsePreset{Preset: canonical}}
	for _, key := range sortedKeys(doc.Overrides) {
		transforms = append(transforms, &transform.SetField{Field: key, Value: doc.Overrides[key]})
	}

	a, err := transform.ApplyTransforms(domain.Assumptions{}, transforms)
	if err != nil {
		report := NewReport()
		report.AddError(Issue{Level: LevelSchema, Message: err.Error()})
		return &Input{Preset: canonical, Report: report}, report.Err()
	}

	return ip.Finish(canonical, a)
}

// Finish validates fully built assumptions, clamping when the parser is
// configured to.
func (ip *InputParser) Finish(preset string, a domain.Assumptions) (*Input, error) {
	report := NewReport()
	if ip.Clamp {
		var clampReport *Report
		a, clampReport = ClampAssumptions(a)
		report.Merge(clampReport)
	}
	report.Merge(ValidateAssumptions(a))

	input := &Input{Preset: preset, Assumptions: a, Report: report}
	return input, report.Err()
}

func (ip *InputParser) defaultPreset() string {
	if ip.DefaultPreset == "" {
		return domain.DefaultPresetName
	}
	return ip.DefaultPreset
}

// rawDocument keeps override scalars as written so decimals are exact.
type rawDocument struct {
	Preset    string               `yaml:"preset"`
	Overrides map[string]yaml.Node `yaml:"overrides"`
}

// MarshalDocument renders a document as YAML, for writing starter files.
// Override values are written from their decimal text so they read back
// exactly.
func MarshalDocument(doc Document) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	if doc.Preset != "" {
		root.Content = append(root.Content, scalar("preset"), scalar(doc.Preset))
	}
	if len(doc.Overrides) > 0 {
		overrides := &yaml.Node{Kind: yaml.MappingNode}
		for _, key := range sortedKeys(doc.Overrides) {
			overrides.Content = append(overrides.Content, scalar(key), scalar(doc.Overrides[key].String()))
		}
		root.Content = append(root.Content, scalar("overrides"), overrides)
	}
	if len(root.Content) == 0 {
		return []byte("{}\n"), nil
	}
	return yaml.Marshal(root)
}

// scalar builds an untagged plain scalar; numbers stay unquoted.
func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

// DocumentFor returns the document that reproduces a from preset: only
// fields that differ from the preset become overrides.
func DocumentFor(preset string, a domain.Assumptions) (Document, error) {
	base, err := domain.Preset(preset)
	if err != nil {
		return Document{}, err
	}
	canonical, _ := domain.CanonicalPresetName(preset)
	doc := Document{Preset: canonical}
	for _, f := range domain.Fields() {
		if v := f.Get(a); !v.Equal(f.Get(base)) {
			if doc.Overrides == nil {
				doc.Overrides = map[string]decimal.Decimal{}
			}
			doc.Overrides[f.Key] = v
		}
	}
	return doc, nil
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
