package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/shopmodel/internal/config"
	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/output"
)

// execute runs the CLI with args on a fresh command tree.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()

	assert.Equal(t, "shopmodel", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"calculate", "validate", "export", "presets", "fields", "break-even", "serve", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "running shop")
	assert.Contains(t, stdout, "break-even")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "shopmodel dev (commit none"))
}

func TestCalculate_DefaultPreset(t *testing.T) {
	stdout, _, err := execute(t, "calculate")
	require.NoError(t, err)

	assert.Contains(t, stdout, "£144,361")
	assert.Contains(t, stdout, "Blended GP%: 47.0% | Breakeven sales: £136,307")
}

func TestCalculate_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"table", "Local pairs captured"},
		{"json", `"preset": "Base"`},
		{"html", "<html"},
		{"csv", "key,value"},
		{"export", "Operating profit,"},
		{"text", "£144,361"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			stdout, _, err := execute(t, "calculate", "--format", tt.format)
			require.NoError(t, err)
			assert.Contains(t, stdout, tt.want)
		})
	}

	_, _, err := execute(t, "calculate", "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
	assert.Contains(t, err.Error(), "aliases: export, report, text, txt")

	stdout, _, err := execute(t, "calculate", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "aliases export, report, text, txt")
}

func TestCalculate_Preset(t *testing.T) {
	stdout, _, err := execute(t, "calculate", "--preset", "conservative", "--format", "json")
	require.NoError(t, err)

	var doc output.Document
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, domain.PresetConservative, doc.Preset)
	assert.True(t, doc.Results.IsLossMaking())

	_, _, err = execute(t, "calculate", "--preset", "optimistic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown preset")
}

func TestCalculate_Overrides(t *testing.T) {
	stdout, _, err := execute(t, "calculate", "--format", "csv",
		"--set", "rent=31000", "--transform", "scale:field=staff,factor=1.5")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Rent,31000\n")
	assert.Contains(t, stdout, "Staff,")
	assert.NotContains(t, stdout, "Staff,15000\n")
}

func TestCalculate_OutOfRange(t *testing.T) {
	_, stderr, err := execute(t, "calculate", "--set", "capture_local=2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, stderr, "capture_local")

	stdout, stderr, err := execute(t, "calculate", "--set", "capture_local=2", "--clamp", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Capture local,0.9\n")
	assert.Contains(t, stderr, "Note:")
}

func TestCalculate_File(t *testing.T) {
	path := writeFile(t, "shop.yaml", "preset: Stretch\noverrides:\n  rent: 31000\n")

	stdout, _, err := execute(t, "calculate", path, "--format", "json")
	require.NoError(t, err)

	var doc output.Document
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, domain.PresetStretch, doc.Preset)
	assert.Equal(t, "31000", doc.Assumptions.Rent.String())
}

func TestCalculate_Templates(t *testing.T) {
	base, _, err := execute(t, "calculate", "--format", "csv")
	require.NoError(t, err)
	adjusted, _, err := execute(t, "calculate", "--format", "csv", "--template", "rent_review")
	require.NoError(t, err)
	assert.NotEqual(t, base, adjusted)

	_, _, err = execute(t, "calculate", "--template", "rent_review,bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown template "bogus"`)

	stdout, _, err := execute(t, "calculate", "--list-templates")
	require.NoError(t, err)
	assert.Contains(t, stdout, "rent_review")
}

func TestCalculate_Write(t *testing.T) {
	dir := t.TempDir()
	stdout, _, err := execute(t, "calculate", "--format", "html", "--write", dir)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "shop_model_report_*.html"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Contains(t, stdout, "Wrote "+matches[0])
}

func TestValidate(t *testing.T) {
	good := writeFile(t, "good.yaml", "preset: Base\noverrides:\n  gm_shoes: 0.45\n")
	stdout, _, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, "is valid")

	bad := writeFile(t, "bad.yaml", "overrides:\n  gm_shoes: 1.2\n  parking: 3\n")
	_, _, err = execute(t, "validate", bad)
	require.Error(t, err)

	_, _, err = execute(t, "validate")
	require.Error(t, err, "a file is required")
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	stdout, _, err := execute(t, "export", "--out", dir, "--preset", "stretch")
	require.NoError(t, err)

	path := filepath.Join(dir, output.ExportFilename)
	assert.Contains(t, stdout, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "key,value\nPopulation,8860\n"))
}

func TestExport_SettingsDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHOPMODEL_OUTPUT_DIR", dir)

	_, _, err := execute(t, "export")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, output.ExportFilename))
}

func TestPresets_List(t *testing.T) {
	stdout, _, err := execute(t, "presets")
	require.NoError(t, err)

	for _, name := range domain.PresetNames() {
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stdout, "£3,782")
	assert.Contains(t, stdout, "(default)")
}

func TestPresets_DocumentRoundTrips(t *testing.T) {
	stdout, _, err := execute(t, "presets", "stretch")
	require.NoError(t, err)
	assert.Contains(t, stdout, "preset: Stretch")
	assert.Contains(t, stdout, "# Local demand")

	input, err := config.NewInputParser().Parse([]byte(stdout))
	require.NoError(t, err)
	want, err := domain.Preset(domain.PresetStretch)
	require.NoError(t, err)
	assert.Equal(t, domain.PresetStretch, input.Preset)
	assert.True(t, want.Equal(input.Assumptions))

	_, _, err = execute(t, "presets", "nope")
	require.Error(t, err)
}

func TestFields(t *testing.T) {
	stdout, _, err := execute(t, "fields")
	require.NoError(t, err)
	assert.Contains(t, stdout, "LOCAL DEMAND")
	assert.Contains(t, stdout, "capture_local")
	assert.Contains(t, stdout, "(0, 1)")
	assert.Equal(t, len(domain.Fields()), strings.Count(stdout, "step "))

	stdout, _, err = execute(t, "fields", "--schema")
	require.NoError(t, err)
	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &schema))
	assert.Contains(t, schema, "properties")
}

func TestBreakEven_Solve(t *testing.T) {
	stdout, _, err := execute(t, "break-even", "--solve", "capture_local")
	require.NoError(t, err)
	assert.Contains(t, stdout, "BREAK-EVEN SOLVE")
	assert.Contains(t, stdout, "Your capture of local pairs")

	stdout, _, err = execute(t, "break-even", "--solve", "rent", "--target", "5000", "--format", "json")
	require.NoError(t, err)
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, "rent", result["field"])
	assert.Equal(t, true, result["success"])
}

func TestBreakEven_Sweep(t *testing.T) {
	stdout, _, err := execute(t, "break-even", "--preset", "conservative")
	require.NoError(t, err)
	assert.Contains(t, stdout, "BREAK-EVEN SWEEP")
	assert.Contains(t, stdout, "◀")
}

func TestBreakEven_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad target", []string{"--target", "lots"}, "invalid --target"},
		{"bad format", []string{"--format", "xml"}, "unsupported format"},
		{"unknown field", []string{"--solve", "parking"}, "parking"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, append([]string{"break-even"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSettingsErrors(t *testing.T) {
	_, _, err := execute(t, "calculate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, _, err = execute(t, "calculate", "--log-format", "xml")
	require.Error(t, err)
}
