package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/shopmodel/internal/config"
	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/output"
)

func presetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets [name]",
		Short: "List the presets, or print one as an assumptions file",
		Long: "Without a name, list the presets with their headline results. With a name, " +
			"print that preset as a complete assumptions file that can be edited and passed to calculate.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return writePresetDocument(cmd.OutOrStdout(), args[0])
			}

			engine := a.engine()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-14s %12s %18s  %s\n", "PRESET", "TURNOVER", "OPERATING PROFIT", "")
			for _, name := range domain.PresetNames() {
				run, err := engine.RunPreset(name)
				if err != nil {
					return err
				}
				marker := ""
				if name == a.settings.DefaultPreset {
					marker = "(default)"
				}
				fmt.Fprintf(w, "%-14s %12s %18s  %s\n", name,
					output.FormatGBP(run.Results.Turnover),
					output.FormatGBP(run.Results.OperatingProfit),
					marker)
			}
			return nil
		},
	}
}

// writePresetDocument prints every field of a preset as overrides, in
// field order, so the output is a self-contained assumptions file.
func writePresetDocument(w io.Writer, name string) error {
	a, err := domain.Preset(name)
	if err != nil {
		return err
	}
	canonical, _ := domain.CanonicalPresetName(name)

	overrides := &yaml.Node{Kind: yaml.MappingNode}
	group := ""
	for _, f := range domain.Fields() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: f.Key}
		if f.Group != group {
			key.HeadComment = f.Group
			group = f.Group
		}
		value := &yaml.Node{Kind: yaml.ScalarNode, Value: f.Get(a).String(), LineComment: f.Label}
		overrides.Content = append(overrides.Content, key, value)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "preset"},
		{Kind: yaml.ScalarNode, Value: canonical},
		{Kind: yaml.ScalarNode, Value: "overrides"},
		overrides,
	}}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode preset %s: %w", canonical, err)
	}
	return enc.Close()
}

func fieldsCmd(_ *app) *cobra.Command {
	var schema bool

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List every assumption field with its valid range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if schema {
				data, err := json.MarshalIndent(config.AssumptionsSchema(), "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, string(data))
				return err
			}

			group := ""
			for _, f := range domain.Fields() {
				if f.Group != group {
					if group != "" {
						fmt.Fprintln(w)
					}
					fmt.Fprintln(w, strings.ToUpper(f.Group))
					group = f.Group
				}
				fmt.Fprintf(w, "  %-18s %-42s %-6s %-14s step %s\n",
					f.Key, f.Label, f.Kind, f.RangeString(), f.Step.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&schema, "schema", false, "Print the JSON schema of an assumptions file instead")
	return cmd
}
