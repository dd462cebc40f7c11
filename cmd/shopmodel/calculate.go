package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/shopmodel/internal/config"
	"github.com/rgehrsitz/shopmodel/internal/domain"
	"github.com/rgehrsitz/shopmodel/internal/output"
	"github.com/rgehrsitz/shopmodel/internal/transform"
)

// inputFlags select the assumptions a command runs on: an optional file,
// a preset and what-if adjustments applied on top.
type inputFlags struct {
	preset     string
	sets       []string
	transforms []string
	templates  string
	clamp      bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "", "Preset to start from when the input names none (default from settings)")
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "Override a field, e.g. --set rent=31000 (repeatable)")
	cmd.Flags().StringArrayVar(&f.transforms, "transform", nil, "Apply a transform, e.g. --transform scale:field=rent,factor=1.1 (repeatable)")
	cmd.Flags().StringVar(&f.templates, "template", "", "Comma-separated what-if templates to apply (see --list-templates)")
	cmd.Flags().BoolVar(&f.clamp, "clamp", false, "Clamp out-of-range values instead of rejecting them")
}

// adjustments turns the what-if flags into transforms, templates first and
// single-field overrides last.
func (f *inputFlags) adjustments() ([]transform.AssumptionTransform, error) {
	var out []transform.AssumptionTransform

	templates := transform.CreateBuiltInTemplates()
	for _, name := range transform.ParseTemplateList(f.templates) {
		t, ok := templates.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown template %q (available: %s)", name, strings.Join(templates.List(), ", "))
		}
		out = append(out, t.Transforms...)
	}

	specs, err := transform.NewTransformRegistry().ParseTransformSpecs(f.transforms)
	if err != nil {
		return nil, err
	}
	out = append(out, specs...)

	for _, assignment := range f.sets {
		sf, err := transform.ParseAssignment(assignment)
		if err != nil {
			return nil, err
		}
		out = append(out, sf)
	}
	return out, nil
}

// load resolves the assumptions from args and flags. The returned input is
// non-nil on validation failures so callers can print the report.
func (a *app) load(f *inputFlags, args []string) (*config.Input, error) {
	parser := a.settings.Parser()
	if f.preset != "" {
		canonical, ok := domain.CanonicalPresetName(f.preset)
		if !ok {
			return nil, &domain.UnknownPresetError{Name: f.preset}
		}
		parser.DefaultPreset = canonical
	}
	if f.clamp {
		parser.Clamp = true
	}

	var (
		input *config.Input
		err   error
	)
	if len(args) > 0 {
		input, err = parser.LoadFromFile(args[0])
	} else {
		input, err = parser.Resolve(config.Document{})
	}
	if err != nil {
		return input, err
	}

	adjust, err := f.adjustments()
	if err != nil {
		return nil, err
	}
	if len(adjust) == 0 {
		return input, nil
	}
	for _, d := range transform.Describe(adjust) {
		a.logger.Debug("applying adjustment", zap.String("transform", d))
	}
	adjusted, err := transform.ApplyTransforms(input.Assumptions, adjust)
	if err != nil {
		return nil, err
	}
	return parser.Finish(input.Preset, adjusted)
}

// printReport writes warnings and notes, or every error of a failed report.
func printReport(w io.Writer, err error, input *config.Input) {
	var verr *config.ValidationError
	if errors.As(err, &verr) && verr.Report != nil {
		for _, issue := range verr.Report.Errors {
			fmt.Fprintf(w, "Error: %s\n", issue.String())
		}
		return
	}
	if input == nil || input.Report == nil {
		return
	}
	for _, msg := range input.Report.Messages() {
		fmt.Fprintf(w, "Note: %s\n", msg)
	}
}

func calculateCmd(a *app) *cobra.Command {
	var (
		in       inputFlags
		format   string
		writeDir string
		listTpl  bool
	)

	cmd := &cobra.Command{
		Use:   "calculate [input-file]",
		Short: "Run the model and print the report",
		Long: "Run the model on a preset, or on an assumptions file (YAML or JSON with " +
			"'preset' and 'overrides'), after applying any what-if adjustments.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if listTpl {
				fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
				return nil
			}

			if !cmd.Flags().Changed("format") {
				format = a.settings.OutputFormat
			}
			f := output.GetFormatterByName(format)
			if f == nil {
				return fmt.Errorf("unsupported format %q (available: %s; aliases: %s)", format,
					strings.Join(output.AvailableFormatterNames(), ", "),
					strings.Join(output.AvailableFormatAliases(), ", "))
			}

			input, err := a.load(&in, args)
			printReport(cmd.ErrOrStderr(), err, input)
			if err != nil {
				return err
			}

			run := a.engine().Run(input.Preset, input.Assumptions)
			a.logger.Info("model calculated",
				zap.String("preset", run.Preset),
				zap.String("operating_profit", run.Results.OperatingProfit.StringFixed(2)))

			if writeDir != "" {
				path, err := output.WriteFormatted(f, run, writeDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				return nil
			}

			data, err := f.Format(run)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "console", fmt.Sprintf("Output format (%s; aliases %s)",
		strings.Join(output.AvailableFormatterNames(), ", "), strings.Join(output.AvailableFormatAliases(), ", ")))
	cmd.Flags().StringVarP(&writeDir, "write", "w", "", "Write the report into this directory instead of stdout")
	cmd.Flags().BoolVar(&listTpl, "list-templates", false, "List the built-in what-if templates")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate an assumptions file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := a.settings.Parser().LoadFromFile(args[0])
			printReport(cmd.ErrOrStderr(), err, input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assumptions file %s is valid (%s)\n", args[0], input.Report.Summary)
			return nil
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	var (
		in  inputFlags
		dir string
	)

	cmd := &cobra.Command{
		Use:   "export [input-file]",
		Short: "Write the key,value CSV export",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := a.load(&in, args)
			printReport(cmd.ErrOrStderr(), err, input)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("out") {
				dir = a.settings.OutputDir
			}

			run := a.engine().Run(input.Preset, input.Assumptions)
			path, err := output.WriteFormatted(output.CSVExporter{}, run, dir)
			if err != nil {
				return err
			}
			a.logger.Info("export written", zap.String("path", path))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&dir, "out", "o", ".", "Directory to write "+output.ExportFilename+" into")
	return cmd
}
