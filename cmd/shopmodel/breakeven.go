package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/shopmodel/internal/breakeven"
	"github.com/rgehrsitz/shopmodel/internal/output"
)

const solveTimeout = 30 * time.Second

func breakEvenCmd(a *app) *cobra.Command {
	var (
		in     inputFlags
		field  string
		target string
		format string
	)

	cmd := &cobra.Command{
		Use:   "break-even [input-file]",
		Short: "Find the driver values that bring operating profit to a target",
		Long: "Solve for the value of one driver (--solve) at which operating profit reaches --target, " +
			"every other assumption held fixed. Without --solve every driver is solved on its own and " +
			"the one needing the smallest relative change is highlighted.\n\n" +
			"The closed-form breakeven sales figure in the report answers a different question: " +
			"the turnover at which gross profit covers operating costs at the current margin mix.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goal, err := decimal.NewFromString(target)
			if err != nil {
				return fmt.Errorf("invalid --target %q: %w", target, err)
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("unsupported format %q (available: table, json)", format)
			}

			input, err := a.load(&in, args)
			printReport(cmd.ErrOrStderr(), err, input)
			if err != nil {
				return err
			}

			solver := a.solver(a.engine())
			ctx, cancel := context.WithTimeout(cmd.Context(), solveTimeout)
			defer cancel()

			w := cmd.OutOrStdout()
			if field != "" {
				result, err := solver.Solve(ctx, breakeven.Request{
					Base:   input.Assumptions,
					Field:  field,
					Target: goal,
				})
				if err != nil {
					return err
				}
				a.logger.Info("break-even solved",
					zap.String("field", result.Field),
					zap.String("value", result.Value.String()),
					zap.Int("iterations", result.Iterations))
				if format == "json" {
					out, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(w, out)
					return err
				}
				_, err = fmt.Fprint(w, (&breakeven.TableFormatter{}).Format(result))
				return err
			}

			sweep, err := solver.SolveAll(ctx, input.Assumptions, goal, nil)
			if err != nil {
				return err
			}
			a.logger.Info("break-even sweep finished",
				zap.Int("solved", len(sweep.Results)),
				zap.Int("unreachable", len(sweep.Unreachable)),
				zap.String("target", output.FormatGBP(goal)))
			if format == "json" {
				out, err := (&breakeven.JSONFormatter{Pretty: true}).FormatSweep(sweep)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, out)
				return err
			}
			_, err = fmt.Fprint(w, (&breakeven.TableFormatter{}).FormatSweep(sweep))
			return err
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&field, "solve", "", "Field to solve for, e.g. capture_local (default: every driver)")
	cmd.Flags().StringVar(&target, "target", "0", "Target operating profit in pounds")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table, json)")
	return cmd
}
