package main

import (
	"fmt"
	"io"
	"strings"

	"gopower/adapters/excel"
	"gopower/adapters/report"
	domain "gopower/domain/power"
	"gopower/internal/errors"

	"github.com/spf13/cobra"
)

func newCurveCmd() *cobra.Command {
	var params paramFlags
	var sweep, format, xlsxPath string
	var from, to float64
	var steps int

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Evaluate power over a grid of one parameter",
		Long: `Evaluate power over an evenly spaced grid of the swept parameter,
holding the other parameters fixed.

Example: gopower curve --u 2 --v 97 --sig-level 0.05 --sweep f2 --from 0.01 --to 0.3 --steps 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := domain.ParseTarget(sweep)
			if err != nil {
				return errors.WithCode(errors.CodeInvalidInput, err)
			}
			base := domain.Params{U: params.u, V: params.v, F2: params.f2, SigLevel: params.sigLevel}
			for _, t := range domain.Targets {
				if t == target || t == domain.TargetPower {
					continue
				}
				if !cmd.Flags().Changed(flagName(t)) {
					return errors.InvalidInput(fmt.Sprintf("--%s is required when sweeping %s", flagName(t), target.Symbol()))
				}
			}

			c, err := newContainer()
			if err != nil {
				return err
			}
			curve, err := c.Solver.Curve(cmd.Context(), base, target, from, to, steps)
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				wb := excel.NewWorkbook()
				if err := wb.AddCurve(curve); err != nil {
					wb.Close()
					return err
				}
				if err := saveWorkbook(wb, outputPath(c.Config.Output.Dir, xlsxPath)); err != nil {
					return err
				}
			}
			return writeCurve(cmd.OutOrStdout(), format, curve)
		},
	}

	params.register(cmd, false)
	cmd.Flags().StringVar(&sweep, "sweep", "f2", "Parameter to sweep: u, v, f2 or sig_level")
	cmd.Flags().Float64Var(&from, "from", 0, "First grid value")
	cmd.Flags().Float64Var(&to, "to", 0, "Last grid value")
	cmd.Flags().IntVar(&steps, "steps", 20, "Number of grid points")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, markdown or json")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the curve to this workbook")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")

	return cmd
}

func flagName(t domain.Target) string {
	if t == domain.TargetSignificanceLevel {
		return "sig-level"
	}
	return t.Symbol()
}

func writeCurve(out io.Writer, format string, curve *domain.Curve) error {
	switch strings.ToLower(format) {
	case "text":
		fmt.Fprintf(out, "%-14s %-10s %s\n", curve.Sweep.Symbol(), "power", "num_obs")
		for _, pt := range curve.Points {
			fmt.Fprintf(out, "%-14.6g %-10.4f %d\n", pt.Value, pt.Power, pt.NumObs)
		}
		return nil
	case "markdown", "md":
		_, err := io.WriteString(out, report.CurveMarkdown(curve))
		return err
	case "json":
		return writeJSON(out, curve)
	}
	return unknownFormat(format)
}
