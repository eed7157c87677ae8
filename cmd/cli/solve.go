package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopower/adapters/excel"
	"gopower/adapters/report"
	domain "gopower/domain/power"
	"gopower/internal/errors"

	"github.com/spf13/cobra"
)

// paramFlags binds the five power analysis parameters to flags
type paramFlags struct {
	u, v, f2, sigLevel, power float64
}

func (p *paramFlags) register(cmd *cobra.Command, withPower bool) {
	cmd.Flags().Float64Var(&p.u, "u", 0, "Numerator degrees of freedom")
	cmd.Flags().Float64Var(&p.v, "v", 0, "Denominator degrees of freedom")
	cmd.Flags().Float64Var(&p.f2, "f2", 0, "Effect size (Cohen's f²)")
	cmd.Flags().Float64Var(&p.sigLevel, "sig-level", 0, "Significance level")
	if withPower {
		cmd.Flags().Float64Var(&p.power, "power", 0, "Power of the test")
	}
}

// spec marks every flag that was not given on the command line as absent
func (p *paramFlags) spec(cmd *cobra.Command) domain.Spec {
	opt := func(name string, v float64) *float64 {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		return domain.Known(v)
	}
	return domain.Spec{
		NumeratorDF:       opt("u", p.u),
		DenominatorDF:     opt("v", p.v),
		EffectSize:        opt("f2", p.f2),
		SignificanceLevel: opt("sig-level", p.sigLevel),
		Power:             opt("power", p.power),
	}
}

func newSolveCmd() *cobra.Command {
	var params paramFlags
	var format, xlsxPath string

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve for the one omitted power analysis parameter",
		Long: `Solve an F-test power analysis. Give exactly four of --u, --v, --f2,
--sig-level and --power; the omitted one is computed.

Example: gopower solve --u 2 --v 97 --sig-level 0.05 --power 0.8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			res, err := c.Solver.Solve(cmd.Context(), params.spec(cmd))
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				wb := excel.NewWorkbook()
				if err := wb.AddPowerResult(res); err != nil {
					wb.Close()
					return err
				}
				if err := saveWorkbook(wb, outputPath(c.Config.Output.Dir, xlsxPath)); err != nil {
					return err
				}
			}
			return writeResult(cmd.OutOrStdout(), format, res)
		},
	}

	params.register(cmd, true)
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, markdown, html or json")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the result to this workbook")

	return cmd
}

func writeResult(out io.Writer, format string, res *domain.Result) error {
	switch strings.ToLower(format) {
	case "text":
		_, err := io.WriteString(out, report.Text(res))
		return err
	case "markdown", "md":
		_, err := io.WriteString(out, report.Markdown(res))
		return err
	case "html":
		_, err := out.Write(report.HTML("Power analysis", report.Markdown(res)))
		return err
	case "json":
		return writeJSON(out, res)
	}
	return unknownFormat(format)
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func unknownFormat(format string) error {
	return errors.InvalidInput(fmt.Sprintf("unknown output format %q", format))
}

// outputPath places relative paths under the configured output directory
func outputPath(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}

func saveWorkbook(wb *excel.Workbook, path string) error {
	defer wb.Close()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	if err := wb.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
