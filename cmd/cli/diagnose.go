package main

import (
	"fmt"
	"io"
	"strings"

	"gopower/adapters/excel"
	"gopower/adapters/report"
	"gopower/internal/diagnostics"
	"gopower/internal/errors"
	"gopower/internal/testkit"

	"github.com/spf13/cobra"
)

func newDiagnoseCmd() *cobra.Command {
	var file, sheet, response, format, xlsxPath string
	var predictors []string
	var noIntercept, demo bool
	var seed int64
	var outlier int

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Fit a linear model and compute regression diagnostics",
		Long: `Fit response ~ predictors by least squares and report residuals,
Q-Q, scale-location and Cook's distance diagnostics.

Example: gopower diagnose --file data.csv --response y --predictors x1,x2
         gopower diagnose --demo --outlier 17`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var y []float64
			var x [][]float64
			var names []string

			switch {
			case demo:
				cfg := testkit.DefaultRegressionConfig()
				cfg.Seed = seed
				data, err := testkit.NewRegressionDataGenerator(cfg).Generate()
				if err != nil {
					return err
				}
				if outlier >= 0 {
					if outlier >= len(data.Y) {
						return errors.InvalidInput(fmt.Sprintf("--outlier must be below %d", len(data.Y)))
					}
					data.InjectOutlier(outlier, 3*cfg.PredictorMax, 25*cfg.NoiseSD)
				}
				y, x, names = data.Y, data.X, data.Names
			case file != "":
				if response == "" || len(predictors) == 0 {
					return errors.InvalidInput("--response and --predictors are required with --file")
				}
				data, err := excel.NewDataReader(file).WithSheet(sheet).ReadData()
				if err != nil {
					return err
				}
				cols, err := data.RegressionColumns(response, predictors)
				if err != nil {
					return errors.WithCode(errors.CodeInvalidInput, err)
				}
				if len(cols.DroppedRows) > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d incomplete rows\n", len(cols.DroppedRows))
				}
				y, x, names = cols.Y, cols.X, cols.Predictors
			default:
				return errors.InvalidInput("either --file or --demo is required")
			}

			c, err := newContainer()
			if err != nil {
				return err
			}
			rep, err := c.Analyzer.Analyze(y, x, diagnostics.Options{
				NoIntercept:    noIntercept,
				PredictorNames: names,
			})
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				wb := excel.NewWorkbook()
				if err := wb.AddDiagnostics(rep); err != nil {
					wb.Close()
					return err
				}
				if err := saveWorkbook(wb, outputPath(c.Config.Output.Dir, xlsxPath)); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "markdown", "md", "text":
				_, err = io.WriteString(out, report.DiagnosticsMarkdown(rep))
			case "html":
				_, err = out.Write(report.HTML("Regression diagnostics", report.DiagnosticsMarkdown(rep)))
			case "json":
				err = writeJSON(out, rep)
			default:
				err = unknownFormat(format)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV or XLSX file with the data")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to read (default first sheet)")
	cmd.Flags().StringVar(&response, "response", "", "Response column")
	cmd.Flags().StringSliceVar(&predictors, "predictors", nil, "Predictor columns, comma separated")
	cmd.Flags().BoolVar(&noIntercept, "no-intercept", false, "Fit without an intercept")
	cmd.Flags().BoolVar(&demo, "demo", false, "Use a synthetic dataset instead of --file")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for --demo")
	cmd.Flags().IntVar(&outlier, "outlier", -1, "Turn this --demo observation into a high-influence outlier")
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: markdown, html or json")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the diagnostics to this workbook")

	return cmd
}
