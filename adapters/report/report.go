package report

import (
	"fmt"
	"strings"

	"gopower/domain/diagnostics"
	"gopower/domain/power"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Text renders a power analysis in the classic plain report layout
func Text(r *power.Result) string {
	var b strings.Builder
	b.WriteString("Power analysis results: \n")
	fmt.Fprintf(&b, " u is: %v,\n", r.U)
	fmt.Fprintf(&b, " v is: %v,\n", r.V)
	fmt.Fprintf(&b, " f2 is: %v,\n", r.F2)
	fmt.Fprintf(&b, " sig_level is: %v,\n", r.SigLevel)
	fmt.Fprintf(&b, " power is: %v,\n", r.Power)
	fmt.Fprintf(&b, " num_obs is: %d\n", r.NumObs)
	return b.String()
}

// Markdown renders a power analysis as a markdown table, marking the solved row
func Markdown(r *power.Result) string {
	var b strings.Builder
	b.WriteString("## Power analysis\n\n")
	b.WriteString("| parameter | value |\n|---|---|\n")
	for _, t := range power.Targets {
		name := t.Symbol()
		if t == r.Target {
			name = "**" + name + "** (solved)"
		}
		fmt.Fprintf(&b, "| %s | %.6g |\n", name, r.Params.Get(t))
	}
	fmt.Fprintf(&b, "| num_obs | %d |\n", r.NumObs)
	if r.Bracket != nil {
		fmt.Fprintf(&b, "\nSolved over %s in %d iterations.\n", r.Bracket, r.Iterations)
	}
	return b.String()
}

// CurveMarkdown renders a power curve as a markdown table
func CurveMarkdown(c *power.Curve) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Power curve over %s\n\n", c.Sweep.Symbol())
	fmt.Fprintf(&b, "| %s | power | num_obs |\n|---|---|---|\n", c.Sweep.Symbol())
	for _, pt := range c.Points {
		fmt.Fprintf(&b, "| %.6g | %.4f | %d |\n", pt.Value, pt.Power, pt.NumObs)
	}
	return b.String()
}

// DiagnosticsMarkdown summarises a regression diagnostics report
func DiagnosticsMarkdown(rep *diagnostics.Report) string {
	var b strings.Builder
	b.WriteString("## Regression diagnostics\n\n")
	fmt.Fprintf(&b, "n = %d, parameters = %d, R² = %.4f, residual SE = %.4g, F = %.4g (p = %.3g)\n\n",
		rep.N, rep.P, rep.Fit.RSquared, rep.Fit.ResidualSE, rep.Fit.FStatistic, rep.Fit.FPValue)

	b.WriteString("| coefficient | estimate |\n|---|---|\n")
	names := coefficientNames(rep.Fit)
	for i, c := range rep.Fit.Coefficients {
		fmt.Fprintf(&b, "| %s | %.6g |\n", names[i], c)
	}

	s := rep.ResidualStats
	b.WriteString("\n| residuals | min | q1 | median | q3 | max |\n|---|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| | %.4g | %.4g | %.4g | %.4g | %.4g |\n", s.Min, s.Q1, s.Median, s.Q3, s.Max)

	fmt.Fprintf(&b, "\nQ-Q reference line: sample = %.4g + %.4g × theoretical\n\n", rep.QQLine.Intercept, rep.QQLine.Slope)

	if len(rep.Influential) == 0 {
		fmt.Fprintf(&b, "No observation exceeds Cook's distance %.4g.\n", rep.CooksCutoff)
		return b.String()
	}
	fmt.Fprintf(&b, "Influential observations (Cook's d > %.4g):\n\n", rep.CooksCutoff)
	b.WriteString("| obs | fitted | residual | leverage | cook's d |\n|---|---|---|---|---|\n")
	for _, i := range rep.Influential {
		o := rep.Observations[i]
		fmt.Fprintf(&b, "| %d | %.4g | %.4g | %.4g | %.4g |\n", o.Index, o.Fitted, o.Residual, o.Leverage, o.CooksDistance)
	}
	return b.String()
}

func coefficientNames(fit diagnostics.ModelFit) []string {
	names := make([]string, len(fit.Coefficients))
	offset := 0
	if fit.HasIntercept && len(names) > 0 {
		names[0] = "(intercept)"
		offset = 1
	}
	for i := offset; i < len(names); i++ {
		j := i - offset
		if j < len(fit.PredictorName) {
			names[i] = fit.PredictorName[j]
		} else {
			names[i] = fmt.Sprintf("x%d", j+1)
		}
	}
	return names
}

// HTML renders markdown as a complete HTML page
func HTML(title, md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}
