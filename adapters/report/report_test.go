package report

import (
	"strings"
	"testing"

	"gopower/domain/diagnostics"
	"gopower/domain/power"

	"github.com/stretchr/testify/assert"
)

func sampleResult() *power.Result {
	return &power.Result{
		Params:     power.Params{U: 2, V: 97, F2: 0.09951, SigLevel: 0.05, Power: 0.8},
		Target:     power.TargetEffectSize,
		NumObs:     100,
		Iterations: 9,
		Bracket:    &power.Bracket{Lower: 1e-7, Upper: 1e7},
	}
}

func TestText_Layout(t *testing.T) {
	out := Text(sampleResult())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Equal(t, []string{
		"Power analysis results: ",
		" u is: 2,",
		" v is: 97,",
		" f2 is: 0.09951,",
		" sig_level is: 0.05,",
		" power is: 0.8,",
		" num_obs is: 100",
	}, lines)
}

func TestMarkdown_MarksSolvedParameter(t *testing.T) {
	md := Markdown(sampleResult())
	assert.Contains(t, md, "| **f2** (solved) | 0.09951 |")
	assert.Contains(t, md, "| num_obs | 100 |")
	assert.Contains(t, md, "in 9 iterations")

	r := sampleResult()
	r.Bracket = nil
	assert.NotContains(t, Markdown(r), "iterations")
}

func TestCurveMarkdown(t *testing.T) {
	md := CurveMarkdown(&power.Curve{
		Sweep:  power.TargetEffectSize,
		Points: []power.CurvePoint{{Value: 0.05, Power: 0.5123, NumObs: 100}},
	})
	assert.Contains(t, md, "| f2 | power | num_obs |")
	assert.Contains(t, md, "| 0.05 | 0.5123 | 100 |")
}

func TestDiagnosticsMarkdown(t *testing.T) {
	rep := &diagnostics.Report{
		N: 3, P: 2,
		Fit: diagnostics.ModelFit{
			Coefficients:  []float64{1.5, 2},
			HasIntercept:  true,
			PredictorName: []string{"dose"},
		},
		Observations: []diagnostics.Observation{
			{Index: 0}, {Index: 1, CooksDistance: 2.5}, {Index: 2},
		},
		CooksCutoff: 4.0 / 3,
		Influential: []int{1},
	}

	md := DiagnosticsMarkdown(rep)
	assert.Contains(t, md, "| (intercept) | 1.5 |")
	assert.Contains(t, md, "| dose | 2 |")
	assert.Contains(t, md, "| 1 |")
	assert.Contains(t, md, "Influential observations")

	rep.Influential = nil
	assert.Contains(t, DiagnosticsMarkdown(rep), "No observation exceeds")
}

func TestHTML_RendersTable(t *testing.T) {
	page := string(HTML("Power analysis", Markdown(sampleResult())))
	assert.Contains(t, page, "<title>Power analysis</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<strong>f2</strong>")
}
