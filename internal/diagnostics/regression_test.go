package diagnostics

import (
	"math"
	"sort"
	"testing"

	"gopower/domain/core"
	"gopower/internal"
	"gopower/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, cfg testkit.RegressionGeneratorConfig) *testkit.RegressionData {
	t.Helper()
	data, err := testkit.NewRegressionDataGenerator(cfg).Generate()
	require.NoError(t, err)
	return data
}

func TestAnalyze_RecoversCoefficients(t *testing.T) {
	cfg := testkit.DefaultRegressionConfig()
	cfg.Observations = 400
	cfg.NoiseSD = 0.5
	data := generate(t, cfg)

	report, err := NewAnalyzer(internal.NopLogger()).Analyze(data.Y, data.X, Options{PredictorNames: data.Names})
	require.NoError(t, err)

	require.Len(t, report.Fit.Coefficients, 3)
	assert.InDelta(t, cfg.Intercept, report.Fit.Coefficients[0], 0.25)
	assert.InDelta(t, cfg.Slopes[0], report.Fit.Coefficients[1], 0.05)
	assert.InDelta(t, cfg.Slopes[1], report.Fit.Coefficients[2], 0.05)
	assert.InDelta(t, cfg.NoiseSD, report.Fit.ResidualSE, 0.1)
	assert.Greater(t, report.Fit.RSquared, 0.9)
	assert.Less(t, report.Fit.FPValue, 1e-6)
	assert.Equal(t, 2, report.Fit.DFModel)
	assert.Equal(t, 397, report.Fit.DFResidual)
	assert.Equal(t, data.Names, report.Fit.PredictorName)
}

func TestAnalyze_LeastSquaresIdentities(t *testing.T) {
	data := generate(t, testkit.DefaultRegressionConfig())
	report, err := NewAnalyzer(internal.NopLogger()).Analyze(data.Y, data.X, Options{})
	require.NoError(t, err)

	var levSum, residSum, residDotFitted float64
	for _, obs := range report.Observations {
		levSum += obs.Leverage
		residSum += obs.Residual
		residDotFitted += obs.Residual * obs.Fitted
		assert.GreaterOrEqual(t, obs.Leverage, 0.0)
		assert.LessOrEqual(t, obs.Leverage, 1.0)
		assert.InDelta(t, math.Sqrt(math.Abs(obs.Studentized)), obs.ScaleLocation, 1e-12)
	}

	assert.InDelta(t, float64(report.P), levSum, 1e-9)
	assert.InDelta(t, 0, residSum, 1e-8)
	assert.InDelta(t, 0, residDotFitted, 1e-6)
	assert.Equal(t, 4/float64(report.N), report.CooksCutoff)
}

func TestAnalyze_SimpleRegressionLeverage(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	y := []float64{2.1, 3.9, 6.2, 7.8, 10.1, 12.2, 13.8, 16.1}
	x := make([][]float64, len(xs))
	for i, v := range xs {
		x[i] = []float64{v}
	}

	report, err := NewAnalyzer(internal.NopLogger()).Analyze(y, x, Options{})
	require.NoError(t, err)

	// h_i = 1/n + (x_i - mean)^2 / Sxx
	mean, sxx := 4.5, 42.0
	for i, obs := range report.Observations {
		want := 1/8.0 + (xs[i]-mean)*(xs[i]-mean)/sxx
		assert.InDelta(t, want, obs.Leverage, 1e-12, "obs %d", i)
	}
}

func TestAnalyze_FlagsInjectedOutlier(t *testing.T) {
	cfg := testkit.DefaultRegressionConfig()
	cfg.Observations = 60
	data := generate(t, cfg)
	data.InjectOutlier(17, 30, 25)

	report, err := NewAnalyzer(internal.NopLogger()).Analyze(data.Y, data.X, Options{})
	require.NoError(t, err)

	assert.Contains(t, report.Influential, 17)
	maxIdx := 0
	for i, obs := range report.Observations {
		if obs.CooksDistance > report.Observations[maxIdx].CooksDistance {
			maxIdx = i
		}
	}
	assert.Equal(t, 17, maxIdx)
}

func TestAnalyze_QQPanel(t *testing.T) {
	data := generate(t, testkit.DefaultRegressionConfig())
	report, err := NewAnalyzer(internal.NopLogger()).Analyze(data.Y, data.X, Options{})
	require.NoError(t, err)

	require.Len(t, report.QQ, report.N)
	theoretical := make([]float64, len(report.QQ))
	sample := make([]float64, len(report.QQ))
	for i, pt := range report.QQ {
		theoretical[i] = pt.Theoretical
		sample[i] = pt.Sample
	}
	assert.True(t, sort.Float64sAreSorted(theoretical))
	assert.True(t, sort.Float64sAreSorted(sample))
	assert.InDelta(t, 0, theoretical[len(theoretical)/2]+theoretical[len(theoretical)-1-len(theoretical)/2], 1e-9)

	// Unit-variance noise gives a reference slope near the residual SD.
	assert.InDelta(t, report.Fit.ResidualSE, report.QQLine.Slope, 0.35)
	assert.LessOrEqual(t, report.ResidualStats.Min, report.ResidualStats.Q1)
	assert.LessOrEqual(t, report.ResidualStats.Q1, report.ResidualStats.Median)
	assert.LessOrEqual(t, report.ResidualStats.Median, report.ResidualStats.Q3)
	assert.LessOrEqual(t, report.ResidualStats.Q3, report.ResidualStats.Max)
}

func TestQQ_ReferenceLineThroughLinearQuartiles(t *testing.T) {
	residuals := []float64{2.0, -0.5, 0.9, -3, 0.2, 1.4, 0, -1}

	points, line, err := NewAnalyzer(internal.NopLogger()).qq(residuals)
	require.NoError(t, err)
	require.Len(t, points, 8)

	// q1 = -1 + 0.75*0.5, q3 = 0.9 + 0.25*0.5
	assert.InDelta(t, 0.2, line.Intercept, 1e-9)
	assert.InDelta(t, 1.223147, line.Slope, 1e-6)
	assert.InDelta(t, -0.625, line.At(-0.6744897501960817), 1e-9)
	assert.InDelta(t, 1.025, line.At(0.6744897501960817), 1e-9)
}

func TestLinearQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.75, linearQuantile(sorted, 0.25))
	assert.Equal(t, 2.5, linearQuantile(sorted, 0.5))
	assert.Equal(t, 3.25, linearQuantile(sorted, 0.75))
	assert.Equal(t, 4.0, linearQuantile(sorted, 1))
	assert.Equal(t, 7.0, linearQuantile([]float64{7}, 0.25))
}

func TestAnalyze_StudentizedAndCooks(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}, {5}}
	y := []float64{1, 3, 2, 5, 4}

	report, err := NewAnalyzer(internal.NopLogger()).Analyze(y, x, Options{})
	require.NoError(t, err)

	// y = 0.6 + 0.8x, s^2 = 1.2, h = {0.6, 0.3, 0.2, 0.3, 0.6}
	studentized := []float64{-1 / math.Sqrt(3), 0.8 / math.Sqrt(0.84), -1 / math.Sqrt(0.96), 1.2 / math.Sqrt(0.84), -math.Sqrt(3) / 2}
	cooks := []float64{0.25, 8.0 / 49, 25.0 / 192, 18.0 / 49, 9.0 / 16}
	for i, obs := range report.Observations {
		assert.InDelta(t, studentized[i], obs.Studentized, 1e-12, "obs %d", i)
		assert.InDelta(t, cooks[i], obs.CooksDistance, 1e-12, "obs %d", i)
		assert.InDelta(t, math.Sqrt(math.Abs(studentized[i])), obs.ScaleLocation, 1e-12, "obs %d", i)
	}
	assert.Empty(t, report.Influential, "no Cook's d exceeds 4/n = 0.8")

	assert.InDelta(t, -0.6, report.ResidualStats.Q1, 1e-12)
	assert.InDelta(t, 0.8, report.ResidualStats.Q3, 1e-12)
}

func TestAnalyze_NoIntercept(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}, {5}}
	y := []float64{2, 4.1, 5.9, 8.2, 9.9}

	report, err := NewAnalyzer(internal.NopLogger()).Analyze(y, x, Options{NoIntercept: true})
	require.NoError(t, err)
	require.Len(t, report.Fit.Coefficients, 1)
	assert.InDelta(t, 2.0, report.Fit.Coefficients[0], 0.05)
	assert.False(t, report.Fit.HasIntercept)
	assert.Equal(t, 1, report.P)
}

func TestAnalyze_InputErrors(t *testing.T) {
	analyzer := NewAnalyzer(internal.NopLogger())

	_, err := analyzer.Analyze([]float64{1, 2, 3}, [][]float64{{1}, {2}}, Options{})
	assert.ErrorIs(t, err, core.ErrLengthMismatch)

	_, err = analyzer.Analyze([]float64{1, 2, 3}, [][]float64{{1, 2}, {2}, {3, 4}}, Options{})
	assert.ErrorIs(t, err, core.ErrLengthMismatch)

	_, err = analyzer.Analyze([]float64{1, 2}, [][]float64{{1}, {2}}, Options{})
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	_, err = analyzer.Analyze(nil, nil, Options{})
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	_, err = analyzer.Analyze([]float64{1, math.NaN(), 3, 4}, [][]float64{{1}, {2}, {3}, {4}}, Options{})
	assert.ErrorIs(t, err, core.ErrInsufficientData)

	collinear := [][]float64{{1, 2}, {2, 4}, {3, 6}, {4, 8}, {5, 10}}
	_, err = analyzer.Analyze([]float64{1, 2, 3, 4, 6}, collinear, Options{})
	assert.ErrorIs(t, err, core.ErrSingularDesign)
}
