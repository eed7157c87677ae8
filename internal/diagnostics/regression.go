package diagnostics

import (
	"fmt"
	"math"
	"sort"

	"gopower/adapters/stats/distributions"
	"gopower/domain/core"
	"gopower/domain/diagnostics"
	"gopower/internal"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

// maxCondition rejects designs whose columns are numerically collinear
const maxCondition = 1e12

// Options controls how the design matrix is built
type Options struct {
	NoIntercept    bool
	PredictorNames []string
}

// Analyzer fits an OLS model and derives the residual diagnostics of the
// classic four-panel grid: residuals vs fitted, normal Q-Q, scale-location
// and Cook's distance.
type Analyzer struct {
	dist   *distributions.StatisticalDistributions
	logger *internal.Logger
}

// NewAnalyzer creates a diagnostics analyzer
func NewAnalyzer(logger *internal.Logger) *Analyzer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Analyzer{
		dist:   distributions.NewDistributions(),
		logger: logger.With("component", "diagnostics"),
	}
}

// Analyze fits y on the row-major predictors x and computes the diagnostics
func (a *Analyzer) Analyze(y []float64, x [][]float64, opts Options) (*diagnostics.Report, error) {
	design, err := buildDesign(y, x, !opts.NoIntercept)
	if err != nil {
		return nil, err
	}
	n, p := design.Dims()
	if n <= p {
		return nil, core.NewInsufficientDataError(n, p)
	}

	var qr mat.QR
	qr.Factorize(design)
	if cond := qr.Cond(); math.IsNaN(cond) || cond > maxCondition {
		return nil, fmt.Errorf("%w: condition number %.3g", core.ErrSingularDesign, cond)
	}

	yv := mat.NewVecDense(n, append([]float64(nil), y...))
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yv); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSingularDesign, err)
	}

	var fitted mat.VecDense
	fitted.MulVec(design, &beta)

	leverage, err := hatDiagonal(&qr, design)
	if err != nil {
		return nil, err
	}

	residuals := make([]float64, n)
	rss := 0.0
	for i := 0; i < n; i++ {
		residuals[i] = y[i] - fitted.AtVec(i)
		rss += residuals[i] * residuals[i]
	}
	dfResid := n - p
	sigma := math.Sqrt(rss / float64(dfResid))

	report := &diagnostics.Report{
		N:            n,
		P:            p,
		Observations: make([]diagnostics.Observation, n),
		CooksCutoff:  4 / float64(n),
	}

	for i := 0; i < n; i++ {
		h := leverage[i]
		var studentized, cooks float64
		if sigma > 0 && 1-h > 1e-12 {
			studentized = residuals[i] / (sigma * math.Sqrt(1-h))
			cooks = studentized * studentized * h / (float64(p) * (1 - h))
		}
		report.Observations[i] = diagnostics.Observation{
			Index:         i,
			Fitted:        fitted.AtVec(i),
			Residual:      residuals[i],
			Studentized:   studentized,
			ScaleLocation: math.Sqrt(math.Abs(studentized)),
			Leverage:      h,
			CooksDistance: cooks,
		}
		if cooks > report.CooksCutoff {
			report.Influential = append(report.Influential, i)
		}
	}

	report.Fit = a.modelFit(y, &beta, rss, n, p, !opts.NoIntercept, sigma)
	report.Fit.PredictorName = opts.PredictorNames

	if report.QQ, report.QQLine, err = a.qq(residuals); err != nil {
		return nil, err
	}
	if report.ResidualStats, err = summarize(residuals); err != nil {
		return nil, err
	}

	a.logger.Debug("computed regression diagnostics", "n", n, "p", p, "influential", len(report.Influential))
	return report, nil
}

func buildDesign(y []float64, x [][]float64, intercept bool) (*mat.Dense, error) {
	n := len(y)
	if len(x) != n {
		return nil, core.NewLengthMismatchError("predictor rows", len(x), n)
	}
	if n == 0 {
		return nil, core.NewInsufficientDataError(0, 1)
	}

	k := len(x[0])
	p := k
	if intercept {
		p++
	}
	if p == 0 {
		return nil, fmt.Errorf("%w: model has no columns", core.ErrInsufficientData)
	}

	data := make([]float64, 0, n*p)
	for i, row := range x {
		if len(row) != k {
			return nil, core.NewLengthMismatchError(fmt.Sprintf("predictor row %d", i), len(row), k)
		}
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return nil, fmt.Errorf("%w: response %d is not finite", core.ErrInsufficientData, i)
		}
		if intercept {
			data = append(data, 1)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: predictor %d of row %d is not finite", core.ErrInsufficientData, j, i)
			}
			data = append(data, v)
		}
	}
	return mat.NewDense(n, p, data), nil
}

// hatDiagonal returns diag(X (X'X)^-1 X') as the squared row norms of the
// thin Q factor, computed as X R^-1 to avoid materialising the full n×n Q.
func hatDiagonal(qr *mat.QR, design *mat.Dense) ([]float64, error) {
	n, p := design.Dims()

	var r mat.Dense
	qr.RTo(&r)
	square := r.Slice(0, p, 0, p)

	var rInv mat.Dense
	if err := rInv.Inverse(square); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSingularDesign, err)
	}

	var q mat.Dense
	q.Mul(design, &rInv)

	h := make([]float64, n)
	for i := 0; i < n; i++ {
		row := q.RawRowView(i)
		for _, v := range row {
			h[i] += v * v
		}
	}
	return h, nil
}

func (a *Analyzer) modelFit(y []float64, beta *mat.VecDense, rss float64, n, p int, intercept bool, sigma float64) diagnostics.ModelFit {
	coefs := make([]float64, beta.Len())
	for i := range coefs {
		coefs[i] = beta.AtVec(i)
	}

	var tss float64
	if intercept {
		mean, _ := stats.Mean(y)
		for _, v := range y {
			tss += (v - mean) * (v - mean)
		}
	} else {
		for _, v := range y {
			tss += v * v
		}
	}

	dfModel := p
	if intercept {
		dfModel--
	}
	dfResid := n - p

	fit := diagnostics.ModelFit{
		Coefficients: coefs,
		ResidualSE:   sigma,
		DFModel:      dfModel,
		DFResidual:   dfResid,
		HasIntercept: intercept,
		FPValue:      1,
	}
	if tss > 0 {
		fit.RSquared = 1 - rss/tss
	}
	if dfModel > 0 && rss > 0 {
		fit.FStatistic = ((tss - rss) / float64(dfModel)) / (rss / float64(dfResid))
		fit.FPValue = a.dist.FTestPValue(fit.FStatistic, float64(dfModel), float64(dfResid))
	}
	return fit
}

// qq pairs sorted residuals with normal quantiles at plotting positions
// (i - 3/8)/(n + 1/4) and fits the reference line through the quartiles.
func (a *Analyzer) qq(residuals []float64) ([]diagnostics.QQPoint, diagnostics.Line, error) {
	n := len(residuals)
	sorted := append([]float64(nil), residuals...)
	sort.Float64s(sorted)

	points := make([]diagnostics.QQPoint, n)
	for i, v := range sorted {
		pos := (float64(i+1) - 0.375) / (float64(n) + 0.25)
		points[i] = diagnostics.QQPoint{Theoretical: a.dist.NormalQuantile(pos), Sample: v}
	}

	if n == 0 {
		return nil, diagnostics.Line{}, fmt.Errorf("residual quartile: %w", stats.EmptyInputErr)
	}
	q1 := linearQuantile(sorted, 0.25)
	q3 := linearQuantile(sorted, 0.75)
	t1 := a.dist.NormalQuantile(0.25)
	t3 := a.dist.NormalQuantile(0.75)

	slope := (q3 - q1) / (t3 - t1)
	return points, diagnostics.Line{Intercept: q1 - slope*t1, Slope: slope}, nil
}

func summarize(residuals []float64) (diagnostics.Summary, error) {
	data := stats.Float64Data(residuals)
	min, err := data.Min()
	if err != nil {
		return diagnostics.Summary{}, err
	}
	max, _ := data.Max()
	median, _ := data.Median()

	sorted := append([]float64(nil), residuals...)
	sort.Float64s(sorted)
	q1 := linearQuantile(sorted, 0.25)
	q3 := linearQuantile(sorted, 0.75)

	return diagnostics.Summary{Min: min, Q1: q1, Median: median, Q3: q3, Max: max}, nil
}

// linearQuantile interpolates between order statistics at h = (n-1)p, the
// same rule numpy.percentile uses by default. sorted must be non-empty.
func linearQuantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
