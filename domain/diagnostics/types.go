package diagnostics

// Observation holds the per-row values behind the four diagnostic panels
type Observation struct {
	Index         int     `json:"obs"`
	Fitted        float64 `json:"predicted_value"`
	Residual      float64 `json:"residual"`
	Studentized   float64 `json:"studentized_residual"`
	ScaleLocation float64 `json:"sqrt_abs_studentized"`
	Leverage      float64 `json:"leverage"`
	CooksDistance float64 `json:"cooks_d"`
}

// QQPoint pairs a theoretical normal quantile with a sorted sample residual
type QQPoint struct {
	Theoretical float64 `json:"theoretical"`
	Sample      float64 `json:"sample"`
}

// Line is y = Intercept + Slope*x
type Line struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
}

// At evaluates the line
func (l Line) At(x float64) float64 {
	return l.Intercept + l.Slope*x
}

// ModelFit summarises the OLS fit the diagnostics were computed from
type ModelFit struct {
	Coefficients  []float64 `json:"coefficients"`
	ResidualSE    float64   `json:"residual_standard_error"`
	RSquared      float64   `json:"r_squared"`
	FStatistic    float64   `json:"f_statistic"`
	FPValue       float64   `json:"f_p_value"`
	DFModel       int       `json:"df_model"`
	DFResidual    int       `json:"df_residual"`
	HasIntercept  bool      `json:"has_intercept"`
	PredictorName []string  `json:"predictors,omitempty"`
}

// Report is the data of a residuals / Q-Q / scale-location / Cook's distance panel grid
type Report struct {
	N             int           `json:"n_obs"`
	P             int           `json:"n_params"`
	Fit           ModelFit      `json:"fit"`
	Observations  []Observation `json:"observations"`
	QQ            []QQPoint     `json:"qq"`
	QQLine        Line          `json:"qq_line"`
	CooksCutoff   float64       `json:"cooks_threshold"`
	Influential   []int         `json:"influential"`
	ResidualStats Summary       `json:"residual_summary"`
}

// Summary is a five-number style summary of the residuals
type Summary struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}
