package testkit

import (
	"fmt"
	"math/rand"
)

// RegressionGeneratorConfig configures the synthetic regression data generator
type RegressionGeneratorConfig struct {
	Observations int       `json:"observations"`
	Intercept    float64   `json:"intercept"`
	Slopes       []float64 `json:"slopes"`
	NoiseSD      float64   `json:"noise_sd"`
	PredictorMin float64   `json:"predictor_min"`
	PredictorMax float64   `json:"predictor_max"`
	Seed         int64     `json:"seed"`
}

// DefaultRegressionConfig returns a two-predictor linear model with unit noise
func DefaultRegressionConfig() RegressionGeneratorConfig {
	return RegressionGeneratorConfig{
		Observations: 100,
		Intercept:    1.5,
		Slopes:       []float64{2.0, -0.75},
		NoiseSD:      1.0,
		PredictorMin: 0,
		PredictorMax: 10,
		Seed:         42,
	}
}

// RegressionData is a response vector with row-major predictors
type RegressionData struct {
	Names []string
	Y     []float64
	X     [][]float64
}

// RegressionDataGenerator draws y = intercept + X·slopes + N(0, noise²)
type RegressionDataGenerator struct {
	config RegressionGeneratorConfig
	rng    *rand.Rand
}

// NewRegressionDataGenerator creates a new generator
func NewRegressionDataGenerator(config RegressionGeneratorConfig) *RegressionDataGenerator {
	return &RegressionDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces a dataset; the same seed always yields the same data
func (g *RegressionDataGenerator) Generate() (*RegressionData, error) {
	cfg := g.config
	if cfg.Observations <= 0 {
		return nil, fmt.Errorf("observations must be positive, got %d", cfg.Observations)
	}
	if len(cfg.Slopes) == 0 {
		return nil, fmt.Errorf("at least one slope is required")
	}
	if cfg.PredictorMax <= cfg.PredictorMin {
		return nil, fmt.Errorf("predictor range [%g, %g] is empty", cfg.PredictorMin, cfg.PredictorMax)
	}

	data := &RegressionData{
		Names: make([]string, len(cfg.Slopes)),
		Y:     make([]float64, cfg.Observations),
		X:     make([][]float64, cfg.Observations),
	}
	for j := range cfg.Slopes {
		data.Names[j] = fmt.Sprintf("x%d", j+1)
	}

	width := cfg.PredictorMax - cfg.PredictorMin
	for i := 0; i < cfg.Observations; i++ {
		row := make([]float64, len(cfg.Slopes))
		y := cfg.Intercept
		for j, slope := range cfg.Slopes {
			row[j] = cfg.PredictorMin + g.rng.Float64()*width
			y += slope * row[j]
		}
		data.X[i] = row
		data.Y[i] = y + g.rng.NormFloat64()*cfg.NoiseSD
	}

	return data, nil
}

// InjectOutlier shifts the response of observation i by delta and moves its
// first predictor to lever, making it a high-influence point.
func (d *RegressionData) InjectOutlier(i int, lever, delta float64) {
	d.X[i][0] = lever
	d.Y[i] += delta
}
