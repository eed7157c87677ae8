package distributions

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// StatisticalDistributions provides the F-distribution functions used by the
// power solver plus the few extra tail functions the diagnostics need.
type StatisticalDistributions struct{}

// NewDistributions creates a new distributions utility
func NewDistributions() *StatisticalDistributions {
	return &StatisticalDistributions{}
}

// NoncentralCDF computes P(X <= x) for the noncentral F distribution
func (sd *StatisticalDistributions) NoncentralCDF(x, dfn, dfd, nc float64) float64 {
	return NoncentralF{D1: dfn, D2: dfd, Lambda: nc}.CDF(x)
}

// InverseSurvival computes the central F critical value for upper-tail probability q
func (sd *StatisticalDistributions) InverseSurvival(q, dfn, dfd float64) float64 {
	return FInverseSurvival(q, dfn, dfd)
}

// FTestPValue computes the upper-tail p-value of an F statistic (ANOVA, regression)
func (sd *StatisticalDistributions) FTestPValue(fStatistic, df1, df2 float64) float64 {
	if df1 <= 0 || df2 <= 0 || math.IsNaN(fStatistic) {
		return 1.0
	}
	if fStatistic <= 0 {
		return 1.0
	}

	fDist := distuv.F{D1: df1, D2: df2}
	return 1 - fDist.CDF(fStatistic)
}

// NormalQuantile computes the quantile function of the standard normal
func (sd *StatisticalDistributions) NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}
