package ports

// FDistributionPort evaluates central and noncentral F-distribution functions
type FDistributionPort interface {
	// NoncentralCDF returns P(X <= x) for X ~ F(dfn, dfd) with noncentrality nc
	NoncentralCDF(x, dfn, dfd, nc float64) float64

	// InverseSurvival returns the critical value c with P(X > c) = q for the central F(dfn, dfd)
	InverseSurvival(q, dfn, dfd float64) float64
}
