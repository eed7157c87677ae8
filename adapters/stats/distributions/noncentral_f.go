package distributions

import (
	"math"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// centralLambda is the noncentrality below which the central F is used
	centralLambda = 1e-10

	// seriesTol stops the Poisson series once a term is this small relative to the sum
	seriesTol = 1e-14

	// maxSeriesTerms bounds each direction of the series
	maxSeriesTerms = 1 << 27
)

// NoncentralF is the noncentral F distribution with D1 numerator degrees of
// freedom, D2 denominator degrees of freedom and noncentrality Lambda.
type NoncentralF struct {
	D1     float64
	D2     float64
	Lambda float64
}

// CDF computes P(X <= x).
//
// The distribution is a Poisson(Lambda/2) mixture of incomplete beta
// functions I_y(D1/2 + j, D2/2) with y = D1*x/(D1*x + D2). The series is
// summed outward from the Poisson mode; neighbouring beta values are obtained
// by recurrence so only one incomplete beta is evaluated per call.
func (n NoncentralF) CDF(x float64) float64 {
	if x <= 0 || math.IsNaN(x) {
		return 0
	}
	if math.IsInf(x, 1) {
		return 1
	}
	if n.Lambda < centralLambda {
		return distuv.F{D1: n.D1, D2: n.D2}.CDF(x)
	}

	prod := n.D1 * x
	dsum := n.D2 + prod
	xx := prod / dsum
	yy := n.D2 / dsum
	if xx <= 0 {
		return 0
	}
	if yy <= 0 {
		return 1
	}

	half := n.Lambda / 2
	a := n.D1 / 2
	b := n.D2 / 2
	logX := math.Log(xx)
	logY := math.Log(yy)

	center := math.Floor(half)
	if center < 1 {
		center = 1
	}
	// The mode region is always summed before the relative stopping rule applies.
	window := int(math.Ceil(10*math.Sqrt(half))) + 10

	centwt := math.Exp(-half + center*math.Log(half) - lgamma(center+1))
	betdn := mathext.RegIncBeta(a+center, b, xx)
	betup := betdn
	sum := centwt * betdn

	negligible := func(term float64) bool {
		return term <= seriesTol*sum
	}

	// Down from the mode: I_y(adn-1, b) = I_y(adn, b) + dnterm.
	adn := a + center
	xmult := centwt
	i := center
	dnterm := math.Exp(lgamma(adn+b) - lgamma(adn+1) - lgamma(b) + adn*logX + b*logY)
	for steps := 0; i > 0 && steps < maxSeriesTerms; steps++ {
		if steps >= window && negligible(xmult*betdn) {
			break
		}
		xmult *= i / half
		i--
		adn--
		dnterm = (adn + 1) / ((adn + b) * xx) * dnterm
		betdn += dnterm
		sum += xmult * betdn
	}

	// Up from the mode: I_y(aup+1, b) = I_y(aup, b) - upterm.
	aup := a + center
	xmult = centwt
	i = center + 1
	upterm := math.Exp(lgamma(aup-1+b) - lgamma(aup) - lgamma(b) + (aup-1)*logX + b*logY)
	for steps := 0; steps < maxSeriesTerms; steps++ {
		xmult *= half / i
		i++
		aup++
		upterm = (aup + b - 2) * xx / (aup - 1) * upterm
		betup -= upterm
		if betup < 0 {
			betup = 0
		}
		sum += xmult * betup
		if steps >= window && negligible(xmult*betup) {
			break
		}
	}

	return clampProbability(sum)
}

// Survival computes P(X > x)
func (n NoncentralF) Survival(x float64) float64 {
	return 1 - n.CDF(x)
}

// FInverseSurvival returns the critical value c of the central F(d1, d2)
// distribution with P(X > c) = q.
//
// The complementary incomplete beta is inverted directly so small q keep
// full precision.
func FInverseSurvival(q, d1, d2 float64) float64 {
	switch {
	case math.IsNaN(q):
		return math.NaN()
	case q <= 0:
		return math.Inf(1)
	case q >= 1:
		return 0
	}

	// P(X > c) = I_z(d2/2, d1/2) with z = d2/(d2 + d1*c)
	z := mathext.InvRegIncBeta(d2/2, d1/2, q)
	if z <= 0 {
		return math.Inf(1)
	}
	return d2 * (1 - z) / (d1 * z)
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

func clampProbability(p float64) float64 {
	switch {
	case math.IsNaN(p):
		return p
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
