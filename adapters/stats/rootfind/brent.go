package rootfind

import (
	"fmt"
	"math"

	"gopower/domain/core"
)

// Settings controls convergence of the Brent solver
type Settings struct {
	XTol    float64 // absolute tolerance on the root
	RTol    float64 // relative tolerance on the root
	MaxIter int
}

// DefaultSettings returns the tolerances used unless configured otherwise
func DefaultSettings() Settings {
	return Settings{
		XTol:    2e-12,
		RTol:    4 * epsilon,
		MaxIter: 100,
	}
}

const epsilon = 2.220446049250313e-16

// BracketError is returned when f has the same sign at both interval ends
type BracketError struct {
	Lower, Upper   float64
	FLower, FUpper float64
}

func (e *BracketError) Error() string {
	return fmt.Sprintf("f(%g)=%g and f(%g)=%g have the same sign", e.Lower, e.FLower, e.Upper, e.FUpper)
}

func (e *BracketError) Is(target error) bool {
	return target == core.ErrRootBracket
}

// Brent finds roots with Brent's method using hyperbolic extrapolation
// between the bracket ends (the "brenth" variant).
type Brent struct {
	settings Settings
}

// NewBrent creates a solver; zero-valued settings fall back to the defaults
func NewBrent(settings Settings) *Brent {
	def := DefaultSettings()
	if settings.XTol <= 0 {
		settings.XTol = def.XTol
	}
	if settings.RTol <= 0 {
		settings.RTol = def.RTol
	}
	if settings.MaxIter <= 0 {
		settings.MaxIter = def.MaxIter
	}
	return &Brent{settings: settings}
}

// Settings returns the effective settings
func (b *Brent) Settings() Settings {
	return b.settings
}

// FindRoot locates x in [lower, upper] with f(x) = 0
func (b *Brent) FindRoot(f func(float64) float64, lower, upper float64) (float64, int, error) {
	if math.IsNaN(lower) || math.IsNaN(upper) || lower >= upper {
		return math.NaN(), 0, fmt.Errorf("invalid interval [%g, %g]", lower, upper)
	}

	xpre, xcur := lower, upper
	fpre, fcur := f(xpre), f(xcur)
	if math.IsNaN(fpre) || math.IsNaN(fcur) {
		return math.NaN(), 0, fmt.Errorf("function is undefined at an interval end: f(%g)=%g, f(%g)=%g", lower, fpre, upper, fcur)
	}
	if fpre == 0 {
		return xpre, 0, nil
	}
	if fcur == 0 {
		return xcur, 0, nil
	}
	if math.Signbit(fpre) == math.Signbit(fcur) {
		return math.NaN(), 0, &BracketError{Lower: lower, Upper: upper, FLower: fpre, FUpper: fcur}
	}

	var xblk, fblk, spre, scur float64
	for iter := 1; iter <= b.settings.MaxIter; iter++ {
		if fpre != 0 && fcur != 0 && math.Signbit(fpre) != math.Signbit(fcur) {
			xblk, fblk = xpre, fpre
			spre = xcur - xpre
			scur = spre
		}
		if math.Abs(fblk) < math.Abs(fcur) {
			xpre, xcur, xblk = xcur, xblk, xcur
			fpre, fcur, fblk = fcur, fblk, fcur
		}

		delta := (b.settings.XTol + b.settings.RTol*math.Abs(xcur)) / 2
		sbis := (xblk - xcur) / 2
		if fcur == 0 || math.Abs(sbis) < delta {
			return xcur, iter, nil
		}

		if math.Abs(spre) > delta && math.Abs(fcur) < math.Abs(fpre) {
			var stry float64
			if xpre == xblk {
				// secant
				stry = -fcur * (xcur - xpre) / (fcur - fpre)
			} else {
				dpre := (fpre - fcur) / (xpre - xcur)
				dblk := (fblk - fcur) / (xblk - xcur)
				stry = -fcur * (fblk - fpre) / (fblk*dpre - fpre*dblk)
			}
			if 2*math.Abs(stry) < math.Min(math.Abs(spre), 3*math.Abs(sbis)-delta) {
				spre, scur = scur, stry
			} else {
				spre, scur = sbis, sbis
			}
		} else {
			spre, scur = sbis, sbis
		}

		xpre, fpre = xcur, fcur
		if math.Abs(scur) > delta {
			xcur += scur
		} else if sbis > 0 {
			xcur += delta
		} else {
			xcur -= delta
		}
		fcur = f(xcur)
		if math.IsNaN(fcur) {
			return math.NaN(), iter, fmt.Errorf("function is undefined at %g", xcur)
		}
	}

	return xcur, b.settings.MaxIter, fmt.Errorf("%w after %d iterations (last x=%g)", core.ErrNoConvergence, b.settings.MaxIter, xcur)
}
