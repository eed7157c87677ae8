package power

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gopower/domain/core"
	domain "gopower/domain/power"
	"gopower/internal"
	"gopower/ports"
)

// Options tunes the solver. Zero values select the defaults.
type Options struct {
	// Brackets overrides the search interval per target
	Brackets map[domain.Target]domain.Bracket

	// CurveWorkers bounds concurrent evaluations in Curve
	CurveWorkers int
}

// Solver computes the missing parameter of an F-test power analysis.
// It holds no mutable state and is safe for concurrent use.
type Solver struct {
	dist     ports.FDistributionPort
	finder   ports.RootFinderPort
	brackets map[domain.Target]domain.Bracket
	workers  int
	logger   *internal.Logger
}

// NewSolver wires the solver to its distribution and root-finding collaborators
func NewSolver(dist ports.FDistributionPort, finder ports.RootFinderPort, logger *internal.Logger, opts Options) *Solver {
	brackets := make(map[domain.Target]domain.Bracket, len(domain.DefaultBrackets))
	for t, b := range domain.DefaultBrackets {
		brackets[t] = b
	}
	for t, b := range opts.Brackets {
		brackets[t] = b
	}

	workers := opts.CurveWorkers
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	return &Solver{
		dist:     dist,
		finder:   finder,
		brackets: brackets,
		workers:  workers,
		logger:   logger.With("component", "power_solver"),
	}
}

// Bracket returns the search interval used for target
func (s *Solver) Bracket(target domain.Target) (domain.Bracket, bool) {
	b, ok := s.brackets[target]
	return b, ok
}

// Power evaluates the power of the F test:
// 1 - NCF_CDF(crit; u, v, f2*(u+v+1)) with crit the central F critical value at sig_level.
func (s *Solver) Power(p domain.Params) float64 {
	crit := s.dist.InverseSurvival(p.SigLevel, p.U, p.V)
	return 1 - s.dist.NoncentralCDF(crit, p.U, p.V, p.Noncentrality())
}

// Solve fills in the single absent field of spec. The operation either
// returns a complete result or an error; there are no partial results.
func (s *Solver) Solve(ctx context.Context, spec domain.Spec) (*domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, err := spec.Validate()
	if err != nil {
		return nil, err
	}
	params := spec.Params()

	if target == domain.TargetPower {
		params.Power = s.Power(params)
		s.logger.Debug("evaluated power", "u", params.U, "v", params.V, "f2", params.F2, "sig_level", params.SigLevel, "power", params.Power)
		return newResult(params, target, 0, nil), nil
	}

	bracket, ok := s.brackets[target]
	if !ok {
		return nil, &domain.InvalidSpecError{Field: target, Reason: "has no search interval"}
	}

	g := func(x float64) float64 {
		return s.Power(params.With(target, x)) - params.Power
	}

	root, iterations, err := s.finder.FindRoot(g, bracket.Lower, bracket.Upper)
	if err != nil {
		if errors.Is(err, core.ErrRootBracket) {
			s.logger.Debug("power function not bracketed", "target", target, "bracket", bracket.String())
			return nil, &domain.RootBracketError{
				Target:  target,
				Bracket: bracket,
				FLower:  g(bracket.Lower),
				FUpper:  g(bracket.Upper),
			}
		}
		return nil, fmt.Errorf("solving for %s over %s: %w", target.Symbol(), bracket, err)
	}

	params = params.With(target, root)
	s.logger.Debug("solved power analysis", "target", target, "value", root, "iterations", iterations, "bracket", bracket.String())

	b := bracket
	return newResult(params, target, iterations, &b), nil
}

func newResult(p domain.Params, target domain.Target, iterations int, bracket *domain.Bracket) *domain.Result {
	return &domain.Result{
		Params:     p,
		Target:     target,
		NumObs:     domain.NumObs(p.U, p.V),
		Iterations: iterations,
		Bracket:    bracket,
	}
}

// SolveValues is a convenience wrapper taking NaN for the absent parameter
func (s *Solver) SolveValues(ctx context.Context, u, v, f2, sigLevel, pwr float64) (*domain.Result, error) {
	opt := func(x float64) *float64 {
		if math.IsNaN(x) {
			return nil
		}
		return domain.Known(x)
	}
	return s.Solve(ctx, domain.Spec{
		NumeratorDF:       opt(u),
		DenominatorDF:     opt(v),
		EffectSize:        opt(f2),
		SignificanceLevel: opt(sigLevel),
		Power:             opt(pwr),
	})
}
