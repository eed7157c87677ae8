package power

import (
	"context"
	"fmt"

	domain "gopower/domain/power"

	"golang.org/x/sync/errgroup"
)

// Curve evaluates power over an evenly spaced grid of the swept parameter,
// holding the other parameters of base fixed. base.Power is ignored.
func (s *Solver) Curve(ctx context.Context, base domain.Params, sweep domain.Target, from, to float64, steps int) (*domain.Curve, error) {
	if sweep == domain.TargetPower || sweep == "" {
		return nil, &domain.InvalidSpecError{Field: sweep, Reason: "cannot be swept"}
	}
	if steps < 2 {
		return nil, &domain.InvalidSpecError{Field: sweep, Reason: fmt.Sprintf("needs at least 2 grid points, got %d", steps)}
	}
	if !(from < to) {
		return nil, &domain.InvalidSpecError{Field: sweep, Value: from, Reason: fmt.Sprintf("grid start must be below end %g", to)}
	}
	for _, t := range domain.Targets {
		if t == domain.TargetPower || t == sweep {
			continue
		}
		if err := domain.CheckDomain(t, base.Get(t)); err != nil {
			return nil, err
		}
	}
	for _, x := range []float64{from, to} {
		if err := domain.CheckDomain(sweep, x); err != nil {
			return nil, err
		}
	}

	step := (to - from) / float64(steps-1)
	points := make([]domain.CurvePoint, steps)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := 0; i < steps; i++ {
		i := i
		x := from + float64(i)*step
		if i == steps-1 {
			x = to
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := base.With(sweep, x)
			points[i] = domain.CurvePoint{
				Value:  x,
				Power:  s.Power(p),
				NumObs: domain.NumObs(p.U, p.V),
			}
			s.logger.Trace("curve point", "sweep", sweep, "value", x, "power", points[i].Power)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	base.Power = 0
	s.logger.Debug("computed power curve", "sweep", sweep, "from", from, "to", to, "steps", steps)
	return &domain.Curve{Base: base, Sweep: sweep, Points: points}, nil
}
