package power

import (
	"fmt"
	"math"
	"strings"
)

// Target names the parameter of an F-test power analysis that is solved for
type Target string

const (
	TargetNumeratorDF       Target = "numerator_df"
	TargetDenominatorDF     Target = "denominator_df"
	TargetEffectSize        Target = "effect_size"
	TargetSignificanceLevel Target = "significance_level"
	TargetPower             Target = "power"
)

// Targets lists every solvable parameter in declaration order
var Targets = []Target{
	TargetNumeratorDF,
	TargetDenominatorDF,
	TargetEffectSize,
	TargetSignificanceLevel,
	TargetPower,
}

func (t Target) String() string { return string(t) }

// Symbol returns the conventional short name used in reports (u, v, f2, ...)
func (t Target) Symbol() string {
	switch t {
	case TargetNumeratorDF:
		return "u"
	case TargetDenominatorDF:
		return "v"
	case TargetEffectSize:
		return "f2"
	case TargetSignificanceLevel:
		return "sig_level"
	case TargetPower:
		return "power"
	}
	return string(t)
}

// ParseTarget accepts either the field name or the short symbol
func ParseTarget(s string) (Target, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range Targets {
		if s == string(t) || s == t.Symbol() {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown parameter %q", s)
}

// Spec is a power analysis request. Exactly one field must be nil; that field
// is the one the solver computes.
type Spec struct {
	NumeratorDF       *float64 `json:"numerator_df,omitempty"`
	DenominatorDF     *float64 `json:"denominator_df,omitempty"`
	EffectSize        *float64 `json:"effect_size,omitempty"`
	SignificanceLevel *float64 `json:"significance_level,omitempty"`
	Power             *float64 `json:"power,omitempty"`
}

// Known wraps a value for use as a present Spec field
func Known(v float64) *float64 {
	return &v
}

func (s Spec) field(t Target) *float64 {
	switch t {
	case TargetNumeratorDF:
		return s.NumeratorDF
	case TargetDenominatorDF:
		return s.DenominatorDF
	case TargetEffectSize:
		return s.EffectSize
	case TargetSignificanceLevel:
		return s.SignificanceLevel
	case TargetPower:
		return s.Power
	}
	return nil
}

// Target infers which field is absent. Any spec without exactly one absent
// field is rejected.
func (s Spec) Target() (Target, error) {
	var missing []string
	var target Target
	for _, t := range Targets {
		if s.field(t) == nil {
			missing = append(missing, t.Symbol())
			target = t
		}
	}
	if len(missing) != 1 {
		reason := fmt.Sprintf("exactly one parameter must be omitted, found %d", len(missing))
		if len(missing) > 0 {
			reason += " (" + strings.Join(missing, ", ") + ")"
		}
		return "", &InvalidSpecError{Reason: reason}
	}
	return target, nil
}

// Validate infers the target and checks every present field against its domain
func (s Spec) Validate() (Target, error) {
	target, err := s.Target()
	if err != nil {
		return "", err
	}
	for _, t := range Targets {
		if v := s.field(t); v != nil {
			if err := CheckDomain(t, *v); err != nil {
				return "", err
			}
		}
	}
	return target, nil
}

// Params returns the present values; the absent field is left at zero
func (s Spec) Params() Params {
	var p Params
	for _, t := range Targets {
		if v := s.field(t); v != nil {
			p = p.With(t, *v)
		}
	}
	return p
}

// CheckDomain verifies v is admissible for parameter t
func CheckDomain(t Target, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &InvalidSpecError{Field: t, Value: v, Reason: "must be finite"}
	}
	switch t {
	case TargetNumeratorDF, TargetDenominatorDF:
		if v <= 0 {
			return &InvalidSpecError{Field: t, Value: v, Reason: "must be positive"}
		}
	case TargetEffectSize:
		if v < 0 {
			return &InvalidSpecError{Field: t, Value: v, Reason: "must be non-negative"}
		}
	case TargetSignificanceLevel, TargetPower:
		if v <= 0 || v >= 1 {
			return &InvalidSpecError{Field: t, Value: v, Reason: "must lie in (0, 1)"}
		}
	}
	return nil
}

// Params holds all five values of an F-test power analysis
type Params struct {
	U        float64 `json:"numerator_df"`
	V        float64 `json:"denominator_df"`
	F2       float64 `json:"effect_size"`
	SigLevel float64 `json:"significance_level"`
	Power    float64 `json:"power"`
}

// Get returns the value of parameter t
func (p Params) Get(t Target) float64 {
	switch t {
	case TargetNumeratorDF:
		return p.U
	case TargetDenominatorDF:
		return p.V
	case TargetEffectSize:
		return p.F2
	case TargetSignificanceLevel:
		return p.SigLevel
	case TargetPower:
		return p.Power
	}
	return math.NaN()
}

// With returns a copy of p with parameter t set to v
func (p Params) With(t Target, v float64) Params {
	switch t {
	case TargetNumeratorDF:
		p.U = v
	case TargetDenominatorDF:
		p.V = v
	case TargetEffectSize:
		p.F2 = v
	case TargetSignificanceLevel:
		p.SigLevel = v
	case TargetPower:
		p.Power = v
	}
	return p
}

// Noncentrality is the noncentral F parameter λ = f2·(u+v+1)
func (p Params) Noncentrality() float64 {
	return p.F2 * (p.U + p.V + 1)
}

// NumObs is the total observation count implied by the degrees of freedom:
// both are rounded up, plus one for the intercept.
func NumObs(u, v float64) int {
	return int(math.Ceil(u)) + int(math.Ceil(v)) + 1
}

// Bracket is an open search interval for root-finding
type Bracket struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

func (b Bracket) String() string {
	return fmt.Sprintf("[%g, %g]", b.Lower, b.Upper)
}

// Contains reports whether x lies within the closed interval
func (b Bracket) Contains(x float64) bool {
	return x >= b.Lower && x <= b.Upper
}

// DefaultBrackets are the search intervals for each solvable parameter.
// The significance level upper bound is 1-1e-10; see DESIGN.md.
var DefaultBrackets = map[Target]Bracket{
	TargetNumeratorDF:       {Lower: 1 + 1e-10, Upper: 100},
	TargetDenominatorDF:     {Lower: 1 + 1e-10, Upper: 1e9},
	TargetEffectSize:        {Lower: 1e-7, Upper: 1e7},
	TargetSignificanceLevel: {Lower: 1e-10, Upper: 1 - 1e-10},
}

// Result is a fully populated power analysis
type Result struct {
	Params
	Target     Target   `json:"target"`
	NumObs     int      `json:"num_obs"`
	Iterations int      `json:"iterations,omitempty"`
	Bracket    *Bracket `json:"bracket,omitempty"`
}

// Solved returns the value computed for the target parameter
func (r Result) Solved() float64 {
	return r.Params.Get(r.Target)
}

// CurvePoint is one grid point of a power curve
type CurvePoint struct {
	Value  float64 `json:"value"`
	Power  float64 `json:"power"`
	NumObs int     `json:"num_obs"`
}

// Curve is power evaluated over a grid of one swept parameter
type Curve struct {
	Base   Params       `json:"base"`
	Sweep  Target       `json:"sweep"`
	Points []CurvePoint `json:"points"`
}
