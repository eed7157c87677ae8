package power

import (
	"fmt"

	"gopower/domain/core"
)

// InvalidSpecError reports a malformed request: the wrong number of absent
// fields (Field empty) or a present field outside its domain.
type InvalidSpecError struct {
	Field  Target
	Value  float64
	Reason string
}

func (e *InvalidSpecError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid power analysis spec: %s", e.Reason)
	}
	return fmt.Sprintf("invalid power analysis spec: %s=%g %s", e.Field.Symbol(), e.Value, e.Reason)
}

func (e *InvalidSpecError) Is(target error) bool {
	return target == core.ErrInvalidSpec
}

// RootBracketError reports that the power function has the same sign at both
// ends of the search interval, i.e. the requested power is unreachable there.
type RootBracketError struct {
	Target  Target
	Bracket Bracket
	FLower  float64
	FUpper  float64
}

func (e *RootBracketError) Error() string {
	return fmt.Sprintf("cannot solve for %s: interval %s does not bracket a root (f(lower)=%.6g, f(upper)=%.6g)",
		e.Target.Symbol(), e.Bracket, e.FLower, e.FUpper)
}

func (e *RootBracketError) Is(target error) bool {
	return target == core.ErrRootBracket
}
