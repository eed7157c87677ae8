package power

import (
	"errors"
	"math"
	"testing"

	"gopower/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullSpec() Spec {
	return Spec{
		NumeratorDF:       Known(2),
		DenominatorDF:     Known(97),
		EffectSize:        Known(0.1),
		SignificanceLevel: Known(0.05),
		Power:             Known(0.8),
	}
}

func TestSpecTarget_ExactlyOneAbsent(t *testing.T) {
	for _, target := range Targets {
		s := fullSpec()
		switch target {
		case TargetNumeratorDF:
			s.NumeratorDF = nil
		case TargetDenominatorDF:
			s.DenominatorDF = nil
		case TargetEffectSize:
			s.EffectSize = nil
		case TargetSignificanceLevel:
			s.SignificanceLevel = nil
		case TargetPower:
			s.Power = nil
		}

		got, err := s.Target()
		require.NoError(t, err, target)
		assert.Equal(t, target, got)
	}
}

func TestSpecTarget_RejectsAmbiguousSpecs(t *testing.T) {
	_, err := fullSpec().Target()
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidSpec))
	assert.Contains(t, err.Error(), "found 0")

	s := fullSpec()
	s.Power = nil
	s.EffectSize = nil
	_, err = s.Target()
	var specErr *InvalidSpecError
	require.ErrorAs(t, err, &specErr)
	assert.Contains(t, specErr.Reason, "f2, power")

	_, err = Spec{}.Target()
	assert.ErrorIs(t, err, core.ErrInvalidSpec)
}

func TestSpecValidate_Domains(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
		field  Target
	}{
		{"zero u", func(s *Spec) { s.NumeratorDF = Known(0) }, TargetNumeratorDF},
		{"negative v", func(s *Spec) { s.DenominatorDF = Known(-3) }, TargetDenominatorDF},
		{"negative f2", func(s *Spec) { s.EffectSize = Known(-0.01) }, TargetEffectSize},
		{"sig level one", func(s *Spec) { s.SignificanceLevel = Known(1) }, TargetSignificanceLevel},
		{"NaN f2", func(s *Spec) { s.EffectSize = Known(math.NaN()) }, TargetEffectSize},
		{"infinite v", func(s *Spec) { s.DenominatorDF = Known(math.Inf(1)) }, TargetDenominatorDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fullSpec()
			s.Power = nil
			tt.mutate(&s)

			_, err := s.Validate()
			var specErr *InvalidSpecError
			require.ErrorAs(t, err, &specErr)
			assert.Equal(t, tt.field, specErr.Field)
			assert.ErrorIs(t, err, core.ErrInvalidSpec)
		})
	}

	s := fullSpec()
	s.Power = Known(1.5)
	s.EffectSize = nil
	_, err := s.Validate()
	assert.ErrorIs(t, err, core.ErrInvalidSpec)
}

func TestSpecValidate_ZeroEffectSizeAllowed(t *testing.T) {
	s := fullSpec()
	s.Power = nil
	s.EffectSize = Known(0)

	target, err := s.Validate()
	require.NoError(t, err)
	assert.Equal(t, TargetPower, target)
}

func TestParamsWithGet(t *testing.T) {
	p := fullSpec().Params()
	for _, target := range Targets {
		q := p.With(target, 0.5)
		assert.Equal(t, 0.5, q.Get(target))
	}
	assert.InDelta(t, 0.1*100, p.Noncentrality(), 1e-12)
}

func TestNumObs(t *testing.T) {
	assert.Equal(t, 100, NumObs(2, 97))
	assert.Equal(t, 100, NumObs(1.2, 96.01))
	assert.Equal(t, 5, NumObs(1, 3))
}

func TestParseTarget(t *testing.T) {
	for _, target := range Targets {
		got, err := ParseTarget(target.Symbol())
		require.NoError(t, err)
		assert.Equal(t, target, got)

		got, err = ParseTarget(string(target))
		require.NoError(t, err)
		assert.Equal(t, target, got)
	}

	_, err := ParseTarget("lambda")
	assert.Error(t, err)
}

func TestRootBracketError(t *testing.T) {
	err := &RootBracketError{
		Target:  TargetDenominatorDF,
		Bracket: DefaultBrackets[TargetDenominatorDF],
		FLower:  -0.95,
		FUpper:  -0.1,
	}
	assert.ErrorIs(t, err, core.ErrRootBracket)
	assert.Contains(t, err.Error(), "cannot solve for v")
	assert.Contains(t, err.Error(), "1e+09")
}

func TestDefaultBrackets_SignificanceLevelInsideUnitInterval(t *testing.T) {
	b := DefaultBrackets[TargetSignificanceLevel]
	assert.Greater(t, b.Lower, 0.0)
	assert.Less(t, b.Upper, 1.0)
	assert.Less(t, b.Lower, b.Upper)
	_, ok := DefaultBrackets[TargetPower]
	assert.False(t, ok)
}
