package artifact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/patchcore/artifact"
)

func TestSignalPhase_WrapsToUnitRange(t *testing.T) {
	sig := artifact.NewSignalPhase(func(t float64, ctx artifact.Ctx) float64 {
		return t // deliberately unwrapped, e.g. t=2.75
	})
	got := sig.SignalPhase()(2.75, artifact.Ctx{})
	assert.InDelta(t, 0.75, got, 1e-9)

	got = sig.SignalPhase()(-0.25, artifact.Ctx{})
	assert.InDelta(t, 0.75, got, 1e-9)
}

func TestSignalUnit_Clamps(t *testing.T) {
	sig := artifact.NewSignalUnit(func(t float64, ctx artifact.Ctx) float64 { return t })
	assert.Equal(t, 0.0, sig.SignalUnit()(-5, artifact.Ctx{}))
	assert.Equal(t, 1.0, sig.SignalUnit()(5, artifact.Ctx{}))
	assert.Equal(t, 0.5, sig.SignalUnit()(0.5, artifact.Ctx{}))
}

func TestFirstError_Absorption(t *testing.T) {
	ok := artifact.NewScalarFloat(1)
	bad := artifact.NewError("boom")
	ok2 := artifact.NewScalarFloat(2)

	found, has := artifact.FirstError(ok, bad, ok2)
	assert.True(t, has)
	assert.True(t, found.IsError())
	assert.Equal(t, "boom", found.ErrorMessage())

	_, has = artifact.FirstError(ok, ok2)
	assert.False(t, has)
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, artifact.KindSignalPhase.IsSignal())
	assert.True(t, artifact.KindFieldVec2.IsField())
	assert.True(t, artifact.KindScalarColor.IsScalar())
	assert.False(t, artifact.KindEvent.IsSignal())
}
