package debugcore_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/patchcore/debugcore"
)

func TestSpanRing_GetByIndex_ValidityWindow(t *testing.T) {
	r := debugcore.NewSpanRing(4)
	for i := 0; i < 10; i++ {
		r.Push(debugcore.Span{FrameID: uint64(i)})
	}

	n := r.Len()
	require.Equal(t, uint64(10), n)

	oldest := n - uint64(r.Cap())
	for idx := uint64(0); idx < n+2; idx++ {
		_, ok := r.GetByIndex(idx)
		want := idx >= oldest && idx < n
		assert.Equalf(t, want, ok, "index %d", idx)
	}
}

func TestSpanRing_OverwritesOldest(t *testing.T) {
	r := debugcore.NewSpanRing(2)
	r.Push(debugcore.Span{FrameID: 1})
	r.Push(debugcore.Span{FrameID: 2})
	r.Push(debugcore.Span{FrameID: 3})

	_, ok := r.GetByIndex(0)
	assert.False(t, ok)

	s, ok := r.GetByIndex(1)
	require.True(t, ok)
	assert.Equal(t, uint64(2), s.FrameID)

	s, ok = r.GetByIndex(2)
	require.True(t, ok)
	assert.Equal(t, uint64(3), s.FrameID)
}

func TestValueRing_Recent_ReturnsOldestFirst(t *testing.T) {
	r := debugcore.NewValueRing(3)
	for i := 0; i < 5; i++ {
		r.Push(debugcore.Summarize(uint64(i), debugcore.ValueNum, float64(i)))
	}

	recent := r.Recent(10)
	require.Len(t, recent, 3)
	assert.Equal(t, float64(2), recent[0].A)
	assert.Equal(t, float64(3), recent[1].A)
	assert.Equal(t, float64(4), recent[2].A)
}

func TestSummarize_NaNAndInf_BecomeErr(t *testing.T) {
	v := debugcore.Summarize(0, debugcore.ValueNum, math.NaN())
	assert.Equal(t, debugcore.ValueErr, v.Tag)
	assert.Equal(t, debugcore.ValueErrNaN, v.ErrKind)

	v = debugcore.Summarize(0, debugcore.ValueNum, math.Inf(1))
	assert.Equal(t, debugcore.ValueErr, v.Tag)
	assert.Equal(t, debugcore.ValueErrInf, v.ErrKind)
}

func TestSummarize_FiniteValue_PacksComponents(t *testing.T) {
	v := debugcore.Summarize(7, debugcore.ValueVec2, 1.5, 2.5)
	assert.Equal(t, debugcore.ValueVec2, v.Tag)
	assert.Equal(t, 1.5, v.A)
	assert.Equal(t, 2.5, v.B)
}
