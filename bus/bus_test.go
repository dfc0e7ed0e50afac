package bus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/patchcore/artifact"
	"github.com/katalvlaran/patchcore/bus"
)

func fieldOf(vals []float64) artifact.Artifact {
	return artifact.NewFieldFloat(func(_ int64, n int, _ artifact.Ctx) []float64 {
		out := make([]float64, n)
		copy(out, vals)
		return out
	})
}

func TestCompile_SumBusTwoFieldPublishers(t *testing.T) {
	b := bus.Bus{ID: "energy", Type: artifact.KindFieldFloat, CombineMode: bus.CombineSum}
	pubs := []bus.Publisher{
		{ID: "p1", Value: fieldOf([]float64{0, 1, 2, 3, 4})},
		{ID: "p2", Value: fieldOf([]float64{10, 11, 12, 13, 14})},
	}

	out, err := bus.Compile(b, pubs)
	require.NoError(t, err)

	got := out.FieldFloat()(0, 5, artifact.Ctx{})
	assert.Equal(t, []float64{10, 12, 14, 16, 18}, got)
}

func TestCompile_LastCombineSortKeyTieBreak(t *testing.T) {
	b := bus.Bus{ID: "b", Type: artifact.KindFieldFloat, CombineMode: bus.CombineLast}
	pubs := []bus.Publisher{
		{ID: "pub1", SortKey: 10, Value: fieldOf([]float64{10, 11, 12, 13, 14})},
		{ID: "pub2", SortKey: 20, Value: fieldOf([]float64{100, 101, 102, 103, 104})},
	}

	out, err := bus.Compile(b, pubs)
	require.NoError(t, err)

	got := out.FieldFloat()(0, 5, artifact.Ctx{})
	assert.Equal(t, []float64{100, 101, 102, 103, 104}, got)
}

func TestCompile_LastCombine_IDTieBreak(t *testing.T) {
	b := bus.Bus{ID: "b", Type: artifact.KindScalarFloat, CombineMode: bus.CombineLast}
	pubs := []bus.Publisher{
		{ID: "zeta", SortKey: 5, Value: artifact.NewScalarFloat(1)},
		{ID: "alpha", SortKey: 5, Value: artifact.NewScalarFloat(2)},
	}

	out, err := bus.Compile(b, pubs)
	require.NoError(t, err)
	assert.Equal(t, 1.0, out.ScalarFloat()) // "zeta" > "alpha" lexicographically
}

func TestCompile_EmptyPublishers_YieldsDefault(t *testing.T) {
	b := bus.Bus{ID: "b", Type: artifact.KindScalarFloat, CombineMode: bus.CombineSum, Default: artifact.NewScalarFloat(42)}
	out, err := bus.Compile(b, nil)
	require.NoError(t, err)
	assert.Equal(t, 42.0, out.ScalarFloat())
}

func TestCompile_ErrorAbsorption(t *testing.T) {
	b := bus.Bus{ID: "b", Type: artifact.KindScalarFloat, CombineMode: bus.CombineSum}
	pubs := []bus.Publisher{
		{ID: "p1", Value: artifact.NewScalarFloat(1)},
		{ID: "p2", Value: artifact.NewError("boom")},
	}
	out, err := bus.Compile(b, pubs)
	require.NoError(t, err)
	assert.True(t, out.IsError())
	assert.Equal(t, "boom", out.ErrorMessage())
}

func TestCompile_Average(t *testing.T) {
	b := bus.Bus{ID: "b", Type: artifact.KindScalarFloat, CombineMode: bus.CombineAverage}
	pubs := []bus.Publisher{
		{ID: "p1", Value: artifact.NewScalarFloat(2)},
		{ID: "p2", Value: artifact.NewScalarFloat(4)},
	}
	out, err := bus.Compile(b, pubs)
	require.NoError(t, err)
	assert.Equal(t, 3.0, out.ScalarFloat())
}

func TestCompile_MinMax(t *testing.T) {
	pubs := []bus.Publisher{
		{ID: "p1", Value: artifact.NewScalarFloat(2)},
		{ID: "p2", Value: artifact.NewScalarFloat(9)},
		{ID: "p3", Value: artifact.NewScalarFloat(-1)},
	}
	minOut, err := bus.Compile(bus.Bus{CombineMode: bus.CombineMin}, pubs)
	require.NoError(t, err)
	assert.Equal(t, -1.0, minOut.ScalarFloat())

	maxOut, err := bus.Compile(bus.Bus{CombineMode: bus.CombineMax}, pubs)
	require.NoError(t, err)
	assert.Equal(t, 9.0, maxOut.ScalarFloat())
}

func TestCompile_ScalarColorSum_ReportsError(t *testing.T) {
	b := bus.Bus{CombineMode: bus.CombineSum}
	pubs := []bus.Publisher{
		{ID: "p1", Value: artifact.NewScalarColor(0)}, // unused kind branch check below
	}
	_ = pubs
	_ = b
	// Color combine is exercised via Signal:color/Field:color in practice;
	// scalar color isn't a combine-supported kind, so verify it reports an
	// Error rather than silently no-op-ing.
	out, err := bus.Compile(bus.Bus{CombineMode: bus.CombineSum}, []bus.Publisher{
		{ID: "p1", Value: artifact.NewScalarColor(0xFFFFFFFF)},
	})
	require.NoError(t, err)
	assert.True(t, out.IsError())
}
