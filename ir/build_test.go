package ir_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/patchcore/compile"
	"github.com/katalvlaran/patchcore/internal/config"
	"github.com/katalvlaran/patchcore/ir"
	"github.com/katalvlaran/patchcore/patch/fixtures"
	"github.com/katalvlaran/patchcore/registry"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New(nil)
	require.NoError(t, registry.RegisterBuiltins(r))
	return r
}

func TestBuild_ChainPatch_ProducesSinkOutput(t *testing.T) {
	r := newRegistry(t)
	blocks := compile.NewBuiltinBlockRegistry()
	p := fixtures.Chain(2)

	res := compile.Compile(p, r, blocks, config.DefaultConfig(), nil)
	require.Empty(t, res.Errors)

	prog, err := compile.ToIR(res, p)
	require.NoError(t, err)

	require.Len(t, prog.Outputs, 1)
	assert.Equal(t, "sink", prog.Outputs[0].ID)
	assert.Contains(t, prog.DebugIndex, "output:sink")
	assert.Contains(t, prog.Schedule.Determinism.AllowedOrderingInputs, "topoTieBreak:nodeIdLex")
}

func TestBuild_RefusesOnCompileErrors(t *testing.T) {
	r := newRegistry(t)
	blocks := compile.NewBuiltinBlockRegistry()
	p := fixtures.Chain(0)
	res := compile.Compile(p, r, blocks, config.DefaultConfig(), nil)
	res.Errors = append(res.Errors, compile.Error{Code: compile.CodeCycle, Message: "synthetic"})

	_, err := compile.ToIR(res, p)
	assert.Error(t, err)
}

func TestBuild_IsIdempotent(t *testing.T) {
	r := newRegistry(t)
	blocks := compile.NewBuiltinBlockRegistry()

	p1 := fixtures.Star(3, "sum")
	res1 := compile.Compile(p1, r, blocks, config.DefaultConfig(), nil)
	require.Empty(t, res1.Errors)
	prog1, err := compile.ToIR(res1, p1)
	require.NoError(t, err)

	p2 := fixtures.Star(3, "sum")
	res2 := compile.Compile(p2, r, blocks, config.DefaultConfig(), nil)
	require.Empty(t, res2.Errors)
	prog2, err := compile.ToIR(res2, p2)
	require.NoError(t, err)

	assert.True(t, reflect.DeepEqual(prog1.Schedule, prog2.Schedule))
	assert.Equal(t, prog1.DebugIndex, prog2.DebugIndex)
}

func TestBuilder_AddStep_DuplicateIDPanics(t *testing.T) {
	b := ir.NewBuilder()
	b.AddStep(ir.Step{ID: "x", Kind: ir.StepBlockEval})
	assert.Panics(t, func() {
		b.AddStep(ir.Step{ID: "x", Kind: ir.StepBlockEval})
	})
}

func TestConstants_InternF64_Dedupes(t *testing.T) {
	c := ir.NewConstants()
	i1 := c.InternF64(1.5)
	i2 := c.InternF64(1.5)
	i3 := c.InternF64(2.5)
	assert.Equal(t, i1, i2)
	assert.NotEqual(t, i1, i3)
	assert.Equal(t, []float64{1.5, 2.5}, c.F64)
}
