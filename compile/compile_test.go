package compile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/patchcore/compile"
	"github.com/katalvlaran/patchcore/internal/config"
	"github.com/katalvlaran/patchcore/patch"
	"github.com/katalvlaran/patchcore/patch/fixtures"
	"github.com/katalvlaran/patchcore/registry"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New(nil)
	require.NoError(t, registry.RegisterBuiltins(r))
	return r
}

func TestCompile_Chain_ResolvesSink(t *testing.T) {
	r := newRegistry(t)
	blocks := compile.NewBuiltinBlockRegistry()
	p := fixtures.Chain(3)

	res := compile.Compile(p, r, blocks, config.DefaultConfig(), nil)

	require.Empty(t, res.Errors)
	assert.Contains(t, res.Sinks, "sink")
	assert.True(t, indexOf(res.Order, "block0") < indexOf(res.Order, "block1"))
	assert.True(t, indexOf(res.Order, "block1") < indexOf(res.Order, "block2"))
	assert.True(t, indexOf(res.Order, "block2") < indexOf(res.Order, "sink"))
}

func TestCompile_Diamond_SchedulesFanInAfterBothBranches(t *testing.T) {
	r := newRegistry(t)
	blocks := compile.NewBuiltinBlockRegistry()
	p := fixtures.Diamond()

	res := compile.Compile(p, r, blocks, config.DefaultConfig(), nil)

	require.Empty(t, res.Errors)
	posA := indexOf(res.Order, "a")
	posB := indexOf(res.Order, "b")
	posC := indexOf(res.Order, "c")
	posD := indexOf(res.Order, "d")
	assert.True(t, posA < posB && posA < posC)
	assert.True(t, posB < posD && posC < posD)
}

func TestCompile_MissingBlockType_ReportsMissingBlockError(t *testing.T) {
	r := newRegistry(t)
	blocks := compile.NewBuiltinBlockRegistry()
	p := &patch.Patch{Blocks: []patch.Block{{ID: "ghost", Type: "doesNotExist"}}}

	res := compile.Compile(p, r, blocks, config.DefaultConfig(), nil)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, compile.CodeMissingBlock, res.Errors[0].Code)
	assert.Equal(t, "ghost", res.Errors[0].At.BlockID)
}

func TestCompile_Cycle_ReportsCycleError(t *testing.T) {
	r := newRegistry(t)
	blocks := compile.NewBuiltinBlockRegistry()
	p := &patch.Patch{
		Blocks: []patch.Block{
			{ID: "a", Type: "identity"},
			{ID: "b", Type: "identity"},
		},
		Wires: []patch.Wire{
			{From: patch.SlotRef{BlockID: "a", SlotID: "out"}, To: patch.SlotRef{BlockID: "b", SlotID: "in"}},
			{From: patch.SlotRef{BlockID: "b", SlotID: "out"}, To: patch.SlotRef{BlockID: "a", SlotID: "in"}},
		},
	}

	res := compile.Compile(p, r, blocks, config.DefaultConfig(), nil)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, compile.CodeCycle, res.Errors[0].Code)
}

func TestCompile_Star_BusFeedsListenerAfterAllPublishers(t *testing.T) {
	r := newRegistry(t)
	blocks := compile.NewBuiltinBlockRegistry()
	p := fixtures.Star(4, "sum")

	res := compile.Compile(p, r, blocks, config.DefaultConfig(), nil)

	require.Empty(t, res.Errors)
	listenerPos := indexOf(res.Order, "listener")
	for i := 0; i < 4; i++ {
		leafPos := indexOf(res.Order, leafID(i))
		assert.True(t, leafPos < listenerPos)
	}
}

func TestCompile_UnreachableBlock_Warns(t *testing.T) {
	r := newRegistry(t)
	blocks := compile.NewBuiltinBlockRegistry()
	p := fixtures.Chain(1)
	p.Blocks = append(p.Blocks, patch.Block{ID: "orphan", Type: "identity"})

	res := compile.Compile(p, r, blocks, config.DefaultConfig(), nil)

	require.Empty(t, res.Errors)
	found := false
	for _, w := range res.Warnings {
		if w.At.BlockID == "orphan" {
			found = true
		}
	}
	assert.True(t, found)
}

func leafID(i int) string {
	return []string{"leaf0", "leaf1", "leaf2", "leaf3"}[i]
}

func indexOf(order []string, id string) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}

