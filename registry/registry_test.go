package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/patchcore/artifact"
	"github.com/katalvlaran/patchcore/registry"
)

func newBuiltinRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New(nil)
	require.NoError(t, registry.RegisterBuiltins(r))
	return r
}

func TestRegister_DuplicateID(t *testing.T) {
	r := registry.New(nil)
	def := registry.Def{ID: "x", Kind: registry.KindAdapter, InputType: artifact.KindScalarFloat, OutputType: artifact.KindSignalFloat}
	require.NoError(t, r.Register(def))
	err := r.Register(def)
	require.Error(t, err)
}

func TestGet_AliasEquivalence(t *testing.T) {
	r := newBuiltinRegistry(t)

	byCanonical, ok := r.Get("phaseOffset")
	require.True(t, ok)
	byAlias, ok := r.Get("PhaseOffset")
	require.True(t, ok)

	assert.Same(t, byCanonical, byAlias)
}

func TestGet_Unknown(t *testing.T) {
	r := newBuiltinRegistry(t)
	_, ok := r.Get("doesNotExist")
	assert.False(t, ok)
}

func TestFindAdapters_CostMonotonic(t *testing.T) {
	r := registry.New(nil)
	require.NoError(t, r.Register(registry.Def{ID: "bExpensive", Kind: registry.KindAdapter, InputType: artifact.KindScalarFloat, OutputType: artifact.KindSignalFloat, Cost: 5}))
	require.NoError(t, r.Register(registry.Def{ID: "aCheap", Kind: registry.KindAdapter, InputType: artifact.KindScalarFloat, OutputType: artifact.KindSignalFloat, Cost: 1}))
	require.NoError(t, r.Register(registry.Def{ID: "cCheap", Kind: registry.KindAdapter, InputType: artifact.KindScalarFloat, OutputType: artifact.KindSignalFloat, Cost: 1}))

	list := r.FindAdapters(artifact.KindScalarFloat, artifact.KindSignalFloat)
	require.Len(t, list, 3)
	assert.Equal(t, "aCheap", list[0].ID)
	assert.Equal(t, "cCheap", list[1].ID)
	assert.Equal(t, "bExpensive", list[2].ID)
	for i := 1; i < len(list); i++ {
		assert.GreaterOrEqual(t, list[i].Cost, list[i-1].Cost)
	}
}

func TestFindAdapterPath_MultiHop(t *testing.T) {
	r := newBuiltinRegistry(t)
	// scalarFloat -> signalFloat -> signalUnit is a real two-hop chain in
	// the builtin catalog; there is no direct scalarFloat->signalUnit adapter.
	hops, ok := r.FindAdapterPath(artifact.KindScalarFloat, artifact.KindSignalUnit, 64)
	require.True(t, ok)
	require.Len(t, hops, 2)
	assert.Equal(t, artifact.KindScalarFloat, hops[0].From)
	assert.Equal(t, artifact.KindSignalUnit, hops[len(hops)-1].To)
}

func TestFindAdapterPath_NoPath(t *testing.T) {
	r := registry.New(nil)
	_, ok := r.FindAdapterPath(artifact.KindScalarBool, artifact.KindFieldColor, 64)
	assert.False(t, ok)
}

func TestLensesForDomain_ScopeFilter(t *testing.T) {
	r := newBuiltinRegistry(t)
	listener := registry.ScopeListener
	lenses := r.LensesForDomain("float", &listener)
	ids := make(map[string]bool)
	for _, l := range lenses {
		ids[l.ID] = true
	}
	assert.True(t, ids["mapRange"])
	assert.True(t, ids["hysteresis"])
}
