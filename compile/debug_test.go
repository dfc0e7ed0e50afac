package compile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/patchcore/compile"
	"github.com/katalvlaran/patchcore/debugcore"
	"github.com/katalvlaran/patchcore/internal/config"
	"github.com/katalvlaran/patchcore/patch/fixtures"
)

func TestCompile_WithDebugRegistry_RecordsUnconnectedInputAsErrValue(t *testing.T) {
	r := newRegistry(t)
	blocks := compile.NewBuiltinBlockRegistry()
	// block0's "in" slot has no wire or listener feeding it, so its
	// "identity" forward produces an Error-kind artifact, a genuinely
	// observable outcome a probe on block0 should see.
	p := fixtures.Chain(2)

	reg := debugcore.NewRegistry(8)
	probe := reg.CreateProbe(debugcore.Target{Kind: debugcore.TargetBlock, ID: "block0"})

	res := compile.Compile(p, r, blocks, config.DefaultConfig(), nil, compile.WithDebugRegistry(reg))

	require.Empty(t, res.Errors)
	history, ok := reg.GetProbeHistory(probe.ID, 8)
	require.True(t, ok)
	require.NotEmpty(t, history)
	assert.Equal(t, debugcore.ValueErr, history[0].Tag)
}

func TestCompile_WithoutDebugRegistry_IsUnaffected(t *testing.T) {
	r := newRegistry(t)
	blocks := compile.NewBuiltinBlockRegistry()
	p := fixtures.Chain(2)

	res := compile.Compile(p, r, blocks, config.DefaultConfig(), nil)

	require.Empty(t, res.Errors)
	assert.Contains(t, res.Sinks, "sink")
}
