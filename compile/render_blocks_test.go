package compile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/patchcore/artifact"
	"github.com/katalvlaran/patchcore/compile"
	"github.com/katalvlaran/patchcore/internal/config"
	"github.com/katalvlaran/patchcore/patch"
	"github.com/katalvlaran/patchcore/runtime"
)

func instance2DToSinkPatch() *patch.Patch {
	return &patch.Patch{
		Blocks: []patch.Block{
			{ID: "dot", Type: "instance2D", Params: map[string]patch.ParamBinding{
				"glyph": {Kind: "literal", LiteralKind: "string", LiteralStr: "circle"},
			}},
			{ID: "sink", Type: "renderSink"},
		},
		Wires: []patch.Wire{
			{From: patch.SlotRef{BlockID: "dot", SlotID: "out"}, To: patch.SlotRef{BlockID: "sink", SlotID: "in"}},
		},
	}
}

func TestRenderBlocks_Instance2D_ProducesInstancesPass(t *testing.T) {
	r := newRegistry(t)
	blocks := compile.NewBuiltinBlockRegistry()
	compile.RegisterRenderBlocks(blocks)

	p := instance2DToSinkPatch()
	res := compile.Compile(p, r, blocks, config.DefaultConfig(), nil)
	require.Empty(t, res.Errors)
	require.Contains(t, res.Sinks, "sink")

	prog, err := compile.ToIR(res, p)
	require.NoError(t, err)

	state := runtime.NewState(artifact.Viewport{W: 100, H: 100, DPR: 1}, 1)
	frame, err := runtime.ExecuteFrame(prog, state, 0, "")
	require.NoError(t, err)
	require.Len(t, frame.Passes, 1)
	assert.Equal(t, runtime.PassInstances2D, frame.Passes[0].Kind)
	require.Len(t, frame.Passes[0].Instances, 1)
	assert.Equal(t, runtime.GlyphCircle, frame.Passes[0].Instances[0].Glyph.Kind)
}
