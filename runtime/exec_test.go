package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/patchcore/artifact"
	"github.com/katalvlaran/patchcore/debugcore"
	"github.com/katalvlaran/patchcore/ir"
	"github.com/katalvlaran/patchcore/runtime"
)

func programWithTree(tree *runtime.Tree) *ir.Program {
	b := ir.NewBuilder()
	val := artifact.NewRenderTreeProgram(
		func(t float64, _ artifact.Ctx) artifact.RenderTree { return tree },
		nil,
	)
	slot := b.InternClosure(val)
	return b.Build([]ir.Output{{ID: "sink", Kind: artifact.KindRenderTreeProgram, Slot: slot}})
}

func TestExecuteFrame_InstancesPass_Deterministic(t *testing.T) {
	tree := &runtime.Tree{
		Kind:    runtime.NodeAssemble,
		Enabled: true,
		Children: []*runtime.Tree{
			{Kind: runtime.NodeInstances2D, Z: 2, Enabled: true, Instances: []runtime.Instance{{Color: 0xFFFFFFFF}}},
			{Kind: runtime.NodeInstances2D, Z: 1, Enabled: true, Instances: []runtime.Instance{{Color: 0xFF000000}}},
		},
	}
	prog := programWithTree(tree)
	state := runtime.NewState(artifact.Viewport{W: 100, H: 100, DPR: 1}, 42)

	frame1, err := runtime.ExecuteFrame(prog, state, 16.0, "")
	require.NoError(t, err)
	frame2, err := runtime.ExecuteFrame(prog, state, 16.0, "")
	require.NoError(t, err)

	require.Len(t, frame1.Passes, 2)
	assert.Equal(t, 1, frame1.Passes[0].Header.Z)
	assert.Equal(t, 2, frame1.Passes[1].Header.Z)
	assert.Equal(t, frame1, frame2)
}

func TestExecuteFrame_PathClip_NotImplemented(t *testing.T) {
	tree := &runtime.Tree{
		Kind:    runtime.NodeClipGroup,
		Enabled: true,
		Clip:    runtime.ClipShape{Kind: runtime.ClipPath},
	}
	prog := programWithTree(tree)
	state := runtime.NewState(artifact.Viewport{}, 0)

	_, err := runtime.ExecuteFrame(prog, state, 0, "")
	assert.ErrorIs(t, err, runtime.ErrPathClipNotImplemented)
}

func TestExecuteFrame_NoOutputs_Errors(t *testing.T) {
	prog := ir.NewBuilder().Build(nil)
	state := runtime.NewState(artifact.Viewport{}, 0)

	_, err := runtime.ExecuteFrame(prog, state, 0, "")
	assert.ErrorIs(t, err, runtime.ErrNoOutputs)
}

func TestState_MaterializeFloatField_CachesUntilInvalidated(t *testing.T) {
	state := runtime.NewState(artifact.Viewport{}, 7)
	calls := 0
	fn := func(seed int64, n int, _ artifact.Ctx) []float64 {
		calls++
		out := make([]float64, n)
		for i := range out {
			out[i] = float64(seed) + float64(i)
		}
		return out
	}

	got1 := state.MaterializeFloatField("step:a", 5, fn)
	got2 := state.MaterializeFloatField("step:a", 5, fn)
	assert.Equal(t, got1, got2)
	assert.Equal(t, 1, calls)

	state.InvalidateField("step:a")
	state.MaterializeFloatField("step:a", 5, fn)
	assert.Equal(t, 2, calls)
}

func TestState_MaterializeFloatField_RecordsCacheHitSpans(t *testing.T) {
	state := runtime.NewState(artifact.Viewport{}, 1)
	state.Spans = debugcore.NewSpanRing(8)
	fn := func(seed int64, n int, _ artifact.Ctx) []float64 { return make([]float64, n) }

	state.MaterializeFloatField("step:a", 3, fn)
	state.MaterializeFloatField("step:a", 3, fn)

	require.Equal(t, uint64(2), state.Spans.Len())
	first, ok := state.Spans.GetByIndex(0)
	require.True(t, ok)
	assert.Equal(t, debugcore.SpanFieldMaterialize, first.Kind)
	assert.Equal(t, debugcore.SpanFlagNone, first.Flags)

	second, ok := state.Spans.GetByIndex(1)
	require.True(t, ok)
	assert.Equal(t, debugcore.SpanFlagCacheHit, second.Flags)
}

func TestExecuteFrame_RecordsRenderWalkSpanPerFrame(t *testing.T) {
	tree := &runtime.Tree{Kind: runtime.NodeInstances2D, Enabled: true}
	prog := programWithTree(tree)
	state := runtime.NewState(artifact.Viewport{}, 0)
	state.Spans = debugcore.NewSpanRing(4)

	_, err := runtime.ExecuteFrame(prog, state, 0, "")
	require.NoError(t, err)
	_, err = runtime.ExecuteFrame(prog, state, 16, "")
	require.NoError(t, err)

	require.Equal(t, uint64(2), state.Spans.Len())
	span, ok := state.Spans.GetByIndex(1)
	require.True(t, ok)
	assert.Equal(t, debugcore.SpanRenderWalk, span.Kind)
	assert.Equal(t, uint64(2), span.FrameID)
	assert.Equal(t, debugcore.SpanFlagNone, span.Flags)
}
