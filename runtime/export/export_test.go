package export_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/patchcore/artifact"
	"github.com/katalvlaran/patchcore/ir"
	"github.com/katalvlaran/patchcore/runtime"
	"github.com/katalvlaran/patchcore/runtime/export"
)

func solidTreeProgram() *ir.Program {
	b := ir.NewBuilder()
	tree := &runtime.Tree{Kind: runtime.NodeAssemble, Enabled: true}
	val := artifact.NewRenderTreeProgram(func(t float64, _ artifact.Ctx) artifact.RenderTree { return tree }, nil)
	slot := b.InternClosure(val)
	return b.Build([]ir.Output{{ID: "sink", Kind: artifact.KindRenderTreeProgram, Slot: slot}})
}

type recordingEncoder struct {
	mu     sync.Mutex
	frames []export.EncodedFrame
}

func (e *recordingEncoder) Encode(_ context.Context, f export.EncodedFrame) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frames = append(e.frames, f)
	return nil
}

func (e *recordingEncoder) Finish(loopCount int) ([]byte, error) {
	return []byte(fmt.Sprintf("loop=%d frames=%d", loopCount, len(e.frames))), nil
}

func TestConfig_FrameCount_GifWorkedExample(t *testing.T) {
	cfg := export.Config{StartFrame: 0, EndFrame: 10, Fps: 10}
	assert.Equal(t, 11, cfg.FrameCount())
	assert.Equal(t, 10, cfg.DelayCentiseconds())
}

func TestRun_EncodesEveryFrameExactlyOnce(t *testing.T) {
	prog := solidTreeProgram()
	state := runtime.NewState(artifact.Viewport{W: 10, H: 10, DPR: 1}, 1)
	enc := &recordingEncoder{}

	out, err := export.Run(context.Background(), prog, state, export.Config{StartFrame: 0, EndFrame: 10, Fps: 10}, enc, 4)
	require.NoError(t, err)
	assert.Equal(t, "loop=0 frames=11", string(out))

	seen := make(map[int]bool)
	for _, f := range enc.frames {
		assert.Equal(t, 10, f.DelayCentiSec)
		seen[f.Index] = true
	}
	assert.Len(t, seen, 11)
}

type failingEncoder struct{ failAt int }

func (e *failingEncoder) Encode(_ context.Context, f export.EncodedFrame) error {
	if f.Index == e.failAt {
		return fmt.Errorf("boom")
	}
	return nil
}
func (e *failingEncoder) Finish(int) ([]byte, error) { return nil, nil }

func TestRun_EncoderError_PropagatesAndAbortsFinish(t *testing.T) {
	prog := solidTreeProgram()
	state := runtime.NewState(artifact.Viewport{}, 1)
	enc := &failingEncoder{failAt: 2}

	_, err := export.Run(context.Background(), prog, state, export.Config{StartFrame: 0, EndFrame: 4, Fps: 10}, enc, 2)
	require.Error(t, err)
}

func TestRun_EmptyRange_Errors(t *testing.T) {
	prog := solidTreeProgram()
	state := runtime.NewState(artifact.Viewport{}, 1)
	_, err := export.Run(context.Background(), prog, state, export.Config{StartFrame: 5, EndFrame: 2, Fps: 10}, &recordingEncoder{}, 1)
	assert.Error(t, err)
}
