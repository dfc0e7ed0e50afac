// Package export runs a compiled program's frames through a two-stage
// pipeline: sequential execution against the single-owner RuntimeState,
// then concurrent encoding of the resulting immutable frames. The split
// exists because State mutates its transport clock and untilInvalidated
// caches on every ExecuteFrame call — only the frames themselves, once
// produced, are safe to hand to concurrent workers.
package export

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/patchcore/ir"
	"github.com/katalvlaran/patchcore/runtime"
)

// ErrCancelled is wrapped into CancelledError when a Run is aborted via its
// context before every frame finished encoding.
var ErrCancelled = errors.New("export: cancelled")

// CancelledError reports how many frames had already been encoded when a
// Run was cancelled.
type CancelledError struct {
	EncodedFrames int
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("export: cancelled after encoding %d frame(s): %v", e.EncodedFrames, ErrCancelled)
}

func (e *CancelledError) Unwrap() error { return ErrCancelled }

// Config parametrizes a frame-range export. StartFrame and EndFrame are
// inclusive frame indices; Fps selects how many frames span one second of
// program time. LoopCount is accepted and threaded to Encoder.Finish but
// this package does not itself interpret it (open question (b): loop count
// is part of the export contract, enforcing it is the encoder's job).
type Config struct {
	StartFrame int
	EndFrame   int
	Fps        float64
	OutputID   string
	LoopCount  int
}

// FrameCount reports how many frames {StartFrame..EndFrame} inclusive
// spans — the worked example {0,10,10fps} yields 11.
func (c Config) FrameCount() int {
	if c.EndFrame < c.StartFrame {
		return 0
	}
	return c.EndFrame - c.StartFrame + 1
}

// frameTimeMs converts a frame index to program time under Fps.
func (c Config) frameTimeMs(frame int) float64 {
	return float64(frame) / c.Fps * 1000.0
}

// DelayCentiseconds is the GIF-style inter-frame delay implied by Fps
// (100/fps, rounded to the nearest whole centisecond).
func (c Config) DelayCentiseconds() int {
	return int(100.0/c.Fps + 0.5)
}

// EncodedFrame pairs a rendered frame with its sequence index and delay,
// the unit an Encoder consumes.
type EncodedFrame struct {
	Index         int
	Frame         *runtime.RenderFrameIR
	DelayCentiSec int
}

// Encoder consumes frames (possibly out of order, since they're dispatched
// to concurrent workers) and assembles the final artifact once every frame
// has been submitted. Implementations must be safe for concurrent Encode
// calls; Finish is called exactly once after every Encode call returns.
type Encoder interface {
	Encode(ctx context.Context, f EncodedFrame) error
	Finish(loopCount int) ([]byte, error)
}

// Run executes cfg's frame range against program and state, encoding each
// finished frame through enc. Frame execution is strictly sequential (state
// is single-owner); encoding fans out across a bounded worker pool via
// errgroup, each worker touching only the immutable EncodedFrame it was
// handed.
func Run(ctx context.Context, program *ir.Program, state *runtime.State, cfg Config, enc Encoder, workers int) ([]byte, error) {
	n := cfg.FrameCount()
	if n == 0 {
		return nil, fmt.Errorf("export: empty frame range [%d,%d]", cfg.StartFrame, cfg.EndFrame)
	}
	if workers < 1 {
		workers = 1
	}

	frames := make([]*runtime.RenderFrameIR, n)
	for i := 0; i < n; i++ {
		frameIdx := cfg.StartFrame + i
		frame, err := runtime.ExecuteFrame(program, state, cfg.frameTimeMs(frameIdx), cfg.OutputID)
		if err != nil {
			return nil, fmt.Errorf("export: executing frame %d: %w", frameIdx, err)
		}
		frames[i] = frame
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	var encoded atomic.Int64
	for i, frame := range frames {
		i, frame := i, frame
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}
			err := enc.Encode(egCtx, EncodedFrame{
				Index:         i,
				Frame:         frame,
				DelayCentiSec: cfg.DelayCentiseconds(),
			})
			if err == nil {
				encoded.Add(1)
			}
			return err
		})
	}

	if err := eg.Wait(); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, &CancelledError{EncodedFrames: int(encoded.Load())}
		}
		return nil, fmt.Errorf("export: encoding: %w", err)
	}

	return enc.Finish(cfg.LoopCount)
}
