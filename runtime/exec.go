package runtime

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/katalvlaran/patchcore/artifact"
	"github.com/katalvlaran/patchcore/debugcore"
	"github.com/katalvlaran/patchcore/ir"
)

// ErrNoOutputs is returned when a Program declares no outputs to execute.
var ErrNoOutputs = errors.New("runtime: program has no outputs")

// ErrPathClipNotImplemented is returned when a Tree contains a
// ClipPath-kind clip group. §9(a): path-based clipping is reserved and
// must surface as NotImplemented rather than silently degrading to a
// bounding box.
var ErrPathClipNotImplemented = errors.New("runtime: path-based clipping is reserved and unimplemented (NotImplemented)")

// ExecuteFrame walks outputID's compiled render program at time tMs,
// advancing state's transport clock first. It is a pure function of
// (program, state.Seed, tMs) plus whatever state's caches already hold —
// no wall-clock jitter ever reaches the result (testable property 1).
//
// outputID selects which of program.Outputs to execute; pass "" to
// execute the lexicographically first output (Outputs is always sorted
// by ID — see ir.Build), the common case of a program with a single
// render sink.
func ExecuteFrame(program *ir.Program, state *State, tMs float64, outputID string) (*RenderFrameIR, error) {
	if len(program.Outputs) == 0 {
		return nil, ErrNoOutputs
	}

	state.LastT = state.T
	state.T = tMs
	state.FrameID++
	walkStart := time.Now()

	out, ok := selectOutput(program.Outputs, outputID)
	if !ok {
		return nil, fmt.Errorf("runtime: unknown output %q", outputID)
	}

	val := program.Resolve(out.Slot)
	if val.IsError() {
		return nil, fmt.Errorf("runtime: sink %q is an error artifact: %s", out.ID, val.ErrorMessage())
	}
	if val.Kind() != artifact.KindRenderTreeProgram {
		return nil, fmt.Errorf("runtime: sink %q is not a RenderTreeProgram (got %s)", out.ID, val.Kind())
	}

	ctx := state.Ctx()
	sig := val.ProgramSignal()
	if sig == nil {
		return nil, fmt.Errorf("runtime: sink %q has no render signal", out.ID)
	}

	treeVal := sig(tMs, ctx)
	tree, ok := treeVal.(*Tree)
	if !ok {
		if treeVal == nil {
			return &RenderFrameIR{Clear: Clear{Mode: ClearNone}}, nil
		}
		return nil, fmt.Errorf("runtime: sink %q produced an unrecognized render tree type %T", out.ID, treeVal)
	}

	passes, err := walk(tree)
	if state.Spans != nil {
		flags := debugcore.SpanFlagNone
		if err != nil {
			flags = debugcore.SpanFlagError
		}
		state.Spans.Push(debugcore.Span{
			FrameID:    state.FrameID,
			TMs:        tMs,
			Kind:       debugcore.SpanRenderWalk,
			SubjectID:  out.ID,
			DurationUs: time.Since(walkStart).Microseconds(),
			Flags:      flags,
		})
	}
	if err != nil {
		return nil, err
	}

	frame := &RenderFrameIR{
		Clear:  Clear{Mode: ClearColor, ColorRGBA: 0},
		Passes: passes,
	}

	if ev := val.ProgramEvent(); ev != nil {
		for _, e := range ev(tMs, state.LastT) {
			frame.Overlays = append(frame.Overlays, Overlay{ID: e.ID, Kind: "event"})
		}
	}

	return frame, nil
}

func selectOutput(outputs []ir.Output, id string) (ir.Output, bool) {
	if id == "" {
		return outputs[0], true
	}
	for _, o := range outputs {
		if o.ID == id {
			return o, true
		}
	}
	return ir.Output{}, false
}

// walk lowers a Tree into the flat Pass list RenderFrameIR carries,
// recursing through clipGroup/postFX nesting and sorting sibling passes
// by ascending Z so paint order is deterministic regardless of the tree's
// construction order.
func walk(t *Tree) ([]Pass, error) {
	if t == nil {
		return nil, nil
	}

	switch t.Kind {
	case NodeAssemble:
		var out []Pass
		for _, c := range t.Children {
			ps, err := walk(c)
			if err != nil {
				return nil, err
			}
			out = append(out, ps...)
		}
		sortPassesByZ(out)
		return out, nil

	case NodeInstances2D:
		if !t.Enabled {
			return nil, nil
		}
		return []Pass{{
			Header:    PassHeader{Z: t.Z, Enabled: t.Enabled},
			Kind:      PassInstances2D,
			Instances: t.Instances,
		}}, nil

	case NodeClipGroup:
		if t.Clip.Kind == ClipPath {
			return nil, ErrPathClipNotImplemented
		}
		if !t.Enabled {
			return nil, nil
		}
		var kids []Pass
		for _, c := range t.Children {
			ps, err := walk(c)
			if err != nil {
				return nil, err
			}
			kids = append(kids, ps...)
		}
		sortPassesByZ(kids)
		return []Pass{{
			Header:   PassHeader{Z: t.Z, Enabled: t.Enabled},
			Kind:     PassClipGroup,
			Clip:     t.Clip,
			Children: kids,
		}}, nil

	case NodePostFX:
		if !t.Enabled {
			if t.Child != nil {
				return walk(t.Child)
			}
			return nil, nil
		}
		var out []Pass
		if t.Child != nil {
			ps, err := walk(t.Child)
			if err != nil {
				return nil, err
			}
			out = append(out, ps...)
		}
		out = append(out, Pass{
			Header: PassHeader{Z: t.Z, Enabled: t.Enabled},
			Kind:   PassPostFX,
			PostFX: t.PostFX,
		})
		return out, nil

	default:
		return nil, fmt.Errorf("runtime: unknown render tree node kind %q", t.Kind)
	}
}

func sortPassesByZ(passes []Pass) {
	sort.SliceStable(passes, func(i, j int) bool { return passes[i].Header.Z < passes[j].Header.Z })
}
