// Package param implements the parameter resolver: a depth-bounded,
// cycle-checked recursive evaluator for lens and adapter parameter
// bindings (literal, default-source, bus-read, wire-read).
//
// The recursion/cycle-detection discipline mirrors a depth-first
// white/gray/black traversal, generalized from "has
// this vertex been visited" to "has this blockId:slotId binding already
// been entered on the current resolution path": cycles are forbidden
// outright and depth is capped, rather than solved with a lazy fixpoint.
package param

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/patchcore/artifact"
)

// MaxDepth is the hard bound on nested lens-parameter bindings.
const MaxDepth = 3

var (
	// ErrDepthExceeded corresponds to CompileError code ParamDepthExceeded.
	ErrDepthExceeded = errors.New("param: lens param nesting too deep")
	// ErrCycle corresponds to CompileError code ParamCycle.
	ErrCycle = errors.New("param: lens param cycle detected")
)

// BindingKind selects which of literal/default/bus/wire a Binding is.
type BindingKind int

const (
	BindingLiteral BindingKind = iota
	BindingDefault
	BindingBus
	BindingWire
)

// Binding is one parameter binding. Bus and wire bindings carry their own
// inner transform stack (Transforms), applied before the value is returned
// — this is how lens parameters can themselves be transformed signals.
type Binding struct {
	Kind BindingKind

	Literal artifact.Artifact // BindingLiteral

	DefaultID string // BindingDefault

	BusID string // BindingBus

	WireBlockID string // BindingWire
	WireSlotID  string // BindingWire

	// Transforms is the inner transform stack applied to a bus/wire read
	// before the resolved value is handed back to the caller. Opaque here:
	// the concrete stack-application function is supplied by the caller via
	// Context.ApplyStack, since param cannot import compile without a
	// cycle (compile depends on param).
	Transforms interface{}
}

// DefaultSource is one entry in the patch's default-source store.
type DefaultSource struct {
	Type  artifact.Kind
	Value artifact.Artifact
}

// Context carries everything Resolve needs to look up the other side of a
// bus or wire binding, plus the visited-set/depth state for recursion
// control. Construct one fresh Context per top-level resolution (i.e. per
// call into Resolve from the Graph Compiler); Context.child advances depth
// and carries the same visited set forward.
type Context struct {
	// ResolveBus returns the effective (post-combine) artifact for a bus.
	ResolveBus func(busID string) (artifact.Artifact, error)

	// ResolveWire returns the producer's output artifact for (blockID, slotID).
	ResolveWire func(blockID, slotID string) (artifact.Artifact, error)

	// DefaultSources is the patch's id -> {type, value} store.
	DefaultSources map[string]DefaultSource

	// ApplyStack applies a binding's inner transform stack (adapters+lenses)
	// to a value, scoped appropriately. Supplied by the Graph Compiler,
	// which owns the registry/param-resolution loop. It receives the
	// depth-advanced child Context so that any nested lens parameters
	// within the inner stack are themselves depth- and cycle-checked.
	ApplyStack func(value artifact.Artifact, transforms interface{}, ctx *Context) (artifact.Artifact, error)

	Runtime artifact.Ctx

	depth   int
	visited map[string]bool
}

// NewContext builds a fresh top-level Context (depth 0, empty visited set).
func NewContext(resolveBus func(string) (artifact.Artifact, error), resolveWire func(string, string) (artifact.Artifact, error), defaults map[string]DefaultSource, applyStack func(artifact.Artifact, interface{}, *Context) (artifact.Artifact, error), rtCtx artifact.Ctx) *Context {
	return &Context{
		ResolveBus:     resolveBus,
		ResolveWire:    resolveWire,
		DefaultSources: defaults,
		ApplyStack:     applyStack,
		Runtime:        rtCtx,
		visited:        make(map[string]bool),
	}
}

func (c *Context) child() *Context {
	return &Context{
		ResolveBus:     c.ResolveBus,
		ResolveWire:    c.ResolveWire,
		DefaultSources: c.DefaultSources,
		ApplyStack:     c.ApplyStack,
		Runtime:        c.Runtime,
		depth:          c.depth + 1,
		visited:        c.visited,
	}
}

// Child returns a depth-advanced Context sharing this one's visited set,
// for callers (the Graph Compiler) that resolve a lens parameter's own
// binding outside of Resolve's internal bus/wire recursion.
func (c *Context) Child() *Context {
	return c.child()
}

// Resolve evaluates a Binding into an Artifact under ctx.
func Resolve(b Binding, ctx *Context) (artifact.Artifact, error) {
	if ctx.depth > MaxDepth {
		return artifact.Artifact{}, ErrDepthExceeded
	}

	switch b.Kind {
	case BindingLiteral:
		return b.Literal, nil

	case BindingDefault:
		src, ok := ctx.DefaultSources[b.DefaultID]
		if !ok {
			return artifact.NewError(fmt.Sprintf("param: unknown default source %q", b.DefaultID)), nil
		}
		return liftDefault(src), nil

	case BindingBus:
		key := "bus:" + b.BusID
		if ctx.visited[key] {
			return artifact.Artifact{}, ErrCycle
		}
		ctx.visited[key] = true
		defer delete(ctx.visited, key)

		val, err := ctx.ResolveBus(b.BusID)
		if err != nil {
			return artifact.Artifact{}, err
		}
		if val.IsError() {
			return val, nil
		}
		if b.Transforms == nil || ctx.ApplyStack == nil {
			return val, nil
		}
		return ctx.ApplyStack(val, b.Transforms, ctx.child())

	case BindingWire:
		key := "wire:" + b.WireBlockID + ":" + b.WireSlotID
		if ctx.visited[key] {
			return artifact.Artifact{}, ErrCycle
		}
		ctx.visited[key] = true
		defer delete(ctx.visited, key)

		val, err := ctx.ResolveWire(b.WireBlockID, b.WireSlotID)
		if err != nil {
			return artifact.Artifact{}, err
		}
		if val.IsError() {
			return val, nil
		}
		if b.Transforms == nil || ctx.ApplyStack == nil {
			return val, nil
		}
		return ctx.ApplyStack(val, b.Transforms, ctx.child())

	default:
		return artifact.NewError("param: unknown binding kind"), nil
	}
}

// liftDefault promotes a stored default-source literal into the matching
// Artifact variant, e.g. {type: signal, domain: float, value: v} ->
// Signal:float(() -> v).
func liftDefault(src DefaultSource) artifact.Artifact {
	switch src.Type {
	case artifact.KindSignalFloat:
		v := src.Value.ScalarFloat()
		return artifact.NewSignalFloat(func(float64, artifact.Ctx) float64 { return v })
	case artifact.KindSignalPhase:
		v := src.Value.ScalarFloat()
		return artifact.NewSignalPhase(func(float64, artifact.Ctx) float64 { return v })
	case artifact.KindSignalUnit:
		v := src.Value.ScalarFloat()
		return artifact.NewSignalUnit(func(float64, artifact.Ctx) float64 { return v })
	case artifact.KindFieldFloat:
		v := src.Value.ScalarFloat()
		return artifact.NewFieldFloat(func(_ int64, n int, _ artifact.Ctx) []float64 {
			out := make([]float64, n)
			for i := range out {
				out[i] = v
			}
			return out
		})
	default:
		// Scalars and anything else lift as-is: the stored value already is
		// the matching Scalar:* artifact.
		return src.Value
	}
}
