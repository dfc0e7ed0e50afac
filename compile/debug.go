package compile

import (
	"github.com/katalvlaran/patchcore/artifact"
	"github.com/katalvlaran/patchcore/debugcore"
)

// Option configures an optional cross-cutting concern on a single Compile
// call. The zero value of compiler behaves as if no options were given.
type Option func(*compiler)

// WithDebugRegistry attaches a probe registry so compileBlock's resolved
// scalar outputs are visible to any TargetBlock probe created against reg.
// Signals, fields, and render programs are function-valued at compile time
// and carry no single observable number yet, so only scalar-kind outputs
// are recorded here; their sampled values at runtime are a separate concern
// for the executor, not the compiler.
func WithDebugRegistry(reg *debugcore.Registry) Option {
	return func(c *compiler) { c.debug = reg }
}

// recordBlockOutputs reports blk's resolved scalar outputs to any probe
// watching it. A nil debug registry (the common case outside a debug
// session) makes this a no-op.
func (c *compiler) recordBlockOutputs(blockID string, outs map[string]artifact.Artifact) {
	if c.debug == nil {
		return
	}
	target := debugcore.Target{Kind: debugcore.TargetBlock, ID: blockID}
	for _, out := range outs {
		if v, ok := scalarToDebugValue(out); ok {
			c.debug.Record(target, v)
		}
	}
}

func scalarToDebugValue(a artifact.Artifact) (debugcore.Value, bool) {
	switch a.Kind() {
	case artifact.KindError:
		return debugcore.Value{Tag: debugcore.ValueErr, ErrKind: debugcore.ValueErrUnknown}, true
	case artifact.KindScalarFloat:
		return debugcore.Summarize(0, debugcore.ValueNum, a.ScalarFloat()), true
	case artifact.KindScalarInt:
		return debugcore.Summarize(0, debugcore.ValueNum, float64(a.ScalarInt())), true
	case artifact.KindScalarBool:
		v := debugcore.Summarize(0, debugcore.ValueBool, 0)
		if a.ScalarBool() {
			v.A = 1
		}
		return v, true
	case artifact.KindScalarVec2:
		p := a.ScalarVec2()
		return debugcore.Summarize(0, debugcore.ValueVec2, p.X, p.Y), true
	case artifact.KindScalarColor:
		return debugcore.Summarize(0, debugcore.ValueColor, float64(a.ScalarColor())), true
	default:
		return debugcore.Value{}, false
	}
}
