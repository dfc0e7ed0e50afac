// Package bus implements the bus combiner: it normalizes a bus's
// enabled publishers into a single effective artifact according to the
// bus's combine mode, and applies listener-side transform stacks to the
// post-combine value.
//
// The sum/average/min/max combiners are adapted from lvlath's
// matrix/ops_elementwise.go pointwise-combine pattern (iterate paired
// elements, apply a numeric policy) — generalized from matrix cells to
// per-element Field values and per-evaluation Signal values.
package bus

import (
	"fmt"

	"github.com/katalvlaran/patchcore/artifact"
)

// CombineMode selects how multiple publishers merge into one effective
// value.
type CombineMode int

const (
	CombineLast CombineMode = iota
	CombineSum
	CombineAverage
	CombineMin
	CombineMax
)

// Publisher is one enabled publisher contributing to a bus.
type Publisher struct {
	ID      string
	SortKey float64
	Value   artifact.Artifact // already transform-stack-applied, scope=publisher
}

func (p Publisher) Kind() artifact.Kind { return p.Value.Kind() }

// Bus describes one named channel.
type Bus struct {
	ID          string
	Type        artifact.Kind
	CombineMode CombineMode
	Default     artifact.Artifact
}

// elementFold reduces a slice of per-publisher float64 values (one
// evaluation's worth, across publishers) into a single float64 under mode.
func elementFold(mode CombineMode, vals []float64) float64 {
	acc := vals[0]
	for _, v := range vals[1:] {
		switch mode {
		case CombineSum, CombineAverage:
			acc += v
		case CombineMin:
			if v < acc {
				acc = v
			}
		case CombineMax:
			if v > acc {
				acc = v
			}
		}
	}
	if mode == CombineAverage {
		acc /= float64(len(vals))
	}
	return acc
}

// Compile computes the effective artifact for a bus given its enabled,
// already-transformed publishers. An empty publisher list always yields the
// bus's default — never an error.
func Compile(b Bus, publishers []Publisher) (artifact.Artifact, error) {
	if len(publishers) == 0 {
		return b.Default, nil
	}

	// Any Error publisher poisons the combination.
	for _, p := range publishers {
		if p.Value.IsError() {
			return p.Value, nil
		}
	}

	switch b.CombineMode {
	case CombineLast:
		return combineLast(publishers), nil
	case CombineSum, CombineAverage, CombineMin, CombineMax:
		return combinePointwise(b.CombineMode, publishers)
	default:
		return artifact.NewError(fmt.Sprintf("bus: unknown combine mode %d", b.CombineMode)), nil
	}
}

// combineLast picks the publisher with the greatest SortKey; ties break by
// lexicographically greatest publisher ID, so "last" has a total order even
// among same-priority publishers. This is the one mode that is not
// commutative, hence the explicit total order.
func combineLast(publishers []Publisher) artifact.Artifact {
	best := publishers[0]
	for _, p := range publishers[1:] {
		if p.SortKey > best.SortKey || (p.SortKey == best.SortKey && p.ID > best.ID) {
			best = p
		}
	}
	return best.Value
}

// combinePointwise dispatches to the right per-Kind combiner. All
// publishers must share the same Kind — the Graph Compiler adapts every
// publisher to the bus's declared type before it reaches here, so a
// mismatch is an internal invariant violation rather than user-facing
// input and is reported as an Error artifact.
func combinePointwise(mode CombineMode, publishers []Publisher) (artifact.Artifact, error) {
	kind := publishers[0].Kind()
	for _, p := range publishers[1:] {
		if p.Value.Kind() != kind {
			return artifact.NewError("bus: combine requires uniform publisher type"), nil
		}
	}

	switch kind {
	case artifact.KindScalarFloat:
		return combineScalarFloat(mode, publishers), nil
	case artifact.KindSignalFloat:
		return combineSignalFloat(mode, publishers), nil
	case artifact.KindFieldFloat:
		return combineFieldFloat(mode, publishers), nil
	case artifact.KindSignalVec2:
		return combineSignalVec2(mode, publishers), nil
	case artifact.KindFieldVec2:
		return combineFieldVec2(mode, publishers), nil
	case artifact.KindSignalColor:
		return combineSignalColor(mode, publishers), nil
	case artifact.KindFieldColor:
		return combineFieldColor(mode, publishers), nil
	default:
		return artifact.NewError(fmt.Sprintf("bus: combine not supported for %s", kind)), nil
	}
}

func combineScalarFloat(mode CombineMode, publishers []Publisher) artifact.Artifact {
	vals := make([]float64, len(publishers))
	for i, p := range publishers {
		vals[i] = p.Value.ScalarFloat()
	}
	return artifact.NewScalarFloat(elementFold(mode, vals))
}

func combineSignalFloat(mode CombineMode, publishers []Publisher) artifact.Artifact {
	fns := make([]artifact.SignalFloatFn, len(publishers))
	for i, p := range publishers {
		fns[i] = p.Value.SignalFloat()
	}
	return artifact.NewSignalFloat(func(t float64, ctx artifact.Ctx) float64 {
		vals := make([]float64, len(fns))
		for i, fn := range fns {
			vals[i] = fn(t, ctx)
		}
		return elementFold(mode, vals)
	})
}

func combineFieldFloat(mode CombineMode, publishers []Publisher) artifact.Artifact {
	fns := make([]artifact.FieldFloatFn, len(publishers))
	for i, p := range publishers {
		fns[i] = p.Value.FieldFloat()
	}
	return artifact.NewFieldFloat(func(seed int64, n int, ctx artifact.Ctx) []float64 {
		buf := make([][]float64, len(fns))
		for i, fn := range fns {
			buf[i] = fn(seed, n, ctx)
		}
		out := make([]float64, n)
		vals := make([]float64, len(buf))
		for elem := 0; elem < n; elem++ {
			for i := range buf {
				vals[i] = buf[i][elem]
			}
			out[elem] = elementFold(mode, vals)
		}
		return out
	})
}

func combineSignalVec2(mode CombineMode, publishers []Publisher) artifact.Artifact {
	fns := make([]artifact.SignalVec2Fn, len(publishers))
	for i, p := range publishers {
		fns[i] = p.Value.SignalVec2()
	}
	return artifact.NewSignalVec2(func(t float64, ctx artifact.Ctx) artifact.Vec2 {
		xs := make([]float64, len(fns))
		ys := make([]float64, len(fns))
		for i, fn := range fns {
			v := fn(t, ctx)
			xs[i], ys[i] = v.X, v.Y
		}
		return artifact.Vec2{X: elementFold(mode, xs), Y: elementFold(mode, ys)}
	})
}

func combineFieldVec2(mode CombineMode, publishers []Publisher) artifact.Artifact {
	fns := make([]artifact.FieldVec2Fn, len(publishers))
	for i, p := range publishers {
		fns[i] = p.Value.FieldVec2()
	}
	return artifact.NewFieldVec2(func(seed int64, n int, ctx artifact.Ctx) []artifact.Vec2 {
		buf := make([][]artifact.Vec2, len(fns))
		for i, fn := range fns {
			buf[i] = fn(seed, n, ctx)
		}
		out := make([]artifact.Vec2, n)
		xs := make([]float64, len(buf))
		ys := make([]float64, len(buf))
		for elem := 0; elem < n; elem++ {
			for i := range buf {
				xs[i], ys[i] = buf[i][elem].X, buf[i][elem].Y
			}
			out[elem] = artifact.Vec2{X: elementFold(mode, xs), Y: elementFold(mode, ys)}
		}
		return out
	})
}

// colorChannels splits a packed 0xAARRGGBB color into four float64 channels.
func colorChannels(c artifact.Color) (a, r, g, b float64) {
	v := uint32(c)
	return float64((v >> 24) & 0xFF), float64((v >> 16) & 0xFF), float64((v >> 8) & 0xFF), float64(v & 0xFF)
}

// packColor clamps each channel into [0,255] before packing, so a sum or
// average combination never produces an out-of-range color component.
func packColor(a, r, g, b float64) artifact.Color {
	clamp := func(v float64) uint32 {
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		return uint32(v)
	}
	return artifact.Color(clamp(a)<<24 | clamp(r)<<16 | clamp(g)<<8 | clamp(b))
}

func combineSignalColor(mode CombineMode, publishers []Publisher) artifact.Artifact {
	fns := make([]artifact.SignalColorFn, len(publishers))
	for i, p := range publishers {
		fns[i] = p.Value.SignalColor()
	}
	return artifact.NewSignalColor(func(t float64, ctx artifact.Ctx) artifact.Color {
		as := make([]float64, len(fns))
		rs := make([]float64, len(fns))
		gs := make([]float64, len(fns))
		bs := make([]float64, len(fns))
		for i, fn := range fns {
			a, r, g, b := colorChannels(fn(t, ctx))
			as[i], rs[i], gs[i], bs[i] = a, r, g, b
		}
		return packColor(elementFold(mode, as), elementFold(mode, rs), elementFold(mode, gs), elementFold(mode, bs))
	})
}

func combineFieldColor(mode CombineMode, publishers []Publisher) artifact.Artifact {
	fns := make([]artifact.FieldColorFn, len(publishers))
	for i, p := range publishers {
		fns[i] = p.Value.FieldColor()
	}
	return artifact.NewFieldColor(func(seed int64, n int, ctx artifact.Ctx) []artifact.Color {
		buf := make([][]artifact.Color, len(fns))
		for i, fn := range fns {
			buf[i] = fn(seed, n, ctx)
		}
		out := make([]artifact.Color, n)
		as := make([]float64, len(buf))
		rs := make([]float64, len(buf))
		gs := make([]float64, len(buf))
		bs := make([]float64, len(buf))
		for elem := 0; elem < n; elem++ {
			for i := range buf {
				as[i], rs[i], gs[i], bs[i] = colorChannels(buf[i][elem])
			}
			out[elem] = packColor(elementFold(mode, as), elementFold(mode, rs), elementFold(mode, gs), elementFold(mode, bs))
		}
		return out
	})
}
