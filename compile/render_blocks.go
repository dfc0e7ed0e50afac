package compile

import (
	"github.com/katalvlaran/patchcore/artifact"
	"github.com/katalvlaran/patchcore/runtime"
)

// RegisterRenderBlocks adds the render-tree-producing block types
// (instance2D, clipGroup, postFX, renderAssemble) to reg. They are kept
// separate from NewBuiltinBlockRegistry's core set since they're the only
// block types that import runtime, the package that owns Tree — the
// concrete artifact.RenderTree a renderSink's program evaluates to each
// frame.
func RegisterRenderBlocks(reg BlockRegistry) {
	reg["instance2D"] = BlockDef{
		Type: "instance2D",
		Inputs: map[string]artifact.Kind{
			"x":     artifact.KindSignalFloat,
			"y":     artifact.KindSignalFloat,
			"color": artifact.KindSignalColor,
		},
		Outputs: map[string]artifact.Kind{"out": artifact.KindRenderTreeProgram},
		Compile: compileInstance2D,
	}
	reg["clipGroup"] = BlockDef{
		Type: "clipGroup",
		Inputs: map[string]artifact.Kind{
			"content": artifact.KindRenderTreeProgram,
		},
		Outputs: map[string]artifact.Kind{"out": artifact.KindRenderTreeProgram},
		Compile: compileClipGroup,
	}
	reg["postFX"] = BlockDef{
		Type: "postFX",
		Inputs: map[string]artifact.Kind{
			"content": artifact.KindRenderTreeProgram,
		},
		Outputs: map[string]artifact.Kind{"out": artifact.KindRenderTreeProgram},
		Compile: compilePostFX,
	}
	reg["renderAssemble"] = BlockDef{
		Type: "renderAssemble",
		Inputs: map[string]artifact.Kind{
			"in0": artifact.KindRenderTreeProgram,
			"in1": artifact.KindRenderTreeProgram,
			"in2": artifact.KindRenderTreeProgram,
			"in3": artifact.KindRenderTreeProgram,
		},
		Outputs: map[string]artifact.Kind{"out": artifact.KindRenderTreeProgram},
		Compile: compileRenderAssemble,
	}
}

func paramFloat(params map[string]artifact.Artifact, name string, def float64) float64 {
	v, ok := params[name]
	if !ok {
		return def
	}
	return v.ScalarFloat()
}

func paramInt(params map[string]artifact.Artifact, name string, def int) int {
	v, ok := params[name]
	if !ok {
		return def
	}
	return int(v.ScalarInt())
}

func paramString(params map[string]artifact.Artifact, name, def string) string {
	v, ok := params[name]
	if !ok {
		return def
	}
	return v.ScalarString()
}

// compileInstance2D builds a single-instance instance2D pass whose
// position and color track the "x"/"y"/"color" signal inputs each frame;
// params select the glyph and z order.
func compileInstance2D(inputs map[string]artifact.Artifact, params map[string]artifact.Artifact, _ artifact.Ctx) map[string]artifact.Artifact {
	xFn := signalFloatOrConst(inputs["x"], 0)
	yFn := signalFloatOrConst(inputs["y"], 0)
	colorFn := signalColorOrConst(inputs["color"], artifact.Color(0xFFFFFFFF))

	glyph := runtime.Glyph2D{Kind: runtime.GlyphKind(paramString(params, "glyph", string(runtime.GlyphCircle)))}
	if glyph.Kind == runtime.GlyphStar {
		glyph.Points = paramInt(params, "points", 5)
		glyph.Inner = paramFloat(params, "inner", 0.5)
	}
	z := paramInt(params, "z", 0)

	sig := func(t float64, ctx artifact.Ctx) artifact.RenderTree {
		return &runtime.Tree{
			Kind:    runtime.NodeInstances2D,
			Z:       z,
			Enabled: true,
			Instances: []runtime.Instance{{
				Transform: [6]float64{1, 0, 0, 1, xFn(t, ctx), yFn(t, ctx)},
				Color:     colorFn(t, ctx),
				Glyph:     glyph,
				Z:         z,
			}},
		}
	}
	return map[string]artifact.Artifact{"out": artifact.NewRenderTreeProgram(sig, nil)}
}

// compileClipGroup wraps content's tree in a clip region. Only rect/circle
// clip shapes are constructible here; a shape param of "path" is rejected
// at compile time rather than deferred to a runtime NotImplemented, since
// the block author already knows which shape they asked for.
func compileClipGroup(inputs map[string]artifact.Artifact, params map[string]artifact.Artifact, _ artifact.Ctx) map[string]artifact.Artifact {
	content := inputs["content"]
	if content.IsError() {
		return map[string]artifact.Artifact{"out": content}
	}
	contentSig := content.ProgramSignal()

	shapeKind := runtime.ClipShapeKind(paramString(params, "shape", string(runtime.ClipRect)))
	if shapeKind == runtime.ClipPath {
		return map[string]artifact.Artifact{"out": artifact.NewError("compile: clipGroup shape \"path\" is reserved and unimplemented")}
	}
	clip := runtime.ClipShape{
		Kind:   shapeKind,
		Rect:   [4]float64{paramFloat(params, "x", 0), paramFloat(params, "y", 0), paramFloat(params, "w", 0), paramFloat(params, "h", 0)},
		Radius: paramFloat(params, "radius", 0),
	}
	z := paramInt(params, "z", 0)

	sig := func(t float64, ctx artifact.Ctx) artifact.RenderTree {
		var child *runtime.Tree
		if contentSig != nil {
			child, _ = contentSig(t, ctx).(*runtime.Tree)
		}
		var children []*runtime.Tree
		if child != nil {
			children = []*runtime.Tree{child}
		}
		return &runtime.Tree{
			Kind:     runtime.NodeClipGroup,
			Z:        z,
			Enabled:  true,
			Clip:     clip,
			Children: children,
		}
	}
	return map[string]artifact.Artifact{"out": artifact.NewRenderTreeProgram(sig, nil)}
}

// compilePostFX wraps content's tree in a single post-processing effect.
func compilePostFX(inputs map[string]artifact.Artifact, params map[string]artifact.Artifact, _ artifact.Ctx) map[string]artifact.Artifact {
	content := inputs["content"]
	if content.IsError() {
		return map[string]artifact.Artifact{"out": content}
	}
	contentSig := content.ProgramSignal()

	spec := &runtime.PostFXSpec{
		Kind:   runtime.PostFXKind(paramString(params, "effect", string(runtime.PostFXBlur))),
		Params: map[string]float64{"amount": paramFloat(params, "amount", 1)},
	}
	z := paramInt(params, "z", 0)

	sig := func(t float64, ctx artifact.Ctx) artifact.RenderTree {
		var child *runtime.Tree
		if contentSig != nil {
			child, _ = contentSig(t, ctx).(*runtime.Tree)
		}
		return &runtime.Tree{
			Kind:    runtime.NodePostFX,
			Z:       z,
			Enabled: true,
			PostFX:  spec,
			Child:   child,
		}
	}
	return map[string]artifact.Artifact{"out": artifact.NewRenderTreeProgram(sig, nil)}
}

// compileRenderAssemble merges up to four child render programs (in0..in3,
// any of which may be absent) into a single renderAssemble node, the tree
// shape ExecuteFrame's walk flattens into the final ordered pass list.
func compileRenderAssemble(inputs map[string]artifact.Artifact, _ map[string]artifact.Artifact, _ artifact.Ctx) map[string]artifact.Artifact {
	var sigs []artifact.RenderTreeSignalFn
	for _, slot := range []string{"in0", "in1", "in2", "in3"} {
		in, ok := inputs[slot]
		if !ok || in.Kind() != artifact.KindRenderTreeProgram {
			continue
		}
		if in.IsError() {
			return map[string]artifact.Artifact{"out": in}
		}
		if sig := in.ProgramSignal(); sig != nil {
			sigs = append(sigs, sig)
		}
	}

	sig := func(t float64, ctx artifact.Ctx) artifact.RenderTree {
		out := &runtime.Tree{Kind: runtime.NodeAssemble, Enabled: true}
		for _, s := range sigs {
			if child, ok := s(t, ctx).(*runtime.Tree); ok {
				out.Children = append(out.Children, child)
			}
		}
		return out
	}
	return map[string]artifact.Artifact{"out": artifact.NewRenderTreeProgram(sig, nil)}
}

func signalFloatOrConst(a artifact.Artifact, def float64) artifact.SignalFloatFn {
	if a.Kind() == artifact.KindSignalFloat {
		return a.SignalFloat()
	}
	return func(float64, artifact.Ctx) float64 { return def }
}

func signalColorOrConst(a artifact.Artifact, def artifact.Color) artifact.SignalColorFn {
	if a.Kind() == artifact.KindSignalColor {
		return a.SignalColor()
	}
	return func(float64, artifact.Ctx) artifact.Color { return def }
}
