// Package runtime is the Deterministic Runtime (C7): it executes a
// compiled ir.Program for a given time t, materializing the render
// sink's RenderTree into the wire-shape RenderFrameIR external renderers
// consume (§6).
//
// Tree is this package's concrete answer to artifact.RenderTree (declared
// as interface{} in the artifact package so C1 never depends on C7). A
// renderSink-family block in the compile package builds *Tree values and
// hands them back wrapped in an artifact.RenderTreeProgram; ExecuteFrame,
// and the compile package's render blocks that nest child trees, are the
// places that type-assert the interface back open.
package runtime

import "github.com/katalvlaran/patchcore/artifact"

// NodeKind tags a Tree node's shape.
type NodeKind string

const (
	NodeAssemble    NodeKind = "renderAssemble"
	NodeInstances2D NodeKind = "instance2D"
	NodeClipGroup   NodeKind = "clipGroup"
	NodePostFX      NodeKind = "postFX"
)

// GlyphKind is one of the four instanced glyph shapes §6 names.
type GlyphKind string

const (
	GlyphCircle   GlyphKind = "circle"
	GlyphRect     GlyphKind = "rect"
	GlyphStar     GlyphKind = "star"
	GlyphPolyline GlyphKind = "polyline"
)

// Glyph2D is one instance's drawable shape. Points/Inner apply only to
// GlyphStar; Polyline applies only to GlyphPolyline.
type Glyph2D struct {
	Kind     GlyphKind
	Points   int
	Inner    float64
	Polyline []artifact.Vec2
}

// Instance is one element of an instanced 2D pass: a row-major affine
// transform, a packed color, and a glyph.
type Instance struct {
	Transform [6]float64 // [a, b, c, d, tx, ty]
	Color     artifact.Color
	Glyph     Glyph2D
	Z         int
}

// ClipShapeKind selects a clip region's shape. "path" is reserved: the
// open question in §9(a) says implementers must surface NotImplemented,
// not silently degrade to a bounding box.
type ClipShapeKind string

const (
	ClipRect   ClipShapeKind = "rect"
	ClipCircle ClipShapeKind = "circle"
	ClipPath   ClipShapeKind = "path"
)

// ClipShape describes one clip region.
type ClipShape struct {
	Kind   ClipShapeKind
	Rect   [4]float64 // x, y, w, h
	Radius float64    // circle
}

// PostFXKind enumerates the supported per-frame effects (§4.6).
type PostFXKind string

const (
	PostFXBlur       PostFXKind = "blur"
	PostFXBloom      PostFXKind = "bloom"
	PostFXVignette   PostFXKind = "vignette"
	PostFXColorGrade PostFXKind = "colorGrade"
)

// PostFXSpec parametrizes one postFX node. ColorGrade uses Matrix (a 3x3
// row-major color transform); the others use Params.
type PostFXSpec struct {
	Kind   PostFXKind
	Params map[string]float64
	Matrix *[9]float64
}

// Tree is the render tree a compiled RenderTreeProgram emits each frame.
// It is evaluated once per frame by the block that produced it (an
// artifact.RenderTreeSignalFn closure) and walked exactly once by
// ExecuteFrame into the flat RenderFrameIR passes list.
type Tree struct {
	Kind    NodeKind
	Z       int
	Enabled bool

	Instances []Instance // NodeInstances2D

	Clip     ClipShape // NodeClipGroup
	Children []*Tree   // NodeClipGroup, NodeAssemble

	PostFX *PostFXSpec // NodePostFX
	Child  *Tree       // NodePostFX (the content the effect applies to)
}
