package runtime

import "github.com/katalvlaran/patchcore/artifact"

// ClearMode selects how a frame's backing surface is cleared before its
// passes draw.
type ClearMode string

const (
	ClearNone  ClearMode = "none"
	ClearColor ClearMode = "color"
)

// Clear is the frame's clear command.
type Clear struct {
	Mode      ClearMode
	ColorRGBA artifact.Color
}

// PassKind is the wire-shape discriminant for one PassIR entry (§6).
type PassKind string

const (
	PassInstances2D PassKind = "instances2d"
	PassPath2D      PassKind = "path2d"
	PassClipGroup   PassKind = "clipGroup"
	PassPostFX      PassKind = "postfx"
)

// PassHeader is common to every pass.
type PassHeader struct {
	Z       int
	Enabled bool
}

// Pass is one entry in RenderFrameIR.Passes. Exactly the fields matching
// Kind are meaningful, mirroring Artifact's closed-sum-type discipline
// rather than a class hierarchy per pass kind.
type Pass struct {
	Header PassHeader
	Kind   PassKind

	Instances []Instance // PassInstances2D

	Clip     ClipShape // PassClipGroup
	Children []Pass    // PassClipGroup: nested passes drawn inside the clip

	PostFX *PostFXSpec // PassPostFX
}

// Overlay is a debug/UI overlay annotation attached to a frame (e.g. a
// probe readout); the drawing backend owns how it's rendered, this is
// just the data contract.
type Overlay struct {
	ID   string
	Kind string
}

// RenderFrameIR is the deterministic per-frame output external renderers
// consume (§6). It depends only on tMs and the program's seed — never on
// wall-clock time.
type RenderFrameIR struct {
	Clear    Clear
	Passes   []Pass
	Overlays []Overlay
}
