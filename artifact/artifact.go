// Package artifact defines Artifact, the closed sum type of every value
// that can flow between blocks in a compiled patch, and the runtime context
// those values are evaluated against.
//
// Artifact is a tagged union, not a class hierarchy: dispatch is a switch on
// Kind, payload fields are unexported, and every variant is built through a
// constructor that enforces its own invariants at the boundary (e.g. phase
// wrapping). This mirrors the closed-sum-type discipline the rest of the
// module's teacher material uses for plain data (vertices, edges): no
// subclassing, integer/enum-tagged structs instead.
package artifact

import "math"

// Kind tags which Artifact variant a value holds.
type Kind int

const (
	KindInvalid Kind = iota
	KindScalarFloat
	KindScalarInt
	KindScalarBool
	KindScalarString
	KindScalarVec2
	KindScalarColor
	KindSignalFloat
	KindSignalInt
	KindSignalVec2
	KindSignalColor
	KindSignalPhase
	KindSignalUnit
	KindSignalTime
	KindFieldFloat
	KindFieldVec2
	KindFieldColor
	KindEvent
	KindRenderTreeProgram
	KindError
)

// String renders a Kind for logs and error messages.
func (k Kind) String() string {
	switch k {
	case KindScalarFloat:
		return "Scalar:float"
	case KindScalarInt:
		return "Scalar:int"
	case KindScalarBool:
		return "Scalar:bool"
	case KindScalarString:
		return "Scalar:string"
	case KindScalarVec2:
		return "Scalar:vec2"
	case KindScalarColor:
		return "Scalar:color"
	case KindSignalFloat:
		return "Signal:float"
	case KindSignalInt:
		return "Signal:int"
	case KindSignalVec2:
		return "Signal:vec2"
	case KindSignalColor:
		return "Signal:color"
	case KindSignalPhase:
		return "Signal:phase"
	case KindSignalUnit:
		return "Signal:Unit"
	case KindSignalTime:
		return "Signal:Time"
	case KindFieldFloat:
		return "Field:float"
	case KindFieldVec2:
		return "Field:vec2"
	case KindFieldColor:
		return "Field:color"
	case KindEvent:
		return "Event"
	case KindRenderTreeProgram:
		return "RenderTreeProgram"
	case KindError:
		return "Error"
	default:
		return "Invalid"
	}
}

// IsSignal reports whether k is one of the Signal:* variants.
func (k Kind) IsSignal() bool {
	switch k {
	case KindSignalFloat, KindSignalInt, KindSignalVec2, KindSignalColor, KindSignalPhase, KindSignalUnit, KindSignalTime:
		return true
	default:
		return false
	}
}

// IsField reports whether k is one of the Field:* variants.
func (k Kind) IsField() bool {
	switch k {
	case KindFieldFloat, KindFieldVec2, KindFieldColor:
		return true
	default:
		return false
	}
}

// IsScalar reports whether k is one of the Scalar:* variants.
func (k Kind) IsScalar() bool {
	switch k {
	case KindScalarFloat, KindScalarInt, KindScalarBool, KindScalarString, KindScalarVec2, KindScalarColor:
		return true
	default:
		return false
	}
}

// Vec2 is a 2-component vector, used by vec2-typed scalars/signals/fields.
type Vec2 struct{ X, Y float64 }

// Color is packed 0xAARRGGBB, matching the wire shape RenderFrameIR passes
// use for color fields.
type Color uint32

// Viewport describes the rendering surface's logical size and pixel ratio.
type Viewport struct {
	W, H int
	DPR  float64
}

// Ctx is the runtime evaluation context threaded through every Signal,
// Field, and Event function.
type Ctx struct {
	Viewport Viewport
}

// SignalFloatFn, etc. are the pure evaluation functions a Signal carries.
// Purity is a caller contract: identical (t, ctx) must yield identical
// output for a given compiled program and seed.
type (
	SignalFloatFn func(t float64, ctx Ctx) float64
	SignalIntFn   func(t float64, ctx Ctx) int64
	SignalVec2Fn  func(t float64, ctx Ctx) Vec2
	SignalColorFn func(t float64, ctx Ctx) Color
	// SignalPhaseFn must return a value in [0,1); Wrap01 enforces this at
	// construction so the invariant cannot be violated by a buggy producer.
	SignalPhaseFn func(t float64, ctx Ctx) float64
	// SignalUnitFn must return a value in [0,1].
	SignalUnitFn func(t float64, ctx Ctx) float64
	SignalTimeFn func(t float64, ctx Ctx) float64

	FieldFloatFn func(seed int64, n int, ctx Ctx) []float64
	FieldVec2Fn  func(seed int64, n int, ctx Ctx) []Vec2
	FieldColorFn func(seed int64, n int, ctx Ctx) []Color

	// EventFn is an edge-triggered predicate: given the current and previous
	// evaluation time, it reports whether the event fired during (lastT, t].
	EventFn func(t, lastT float64) bool
)

// Wrap01 wraps v into [0,1), the contract for Signal:phase outputs.
func Wrap01(v float64) float64 {
	w := math.Mod(v, 1.0)
	if w < 0 {
		w += 1.0
	}
	return w
}

// ClampUnit clamps v into [0,1], the contract for Signal:Unit outputs.
func ClampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
