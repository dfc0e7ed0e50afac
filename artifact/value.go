package artifact

// RenderTree is the minimal render-tree shape a RenderTreeProgram produces
// each frame. The full wire shape (passes, overlays, clear) lives in the
// runtime package, which depends on artifact, not the other way around;
// Artifact only needs to know it holds "a function producing *something*
// renderable", so RenderTree here is an opaque payload carried by reference.
type RenderTree interface{}

// RenderTreeSignalFn produces the render tree for time t.
type RenderTreeSignalFn func(t float64, ctx Ctx) RenderTree

// RenderTreeEventFn produces the events that fired during (lastT, t].
type RenderTreeEventFn func(t, lastT float64) []TriggeredEvent

// TriggeredEvent names which declared event fired.
type TriggeredEvent struct {
	ID string
}

// Artifact is the closed sum type of every value flowing between blocks.
// Exactly one of the payload fields is meaningful, selected by Kind; all
// construction goes through the New* functions below so invalid states
// (e.g. a phase signal that can emit outside [0,1)) cannot be built.
type Artifact struct {
	kind Kind

	scalarFloat  float64
	scalarInt    int64
	scalarBool   bool
	scalarString string
	scalarVec2   Vec2
	scalarColor  Color

	sigFloat SignalFloatFn
	sigInt   SignalIntFn
	sigVec2  SignalVec2Fn
	sigColor SignalColorFn
	sigPhase SignalPhaseFn
	sigUnit  SignalUnitFn
	sigTime  SignalTimeFn

	fieldFloat FieldFloatFn
	fieldVec2  FieldVec2Fn
	fieldColor FieldColorFn

	event EventFn

	programSignal RenderTreeSignalFn
	programEvent  RenderTreeEventFn

	errMessage string
}

// Kind returns the variant tag.
func (a Artifact) Kind() Kind { return a.kind }

// --- constructors ---

func NewScalarFloat(v float64) Artifact   { return Artifact{kind: KindScalarFloat, scalarFloat: v} }
func NewScalarInt(v int64) Artifact       { return Artifact{kind: KindScalarInt, scalarInt: v} }
func NewScalarBool(v bool) Artifact       { return Artifact{kind: KindScalarBool, scalarBool: v} }
func NewScalarString(v string) Artifact   { return Artifact{kind: KindScalarString, scalarString: v} }
func NewScalarVec2(v Vec2) Artifact       { return Artifact{kind: KindScalarVec2, scalarVec2: v} }
func NewScalarColor(v Color) Artifact     { return Artifact{kind: KindScalarColor, scalarColor: v} }

func NewSignalFloat(fn SignalFloatFn) Artifact { return Artifact{kind: KindSignalFloat, sigFloat: fn} }
func NewSignalInt(fn SignalIntFn) Artifact     { return Artifact{kind: KindSignalInt, sigInt: fn} }
func NewSignalVec2(fn SignalVec2Fn) Artifact   { return Artifact{kind: KindSignalVec2, sigVec2: fn} }
func NewSignalColor(fn SignalColorFn) Artifact { return Artifact{kind: KindSignalColor, sigColor: fn} }
func NewSignalTime(fn SignalTimeFn) Artifact   { return Artifact{kind: KindSignalTime, sigTime: fn} }

// NewSignalPhase wraps fn so its output always lies in [0,1) at the source,
// rather than trusting every producer to get the wrap right.
func NewSignalPhase(fn SignalPhaseFn) Artifact {
	return Artifact{kind: KindSignalPhase, sigPhase: func(t float64, ctx Ctx) float64 {
		return Wrap01(fn(t, ctx))
	}}
}

// NewSignalUnit wraps fn so its output always lies in [0,1].
func NewSignalUnit(fn SignalUnitFn) Artifact {
	return Artifact{kind: KindSignalUnit, sigUnit: func(t float64, ctx Ctx) float64 {
		return ClampUnit(fn(t, ctx))
	}}
}

func NewFieldFloat(fn FieldFloatFn) Artifact { return Artifact{kind: KindFieldFloat, fieldFloat: fn} }
func NewFieldVec2(fn FieldVec2Fn) Artifact   { return Artifact{kind: KindFieldVec2, fieldVec2: fn} }
func NewFieldColor(fn FieldColorFn) Artifact { return Artifact{kind: KindFieldColor, fieldColor: fn} }

func NewEvent(fn EventFn) Artifact { return Artifact{kind: KindEvent, event: fn} }

func NewRenderTreeProgram(sig RenderTreeSignalFn, ev RenderTreeEventFn) Artifact {
	return Artifact{kind: KindRenderTreeProgram, programSignal: sig, programEvent: ev}
}

// NewError constructs the Error variant. Error messages are never wrapped
// by downstream transforms: once an Artifact is an Error, every consumer
// must propagate it verbatim.
func NewError(message string) Artifact {
	return Artifact{kind: KindError, errMessage: message}
}

// --- accessors (return the zero value if Kind mismatches; callers switch on Kind first) ---

func (a Artifact) ScalarFloat() float64  { return a.scalarFloat }
func (a Artifact) ScalarInt() int64      { return a.scalarInt }
func (a Artifact) ScalarBool() bool      { return a.scalarBool }
func (a Artifact) ScalarString() string  { return a.scalarString }
func (a Artifact) ScalarVec2() Vec2      { return a.scalarVec2 }
func (a Artifact) ScalarColor() Color    { return a.scalarColor }

func (a Artifact) SignalFloat() SignalFloatFn { return a.sigFloat }
func (a Artifact) SignalInt() SignalIntFn     { return a.sigInt }
func (a Artifact) SignalVec2() SignalVec2Fn   { return a.sigVec2 }
func (a Artifact) SignalColor() SignalColorFn { return a.sigColor }
func (a Artifact) SignalPhase() SignalPhaseFn { return a.sigPhase }
func (a Artifact) SignalUnit() SignalUnitFn   { return a.sigUnit }
func (a Artifact) SignalTime() SignalTimeFn   { return a.sigTime }

func (a Artifact) FieldFloat() FieldFloatFn { return a.fieldFloat }
func (a Artifact) FieldVec2() FieldVec2Fn   { return a.fieldVec2 }
func (a Artifact) FieldColor() FieldColorFn { return a.fieldColor }

func (a Artifact) Event() EventFn { return a.event }

func (a Artifact) ProgramSignal() RenderTreeSignalFn { return a.programSignal }
func (a Artifact) ProgramEvent() RenderTreeEventFn   { return a.programEvent }

// IsError reports whether a is the Error variant.
func (a Artifact) IsError() bool { return a.kind == KindError }

// ErrorMessage returns the Error payload's message, or "" if a is not an
// Error.
func (a Artifact) ErrorMessage() string { return a.errMessage }

// FirstError scans args in order and returns the first Error found: any
// operation consuming an Error produces that same Error, unwrapped. Returns
// (Artifact{}, false) if none of args is an Error.
func FirstError(args ...Artifact) (Artifact, bool) {
	for _, a := range args {
		if a.IsError() {
			return a, true
		}
	}
	return Artifact{}, false
}
