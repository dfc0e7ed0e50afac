// Package debugcore is the Debug/Telemetry Core (C8): fixed-capacity,
// allocation-free ring buffers a single writer fills every frame, plus a
// probe registry that lets a caller ask for a subject's recent history
// without ever touching the rings directly.
//
// Both rings follow the same discipline lvlath's core.Graph uses for its
// edge ID counter (core/methods_edges.go): a monotonic atomic counter is
// the single source of truth for "how many writes have happened", and
// every reader derives its view from that counter rather than coordinating
// through a lock. Writers here are assumed single-threaded (one frame
// executor), so the counter only needs atomic visibility to readers, not
// atomic compare-and-swap arbitration among writers.
package debugcore

import "sync/atomic"

// SpanKind tags what a Span entry represents.
type SpanKind int

const (
	SpanBlockEval SpanKind = iota
	SpanBusCombine
	SpanFieldMaterialize
	SpanRenderWalk
)

// SpanFlags are bit flags describing a span's outcome.
type SpanFlags uint8

const (
	SpanFlagNone  SpanFlags = 0
	SpanFlagError SpanFlags = 1 << iota
	SpanFlagCacheHit
)

// Span is one columnar entry in a SpanRing: one block/bus/field evaluation
// during one frame.
type Span struct {
	FrameID      uint64
	TMs          float64
	Kind         SpanKind
	SubjectID    string
	ParentSpanID uint64
	DurationUs   int64
	Flags        SpanFlags
}

// SpanRing is a fixed-capacity ring buffer of Span entries. A single
// writer calls Push each frame; any number of readers call GetByIndex or
// Len concurrently with that writer. The write pointer only advances after
// a slot's contents are fully set, so before the ring wraps a reader sees
// only complete entries. Once it has wrapped, Push overwrites the oldest
// slot in place while that index still reads as valid, so a read racing
// the writer can return a torn Span mixing old and new fields.
type SpanRing struct {
	buf      []Span
	writePtr atomic.Uint64
}

// NewSpanRing allocates a ring of the given capacity. Capacity is fixed for
// the ring's lifetime; it never grows to accommodate more writes.
func NewSpanRing(capacity int) *SpanRing {
	return &SpanRing{buf: make([]Span, capacity)}
}

// Push writes s into the next slot, overwriting the oldest entry once the
// ring has wrapped. Returns the index s was written at (the value to pass
// as a child span's ParentSpanID).
func (r *SpanRing) Push(s Span) uint64 {
	idx := r.writePtr.Load()
	r.buf[idx%uint64(len(r.buf))] = s
	r.writePtr.Store(idx + 1)
	return idx
}

// Cap returns the ring's fixed capacity.
func (r *SpanRing) Cap() int { return len(r.buf) }

// Len returns the total number of writes that have ever happened — a raw
// monotonic counter, not clamped to Cap. Callers use it together with
// GetByIndex's validity window to know which indices are still live.
func (r *SpanRing) Len() uint64 { return r.writePtr.Load() }

// GetByIndex returns the Span written at idx and true, or a zero Span and
// false if idx has never been written or has since been overwritten —
// i.e. iff max(0, Len()-Cap()) <= idx < Len().
func (r *SpanRing) GetByIndex(idx uint64) (Span, bool) {
	n := r.writePtr.Load()
	cap64 := uint64(len(r.buf))
	var oldest uint64
	if n > cap64 {
		oldest = n - cap64
	}
	if idx < oldest || idx >= n {
		return Span{}, false
	}
	return r.buf[idx%cap64], true
}

// ValueTag discriminates which field of a ValueSummary holds meaningful
// data, mirroring the closed-sum-type discipline artifact.Artifact uses.
type ValueTag int

const (
	ValueNone ValueTag = iota
	ValueNum
	ValuePhase
	ValueBool
	ValueColor
	ValueVec2
	ValueTrigger
	ValueErr
)

// ValueErrKind narrows a ValueErr summary's cause.
type ValueErrKind int

const (
	ValueErrUnknown ValueErrKind = iota
	ValueErrNaN
	ValueErrInf
)

// Value is one columnar entry in a ValueRing: a probe-observed value at a
// point in time, uniformly tagged regardless of which Artifact kind
// produced it.
type Value struct {
	FrameID          uint64
	Tag              ValueTag
	A, B, C, D, E, F float64
	ErrKind          ValueErrKind
}

// Summarize converts a raw numeric observation into a Value, classifying
// NaN/Inf into the Err variant rather than carrying a non-finite float
// into a probe's recorded history.
func Summarize(frameID uint64, tag ValueTag, components ...float64) Value {
	for _, c := range components {
		if c != c { // NaN
			return Value{FrameID: frameID, Tag: ValueErr, ErrKind: ValueErrNaN}
		}
		if c > maxFinite || c < -maxFinite {
			return Value{FrameID: frameID, Tag: ValueErr, ErrKind: ValueErrInf}
		}
	}
	v := Value{FrameID: frameID, Tag: tag}
	fields := [6]*float64{&v.A, &v.B, &v.C, &v.D, &v.E, &v.F}
	for i, c := range components {
		if i >= len(fields) {
			break
		}
		*fields[i] = c
	}
	return v
}

const maxFinite = 1.797693134862315708145274237317043567981e+308

// ValueRing is SpanRing's counterpart for scalar/vector observations
// (bus combine inputs/outputs, signal samples a probe is watching).
type ValueRing struct {
	buf      []Value
	writePtr atomic.Uint64
}

// NewValueRing allocates a fixed-capacity ValueRing.
func NewValueRing(capacity int) *ValueRing {
	return &ValueRing{buf: make([]Value, capacity)}
}

// Push appends v, overwriting the oldest entry once wrapped.
func (r *ValueRing) Push(v Value) uint64 {
	idx := r.writePtr.Load()
	r.buf[idx%uint64(len(r.buf))] = v
	r.writePtr.Store(idx + 1)
	return idx
}

// Cap returns the ring's fixed capacity.
func (r *ValueRing) Cap() int { return len(r.buf) }

// Len returns the total write count.
func (r *ValueRing) Len() uint64 { return r.writePtr.Load() }

// GetByIndex mirrors SpanRing.GetByIndex's validity window.
func (r *ValueRing) GetByIndex(idx uint64) (Value, bool) {
	n := r.writePtr.Load()
	cap64 := uint64(len(r.buf))
	var oldest uint64
	if n > cap64 {
		oldest = n - cap64
	}
	if idx < oldest || idx >= n {
		return Value{}, false
	}
	return r.buf[idx%cap64], true
}

// Recent returns up to n of the most recently written values, oldest
// first, clamped to however many are still live in the ring.
func (r *ValueRing) Recent(n int) []Value {
	total := r.Len()
	cap64 := uint64(len(r.buf))
	live := total
	if live > cap64 {
		live = cap64
	}
	if uint64(n) > live {
		n = int(live)
	}
	out := make([]Value, 0, n)
	start := total - uint64(n)
	for i := start; i < total; i++ {
		v, ok := r.GetByIndex(i)
		if ok {
			out = append(out, v)
		}
	}
	return out
}
