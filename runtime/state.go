package runtime

import (
	"time"

	"github.com/katalvlaran/patchcore/artifact"
	"github.com/katalvlaran/patchcore/debugcore"
)

// fieldKey identifies one materialized field for untilInvalidated caching:
// the same step, seed, and requested length always address the same cache
// slot. A real upstream-signature check (comparing producer inputs) is
// future work; this narrower key already gives exact hits for the common
// case (a field's inputs don't change between frames) while still
// recomputing the instant seed or requested count changes.
type fieldKey struct {
	step string
	seed int64
	n    int
}

// State is a single executor's owned, mutable per-program state: the
// transport clock and the untilInvalidated caches. One State belongs to
// exactly one caller (§5 "RuntimeState is single-owner"); never share a
// State across goroutines executing frames concurrently.
type State struct {
	Viewport artifact.Viewport
	Seed     int64

	T, LastT float64
	FrameID  uint64

	floatFields map[fieldKey][]float64
	vec2Fields  map[fieldKey][]artifact.Vec2
	colorFields map[fieldKey][]artifact.Color

	// Spans, if non-nil, receives one SpanFieldMaterialize entry per
	// Materialize* call, tagged with whether the untilInvalidated cache
	// answered it. Left nil outside a debug session.
	Spans *debugcore.SpanRing
}

// NewState creates a fresh State for one compiled program. Call once per
// IR; a recompile should construct a new State rather than reusing one
// built for the old program, since cache keys are not namespaced by
// program identity.
func NewState(viewport artifact.Viewport, seed int64) *State {
	return &State{
		Viewport:    viewport,
		Seed:        seed,
		floatFields: make(map[fieldKey][]float64),
		vec2Fields:  make(map[fieldKey][]artifact.Vec2),
		colorFields: make(map[fieldKey][]artifact.Color),
	}
}

// Ctx returns the artifact.Ctx this State's frames evaluate under.
func (s *State) Ctx() artifact.Ctx { return artifact.Ctx{Viewport: s.Viewport} }

// MaterializeFloatField evaluates fn under the untilInvalidated cache tier,
// keyed by stepID and the requested element count. InvalidateField must be
// called by the owner when upstream inputs change; absent that, the same
// (stepID, n) pair always returns the first frame's result.
func (s *State) MaterializeFloatField(stepID string, n int, fn artifact.FieldFloatFn) []float64 {
	start := time.Now()
	key := fieldKey{step: stepID, seed: s.Seed, n: n}
	if cached, ok := s.floatFields[key]; ok {
		s.pushFieldSpan(stepID, start, true)
		return cached
	}
	out := fn(s.Seed, n, s.Ctx())
	s.floatFields[key] = out
	s.pushFieldSpan(stepID, start, false)
	return out
}

// MaterializeVec2Field is MaterializeFloatField's vec2 counterpart.
func (s *State) MaterializeVec2Field(stepID string, n int, fn artifact.FieldVec2Fn) []artifact.Vec2 {
	start := time.Now()
	key := fieldKey{step: stepID, seed: s.Seed, n: n}
	if cached, ok := s.vec2Fields[key]; ok {
		s.pushFieldSpan(stepID, start, true)
		return cached
	}
	out := fn(s.Seed, n, s.Ctx())
	s.vec2Fields[key] = out
	s.pushFieldSpan(stepID, start, false)
	return out
}

// MaterializeColorField is MaterializeFloatField's color counterpart.
func (s *State) MaterializeColorField(stepID string, n int, fn artifact.FieldColorFn) []artifact.Color {
	start := time.Now()
	key := fieldKey{step: stepID, seed: s.Seed, n: n}
	if cached, ok := s.colorFields[key]; ok {
		s.pushFieldSpan(stepID, start, true)
		return cached
	}
	out := fn(s.Seed, n, s.Ctx())
	s.colorFields[key] = out
	s.pushFieldSpan(stepID, start, false)
	return out
}

// pushFieldSpan records a SpanFieldMaterialize entry when s.Spans is
// attached; a no-op otherwise.
func (s *State) pushFieldSpan(stepID string, start time.Time, cacheHit bool) {
	if s.Spans == nil {
		return
	}
	flags := debugcore.SpanFlagNone
	if cacheHit {
		flags = debugcore.SpanFlagCacheHit
	}
	s.Spans.Push(debugcore.Span{
		FrameID:    s.FrameID,
		TMs:        s.T,
		Kind:       debugcore.SpanFieldMaterialize,
		SubjectID:  stepID,
		DurationUs: time.Since(start).Microseconds(),
		Flags:      flags,
	})
}

// InvalidateField drops every cached entry for stepID across all field
// kinds, forcing the next Materialize* call to recompute. The owner calls
// this when it knows stepID's upstream producer changed — e.g. after a
// partial recompile that only touched that subtree.
func (s *State) InvalidateField(stepID string) {
	for k := range s.floatFields {
		if k.step == stepID {
			delete(s.floatFields, k)
		}
	}
	for k := range s.vec2Fields {
		if k.step == stepID {
			delete(s.vec2Fields, k)
		}
	}
	for k := range s.colorFields {
		if k.step == stepID {
			delete(s.colorFields, k)
		}
	}
}
