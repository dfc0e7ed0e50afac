package debugcore

import (
	"fmt"
	"sort"
	"sync"
)

// TargetKind names what a probe watches.
type TargetKind string

const (
	TargetBlock   TargetKind = "block"
	TargetBus     TargetKind = "bus"
	TargetBinding TargetKind = "binding"
)

// BindingDirection narrows a TargetBinding probe to one side of a wire.
type BindingDirection string

const (
	DirectionPublish   BindingDirection = "publish"
	DirectionSubscribe BindingDirection = "subscribe"
)

// Target names the subject a Probe watches.
type Target struct {
	Kind      TargetKind
	ID        string
	Direction BindingDirection // TargetBinding only
}

// key returns Target's identity for map storage — two Targets with
// identical fields are the same probe subject.
func (t Target) key() string {
	return fmt.Sprintf("%s:%s:%s", t.Kind, t.ID, t.Direction)
}

// Probe is a registered watch on one Target. History is appended to by
// whatever component evaluates that subject (a block executor, a bus
// combiner) via Registry.Record; callers read it back via
// Registry.GetProbeHistory.
type Probe struct {
	ID     string
	Target Target

	history *ValueRing
}

// Registry tracks every created Probe and routes recorded observations to
// the right one. One Registry is shared by the whole debug session; it is
// safe for concurrent CreateProbe/ListProbes/GetProbeHistory calls. Record
// pushes into each probe's single-writer ValueRing outside the lock, so
// concurrent Record calls for the same target are not safe.
type Registry struct {
	mu         sync.RWMutex
	byID       map[string]*Probe
	byTarget   map[string][]*Probe
	historyCap int
	nextID     uint64
}

// NewRegistry returns an empty Registry whose probes each keep up to
// historyCap recent observations.
func NewRegistry(historyCap int) *Registry {
	return &Registry{
		byID:       make(map[string]*Probe),
		byTarget:   make(map[string][]*Probe),
		historyCap: historyCap,
	}
}

// CreateProbe registers a new probe watching target and returns it. Two
// probes may watch the same target; each keeps an independent history
// ring (e.g. one probe sampling every frame, another sampling on a slower
// cadence upstream of this package).
func (r *Registry) CreateProbe(target Target) *Probe {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	p := &Probe{
		ID:      fmt.Sprintf("probe-%d", r.nextID),
		Target:  target,
		history: NewValueRing(r.historyCap),
	}
	r.byID[p.ID] = p
	key := target.key()
	r.byTarget[key] = append(r.byTarget[key], p)
	return p
}

// ListProbes returns every registered probe, ordered by ID for
// deterministic output.
func (r *Registry) ListProbes() []*Probe {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Probe, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Record appends v to the history of every probe watching target. A
// target with no registered probes is a no-op, not an error — the caller
// (a block executor) always calls Record, whether or not anyone is
// currently watching.
func (r *Registry) Record(target Target, v Value) {
	r.mu.RLock()
	probes := r.byTarget[target.key()]
	r.mu.RUnlock()

	for _, p := range probes {
		p.history.Push(v)
	}
}

// GetProbeHistory returns up to n of probeID's most recent observations,
// oldest first, or (nil, false) if probeID is unregistered.
func (r *Registry) GetProbeHistory(probeID string, n int) ([]Value, bool) {
	r.mu.RLock()
	p, ok := r.byID[probeID]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return p.history.Recent(n), true
}
