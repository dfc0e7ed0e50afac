// Package registry is the process-wide transform registry: a catalog
// of adapters (type-changing transforms) and lenses (type-preserving,
// parameterized transforms), plus an alias table mapping legacy PascalCase
// IDs to canonical camelCase ones.
//
// The registry is built once at startup and is read-only afterward; tests
// construct their own instance via New() rather than mutating a shared
// singleton.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/katalvlaran/patchcore/artifact"
	"github.com/katalvlaran/patchcore/internal/output"
)

// Kind distinguishes adapters from lenses.
type Kind int

const (
	KindAdapter Kind = iota
	KindLens
)

// Policy governs how the Graph Compiler is allowed to insert an adapter
// automatically during wire/bus type reconciliation.
type Policy int

const (
	// PolicyAuto adapters may be inserted silently.
	PolicyAuto Policy = iota
	// PolicySuggest adapters are reported as a warning but still inserted.
	PolicySuggest
	// PolicyExplicit adapters are never inserted automatically; the user
	// must add them to the patch by hand.
	PolicyExplicit
)

// Scope is where in a transform stack a lens is allowed to attach.
type Scope int

const (
	ScopeWire Scope = iota
	ScopePublisher
	ScopeListener
	ScopeLensParam
)

// Stability hints how safe a lens is to evaluate while the user is
// scrubbing the timeline interactively versus only during real playback.
type Stability int

const (
	StabilityScrubSafe Stability = iota
	StabilityTransportOnly
	StabilityEither
)

// ParamSpec documents one parameter a lens or adapter accepts.
type ParamSpec struct {
	Name      string
	Type      artifact.Kind
	Default   artifact.Artifact
	UIHint    string
	RangeHint *[2]float64
}

// ApplyFn is the runtime/closure implementation of a transform: given the
// input artifact and resolved parameter artifacts, produce the output
// artifact. Error absorption is the caller's responsibility — ApplyFn
// implementations may assume their inputs are already error-checked.
type ApplyFn func(input artifact.Artifact, params map[string]artifact.Artifact, ctx artifact.Ctx) artifact.Artifact

// ValueRef is an opaque IR-side reference to a value slot; the registry
// package does not know the IR's internal representation, so CompileToIR
// works in terms of this minimal interface implemented by ir.Builder.
type ValueRef interface{}

// IRBuilder is the subset of ir.Builder's surface a transform's
// CompileToIR needs. Defined here (not imported from ir) to avoid a
// dependency cycle: ir imports registry, not the reverse.
type IRBuilder interface {
	EmitOp(opcode string, inputs ...ValueRef) ValueRef
}

// CompileToIRFn lowers a transform into IR. Returning (nil, false) means
// "cannot be IR-compiled", forcing the Graph Compiler to fall back to the
// ApplyFn closure path for this transform.
type CompileToIRFn func(input ValueRef, params map[string]ValueRef, b IRBuilder) (ValueRef, bool)

// Def is a single registered transform definition.
type Def struct {
	ID   string
	Kind Kind

	// InputType/OutputType are concrete for adapters. For lenses OutputType
	// is ignored — lenses always preserve InputType (indicated by Domain).
	InputType  artifact.Kind
	OutputType artifact.Kind

	// Domain classifies a lens's operand shape (float, vec2, color, ...).
	// Unused for adapters.
	Domain string

	AllowedScopes []Scope
	Params        map[string]ParamSpec
	CostHint      float64
	Stability     Stability

	Policy Policy
	Cost   float64

	Apply       ApplyFn
	CompileToIR CompileToIRFn
}

func (d Def) allowsScope(s Scope) bool {
	for _, sc := range d.AllowedScopes {
		if sc == s {
			return true
		}
	}
	return false
}

// AllowsScope reports whether d may attach at scope s. Exported for callers
// outside this package (the Graph Compiler) that need to reject a lens
// attached somewhere its definition disallows.
func (d Def) AllowsScope(s Scope) bool { return d.allowsScope(s) }

// Registration errors are fatal at startup.
var (
	ErrDuplicateID      = errors.New("registry: duplicate transform id")
	ErrAdapterSameType  = errors.New("registry: adapter must not use a type-preserving (same) declaration")
	ErrLensExplicitType = errors.New("registry: lens declares explicit input/output types; lenses must be type-preserving")
)

// Registry is the catalog. The zero value is not usable; use New().
type Registry struct {
	mu      sync.RWMutex
	defs    map[string]*Def
	aliases map[string]string // alias -> canonical ID
	log     *output.Logger
}

// New constructs an empty Registry. Pass nil for log to discard logging.
func New(log *output.Logger) *Registry {
	if log == nil {
		log = output.Discard()
	}
	return &Registry{
		defs:    make(map[string]*Def),
		aliases: make(map[string]string),
		log:     log.Scoped("registry"),
	}
}

// Register adds def to the catalog. Rejects duplicate IDs and malformed
// adapter/lens declarations.
func (r *Registry) Register(def Def) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateID, def.ID)
	}
	if def.Kind == KindLens && def.OutputType != artifact.KindInvalid && def.OutputType != def.InputType {
		return fmt.Errorf("%w: %q", ErrLensExplicitType, def.ID)
	}
	if def.Kind == KindAdapter && (def.OutputType == artifact.KindInvalid || def.OutputType == def.InputType) {
		return fmt.Errorf("%w: %q", ErrAdapterSameType, def.ID)
	}

	cp := def
	r.defs[def.ID] = &cp
	r.log.Debug("registered transform", "id", def.ID, "kind", def.Kind)

	return nil
}

// RegisterAlias maps legacy to canonical, so get(legacy) resolves to the
// same Def as get(canonical).
func (r *Registry) RegisterAlias(legacy, canonical string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.aliases[legacy] = canonical
}

// Get resolves id through the alias table and returns the definition, or
// (nil, false) if unknown.
func (r *Registry) Get(id string) (*Def, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if canon, ok := r.aliases[id]; ok {
		id = canon
	}
	d, ok := r.defs[id]
	return d, ok
}

// FindAdapters returns every registered adapter whose InputType==from and
// OutputType==to, ordered by ascending Cost, ties broken by lexicographic
// ID.
func (r *Registry) FindAdapters(from, to artifact.Kind) []*Def {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Def
	for _, d := range r.defs {
		if d.Kind == KindAdapter && d.InputType == from && d.OutputType == to {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost < out[j].Cost
		}
		return out[i].ID < out[j].ID
	})

	return out
}

// LensesForDomain returns every registered lens with the given Domain,
// optionally filtered to those allowed in scope. Enumeration order is
// stable lexicographic-by-ID.
func (r *Registry) LensesForDomain(domain string, scope *Scope) []*Def {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Def
	for _, d := range r.defs {
		if d.Kind != KindLens || d.Domain != domain {
			continue
		}
		if scope != nil && !d.allowsScope(*scope) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// AllAdapters and AllLenses give the full, stably-ordered catalog for IR
// emission inputs that need a deterministic enumeration.
func (r *Registry) AllAdapters() []*Def { return r.allOf(KindAdapter) }
func (r *Registry) AllLenses() []*Def   { return r.allOf(KindLens) }

func (r *Registry) allOf(k Kind) []*Def {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Def
	for _, d := range r.defs {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}
