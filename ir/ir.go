// Package ir is the IR Builder (C6): it turns a compiled patch (the
// artifacts the Graph Compiler resolved for every block and bus) into the
// immutable intermediate representation §3 describes — a typed constant
// pool, flat node arenas, a deterministic schedule, and the index tables
// the Runtime Executor and CLI need.
//
// Arena + indices, not pointer graphs. Every cross-reference inside a
// Program is an integer index into one of its arrays (ClosureTable,
// Constants.*, Schedule.Steps); nothing here holds a Go pointer into
// another part of the IR. This mirrors lvlath's gridgraph package, which
// lays its cells out as a flat, indexable slice rather than a graph of
// linked nodes — rebuilding an arena on recompile is just re-running the
// builder, never a traversal-and-patch of a live structure.
package ir

import "github.com/katalvlaran/patchcore/artifact"

// SlotTag selects which arena a ValueRef's Index points into.
type SlotTag int

const (
	// TagClosure indexes ClosureTable: the transform's CompileToIR
	// returned (nil, false), so the value is carried as an opaque
	// artifact.Artifact closure rather than a lowered node.
	TagClosure SlotTag = iota
	// TagNode indexes one of the flat expression node arrays (picked by
	// the node's own Domain field).
	TagNode
	// TagConstF64 indexes Constants.F64.
	TagConstF64
)

// ValueRef is the IR-side reference a registry.Def's CompileToIR produces
// and consumes. It satisfies registry.ValueRef (an empty interface) so the
// registry package never needs to import ir.
type ValueRef struct {
	Tag   SlotTag
	Index int
}

// Domain distinguishes which flat node array a Node belongs to, matching
// §3's signalExprs / fieldExprs / eventExprs split.
type Domain int

const (
	DomainSignal Domain = iota
	DomainField
	DomainEvent
)

// Node is one opcode + operand entry in a flat expression arena. Opcode
// names match §4.5 ("Add", "Mul", "Min", "Max", "Clamp", ...).
type Node struct {
	Opcode string
	Inputs []ValueRef
}

// Output names one compiled program terminal: a renderSink block's
// resolved RenderTreeProgram, addressed by slot.
type Output struct {
	ID   string
	Kind artifact.Kind
	Slot ValueRef
}

// StateCell describes one pre-allocated runtime state slot (§3
// stateLayout): per-type sizes the Runtime Executor allocates once per
// RuntimeState rather than per frame.
type StateCell struct {
	Label string
	Kind  artifact.Kind
	Size  int
}

// Program is the compiler's immutable output. It is a pure function of a
// patch document plus the registry it was compiled against: the same
// inputs always build a structurally-equal Program (testable property 9,
// "idempotent compile"). Nothing in Program is ever mutated after Build
// returns; RuntimeState (owned by the runtime package) holds the mutable
// per-frame state.
type Program struct {
	Constants Constants

	SignalExprs []Node
	FieldExprs  []Node
	EventExprs  []Node

	ClosureTable []artifact.Artifact

	StateLayout []StateCell

	Schedule Schedule

	Outputs []Output

	DebugIndex map[string]string
}

// Resolve dereferences a ValueRef into the artifact.Artifact it denotes.
// TagNode resolution is intentionally unsupported here: a fully lowered
// node graph would need its own interpreter loop (future work once more
// transforms implement CompileToIR); every ValueRef this Builder currently
// emits is TagClosure or TagConstF64, so Resolve covers what Build
// actually produces without pretending to evaluate opcodes it never
// emits.
func (p *Program) Resolve(ref ValueRef) artifact.Artifact {
	switch ref.Tag {
	case TagClosure:
		return p.ClosureTable[ref.Index]
	case TagConstF64:
		return artifact.NewScalarFloat(p.Constants.F64[ref.Index])
	default:
		return artifact.NewError("ir: cannot resolve a node-tagged slot without a lowering interpreter")
	}
}
