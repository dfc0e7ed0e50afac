package ir

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/patchcore/artifact"
	"github.com/katalvlaran/patchcore/registry"
)

// Builder accumulates arenas, constants, schedule steps, and debug labels
// across one compilation, then freezes them into a Program. A Builder is
// single-use: construct one per Build call via NewBuilder.
//
// Builder implements registry.IRBuilder (EmitOp) structurally — registry
// declares that interface itself, rather than importing ir, to avoid a
// dependency cycle (ir imports registry's ValueRef type via the
// CompileToIRFn contract, not the reverse).
type Builder struct {
	constants Constants

	signalExprs []Node
	fieldExprs  []Node
	eventExprs  []Node

	closures []artifact.Artifact

	stateLayout []StateCell

	steps       []Step
	producerOf  map[string]string
	consumersOf map[string][]string

	debugIndex map[string]string

	orderingInputs []string
}

// NewBuilder returns an empty Builder ready to accumulate one Program.
func NewBuilder() *Builder {
	return &Builder{
		constants:   NewConstants(),
		producerOf:  make(map[string]string),
		consumersOf: make(map[string][]string),
		debugIndex:  make(map[string]string),
	}
}

// EmitOp appends a node to the signal expression arena and returns a
// reference to it. inputs must be ValueRef values (this Builder's own
// type); any other concrete type is a programmer error in the calling
// CompileToIR implementation and is dropped from the node's Inputs rather
// than panicking, keeping a bad lens from crashing compilation — the
// caller sees a node with missing inputs instead, which the caller (Graph
// Compiler) is expected to treat as NotImplemented for that transform.
func (b *Builder) EmitOp(opcode string, inputs ...registry.ValueRef) registry.ValueRef {
	converted := make([]ValueRef, 0, len(inputs))
	for _, in := range inputs {
		if vr, ok := in.(ValueRef); ok {
			converted = append(converted, vr)
		}
	}
	b.signalExprs = append(b.signalExprs, Node{Opcode: opcode, Inputs: converted})
	return ValueRef{Tag: TagNode, Index: len(b.signalExprs) - 1}
}

var _ registry.IRBuilder = (*Builder)(nil)

// InternClosure stores a as a fallback closure slot (the §9 "IR fallback
// path": a.Kind() already carries the Artifact that CompileToIR could not
// lower) and returns a reference to it.
func (b *Builder) InternClosure(a artifact.Artifact) ValueRef {
	idx := len(b.closures)
	b.closures = append(b.closures, a)
	return ValueRef{Tag: TagClosure, Index: idx}
}

// InternConstF64 interns a float64 literal into the constant pool.
func (b *Builder) InternConstF64(v float64) ValueRef {
	return ValueRef{Tag: TagConstF64, Index: b.constants.InternF64(v)}
}

// AddStateCell reserves a pre-allocated runtime state cell and returns its
// index in StateLayout.
func (b *Builder) AddStateCell(cell StateCell) int {
	b.stateLayout = append(b.stateLayout, cell)
	return len(b.stateLayout) - 1
}

// AddStep appends a schedule step. Step IDs must be unique; a duplicate is
// a builder-usage bug and panics immediately rather than producing a
// Program with an ambiguous dependency map.
func (b *Builder) AddStep(step Step) {
	for _, s := range b.steps {
		if s.ID == step.ID {
			panic(fmt.Sprintf("ir: duplicate step id %q", step.ID))
		}
	}
	b.steps = append(b.steps, step)
}

// RecordDep records that producerStepID produces slotLabel and every step
// in consumerStepIDs consumes it.
func (b *Builder) RecordDep(producerStepID, slotLabel string, consumerStepIDs ...string) {
	b.producerOf[slotLabel] = producerStepID
	b.consumersOf[slotLabel] = append(b.consumersOf[slotLabel], consumerStepIDs...)
}

// SetDebugLabel attaches a human label to a step/slot key.
func (b *Builder) SetDebugLabel(key, label string) {
	b.debugIndex[key] = label
}

// DeclareOrderingInput records that name (e.g. "topoTieBreak:nodeIdLex",
// "bus:publisherSortKey") influenced this Program's construction. Every
// iteration whose order reaches the emitted IR must be declared here —
// §4.5's determinism contract — so a reviewer can audit the full set
// without re-reading the builder's internals. Idempotent.
func (b *Builder) DeclareOrderingInput(name string) {
	for _, n := range b.orderingInputs {
		if n == name {
			return
		}
	}
	b.orderingInputs = append(b.orderingInputs, name)
}

// Build freezes the accumulated arenas, schedule, and constant pool into
// an immutable Program with the given outputs.
func (b *Builder) Build(outputs []Output) *Program {
	ordering := append([]string(nil), b.orderingInputs...)
	sort.Strings(ordering)

	steps := append([]Step(nil), b.steps...)

	return &Program{
		Constants:    b.constants,
		SignalExprs:  b.signalExprs,
		FieldExprs:   b.fieldExprs,
		EventExprs:   b.eventExprs,
		ClosureTable: b.closures,
		StateLayout:  b.stateLayout,
		Schedule: Schedule{
			Steps: steps,
			Deps: Deps{
				ProducerOf:  b.producerOf,
				ConsumersOf: b.consumersOf,
			},
			Determinism: Determinism{AllowedOrderingInputs: ordering},
		},
		Outputs:    outputs,
		DebugIndex: b.debugIndex,
	}
}
