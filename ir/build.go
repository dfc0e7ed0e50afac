package ir

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/patchcore/artifact"
)

// BusInput describes one bus's contribution to the schedule, supplied by
// the caller (the compile package knows the patch document; ir does not,
// to keep this package dependency-free of compile and avoid an import
// cycle through the runtime package, which both compile and ir feed into).
type BusInput struct {
	ID                string
	PublisherBlockIDs []string
	ListenerBlockIDs  []string
}

// BuildInput is everything Build needs to lower a finished compilation
// into a Program, expressed in plain values rather than compile.Result /
// patch.Patch so this package has no dependency on either.
type BuildInput struct {
	// Order is the deterministic block schedule (already topologically
	// sorted with a lexicographic tie-break) the caller computed.
	Order []string
	// BlockType returns the declared type name for a block ID, used only
	// for debug labels.
	BlockType func(blockID string) string
	// Buses lists every bus the patch declares, used to emit combineBus
	// steps and their dependency edges.
	Buses []BusInput
	// Sinks maps a renderSink block's ID to its resolved
	// RenderTreeProgram artifact.
	Sinks map[string]artifact.Artifact
}

// Build lowers a finished compilation into an immutable Program. It is
// the bridge between C5 (Graph Compiler) and C7 (Runtime Executor):
// the Graph Compiler resolves every block/bus into artifact.Artifact
// closures; Build packages the sinks into Outputs and records the
// schedule the compiler already computed deterministically, declaring
// every ordering input that fed it so §4.5's determinism contract is
// auditable from the Program alone.
//
// Every transform in the builtin registry leaves CompileToIR nil (see
// registry/builtin.go), so every value in the returned
// Program's ClosureTable is a §9 "IR fallback path" closure rather than a
// lowered node graph — Builder.EmitOp exists and is part of the public
// surface CompileToIR implementations use, but no builtin transform
// exercises it yet. This is the explicitly sanctioned incremental state,
// not an oversight: a transform's IR lowering can be added later without
// changing the Program shape.
func Build(in BuildInput) (*Program, error) {
	b := NewBuilder()
	b.DeclareOrderingInput("topoTieBreak:nodeIdLex")

	for _, id := range in.Order {
		typeLabel := id
		if in.BlockType != nil {
			typeLabel = in.BlockType(id)
		}
		stepID := "block:" + id
		b.AddStep(Step{ID: stepID, Kind: StepBlockEval, Subject: id, Caching: CachePerFrame})
		b.SetDebugLabel(stepID, fmt.Sprintf("block %s (%s)", id, typeLabel))
	}

	buses := append([]BusInput(nil), in.Buses...)
	sort.Slice(buses, func(i, j int) bool { return buses[i].ID < buses[j].ID })
	if len(buses) > 0 {
		b.DeclareOrderingInput("bus:publisherSortKey")
	}
	for _, bus := range buses {
		stepID := "bus:" + bus.ID
		b.AddStep(Step{ID: stepID, Kind: StepCombineBus, Subject: bus.ID, Caching: CacheUntilInvalidated})
		b.SetDebugLabel(stepID, fmt.Sprintf("bus %s", bus.ID))

		for _, blockID := range bus.PublisherBlockIDs {
			b.RecordDep(stepID, "bus:"+bus.ID, "block:"+blockID)
		}
		for _, blockID := range bus.ListenerBlockIDs {
			b.RecordDep(stepID, "bus:"+bus.ID, "block:"+blockID)
		}
	}

	sinkIDs := make([]string, 0, len(in.Sinks))
	for id := range in.Sinks {
		sinkIDs = append(sinkIDs, id)
	}
	sort.Strings(sinkIDs)

	outputs := make([]Output, 0, len(sinkIDs))
	for _, id := range sinkIDs {
		val := in.Sinks[id]
		slot := b.InternClosure(val)
		outputs = append(outputs, Output{ID: id, Kind: artifact.KindRenderTreeProgram, Slot: slot})
		b.SetDebugLabel("output:"+id, fmt.Sprintf("render sink %s", id))
	}

	return b.Build(outputs), nil
}
