// Package fixtures builds canonical Patch topologies for the compiler, IR,
// and runtime test suites, the way lvlath's builder package builds
// canonical graph topologies (Path, Cycle, Star) for graph-algorithm tests.
// Where builder produces *core.Graph values of a named shape, this package
// produces *patch.Patch values of a named shape: a straight wire Chain, a
// diamond dependency, and a Star of publishers feeding one bus.
package fixtures

import (
	"fmt"

	"github.com/katalvlaran/patchcore/patch"
)

// Chain returns a patch with n blocks of type "identity" wired
// sequentially: block0 -> block1 -> ... -> blockN-1, terminating in a
// "sink" block. Mirrors builder's sequential-vertex-chain constructors
// (helpers.go's addSequentialVertices) adapted to wires instead of edges.
func Chain(n int) *patch.Patch {
	p := &patch.Patch{}
	for i := 0; i < n; i++ {
		p.Blocks = append(p.Blocks, patch.Block{ID: fmt.Sprintf("block%d", i), Type: "identity"})
	}
	p.Blocks = append(p.Blocks, patch.Block{ID: "sink", Type: "renderSink"})

	for i := 0; i < n-1; i++ {
		p.Wires = append(p.Wires, patch.Wire{
			From: patch.SlotRef{BlockID: fmt.Sprintf("block%d", i), SlotID: "out"},
			To:   patch.SlotRef{BlockID: fmt.Sprintf("block%d", i+1), SlotID: "in"},
		})
	}
	if n > 0 {
		p.Wires = append(p.Wires, patch.Wire{
			From: patch.SlotRef{BlockID: fmt.Sprintf("block%d", n-1), SlotID: "out"},
			To:   patch.SlotRef{BlockID: "sink", SlotID: "in"},
		})
	}

	return p
}

// Diamond returns a 4-block patch (a -> b, a -> c, b -> d, c -> d) used to
// exercise topological scheduling with a genuine fan-out/fan-in shape.
func Diamond() *patch.Patch {
	p := &patch.Patch{
		Blocks: []patch.Block{
			{ID: "a", Type: "identity"},
			{ID: "b", Type: "identity"},
			{ID: "c", Type: "identity"},
			{ID: "d", Type: "renderSink"},
		},
		Wires: []patch.Wire{
			{From: patch.SlotRef{BlockID: "a", SlotID: "out"}, To: patch.SlotRef{BlockID: "b", SlotID: "in"}},
			{From: patch.SlotRef{BlockID: "a", SlotID: "out"}, To: patch.SlotRef{BlockID: "c", SlotID: "in"}},
			{From: patch.SlotRef{BlockID: "b", SlotID: "out"}, To: patch.SlotRef{BlockID: "d", SlotID: "in"}},
			{From: patch.SlotRef{BlockID: "c", SlotID: "out"}, To: patch.SlotRef{BlockID: "d", SlotID: "in"}},
		},
	}
	return p
}

// Star returns a patch with n publisher blocks all feeding one bus, read
// by a single listener block. Mirrors builder's star-graph constructor
// (impl_star.go: one hub, many leaves) adapted so the "hub" is a bus
// rather than a vertex.
func Star(n int, combineMode string) *patch.Patch {
	p := &patch.Patch{
		Buses: []patch.BusDecl{
			{ID: "hub", Type: "Signal:float", CombineMode: combineMode},
		},
		Blocks: []patch.Block{
			{ID: "listener", Type: "identity"},
		},
	}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("leaf%d", i)
		p.Blocks = append(p.Blocks, patch.Block{ID: id, Type: "constFloat"})
		p.Publishers = append(p.Publishers, patch.Publisher{
			ID:      fmt.Sprintf("pub%d", i),
			BusID:   "hub",
			Source:  patch.SlotRef{BlockID: id, SlotID: "out"},
			Enabled: true,
			SortKey: float64(i),
		})
	}
	p.Listeners = append(p.Listeners, patch.Listener{
		ID:      "listenHub",
		BusID:   "hub",
		Target:  patch.SlotRef{BlockID: "listener", SlotID: "in"},
		Enabled: true,
	})

	return p
}
