package compile

import (
	"github.com/katalvlaran/patchcore/ir"
	"github.com/katalvlaran/patchcore/patch"
)

// ToIR lowers a successful Result into an immutable ir.Program, adapting
// this package's patch-shaped knowledge (block types, bus publisher/
// listener membership) into the plain ir.BuildInput the IR Builder
// package accepts. Kept here rather than in ir itself so ir has no
// dependency on compile or patch — runtime depends on ir, and compile
// depends on runtime (to construct render trees), so ir must stay a leaf
// relative to both.
//
// ToIR refuses (returns an error) when result carries any compile error,
// mirroring Compile's own "never hand a caller a program from a
// non-ok result" contract.
func ToIR(result *Result, p *patch.Patch) (*ir.Program, error) {
	if len(result.Errors) > 0 {
		return nil, &irRefusedError{count: len(result.Errors)}
	}

	buses := make([]ir.BusInput, 0, len(p.Buses))
	for _, decl := range p.Buses {
		bi := ir.BusInput{ID: decl.ID}
		for _, pub := range p.PublishersFor(decl.ID) {
			bi.PublisherBlockIDs = append(bi.PublisherBlockIDs, pub.Source.BlockID)
		}
		for _, l := range p.ListenersFor(decl.ID) {
			bi.ListenerBlockIDs = append(bi.ListenerBlockIDs, l.Target.BlockID)
		}
		buses = append(buses, bi)
	}

	blockType := func(id string) string {
		if blk, ok := p.BlockByID(id); ok {
			return blk.Type
		}
		return id
	}

	return ir.Build(ir.BuildInput{
		Order:     result.Order,
		BlockType: blockType,
		Buses:     buses,
		Sinks:     result.Sinks,
	})
}

type irRefusedError struct{ count int }

func (e *irRefusedError) Error() string {
	if e.count == 1 {
		return "compile: refusing to build IR for a patch with 1 compile error"
	}
	return "compile: refusing to build IR for a patch with multiple compile errors"
}
