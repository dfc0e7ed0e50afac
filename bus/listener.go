package bus

import "github.com/katalvlaran/patchcore/artifact"

// Listener reads a bus's post-combine effective value. Its own transform
// stack (scope=listener) is applied by the Graph Compiler after Compile
// returns — listener lenses see the combined value, publisher lenses see
// pre-combine values. This asymmetry is fundamental: publisher-scope
// transforms shape what reaches the bus, listener-scope transforms shape
// what a specific reader sees. This package does not apply the listener
// stack itself (that needs the registry + param packages, which would
// create an import cycle); it only documents the contract Read expresses.
type Listener struct {
	BusID string
}

// Read is a thin pass-through documenting intent at call sites; the Graph
// Compiler calls bus.Compile directly and then applies the listener's
// transform stack via registry/param. Kept as a named function (rather
// than inlining Compile calls at every call site) so listener semantics
// have one place to evolve.
func Read(b Bus, publishers []Publisher) (artifact.Artifact, error) {
	return Compile(b, publishers)
}
