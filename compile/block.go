package compile

import "github.com/katalvlaran/patchcore/artifact"

// BlockDef declares one block type's input/output slot types and its
// compile-time evaluation function.
type BlockDef struct {
	Type    string
	Inputs  map[string]artifact.Kind
	Outputs map[string]artifact.Kind

	// Compile produces every declared output artifact from the already
	// type-reconciled inputs and the block's resolved params.
	Compile func(inputs map[string]artifact.Artifact, params map[string]artifact.Artifact, ctx artifact.Ctx) map[string]artifact.Artifact
}

// BlockRegistry maps block type name to its definition.
type BlockRegistry map[string]BlockDef

// NewBuiltinBlockRegistry returns the block types every compiled patch can
// rely on existing: identity (passthrough), constFloat (param -> constant
// Signal:float), renderSink (passes its RenderTreeProgram input through), and
// timeRoot (the canonical time signals synthesized when a patch has no
// explicit TimeRoot block).
func NewBuiltinBlockRegistry() BlockRegistry {
	reg := BlockRegistry{
		"identity": {
			Type:    "identity",
			Inputs:  map[string]artifact.Kind{"in": artifact.KindSignalFloat},
			Outputs: map[string]artifact.Kind{"out": artifact.KindSignalFloat},
			Compile: func(inputs map[string]artifact.Artifact, _ map[string]artifact.Artifact, _ artifact.Ctx) map[string]artifact.Artifact {
				return map[string]artifact.Artifact{"out": inputs["in"]}
			},
		},
		"constFloat": {
			Type:    "constFloat",
			Inputs:  map[string]artifact.Kind{},
			Outputs: map[string]artifact.Kind{"out": artifact.KindSignalFloat},
			Compile: func(_ map[string]artifact.Artifact, params map[string]artifact.Artifact, _ artifact.Ctx) map[string]artifact.Artifact {
				v := 0.0
				if p, ok := params["value"]; ok {
					v = p.ScalarFloat()
				}
				return map[string]artifact.Artifact{
					"out": artifact.NewSignalFloat(func(float64, artifact.Ctx) float64 { return v }),
				}
			},
		},
		"renderSink": {
			Type:    "renderSink",
			Inputs:  map[string]artifact.Kind{"in": artifact.KindRenderTreeProgram},
			Outputs: map[string]artifact.Kind{"out": artifact.KindRenderTreeProgram},
			Compile: func(inputs map[string]artifact.Artifact, _ map[string]artifact.Artifact, _ artifact.Ctx) map[string]artifact.Artifact {
				return map[string]artifact.Artifact{"out": inputs["in"]}
			},
		},
		"timeRoot": {
			Type:    "timeRoot",
			Inputs:  map[string]artifact.Kind{},
			Outputs: timeRootOutputs(),
			Compile: timeRootCompile,
		},
	}
	return reg
}
