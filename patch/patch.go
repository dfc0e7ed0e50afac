// Package patch defines the compiler's input document: blocks, wires,
// buses, publishers, listeners, and the default-source store, plus YAML
// (de)serialization and canonical fixture builders used across the
// compiler/IR/runtime test suites.
package patch

import (
	"sort"

	"github.com/katalvlaran/patchcore/artifact"
	"github.com/katalvlaran/patchcore/bus"
	"github.com/katalvlaran/patchcore/param"
)

// TransformStep is one entry in a unified adapter/lens transform stack.
type TransformStep struct {
	Kind    string `yaml:"kind"` // "adapter" | "lens"
	ID      string `yaml:"id"`
	Enabled bool   `yaml:"enabled"`
	Params  map[string]ParamBinding `yaml:"params,omitempty"`
}

// ParamBinding mirrors param.Binding in a document-friendly shape (strings
// and literals instead of resolved Artifacts), translated by the compiler
// while it compiles the patch.
type ParamBinding struct {
	Kind string `yaml:"kind"` // "literal" | "default" | "bus" | "wire"

	LiteralKind  string  `yaml:"literalKind,omitempty"`
	LiteralFloat float64 `yaml:"literalFloat,omitempty"`
	LiteralBool  bool    `yaml:"literalBool,omitempty"`
	LiteralStr   string  `yaml:"literalString,omitempty"`

	DefaultID string `yaml:"defaultId,omitempty"`

	BusID string `yaml:"busId,omitempty"`

	WireBlockID string `yaml:"wireBlockId,omitempty"`
	WireSlotID  string `yaml:"wireSlotId,omitempty"`

	Transforms []TransformStep `yaml:"transforms,omitempty"`
}

// ToArtifactLiteral converts a literal ParamBinding into its Artifact.
func (pb ParamBinding) ToArtifactLiteral() artifact.Artifact {
	switch pb.LiteralKind {
	case "bool":
		return artifact.NewScalarBool(pb.LiteralBool)
	case "string":
		return artifact.NewScalarString(pb.LiteralStr)
	case "int":
		return artifact.NewScalarInt(int64(pb.LiteralFloat))
	default:
		return artifact.NewScalarFloat(pb.LiteralFloat)
	}
}

// ToParamBinding translates a document ParamBinding into a param.Binding.
// The inner Transforms slice is carried through as an interface{} payload
// (param.Binding.Transforms) because param cannot import patch (patch
// already imports param for param.Binding) — the compiler package
// knows the concrete []TransformStep type and type-asserts it back out.
func (pb ParamBinding) ToParamBinding() param.Binding {
	switch pb.Kind {
	case "default":
		return param.Binding{Kind: param.BindingDefault, DefaultID: pb.DefaultID}
	case "bus":
		return param.Binding{Kind: param.BindingBus, BusID: pb.BusID, Transforms: pb.Transforms}
	case "wire":
		return param.Binding{Kind: param.BindingWire, WireBlockID: pb.WireBlockID, WireSlotID: pb.WireSlotID, Transforms: pb.Transforms}
	default:
		return param.Binding{Kind: param.BindingLiteral, Literal: pb.ToArtifactLiteral()}
	}
}

// Block is a typed node with input/output slots.
type Block struct {
	ID     string                 `yaml:"id"`
	Type   string                 `yaml:"type"`
	Params map[string]ParamBinding `yaml:"params,omitempty"`
}

// SlotRef names one slot on one block.
type SlotRef struct {
	BlockID string `yaml:"block"`
	SlotID  string `yaml:"slot"`
}

// Wire connects a producer slot to a consumer slot, carrying its own
// transform stack.
type Wire struct {
	From       SlotRef         `yaml:"from"`
	To         SlotRef         `yaml:"to"`
	Transforms []TransformStep `yaml:"transforms,omitempty"`
}

// BusDecl declares a named channel.
type BusDecl struct {
	ID          string      `yaml:"id"`
	Type        string      `yaml:"type"`
	CombineMode string      `yaml:"combineMode"`
	Default     ParamBinding `yaml:"default"`
	SortKey     float64     `yaml:"sortKey"`
}

// CombineModeValue converts the document string into bus.CombineMode.
func (d BusDecl) CombineModeValue() bus.CombineMode {
	switch d.CombineMode {
	case "sum":
		return bus.CombineSum
	case "average":
		return bus.CombineAverage
	case "min":
		return bus.CombineMin
	case "max":
		return bus.CombineMax
	default:
		return bus.CombineLast
	}
}

// Publisher binds a block's output slot onto a bus.
type Publisher struct {
	ID         string          `yaml:"id"`
	BusID      string          `yaml:"bus"`
	Source     SlotRef         `yaml:"source"`
	Transforms []TransformStep `yaml:"transforms,omitempty"`
	Enabled    bool            `yaml:"enabled"`
	SortKey    float64         `yaml:"sortKey"`
}

// Listener binds a bus onto a block's input slot.
type Listener struct {
	ID         string          `yaml:"id"`
	BusID      string          `yaml:"bus"`
	Target     SlotRef         `yaml:"target"`
	Transforms []TransformStep `yaml:"transforms,omitempty"`
	Enabled    bool            `yaml:"enabled"`
}

// DefaultSourceDecl is one entry in the default-source store.
type DefaultSourceDecl struct {
	ID      string       `yaml:"id"`
	Type    string       `yaml:"type"`
	Literal ParamBinding `yaml:"literal"`
}

// Patch is the compiler's complete input document.
type Patch struct {
	Blocks         []Block             `yaml:"blocks"`
	Wires          []Wire              `yaml:"wires"`
	Buses          []BusDecl           `yaml:"buses"`
	Publishers     []Publisher         `yaml:"publishers"`
	Listeners      []Listener          `yaml:"listeners"`
	DefaultSources []DefaultSourceDecl `yaml:"defaultSources"`
}

// BlockByID finds a block, returning (Block{}, false) if absent.
func (p *Patch) BlockByID(id string) (Block, bool) {
	for _, b := range p.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// BusByID finds a bus declaration, returning (BusDecl{}, false) if absent.
func (p *Patch) BusByID(id string) (BusDecl, bool) {
	for _, b := range p.Buses {
		if b.ID == id {
			return b, true
		}
	}
	return BusDecl{}, false
}

// PublishersFor returns every enabled publisher targeting busID, in
// ascending SortKey order (stable for any combine mode; CombineLast's
// own tie-break logic runs downstream in the bus package).
func (p *Patch) PublishersFor(busID string) []Publisher {
	var out []Publisher
	for _, pub := range p.Publishers {
		if pub.BusID == busID && pub.Enabled {
			out = append(out, pub)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortKey < out[j].SortKey })
	return out
}

// ListenersFor returns every enabled listener reading busID.
func (p *Patch) ListenersFor(busID string) []Listener {
	var out []Listener
	for _, l := range p.Listeners {
		if l.BusID == busID && l.Enabled {
			out = append(out, l)
		}
	}
	return out
}
