// Package compile is the graph compiler: it takes a patch document and
// produces a deterministic evaluation plan (artifacts reachable from every
// render sink) or a list of diagnostics explaining why it couldn't.
//
// The pipeline is a straight-line sequence of passes over a single
// *compiler value, the way a one-shot build tool runs: validate structure,
// schedule blocks topologically (with bus traffic collapsed into ordinary
// dependency edges), evaluate blocks in schedule order — lazily combining
// each bus the first time one of its listeners needs it — inserting
// adapters and lenses as wires and listeners require, then collect every
// renderSink's resolved program.
package compile

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/patchcore/artifact"
	"github.com/katalvlaran/patchcore/bus"
	"github.com/katalvlaran/patchcore/debugcore"
	"github.com/katalvlaran/patchcore/internal/config"
	"github.com/katalvlaran/patchcore/internal/depgraph"
	"github.com/katalvlaran/patchcore/internal/output"
	"github.com/katalvlaran/patchcore/param"
	"github.com/katalvlaran/patchcore/patch"
	"github.com/katalvlaran/patchcore/registry"
)

// Result is everything the compiler produces for a patch. Success is
// Errors == nil; Warnings may be non-empty even on success.
type Result struct {
	Errors   []Error
	Warnings []Warning

	// Sinks maps each renderSink-typed block's ID to its resolved
	// RenderTreeProgram artifact.
	Sinks map[string]artifact.Artifact

	// Order is the topological schedule the compiler evaluated blocks in,
	// exposed for determinism tests.
	Order []string
}

// compiler carries one compilation's mutable working state. Not reused
// across patches.
type compiler struct {
	patch    *patch.Patch
	registry *registry.Registry
	blocks   BlockRegistry
	cfg      *config.Config
	log      *output.Logger

	graph *depgraph.Graph

	blockOutputs map[string]map[string]artifact.Artifact // blockID -> slotID -> value
	busValues    map[string]artifact.Artifact
	busValuesOK  map[string]bool

	debug *debugcore.Registry

	errors   []Error
	warnings []Warning
}

// Compile runs the full pipeline over p. It never panics: structural
// problems accumulate as Errors in the returned Result. Within a phase
// every problem is collected, but compilation stops after block validation
// if it found any errors, and after the topological sort if it found a
// cycle, so later phases' problems are not reported in that pass.
func Compile(p *patch.Patch, reg *registry.Registry, blocks BlockRegistry, cfg *config.Config, log *output.Logger, opts ...Option) *Result {
	if log == nil {
		log = output.Discard()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &compiler{
		patch:        p,
		registry:     reg,
		blocks:       blocks,
		cfg:          cfg,
		log:          log.Scoped("compile"),
		graph:        depgraph.New(),
		blockOutputs: make(map[string]map[string]artifact.Artifact),
		busValues:    make(map[string]artifact.Artifact),
		busValuesOK:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c.run()
}

func (c *compiler) run() *Result {
	c.ensureTimeRoot()
	c.validateBlocks()
	if len(c.errors) > 0 {
		return c.result()
	}

	c.buildGraph()
	order, err := c.graph.TopoSort()
	if err != nil {
		var cyc *depgraph.CycleError
		node := ""
		if ok := asCycleError(err, &cyc); ok {
			node = cyc.Node
		}
		c.errors = append(c.errors, Error{Code: CodeCycle, Message: err.Error(), At: At{BlockID: node}})
		return c.result()
	}
	c.log.Debug("scheduled", "order", order)

	for _, id := range order {
		c.compileBlock(id)
	}

	if len(c.errors) > 0 {
		return c.result()
	}

	sinks := make(map[string]artifact.Artifact)
	for _, b := range c.patch.Blocks {
		if b.Type != "renderSink" {
			continue
		}
		outs, ok := c.blockOutputs[b.ID]
		if !ok {
			continue
		}
		sinks[b.ID] = outs["out"]
	}

	c.reportUnreachable(sinks)

	return &Result{
		Errors:   c.errors,
		Warnings: c.warnings,
		Sinks:    sinks,
		Order:    order,
	}
}

func asCycleError(err error, target **depgraph.CycleError) bool {
	ce, ok := err.(*depgraph.CycleError)
	if !ok {
		return false
	}
	*target = ce
	return true
}

func (c *compiler) result() *Result {
	return &Result{Errors: c.errors, Warnings: c.warnings}
}

// ensureTimeRoot synthesizes a timeRoot block, and publishers wiring its
// canonical outputs onto the canonical buses, when the patch declares
// neither. A patch that already names a timeRoot block is left untouched.
func (c *compiler) ensureTimeRoot() {
	for _, b := range c.patch.Blocks {
		if b.Type == "timeRoot" {
			return
		}
	}

	c.patch.Blocks = append(c.patch.Blocks, patch.Block{ID: timeRootBlockID, Type: "timeRoot"})
	for out, busID := range canonicalAutoPublishBuses {
		if _, ok := c.patch.BusByID(busID); !ok {
			continue
		}
		c.patch.Publishers = append(c.patch.Publishers, patch.Publisher{
			ID:      timeRootBlockID + ":" + out,
			BusID:   busID,
			Source:  patch.SlotRef{BlockID: timeRootBlockID, SlotID: out},
			Enabled: true,
		})
	}
}

func (c *compiler) validateBlocks() {
	for _, b := range c.patch.Blocks {
		if _, ok := c.blocks[b.Type]; !ok {
			c.errors = append(c.errors, Error{Code: CodeMissingBlock, Message: fmt.Sprintf("unknown block type %q", b.Type), At: At{BlockID: b.ID}})
		}
	}
}

// buildGraph adds a direct edge for every wire, plus a collapsed edge from
// each bus's publisher source blocks to each of its listeners' target
// blocks, so the schedule still respects bus-mediated dependencies even
// though buses are combined once per bus rather than once per listener.
func (c *compiler) buildGraph() {
	for _, b := range c.patch.Blocks {
		c.graph.AddNode(b.ID)
	}
	for _, w := range c.patch.Wires {
		_ = c.graph.AddEdge(w.From.BlockID, w.To.BlockID)
	}
	for _, busDecl := range c.patch.Buses {
		pubs := c.patch.PublishersFor(busDecl.ID)
		listeners := c.patch.ListenersFor(busDecl.ID)
		for _, p := range pubs {
			for _, l := range listeners {
				_ = c.graph.AddEdge(p.Source.BlockID, l.Target.BlockID)
			}
		}
	}
}

func (c *compiler) reportUnreachable(sinks map[string]artifact.Artifact) {
	ids := make([]string, 0, len(sinks))
	for id := range sinks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range c.graph.UnreachableFrom(ids) {
		c.warnings = append(c.warnings, Warning{Message: "block has no path to any render sink", At: At{BlockID: id}})
	}
}

// resolveBus returns busID's effective value, computing and memoizing it on
// first request. Called lazily from a listening block's input resolution
// (or a lens parameter's bus binding) rather than eagerly up front, since a
// bus's publisher source blocks are scheduled alongside every other block
// and may not all be done until partway through the run.
func (c *compiler) resolveBus(busID string) (artifact.Artifact, error) {
	if c.busValuesOK[busID] {
		return c.busValues[busID], nil
	}
	busDecl, ok := c.patch.BusByID(busID)
	if !ok {
		return artifact.Artifact{}, fmt.Errorf("compile: unknown bus %q", busID)
	}
	c.compileBus(busDecl)
	if !c.busValuesOK[busID] {
		return artifact.Artifact{}, fmt.Errorf("compile: bus %q failed to compile", busID)
	}
	return c.busValues[busID], nil
}

// compileBus resolves every enabled publisher for busDecl, applying each
// publisher's own transform stack (scope=publisher) before combining, and
// caches the effective value for wire/param/listener resolution.
func (c *compiler) compileBus(busDecl patch.BusDecl) {
	busType := kindFromString(busDecl.Type)
	b := bus.Bus{
		ID:          busDecl.ID,
		Type:        busType,
		CombineMode: busDecl.CombineModeValue(),
		Default:     busDecl.Default.ToArtifactLiteral(),
	}

	var pubs []bus.Publisher
	for _, p := range c.patch.PublishersFor(busDecl.ID) {
		outs, ok := c.blockOutputs[p.Source.BlockID]
		if !ok {
			c.errors = append(c.errors, Error{Code: CodeAdapterError, Message: fmt.Sprintf("publisher %q source block not evaluated before its bus", p.ID), At: At{BusID: busDecl.ID, BlockID: p.Source.BlockID}})
			continue
		}
		val := outs[p.Source.SlotID]

		paramCtx := c.newParamContext()
		val, warnings, err := c.applyTransformStack(val, p.Transforms, registry.ScopePublisher, paramCtx)
		c.warnings = append(c.warnings, warnings...)
		if err != nil {
			c.errors = append(c.errors, Error{Code: CodeAdapterError, Message: err.Error(), At: At{BusID: busDecl.ID, BlockID: p.Source.BlockID}})
			continue
		}
		val, adaptWarnings, cerr := c.reconcileType(val, busType, At{BusID: busDecl.ID})
		c.warnings = append(c.warnings, adaptWarnings...)
		if cerr != nil {
			c.errors = append(c.errors, *cerr)
			continue
		}

		pubs = append(pubs, bus.Publisher{ID: p.ID, SortKey: p.SortKey, Value: val})
	}

	val, err := bus.Compile(b, pubs)
	if err != nil {
		c.errors = append(c.errors, Error{Code: CodeAdapterError, Message: err.Error(), At: At{BusID: busDecl.ID}})
		return
	}
	c.busValues[busDecl.ID] = val
	c.busValuesOK[busDecl.ID] = true
}

// compileBlock evaluates one block: resolves its wire inputs (applying the
// wire's transform stack and reconciling types against the block's
// declared input kind), resolves its params, and runs the block
// definition's Compile function.
func (c *compiler) compileBlock(id string) {
	blk, ok := c.patch.BlockByID(id)
	if !ok {
		return
	}
	def, ok := c.blocks[blk.Type]
	if !ok {
		return // already reported by validateBlocks.
	}

	inputs := make(map[string]artifact.Artifact, len(def.Inputs))
	for slot, wantKind := range def.Inputs {
		val, err := c.resolveInput(blk.ID, slot, wantKind)
		if err != nil {
			c.errors = append(c.errors, Error{Code: CodeTypeMismatch, Message: err.Error(), At: At{BlockID: blk.ID, SlotID: slot}})
			continue
		}
		inputs[slot] = val
	}

	params, err := c.resolveBlockParams(blk)
	if err != nil {
		c.errors = append(c.errors, Error{Code: CodeTypeMismatch, Message: err.Error(), At: At{BlockID: blk.ID}})
		return
	}

	rtCtx := artifact.Ctx{Viewport: artifact.Viewport{
		W: c.cfg.DefaultViewportWidth, H: c.cfg.DefaultViewportHeight, DPR: c.cfg.DefaultViewportDPR,
	}}
	outs := def.Compile(inputs, params, rtCtx)
	c.blockOutputs[blk.ID] = outs
	c.recordBlockOutputs(blk.ID, outs)
}

func (c *compiler) resolveInput(blockID, slot string, wantKind artifact.Kind) (artifact.Artifact, error) {
	for _, w := range c.patch.Wires {
		if w.To.BlockID != blockID || w.To.SlotID != slot {
			continue
		}
		producer, ok := c.blockOutputs[w.From.BlockID]
		if !ok {
			return artifact.Artifact{}, fmt.Errorf("compile: wire source %s.%s not yet evaluated", w.From.BlockID, w.From.SlotID)
		}
		val := producer[w.From.SlotID]
		return c.applyScopeAndReconcile(val, w.Transforms, registry.ScopeWire, wantKind, At{BlockID: blockID, SlotID: slot})
	}

	for _, l := range c.patch.Listeners {
		if !l.Enabled || l.Target.BlockID != blockID || l.Target.SlotID != slot {
			continue
		}
		val, err := c.resolveBus(l.BusID)
		if err != nil {
			return artifact.Artifact{}, err
		}
		return c.applyScopeAndReconcile(val, l.Transforms, registry.ScopeListener, wantKind, At{BlockID: blockID, SlotID: slot, BusID: l.BusID})
	}

	return artifact.NewError(fmt.Sprintf("compile: no wire or listener feeds %s.%s", blockID, slot)), nil
}

func (c *compiler) applyScopeAndReconcile(val artifact.Artifact, steps []patch.TransformStep, scope registry.Scope, wantKind artifact.Kind, at At) (artifact.Artifact, error) {
	paramCtx := c.newParamContext()
	val, warnings, err := c.applyTransformStack(val, steps, scope, paramCtx)
	c.warnings = append(c.warnings, warnings...)
	if err != nil {
		return artifact.Artifact{}, err
	}
	val, adaptWarnings, cerr := c.reconcileType(val, wantKind, at)
	c.warnings = append(c.warnings, adaptWarnings...)
	if cerr != nil {
		return artifact.Artifact{}, fmt.Errorf("%s", cerr.Message)
	}
	return val, nil
}

func (c *compiler) resolveBlockParams(blk patch.Block) (map[string]artifact.Artifact, error) {
	paramCtx := c.newParamContext()
	out := make(map[string]artifact.Artifact, len(blk.Params))
	for name, pb := range blk.Params {
		v, err := param.Resolve(pb.ToParamBinding(), paramCtx)
		if err != nil {
			return nil, fmt.Errorf("compile: resolve param %q of block %q: %w", name, blk.ID, err)
		}
		out[name] = v
	}
	return out, nil
}

func (c *compiler) newParamContext() *param.Context {
	defaults := make(map[string]param.DefaultSource, len(c.patch.DefaultSources))
	for _, d := range c.patch.DefaultSources {
		defaults[d.ID] = param.DefaultSource{Type: kindFromString(d.Type), Value: d.Literal.ToArtifactLiteral()}
	}
	rtCtx := artifact.Ctx{Viewport: artifact.Viewport{
		W: c.cfg.DefaultViewportWidth, H: c.cfg.DefaultViewportHeight, DPR: c.cfg.DefaultViewportDPR,
	}}
	return param.NewContext(
		c.resolveBus,
		func(blockID, slotID string) (artifact.Artifact, error) {
			outs, ok := c.blockOutputs[blockID]
			if !ok {
				return artifact.Artifact{}, fmt.Errorf("compile: block %q not yet evaluated", blockID)
			}
			return outs[slotID], nil
		},
		defaults,
		func(value artifact.Artifact, transforms interface{}, ctx *param.Context) (artifact.Artifact, error) {
			steps, _ := transforms.([]patch.TransformStep)
			v, warnings, err := c.applyTransformStack(value, steps, registry.ScopeLensParam, ctx)
			c.warnings = append(c.warnings, warnings...)
			return v, err
		},
		rtCtx,
	)
}

func kindFromString(s string) artifact.Kind {
	switch s {
	case "Scalar:float":
		return artifact.KindScalarFloat
	case "Scalar:int":
		return artifact.KindScalarInt
	case "Scalar:bool":
		return artifact.KindScalarBool
	case "Scalar:string":
		return artifact.KindScalarString
	case "Signal:float":
		return artifact.KindSignalFloat
	case "Signal:phase":
		return artifact.KindSignalPhase
	case "Signal:Unit":
		return artifact.KindSignalUnit
	case "Field:float":
		return artifact.KindFieldFloat
	default:
		return artifact.KindInvalid
	}
}
