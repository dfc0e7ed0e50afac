package compile

import (
	"fmt"

	"github.com/katalvlaran/patchcore/artifact"
	"github.com/katalvlaran/patchcore/param"
	"github.com/katalvlaran/patchcore/patch"
	"github.com/katalvlaran/patchcore/registry"
)

// stepFailure pairs a transform step with the error it raised.
// applyTransformStack does not use it: a disabled step is skipped, while a
// step whose definition is missing from the registry aborts the stack with
// an error.
type stepFailure struct {
	step patch.TransformStep
	err  error
}

// applyTransformStack runs an enabled sequence of adapter/lens steps over
// value in order, enforcing that every lens is allowed to attach at scope.
// An adapter step changes value's Kind; a lens step must preserve it. Any
// Error artifact produced mid-stack short-circuits the remaining steps.
func (c *compiler) applyTransformStack(value artifact.Artifact, steps []patch.TransformStep, scope registry.Scope, paramCtx *param.Context) (artifact.Artifact, []Warning, error) {
	var warnings []Warning
	for _, step := range steps {
		if !step.Enabled {
			continue
		}
		if value.IsError() {
			return value, warnings, nil
		}

		def, ok := c.registry.Get(step.ID)
		if !ok {
			return artifact.Artifact{}, warnings, fmt.Errorf("compile: unknown transform %q", step.ID)
		}
		if def.Kind == registry.KindLens && !def.AllowsScope(scope) {
			return artifact.Artifact{}, warnings, fmt.Errorf("compile: lens %q not allowed in this scope", step.ID)
		}

		resolvedParams, err := c.resolveStepParams(step, paramCtx)
		if err != nil {
			return artifact.Artifact{}, warnings, err
		}

		if def.Policy == registry.PolicySuggest {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("transform %q applied under suggest policy", step.ID)})
		}

		value = def.Apply(value, resolvedParams, paramCtx.Runtime)
	}
	return value, warnings, nil
}

// resolveStepParams resolves every param.Binding a step's params translate
// to, under paramCtx. Missing entries fall back to the transform's declared
// default, mirroring how a patch author can omit a param entirely and rely
// on the registry default.
func (c *compiler) resolveStepParams(step patch.TransformStep, paramCtx *param.Context) (map[string]artifact.Artifact, error) {
	def, ok := c.registry.Get(step.ID)
	if !ok {
		return nil, fmt.Errorf("compile: unknown transform %q", step.ID)
	}

	out := make(map[string]artifact.Artifact, len(def.Params))
	for name, spec := range def.Params {
		out[name] = spec.Default
	}
	for name, pb := range step.Params {
		v, err := param.Resolve(pb.ToParamBinding(), paramCtx.Child())
		if err != nil {
			return nil, fmt.Errorf("compile: resolve param %q of %q: %w", name, step.ID, err)
		}
		out[name] = v
	}
	return out, nil
}

// reconcileType inserts an adapter after the existing transform stack has
// run, when its output type and the consumer type differ, following the registry's
// cost-ordered FindAdapters first and falling back to FindAdapterPath for a
// multi-hop chain. Returns the (possibly unchanged) artifact and any
// warnings raised by a SUGGEST-policy adapter choice.
func (c *compiler) reconcileType(value artifact.Artifact, want artifact.Kind, at At) (artifact.Artifact, []Warning, *Error) {
	have := value.Kind()
	if have == want || value.IsError() {
		return value, nil, nil
	}

	var warnings []Warning
	adapters := c.registry.FindAdapters(have, want)
	if len(adapters) > 0 {
		def := adapters[0]
		if def.Policy == registry.PolicyExplicit {
			return artifact.Artifact{}, nil, &Error{Code: CodeTypeMismatch, Message: fmt.Sprintf("no implicit adapter from %s to %s (explicit-only match exists)", have, want), At: at}
		}
		if def.Policy == registry.PolicySuggest {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("inserted adapter %q (%s -> %s)", def.ID, have, want), At: at})
		}
		return def.Apply(value, nil, artifact.Ctx{}), warnings, nil
	}

	hops, ok := c.registry.FindAdapterPath(have, want, c.cfg.AdapterCostCeiling)
	if !ok {
		return artifact.Artifact{}, nil, &Error{Code: CodeTypeMismatch, Message: fmt.Sprintf("no adapter path from %s to %s", have, want), At: at}
	}
	for _, hop := range hops {
		if hop.Adapter.Policy == registry.PolicySuggest {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("inserted adapter %q (%s -> %s)", hop.Adapter.ID, hop.From, hop.To), At: at})
		}
		value = hop.Adapter.Apply(value, nil, artifact.Ctx{})
	}
	return value, warnings, nil
}
