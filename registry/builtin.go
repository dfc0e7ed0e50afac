package registry

import (
	"math"

	"github.com/katalvlaran/patchcore/artifact"
)

// RegisterBuiltins populates r with the canonical adapters and lenses
// (scale, clamp, ease, mapRange, phaseOffset, pingPong, hysteresis, ...)
// plus the legacy PascalCase aliases that must keep resolving.
func RegisterBuiltins(r *Registry) error {
	builtins := []Def{
		{
			ID:         "scalarFloatToSignalFloat",
			Kind:       KindAdapter,
			InputType:  artifact.KindScalarFloat,
			OutputType: artifact.KindSignalFloat,
			Policy:     PolicyAuto,
			Cost:       1,
			Apply: func(in artifact.Artifact, _ map[string]artifact.Artifact, _ artifact.Ctx) artifact.Artifact {
				v := in.ScalarFloat()
				return artifact.NewSignalFloat(func(float64, artifact.Ctx) float64 { return v })
			},
		},
		{
			ID:         "scalarIntToSignalFloat",
			Kind:       KindAdapter,
			InputType:  artifact.KindScalarInt,
			OutputType: artifact.KindSignalFloat,
			Policy:     PolicyAuto,
			Cost:       1,
			Apply: func(in artifact.Artifact, _ map[string]artifact.Artifact, _ artifact.Ctx) artifact.Artifact {
				v := float64(in.ScalarInt())
				return artifact.NewSignalFloat(func(float64, artifact.Ctx) float64 { return v })
			},
		},
		{
			ID:         "signalFloatToSignalPhase",
			Kind:       KindAdapter,
			InputType:  artifact.KindSignalFloat,
			OutputType: artifact.KindSignalPhase,
			Policy:     PolicySuggest,
			Cost:       2,
			Apply: func(in artifact.Artifact, _ map[string]artifact.Artifact, _ artifact.Ctx) artifact.Artifact {
				fn := in.SignalFloat()
				return artifact.NewSignalPhase(func(t float64, ctx artifact.Ctx) float64 { return fn(t, ctx) })
			},
		},
		{
			ID:         "signalFloatToSignalUnit",
			Kind:       KindAdapter,
			InputType:  artifact.KindSignalFloat,
			OutputType: artifact.KindSignalUnit,
			Policy:     PolicySuggest,
			Cost:       2,
			Apply: func(in artifact.Artifact, _ map[string]artifact.Artifact, _ artifact.Ctx) artifact.Artifact {
				fn := in.SignalFloat()
				return artifact.NewSignalUnit(func(t float64, ctx artifact.Ctx) float64 { return fn(t, ctx) })
			},
		},
		{
			ID:         "scalarFloatToFieldFloat",
			Kind:       KindAdapter,
			InputType:  artifact.KindScalarFloat,
			OutputType: artifact.KindFieldFloat,
			Policy:     PolicyAuto,
			Cost:       1,
			Apply: func(in artifact.Artifact, _ map[string]artifact.Artifact, _ artifact.Ctx) artifact.Artifact {
				v := in.ScalarFloat()
				return artifact.NewFieldFloat(func(seed int64, n int, ctx artifact.Ctx) []float64 {
					out := make([]float64, n)
					for i := range out {
						out[i] = v
					}
					return out
				})
			},
		},

		// ---- lenses: domain "float" ----
		{
			ID:            "scale",
			Kind:          KindLens,
			InputType:     artifact.KindSignalFloat,
			Domain:        "float",
			AllowedScopes: []Scope{ScopeWire, ScopePublisher, ScopeListener, ScopeLensParam},
			Params: map[string]ParamSpec{
				"factor": {Name: "factor", Type: artifact.KindScalarFloat, Default: artifact.NewScalarFloat(1)},
			},
			CostHint:  1,
			Stability: StabilityEither,
			Apply: func(in artifact.Artifact, params map[string]artifact.Artifact, _ artifact.Ctx) artifact.Artifact {
				fn := in.SignalFloat()
				factor := params["factor"]
				return artifact.NewSignalFloat(func(t float64, ctx artifact.Ctx) float64 {
					f := factor.ScalarFloat()
					if factor.Kind().IsSignal() {
						f = factor.SignalFloat()(t, ctx)
					}
					return fn(t, ctx) * f
				})
			},
		},
		{
			ID:            "clamp",
			Kind:          KindLens,
			InputType:     artifact.KindSignalFloat,
			Domain:        "float",
			AllowedScopes: []Scope{ScopeWire, ScopePublisher, ScopeListener, ScopeLensParam},
			Params: map[string]ParamSpec{
				"min": {Name: "min", Type: artifact.KindScalarFloat, Default: artifact.NewScalarFloat(0)},
				"max": {Name: "max", Type: artifact.KindScalarFloat, Default: artifact.NewScalarFloat(1)},
			},
			CostHint:  1,
			Stability: StabilityEither,
			Apply: func(in artifact.Artifact, params map[string]artifact.Artifact, _ artifact.Ctx) artifact.Artifact {
				fn := in.SignalFloat()
				mn := params["min"].ScalarFloat()
				mx := params["max"].ScalarFloat()
				return artifact.NewSignalFloat(func(t float64, ctx artifact.Ctx) float64 {
					v := fn(t, ctx)
					if v < mn {
						return mn
					}
					if v > mx {
						return mx
					}
					return v
				})
			},
		},
		{
			ID:            "mapRange",
			Kind:          KindLens,
			InputType:     artifact.KindSignalFloat,
			Domain:        "float",
			AllowedScopes: []Scope{ScopeListener, ScopeLensParam},
			Params: map[string]ParamSpec{
				"inMin":  {Name: "inMin", Type: artifact.KindScalarFloat, Default: artifact.NewScalarFloat(0)},
				"inMax":  {Name: "inMax", Type: artifact.KindScalarFloat, Default: artifact.NewScalarFloat(1)},
				"outMin": {Name: "outMin", Type: artifact.KindScalarFloat, Default: artifact.NewScalarFloat(0)},
				"outMax": {Name: "outMax", Type: artifact.KindScalarFloat, Default: artifact.NewScalarFloat(1)},
			},
			CostHint:  1,
			Stability: StabilityEither,
			Apply: func(in artifact.Artifact, params map[string]artifact.Artifact, _ artifact.Ctx) artifact.Artifact {
				fn := in.SignalFloat()
				inMin := params["inMin"].ScalarFloat()
				inMax := params["inMax"].ScalarFloat()
				outMin := params["outMin"].ScalarFloat()
				outMax := params["outMax"].ScalarFloat()
				return artifact.NewSignalFloat(func(t float64, ctx artifact.Ctx) float64 {
					v := fn(t, ctx)
					span := inMax - inMin
					if span == 0 {
						return outMin
					}
					n := (v - inMin) / span
					return outMin + n*(outMax-outMin)
				})
			},
		},
		{
			ID:            "phaseOffset",
			Kind:          KindLens,
			InputType:     artifact.KindSignalPhase,
			Domain:        "float",
			AllowedScopes: []Scope{ScopeWire, ScopePublisher, ScopeListener, ScopeLensParam},
			Params: map[string]ParamSpec{
				"offset": {Name: "offset", Type: artifact.KindScalarFloat, Default: artifact.NewScalarFloat(0)},
			},
			CostHint:  1,
			Stability: StabilityEither,
			Apply: func(in artifact.Artifact, params map[string]artifact.Artifact, _ artifact.Ctx) artifact.Artifact {
				fn := in.SignalPhase()
				offset := params["offset"].ScalarFloat()
				return artifact.NewSignalPhase(func(t float64, ctx artifact.Ctx) float64 {
					return fn(t, ctx) + offset
				})
			},
		},
		{
			ID:            "pingPong",
			Kind:          KindLens,
			InputType:     artifact.KindSignalPhase,
			Domain:        "float",
			AllowedScopes: []Scope{ScopeWire, ScopePublisher, ScopeListener, ScopeLensParam},
			CostHint:      1,
			Stability:     StabilityEither,
			Apply: func(in artifact.Artifact, _ map[string]artifact.Artifact, _ artifact.Ctx) artifact.Artifact {
				fn := in.SignalPhase()
				return artifact.NewSignalPhase(func(t float64, ctx artifact.Ctx) float64 {
					p := fn(t, ctx)
					return 1 - math.Abs(2*p-1)
				})
			},
		},
		{
			ID:            "hysteresis",
			Kind:          KindLens,
			InputType:     artifact.KindSignalFloat,
			Domain:        "float",
			AllowedScopes: []Scope{ScopeListener},
			Params: map[string]ParamSpec{
				"threshold": {Name: "threshold", Type: artifact.KindScalarFloat, Default: artifact.NewScalarFloat(0.5)},
				"band":      {Name: "band", Type: artifact.KindScalarFloat, Default: artifact.NewScalarFloat(0.1)},
			},
			CostHint:  2,
			Stability: StabilityTransportOnly,
			Apply: func(in artifact.Artifact, params map[string]artifact.Artifact, _ artifact.Ctx) artifact.Artifact {
				fn := in.SignalFloat()
				threshold := params["threshold"].ScalarFloat()
				band := params["band"].ScalarFloat()
				state := false
				return artifact.NewSignalFloat(func(t float64, ctx artifact.Ctx) float64 {
					v := fn(t, ctx)
					switch {
					case !state && v > threshold+band/2:
						state = true
					case state && v < threshold-band/2:
						state = false
					}
					if state {
						return 1
					}
					return 0
				})
			},
		},
		{
			ID:            "ease",
			Kind:          KindLens,
			InputType:     artifact.KindSignalUnit,
			Domain:        "float",
			AllowedScopes: []Scope{ScopeListener, ScopeLensParam},
			CostHint:      1,
			Stability:     StabilityEither,
			Apply: func(in artifact.Artifact, _ map[string]artifact.Artifact, _ artifact.Ctx) artifact.Artifact {
				fn := in.SignalUnit()
				return artifact.NewSignalUnit(func(t float64, ctx artifact.Ctx) float64 {
					v := fn(t, ctx)
					return v * v * (3 - 2*v) // smoothstep
				})
			},
		},
	}

	for _, def := range builtins {
		if err := r.Register(def); err != nil {
			return err
		}
	}

	aliases := map[string]string{
		"Polarity":    "scale",
		"PhaseOffset": "phaseOffset",
		"PingPong":    "pingPong",
		"MapRange":    "mapRange",
		"Clamp":       "clamp",
		"Ease":        "ease",
		"Hysteresis":  "hysteresis",
	}
	for legacy, canon := range aliases {
		r.RegisterAlias(legacy, canon)
	}

	return nil
}
