package param_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/patchcore/artifact"
	"github.com/katalvlaran/patchcore/param"
)

func TestResolve_Literal(t *testing.T) {
	ctx := param.NewContext(nil, nil, nil, nil, artifact.Ctx{})
	out, err := param.Resolve(param.Binding{Kind: param.BindingLiteral, Literal: artifact.NewScalarFloat(3)}, ctx)
	require.NoError(t, err)
	assert.Equal(t, 3.0, out.ScalarFloat())
}

func TestResolve_DefaultLiftsToSignal(t *testing.T) {
	defaults := map[string]param.DefaultSource{
		"d1": {Type: artifact.KindSignalFloat, Value: artifact.NewScalarFloat(7)},
	}
	ctx := param.NewContext(nil, nil, defaults, nil, artifact.Ctx{})
	out, err := param.Resolve(param.Binding{Kind: param.BindingDefault, DefaultID: "d1"}, ctx)
	require.NoError(t, err)
	require.Equal(t, artifact.KindSignalFloat, out.Kind())
	assert.Equal(t, 7.0, out.SignalFloat()(0, artifact.Ctx{}))
}

func TestResolve_UnknownDefault_IsError(t *testing.T) {
	ctx := param.NewContext(nil, nil, map[string]param.DefaultSource{}, nil, artifact.Ctx{})
	out, err := param.Resolve(param.Binding{Kind: param.BindingDefault, DefaultID: "missing"}, ctx)
	require.NoError(t, err)
	assert.True(t, out.IsError())
}

func TestResolve_DepthExceeded(t *testing.T) {
	// Each application descends into a fresh, uniquely-named bus binding so
	// depth grows without ever revisiting a key (which would instead trip
	// cycle detection).
	var applyStack func(artifact.Artifact, interface{}, *param.Context) (artifact.Artifact, error)
	applyStack = func(v artifact.Artifact, transforms interface{}, c *param.Context) (artifact.Artifact, error) {
		next := transforms.(string) + "x"
		return param.Resolve(param.Binding{Kind: param.BindingBus, BusID: next, Transforms: next}, c)
	}
	resolveBus := func(id string) (artifact.Artifact, error) { return artifact.NewScalarFloat(1), nil }

	ctx := param.NewContext(resolveBus, nil, nil, applyStack, artifact.Ctx{})
	_, err := param.Resolve(param.Binding{Kind: param.BindingBus, BusID: "a", Transforms: "a"}, ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, param.ErrDepthExceeded))
}

func TestResolve_CycleDetected(t *testing.T) {
	var applyStack func(artifact.Artifact, interface{}, *param.Context) (artifact.Artifact, error)
	applyStack = func(v artifact.Artifact, transforms interface{}, c *param.Context) (artifact.Artifact, error) {
		return param.Resolve(param.Binding{Kind: param.BindingBus, BusID: "a", Transforms: "loop"}, c)
	}
	resolveBus := func(id string) (artifact.Artifact, error) { return artifact.NewScalarFloat(1), nil }

	ctx := param.NewContext(resolveBus, nil, nil, applyStack, artifact.Ctx{})
	_, err := param.Resolve(param.Binding{Kind: param.BindingBus, BusID: "a", Transforms: "loop"}, ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, param.ErrCycle))
}

func TestResolve_WireErrorPropagates(t *testing.T) {
	resolveWire := func(block, slot string) (artifact.Artifact, error) {
		return artifact.NewError("upstream failed"), nil
	}
	ctx := param.NewContext(nil, resolveWire, nil, nil, artifact.Ctx{})
	out, err := param.Resolve(param.Binding{Kind: param.BindingWire, WireBlockID: "b1", WireSlotID: "out"}, ctx)
	require.NoError(t, err)
	assert.True(t, out.IsError())
	assert.Equal(t, "upstream failed", out.ErrorMessage())
}
