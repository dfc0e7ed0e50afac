package debugcore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/patchcore/debugcore"
)

func TestRegistry_CreateAndRecordProbe(t *testing.T) {
	reg := debugcore.NewRegistry(8)
	target := debugcore.Target{Kind: debugcore.TargetBlock, ID: "osc1"}

	p := reg.CreateProbe(target)
	require.NotEmpty(t, p.ID)

	reg.Record(target, debugcore.Summarize(0, debugcore.ValueNum, 1))
	reg.Record(target, debugcore.Summarize(1, debugcore.ValueNum, 2))

	hist, ok := reg.GetProbeHistory(p.ID, 10)
	require.True(t, ok)
	require.Len(t, hist, 2)
	assert.Equal(t, 1.0, hist[0].A)
	assert.Equal(t, 2.0, hist[1].A)
}

func TestRegistry_RecordOnUnwatchedTarget_IsNoop(t *testing.T) {
	reg := debugcore.NewRegistry(8)
	assert.NotPanics(t, func() {
		reg.Record(debugcore.Target{Kind: debugcore.TargetBus, ID: "hub"}, debugcore.Summarize(0, debugcore.ValueNum, 1))
	})
}

func TestRegistry_ListProbes_SortedByID(t *testing.T) {
	reg := debugcore.NewRegistry(4)
	reg.CreateProbe(debugcore.Target{Kind: debugcore.TargetBlock, ID: "a"})
	reg.CreateProbe(debugcore.Target{Kind: debugcore.TargetBlock, ID: "b"})

	probes := reg.ListProbes()
	require.Len(t, probes, 2)
	assert.Less(t, probes[0].ID, probes[1].ID)
}

func TestRegistry_GetProbeHistory_UnknownID(t *testing.T) {
	reg := debugcore.NewRegistry(4)
	_, ok := reg.GetProbeHistory("nope", 5)
	assert.False(t, ok)
}

func TestRegistry_BindingTarget_DirectionDistinguishesProbes(t *testing.T) {
	reg := debugcore.NewRegistry(4)
	pub := reg.CreateProbe(debugcore.Target{Kind: debugcore.TargetBinding, ID: "wire1", Direction: debugcore.DirectionPublish})
	sub := reg.CreateProbe(debugcore.Target{Kind: debugcore.TargetBinding, ID: "wire1", Direction: debugcore.DirectionSubscribe})

	reg.Record(debugcore.Target{Kind: debugcore.TargetBinding, ID: "wire1", Direction: debugcore.DirectionPublish}, debugcore.Summarize(0, debugcore.ValueNum, 9))

	pubHist, _ := reg.GetProbeHistory(pub.ID, 5)
	subHist, _ := reg.GetProbeHistory(sub.ID, 5)
	assert.Len(t, pubHist, 1)
	assert.Len(t, subHist, 0)
}
