package depgraph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/patchcore/internal/depgraph"
)

func diamond() *depgraph.Graph {
	g := depgraph.New()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.AddNode(id)
	}
	_ = g.AddEdge("a", "b")
	_ = g.AddEdge("a", "c")
	_ = g.AddEdge("b", "d")
	_ = g.AddEdge("c", "d")
	return g
}

func TestTopoSort_Diamond(t *testing.T) {
	order, err := diamond().TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)
}

func TestTopoSort_LexTieBreak(t *testing.T) {
	// Four isolated nodes with no edges: ties must resolve by ID.
	g := depgraph.New()
	for _, id := range []string{"z", "y", "b", "a"} {
		g.AddNode(id)
	}
	order, err := g.TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "y", "z"}, order)
}

func TestTopoSort_Cycle(t *testing.T) {
	g := depgraph.New()
	g.AddNode("a")
	g.AddNode("b")
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "a"))

	_, err := g.TopoSort()
	require.Error(t, err)
	assert.True(t, errors.Is(err, depgraph.ErrCycle))
}

func TestAddEdge_UnknownNode(t *testing.T) {
	g := depgraph.New()
	g.AddNode("a")
	err := g.AddEdge("a", "missing")
	assert.True(t, errors.Is(err, depgraph.ErrUnknownNode))
}

func TestUnreachableFrom(t *testing.T) {
	g := diamond()
	g.AddNode("orphan")

	unreachable := g.UnreachableFrom([]string{"d"})
	assert.Equal(t, []string{"orphan"}, unreachable)
}
