package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkirsch/shipgraph/internal/graph"
)

func TestBuildSymmetry(t *testing.T) {
	g := graph.Build([]graph.Edge{
		{A: "Anna", B: "Ben"},
		{A: "Ben", B: "Clara"},
		{A: "Clara", B: "Anna"},
	})

	for _, a := range g.People() {
		for _, b := range g.People() {
			assert.Equal(t, g.AreConnected(a, b), g.AreConnected(b, a),
				"adjacency must be symmetric for (%s, %s)", a, b)
		}
	}
}

func TestBuildDeduplicatesAndIgnoresSelfEdges(t *testing.T) {
	g := graph.Build([]graph.Edge{
		{A: "Anna", B: "Ben"},
		{A: "Ben", B: "Anna"},
		{A: "anna", B: "ben"},
		{A: "Anna", B: "Anna"},
		{A: "Anna", B: "ANNA"},
		{A: "", B: "Ben"},
	})

	require.Equal(t, 2, g.Len())
	assert.Equal(t, []string{"Ben"}, g.Neighbors("Anna"))
	assert.Equal(t, []string{"Anna"}, g.Neighbors("Ben"))
	assert.Len(t, g.Edges(), 1)
}

func TestLookupsAreCaseInsensitive(t *testing.T) {
	g := graph.Build([]graph.Edge{{A: "Anna", B: "Ben"}})

	display, ok := g.Resolve("aNNa")
	require.True(t, ok)
	assert.Equal(t, "Anna", display, "canonical key keeps first-seen casing")

	assert.True(t, g.AreConnected("ANNA", "ben"))
	assert.Equal(t, []string{"Ben"}, g.Neighbors("anna"))
}

func TestNeighborsOfUnknownPersonIsEmpty(t *testing.T) {
	g := graph.Build([]graph.Edge{{A: "Anna", B: "Ben"}})

	assert.Empty(t, g.Neighbors("Zoe"))
	assert.False(t, g.AreConnected("Zoe", "Anna"))
	assert.False(t, g.Has("Zoe"))
}

func TestPeopleInFirstSeenOrder(t *testing.T) {
	g := graph.Build([]graph.Edge{
		{A: "Clara", B: "Anna"},
		{A: "Anna", B: "Ben"},
	})

	assert.Equal(t, []string{"Clara", "Anna", "Ben"}, g.People())
}

func TestEdgesListsEachEdgeOnce(t *testing.T) {
	edges := []graph.Edge{
		{A: "Anna", B: "Ben"},
		{A: "Ben", B: "Clara"},
		{A: "Clara", B: "Dora"},
	}
	g := graph.Build(edges)

	got := g.EdgeSet()
	require.Len(t, g.Edges(), 3)
	for _, e := range edges {
		assert.True(t, got.Has(e.A, e.B))
		assert.True(t, got.Has(e.B, e.A))
	}
}
