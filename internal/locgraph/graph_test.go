package locgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/rollcall-backend-go/internal/apperrors"
	"github.com/jengzang/rollcall-backend-go/internal/models"
)

func testNodes() []models.LocationNode {
	return []models.LocationNode{
		{ID: "wing-a", Name: "A Wing", Kind: models.NodeKindWing},
		{ID: "landing-a1", Name: "A1", Kind: models.NodeKindLanding, ParentID: "wing-a"},
		{ID: "landing-a2", Name: "A2", Kind: models.NodeKindLanding, ParentID: "wing-a"},
		{ID: "cell-a1-2", Name: "A1-02", Kind: models.NodeKindCell, ParentID: "landing-a1"},
		{ID: "cell-a1-1", Name: "A1-01", Kind: models.NodeKindCell, ParentID: "landing-a1"},
		{ID: "cell-a2-1", Name: "A2-01", Kind: models.NodeKindCell, ParentID: "landing-a2"},
		{ID: "yard", Name: "Yard", Kind: models.NodeKindYard, HasCoord: true, X: 30, Y: 40},
		{ID: "isolated", Name: "Isolated", Kind: models.NodeKindCell, HasCoord: true, X: 0, Y: 0},
	}
}

func testEdges() []models.LocationEdge {
	return []models.LocationEdge{
		{ID: "e1", FromID: "cell-a1-1", ToID: "cell-a1-2", Distance: 5, TravelSeconds: 6, Kind: models.EdgeKindCorridor, Bidirectional: true},
		{ID: "e2", FromID: "cell-a1-2", ToID: "cell-a2-1", Distance: 3, TravelSeconds: 4, Kind: models.EdgeKindStairwell, Bidirectional: true},
		{ID: "e3", FromID: "cell-a1-1", ToID: "cell-a2-1", Distance: 20, TravelSeconds: 25, Kind: models.EdgeKindCorridor, Bidirectional: true},
		{ID: "e4", FromID: "cell-a2-1", ToID: "yard", Distance: 12, TravelSeconds: 15, Kind: models.EdgeKindGated, Bidirectional: false},
	}
}

func TestDescendantsOfKind(t *testing.T) {
	g := New(testNodes(), testEdges())

	cells, err := g.DescendantsOfKind("wing-a", models.NodeKindCell)
	require.NoError(t, err)
	// Depth-first, children ordered by name: A1 landing before A2
	assert.Equal(t, []string{"cell-a1-1", "cell-a1-2", "cell-a2-1"}, cells)

	landings, err := g.DescendantsOfKind("wing-a", models.NodeKindLanding)
	require.NoError(t, err)
	assert.Equal(t, []string{"landing-a1", "landing-a2"}, landings)

	// A matching node includes itself
	self, err := g.DescendantsOfKind("cell-a2-1", models.NodeKindCell)
	require.NoError(t, err)
	assert.Equal(t, []string{"cell-a2-1"}, self)

	_, err = g.DescendantsOfKind("nope", models.NodeKindCell)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestNeighbors(t *testing.T) {
	g := New(testNodes(), testEdges())

	nbs, err := g.Neighbors("cell-a1-1")
	require.NoError(t, err)
	require.Len(t, nbs, 2)

	// One-way gate: yard has no way back
	nbs, err = g.Neighbors("yard")
	require.NoError(t, err)
	assert.Empty(t, nbs)

	// No connections is an empty list, not an error
	nbs, err = g.Neighbors("isolated")
	require.NoError(t, err)
	assert.Empty(t, nbs)

	_, err = g.Neighbors("nope")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestShortestPath(t *testing.T) {
	g := New(testNodes(), testEdges())

	// Via the stairwell beats the direct corridor (5+3 < 20)
	d, err := g.ShortestPath("cell-a1-1", "cell-a2-1")
	require.NoError(t, err)
	assert.Equal(t, 8.0, d)

	d, err = g.ShortestPath("cell-a1-1", "cell-a1-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)

	// Directed edge: reachable one way only
	_, err = g.ShortestPath("cell-a1-1", "yard")
	require.NoError(t, err)
	_, err = g.ShortestPath("yard", "cell-a1-1")
	assert.True(t, errors.Is(err, apperrors.ErrNoPath))

	_, err = g.ShortestPath("cell-a1-1", "isolated")
	assert.True(t, errors.Is(err, apperrors.ErrNoPath))
}

func TestPlanarDistance(t *testing.T) {
	g := New(testNodes(), testEdges())

	d, ok := g.PlanarDistance("isolated", "yard")
	require.True(t, ok)
	assert.InDelta(t, 50.0, d, 1e-9)

	// Nodes without coordinates have no estimate
	_, ok = g.PlanarDistance("cell-a1-1", "yard")
	assert.False(t, ok)
}
