// Package locgraph provides a read-only view over the facility's spatial
// layout. Containment (parent pointers) and adjacency (walkable connections)
// are kept as two independent relations: "is-inside" answers tree traversal
// queries, "is-adjacent-to" answers shortest-path queries.
package locgraph

import (
	"sort"

	"github.com/golang/geo/r2"

	"github.com/jengzang/rollcall-backend-go/internal/apperrors"
	"github.com/jengzang/rollcall-backend-go/internal/models"
)

// Neighbor is one outgoing connection from a node
type Neighbor struct {
	NodeID        string
	Distance      float64
	TravelSeconds float64
}

// Graph is an immutable index over location nodes and edges.
// Nodes are arena-indexed by id; no raw pointers cross the API.
type Graph struct {
	nodes    map[string]models.LocationNode
	children map[string][]string // parent id -> child ids, sorted by (name, id)
	adjacent map[string][]Neighbor
}

// New builds a graph index from externally persisted nodes and edges.
// Edges with a false bidirectional flag contribute a single direction.
func New(nodes []models.LocationNode, edges []models.LocationEdge) *Graph {
	g := &Graph{
		nodes:    make(map[string]models.LocationNode, len(nodes)),
		children: make(map[string][]string),
		adjacent: make(map[string][]Neighbor),
	}
	for _, n := range nodes {
		g.nodes[n.ID] = n
	}
	for _, n := range nodes {
		if n.ParentID != "" {
			g.children[n.ParentID] = append(g.children[n.ParentID], n.ID)
		}
	}
	// Deterministic traversal order: name then id
	for parent, ids := range g.children {
		sort.Slice(ids, func(i, j int) bool {
			a, b := g.nodes[ids[i]], g.nodes[ids[j]]
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		})
		g.children[parent] = ids
	}
	for _, e := range edges {
		g.adjacent[e.FromID] = append(g.adjacent[e.FromID], Neighbor{
			NodeID:        e.ToID,
			Distance:      e.Distance,
			TravelSeconds: e.TravelSeconds,
		})
		if e.Bidirectional {
			g.adjacent[e.ToID] = append(g.adjacent[e.ToID], Neighbor{
				NodeID:        e.FromID,
				Distance:      e.Distance,
				TravelSeconds: e.TravelSeconds,
			})
		}
	}
	return g
}

// Node returns the node for an id
func (g *Graph) Node(id string) (models.LocationNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Has reports whether the node exists
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// DescendantsOfKind returns ids of all descendants of nodeID with the given
// kind, depth-first, in deterministic (name, id) order. The node itself is
// included when it matches.
func (g *Graph) DescendantsOfKind(nodeID string, kind models.NodeKind) ([]string, error) {
	if !g.Has(nodeID) {
		return nil, apperrors.NotFound(nodeID, "unknown location node")
	}
	var out []string
	var walk func(id string)
	walk = func(id string) {
		if n := g.nodes[id]; n.Kind == kind {
			out = append(out, id)
		}
		for _, child := range g.children[id] {
			walk(child)
		}
	}
	walk(nodeID)
	return out, nil
}

// Neighbors returns the outgoing connections of a node. A node with no
// connections yields an empty list, not an error.
func (g *Graph) Neighbors(nodeID string) ([]Neighbor, error) {
	if !g.Has(nodeID) {
		return nil, apperrors.NotFound(nodeID, "unknown location node")
	}
	return g.adjacent[nodeID], nil
}

// PlanarDistance returns the straight-line distance between two nodes'
// planar coordinates, used only as a fallback estimate when the adjacency
// graph cannot connect them. The second return is false when either node
// lacks coordinates.
func (g *Graph) PlanarDistance(a, b string) (float64, bool) {
	na, okA := g.nodes[a]
	nb, okB := g.nodes[b]
	if !okA || !okB || !na.HasCoord || !nb.HasCoord {
		return 0, false
	}
	pa := r2.Point{X: na.X, Y: na.Y}
	pb := r2.Point{X: nb.X, Y: nb.Y}
	return pa.Sub(pb).Norm(), true
}
