package locgraph

import (
	"container/heap"

	"github.com/jengzang/rollcall-backend-go/internal/apperrors"
)

type pqItem struct {
	nodeID string
	dist   float64
	index  int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int           { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// ShortestPath returns the minimum walking distance between two nodes over
// the adjacency graph. Edge weights are non-negative. Fails with a NoPath
// error when the destination is unreachable.
func (g *Graph) ShortestPath(from, to string) (float64, error) {
	if !g.Has(from) {
		return 0, apperrors.NotFound(from, "unknown location node")
	}
	if !g.Has(to) {
		return 0, apperrors.NotFound(to, "unknown location node")
	}
	if from == to {
		return 0, nil
	}

	dist := map[string]float64{from: 0}
	visited := make(map[string]bool)

	pq := priorityQueue{{nodeID: from, dist: 0}}
	heap.Init(&pq)

	for pq.Len() > 0 {
		cur := heap.Pop(&pq).(*pqItem)
		if visited[cur.nodeID] {
			continue
		}
		if cur.nodeID == to {
			return cur.dist, nil
		}
		visited[cur.nodeID] = true

		for _, nb := range g.adjacent[cur.nodeID] {
			if visited[nb.NodeID] {
				continue
			}
			next := cur.dist + nb.Distance
			if d, seen := dist[nb.NodeID]; !seen || next < d {
				dist[nb.NodeID] = next
				heap.Push(&pq, &pqItem{nodeID: nb.NodeID, dist: next})
			}
		}
	}

	return 0, apperrors.NoPath(to, "no path from %s to %s", from, to)
}

// DistancesFrom runs a single Dijkstra pass and returns distances from the
// source to every reachable node. Used by the planner to avoid repeated
// pairwise shortest-path queries.
func (g *Graph) DistancesFrom(from string) (map[string]float64, error) {
	if !g.Has(from) {
		return nil, apperrors.NotFound(from, "unknown location node")
	}

	dist := map[string]float64{from: 0}
	visited := make(map[string]bool)

	pq := priorityQueue{{nodeID: from, dist: 0}}
	heap.Init(&pq)

	for pq.Len() > 0 {
		cur := heap.Pop(&pq).(*pqItem)
		if visited[cur.nodeID] {
			continue
		}
		visited[cur.nodeID] = true

		for _, nb := range g.adjacent[cur.nodeID] {
			if visited[nb.NodeID] {
				continue
			}
			next := cur.dist + nb.Distance
			if d, seen := dist[nb.NodeID]; !seen || next < d {
				dist[nb.NodeID] = next
				heap.Push(&pq, &pqItem{nodeID: nb.NodeID, dist: next})
			}
		}
	}

	return dist, nil
}
