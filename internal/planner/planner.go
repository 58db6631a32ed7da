// Package planner turns an area selection into an ordered roll-call route.
package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/jengzang/rollcall-backend-go/internal/apperrors"
	"github.com/jengzang/rollcall-backend-go/internal/locgraph"
	"github.com/jengzang/rollcall-backend-go/internal/models"
	"github.com/jengzang/rollcall-backend-go/internal/schedule"
)

// Stop is one planned visit before a session is persisted
type Stop struct {
	Sequence        int
	LocationID      string
	ExpectedPersons []string
}

// Route is the planner's output: ordered stops plus data-quality warnings
type Route struct {
	Stops         []Stop
	TotalDistance float64
	Warnings      []models.Warning
}

// Planner orders leaf cells into a walking route. Stop counts can reach
// hundreds, so ordering uses a nearest-neighbor pass followed by a 2-opt
// improvement sweep rather than exact TSP.
type Planner struct {
	graph    *locgraph.Graph
	resolver *schedule.Resolver
}

// New creates a planner over a graph view and a schedule resolver
func New(graph *locgraph.Graph, resolver *schedule.Resolver) *Planner {
	return &Planner{graph: graph, resolver: resolver}
}

// Generate expands the selected areas to visitable leaves, attaches expected
// occupants for the window, and orders the result. Leaves with no expected
// occupants are dropped unless includeEmptyCells is set.
func (p *Planner) Generate(selectedAreaIDs []string, entries []models.ScheduleEntry, date time.Time, window models.TimeWindow, includeEmptyCells bool) (*Route, error) {
	if len(selectedAreaIDs) == 0 {
		return nil, apperrors.EmptyRoute("no areas selected")
	}
	if !window.Valid() {
		return nil, apperrors.Validation("", "time window must be a same-day interval with start before end")
	}

	leaves, err := p.ExpandLeaves(selectedAreaIDs)
	if err != nil {
		return nil, err
	}
	if len(leaves) == 0 {
		return nil, apperrors.EmptyRoute("selected areas contain no visitable locations")
	}

	resolved := p.resolver.ExpectedAt(entries, leaves, date, window)
	warnings := resolved.Warnings

	var visit []string
	for _, leaf := range leaves {
		if len(resolved.Expected[leaf]) > 0 || includeEmptyCells {
			visit = append(visit, leaf)
		}
	}
	if len(visit) == 0 {
		return nil, apperrors.EmptyRoute("no expected occupants in the selected areas for this window")
	}

	ordered, total, orderWarnings := p.order(visit)
	warnings = append(warnings, orderWarnings...)

	stops := make([]Stop, len(ordered))
	for i, leaf := range ordered {
		stops[i] = Stop{
			Sequence:        i + 1,
			LocationID:      leaf,
			ExpectedPersons: resolved.Expected[leaf],
		}
	}

	return &Route{Stops: stops, TotalDistance: total, Warnings: warnings}, nil
}

// ExpandLeaves maps the selection to visitable leaf nodes, de-duplicating
// overlapping hierarchies (a wing and one of its landings both selected
// must not double-count the landing's cells). Exposed so callers can load
// schedule entries for exactly the leaves a selection covers.
func (p *Planner) ExpandLeaves(selectedAreaIDs []string) ([]string, error) {
	seen := make(map[string]bool)
	var leaves []string
	for _, areaID := range selectedAreaIDs {
		for kind := range models.VisitableKinds {
			ids, err := p.graph.DescendantsOfKind(areaID, kind)
			if err != nil {
				return nil, err
			}
			for _, id := range ids {
				if !seen[id] {
					seen[id] = true
					leaves = append(leaves, id)
				}
			}
		}
	}
	// Deterministic base order before route ordering: name then id
	sort.Slice(leaves, func(i, j int) bool {
		a, _ := p.graph.Node(leaves[i])
		b, _ := p.graph.Node(leaves[j])
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return leaves, nil
}

// order arranges the leaves by repeatedly walking to the nearest unvisited
// one, starting from the first leaf in base order, then applies a 2-opt
// improvement. Unreachable legs fall back to the planar straight-line distance
// (flagged), or to a large constant when coordinates are missing too.
func (p *Planner) order(leaves []string) ([]string, float64, []models.Warning) {
	if len(leaves) == 1 {
		return leaves, 0, nil
	}

	var warnings []models.Warning
	const unreachablePenalty = 1e6

	// Pairwise distance matrix from one Dijkstra pass per leaf
	dists := make(map[string]map[string]float64, len(leaves))
	for _, leaf := range leaves {
		d, err := p.graph.DistancesFrom(leaf)
		if err != nil {
			d = map[string]float64{}
		}
		dists[leaf] = d
	}

	flagged := make(map[string]bool)
	dist := func(a, b string) float64 {
		if d, ok := dists[a][b]; ok {
			return d
		}
		if d, ok := p.graph.PlanarDistance(a, b); ok {
			if !flagged[b] {
				flagged[b] = true
				warnings = append(warnings, models.Warning{
					Code:    models.WarnUnreachableLeaf,
					Subject: b,
					Message: fmt.Sprintf("no walkable path to %s, using straight-line estimate", b),
				})
			}
			return d
		}
		if !flagged[b] {
			flagged[b] = true
			warnings = append(warnings, models.Warning{
				Code:    models.WarnNoCoordinates,
				Subject: b,
				Message: fmt.Sprintf("no walkable path or coordinates for %s", b),
			})
		}
		return unreachablePenalty
	}

	// Nearest-neighbor pass
	ordered := make([]string, 0, len(leaves))
	visited := make(map[string]bool, len(leaves))
	current := leaves[0]
	ordered = append(ordered, current)
	visited[current] = true
	for len(ordered) < len(leaves) {
		best := ""
		bestDist := 0.0
		for _, candidate := range leaves {
			if visited[candidate] {
				continue
			}
			d := dist(current, candidate)
			if best == "" || d < bestDist {
				best = candidate
				bestDist = d
			}
		}
		ordered = append(ordered, best)
		visited[best] = true
		current = best
	}

	// 2-opt improvement: reverse segments while that shortens the walk.
	// Directed edges make the matrix asymmetric, so a reversal is costed
	// over every affected leg, the internal ones included, before it is
	// accepted.
	improved := true
	for improved {
		improved = false
		for i := 0; i < len(ordered)-2; i++ {
			for j := i + 2; j < len(ordered); j++ {
				if j == len(ordered)-1 && i == 0 {
					continue // open route, no wraparound leg
				}
				before := dist(ordered[i], ordered[i+1])
				after := dist(ordered[i], ordered[j])
				for k := i + 1; k < j; k++ {
					before += dist(ordered[k], ordered[k+1])
					after += dist(ordered[k+1], ordered[k])
				}
				if j+1 < len(ordered) {
					before += dist(ordered[j], ordered[j+1])
					after += dist(ordered[i+1], ordered[j+1])
				}
				if after < before {
					reverse(ordered[i+1 : j+1])
					improved = true
				}
			}
		}
	}

	total := 0.0
	for i := 0; i+1 < len(ordered); i++ {
		total += dist(ordered[i], ordered[i+1])
	}
	return ordered, total, warnings
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
