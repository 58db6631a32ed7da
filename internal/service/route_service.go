package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/rollcall-backend-go/internal/apperrors"
	"github.com/jengzang/rollcall-backend-go/internal/locgraph"
	"github.com/jengzang/rollcall-backend-go/internal/models"
	"github.com/jengzang/rollcall-backend-go/internal/planner"
	"github.com/jengzang/rollcall-backend-go/internal/repository"
	"github.com/jengzang/rollcall-backend-go/internal/schedule"
)

// RouteService turns an area selection into a persisted pending session
type RouteService struct {
	locations repository.LocationRepository
	schedules repository.ScheduleRepository
	sessions  repository.SessionRepository
	audit     repository.AuditRepository
}

// NewRouteService creates a new route service
func NewRouteService(locations repository.LocationRepository, schedules repository.ScheduleRepository, sessions repository.SessionRepository, audit repository.AuditRepository) *RouteService {
	return &RouteService{locations: locations, schedules: schedules, sessions: sessions, audit: audit}
}

// GenerateRequest selects what to visit and when
type GenerateRequest struct {
	Name              string   `json:"name"`
	SelectedAreaIDs   []string `json:"selectedAreaIds"`
	Date              string   `json:"date"` // YYYY-MM-DD, defaults to today
	StartMinute       int      `json:"startMinute"`
	EndMinute         int      `json:"endMinute"`
	IncludeEmptyCells bool     `json:"includeEmptyCells"`
}

// GenerateResult is the persisted session plus planning diagnostics
type GenerateResult struct {
	Session       models.RollCallSession `json:"session"`
	TotalDistance float64                `json:"totalDistance"`
	Warnings      []models.Warning       `json:"warnings,omitempty"`
}

// GenerateRoute plans a route for the selection and persists it as a
// pending roll-call session owning its stops
func (s *RouteService) GenerateRoute(ctx context.Context, actor Actor, req GenerateRequest) (*GenerateResult, error) {
	date := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, apperrors.Validation("", "invalid date %q, want YYYY-MM-DD", req.Date)
		}
		date = parsed
	}
	window := models.TimeWindow{StartMinute: req.StartMinute, EndMinute: req.EndMinute}

	nodes, err := s.locations.GetNodes(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := s.locations.GetEdges(ctx)
	if err != nil {
		return nil, err
	}
	graph := locgraph.New(nodes, edges)
	pl := planner.New(graph, schedule.NewResolver())

	leaves, err := pl.ExpandLeaves(req.SelectedAreaIDs)
	if err != nil {
		return nil, err
	}
	entries, err := s.schedules.ListForLocations(ctx, leaves)
	if err != nil {
		return nil, err
	}

	route, err := pl.Generate(req.SelectedAreaIDs, entries, date, window, req.IncludeEmptyCells)
	if err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = fmt.Sprintf("Roll call %s %02d:%02d", models.DateString(date), window.StartMinute/60, window.StartMinute%60)
	}
	sess := models.RollCallSession{
		ID:          uuid.NewString(),
		Name:        name,
		ScheduledAt: time.Now().UTC(),
		Status:      models.SessionPending,
	}
	for _, stop := range route.Stops {
		sess.Stops = append(sess.Stops, models.RouteStop{
			ID:              uuid.NewString(),
			SessionID:       sess.ID,
			Sequence:        stop.Sequence,
			LocationID:      stop.LocationID,
			ExpectedPersons: stop.ExpectedPersons,
			Status:          models.StopPending,
		})
	}

	if err := s.sessions.Create(ctx, &sess); err != nil {
		return nil, err
	}
	err = emitAudit(ctx, s.audit, actor, models.ActionRouteGenerated, "session", sess.ID, map[string]any{
		"stopCount":     len(sess.Stops),
		"areas":         req.SelectedAreaIDs,
		"totalDistance": route.TotalDistance,
	})
	if err != nil {
		return nil, err
	}

	return &GenerateResult{Session: sess, TotalDistance: route.TotalDistance, Warnings: route.Warnings}, nil
}
