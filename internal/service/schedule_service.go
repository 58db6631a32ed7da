package service

import (
	"context"
	"time"

	"github.com/jengzang/rollcall-backend-go/internal/apperrors"
	"github.com/jengzang/rollcall-backend-go/internal/models"
	"github.com/jengzang/rollcall-backend-go/internal/repository"
	"github.com/jengzang/rollcall-backend-go/internal/schedule"
)

// ScheduleService answers expected-presence queries from the timetable
type ScheduleService struct {
	schedules repository.ScheduleRepository
	resolver  *schedule.Resolver
}

// NewScheduleService creates a new schedule service
func NewScheduleService(schedules repository.ScheduleRepository) *ScheduleService {
	return &ScheduleService{schedules: schedules, resolver: schedule.NewResolver()}
}

// ExpectedAt resolves who is expected at the locations during the window on
// the given date. An empty result is valid, not an error.
func (s *ScheduleService) ExpectedAt(ctx context.Context, locationIDs []string, date time.Time, window models.TimeWindow) (*schedule.Result, error) {
	if !window.Valid() {
		return nil, apperrors.Validation("", "time window must be a same-day interval with start before end")
	}
	entries, err := s.schedules.ListForLocations(ctx, locationIDs)
	if err != nil {
		return nil, err
	}
	result := s.resolver.ExpectedAt(entries, locationIDs, date, window)
	return &result, nil
}

// ListEntries returns raw schedule entries with filtering
func (s *ScheduleService) ListEntries(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, error) {
	return s.schedules.List(ctx, filter)
}
