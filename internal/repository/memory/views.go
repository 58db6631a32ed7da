package memory

import (
	"context"

	"github.com/jengzang/rollcall-backend-go/internal/models"
)

// The Store satisfies LocationRepository and PersonRepository directly.
// The remaining interfaces reuse method names (Create, List, ...) for
// different entities, so they are exposed as narrow views over the store.

// ScheduleRepo adapts the store to repository.ScheduleRepository
type ScheduleRepo struct{ s *Store }

// Schedule returns the schedule repository view
func (s *Store) Schedule() *ScheduleRepo { return &ScheduleRepo{s: s} }

// ListForLocations returns entries bound to the locations
func (r *ScheduleRepo) ListForLocations(ctx context.Context, locationIDs []string) ([]models.ScheduleEntry, error) {
	return r.s.ListForLocations(ctx, locationIDs)
}

// List returns entries matching the filter
func (r *ScheduleRepo) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, error) {
	return r.s.ListSchedule(ctx, filter)
}

// SessionRepo adapts the store to repository.SessionRepository
type SessionRepo struct{ s *Store }

// Sessions returns the session repository view
func (s *Store) Sessions() *SessionRepo { return &SessionRepo{s: s} }

// Create persists a session with its stops
func (r *SessionRepo) Create(ctx context.Context, session *models.RollCallSession) error {
	return r.s.CreateSession(ctx, session)
}

// GetByID returns a session copy
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*models.RollCallSession, error) {
	return r.s.GetSessionByID(ctx, id)
}

// Update rewrites a stored session
func (r *SessionRepo) Update(ctx context.Context, session *models.RollCallSession) error {
	return r.s.UpdateSession(ctx, session)
}

// List returns sessions matching the filter
func (r *SessionRepo) List(ctx context.Context, filter models.SessionFilter) ([]models.RollCallSession, error) {
	return r.s.ListSessions(ctx, filter)
}

// VerificationRepo adapts the store to repository.VerificationRepository
type VerificationRepo struct{ s *Store }

// Verifications returns the verification repository view
func (s *Store) Verifications() *VerificationRepo { return &VerificationRepo{s: s} }

// Create appends a record, enforcing the verified-uniqueness rule
func (r *VerificationRepo) Create(ctx context.Context, record *models.VerificationRecord) error {
	return r.s.CreateVerification(ctx, record)
}

// ListBySession returns a session's records in recording order
func (r *VerificationRepo) ListBySession(ctx context.Context, sessionID string) ([]models.VerificationRecord, error) {
	return r.s.ListBySession(ctx, sessionID)
}

// AuditRepo adapts the store to repository.AuditRepository
type AuditRepo struct{ s *Store }

// Audit returns the audit repository view
func (s *Store) Audit() *AuditRepo { return &AuditRepo{s: s} }

// Append stores one audit event
func (r *AuditRepo) Append(ctx context.Context, event *models.AuditEvent) error {
	return r.s.Append(ctx, event)
}

// List returns matching audit events, newest first
func (r *AuditRepo) List(ctx context.Context, filter models.AuditFilter, limit int) ([]models.AuditEvent, error) {
	return r.s.ListAudit(ctx, filter, limit)
}
