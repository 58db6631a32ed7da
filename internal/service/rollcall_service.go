package service

import (
	"context"
	"sync"
	"time"

	"github.com/jengzang/rollcall-backend-go/internal/models"
	"github.com/jengzang/rollcall-backend-go/internal/repository"
	"github.com/jengzang/rollcall-backend-go/internal/session"
)

// RollCallService drives live execution of roll-call sessions. Mutations on
// one session are serialized by its aggregate lock; independent sessions
// need no coordination.
type RollCallService struct {
	sessions      repository.SessionRepository
	verifications repository.VerificationRepository
	audit         repository.AuditRepository

	mu     sync.Mutex
	active map[string]*session.Aggregate
}

// NewRollCallService creates a new roll-call service
func NewRollCallService(sessions repository.SessionRepository, verifications repository.VerificationRepository, audit repository.AuditRepository) *RollCallService {
	return &RollCallService{
		sessions:      sessions,
		verifications: verifications,
		audit:         audit,
		active:        make(map[string]*session.Aggregate),
	}
}

// aggregate returns the cached aggregate for a session, loading it with its
// verification history so the duplicate-rejection invariant survives restarts
func (s *RollCallService) aggregate(ctx context.Context, sessionID string) (*session.Aggregate, error) {
	s.mu.Lock()
	if agg, ok := s.active[sessionID]; ok {
		s.mu.Unlock()
		return agg, nil
	}
	s.mu.Unlock()

	data, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	records, err := s.verifications.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if agg, ok := s.active[sessionID]; ok {
		return agg, nil
	}
	agg := session.New(*data, records)
	s.active[sessionID] = agg
	return agg, nil
}

// evict drops a cached aggregate so the next operation reloads persisted
// state; used when a write failed and memory may be ahead of the store
func (s *RollCallService) evict(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, sessionID)
}

func (s *RollCallService) persist(ctx context.Context, agg *session.Aggregate) error {
	snap := agg.Snapshot()
	if err := s.sessions.Update(ctx, &snap); err != nil {
		s.evict(snap.ID)
		return err
	}
	return nil
}

// Get returns the current session state
func (s *RollCallService) Get(ctx context.Context, sessionID string) (*models.RollCallSession, error) {
	agg, err := s.aggregate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snap := agg.Snapshot()
	return &snap, nil
}

// List returns sessions matching the filter
func (s *RollCallService) List(ctx context.Context, filter models.SessionFilter) ([]models.RollCallSession, error) {
	return s.sessions.List(ctx, filter)
}

// Start moves a pending session to in_progress
func (s *RollCallService) Start(ctx context.Context, actor Actor, sessionID string) (*models.RollCallSession, error) {
	agg, err := s.aggregate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := agg.Start(time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, agg); err != nil {
		return nil, err
	}
	if err := emitAudit(ctx, s.audit, actor, models.ActionSessionStarted, "session", sessionID, nil); err != nil {
		return nil, err
	}
	snap := agg.Snapshot()
	return &snap, nil
}

// RecordRequest is one verification attempt against a session
type RecordRequest struct {
	PersonID       string                     `json:"personId"`
	LocationID     string                     `json:"locationId"`
	Outcome        models.VerificationOutcome `json:"outcome"`
	Confidence     float64                    `json:"confidence"`
	ManualOverride bool                       `json:"manualOverride"`
	OverrideReason string                     `json:"overrideReason"`
	RecordedAt     time.Time                  `json:"recordedAt"` // zero means now
}

// RecordVerification validates, persists and applies one verification
// outcome. The record is written before the aggregate commits it, so a
// failed write leaves no in-memory state that replay could mistake for a
// duplicate. If the audit write fails after the record landed, the cached
// aggregate is evicted instead of committed, so the next operation reloads
// the persisted record rather than running with a stale verified set.
func (s *RollCallService) RecordVerification(ctx context.Context, actor Actor, sessionID string, req RecordRequest) (*models.VerificationRecord, error) {
	agg, err := s.aggregate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	recordedAt := req.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}
	rec, err := agg.PrepareVerification(session.RecordInput{
		PersonID:       req.PersonID,
		LocationID:     req.LocationID,
		Outcome:        req.Outcome,
		Confidence:     req.Confidence,
		ManualOverride: req.ManualOverride,
		OverrideReason: req.OverrideReason,
		RecordedAt:     recordedAt,
	})
	if err != nil {
		return nil, err
	}

	if err := s.verifications.Create(ctx, rec); err != nil {
		return nil, err
	}
	err = emitAudit(ctx, s.audit, actor, models.ActionVerificationRecorded, "verification", rec.ID, map[string]any{
		"sessionId":  sessionID,
		"personId":   rec.PersonID,
		"locationId": rec.LocationID,
		"outcome":    rec.Outcome,
		"confidence": rec.Confidence,
		"unexpected": rec.Unexpected,
	})
	if err != nil {
		s.evict(sessionID)
		return nil, err
	}
	agg.CommitVerification(*rec)
	return rec, nil
}

// AdvanceStop completes the current stop and moves to the next
func (s *RollCallService) AdvanceStop(ctx context.Context, actor Actor, sessionID string) (*models.RouteStop, error) {
	agg, err := s.aggregate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	stop, err := agg.AdvanceStop()
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, agg); err != nil {
		return nil, err
	}
	err = emitAudit(ctx, s.audit, actor, models.ActionStopAdvanced, "stop", stop.ID, map[string]any{
		"sessionId":  sessionID,
		"sequence":   stop.Sequence,
		"locationId": stop.LocationID,
	})
	if err != nil {
		return nil, err
	}
	return stop, nil
}

// SkipStop skips the current stop with a reason and moves to the next
func (s *RollCallService) SkipStop(ctx context.Context, actor Actor, sessionID, reason string) (*models.RouteStop, error) {
	agg, err := s.aggregate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	stop, err := agg.SkipStop(reason)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, agg); err != nil {
		return nil, err
	}
	err = emitAudit(ctx, s.audit, actor, models.ActionStopSkipped, "stop", stop.ID, map[string]any{
		"sessionId":  sessionID,
		"sequence":   stop.Sequence,
		"locationId": stop.LocationID,
		"reason":     reason,
	})
	if err != nil {
		return nil, err
	}
	return stop, nil
}

// Complete closes a session once every stop is completed or skipped
func (s *RollCallService) Complete(ctx context.Context, actor Actor, sessionID string) (*models.SessionSummary, error) {
	agg, err := s.aggregate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary, err := agg.Complete(time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, agg); err != nil {
		return nil, err
	}
	err = emitAudit(ctx, s.audit, actor, models.ActionSessionCompleted, "session", sessionID, map[string]any{
		"stopCount":     summary.StopCount,
		"verifiedCount": summary.VerifiedCount,
		"coverage":      summary.Coverage,
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Cancel aborts a pending or in-progress session
func (s *RollCallService) Cancel(ctx context.Context, actor Actor, sessionID, reason string) error {
	agg, err := s.aggregate(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := agg.Cancel(reason, time.Now().UTC()); err != nil {
		return err
	}
	if err := s.persist(ctx, agg); err != nil {
		return err
	}
	return emitAudit(ctx, s.audit, actor, models.ActionSessionCancelled, "session", sessionID, map[string]any{
		"reason": reason,
	})
}

// Progress reports processed vs total stops without blocking mutations
func (s *RollCallService) Progress(ctx context.Context, sessionID string) (*models.SessionProgress, error) {
	agg, err := s.aggregate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	p := agg.Progress()
	return &p, nil
}
