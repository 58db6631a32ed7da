// Package session implements the roll-call session aggregate: a generated
// route bound to live execution. Mutations are serialized by a per-aggregate
// lock; progress reads never block behind a reader.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/rollcall-backend-go/internal/apperrors"
	"github.com/jengzang/rollcall-backend-go/internal/models"
)

// Aggregate wraps a RollCallSession with its verification state and the
// lifecycle rules. One officer device mutates a session at a time; dashboard
// reads may run concurrently.
type Aggregate struct {
	mu       sync.RWMutex
	data     models.RollCallSession
	records  []models.VerificationRecord
	verified map[string]bool // personID|locationID pairs with a verified record
	expected map[string]map[string]bool
}

// New wraps a loaded session. Existing verification records must be passed
// so the duplicate-rejection invariant survives process restarts.
func New(data models.RollCallSession, records []models.VerificationRecord) *Aggregate {
	a := &Aggregate{
		data:     data,
		verified: make(map[string]bool),
		expected: make(map[string]map[string]bool),
	}
	for _, stop := range data.Stops {
		set := make(map[string]bool, len(stop.ExpectedPersons))
		for _, p := range stop.ExpectedPersons {
			set[p] = true
		}
		a.expected[stop.LocationID] = set
	}
	for _, rec := range records {
		a.records = append(a.records, rec)
		if rec.Outcome == models.OutcomeVerified || rec.Outcome == models.OutcomeWrongLocation {
			a.verified[pairKey(rec.PersonID, rec.LocationID)] = true
		}
	}
	return a
}

func pairKey(personID, locationID string) string {
	return personID + "|" + locationID
}

// ID returns the session id
func (a *Aggregate) ID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.data.ID
}

// Snapshot returns a copy of the session state for persistence or display
func (a *Aggregate) Snapshot() models.RollCallSession {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := a.data
	out.Stops = make([]models.RouteStop, len(a.data.Stops))
	copy(out.Stops, a.data.Stops)
	return out
}

// Start moves pending -> in_progress and marks the first stop in progress
func (a *Aggregate) Start(now time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.data.Status != models.SessionPending {
		return apperrors.InvalidTransition(a.data.ID, "cannot start session in status %s", a.data.Status)
	}
	a.data.Status = models.SessionInProgress
	a.data.StartedAt = &now
	if len(a.data.Stops) > 0 {
		a.data.Stops[0].Status = models.StopInProgress
	}
	return nil
}

// RecordInput is one verification attempt against the current session
type RecordInput struct {
	PersonID       string
	LocationID     string
	Outcome        models.VerificationOutcome
	Confidence     float64
	ManualOverride bool
	OverrideReason string
	RecordedAt     time.Time
}

// RecordVerification validates and records one verification outcome.
// A person absent from the stop's expected set is still recorded, flagged
// as unexpected presence; a roll call must capture who is present, not only
// confirm who was expected. A second verified record for the same
// (person, location) pair is rejected, never overwritten.
func (a *Aggregate) RecordVerification(in RecordInput) (*models.VerificationRecord, error) {
	rec, err := a.PrepareVerification(in)
	if err != nil {
		return nil, err
	}
	a.CommitVerification(*rec)
	return rec, nil
}

// PrepareVerification validates an attempt and builds the record without
// mutating aggregate state. Callers persist the record first and commit it
// here afterwards, so a failed write leaves no phantom in-memory state.
func (a *Aggregate) PrepareVerification(in RecordInput) (*models.VerificationRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.data.Status != models.SessionInProgress {
		return nil, apperrors.InvalidTransition(a.data.ID, "cannot record verification in status %s", a.data.Status)
	}
	if in.PersonID == "" || in.LocationID == "" {
		return nil, apperrors.Validation(a.data.ID, "person id and location id are required")
	}
	if in.ManualOverride && in.OverrideReason == "" {
		return nil, apperrors.Validation(a.data.ID, "manual override requires a reason")
	}

	stop := a.findStop(in.LocationID)
	if stop == nil {
		return nil, apperrors.NotFound(in.LocationID, "location is not a stop of this session")
	}
	if stop.Status == models.StopCompleted {
		return nil, apperrors.InvalidTransition(a.data.ID, "stop %s is already completed", in.LocationID)
	}

	if in.Outcome == models.OutcomeVerified && a.verified[pairKey(in.PersonID, in.LocationID)] {
		return nil, apperrors.DuplicateVerification(in.PersonID,
			"person already verified at %s in this session", in.LocationID)
	}

	rec := models.VerificationRecord{
		ID:             uuid.NewString(),
		SessionID:      a.data.ID,
		PersonID:       in.PersonID,
		LocationID:     in.LocationID,
		Outcome:        in.Outcome,
		Confidence:     in.Confidence,
		Unexpected:     !a.expected[in.LocationID][in.PersonID],
		ManualOverride: in.ManualOverride,
		OverrideReason: in.OverrideReason,
		RecordedAt:     in.RecordedAt,
	}
	if rec.Unexpected && rec.Outcome == models.OutcomeVerified {
		rec.Outcome = models.OutcomeWrongLocation
	}
	return &rec, nil
}

// CommitVerification applies a prepared record to the aggregate
func (a *Aggregate) CommitVerification(rec models.VerificationRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, rec)
	if rec.Outcome == models.OutcomeVerified || rec.Outcome == models.OutcomeWrongLocation {
		a.verified[pairKey(rec.PersonID, rec.LocationID)] = true
	}
}

// AdvanceStop marks the current stop completed and moves to the next one.
// Processing the last stop does not auto-complete the session.
func (a *Aggregate) AdvanceStop() (*models.RouteStop, error) {
	return a.closeCurrentStop(models.StopCompleted, "")
}

// SkipStop marks the current stop skipped with a reason and moves on
func (a *Aggregate) SkipStop(reason string) (*models.RouteStop, error) {
	if reason == "" {
		return nil, apperrors.Validation(a.ID(), "skip requires a reason")
	}
	return a.closeCurrentStop(models.StopSkipped, reason)
}

func (a *Aggregate) closeCurrentStop(status models.StopStatus, reason string) (*models.RouteStop, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.data.Status != models.SessionInProgress {
		return nil, apperrors.InvalidTransition(a.data.ID, "cannot advance stops in status %s", a.data.Status)
	}
	idx := a.currentStopIndex()
	if idx < 0 {
		return nil, apperrors.InvalidTransition(a.data.ID, "all stops already processed")
	}
	a.data.Stops[idx].Status = status
	a.data.Stops[idx].SkipReason = reason
	if idx+1 < len(a.data.Stops) {
		a.data.Stops[idx+1].Status = models.StopInProgress
	}
	closed := a.data.Stops[idx]
	return &closed, nil
}

// Complete moves in_progress -> completed once every stop is processed
func (a *Aggregate) Complete(now time.Time) (*models.SessionSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.data.Status != models.SessionInProgress {
		return nil, apperrors.InvalidTransition(a.data.ID, "cannot complete session in status %s", a.data.Status)
	}
	for _, stop := range a.data.Stops {
		if stop.Status != models.StopCompleted && stop.Status != models.StopSkipped {
			return nil, apperrors.IncompleteRoute(a.data.ID, "stop %d (%s) is %s", stop.Sequence, stop.LocationID, stop.Status)
		}
	}
	a.data.Status = models.SessionCompleted
	a.data.CompletedAt = &now

	summary := a.summary()
	return &summary, nil
}

// Cancel moves pending or in_progress -> cancelled at any stop progress.
// No further mutations are permitted afterwards.
func (a *Aggregate) Cancel(reason string, now time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if reason == "" {
		return apperrors.Validation(a.data.ID, "cancellation requires a reason")
	}
	if a.data.Status != models.SessionPending && a.data.Status != models.SessionInProgress {
		return apperrors.InvalidTransition(a.data.ID, "cannot cancel session in status %s", a.data.Status)
	}
	a.data.Status = models.SessionCancelled
	a.data.CancelledAt = &now
	a.data.CancelReason = reason
	return nil
}

// Progress reports processed vs total stops without blocking writers
func (a *Aggregate) Progress() models.SessionProgress {
	a.mu.RLock()
	defer a.mu.RUnlock()

	done := 0
	for _, stop := range a.data.Stops {
		if stop.Status == models.StopCompleted || stop.Status == models.StopSkipped {
			done++
		}
	}
	p := models.SessionProgress{Completed: done, Total: len(a.data.Stops)}
	if p.Total > 0 {
		p.Percentage = float64(done) / float64(p.Total) * 100
	}
	return p
}

// Records returns a copy of the verification records made so far
func (a *Aggregate) Records() []models.VerificationRecord {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]models.VerificationRecord, len(a.records))
	copy(out, a.records)
	return out
}

func (a *Aggregate) findStop(locationID string) *models.RouteStop {
	for i := range a.data.Stops {
		if a.data.Stops[i].LocationID == locationID {
			return &a.data.Stops[i]
		}
	}
	return nil
}

func (a *Aggregate) currentStopIndex() int {
	for i := range a.data.Stops {
		if a.data.Stops[i].Status == models.StopPending || a.data.Stops[i].Status == models.StopInProgress {
			return i
		}
	}
	return -1
}

func (a *Aggregate) summary() models.SessionSummary {
	s := models.SessionSummary{StopCount: len(a.data.Stops)}
	for _, stop := range a.data.Stops {
		s.ExpectedCount += len(stop.ExpectedPersons)
	}
	for _, rec := range a.records {
		if rec.Outcome == models.OutcomeVerified {
			s.VerifiedCount++
		}
	}
	if s.ExpectedCount > 0 {
		s.Coverage = float64(s.VerifiedCount) / float64(s.ExpectedCount)
	}
	return s
}
