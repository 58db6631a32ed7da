package models

import "time"

// AuditAction tags what a mutating operation did
type AuditAction string

const (
	ActionRouteGenerated       AuditAction = "route.generated"
	ActionSessionStarted       AuditAction = "session.started"
	ActionSessionCompleted     AuditAction = "session.completed"
	ActionSessionCancelled     AuditAction = "session.cancelled"
	ActionStopAdvanced         AuditAction = "stop.advanced"
	ActionStopSkipped          AuditAction = "stop.skipped"
	ActionVerificationRecorded AuditAction = "verification.recorded"
)

// AuditEvent is an append-only record of a mutating operation.
// Events are never updated or deleted.
type AuditEvent struct {
	ID          string         `json:"id" db:"id"`
	Timestamp   time.Time      `json:"timestamp" db:"timestamp"`
	ActorID     string         `json:"actorId" db:"actor_id"`
	Action      AuditAction    `json:"action" db:"action"`
	SubjectType string         `json:"subjectType" db:"subject_type"`
	SubjectID   string         `json:"subjectId" db:"subject_id"`
	Detail      map[string]any `json:"detail,omitempty" db:"-"`      // stored as JSON
	Origin      string         `json:"origin,omitempty" db:"origin"` // client IP / agent where available
}

// AuditFilter represents filter parameters for querying audit events
type AuditFilter struct {
	ActorID     string `form:"actorId"`
	Action      string `form:"action"`
	SubjectType string `form:"subjectType"`
	SubjectID   string `form:"subjectId"`
}
