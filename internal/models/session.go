package models

import "time"

// SessionStatus is the roll-call session lifecycle state
type SessionStatus string

const (
	SessionPending    SessionStatus = "pending"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
)

// StopStatus is the per-stop progress state within a session
type StopStatus string

const (
	StopPending    StopStatus = "pending"
	StopInProgress StopStatus = "in_progress"
	StopCompleted  StopStatus = "completed"
	StopSkipped    StopStatus = "skipped"
)

// RouteStop is one scheduled visit to a leaf location within a roll call route
type RouteStop struct {
	ID              string     `json:"id" db:"id"`
	SessionID       string     `json:"sessionId" db:"session_id"`
	Sequence        int        `json:"sequence" db:"sequence"` // 1-based, contiguous
	LocationID      string     `json:"locationId" db:"location_id"`
	ExpectedPersons []string   `json:"expectedPersons" db:"-"` // ordered person ids
	Status          StopStatus `json:"status" db:"status"`
	SkipReason      string     `json:"skipReason,omitempty" db:"skip_reason"`
}

// RollCallSession binds a generated route to live execution
type RollCallSession struct {
	ID           string        `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	ScheduledAt  time.Time     `json:"scheduledAt" db:"scheduled_at"`
	Status       SessionStatus `json:"status" db:"status"`
	Stops        []RouteStop   `json:"stops" db:"-"`
	StartedAt    *time.Time    `json:"startedAt,omitempty" db:"started_at"`
	CompletedAt  *time.Time    `json:"completedAt,omitempty" db:"completed_at"`
	CancelledAt  *time.Time    `json:"cancelledAt,omitempty" db:"cancelled_at"`
	CancelReason string        `json:"cancelReason,omitempty" db:"cancel_reason"`
	Notes        string        `json:"notes,omitempty" db:"notes"`
}

// SessionProgress is the read-only progress view consumed by dashboards
type SessionProgress struct {
	Completed  int     `json:"completed"` // stops completed or skipped
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// SessionSummary is emitted with the completion audit event
type SessionSummary struct {
	StopCount     int     `json:"stopCount"`
	VerifiedCount int     `json:"verifiedCount"`
	ExpectedCount int     `json:"expectedCount"`
	Coverage      float64 `json:"coverage"` // verified / expected, 0..1
}

// SessionFilter represents filter parameters for querying sessions
type SessionFilter struct {
	Status string `form:"status"`
}
