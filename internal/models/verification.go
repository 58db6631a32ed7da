package models

import "time"

// VerificationOutcome is the persisted result of one identity check
type VerificationOutcome string

const (
	OutcomeVerified      VerificationOutcome = "verified"
	OutcomeNotFound      VerificationOutcome = "not_found"
	OutcomeWrongLocation VerificationOutcome = "wrong_location"
	OutcomeManual        VerificationOutcome = "manual"
)

// VerificationRecord is one recorded identity-confirmation outcome.
// At most one verified record may exist per (session, person, location).
type VerificationRecord struct {
	ID             string              `json:"id" db:"id"`
	SessionID      string              `json:"sessionId" db:"session_id"`
	PersonID       string              `json:"personId" db:"person_id"`
	LocationID     string              `json:"locationId" db:"location_id"`
	Outcome        VerificationOutcome `json:"outcome" db:"outcome"`
	Confidence     float64             `json:"confidence" db:"confidence"` // 0.0 - 1.0
	Unexpected     bool                `json:"unexpected" db:"unexpected"` // person was not in the stop's expected set
	ManualOverride bool                `json:"manualOverride" db:"manual_override"`
	OverrideReason string              `json:"overrideReason,omitempty" db:"override_reason"` // required when ManualOverride is set
	RecordedAt     time.Time           `json:"recordedAt" db:"recorded_at"`
}

// VerificationFilter represents filter parameters for querying verification records
type VerificationFilter struct {
	SessionID  string `form:"sessionId"`
	PersonID   string `form:"personId"`
	LocationID string `form:"locationId"`
	Outcome    string `form:"outcome"`
}
