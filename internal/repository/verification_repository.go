package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/rollcall-backend-go/internal/apperrors"
	"github.com/jengzang/rollcall-backend-go/internal/models"
)

// SQLVerificationRepository handles database operations for verification records
type SQLVerificationRepository struct {
	db *sql.DB
}

// NewVerificationRepository creates a new verification repository
func NewVerificationRepository(db *sql.DB) *SQLVerificationRepository {
	return &SQLVerificationRepository{db: db}
}

// Create inserts a verification record. A second verified record for the
// same (session, person, location) trips the partial unique index and is
// reported as a duplicate, backing the aggregate's in-memory check across
// process restarts.
func (r *SQLVerificationRepository) Create(ctx context.Context, record *models.VerificationRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO verification_records (id, session_id, person_id, location_id, outcome, confidence, unexpected, manual_override, override_reason, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.SessionID, record.PersonID, record.LocationID, record.Outcome,
		record.Confidence, record.Unexpected, record.ManualOverride, record.OverrideReason,
		record.RecordedAt.Unix())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperrors.DuplicateVerification(record.PersonID,
				"person already verified at %s in session %s", record.LocationID, record.SessionID)
		}
		return fmt.Errorf("failed to insert verification record: %w", err)
	}
	return nil
}

// ListBySession retrieves a session's verification records in recording order
func (r *SQLVerificationRepository) ListBySession(ctx context.Context, sessionID string) ([]models.VerificationRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, person_id, location_id, outcome, confidence, unexpected, manual_override, override_reason, recorded_at
		FROM verification_records WHERE session_id = ? ORDER BY recorded_at, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query verification records: %w", err)
	}
	defer rows.Close()

	var records []models.VerificationRecord
	for rows.Next() {
		var rec models.VerificationRecord
		var recordedAt int64
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.PersonID, &rec.LocationID, &rec.Outcome,
			&rec.Confidence, &rec.Unexpected, &rec.ManualOverride, &rec.OverrideReason, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan verification record: %w", err)
		}
		rec.RecordedAt = time.Unix(recordedAt, 0).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}
