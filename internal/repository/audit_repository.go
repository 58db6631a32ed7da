package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/rollcall-backend-go/internal/models"
)

// SQLAuditRepository is the append-only audit sink. Events are inserted,
// never updated or deleted.
type SQLAuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) *SQLAuditRepository {
	return &SQLAuditRepository{db: db}
}

// Append writes one audit event
func (r *SQLAuditRepository) Append(ctx context.Context, event *models.AuditEvent) error {
	detail, err := json.Marshal(event.Detail)
	if err != nil {
		return fmt.Errorf("failed to encode audit detail: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, timestamp, actor_id, action, subject_type, subject_id, detail, origin)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Timestamp.Unix(), event.ActorID, event.Action,
		event.SubjectType, event.SubjectID, string(detail), event.Origin)
	if err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}
	return nil
}

// List retrieves audit events with filtering, newest first
func (r *SQLAuditRepository) List(ctx context.Context, filter models.AuditFilter, limit int) ([]models.AuditEvent, error) {
	query := `SELECT id, timestamp, actor_id, action, subject_type, subject_id, detail, origin FROM audit_events`

	var conditions []string
	var args []interface{}
	if filter.ActorID != "" {
		conditions = append(conditions, "actor_id = ?")
		args = append(args, filter.ActorID)
	}
	if filter.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, filter.Action)
	}
	if filter.SubjectType != "" {
		conditions = append(conditions, "subject_type = ?")
		args = append(args, filter.SubjectType)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, "subject_id = ?")
		args = append(args, filter.SubjectID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC, id DESC"
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []models.AuditEvent
	for rows.Next() {
		var e models.AuditEvent
		var ts int64
		var detail string
		if err := rows.Scan(&e.ID, &ts, &e.ActorID, &e.Action, &e.SubjectType, &e.SubjectID, &detail, &e.Origin); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		e.Timestamp = time.Unix(ts, 0).UTC()
		if err := json.Unmarshal([]byte(detail), &e.Detail); err != nil {
			return nil, fmt.Errorf("failed to decode audit detail: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
