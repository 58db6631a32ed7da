package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jengzang/rollcall-backend-go/internal/apperrors"
	"github.com/jengzang/rollcall-backend-go/internal/database"
	"github.com/jengzang/rollcall-backend-go/internal/models"
)

// SQLSessionRepository handles database operations for roll-call sessions
// and their route stops
type SQLSessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB) *SQLSessionRepository {
	return &SQLSessionRepository{db: db}
}

// Create persists a session together with its stops
func (r *SQLSessionRepository) Create(ctx context.Context, session *models.RollCallSession) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO roll_call_sessions (id, name, scheduled_at, status, started_at, completed_at, cancelled_at, cancel_reason, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			session.ID, session.Name, session.ScheduledAt.Unix(), session.Status,
			unixOrNil(session.StartedAt), unixOrNil(session.CompletedAt), unixOrNil(session.CancelledAt),
			session.CancelReason, session.Notes)
		if err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}
		for _, stop := range session.Stops {
			if err := insertStop(ctx, tx, stop); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a session and its stops in sequence order
func (r *SQLSessionRepository) GetByID(ctx context.Context, id string) (*models.RollCallSession, error) {
	var s models.RollCallSession
	var scheduledAt int64
	var startedAt, completedAt, cancelledAt sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, scheduled_at, status, started_at, completed_at, cancelled_at, cancel_reason, notes
		FROM roll_call_sessions WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &scheduledAt, &s.Status, &startedAt, &completedAt, &cancelledAt, &s.CancelReason, &s.Notes)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(id, "session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	s.ScheduledAt = time.Unix(scheduledAt, 0).UTC()
	s.StartedAt = timeOrNil(startedAt)
	s.CompletedAt = timeOrNil(completedAt)
	s.CancelledAt = timeOrNil(cancelledAt)

	stops, err := r.stopsForSession(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Stops = stops
	return &s, nil
}

// Update rewrites the session row and the status of each stop
func (r *SQLSessionRepository) Update(ctx context.Context, session *models.RollCallSession) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE roll_call_sessions
			SET status = ?, started_at = ?, completed_at = ?, cancelled_at = ?, cancel_reason = ?, notes = ?
			WHERE id = ?`,
			session.Status, unixOrNil(session.StartedAt), unixOrNil(session.CompletedAt),
			unixOrNil(session.CancelledAt), session.CancelReason, session.Notes, session.ID)
		if err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperrors.NotFound(session.ID, "session not found")
		}
		for _, stop := range session.Stops {
			_, err := tx.ExecContext(ctx,
				"UPDATE route_stops SET status = ?, skip_reason = ? WHERE id = ?",
				stop.Status, stop.SkipReason, stop.ID)
			if err != nil {
				return fmt.Errorf("failed to update stop %s: %w", stop.ID, err)
			}
		}
		return nil
	})
}

// List retrieves sessions (without stops) with filtering
func (r *SQLSessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.RollCallSession, error) {
	query := `SELECT id, name, scheduled_at, status, started_at, completed_at, cancelled_at, cancel_reason, notes
		FROM roll_call_sessions`
	var args []interface{}
	if filter.Status != "" {
		query += " WHERE status = ?"
		args = append(args, filter.Status)
	}
	query += " ORDER BY scheduled_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.RollCallSession
	for rows.Next() {
		var s models.RollCallSession
		var scheduledAt int64
		var startedAt, completedAt, cancelledAt sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Name, &scheduledAt, &s.Status, &startedAt, &completedAt, &cancelledAt, &s.CancelReason, &s.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		s.ScheduledAt = time.Unix(scheduledAt, 0).UTC()
		s.StartedAt = timeOrNil(startedAt)
		s.CompletedAt = timeOrNil(completedAt)
		s.CancelledAt = timeOrNil(cancelledAt)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *SQLSessionRepository) stopsForSession(ctx context.Context, sessionID string) ([]models.RouteStop, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_id, sequence, location_id, expected_persons, status, skip_reason
		FROM route_stops WHERE session_id = ? ORDER BY sequence`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query route stops: %w", err)
	}
	defer rows.Close()

	var stops []models.RouteStop
	for rows.Next() {
		var stop models.RouteStop
		var expected string
		if err := rows.Scan(&stop.ID, &stop.SessionID, &stop.Sequence, &stop.LocationID, &expected, &stop.Status, &stop.SkipReason); err != nil {
			return nil, fmt.Errorf("failed to scan route stop: %w", err)
		}
		if err := json.Unmarshal([]byte(expected), &stop.ExpectedPersons); err != nil {
			return nil, fmt.Errorf("failed to decode expected persons for stop %s: %w", stop.ID, err)
		}
		stops = append(stops, stop)
	}
	return stops, rows.Err()
}

func insertStop(ctx context.Context, tx *sql.Tx, stop models.RouteStop) error {
	expected, err := json.Marshal(stop.ExpectedPersons)
	if err != nil {
		return fmt.Errorf("failed to encode expected persons: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO route_stops (id, session_id, sequence, location_id, expected_persons, status, skip_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stop.ID, stop.SessionID, stop.Sequence, stop.LocationID, string(expected), stop.Status, stop.SkipReason)
	if err != nil {
		return fmt.Errorf("failed to insert stop %d: %w", stop.Sequence, err)
	}
	return nil
}

func unixOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func timeOrNil(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}
