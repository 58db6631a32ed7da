package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jengzang/rollcall-backend-go/internal/models"
)

// SQLScheduleRepository handles database operations for schedule entries
type SQLScheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db *sql.DB) *SQLScheduleRepository {
	return &SQLScheduleRepository{db: db}
}

const scheduleColumns = `id, person_id, location_id, day_of_week, start_minute, end_minute, activity, is_recurring, effective_date`

// ListForLocations retrieves every entry bound to one of the locations
func (r *SQLScheduleRepository) ListForLocations(ctx context.Context, locationIDs []string) ([]models.ScheduleEntry, error) {
	if len(locationIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(locationIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(locationIDs))
	for i, id := range locationIDs {
		args[i] = id
	}

	query := "SELECT " + scheduleColumns + " FROM schedule_entries WHERE location_id IN (" + placeholders + ")"
	return r.query(ctx, query, args...)
}

// List retrieves schedule entries with filtering
func (r *SQLScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, error) {
	query := "SELECT " + scheduleColumns + " FROM schedule_entries"

	var conditions []string
	var args []interface{}
	if filter.PersonID != "" {
		conditions = append(conditions, "person_id = ?")
		args = append(args, filter.PersonID)
	}
	if filter.LocationID != "" {
		conditions = append(conditions, "location_id = ?")
		args = append(args, filter.LocationID)
	}
	if filter.DayOfWeek != nil {
		conditions = append(conditions, "day_of_week = ?")
		args = append(args, *filter.DayOfWeek)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY day_of_week, start_minute"

	return r.query(ctx, query, args...)
}

func (r *SQLScheduleRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.ScheduleEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []models.ScheduleEntry
	for rows.Next() {
		var e models.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.PersonID, &e.LocationID, &e.DayOfWeek, &e.StartMinute, &e.EndMinute, &e.Activity, &e.IsRecurring, &e.EffectiveDate); err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
