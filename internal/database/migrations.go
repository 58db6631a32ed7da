package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations are applied in order inside transactions. SQL lives in the
// binary so deployments need no migrations directory.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_location_tables",
		SQL: `
			CREATE TABLE IF NOT EXISTS location_nodes (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				kind TEXT NOT NULL,
				parent_id TEXT,
				has_coord INTEGER NOT NULL DEFAULT 0,
				x REAL NOT NULL DEFAULT 0,
				y REAL NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_location_nodes_parent ON location_nodes(parent_id);

			CREATE TABLE IF NOT EXISTS location_edges (
				id TEXT PRIMARY KEY,
				from_id TEXT NOT NULL REFERENCES location_nodes(id),
				to_id TEXT NOT NULL REFERENCES location_nodes(id),
				distance REAL NOT NULL,
				travel_seconds REAL NOT NULL,
				kind TEXT NOT NULL,
				bidirectional INTEGER NOT NULL DEFAULT 1,
				escort_only INTEGER NOT NULL DEFAULT 0,
				CHECK (from_id <> to_id)
			);
		`,
	},
	{
		Version: 2,
		Name:    "create_person_tables",
		SQL: `
			CREATE TABLE IF NOT EXISTS persons (
				id TEXT PRIMARY KEY,
				number TEXT NOT NULL,
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				home_location_id TEXT,
				enrolled INTEGER NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_persons_home ON persons(home_location_id);

			CREATE TABLE IF NOT EXISTS face_templates (
				id TEXT PRIMARY KEY,
				person_id TEXT NOT NULL REFERENCES persons(id),
				embedding BLOB NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_face_templates_person ON face_templates(person_id);
		`,
	},
	{
		Version: 3,
		Name:    "create_schedule_entries",
		SQL: `
			CREATE TABLE IF NOT EXISTS schedule_entries (
				id TEXT PRIMARY KEY,
				person_id TEXT NOT NULL REFERENCES persons(id),
				location_id TEXT NOT NULL REFERENCES location_nodes(id),
				day_of_week INTEGER NOT NULL,
				start_minute INTEGER NOT NULL,
				end_minute INTEGER NOT NULL,
				activity TEXT NOT NULL DEFAULT '',
				is_recurring INTEGER NOT NULL DEFAULT 1,
				effective_date TEXT NOT NULL DEFAULT '',
				CHECK (start_minute < end_minute)
			);
			CREATE INDEX IF NOT EXISTS idx_schedule_location ON schedule_entries(location_id);
			CREATE INDEX IF NOT EXISTS idx_schedule_person ON schedule_entries(person_id);
		`,
	},
	{
		Version: 4,
		Name:    "create_session_tables",
		SQL: `
			CREATE TABLE IF NOT EXISTS roll_call_sessions (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				scheduled_at INTEGER NOT NULL,
				status TEXT NOT NULL,
				started_at INTEGER,
				completed_at INTEGER,
				cancelled_at INTEGER,
				cancel_reason TEXT NOT NULL DEFAULT '',
				notes TEXT NOT NULL DEFAULT ''
			);

			CREATE TABLE IF NOT EXISTS route_stops (
				id TEXT PRIMARY KEY,
				session_id TEXT NOT NULL REFERENCES roll_call_sessions(id),
				sequence INTEGER NOT NULL,
				location_id TEXT NOT NULL,
				expected_persons TEXT NOT NULL DEFAULT '[]',
				status TEXT NOT NULL,
				skip_reason TEXT NOT NULL DEFAULT '',
				UNIQUE (session_id, sequence)
			);
			CREATE INDEX IF NOT EXISTS idx_route_stops_session ON route_stops(session_id);
		`,
	},
	{
		Version: 5,
		Name:    "create_verification_records",
		SQL: `
			CREATE TABLE IF NOT EXISTS verification_records (
				id TEXT PRIMARY KEY,
				session_id TEXT NOT NULL REFERENCES roll_call_sessions(id),
				person_id TEXT NOT NULL,
				location_id TEXT NOT NULL,
				outcome TEXT NOT NULL,
				confidence REAL NOT NULL DEFAULT 0,
				unexpected INTEGER NOT NULL DEFAULT 0,
				manual_override INTEGER NOT NULL DEFAULT 0,
				override_reason TEXT NOT NULL DEFAULT '',
				recorded_at INTEGER NOT NULL
			);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_verification_unique_verified
				ON verification_records(session_id, person_id, location_id)
				WHERE outcome = 'verified';
			CREATE INDEX IF NOT EXISTS idx_verification_session ON verification_records(session_id);
		`,
	},
	{
		Version: 6,
		Name:    "create_audit_events",
		SQL: `
			CREATE TABLE IF NOT EXISTS audit_events (
				id TEXT PRIMARY KEY,
				timestamp INTEGER NOT NULL,
				actor_id TEXT NOT NULL,
				action TEXT NOT NULL,
				subject_type TEXT NOT NULL,
				subject_id TEXT NOT NULL,
				detail TEXT NOT NULL DEFAULT '{}',
				origin TEXT NOT NULL DEFAULT ''
			);
			CREATE INDEX IF NOT EXISTS idx_audit_subject ON audit_events(subject_type, subject_id);
		`,
	},
	{
		Version: 7,
		Name:    "create_pending_verifications",
		SQL: `
			CREATE TABLE IF NOT EXISTS pending_verifications (
				token TEXT PRIMARY KEY,
				session_id TEXT NOT NULL,
				payload TEXT NOT NULL,
				recorded_at INTEGER NOT NULL,
				enqueued_at INTEGER NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_pending_session ON pending_verifications(session_id);
		`,
	},
}

// Migrate applies all outstanding migrations in version order
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		log.Printf("Applied migration %d: %s", m.Version, m.Name)
	}
	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedVersions(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func applyMigration(db *sql.DB, m Migration) error {
	return Transaction(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(m.SQL); err != nil {
			return err
		}
		_, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name)
		return err
	})
}
