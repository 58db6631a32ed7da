package repository

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/jengzang/rollcall-backend-go/internal/apperrors"
	"github.com/jengzang/rollcall-backend-go/internal/facematch"
	"github.com/jengzang/rollcall-backend-go/internal/models"
)

// SQLPersonRepository handles database operations for persons and their
// enrolled face templates
type SQLPersonRepository struct {
	db *sql.DB
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(db *sql.DB) *SQLPersonRepository {
	return &SQLPersonRepository{db: db}
}

// GetByID retrieves a single person by ID
func (r *SQLPersonRepository) GetByID(ctx context.Context, id string) (*models.Person, error) {
	var p models.Person
	err := r.db.QueryRowContext(ctx, `
		SELECT id, number, first_name, last_name, COALESCE(home_location_id, ''), enrolled
		FROM persons WHERE id = ?`, id).
		Scan(&p.ID, &p.Number, &p.FirstName, &p.LastName, &p.HomeLocationID, &p.Enrolled)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(id, "person not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query person: %w", err)
	}
	return &p, nil
}

// List retrieves persons with filtering
func (r *SQLPersonRepository) List(ctx context.Context, filter models.PersonFilter) ([]models.Person, error) {
	query := `SELECT id, number, first_name, last_name, COALESCE(home_location_id, ''), enrolled FROM persons`

	var conditions []string
	var args []interface{}
	if filter.HomeLocationID != "" {
		conditions = append(conditions, "home_location_id = ?")
		args = append(args, filter.HomeLocationID)
	}
	if filter.Enrolled != nil {
		conditions = append(conditions, "enrolled = ?")
		args = append(args, *filter.Enrolled)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY last_name, first_name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query persons: %w", err)
	}
	defer rows.Close()

	var persons []models.Person
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.Number, &p.FirstName, &p.LastName, &p.HomeLocationID, &p.Enrolled); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

// GetTemplates retrieves enrolled face templates for a set of persons
func (r *SQLPersonRepository) GetTemplates(ctx context.Context, personIDs []string) ([]facematch.Template, error) {
	if len(personIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(personIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(personIDs))
	for i, id := range personIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT person_id, embedding FROM face_templates WHERE person_id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query face templates: %w", err)
	}
	defer rows.Close()

	var templates []facematch.Template
	for rows.Next() {
		var personID string
		var blob []byte
		if err := rows.Scan(&personID, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan face template: %w", err)
		}
		templates = append(templates, facematch.Template{
			PersonID:  personID,
			Embedding: decodeEmbedding(blob),
		})
	}
	return templates, rows.Err()
}

// Embeddings are stored as little-endian float32 blobs
func decodeEmbedding(blob []byte) []float32 {
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vec[i] = math.Float32frombits(bits)
	}
	return vec
}

// EncodeEmbedding serializes a vector for storage, the inverse of the
// template scan above. Exposed for enrollment tooling.
func EncodeEmbedding(vec []float32) []byte {
	blob := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}
