package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jengzang/rollcall-backend-go/internal/apperrors"
	"github.com/jengzang/rollcall-backend-go/internal/models"
)

// SQLLocationRepository handles database operations for location nodes and edges
type SQLLocationRepository struct {
	db *sql.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *sql.DB) *SQLLocationRepository {
	return &SQLLocationRepository{db: db}
}

// GetNodes retrieves all location nodes
func (r *SQLLocationRepository) GetNodes(ctx context.Context) ([]models.LocationNode, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, kind, COALESCE(parent_id, ''), has_coord, x, y
		FROM location_nodes ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query location nodes: %w", err)
	}
	defer rows.Close()

	var nodes []models.LocationNode
	for rows.Next() {
		var n models.LocationNode
		if err := rows.Scan(&n.ID, &n.Name, &n.Kind, &n.ParentID, &n.HasCoord, &n.X, &n.Y); err != nil {
			return nil, fmt.Errorf("failed to scan location node: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// GetEdges retrieves all walkable connections
func (r *SQLLocationRepository) GetEdges(ctx context.Context) ([]models.LocationEdge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, from_id, to_id, distance, travel_seconds, kind, bidirectional, escort_only
		FROM location_edges`)
	if err != nil {
		return nil, fmt.Errorf("failed to query location edges: %w", err)
	}
	defer rows.Close()

	var edges []models.LocationEdge
	for rows.Next() {
		var e models.LocationEdge
		if err := rows.Scan(&e.ID, &e.FromID, &e.ToID, &e.Distance, &e.TravelSeconds, &e.Kind, &e.Bidirectional, &e.EscortOnly); err != nil {
			return nil, fmt.Errorf("failed to scan location edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// GetNodeByID retrieves a single location node by ID
func (r *SQLLocationRepository) GetNodeByID(ctx context.Context, id string) (*models.LocationNode, error) {
	var n models.LocationNode
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, kind, COALESCE(parent_id, ''), has_coord, x, y
		FROM location_nodes WHERE id = ?`, id).
		Scan(&n.ID, &n.Name, &n.Kind, &n.ParentID, &n.HasCoord, &n.X, &n.Y)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound(id, "location node not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query location node: %w", err)
	}
	return &n, nil
}

// ListNodes retrieves location nodes with filtering
func (r *SQLLocationRepository) ListNodes(ctx context.Context, filter models.LocationFilter) ([]models.LocationNode, error) {
	query := `SELECT id, name, kind, COALESCE(parent_id, ''), has_coord, x, y FROM location_nodes`

	var conditions []string
	var args []interface{}
	if filter.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.ParentID != "" {
		conditions = append(conditions, "parent_id = ?")
		args = append(args, filter.ParentID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query location nodes: %w", err)
	}
	defer rows.Close()

	var nodes []models.LocationNode
	for rows.Next() {
		var n models.LocationNode
		if err := rows.Scan(&n.ID, &n.Name, &n.Kind, &n.ParentID, &n.HasCoord, &n.X, &n.Y); err != nil {
			return nil, fmt.Errorf("failed to scan location node: %w", err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}
