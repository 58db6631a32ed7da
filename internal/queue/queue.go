// Package queue holds verification attempts made while the persistence
// layer is unreachable and replays them once connectivity returns. Items
// are keyed by a client-generated idempotency token; replay is at-least-once
// and relies on the duplicate-rejection invariant for idempotent application.
package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/rollcall-backend-go/internal/apperrors"
	"github.com/jengzang/rollcall-backend-go/internal/models"
)

// Item is one queued verification attempt
type Item struct {
	Token          string                     `json:"token"`
	SessionID      string                     `json:"sessionId"`
	PersonID       string                     `json:"personId"`
	LocationID     string                     `json:"locationId"`
	Outcome        models.VerificationOutcome `json:"outcome"`
	Confidence     float64                    `json:"confidence"`
	ManualOverride bool                       `json:"manualOverride"`
	OverrideReason string                     `json:"overrideReason,omitempty"`
	RecordedAt     time.Time                  `json:"recordedAt"`
}

// Queue is a durable local backlog in the sqlite pending_verifications table
type Queue struct {
	db *sql.DB
}

// New creates a queue over an opened database
func New(db *sql.DB) *Queue {
	return &Queue{db: db}
}

// Enqueue stores one attempt. An empty token gets a generated one; a repeated
// token is ignored so client retries cannot double-queue a capture.
func (q *Queue) Enqueue(ctx context.Context, item Item) (string, error) {
	if item.Token == "" {
		item.Token = uuid.NewString()
	}
	payload, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("failed to encode queued verification: %w", err)
	}
	_, err = q.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO pending_verifications (token, session_id, payload, recorded_at, enqueued_at)
		VALUES (?, ?, ?, ?, ?)`,
		item.Token, item.SessionID, string(payload), item.RecordedAt.Unix(), time.Now().Unix())
	if err != nil {
		return "", fmt.Errorf("failed to enqueue verification: %w", err)
	}
	return item.Token, nil
}

// Pending returns queued attempts in original timestamp order
func (q *Queue) Pending(ctx context.Context) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT payload FROM pending_verifications ORDER BY recorded_at, enqueued_at, token`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending verifications: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan pending verification: %w", err)
		}
		var item Item
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			return nil, fmt.Errorf("failed to decode pending verification: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ReplayResult summarizes one replay pass
type ReplayResult struct {
	Applied    int
	Duplicates int
	Failed     int
	Deferred   int // persistence still unreachable, kept queued
}

// Replay applies queued attempts in timestamp order. A duplicate rejection
// counts as already applied; an unavailable persistence layer defers the
// item for a later pass; any other error drops the item as unreplayable.
func (q *Queue) Replay(ctx context.Context, apply func(context.Context, Item) error) (*ReplayResult, error) {
	items, err := q.Pending(ctx)
	if err != nil {
		return nil, err
	}

	result := &ReplayResult{}
	for _, item := range items {
		err := apply(ctx, item)
		switch apperrors.KindOf(err) {
		case apperrors.KindUnavailable:
			result.Deferred++
			continue
		case apperrors.KindConflict:
			result.Duplicates++
		default:
			if err != nil {
				log.Printf("Dropping unreplayable verification %s: %v", item.Token, err)
				result.Failed++
			} else {
				result.Applied++
			}
		}
		if err := q.remove(ctx, item.Token); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (q *Queue) remove(ctx context.Context, token string) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM pending_verifications WHERE token = ?", token)
	if err != nil {
		return fmt.Errorf("failed to remove queued verification: %w", err)
	}
	return nil
}
