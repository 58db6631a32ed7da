package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/rollcall-backend-go/internal/models"
	"github.com/jengzang/rollcall-backend-go/internal/repository"
)

// Actor identifies who performs a mutating operation and where from
type Actor struct {
	ID     string // officer id from the bearer token, "unknown" otherwise
	Origin string // client IP / agent where available
}

// emitAudit appends one event to the audit sink. Audit writes are
// synchronously consistent: a failed append fails the calling operation.
func emitAudit(ctx context.Context, audit repository.AuditRepository, actor Actor, action models.AuditAction, subjectType, subjectID string, detail map[string]any) error {
	return audit.Append(ctx, &models.AuditEvent{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ActorID:     actor.ID,
		Action:      action,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Detail:      detail,
		Origin:      actor.Origin,
	})
}
