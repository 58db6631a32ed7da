// Package repository defines the persistence boundary of the roll-call core
// and its sqlite implementations. The core reads and writes exclusively
// through these interfaces; in-memory implementations live in the memory
// subpackage for tests and disconnected operation.
package repository

import (
	"context"

	"github.com/jengzang/rollcall-backend-go/internal/facematch"
	"github.com/jengzang/rollcall-backend-go/internal/models"
)

// LocationRepository reads the externally managed facility layout
type LocationRepository interface {
	GetNodes(ctx context.Context) ([]models.LocationNode, error)
	GetEdges(ctx context.Context) ([]models.LocationEdge, error)
	GetNodeByID(ctx context.Context, id string) (*models.LocationNode, error)
	ListNodes(ctx context.Context, filter models.LocationFilter) ([]models.LocationNode, error)
}

// PersonRepository reads the externally managed population
type PersonRepository interface {
	GetByID(ctx context.Context, id string) (*models.Person, error)
	List(ctx context.Context, filter models.PersonFilter) ([]models.Person, error)
	GetTemplates(ctx context.Context, personIDs []string) ([]facematch.Template, error)
}

// ScheduleRepository reads the externally managed timetable
type ScheduleRepository interface {
	ListForLocations(ctx context.Context, locationIDs []string) ([]models.ScheduleEntry, error)
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, error)
}

// SessionRepository owns roll-call sessions and their stops
type SessionRepository interface {
	Create(ctx context.Context, session *models.RollCallSession) error
	GetByID(ctx context.Context, id string) (*models.RollCallSession, error)
	Update(ctx context.Context, session *models.RollCallSession) error
	List(ctx context.Context, filter models.SessionFilter) ([]models.RollCallSession, error)
}

// VerificationRepository owns verification records
type VerificationRepository interface {
	Create(ctx context.Context, record *models.VerificationRecord) error
	ListBySession(ctx context.Context, sessionID string) ([]models.VerificationRecord, error)
}

// AuditRepository is the append-only audit sink. Append must never fail
// silently; callers treat a failed append as a failure of the whole
// originating operation.
type AuditRepository interface {
	Append(ctx context.Context, event *models.AuditEvent) error
	List(ctx context.Context, filter models.AuditFilter, limit int) ([]models.AuditEvent, error)
}
