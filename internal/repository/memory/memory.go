// Package memory provides thread-safe in-memory implementations of the
// repository interfaces, used by tests and by disconnected operation.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jengzang/rollcall-backend-go/internal/apperrors"
	"github.com/jengzang/rollcall-backend-go/internal/facematch"
	"github.com/jengzang/rollcall-backend-go/internal/models"
)

// Store backs every repository interface with maps behind one RWMutex
type Store struct {
	mu            sync.RWMutex
	nodes         map[string]models.LocationNode
	edges         []models.LocationEdge
	persons       map[string]models.Person
	templates     map[string][]facematch.Template
	entries       []models.ScheduleEntry
	sessions      map[string]models.RollCallSession
	verifications map[string][]models.VerificationRecord // by session id
	audit         []models.AuditEvent

	// FailWrites simulates an unreachable persistence layer for
	// disconnected-operation tests
	FailWrites bool
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		nodes:         make(map[string]models.LocationNode),
		persons:       make(map[string]models.Person),
		templates:     make(map[string][]facematch.Template),
		sessions:      make(map[string]models.RollCallSession),
		verifications: make(map[string][]models.VerificationRecord),
	}
}

// Seed helpers

// AddNodes registers location nodes
func (s *Store) AddNodes(nodes ...models.LocationNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range nodes {
		s.nodes[n.ID] = n
	}
}

// AddEdges registers walkable connections
func (s *Store) AddEdges(edges ...models.LocationEdge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges = append(s.edges, edges...)
}

// AddPersons registers persons
func (s *Store) AddPersons(persons ...models.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range persons {
		s.persons[p.ID] = p
	}
}

// AddTemplates registers enrolled face templates
func (s *Store) AddTemplates(templates ...facematch.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range templates {
		s.templates[t.PersonID] = append(s.templates[t.PersonID], t)
	}
}

// AddEntries registers schedule entries
func (s *Store) AddEntries(entries ...models.ScheduleEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
}

// LocationRepository

// GetNodes returns all location nodes sorted by (name, id)
func (s *Store) GetNodes(_ context.Context) ([]models.LocationNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LocationNode, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetEdges returns all edges
func (s *Store) GetEdges(_ context.Context) ([]models.LocationEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LocationEdge, len(s.edges))
	copy(out, s.edges)
	return out, nil
}

// GetNodeByID returns one node
func (s *Store) GetNodeByID(_ context.Context, id string) (*models.LocationNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return nil, apperrors.NotFound(id, "location node not found")
	}
	return &n, nil
}

// ListNodes returns nodes matching the filter
func (s *Store) ListNodes(ctx context.Context, filter models.LocationFilter) ([]models.LocationNode, error) {
	all, _ := s.GetNodes(ctx)
	var out []models.LocationNode
	for _, n := range all {
		if filter.Kind != "" && string(n.Kind) != filter.Kind {
			continue
		}
		if filter.ParentID != "" && n.ParentID != filter.ParentID {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// PersonRepository

// GetByID returns one person
func (s *Store) GetByID(_ context.Context, id string) (*models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.persons[id]
	if !ok {
		return nil, apperrors.NotFound(id, "person not found")
	}
	return &p, nil
}

// List returns persons matching the filter
func (s *Store) List(_ context.Context, filter models.PersonFilter) ([]models.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Person
	for _, p := range s.persons {
		if filter.HomeLocationID != "" && p.HomeLocationID != filter.HomeLocationID {
			continue
		}
		if filter.Enrolled != nil && p.Enrolled != *filter.Enrolled {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetTemplates returns enrolled templates for the persons
func (s *Store) GetTemplates(_ context.Context, personIDs []string) ([]facematch.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []facematch.Template
	for _, id := range personIDs {
		out = append(out, s.templates[id]...)
	}
	return out, nil
}

// ScheduleRepository

// ListForLocations returns entries bound to the locations
func (s *Store) ListForLocations(_ context.Context, locationIDs []string) ([]models.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wanted := make(map[string]bool, len(locationIDs))
	for _, id := range locationIDs {
		wanted[id] = true
	}
	var out []models.ScheduleEntry
	for _, e := range s.entries {
		if wanted[e.LocationID] {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListSchedule returns entries matching the filter
func (s *Store) ListSchedule(_ context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ScheduleEntry
	for _, e := range s.entries {
		if filter.PersonID != "" && e.PersonID != filter.PersonID {
			continue
		}
		if filter.LocationID != "" && e.LocationID != filter.LocationID {
			continue
		}
		if filter.DayOfWeek != nil && e.DayOfWeek != *filter.DayOfWeek {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// SessionRepository

// CreateSession persists a session with its stops
func (s *Store) CreateSession(_ context.Context, session *models.RollCallSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return apperrors.Unavailable(session.ID, "persistence unreachable")
	}
	s.sessions[session.ID] = cloneSession(*session)
	return nil
}

// GetSessionByID returns a session copy
func (s *Store) GetSessionByID(_ context.Context, id string) (*models.RollCallSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.NotFound(id, "session not found")
	}
	out := cloneSession(sess)
	return &out, nil
}

// UpdateSession rewrites a stored session
func (s *Store) UpdateSession(_ context.Context, session *models.RollCallSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return apperrors.Unavailable(session.ID, "persistence unreachable")
	}
	if _, ok := s.sessions[session.ID]; !ok {
		return apperrors.NotFound(session.ID, "session not found")
	}
	s.sessions[session.ID] = cloneSession(*session)
	return nil
}

// ListSessions returns sessions matching the filter
func (s *Store) ListSessions(_ context.Context, filter models.SessionFilter) ([]models.RollCallSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.RollCallSession
	for _, sess := range s.sessions {
		if filter.Status != "" && string(sess.Status) != filter.Status {
			continue
		}
		out = append(out, cloneSession(sess))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// VerificationRepository

// CreateVerification appends a record, enforcing the verified-uniqueness rule
func (s *Store) CreateVerification(_ context.Context, record *models.VerificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return apperrors.Unavailable(record.SessionID, "persistence unreachable")
	}
	if record.Outcome == models.OutcomeVerified {
		for _, existing := range s.verifications[record.SessionID] {
			if existing.Outcome == models.OutcomeVerified &&
				existing.PersonID == record.PersonID &&
				existing.LocationID == record.LocationID {
				return apperrors.DuplicateVerification(record.PersonID,
					"person already verified at %s in session %s", record.LocationID, record.SessionID)
			}
		}
	}
	s.verifications[record.SessionID] = append(s.verifications[record.SessionID], *record)
	return nil
}

// ListBySession returns a session's records in recording order
func (s *Store) ListBySession(_ context.Context, sessionID string) ([]models.VerificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.verifications[sessionID]
	out := make([]models.VerificationRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

// AuditRepository

// Append stores one audit event
func (s *Store) Append(_ context.Context, event *models.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return apperrors.Unavailable(event.SubjectID, "audit sink unreachable")
	}
	s.audit = append(s.audit, *event)
	return nil
}

// ListAudit returns matching audit events, newest first
func (s *Store) ListAudit(_ context.Context, filter models.AuditFilter, limit int) ([]models.AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.AuditEvent
	for i := len(s.audit) - 1; i >= 0; i-- {
		e := s.audit[i]
		if filter.ActorID != "" && e.ActorID != filter.ActorID {
			continue
		}
		if filter.Action != "" && string(e.Action) != filter.Action {
			continue
		}
		if filter.SubjectType != "" && e.SubjectType != filter.SubjectType {
			continue
		}
		if filter.SubjectID != "" && e.SubjectID != filter.SubjectID {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Events returns every audit event in append order, for tests
func (s *Store) Events() []models.AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AuditEvent, len(s.audit))
	copy(out, s.audit)
	return out
}

func cloneSession(s models.RollCallSession) models.RollCallSession {
	out := s
	out.Stops = make([]models.RouteStop, len(s.Stops))
	copy(out.Stops, s.Stops)
	return out
}
