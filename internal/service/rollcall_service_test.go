package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/rollcall-backend-go/internal/apperrors"
	"github.com/jengzang/rollcall-backend-go/internal/models"
	"github.com/jengzang/rollcall-backend-go/internal/repository"
	"github.com/jengzang/rollcall-backend-go/internal/repository/memory"
)

// failingAudit fails appends for one configured action and delegates the rest
type failingAudit struct {
	inner      repository.AuditRepository
	failAction models.AuditAction
}

func (f *failingAudit) Append(ctx context.Context, event *models.AuditEvent) error {
	if event.Action == f.failAction {
		return apperrors.Unavailable(event.SubjectID, "audit sink unreachable")
	}
	return f.inner.Append(ctx, event)
}

func (f *failingAudit) List(ctx context.Context, filter models.AuditFilter, limit int) ([]models.AuditEvent, error) {
	return f.inner.List(ctx, filter, limit)
}

var testActor = Actor{ID: "officer-7", Origin: "device"}

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	store.AddNodes(
		models.LocationNode{ID: "wing-a", Name: "A Wing", Kind: models.NodeKindWing},
		models.LocationNode{ID: "landing-a1", Name: "A1", Kind: models.NodeKindLanding, ParentID: "wing-a"},
		models.LocationNode{ID: "cell-1", Name: "A1-01", Kind: models.NodeKindCell, ParentID: "landing-a1"},
		models.LocationNode{ID: "cell-2", Name: "A1-02", Kind: models.NodeKindCell, ParentID: "landing-a1"},
	)
	store.AddEdges(
		models.LocationEdge{ID: "e1", FromID: "cell-1", ToID: "cell-2", Distance: 4, Kind: models.EdgeKindCorridor, Bidirectional: true},
	)
	store.AddEntries(
		models.ScheduleEntry{ID: "sch1", PersonID: "p1", LocationID: "cell-1", DayOfWeek: 1, StartMinute: 8 * 60, EndMinute: 10 * 60, Activity: "unlock", IsRecurring: true},
		models.ScheduleEntry{ID: "sch2", PersonID: "p2", LocationID: "cell-2", DayOfWeek: 1, StartMinute: 8 * 60, EndMinute: 10 * 60, Activity: "unlock", IsRecurring: true},
	)
	return store
}

func newServices(store *memory.Store) (*RouteService, *RollCallService) {
	routes := NewRouteService(store, store.Schedule(), store.Sessions(), store.Audit())
	rollcalls := NewRollCallService(store.Sessions(), store.Verifications(), store.Audit())
	return routes, rollcalls
}

// 2026-08-31 is a Monday
func mondayRequest() GenerateRequest {
	return GenerateRequest{
		Name:            "Morning unlock",
		SelectedAreaIDs: []string{"wing-a"},
		Date:            "2026-08-31",
		StartMinute:     9 * 60,
		EndMinute:       9*60 + 30,
	}
}

func TestGenerateRoutePersistsPendingSession(t *testing.T) {
	store := seedStore(t)
	routes, rollcalls := newServices(store)
	ctx := context.Background()

	result, err := routes.GenerateRoute(ctx, testActor, mondayRequest())
	require.NoError(t, err)
	require.Len(t, result.Session.Stops, 2)
	assert.Equal(t, models.SessionPending, result.Session.Status)
	assert.Equal(t, 4.0, result.TotalDistance)

	// Persisted and retrievable through the execution service
	got, err := rollcalls.Get(ctx, result.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Session.ID, got.ID)

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.ActionRouteGenerated, events[0].Action)
	assert.Equal(t, "officer-7", events[0].ActorID)
	assert.Equal(t, result.Session.ID, events[0].SubjectID)
}

func TestGenerateRouteBadDate(t *testing.T) {
	store := seedStore(t)
	routes, _ := newServices(store)

	req := mondayRequest()
	req.Date = "31/08/2026"
	_, err := routes.GenerateRoute(context.Background(), testActor, req)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Empty(t, store.Events())
}

func TestFullSessionFlowEmitsAudit(t *testing.T) {
	store := seedStore(t)
	routes, rollcalls := newServices(store)
	ctx := context.Background()

	result, err := routes.GenerateRoute(ctx, testActor, mondayRequest())
	require.NoError(t, err)
	id := result.Session.ID

	_, err = rollcalls.Start(ctx, testActor, id)
	require.NoError(t, err)

	firstStop := result.Session.Stops[0]
	rec, err := rollcalls.RecordVerification(ctx, testActor, id, RecordRequest{
		PersonID:   firstStop.ExpectedPersons[0],
		LocationID: firstStop.LocationID,
		Outcome:    models.OutcomeVerified,
		Confidence: 0.96,
	})
	require.NoError(t, err)
	assert.False(t, rec.Unexpected)

	_, err = rollcalls.AdvanceStop(ctx, testActor, id)
	require.NoError(t, err)
	_, err = rollcalls.SkipStop(ctx, testActor, id, "occupant at medical")
	require.NoError(t, err)

	summary, err := rollcalls.Complete(ctx, testActor, id)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.StopCount)
	assert.Equal(t, 1, summary.VerifiedCount)

	var actions []models.AuditAction
	for _, e := range store.Events() {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []models.AuditAction{
		models.ActionRouteGenerated,
		models.ActionSessionStarted,
		models.ActionVerificationRecorded,
		models.ActionStopAdvanced,
		models.ActionStopSkipped,
		models.ActionSessionCompleted,
	}, actions)

	// The persisted state agrees with the aggregate
	persisted, err := store.GetSessionByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, persisted.Status)
}

func TestDuplicateRejectedAcrossReload(t *testing.T) {
	store := seedStore(t)
	routes, rollcalls := newServices(store)
	ctx := context.Background()

	result, err := routes.GenerateRoute(ctx, testActor, mondayRequest())
	require.NoError(t, err)
	id := result.Session.ID
	_, err = rollcalls.Start(ctx, testActor, id)
	require.NoError(t, err)

	req := RecordRequest{PersonID: "p1", LocationID: "cell-1", Outcome: models.OutcomeVerified, Confidence: 0.9}
	_, err = rollcalls.RecordVerification(ctx, testActor, id, req)
	require.NoError(t, err)

	_, err = rollcalls.RecordVerification(ctx, testActor, id, req)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateVerification))

	// A fresh service over the same store rebuilds the invariant
	fresh := NewRollCallService(store.Sessions(), store.Verifications(), store.Audit())
	_, err = fresh.RecordVerification(ctx, testActor, id, req)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateVerification))
}

func TestFailedWriteLeavesNoPhantomState(t *testing.T) {
	store := seedStore(t)
	routes, rollcalls := newServices(store)
	ctx := context.Background()

	result, err := routes.GenerateRoute(ctx, testActor, mondayRequest())
	require.NoError(t, err)
	id := result.Session.ID
	_, err = rollcalls.Start(ctx, testActor, id)
	require.NoError(t, err)

	store.FailWrites = true
	req := RecordRequest{PersonID: "p1", LocationID: "cell-1", Outcome: models.OutcomeVerified, Confidence: 0.9}
	_, err = rollcalls.RecordVerification(ctx, testActor, id, req)
	assert.True(t, errors.Is(err, apperrors.ErrUnavailable))

	// The failed attempt must not count as a verification
	store.FailWrites = false
	_, err = rollcalls.RecordVerification(ctx, testActor, id, req)
	require.NoError(t, err)
}

func TestAuditFailureAfterRecordWriteEvicts(t *testing.T) {
	store := seedStore(t)
	routes, _ := newServices(store)
	audit := &failingAudit{inner: store.Audit()}
	rollcalls := NewRollCallService(store.Sessions(), store.Verifications(), audit)
	ctx := context.Background()

	result, err := routes.GenerateRoute(ctx, testActor, mondayRequest())
	require.NoError(t, err)
	id := result.Session.ID
	_, err = rollcalls.Start(ctx, testActor, id)
	require.NoError(t, err)

	// Record lands in the store, then the audit append fails
	audit.failAction = models.ActionVerificationRecorded
	req := RecordRequest{PersonID: "p1", LocationID: "cell-1", Outcome: models.OutcomeVerified, Confidence: 0.9}
	_, err = rollcalls.RecordVerification(ctx, testActor, id, req)
	assert.True(t, errors.Is(err, apperrors.ErrUnavailable))

	records, err := store.ListBySession(ctx, id)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// The next operation reloads persisted state: a retry is a duplicate,
	// not a second record.
	audit.failAction = ""
	_, err = rollcalls.RecordVerification(ctx, testActor, id, req)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateVerification))

	_, err = rollcalls.AdvanceStop(ctx, testActor, id)
	require.NoError(t, err)
	_, err = rollcalls.AdvanceStop(ctx, testActor, id)
	require.NoError(t, err)

	// The completion summary counts the record that survived the failed
	// audit write.
	summary, err := rollcalls.Complete(ctx, testActor, id)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.VerifiedCount)
}

func TestStopMutationFailedPersistEvicts(t *testing.T) {
	store := seedStore(t)
	routes, rollcalls := newServices(store)
	ctx := context.Background()

	result, err := routes.GenerateRoute(ctx, testActor, mondayRequest())
	require.NoError(t, err)
	id := result.Session.ID
	_, err = rollcalls.Start(ctx, testActor, id)
	require.NoError(t, err)

	store.FailWrites = true
	_, err = rollcalls.AdvanceStop(ctx, testActor, id)
	assert.True(t, errors.Is(err, apperrors.ErrUnavailable))

	// After recovery the advance applies to the reloaded state, so both
	// stops can still be processed exactly once.
	store.FailWrites = false
	stop, err := rollcalls.AdvanceStop(ctx, testActor, id)
	require.NoError(t, err)
	assert.Equal(t, 1, stop.Sequence)
	stop, err = rollcalls.AdvanceStop(ctx, testActor, id)
	require.NoError(t, err)
	assert.Equal(t, 2, stop.Sequence)
}

func TestCancelRecordsReason(t *testing.T) {
	store := seedStore(t)
	routes, rollcalls := newServices(store)
	ctx := context.Background()

	result, err := routes.GenerateRoute(ctx, testActor, mondayRequest())
	require.NoError(t, err)
	id := result.Session.ID

	require.NoError(t, rollcalls.Cancel(ctx, testActor, id, "fire drill"))

	got, err := rollcalls.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCancelled, got.Status)
	assert.Equal(t, "fire drill", got.CancelReason)

	events := store.Events()
	last := events[len(events)-1]
	assert.Equal(t, models.ActionSessionCancelled, last.Action)
	assert.Equal(t, "fire drill", last.Detail["reason"])
}

func TestProgressThroughService(t *testing.T) {
	store := seedStore(t)
	routes, rollcalls := newServices(store)
	ctx := context.Background()

	result, err := routes.GenerateRoute(ctx, testActor, mondayRequest())
	require.NoError(t, err)
	id := result.Session.ID
	_, err = rollcalls.Start(ctx, testActor, id)
	require.NoError(t, err)
	_, err = rollcalls.AdvanceStop(ctx, testActor, id)
	require.NoError(t, err)

	p, err := rollcalls.Progress(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Completed)
	assert.Equal(t, 2, p.Total)
	assert.Equal(t, 50.0, p.Percentage)
}
