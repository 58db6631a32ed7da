package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/rollcall-backend-go/internal/database"
	"github.com/jengzang/rollcall-backend-go/internal/models"
	"github.com/jengzang/rollcall-backend-go/internal/queue"
	"github.com/jengzang/rollcall-backend-go/internal/repository/memory"
	"github.com/jengzang/rollcall-backend-go/internal/service"
)

type handlerFixture struct {
	router *gin.Engine
	store  *memory.Store
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	svc := service.NewRollCallService(store.Sessions(), store.Verifications(), store.Audit())

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "handler.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	h := NewRollCallHandler(svc, queue.New(db))
	r := gin.New()
	r.GET("/sessions/:id", h.Get)
	r.POST("/sessions/replay", h.Replay)
	r.POST("/sessions/:id/start", h.Start)
	r.POST("/sessions/:id/verifications", h.RecordVerification)
	r.GET("/sessions/:id/progress", h.Progress)

	return &handlerFixture{router: r, store: store}
}

func (f *handlerFixture) seedInProgressSession(t *testing.T, id string) {
	t.Helper()
	started := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	err := f.store.CreateSession(context.Background(), &models.RollCallSession{
		ID:          id,
		Name:        "Morning unlock",
		ScheduledAt: started,
		Status:      models.SessionInProgress,
		StartedAt:   &started,
		Stops: []models.RouteStop{
			{ID: id + "-st1", SessionID: id, Sequence: 1, LocationID: "cell-1", ExpectedPersons: []string{"p1"}, Status: models.StopInProgress},
		},
	})
	require.NoError(t, err)
}

func (f *handlerFixture) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestRecordVerificationHTTP(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedInProgressSession(t, "s1")

	w := f.post(t, "/sessions/s1/verifications", gin.H{
		"personId":   "p1",
		"locationId": "cell-1",
		"outcome":    "verified",
		"confidence": 0.95,
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "verified", data["outcome"])
	assert.Equal(t, false, data["unexpected"])

	// Same pair again: conflict
	w = f.post(t, "/sessions/s1/verifications", gin.H{
		"personId":   "p1",
		"locationId": "cell-1",
		"outcome":    "verified",
		"confidence": 0.95,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRecordVerificationUnknownSession(t *testing.T) {
	f := newHandlerFixture(t)

	w := f.post(t, "/sessions/ghost/verifications", gin.H{
		"personId":   "p1",
		"locationId": "cell-1",
		"outcome":    "verified",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOfflineQueueFallbackAndReplay(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedInProgressSession(t, "s1")

	// Persistence down: the attempt is accepted into the backlog
	f.store.FailWrites = true
	w := f.post(t, "/sessions/s1/verifications", gin.H{
		"personId":         "p1",
		"locationId":       "cell-1",
		"outcome":          "verified",
		"confidence":       0.9,
		"recordedAt":       "2026-08-31T09:05:00Z",
		"idempotencyToken": "tok-1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, true, data["queued"])
	assert.Equal(t, "tok-1", data["token"])

	// Device retry with the same token is absorbed
	w = f.post(t, "/sessions/s1/verifications", gin.H{
		"personId":         "p1",
		"locationId":       "cell-1",
		"outcome":          "verified",
		"confidence":       0.9,
		"recordedAt":       "2026-08-31T09:05:00Z",
		"idempotencyToken": "tok-1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Connectivity back: replay applies exactly one record
	f.store.FailWrites = false
	w = f.post(t, "/sessions/replay", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.Equal(t, float64(1), data["Applied"])
	assert.Equal(t, float64(0), data["Duplicates"])

	records, err := f.store.ListBySession(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "p1", records[0].PersonID)

	// A second replay pass has nothing left to do
	w = f.post(t, "/sessions/replay", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.Equal(t, float64(0), data["Applied"])
}

func TestProgressHTTP(t *testing.T) {
	f := newHandlerFixture(t)
	f.seedInProgressSession(t, "s1")

	req := httptest.NewRequest(http.MethodGet, "/sessions/s1/progress", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, float64(0), data["completed"])
	assert.Equal(t, float64(1), data["total"])
}
