package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rollcall-backend-go/internal/apperrors"
	"github.com/jengzang/rollcall-backend-go/internal/middleware"
	"github.com/jengzang/rollcall-backend-go/internal/models"
	"github.com/jengzang/rollcall-backend-go/internal/queue"
	"github.com/jengzang/rollcall-backend-go/internal/service"
	"github.com/jengzang/rollcall-backend-go/pkg/response"
)

// RollCallHandler handles HTTP requests for live session execution
type RollCallHandler struct {
	service *service.RollCallService
	backlog *queue.Queue // nil disables offline queuing
}

// NewRollCallHandler creates a new roll-call handler
func NewRollCallHandler(service *service.RollCallService, backlog *queue.Queue) *RollCallHandler {
	return &RollCallHandler{service: service, backlog: backlog}
}

func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{ID: middleware.ActorID(c), Origin: c.ClientIP()}
}

// List handles GET /api/v1/sessions
func (h *RollCallHandler) List(c *gin.Context) {
	var filter models.SessionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	sessions, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"data": sessions, "total": len(sessions)})
}

// Get handles GET /api/v1/sessions/:id
func (h *RollCallHandler) Get(c *gin.Context) {
	sess, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, sess)
}

// Start handles POST /api/v1/sessions/:id/start
func (h *RollCallHandler) Start(c *gin.Context) {
	sess, err := h.service.Start(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, sess)
}

type recordBody struct {
	service.RecordRequest
	IdempotencyToken string `json:"idempotencyToken"`
}

// RecordVerification handles POST /api/v1/sessions/:id/verifications.
// When the persistence layer is unreachable the attempt is queued locally
// and replayed later; the client gets 202-style acceptance via the queued
// flag rather than an error.
func (h *RollCallHandler) RecordVerification(c *gin.Context) {
	var body recordBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	sessionID := c.Param("id")

	rec, err := h.service.RecordVerification(c.Request.Context(), actorFrom(c), sessionID, body.RecordRequest)
	if err == nil {
		response.Success(c, rec)
		return
	}

	if h.backlog != nil && errors.Is(err, apperrors.ErrUnavailable) {
		token, qErr := h.backlog.Enqueue(c.Request.Context(), queue.Item{
			Token:          body.IdempotencyToken,
			SessionID:      sessionID,
			PersonID:       body.PersonID,
			LocationID:     body.LocationID,
			Outcome:        body.Outcome,
			Confidence:     body.Confidence,
			ManualOverride: body.ManualOverride,
			OverrideReason: body.OverrideReason,
			RecordedAt:     body.RecordedAt,
		})
		if qErr == nil {
			response.Success(c, gin.H{"queued": true, "token": token})
			return
		}
	}
	response.FromError(c, err)
}

// AdvanceStop handles POST /api/v1/sessions/:id/advance
func (h *RollCallHandler) AdvanceStop(c *gin.Context) {
	stop, err := h.service.AdvanceStop(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, stop)
}

type reasonBody struct {
	Reason string `json:"reason"`
}

// SkipStop handles POST /api/v1/sessions/:id/skip
func (h *RollCallHandler) SkipStop(c *gin.Context) {
	var body reasonBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	stop, err := h.service.SkipStop(c.Request.Context(), actorFrom(c), c.Param("id"), body.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, stop)
}

// Complete handles POST /api/v1/sessions/:id/complete
func (h *RollCallHandler) Complete(c *gin.Context) {
	summary, err := h.service.Complete(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, summary)
}

// Cancel handles POST /api/v1/sessions/:id/cancel
func (h *RollCallHandler) Cancel(c *gin.Context) {
	var body reasonBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := h.service.Cancel(c.Request.Context(), actorFrom(c), c.Param("id"), body.Reason); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"cancelled": true})
}

// Progress handles GET /api/v1/sessions/:id/progress
func (h *RollCallHandler) Progress(c *gin.Context) {
	progress, err := h.service.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, progress)
}

// Replay handles POST /api/v1/sessions/replay, applying queued offline
// verifications in original timestamp order
func (h *RollCallHandler) Replay(c *gin.Context) {
	if h.backlog == nil {
		response.BadRequest(c, "Offline queue not configured")
		return
	}
	actor := actorFrom(c)
	result, err := h.backlog.Replay(c.Request.Context(), func(ctx context.Context, item queue.Item) error {
		_, err := h.service.RecordVerification(ctx, actor, item.SessionID, service.RecordRequest{
			PersonID:       item.PersonID,
			LocationID:     item.LocationID,
			Outcome:        item.Outcome,
			Confidence:     item.Confidence,
			ManualOverride: item.ManualOverride,
			OverrideReason: item.OverrideReason,
			RecordedAt:     item.RecordedAt,
		})
		return err
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}
