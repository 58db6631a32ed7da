package handler

import (
	"encoding/base64"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rollcall-backend-go/internal/service"
	"github.com/jengzang/rollcall-backend-go/pkg/response"
)

// VerificationHandler handles HTTP requests for capture assessment
type VerificationHandler struct {
	service *service.VerificationService
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(service *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{service: service}
}

type assessBody struct {
	Image      string   `json:"image"` // base64-encoded capture
	Candidates []string `json:"candidates,omitempty"`
}

// Assess handles POST /api/v1/verifications/assess. It returns a
// disposition only; persisting the outcome is a separate, explicitly
// confirmed call on the session.
func (h *VerificationHandler) Assess(c *gin.Context) {
	var body assessBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	imageBytes, err := base64.StdEncoding.DecodeString(body.Image)
	if err != nil || len(imageBytes) == 0 {
		response.BadRequest(c, "Image must be non-empty base64")
		return
	}

	assessment, err := h.service.AssessCapture(c.Request.Context(), imageBytes, body.Candidates)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, assessment)
}
