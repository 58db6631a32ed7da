package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rollcall-backend-go/internal/models"
	"github.com/jengzang/rollcall-backend-go/internal/repository"
	"github.com/jengzang/rollcall-backend-go/pkg/response"
)

// AuditHandler handles HTTP requests for the audit trail
type AuditHandler struct {
	audit repository.AuditRepository
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(audit repository.AuditRepository) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List handles GET /api/v1/audit
func (h *AuditHandler) List(c *gin.Context) {
	var filter models.AuditFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	events, err := h.audit.List(c.Request.Context(), filter, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"data": events, "total": len(events)})
}
