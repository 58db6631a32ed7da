package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/rollcall-backend-go/internal/models"
	"github.com/jengzang/rollcall-backend-go/internal/repository"
	"github.com/jengzang/rollcall-backend-go/pkg/response"
)

// LocationHandler handles HTTP requests for the facility layout
type LocationHandler struct {
	locations repository.LocationRepository
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(locations repository.LocationRepository) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// ListNodes handles GET /api/v1/locations
func (h *LocationHandler) ListNodes(c *gin.Context) {
	var filter models.LocationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	nodes, err := h.locations.ListNodes(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"data": nodes, "total": len(nodes)})
}

// GetNode handles GET /api/v1/locations/:id
func (h *LocationHandler) GetNode(c *gin.Context) {
	node, err := h.locations.GetNodeByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, node)
}
