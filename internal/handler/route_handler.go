package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/rollcall-backend-go/internal/middleware"
	"github.com/jengzang/rollcall-backend-go/internal/service"
	"github.com/jengzang/rollcall-backend-go/pkg/response"
)

// RouteHandler handles HTTP requests for route generation
type RouteHandler struct {
	service *service.RouteService
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(service *service.RouteService) *RouteHandler {
	return &RouteHandler{service: service}
}

// Generate handles POST /api/v1/routes
func (h *RouteHandler) Generate(c *gin.Context) {
	var req service.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	actor := service.Actor{ID: middleware.ActorID(c), Origin: c.ClientIP()}
	result, err := h.service.GenerateRoute(c.Request.Context(), actor, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithWarnings(c, result, result.Warnings)
}
