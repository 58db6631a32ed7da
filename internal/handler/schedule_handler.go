package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rollcall-backend-go/internal/models"
	"github.com/jengzang/rollcall-backend-go/internal/service"
	"github.com/jengzang/rollcall-backend-go/pkg/response"
)

// ScheduleHandler handles HTTP requests for expected presence
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(service *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

type expectedAtQuery struct {
	LocationIDs string `form:"locationIds"` // comma-separated
	Date        string `form:"date"`        // YYYY-MM-DD, defaults to today
	StartMinute int    `form:"startMinute"`
	EndMinute   int    `form:"endMinute"`
}

// ExpectedAt handles GET /api/v1/schedule/expected
func (h *ScheduleHandler) ExpectedAt(c *gin.Context) {
	var q expectedAtQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	date := time.Now()
	if q.Date != "" {
		parsed, err := time.Parse("2006-01-02", q.Date)
		if err != nil {
			response.BadRequest(c, "Invalid date, want YYYY-MM-DD")
			return
		}
		date = parsed
	}

	var locationIDs []string
	for _, id := range strings.Split(q.LocationIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			locationIDs = append(locationIDs, id)
		}
	}

	window := models.TimeWindow{StartMinute: q.StartMinute, EndMinute: q.EndMinute}
	result, err := h.service.ExpectedAt(c.Request.Context(), locationIDs, date, window)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithWarnings(c, result.Expected, result.Warnings)
}

// ListEntries handles GET /api/v1/schedule/entries
func (h *ScheduleHandler) ListEntries(c *gin.Context) {
	var filter models.ScheduleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	entries, err := h.service.ListEntries(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"data": entries, "total": len(entries)})
}
