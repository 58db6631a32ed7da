package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/rollcall-backend-go/internal/config"
	"github.com/jengzang/rollcall-backend-go/internal/handler"
	"github.com/jengzang/rollcall-backend-go/internal/middleware"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Locations     *handler.LocationHandler
	Schedule      *handler.ScheduleHandler
	Routes        *handler.RouteHandler
	RollCalls     *handler.RollCallHandler
	Verifications *handler.VerificationHandler
	Audit         *handler.AuditHandler
}

// SetupRouter wires middleware and routes
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateWindow))
	r.Use(middleware.Actor(cfg.JWTSecret))

	// CORS for the officer device web client
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Roll Call API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		locations := api.Group("/locations")
		{
			locations.GET("", h.Locations.ListNodes)
			locations.GET("/:id", h.Locations.GetNode)
		}

		schedule := api.Group("/schedule")
		{
			schedule.GET("/expected", h.Schedule.ExpectedAt)
			schedule.GET("/entries", h.Schedule.ListEntries)
		}

		api.POST("/routes", h.Routes.Generate)

		sessions := api.Group("/sessions")
		{
			sessions.GET("", h.RollCalls.List)
			sessions.POST("/replay", h.RollCalls.Replay)
			sessions.GET("/:id", h.RollCalls.Get)
			sessions.POST("/:id/start", h.RollCalls.Start)
			sessions.POST("/:id/verifications", h.RollCalls.RecordVerification)
			sessions.POST("/:id/advance", h.RollCalls.AdvanceStop)
			sessions.POST("/:id/skip", h.RollCalls.SkipStop)
			sessions.POST("/:id/complete", h.RollCalls.Complete)
			sessions.POST("/:id/cancel", h.RollCalls.Cancel)
			sessions.GET("/:id/progress", h.RollCalls.Progress)
		}

		api.POST("/verifications/assess", h.Verifications.Assess)

		api.GET("/audit", h.Audit.List)
	}

	return r
}
