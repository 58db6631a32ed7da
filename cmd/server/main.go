package main

import (
	"log"

	"github.com/jengzang/rollcall-backend-go/internal/api"
	"github.com/jengzang/rollcall-backend-go/internal/config"
	"github.com/jengzang/rollcall-backend-go/internal/database"
	"github.com/jengzang/rollcall-backend-go/internal/decision"
	"github.com/jengzang/rollcall-backend-go/internal/facematch"
	"github.com/jengzang/rollcall-backend-go/internal/handler"
	"github.com/jengzang/rollcall-backend-go/internal/queue"
	"github.com/jengzang/rollcall-backend-go/internal/repository"
	"github.com/jengzang/rollcall-backend-go/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	locations := repository.NewLocationRepository(db)
	persons := repository.NewPersonRepository(db)
	schedules := repository.NewScheduleRepository(db)
	sessions := repository.NewSessionRepository(db)
	verifications := repository.NewVerificationRepository(db)
	audit := repository.NewAuditRepository(db)

	routeService := service.NewRouteService(locations, schedules, sessions, audit)
	rollCallService := service.NewRollCallService(sessions, verifications, audit)
	scheduleService := service.NewScheduleService(schedules)
	engine := decision.NewEngine(cfg.Thresholds)
	// TODO: swap the static provider for the gRPC face service once its
	// endpoint is deployed
	verificationService := service.NewVerificationService(facematch.NewStaticProvider(0.9), persons, engine)

	backlog := queue.New(db)

	router := api.SetupRouter(cfg, api.Handlers{
		Locations:     handler.NewLocationHandler(locations),
		Schedule:      handler.NewScheduleHandler(scheduleService),
		Routes:        handler.NewRouteHandler(routeService),
		RollCalls:     handler.NewRollCallHandler(rollCallService, backlog),
		Verifications: handler.NewVerificationHandler(verificationService),
		Audit:         handler.NewAuditHandler(audit),
	})

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
