package main

import (
	"flag"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/robotica-events/robojudge/internal/app"
	"github.com/robotica-events/robojudge/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	authHandler := handlers.NewAuthHandler(service)
	adminHandler := handlers.NewAdminHandler(service)
	judgingHandler := handlers.NewJudgingHandler(service)
	healthHandler := handlers.NewHealthHandler(service)

	http.HandleFunc("POST /api/v1/login", authHandler.HandleLogin)
	http.HandleFunc("POST /api/v1/logout", authHandler.HandleLogout)

	http.HandleFunc("GET /api/v1/admin/dashboard", adminHandler.HandleDashboard)
	http.HandleFunc("GET /api/v1/admin/staff", adminHandler.HandleListStaff)
	http.HandleFunc("POST /api/v1/admin/staff", adminHandler.HandleCreateStaff)
	http.HandleFunc("DELETE /api/v1/admin/staff/{id}", adminHandler.HandleDeleteStaff)
	http.HandleFunc("GET /api/v1/admin/participants", adminHandler.HandleListParticipants)
	http.HandleFunc("POST /api/v1/admin/participants/import", adminHandler.HandleImport)
	http.HandleFunc("DELETE /api/v1/admin/participants/{id}", adminHandler.HandleDeleteParticipant)
	http.HandleFunc("GET /api/v1/admin/reports", adminHandler.HandleReports)
	http.HandleFunc("GET /api/v1/admin/export", adminHandler.HandleExport)

	http.HandleFunc("GET /api/v1/staff/dashboard", judgingHandler.HandleDashboard)
	http.HandleFunc("GET /api/v1/participants/{external_id}", judgingHandler.HandleProbe)
	http.HandleFunc("POST /api/v1/evaluations", judgingHandler.HandleSubmit)

	http.HandleFunc("GET /health", healthHandler.HandleHealth)
	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting robojudge server on %s", service.Config.Server.Port)
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Robojudge server failed: %v", err)
	}
}
