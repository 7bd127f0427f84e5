package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"csvreport/internal/analysis"
	"csvreport/internal/api"
	"csvreport/internal/config"
	"csvreport/internal/logging"
)

func main() {
	cfg := config.Load()
	log := logging.NewLogger(cfg.LogLevel)
	defer log.Sync()

	// Initialize Services
	reportService := analysis.NewReportService(log)

	// Initialize Handler
	handler := api.NewHandler(reportService, log, cfg.MaxUploadBytes, cfg.DBPreviewRows)

	// Router Setup
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS - Allow frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Register all API Routes
	handler.RegisterRoutes(r)

	log.Infof("Starting report server on http://localhost:%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
