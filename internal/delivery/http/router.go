// Package http wires the ops API routes.
package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"announcebot/internal/delivery/http/controllers"
	_ "announcebot/internal/delivery/http/docs"
	"announcebot/internal/delivery/http/middleware"
	"announcebot/internal/domain"
)

// RouterConfig collects what NewRouter needs. A nil Verifier leaves /api/*
// open.
type RouterConfig struct {
	Logger         *slog.Logger
	Health         *controllers.HealthController
	Schedule       *controllers.ScheduleController
	Verifier       domain.TokenVerifier
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)

	mux.HandleFunc("GET /health", cfg.Health.Health)

	// API Routes
	mux.HandleFunc("GET /api/pending", auth(cfg.Schedule.ListPending))
	mux.HandleFunc("GET /api/recurring", auth(cfg.Schedule.ListRecurring))
	mux.HandleFunc("GET /api/calendar.ics", auth(cfg.Schedule.Calendar))
	mux.HandleFunc("POST /api/match", auth(cfg.Schedule.Match))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(cfg.Logger, middleware.CORS(cfg.AllowedOrigins, mux))
}
