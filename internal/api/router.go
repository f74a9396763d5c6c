// internal/api/router.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter wires all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	// Prometheus exposition stays at the root path so a stock scrape
	// config works unchanged.
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/status", s.handleStatus)

		// Device commands
		r.Post("/power", s.handlePower)
		r.Post("/setpoint", s.handleSetpoint)
		r.Post("/auto-mode-offset", s.handleAutoModeOffset)
		r.Post("/lg-mode", s.handleLGMode)

		// Curve control loop
		r.Route("/ai-mode", func(r chi.Router) {
			r.Get("/", s.handleAIModeGet)
			r.Post("/", s.handleAIModeSet)
			r.Post("/reload-config", s.handleReloadPolicy)
		})

		// Schedules
		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", s.handleScheduleGet)
			r.Post("/reload", s.handleScheduleReload)
		})

		// Debug
		r.Get("/registers/raw", s.handleRawRegisters)
	})

	return r
}
