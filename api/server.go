/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/shifts/*         Shift logging
  /api/pay-tiers/*      Pay tier management
  /api/summary          Aggregation
  /api/navigator/*      Calendar navigator sessions
  /api/backup           Import / export
  /api/scenarios/*      Demo scenarios

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. allowedOrigins
// feeds the CORS middleware.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Shift routes
		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.ListShifts)
			r.Post("/", h.CreateShift)
			r.Get("/{id}", h.GetShift)
			r.Put("/{id}", h.UpdateShift)
			r.Delete("/{id}", h.DeleteShift)
		})
		r.Post("/overlap-check", h.CheckOverlap)

		// Pay tier routes
		r.Route("/pay-tiers", func(r chi.Router) {
			r.Get("/", h.ListPayTiers)
			r.Post("/", h.CreatePayTier)
			r.Put("/{id}", h.UpdatePayTier)
			r.Delete("/{id}", h.DeletePayTier)
		})

		// Reporting routes
		r.Get("/categories", h.ListCategories)
		r.Get("/summary", h.GetSummary)

		// Navigator routes
		r.Route("/navigator", func(r chi.Router) {
			r.Post("/", h.CreateNavigator)
			r.Get("/{id}", h.GetNavigator)
			r.Delete("/{id}", h.DeleteNavigator)
			r.Post("/{id}/granularity", h.SetNavigatorGranularity)
			r.Post("/{id}/select", h.SelectNavigatorDate)
			r.Post("/{id}/range", h.SetNavigatorRange)
			r.Post("/{id}/filter", h.SetNavigatorFilter)
			r.Post("/{id}/clear-range", h.ClearNavigatorRange)
			r.Post("/{id}/next", h.NavigatorNext)
			r.Post("/{id}/prev", h.NavigatorPrev)
		})

		// Backup routes
		r.Get("/backup", h.ExportBackup)
		r.Post("/backup", h.ImportBackup)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Shiftbook</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Shiftbook API</h1>
<ul>
<li><a href="/api/shifts">/api/shifts</a> - List shifts</li>
<li><a href="/api/pay-tiers">/api/pay-tiers</a> - List pay tiers</li>
<li><a href="/api/summary">/api/summary</a> - Current month summary</li>
<li><a href="/api/scenarios">/api/scenarios</a> - List scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}
