package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/studyset-api/internal/api"
	apiMiddleware "github.com/phrazzld/studyset-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	setHandler := api.NewSetHandler(app.setService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// The public listing sits outside the auth gate.
		r.Get("/sets/public", setHandler.ListPublicSets)

		// Everything else requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/sets", setHandler.ListSets)
			r.Post("/sets", setHandler.CreateSet)
			r.Get("/sets/{id}", setHandler.GetSet)
			r.Put("/sets/{id}", setHandler.UpdateSet)
			r.Delete("/sets/{id}", setHandler.DeleteSet)

			r.Post("/sets/{id}/cards", setHandler.AddCard)
			r.Put("/sets/{id}/cards/{cardId}", setHandler.UpdateCard)
			r.Delete("/sets/{id}/cards/{cardId}", setHandler.RemoveCard)
			r.Post("/sets/{id}/cards/{cardId}/review", setHandler.RecordReview)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
