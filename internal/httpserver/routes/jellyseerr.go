package routes

import (
	"github.com/go-chi/chi/v5"

	"mediadash/internal/httpserver/deps"
	"mediadash/internal/httpserver/handlers"
)

func init() { Register(registerJellyseerr) }

func registerJellyseerr(r chi.Router, d deps.Deps) {
	r.Get("/api/jellyseerr/search", handlers.JellyseerrSearch(d))
	r.Get("/api/jellyseerr/tv/{id}", handlers.JellyseerrTV(d))
	r.Post("/api/jellyseerr/request", handlers.JellyseerrRequest(d))
}
