package routes

import (
	"github.com/go-chi/chi/v5"

	"mediadash/internal/httpserver/deps"
	"mediadash/internal/httpserver/handlers"
)

func init() { Register(registerJellyfin) }

func registerJellyfin(r chi.Router, d deps.Deps) {
	r.Get("/api/jellyfin/latest", handlers.JellyfinLatest(d))
	r.Get("/api/jellyfin/items/{id}/image", handlers.JellyfinImage(d))
}
