package routes

import (
	"github.com/go-chi/chi/v5"

	"mediadash/internal/httpserver/deps"
	"mediadash/internal/httpserver/handlers"
)

func init() { Register(registerMeta) }

func registerMeta(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.Get("/api/meta", handlers.Meta(d))
	r.Get("/api/links", handlers.Links(d))
}
