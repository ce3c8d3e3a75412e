package routes

import (
	"github.com/go-chi/chi/v5"

	"mediadash/internal/httpserver/deps"
	"mediadash/internal/httpserver/handlers"
)

func init() { Register(registerStatus) }

func registerStatus(r chi.Router, d deps.Deps) {
	r.Get("/api/status", handlers.Status(d))
	r.Get("/api/system", handlers.System(d))
}
