package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mediadash/internal/httpserver/deps"
)

func init() { Register(registerStatic) }

// registerStatic serves the single-page dashboard when a static directory
// is configured. The UI itself is an external collaborator; this service
// only hands out its files.
func registerStatic(r chi.Router, d deps.Deps) {
	if d.StaticDir == "" {
		return
	}
	fs := http.FileServer(http.Dir(d.StaticDir))
	r.Handle("/*", fs)
}
