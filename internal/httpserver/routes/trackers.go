package routes

import (
	"github.com/go-chi/chi/v5"

	"mediadash/internal/httpserver/deps"
	"mediadash/internal/httpserver/handlers"
)

func init() { Register(registerTrackers) }

func registerTrackers(r chi.Router, d deps.Deps) {
	r.Get("/api/sonarr/upcoming", handlers.SonarrUpcoming(d))
	r.Get("/api/sonarr/importing", handlers.SonarrImporting(d))
	r.Get("/api/sonarr/library/today", handlers.SonarrLibraryToday(d))

	r.Get("/api/radarr/upcoming", handlers.RadarrUpcoming(d))
	r.Get("/api/radarr/soon", handlers.RadarrSoon(d))
	r.Get("/api/radarr/importing", handlers.RadarrImporting(d))
	r.Get("/api/radarr/library/today", handlers.RadarrLibraryToday(d))

	r.Get("/api/scans", handlers.Scans(d))
}
