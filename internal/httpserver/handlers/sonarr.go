package handlers

import (
	"net/http"

	"mediadash/internal/httpserver/deps"
)

func SonarrUpcoming(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := queryInt(r, "days", 7)
		limit := queryInt(r, "limit", 10)

		items, err := d.Sonarr.Upcoming(r.Context(), days, limit)
		if err != nil {
			writeError(d.Logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"rangeDays": days,
			"count":     len(items),
			"items":     items,
		})
	}
}

func SonarrImporting(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 10)

		items, err := d.Sonarr.Importing(r.Context(), limit)
		if err != nil {
			writeError(d.Logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"count": len(items),
			"items": items,
		})
	}
}

func SonarrLibraryToday(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 20)

		items, err := d.Sonarr.LibraryToday(r.Context(), limit)
		if err != nil {
			writeError(d.Logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"count": len(items),
			"items": items,
		})
	}
}
