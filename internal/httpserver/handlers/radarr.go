package handlers

import (
	"net/http"

	"mediadash/internal/httpserver/deps"
)

func RadarrUpcoming(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := queryInt(r, "days", 14)
		limit := queryInt(r, "limit", 10)

		items, err := d.Radarr.Upcoming(r.Context(), days, limit)
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

func RadarrSoon(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		daysFuture := queryInt(r, "days_future", 365)
		limit := queryInt(r, "limit", 20)

		items, err := d.Radarr.Soon(r.Context(), daysFuture, limit)
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

func RadarrImporting(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 10)

		items, err := d.Radarr.Importing(r.Context(), limit)
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

func RadarrLibraryToday(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 20)

		items, err := d.Radarr.LibraryToday(r.Context(), limit)
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
