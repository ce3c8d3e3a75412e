package handlers

import (
	"net/http"

	"mediadash/internal/httpserver/deps"
)

var knownTorrentFilters = map[string]bool{
	"all":         true,
	"downloading": true,
	"seeding":     true,
	"completed":   true,
	"active":      true,
}

func QBittorrentTorrents(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("filter")
		if filter == "" || !knownTorrentFilters[filter] {
			filter = "active"
		}
		// Absent limit means unbounded; the adapter caps explicit ones at 50.
		limit := queryInt(r, "limit", 0)

		items, err := d.QBittorrent.Torrents(r.Context(), filter, limit)
		if err != nil {
			writeError(d.Logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"filter": filter,
			"count":  len(items),
			"items":  items,
		})
	}
}
