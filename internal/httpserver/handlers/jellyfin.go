package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mediadash/internal/httpserver/deps"
)

func JellyfinLatest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 0)

		items, err := d.Jellyfin.Latest(r.Context(), limit)
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

// JellyfinImage proxies the primary image through so the browser never
// needs the API token. Images get a short public cache lifetime; they are
// the only cacheable payload this service emits.
func JellyfinImage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := chi.URLParam(r, "id")
		maxHeight := queryInt(r, "maxHeight", 240)
		quality := queryInt(r, "quality", 80)

		img, err := d.Jellyfin.PrimaryImage(r.Context(), itemID, maxHeight, quality)
		if err != nil {
			writeError(d.Logger, w, err)
			return
		}

		w.Header().Set("Content-Type", img.ContentType)
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(img.Data)
	}
}
