package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"mediadash/internal/adapters/jellyseerr"
	"mediadash/internal/httpserver/deps"
)

func JellyseerrSearch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		mediaType := r.URL.Query().Get("type")

		items, err := d.Jellyseerr.Search(r.Context(), query, mediaType)
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

func JellyseerrTV(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": errorDetail{Kind: "bad_request", Message: "invalid tv id"},
			})
			return
		}

		detail, err := d.Jellyseerr.TV(r.Context(), id)
		if err != nil {
			writeError(d.Logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

func JellyseerrRequest(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in jellyseerr.RequestInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": errorDetail{Kind: "bad_request", Message: "invalid request body"},
			})
			return
		}
		if in.MediaID == 0 || (in.MediaType != "movie" && in.MediaType != "tv") {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": errorDetail{Kind: "bad_request", Message: "mediaId and mediaType (movie|tv) are required"},
			})
			return
		}

		resp, err := d.Jellyseerr.CreateRequest(r.Context(), in)
		if err != nil {
			writeError(d.Logger, w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"result": resp})
	}
}
