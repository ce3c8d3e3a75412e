package handlers

import (
	"net/http"
	"sort"

	"mediadash/internal/adapters/arr"
	"mediadash/internal/httpserver/deps"
	"mediadash/internal/logger"
	"mediadash/internal/upstream"
)

// Scans merges the currently-importing queues of both trackers into one
// activity strip. Each tracker fails independently: an unreachable Radarr
// still leaves the Sonarr rows visible.
func Scans(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 20)

		sources := []func() ([]arr.ImportingItem, error){
			func() ([]arr.ImportingItem, error) { return d.Sonarr.Importing(r.Context(), 0) },
			func() ([]arr.ImportingItem, error) { return d.Radarr.Importing(r.Context(), 0) },
		}

		items := make([]arr.ImportingItem, 0)
		for _, src := range sources {
			part, err := src()
			if err != nil {
				if !upstream.IsNotConfigured(err) {
					d.Logger.Warn("scan source failed", logger.Error(err))
				}
				continue
			}
			items = append(items, part...)
		}

		sort.Slice(items, func(i, j int) bool {
			if items[i].TimeLeft != items[j].TimeLeft {
				if items[i].TimeLeft == "" {
					return false
				}
				if items[j].TimeLeft == "" {
					return true
				}
				return items[i].TimeLeft < items[j].TimeLeft
			}
			return items[i].Title < items[j].Title
		})

		if limit > 0 && len(items) > limit {
			items = items[:limit]
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"count": len(items),
			"items": items,
		})
	}
}
