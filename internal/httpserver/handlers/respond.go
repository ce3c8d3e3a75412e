package handlers

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"mediadash/internal/logger"
	"mediadash/internal/upstream"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorDetail struct {
	Kind        string `json:"kind"`
	Service     string `json:"service,omitempty"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Body        string `json:"body,omitempty"`
	Message     string `json:"message"`
}

// writeError maps the upstream error taxonomy onto HTTP statuses:
// not configured -> 503, everything upstream-shaped -> 502. The structured
// detail is for the dashboard's own diagnostics, never end users.
func writeError(l logger.Logger, w http.ResponseWriter, err error) {
	ue, ok := upstream.AsError(err)
	if !ok {
		l.Error("handler error", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": errorDetail{Kind: "internal", Message: "internal error"},
		})
		return
	}

	if ue.Kind == upstream.KindNotConfigured {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error": errorDetail{
				Kind:    ue.Kind.String(),
				Service: ue.Service,
				Message: ue.Service + " not configured on server",
			},
		})
		return
	}

	l.Warn("upstream error",
		logger.String("service", ue.Service),
		logger.String("kind", ue.Kind.String()),
		logger.Int("status", ue.Status),
		logger.Error(err),
	)
	writeJSON(w, http.StatusBadGateway, map[string]any{
		"error": errorDetail{
			Kind:        ue.Kind.String(),
			Service:     ue.Service,
			Status:      ue.Status,
			ContentType: ue.ContentType,
			Body:        ue.Body,
			Message:     ue.Error(),
		},
	})
}

// queryInt reads an integer query parameter, falling back to def on absence
// or garbage. Range policy belongs to the adapters, not the router.
func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
