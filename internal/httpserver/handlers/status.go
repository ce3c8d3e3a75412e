package handlers

import (
	"net/http"

	"mediadash/internal/httpserver/deps"
)

func Status(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Status.Check(r.Context()))
	}
}
