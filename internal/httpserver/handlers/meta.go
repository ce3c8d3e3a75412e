package handlers

import (
	"net"
	"net/http"

	"mediadash/internal/config"
	"mediadash/internal/httpserver/deps"
)

type metaResponse struct {
	Title          string `json:"title"`
	RefreshSeconds int    `json:"refreshSeconds"`
}

func Meta(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metaResponse{
			Title:          d.Title,
			RefreshSeconds: d.RefreshSeconds,
		})
	}
}

// defaultLinks templates the usual six services onto the host the browser
// reached us on, for zero-config installs where everything shares a box.
func defaultLinks(host string) []config.Link {
	base := "http://" + host
	return []config.Link{
		{Label: "Jellyfin", URL: base + ":8096"},
		{Label: "Jellyseerr", URL: base + ":5055"},
		{Label: "Sonarr", URL: base + ":8989"},
		{Label: "Radarr", URL: base + ":7878"},
		{Label: "Prowlarr", URL: base + ":9696"},
		{Label: "qBittorrent", URL: base + ":8080"},
	}
}

func Links(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		links := d.Links
		if len(links) == 0 {
			host := hostOnly(r.Host)
			if host == "" {
				host = "localhost"
			}
			links = defaultLinks(host)
		}
		writeJSON(w, http.StatusOK, map[string]any{"links": links})
	}
}

func hostOnly(hostport string) string {
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		return h
	}
	return hostport
}
