package routes

import (
	"github.com/go-chi/chi/v5"

	"mediadash/internal/httpserver/deps"
	"mediadash/internal/httpserver/handlers"
)

func init() { Register(registerQBittorrent) }

func registerQBittorrent(r chi.Router, d deps.Deps) {
	r.Get("/api/qbittorrent/torrents", handlers.QBittorrentTorrents(d))
}
