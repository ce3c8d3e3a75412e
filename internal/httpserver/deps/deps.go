package deps

import (
	"time"

	"mediadash/internal/adapters/jellyfin"
	"mediadash/internal/adapters/jellyseerr"
	"mediadash/internal/adapters/qbittorrent"
	"mediadash/internal/adapters/radarr"
	"mediadash/internal/adapters/sonarr"
	"mediadash/internal/adapters/weather"
	"mediadash/internal/config"
	"mediadash/internal/logger"
	"mediadash/internal/status"
	"mediadash/internal/sysmetrics"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	Title          string        // dashboard title for /api/meta
	RefreshSeconds int           // poll cadence for /api/meta
	Links          []config.Link // configured quick links, empty = host defaults
	Disks          []config.DiskMount
	StaticDir      string // directory served at /, empty disables the UI

	Sonarr      *sonarr.Client
	Radarr      *radarr.Client
	QBittorrent *qbittorrent.Client
	Jellyfin    *jellyfin.Client
	Jellyseerr  *jellyseerr.Client
	Weather     *weather.Client

	Status  *status.Aggregator
	Metrics *sysmetrics.Collector
}
