package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediadash/internal/adapters/jellyfin"
	"mediadash/internal/adapters/jellyseerr"
	"mediadash/internal/adapters/qbittorrent"
	"mediadash/internal/adapters/radarr"
	"mediadash/internal/adapters/sonarr"
	"mediadash/internal/adapters/weather"
	"mediadash/internal/config"
	"mediadash/internal/httpserver"
	"mediadash/internal/httpserver/deps"
	"mediadash/internal/logger"
	"mediadash/internal/status"
	"mediadash/internal/sysmetrics"
	"mediadash/internal/upstream"
	"mediadash/internal/version"
)

type App struct {
	cfg    *config.Config
	logger logger.Logger
	server *httpserver.Server
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	httpc := upstream.NewClient()

	sonarrClient := sonarr.New(cfg.Sonarr, httpc)
	radarrClient := radarr.New(cfg.Radarr, httpc)
	qbClient := qbittorrent.New(cfg.QBittorrent, httpc)
	jellyfinClient := jellyfin.New(cfg.Jellyfin, httpc)
	jellyseerrClient := jellyseerr.New(cfg.Jellyseerr, httpc)
	weatherClient := weather.New(cfg.Weather, httpc)

	aggregator := status.New(
		status.Probe{Name: "Sonarr", Check: sonarrClient.Status},
		status.Probe{Name: "Radarr", Check: radarrClient.Status},
		status.Probe{Name: "qBittorrent", Check: qbClient.Status},
		status.Probe{Name: "Jellyfin", Check: jellyfinClient.Status},
		status.Probe{Name: "Jellyseerr", Check: jellyseerrClient.Status},
	)

	// The system card borrows the torrent client's global speeds when that
	// integration is up; the collector falls back to interface counters.
	collector := sysmetrics.New(func(ctx context.Context) (float64, float64, error) {
		info, err := qbClient.Transfer(ctx)
		if err != nil {
			return 0, 0, err
		}
		return float64(info.DLSpeed), float64(info.UPSpeed), nil
	})

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		Title:          cfg.Title,
		RefreshSeconds: cfg.RefreshSeconds,
		Links:          cfg.Links,
		Disks:          cfg.Disks,
		StaticDir:      cfg.StaticDir,
		Sonarr:         sonarrClient,
		Radarr:         radarrClient,
		QBittorrent:    qbClient,
		Jellyfin:       jellyfinClient,
		Jellyseerr:     jellyseerrClient,
		Weather:        weatherClient,
		Status:         aggregator,
		Metrics:        collector,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:    cfg,
		logger: loggerClient,
		server: server,
	}
}

func (a *App) Run() error {
	a.logger.Infof("Starting mediadash %s on %s", version.Version, a.cfg.ListenAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("mediadash stopped cleanly")
	return nil
}
