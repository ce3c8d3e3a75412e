package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ArrSettings configures a Sonarr- or Radarr-style upstream.
type ArrSettings struct {
	URL    string
	APIKey string
}

func (s ArrSettings) Configured() bool { return s.URL != "" && s.APIKey != "" }

type QBittorrentSettings struct {
	URL      string
	Username string
	Password string
}

func (s QBittorrentSettings) Configured() bool {
	return s.URL != "" && s.Username != "" && s.Password != ""
}

type JellyfinSettings struct {
	URL         string
	APIKey      string
	UserID      string
	LatestLimit int
}

func (s JellyfinSettings) Configured() bool { return s.URL != "" && s.APIKey != "" }

type JellyseerrSettings struct {
	URL    string
	APIKey string
}

func (s JellyseerrSettings) Configured() bool { return s.URL != "" && s.APIKey != "" }

// WeatherSettings is complete only when both coordinates are present.
// An absent pair means the weather card is disabled, not misconfigured.
type WeatherSettings struct {
	Latitude  *float64
	Longitude *float64
	Label     string
	Timezone  string
}

func (s WeatherSettings) Configured() bool { return s.Latitude != nil && s.Longitude != nil }

// Link is one quick-navigation entry shown on the dashboard.
type Link struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// DiskMount is a filesystem path whose usage is reported by /api/system.
type DiskMount struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type Config struct {
	ListenAddr      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	Title          string // dashboard title reported by /api/meta
	RefreshSeconds int    // client poll interval reported by /api/meta
	StaticDir      string // directory served at /, empty = API only

	Sonarr      ArrSettings
	Radarr      ArrSettings
	QBittorrent QBittorrentSettings
	Jellyfin    JellyfinSettings
	Jellyseerr  JellyseerrSettings
	Weather     WeatherSettings

	Links []Link      // empty = default set templated from the request host
	Disks []DiskMount // mounts shown on the system card
}

// Load reads DASH_* environment variables. Missing service credentials are
// not an error here; each adapter rejects requests for its own service when
// its settings are incomplete.
func Load() *Config {
	cfg := &Config{
		ListenAddr:      getenv("DASH_LISTEN_ADDR", ":8080"),
		ShutdownTimeout: mustDuration("DASH_SHUTDOWN_TIMEOUT", 5*time.Second),

		LogLevel:  getenv("DASH_LOG_LEVEL", "info"),
		PrettyLog: mustBool("DASH_PRETTY_LOG", false),

		Title:          getenv("DASH_TITLE", "Media Dashboard"),
		RefreshSeconds: getenvInt("DASH_REFRESH_SECONDS", 45),
		StaticDir:      getenv("DASH_STATIC_DIR", ""),

		Sonarr: ArrSettings{
			URL:    getenv("DASH_SONARR_URL", ""),
			APIKey: getenv("DASH_SONARR_API_KEY", ""),
		},
		Radarr: ArrSettings{
			URL:    getenv("DASH_RADARR_URL", ""),
			APIKey: getenv("DASH_RADARR_API_KEY", ""),
		},
		QBittorrent: QBittorrentSettings{
			URL:      getenv("DASH_QBITTORRENT_URL", ""),
			Username: getenv("DASH_QBITTORRENT_USERNAME", ""),
			Password: getenv("DASH_QBITTORRENT_PASSWORD", ""),
		},
		Jellyfin: JellyfinSettings{
			URL:         getenv("DASH_JELLYFIN_URL", ""),
			APIKey:      getenv("DASH_JELLYFIN_API_KEY", ""),
			UserID:      getenv("DASH_JELLYFIN_USER_ID", ""),
			LatestLimit: getenvInt("DASH_JELLYFIN_LATEST_LIMIT", 12),
		},
		Jellyseerr: JellyseerrSettings{
			URL:    getenv("DASH_JELLYSEERR_URL", ""),
			APIKey: getenv("DASH_JELLYSEERR_API_KEY", ""),
		},
		Weather: WeatherSettings{
			Latitude:  getenvFloat("DASH_WEATHER_LAT"),
			Longitude: getenvFloat("DASH_WEATHER_LON"),
			Label:     getenv("DASH_WEATHER_LABEL", ""),
			Timezone:  getenv("DASH_WEATHER_TIMEZONE", "auto"),
		},
	}

	cfg.Links = loadLinks(getenv("DASH_LINKS_FILE", ""), getenv("DASH_LINKS_JSON", ""))
	cfg.Disks = parseDisks(getenv("DASH_DISKS_JSON", ""))

	return cfg
}

// loadLinks prefers the YAML file when one is set and readable, otherwise
// falls back to the inline JSON variable. Malformed input yields an empty
// list so the /api/links host-templated defaults kick in.
func loadLinks(file, inline string) []Link {
	if file != "" {
		if raw, err := os.ReadFile(file); err == nil {
			var links []Link
			if yaml.Unmarshal(raw, &links) == nil {
				return validLinks(links)
			}
		}
	}
	if inline == "" {
		return nil
	}
	var links []Link
	if json.Unmarshal([]byte(inline), &links) != nil {
		return nil
	}
	return validLinks(links)
}

func validLinks(in []Link) []Link {
	out := make([]Link, 0, len(in))
	for _, l := range in {
		l.Label = strings.TrimSpace(l.Label)
		l.URL = strings.TrimSpace(l.URL)
		if l.Label != "" && l.URL != "" {
			out = append(out, l)
		}
	}
	return out
}

func parseDisks(inline string) []DiskMount {
	if inline == "" {
		return nil
	}
	var disks []DiskMount
	if json.Unmarshal([]byte(inline), &disks) != nil {
		return nil
	}
	out := make([]DiskMount, 0, len(disks))
	for _, d := range disks {
		d.Label = strings.TrimSpace(d.Label)
		d.Path = strings.TrimSpace(d.Path)
		if d.Label != "" && d.Path != "" {
			out = append(out, d)
		}
	}
	return out
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string) *float64 {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
