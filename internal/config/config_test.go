package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLinksInlineJSON(t *testing.T) {
	tests := []struct {
		name   string
		inline string
		want   int
	}{
		{
			name:   "valid list",
			inline: `[{"label":"Jellyfin","url":"http://box:8096"},{"label":"Sonarr","url":"http://box:8989"}]`,
			want:   2,
		},
		{
			name:   "entries without url dropped",
			inline: `[{"label":"Jellyfin","url":""},{"label":"Sonarr","url":"http://box:8989"}]`,
			want:   1,
		},
		{
			name:   "malformed json is empty, not fatal",
			inline: `{"label":"broken"`,
			want:   0,
		},
		{
			name:   "empty input",
			inline: "",
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := loadLinks("", tt.inline)
			if len(got) != tt.want {
				t.Errorf("loadLinks() returned %d links, want %d", len(got), tt.want)
			}
		})
	}
}

func TestLoadLinksFileWinsOverInline(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "links.yaml")
	yaml := "- label: Jellyfin\n  url: http://box:8096\n"
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	got := loadLinks(file, `[{"label":"Inline","url":"http://inline"}]`)
	if len(got) != 1 || got[0].Label != "Jellyfin" {
		t.Errorf("loadLinks() = %+v, want the YAML file entry", got)
	}
}

func TestParseDisks(t *testing.T) {
	got := parseDisks(`[{"label":"Root","path":"/"},{"label":"","path":"/mnt"}]`)
	if len(got) != 1 || got[0].Path != "/" {
		t.Errorf("parseDisks() = %+v, want a single valid mount", got)
	}
}

func TestWeatherConfigured(t *testing.T) {
	lat, lon := 48.85, 2.35
	tests := []struct {
		name string
		s    WeatherSettings
		want bool
	}{
		{"both coordinates", WeatherSettings{Latitude: &lat, Longitude: &lon}, true},
		{"latitude only", WeatherSettings{Latitude: &lat}, false},
		{"none", WeatherSettings{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Configured(); got != tt.want {
				t.Errorf("Configured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadToleratesEmptyEnvironment(t *testing.T) {
	// No DASH_* variables set: every integration must come back
	// unconfigured without panicking.
	cfg := Load()
	if cfg.Sonarr.Configured() || cfg.QBittorrent.Configured() || cfg.Weather.Configured() {
		t.Error("Load() with empty env reported a configured integration")
	}
	if cfg.ListenAddr == "" {
		t.Error("Load() returned empty ListenAddr, want default")
	}
}
