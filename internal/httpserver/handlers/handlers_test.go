package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"mediadash/internal/adapters/radarr"
	"mediadash/internal/adapters/sonarr"
	"mediadash/internal/config"
	"mediadash/internal/httpserver/deps"
	"mediadash/internal/logger"
	"mediadash/internal/upstream"
)

func TestLinksFallsBackToRequestHost(t *testing.T) {
	h := Links(deps.Deps{})
	r := httptest.NewRequest(http.MethodGet, "/api/links", nil)
	r.Host = "mediabox.local:8081"
	w := httptest.NewRecorder()
	h(w, r)

	var body struct {
		Links []config.Link `json:"links"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Links) != 6 {
		t.Fatalf("len(links) = %d, want the six defaults", len(body.Links))
	}
	for _, l := range body.Links {
		if !strings.HasPrefix(l.URL, "http://mediabox.local:") {
			t.Errorf("link %s = %q, want templated on the request host without its port", l.Label, l.URL)
		}
	}
}

func TestLinksPrefersConfigured(t *testing.T) {
	configured := []config.Link{{Label: "Wiki", URL: "https://wiki.example"}}
	h := Links(deps.Deps{Links: configured})
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/api/links", nil))

	var body struct {
		Links []config.Link `json:"links"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Links) != 1 || body.Links[0].Label != "Wiki" {
		t.Errorf("links = %+v, want the configured list untouched", body.Links)
	}
}

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"not configured", upstream.NotConfigured("radarr"), http.StatusServiceUnavailable, "not_configured"},
		{"rejected", &upstream.Error{Service: "sonarr", Kind: upstream.KindRejected, Status: 401}, http.StatusBadGateway, "rejected"},
		{"malformed", &upstream.Error{Service: "sonarr", Kind: upstream.KindMalformed}, http.StatusBadGateway, "malformed"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(logger.NewNop(), w, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body struct {
				Error errorDetail `json:"error"`
			}
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", body.Error.Kind, tt.wantKind)
			}
		})
	}
}

func TestScansMergesTrackersAndSkipsUnconfigured(t *testing.T) {
	sonarrSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"records":[
			{"title":"Show S01E01","status":"completed","trackedDownloadState":"importPending","timeleft":"00:01:00"},
			{"title":"Show S01E02","status":"downloading","trackedDownloadState":"downloading","timeleft":"00:10:00"}
		]}`))
	}))
	defer sonarrSrv.Close()

	httpc := upstream.NewClient()
	d := deps.Deps{
		Logger: logger.NewNop(),
		Sonarr: sonarr.New(config.ArrSettings{URL: sonarrSrv.URL, APIKey: "key"}, httpc),
		Radarr: radarr.New(config.ArrSettings{}, httpc), // unconfigured, skipped silently
	}

	w := httptest.NewRecorder()
	Scans(d)(w, httptest.NewRequest(http.MethodGet, "/api/scans", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with one tracker unconfigured", w.Code)
	}
	var body struct {
		Count int `json:"count"`
		Items []struct {
			Service string `json:"service"`
			Title   string `json:"title"`
		} `json:"items"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 1 {
		t.Fatalf("count = %d, want only the importing record", body.Count)
	}
	if body.Items[0].Service != "sonarr" || body.Items[0].Title != "Show S01E01" {
		t.Errorf("item = %+v, want the sonarr import row", body.Items[0])
	}
}

func TestQueryIntFallsBack(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"/x?days=12", 12},
		{"/x?days=garbage", 7},
		{"/x", 7},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.raw, nil)
		if got := queryInt(r, "days", 7); got != tt.want {
			t.Errorf("queryInt(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}
