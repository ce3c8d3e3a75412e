package radarr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"mediadash/internal/config"
	"mediadash/internal/upstream"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
}

func TestReleaseDatePrecedence(t *testing.T) {
	tests := []struct {
		name string
		m    movie
		want string
	}{
		{"digital wins", movie{DigitalRelease: "2025-03-01", PhysicalRelease: "2025-04-01", InCinemas: "2025-01-01"}, "2025-03-01"},
		{"physical next", movie{PhysicalRelease: "2025-04-01", InCinemas: "2025-01-01"}, "2025-04-01"},
		{"cinema next", movie{InCinemas: "2025-01-01", PremiereDate: "2024-12-01"}, "2025-01-01"},
		{"premiere last", movie{PremiereDate: "2024-12-01"}, "2024-12-01"},
		{"nothing known", movie{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := releaseDate(tt.m); got != tt.want {
				t.Errorf("releaseDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func soonServer(t *testing.T, movies, queue string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v3/movie":
			_, _ = w.Write([]byte(movies))
		case "/api/v3/queue":
			_, _ = w.Write([]byte(queue))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newSoonClient(url string) *Client {
	c := New(config.ArrSettings{URL: url, APIKey: "key"}, upstream.NewClient())
	c.Now = fixedNow
	return c
}

func TestSoonClassification(t *testing.T) {
	movies := `[
		{"id":1,"title":"InQueue","monitored":true,"hasFile":true,"digitalRelease":"2025-05-01"},
		{"id":2,"title":"HasFileNotQueued","monitored":true,"hasFile":true,"digitalRelease":"2025-05-01"},
		{"id":3,"title":"Unmonitored","monitored":false,"hasFile":false,"digitalRelease":"2025-05-01"},
		{"id":4,"title":"MissingOne","monitored":true,"hasFile":false,"digitalRelease":"2025-06-01"},
		{"id":5,"title":"FutureOne","monitored":true,"hasFile":false,"digitalRelease":"2025-07-01"},
		{"id":6,"title":"FarFuture","monitored":true,"hasFile":false,"digitalRelease":"2030-01-01"}
	]`
	queue := `{"records":[{"movieId":1,"title":"InQueue","status":"downloading"}]}`

	ts := soonServer(t, movies, queue)
	defer ts.Close()

	items, err := newSoonClient(ts.URL).Soon(context.Background(), 60, 50)
	if err != nil {
		t.Fatalf("Soon() error = %v", err)
	}

	got := map[string]string{}
	for _, it := range items {
		got[it.Title] = it.Category
	}

	if got["InQueue"] != CategoryQueued {
		t.Errorf("InQueue category = %q, want Queued (hasFile + in queue)", got["InQueue"])
	}
	if _, present := got["HasFileNotQueued"]; present {
		t.Error("HasFileNotQueued present, want excluded (file on disk, not queued)")
	}
	if _, present := got["Unmonitored"]; present {
		t.Error("Unmonitored present, want excluded regardless of file/queue state")
	}
	if got["MissingOne"] != CategoryMissing {
		t.Errorf("MissingOne category = %q, want Missing", got["MissingOne"])
	}
	if got["FutureOne"] != CategoryUnreleased {
		t.Errorf("FutureOne category = %q, want Unreleased", got["FutureOne"])
	}
	if _, present := got["FarFuture"]; present {
		t.Error("FarFuture present, want dropped beyond the 60-day horizon")
	}
}

func TestSoonHorizonClampAndSort(t *testing.T) {
	movies := `[
		{"id":1,"title":"NoDate","monitored":true,"hasFile":false},
		{"id":2,"title":"B-Movie","monitored":true,"hasFile":false,"digitalRelease":"2025-06-01"},
		{"id":3,"title":"A-Movie","monitored":true,"hasFile":false,"digitalRelease":"2025-06-01"},
		{"id":4,"title":"WayOut","monitored":true,"hasFile":false,"digitalRelease":"2035-06-01"}
	]`
	queue := `{"records":[]}`

	ts := soonServer(t, movies, queue)
	defer ts.Close()

	// days_future far over the cap behaves as 3650: WayOut (10 years) is
	// within that horizon and stays.
	items, err := newSoonClient(ts.URL).Soon(context.Background(), 999999, 50)
	if err != nil {
		t.Fatalf("Soon() error = %v", err)
	}

	if len(items) != 4 {
		t.Fatalf("len(items) = %d, want 4", len(items))
	}
	// Known dates ascending with title tie-break, unknown date last.
	wantOrder := []string{"A-Movie", "B-Movie", "WayOut", "NoDate"}
	for i, want := range wantOrder {
		if items[i].Title != want {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Title, want)
		}
	}
}

func TestSoonMissingTags(t *testing.T) {
	movies := `[
		{"id":1,"title":"TheatricalOnly","monitored":true,"hasFile":false,"inCinemas":"2025-06-01"},
		{"id":2,"title":"DiscComing","monitored":true,"hasFile":false,"digitalRelease":"2025-06-01","physicalRelease":"2025-08-01"},
		{"id":3,"title":"OldMiss","monitored":true,"hasFile":false,"digitalRelease":"2024-01-01"}
	]`
	queue := `{"records":[]}`

	ts := soonServer(t, movies, queue)
	defer ts.Close()

	items, err := newSoonClient(ts.URL).Soon(context.Background(), 365, 50)
	if err != nil {
		t.Fatalf("Soon() error = %v", err)
	}

	tags := map[string]map[string]bool{}
	for _, it := range items {
		set := map[string]bool{}
		for _, tag := range it.Tags {
			set[tag] = true
		}
		tags[it.Title] = set
	}

	if !tags["TheatricalOnly"][TagCinema] {
		t.Error("TheatricalOnly missing cinema tag (no home release date)")
	}
	if !tags["DiscComing"][TagDisc] {
		t.Error("DiscComing missing disc tag (future physical date)")
	}
	for _, title := range []string{"TheatricalOnly", "DiscComing", "OldMiss"} {
		if !tags[title][TagSearch] {
			t.Errorf("%s missing search tag, every Missing item carries it", title)
		}
	}
	if !tags["OldMiss"][TagOverdue] {
		t.Error("OldMiss missing overdue tag (release older than 90 days)")
	}
	if tags["DiscComing"][TagOverdue] {
		t.Error("DiscComing has overdue tag, want absent for a recent release")
	}
}

func TestSoonNotConfiguredMakesNoCalls(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	c := New(config.ArrSettings{}, upstream.NewClient())
	if _, err := c.Soon(context.Background(), 30, 10); !upstream.IsNotConfigured(err) {
		t.Fatalf("Soon() error = %v, want not-configured", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("upstream saw %d calls, want 0", calls)
	}
}
