package jellyseerr

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"mediadash/internal/config"
	"mediadash/internal/upstream"
)

func settings(url string) config.JellyseerrSettings {
	return config.JellyseerrSettings{URL: url, APIKey: "key"}
}

func TestSearchShortQueryMakesNoCall(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	c := New(settings(ts.URL), upstream.NewClient())
	items, err := c.Search(context.Background(), "a", "")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0 for a 1-char query", len(items))
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("upstream saw %d calls, want 0", calls)
	}
}

func TestSearchTwoCharQueryCallsUpstream(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer ts.Close()

	c := New(settings(ts.URL), upstream.NewClient())
	if _, err := c.Search(context.Background(), "ab", ""); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("upstream saw %d calls, want 1", calls)
	}
}

func TestSearchEscapesSpacesAsPercent20(t *testing.T) {
	var gotRawQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRawQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer ts.Close()

	c := New(settings(ts.URL), upstream.NewClient())
	if _, err := c.Search(context.Background(), "the matrix", ""); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !strings.Contains(gotRawQuery, "query=the%20matrix") {
		t.Errorf("raw query = %q, want spaces escaped as %%20, never '+'", gotRawQuery)
	}
}

func TestSearchFiltersAndCoerces(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"id":101,"mediaType":"tv","name":"A Show","firstAirDate":"2019-04-01"},
			{"id":"202","mediaType":"TV","name":"String ID Show","firstAirDate":"2021-09-09"},
			{"id":303,"mediaType":"movie","title":"A Movie","releaseDate":"2020-01-01"},
			{"id":"garbage","mediaType":"tv","name":"Bad ID"}
		]}`))
	}))
	defer ts.Close()

	c := New(settings(ts.URL), upstream.NewClient())
	items, err := c.Search(context.Background(), "show", "tv")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2 (movie filtered, bad id dropped)", len(items))
	}
	if items[0].ID != 101 || items[1].ID != 202 {
		t.Errorf("ids = %d, %d; want 101 and 202 (numeric string coerced)", items[0].ID, items[1].ID)
	}
	if items[0].Year == nil || *items[0].Year != 2019 {
		t.Errorf("Year = %v, want 2019 derived from the date prefix", items[0].Year)
	}
	if items[1].Title != "String ID Show" {
		t.Errorf("Title = %q, want name fallback for tv entries", items[1].Title)
	}
}

func TestTVDetailExcludesSpecialsAndSorts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/tv/42" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id":42,"name":"A Show","firstAirDate":"2018-03-03",
			"seasons":[
				{"seasonNumber":2,"episodeCount":8},
				{"seasonNumber":0,"episodeCount":3,"name":"Specials"},
				{"seasonNumber":1,"episodeCount":10}
			],
			"mediaInfo":{"status":4,"seasons":[{"seasonNumber":1,"status":5}]}
		}`))
	}))
	defer ts.Close()

	c := New(settings(ts.URL), upstream.NewClient())
	detail, err := c.TV(context.Background(), 42)
	if err != nil {
		t.Fatalf("TV() error = %v", err)
	}

	if len(detail.Seasons) != 2 {
		t.Fatalf("len(Seasons) = %d, want 2 (season 0 excluded)", len(detail.Seasons))
	}
	if detail.Seasons[0].SeasonNumber != 1 || detail.Seasons[1].SeasonNumber != 2 {
		t.Errorf("season order = %d, %d; want ascending",
			detail.Seasons[0].SeasonNumber, detail.Seasons[1].SeasonNumber)
	}
	if detail.Seasons[0].Status == nil || *detail.Seasons[0].Status != 5 {
		t.Errorf("season 1 status = %v, want 5 from the media-info block", detail.Seasons[0].Status)
	}
	if detail.Seasons[1].Status != nil {
		t.Error("season 2 status set, want nil when the media-info block has none")
	}
	if detail.Year == nil || *detail.Year != 2018 {
		t.Errorf("Year = %v, want 2018", detail.Year)
	}
}

func TestCreateRequestForwardsBody(t *testing.T) {
	var gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"status":1}`))
	}))
	defer ts.Close()

	c := New(settings(ts.URL), upstream.NewClient())
	resp, err := c.CreateRequest(context.Background(), RequestInput{
		MediaID:   550,
		MediaType: "tv",
		Seasons:   []int{1, 2},
	})
	if err != nil {
		t.Fatalf("CreateRequest() error = %v", err)
	}
	if !strings.Contains(gotBody, `"mediaId":550`) || !strings.Contains(gotBody, `"seasons":[1,2]`) {
		t.Errorf("forwarded body = %q, want mediaId and seasons intact", gotBody)
	}
	if !strings.Contains(string(resp), `"id":7`) {
		t.Errorf("response = %q, want upstream body passed back", string(resp))
	}
}

func TestSearchNotConfiguredMakesNoCalls(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()

	c := New(config.JellyseerrSettings{}, upstream.NewClient())
	if _, err := c.Search(context.Background(), "query", ""); !upstream.IsNotConfigured(err) {
		t.Fatalf("Search() error = %v, want not-configured", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("upstream saw %d calls, want 0", calls)
	}
}
