// Package arr holds the plumbing shared by the Sonarr and Radarr adapters:
// both speak the same v3 API dialect (X-Api-Key header, calendar, queue,
// history endpoints), so the per-service packages only carry policy.
package arr

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"mediadash/internal/config"
	"mediadash/internal/upstream"
)

type Client struct {
	name string
	cfg  config.ArrSettings
	http *upstream.Client

	// Now is injectable so calendar windows and "today" filters are
	// deterministic under test.
	Now func() time.Time
}

func New(name string, cfg config.ArrSettings, httpc *upstream.Client) *Client {
	return &Client{name: name, cfg: cfg, http: httpc, Now: time.Now}
}

func (c *Client) Name() string     { return c.name }
func (c *Client) Configured() bool { return c.cfg.Configured() }

// Get issues an authenticated API call relative to the configured base URL.
func (c *Client) Get(ctx context.Context, path string, q url.Values, out any) error {
	if !c.cfg.Configured() {
		return upstream.NotConfigured(c.name)
	}
	return c.http.GetJSON(ctx, upstream.Request{
		Service: c.name,
		URL:     upstream.BaseURL(c.cfg.URL) + path,
		Header:  map[string]string{"X-Api-Key": c.cfg.APIKey},
		Query:   q,
	}, out)
}

// QueueRecord is one entry of the download/import queue.
type QueueRecord struct {
	MovieID               int64   `json:"movieId"`
	SeriesID              int64   `json:"seriesId"`
	Title                 string  `json:"title"`
	Status                string  `json:"status"`
	TrackedDownloadStatus string  `json:"trackedDownloadStatus"`
	TrackedDownloadState  string  `json:"trackedDownloadState"`
	TimeLeft              string  `json:"timeleft"`
	Size                  float64 `json:"size"`
	SizeLeft              float64 `json:"sizeleft"`
}

type queuePage struct {
	Records []QueueRecord `json:"records"`
}

// Queue fetches the first 100 queue records, enough for a dashboard strip.
func (c *Client) Queue(ctx context.Context) ([]QueueRecord, error) {
	q := url.Values{}
	q.Set("page", "1")
	q.Set("pageSize", "100")
	var page queuePage
	if err := c.Get(ctx, "/api/v3/queue", q, &page); err != nil {
		return nil, err
	}
	return page.Records, nil
}

// ImportingItem is a queue record that is currently being brought into the
// library rather than merely downloading.
type ImportingItem struct {
	Service  string  `json:"service"`
	Title    string  `json:"title"`
	Status   string  `json:"status"`
	State    string  `json:"state"`
	TimeLeft string  `json:"timeLeft"`
	Size     float64 `json:"size"`
	SizeLeft float64 `json:"sizeLeft"`
}

var importingMarkers = []string{"import", "process", "move"}

// IsImporting matches queue records whose combined status text mentions an
// import/processing/moving phase, case-insensitively.
func IsImporting(r QueueRecord) bool {
	text := strings.ToLower(r.Status + " " + r.TrackedDownloadStatus + " " + r.TrackedDownloadState)
	for _, m := range importingMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// Importing lists queue records in an import phase, sorted by remaining
// time then title, capped at limit (limit <= 0 means no cap).
func (c *Client) Importing(ctx context.Context, limit int) ([]ImportingItem, error) {
	records, err := c.Queue(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]ImportingItem, 0, len(records))
	for _, r := range records {
		if !IsImporting(r) {
			continue
		}
		items = append(items, ImportingItem{
			Service:  c.name,
			Title:    r.Title,
			Status:   r.Status,
			State:    r.TrackedDownloadState,
			TimeLeft: r.TimeLeft,
			Size:     r.Size,
			SizeLeft: r.SizeLeft,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].TimeLeft != items[j].TimeLeft {
			// Empty timeleft means "unknown", which sorts last.
			if items[i].TimeLeft == "" {
				return false
			}
			if items[j].TimeLeft == "" {
				return true
			}
			return items[i].TimeLeft < items[j].TimeLeft
		}
		return items[i].Title < items[j].Title
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

type historyRecord struct {
	SourceTitle string `json:"sourceTitle"`
	EventType   string `json:"eventType"`
	Date        string `json:"date"`
	Quality     struct {
		Quality struct {
			Name string `json:"name"`
		} `json:"quality"`
	} `json:"quality"`
}

// ImportEvent is one title imported into the library.
type ImportEvent struct {
	Service string `json:"service"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Quality string `json:"quality"`
}

// LibraryToday lists titles imported since midnight UTC, newest first.
func (c *Client) LibraryToday(ctx context.Context, limit int) ([]ImportEvent, error) {
	today := c.Now().UTC().Format("2006-01-02")
	q := url.Values{}
	q.Set("date", today)
	q.Set("eventType", "downloadFolderImported")

	var records []historyRecord
	if err := c.Get(ctx, "/api/v3/history/since", q, &records); err != nil {
		return nil, err
	}

	events := make([]ImportEvent, 0, len(records))
	for _, r := range records {
		if r.EventType != "" && !strings.EqualFold(r.EventType, "downloadFolderImported") {
			continue
		}
		events = append(events, ImportEvent{
			Service: c.name,
			Title:   r.SourceTitle,
			Date:    r.Date,
			Quality: r.Quality.Quality.Name,
		})
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Date > events[j].Date })

	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// Status probes /system/status and reports the upstream version.
func (c *Client) Status(ctx context.Context) (string, error) {
	if !c.cfg.Configured() {
		return "", upstream.NotConfigured(c.name)
	}
	var out struct {
		Version string `json:"version"`
	}
	err := c.http.GetJSON(ctx, upstream.Request{
		Service: c.name,
		URL:     upstream.BaseURL(c.cfg.URL) + "/api/v3/system/status",
		Header:  map[string]string{"X-Api-Key": c.cfg.APIKey},
		Timeout: upstream.ProbeTimeout,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.Version == "" {
		return "ok", nil
	}
	return "v" + out.Version, nil
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseDate reads the date part of an RFC 3339 or YYYY-MM-DD string.
func ParseDate(s string) (time.Time, bool) {
	if len(s) < 10 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDay renders t as the calendar-API day parameter.
func FormatDay(t time.Time) string { return t.Format("2006-01-02") }
