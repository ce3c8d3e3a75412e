// Package radarr normalizes the movie tracker. Besides the plain calendar
// view it owns the "soon" policy: cross-referencing the monitored movie
// list against the live download queue to show what is queued, missing or
// simply not out yet.
package radarr

import (
	"context"
	"net/url"
	"sort"
	"time"

	"mediadash/internal/adapters/arr"
	"mediadash/internal/config"
	"mediadash/internal/upstream"
)

const Name = "radarr"

type Client struct {
	*arr.Client
}

func New(cfg config.ArrSettings, httpc *upstream.Client) *Client {
	return &Client{Client: arr.New(Name, cfg, httpc)}
}

type movie struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Year            int    `json:"year"`
	Status          string `json:"status"`
	Monitored       bool   `json:"monitored"`
	HasFile         bool   `json:"hasFile"`
	DigitalRelease  string `json:"digitalRelease"`
	PhysicalRelease string `json:"physicalRelease"`
	InCinemas       string `json:"inCinemas"`
	PremiereDate    string `json:"premiereDate"`
}

// releaseDate picks the date shown for a movie: digital beats physical
// beats cinema beats premiere. Empty when the upstream knows none, which
// sorts first lexically; acceptable for a display ordering.
func releaseDate(m movie) string {
	switch {
	case m.DigitalRelease != "":
		return m.DigitalRelease
	case m.PhysicalRelease != "":
		return m.PhysicalRelease
	case m.InCinemas != "":
		return m.InCinemas
	default:
		return m.PremiereDate
	}
}

// UpcomingMovie is the normalized calendar entry.
type UpcomingMovie struct {
	Title       string `json:"title"`
	Year        int    `json:"year"`
	ReleaseDate string `json:"releaseDate"`
	HasFile     bool   `json:"hasFile"`
	Status      string `json:"status"`
}

// Upcoming fetches the calendar window [today, today+days]. days is
// clamped to [1, 90] and limit to [0, 50].
func (c *Client) Upcoming(ctx context.Context, days, limit int) ([]UpcomingMovie, error) {
	days = arr.Clamp(days, 1, 90)
	limit = arr.Clamp(limit, 0, 50)

	start := c.Now().UTC()
	end := start.AddDate(0, 0, days)

	q := url.Values{}
	q.Set("start", arr.FormatDay(start))
	q.Set("end", arr.FormatDay(end))

	var movies []movie
	if err := c.Get(ctx, "/api/v3/calendar", q, &movies); err != nil {
		return nil, err
	}

	sort.SliceStable(movies, func(i, j int) bool {
		return releaseDate(movies[i]) < releaseDate(movies[j])
	})

	out := make([]UpcomingMovie, 0, len(movies))
	for _, m := range movies {
		out = append(out, UpcomingMovie{
			Title:       m.Title,
			Year:        m.Year,
			ReleaseDate: releaseDate(m),
			HasFile:     m.HasFile,
			Status:      m.Status,
		})
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Soon categories.
const (
	CategoryQueued     = "Queued"
	CategoryMissing    = "Missing"
	CategoryUnreleased = "Unreleased"
)

// Tags attached to Missing movies. They encode display heuristics, not
// upstream facts.
const (
	TagCinema  = "cinema"  // theatrical release only, no home date yet
	TagDisc    = "disc"    // physical release scheduled in the future
	TagSearch  = "search"  // monitored and missing, so a search is active
	TagOverdue = "overdue" // release date more than 90 days gone
)

// SoonMovie is one wanted-but-absent movie.
type SoonMovie struct {
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Category    string   `json:"category"`
	ReleaseDate string   `json:"releaseDate"`
	Tags        []string `json:"tags,omitempty"`
}

// Soon cross-references the movie library against the download queue.
// A movie qualifies when it is monitored and either has no local file or is
// present in the queue. daysFuture bounds how far ahead Unreleased entries
// are kept; Queued and Missing entries are never dropped by date.
func (c *Client) Soon(ctx context.Context, daysFuture, limit int) ([]SoonMovie, error) {
	daysFuture = arr.Clamp(daysFuture, 1, 3650)
	limit = arr.Clamp(limit, 0, 50)

	var movies []movie
	if err := c.Get(ctx, "/api/v3/movie", nil, &movies); err != nil {
		return nil, err
	}
	queue, err := c.Queue(ctx)
	if err != nil {
		return nil, err
	}

	queued := make(map[int64]bool, len(queue))
	for _, r := range queue {
		if r.MovieID != 0 {
			queued[r.MovieID] = true
		}
	}

	today := c.Now().UTC().Truncate(24 * time.Hour)
	horizon := today.AddDate(0, 0, daysFuture)

	out := make([]SoonMovie, 0, len(movies))
	for _, m := range movies {
		if !m.Monitored {
			continue
		}
		inQueue := queued[m.ID]
		if m.HasFile && !inQueue {
			continue
		}

		date := releaseDate(m)
		released, hasDate := arr.ParseDate(date)

		var category string
		switch {
		case inQueue:
			category = CategoryQueued
		case hasDate && !released.After(today):
			category = CategoryMissing
		default:
			category = CategoryUnreleased
		}

		if category == CategoryUnreleased && hasDate && released.After(horizon) {
			continue
		}

		sm := SoonMovie{
			Title:       m.Title,
			Year:        m.Year,
			Category:    category,
			ReleaseDate: date,
		}
		if category == CategoryMissing {
			sm.Tags = missingTags(m, released, today)
		}
		out = append(out, sm)
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].ReleaseDate, out[j].ReleaseDate
		// Unknown dates sort last.
		if (di == "") != (dj == "") {
			return dj == ""
		}
		if di != dj {
			return di < dj
		}
		return out[i].Title < out[j].Title
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func missingTags(m movie, released time.Time, today time.Time) []string {
	var tags []string
	if m.DigitalRelease == "" && m.PhysicalRelease == "" {
		tags = append(tags, TagCinema)
	}
	if phys, ok := arr.ParseDate(m.PhysicalRelease); ok && phys.After(today) {
		tags = append(tags, TagDisc)
	}
	tags = append(tags, TagSearch)
	if today.Sub(released) > 90*24*time.Hour {
		tags = append(tags, TagOverdue)
	}
	return tags
}
