// Package sonarr normalizes the TV tracker's calendar, queue and history
// into the dashboard's episode-centric shapes.
package sonarr

import (
	"context"
	"net/url"
	"sort"

	"mediadash/internal/adapters/arr"
	"mediadash/internal/config"
	"mediadash/internal/upstream"
)

const Name = "sonarr"

type Client struct {
	*arr.Client
}

func New(cfg config.ArrSettings, httpc *upstream.Client) *Client {
	return &Client{Client: arr.New(Name, cfg, httpc)}
}

type calendarEntry struct {
	Title         string `json:"title"`
	SeriesTitle   string `json:"seriesTitle"`
	SeasonNumber  int    `json:"seasonNumber"`
	EpisodeNumber int    `json:"episodeNumber"`
	AirDateUTC    string `json:"airDateUtc"`
	AirDate       string `json:"airDate"`
	HasFile       bool   `json:"hasFile"`
	Series        *struct {
		Title string `json:"title"`
	} `json:"series"`
}

// UpcomingEpisode is the normalized calendar entry.
type UpcomingEpisode struct {
	SeriesTitle   string `json:"seriesTitle"`
	EpisodeTitle  string `json:"episodeTitle"`
	SeasonNumber  int    `json:"seasonNumber"`
	EpisodeNumber int    `json:"episodeNumber"`
	AirDateUTC    string `json:"airDateUtc"`
	HasFile       bool   `json:"hasFile"`
}

// airKey orders calendar entries; the UTC timestamp wins, the bare local
// date string stands in when the upstream omits it.
func airKey(e calendarEntry) string {
	if e.AirDateUTC != "" {
		return e.AirDateUTC
	}
	return e.AirDate
}

// Upcoming fetches the calendar window [today, today+days]. days is clamped
// to [1, 30] and limit to [0, 50].
func (c *Client) Upcoming(ctx context.Context, days, limit int) ([]UpcomingEpisode, error) {
	days = arr.Clamp(days, 1, 30)
	limit = arr.Clamp(limit, 0, 50)

	start := c.Now().UTC()
	end := start.AddDate(0, 0, days)

	q := url.Values{}
	q.Set("start", arr.FormatDay(start))
	q.Set("end", arr.FormatDay(end))
	q.Set("includeSeries", "true")

	var entries []calendarEntry
	if err := c.Get(ctx, "/api/v3/calendar", q, &entries); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return airKey(entries[i]) < airKey(entries[j])
	})

	out := make([]UpcomingEpisode, 0, len(entries))
	for _, e := range entries {
		seriesTitle := e.SeriesTitle
		if e.Series != nil && e.Series.Title != "" {
			seriesTitle = e.Series.Title
		}
		out = append(out, UpcomingEpisode{
			SeriesTitle:   seriesTitle,
			EpisodeTitle:  e.Title,
			SeasonNumber:  e.SeasonNumber,
			EpisodeNumber: e.EpisodeNumber,
			AirDateUTC:    airKey(e),
			HasFile:       e.HasFile,
		})
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
