// Package jellyseerr wraps the request broker: title search, TV season
// detail and the one write path this service forwards, creating a request.
package jellyseerr

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"mediadash/internal/config"
	"mediadash/internal/upstream"
)

const Name = "jellyseerr"

// minQueryLen is the floor under which search returns empty without a call;
// one-character queries only produce noise and upstream load.
const minQueryLen = 2

type Client struct {
	cfg  config.JellyseerrSettings
	http *upstream.Client
}

func New(cfg config.JellyseerrSettings, httpc *upstream.Client) *Client {
	return &Client{cfg: cfg, http: httpc}
}

func (c *Client) Configured() bool { return c.cfg.Configured() }

func (c *Client) headers() map[string]string {
	return map[string]string{"X-Api-Key": c.cfg.APIKey}
}

// flexID tolerates the upstream sending ids as numbers or numeric strings.
// Anything else leaves the id unset; the entry is dropped later rather than
// failing the whole result list.
type flexID struct {
	value int64
	ok    bool
}

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	v, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		f.value = v
		f.ok = true
	}
	return nil
}

type searchResult struct {
	ID           flexID `json:"id"`
	MediaType    string `json:"mediaType"`
	Title        string `json:"title"`
	Name         string `json:"name"`
	ReleaseDate  string `json:"releaseDate"`
	FirstAirDate string `json:"firstAirDate"`
	Overview     string `json:"overview"`
	PosterPath   string `json:"posterPath"`
	MediaInfo    *struct {
		Status int `json:"status"`
	} `json:"mediaInfo"`
}

type searchPage struct {
	Results []searchResult `json:"results"`
}

// SearchResult is the normalized search entry.
type SearchResult struct {
	ID         int64  `json:"id"`
	MediaType  string `json:"mediaType"`
	Title      string `json:"title"`
	Year       *int   `json:"year"`
	Overview   string `json:"overview,omitempty"`
	PosterPath string `json:"posterPath,omitempty"`
	Status     *int   `json:"status"`
}

// escapeQuery percent-encodes with no character left bare. url.QueryEscape
// alone would turn spaces into '+', which this upstream rejects.
func escapeQuery(q string) string {
	return strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
}

// yearOf derives a 4-digit year from a date-string prefix.
func yearOf(dates ...string) *int {
	for _, d := range dates {
		if len(d) >= 4 {
			if y, err := strconv.Atoi(d[:4]); err == nil {
				return &y
			}
		}
	}
	return nil
}

// Search queries the broker and filters to the requested media type
// ("movie" or "tv", exact case-insensitive match; empty keeps everything).
// Queries shorter than two characters return an empty list without an
// upstream call.
func (c *Client) Search(ctx context.Context, query, mediaType string) ([]SearchResult, error) {
	if !c.cfg.Configured() {
		return nil, upstream.NotConfigured(Name)
	}
	query = strings.TrimSpace(query)
	if len(query) < minQueryLen {
		return []SearchResult{}, nil
	}

	var page searchPage
	err := c.http.GetJSON(ctx, upstream.Request{
		Service: Name,
		URL:     upstream.BaseURL(c.cfg.URL) + "/api/v1/search?query=" + escapeQuery(query),
		Header:  c.headers(),
	}, &page)
	if err != nil {
		return nil, err
	}

	out := make([]SearchResult, 0, len(page.Results))
	for _, r := range page.Results {
		if !r.ID.ok {
			continue
		}
		if mediaType != "" && !strings.EqualFold(r.MediaType, mediaType) {
			continue
		}
		title := r.Title
		if title == "" {
			title = r.Name
		}
		sr := SearchResult{
			ID:         r.ID.value,
			MediaType:  r.MediaType,
			Title:      title,
			Year:       yearOf(r.ReleaseDate, r.FirstAirDate),
			Overview:   r.Overview,
			PosterPath: r.PosterPath,
		}
		if r.MediaInfo != nil {
			status := r.MediaInfo.Status
			sr.Status = &status
		}
		out = append(out, sr)
	}
	return out, nil
}

type tvDetail struct {
	ID           flexID `json:"id"`
	Name         string `json:"name"`
	FirstAirDate string `json:"firstAirDate"`
	Overview     string `json:"overview"`
	Seasons      []struct {
		SeasonNumber int    `json:"seasonNumber"`
		EpisodeCount int    `json:"episodeCount"`
		Name         string `json:"name"`
	} `json:"seasons"`
	MediaInfo *struct {
		Status  int `json:"status"`
		Seasons []struct {
			SeasonNumber int `json:"seasonNumber"`
			Status       int `json:"status"`
		} `json:"seasons"`
	} `json:"mediaInfo"`
}

// Season is one regular season of a show; specials (season 0) are excluded.
type Season struct {
	SeasonNumber int    `json:"seasonNumber"`
	EpisodeCount int    `json:"episodeCount"`
	Name         string `json:"name,omitempty"`
	Status       *int   `json:"status"`
}

// TVDetail is the season breakdown for the request dialog.
type TVDetail struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Year     *int     `json:"year"`
	Overview string   `json:"overview,omitempty"`
	Status   *int     `json:"status"`
	Seasons  []Season `json:"seasons"`
}

// TV fetches one show's seasons, sorted ascending, specials excluded, with
// per-season request status attached when the media-info block has one.
func (c *Client) TV(ctx context.Context, id int64) (*TVDetail, error) {
	if !c.cfg.Configured() {
		return nil, upstream.NotConfigured(Name)
	}

	var detail tvDetail
	err := c.http.GetJSON(ctx, upstream.Request{
		Service: Name,
		URL:     upstream.BaseURL(c.cfg.URL) + "/api/v1/tv/" + strconv.FormatInt(id, 10),
		Header:  c.headers(),
	}, &detail)
	if err != nil {
		return nil, err
	}

	seasonStatus := make(map[int]int)
	out := &TVDetail{
		ID:       id,
		Name:     detail.Name,
		Year:     yearOf(detail.FirstAirDate),
		Overview: detail.Overview,
	}
	if detail.MediaInfo != nil {
		status := detail.MediaInfo.Status
		out.Status = &status
		for _, s := range detail.MediaInfo.Seasons {
			seasonStatus[s.SeasonNumber] = s.Status
		}
	}

	for _, s := range detail.Seasons {
		if s.SeasonNumber == 0 {
			continue
		}
		season := Season{
			SeasonNumber: s.SeasonNumber,
			EpisodeCount: s.EpisodeCount,
			Name:         s.Name,
		}
		if st, ok := seasonStatus[s.SeasonNumber]; ok {
			season.Status = &st
		}
		out.Seasons = append(out.Seasons, season)
	}

	sort.Slice(out.Seasons, func(i, j int) bool {
		return out.Seasons[i].SeasonNumber < out.Seasons[j].SeasonNumber
	})
	return out, nil
}

// RequestInput is the forwarded create-request payload.
type RequestInput struct {
	MediaID   int64  `json:"mediaId"`
	MediaType string `json:"mediaType"`
	Seasons   []int  `json:"seasons,omitempty"`
}

// CreateRequest forwards a media request and returns the broker's response
// body untouched; this service adds no request-side business logic.
func (c *Client) CreateRequest(ctx context.Context, in RequestInput) (json.RawMessage, error) {
	if !c.cfg.Configured() {
		return nil, upstream.NotConfigured(Name)
	}

	var out json.RawMessage
	err := c.http.PostJSON(ctx, upstream.Request{
		Service: Name,
		URL:     upstream.BaseURL(c.cfg.URL) + "/api/v1/request",
		Header:  c.headers(),
	}, in, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Status probes the broker's version endpoint.
func (c *Client) Status(ctx context.Context) (string, error) {
	if !c.cfg.Configured() {
		return "", upstream.NotConfigured(Name)
	}
	var out struct {
		Version string `json:"version"`
	}
	err := c.http.GetJSON(ctx, upstream.Request{
		Service: Name,
		URL:     upstream.BaseURL(c.cfg.URL) + "/api/v1/status",
		Header:  c.headers(),
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
