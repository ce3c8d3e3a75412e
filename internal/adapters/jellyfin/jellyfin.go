// Package jellyfin normalizes the media server's recently-added feed and
// proxies primary images so the browser never needs the API token.
package jellyfin

import (
	"context"
	"net/url"
	"strconv"

	"mediadash/internal/config"
	"mediadash/internal/upstream"
)

const Name = "jellyfin"

type Client struct {
	cfg  config.JellyfinSettings
	http *upstream.Client
}

func New(cfg config.JellyfinSettings, httpc *upstream.Client) *Client {
	return &Client{cfg: cfg, http: httpc}
}

func (c *Client) Configured() bool { return c.cfg.Configured() }

func (c *Client) headers() map[string]string {
	return map[string]string{"X-Emby-Token": c.cfg.APIKey}
}

type latestItem struct {
	ID                string            `json:"Id"`
	Name              string            `json:"Name"`
	Type              string            `json:"Type"`
	SeriesID          string            `json:"SeriesId"`
	SeriesName        string            `json:"SeriesName"`
	ProductionYear    *int              `json:"ProductionYear"`
	IndexNumber       *int              `json:"IndexNumber"`
	ParentIndexNumber *int              `json:"ParentIndexNumber"`
	DateCreated       string            `json:"DateCreated"`
	PremiereDate      string            `json:"PremiereDate"`
	ImageTags         map[string]string `json:"ImageTags"`
}

// SeriesProgress is the watched/total pair for one series, derived from a
// follow-up call. Only present when both counts came back non-negative.
type SeriesProgress struct {
	Watched int `json:"watched"`
	Total   int `json:"total"`
}

// LatestMediaItem is the normalized recently-added entry.
type LatestMediaItem struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	SeriesName        string          `json:"seriesName,omitempty"`
	ProductionYear    *int            `json:"productionYear"`
	IndexNumber       *int            `json:"indexNumber"`
	ParentIndexNumber *int            `json:"parentIndexNumber"`
	DateCreated       string          `json:"dateCreated"`
	PremiereDate      string          `json:"premiereDate"`
	HasPrimaryImage   bool            `json:"hasPrimaryImage"`
	SeriesProgress    *SeriesProgress `json:"seriesProgress,omitempty"`
}

// Latest fetches the server-computed recent-items list. With a user scope
// configured the user's endpoint variant is used and per-series watch
// progress is derived with one extra call per distinct series.
func (c *Client) Latest(ctx context.Context, limit int) ([]LatestMediaItem, error) {
	if !c.cfg.Configured() {
		return nil, upstream.NotConfigured(Name)
	}
	if limit <= 0 {
		limit = c.cfg.LatestLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}

	base := upstream.BaseURL(c.cfg.URL)
	endpoint := base + "/Items/Latest"
	if c.cfg.UserID != "" {
		endpoint = base + "/Users/" + c.cfg.UserID + "/Items/Latest"
	}

	q := url.Values{}
	q.Set("IncludeItemTypes", "Movie,Episode")
	q.Set("Limit", strconv.Itoa(limit))
	q.Set("Fields", "DateCreated,PrimaryImageAspectRatio,PremiereDate")
	q.Set("EnableImages", "true")
	q.Set("ImageTypeLimit", "1")

	var items []latestItem
	err := c.http.GetJSON(ctx, upstream.Request{
		Service: Name,
		URL:     endpoint,
		Header:  c.headers(),
		Query:   q,
	}, &items)
	if err != nil {
		return nil, err
	}

	var progress map[string]*SeriesProgress
	if c.cfg.UserID != "" {
		progress = c.seriesProgress(ctx, items)
	}

	out := make([]LatestMediaItem, 0, len(items))
	for _, it := range items {
		norm := LatestMediaItem{
			ID:                it.ID,
			Name:              it.Name,
			Type:              it.Type,
			SeriesName:        it.SeriesName,
			ProductionYear:    it.ProductionYear,
			IndexNumber:       it.IndexNumber,
			ParentIndexNumber: it.ParentIndexNumber,
			DateCreated:       it.DateCreated,
			PremiereDate:      it.PremiereDate,
			HasPrimaryImage:   it.ImageTags["Primary"] != "",
		}
		if it.SeriesID != "" {
			norm.SeriesProgress = progress[it.SeriesID]
		}
		out = append(out, norm)
	}
	return out, nil
}

type userItemsPage struct {
	Items []struct {
		ID                 string `json:"Id"`
		RecursiveItemCount *int   `json:"RecursiveItemCount"`
		UserData           *struct {
			UnplayedItemCount *int `json:"UnplayedItemCount"`
		} `json:"UserData"`
	} `json:"Items"`
}

// seriesProgress issues one call per distinct series. Failures are
// swallowed: a missing progress badge must never sink the whole feed.
func (c *Client) seriesProgress(ctx context.Context, items []latestItem) map[string]*SeriesProgress {
	base := upstream.BaseURL(c.cfg.URL)
	out := make(map[string]*SeriesProgress)

	for _, it := range items {
		if it.SeriesID == "" {
			continue
		}
		if _, seen := out[it.SeriesID]; seen {
			continue
		}
		out[it.SeriesID] = nil

		q := url.Values{}
		q.Set("Ids", it.SeriesID)
		q.Set("Fields", "RecursiveItemCount")

		var page userItemsPage
		err := c.http.GetJSON(ctx, upstream.Request{
			Service: Name,
			URL:     base + "/Users/" + c.cfg.UserID + "/Items",
			Header:  c.headers(),
			Query:   q,
		}, &page)
		if err != nil || len(page.Items) == 0 {
			continue
		}

		s := page.Items[0]
		if s.RecursiveItemCount == nil || s.UserData == nil || s.UserData.UnplayedItemCount == nil {
			continue
		}
		total := *s.RecursiveItemCount
		unplayed := *s.UserData.UnplayedItemCount
		watched := total - unplayed
		if total < 0 || watched < 0 {
			continue
		}
		out[it.SeriesID] = &SeriesProgress{Watched: watched, Total: total}
	}
	return out
}

// Image is the proxied primary-image bytes plus their content type.
type Image struct {
	ContentType string
	Data        []byte
}

// PrimaryImage streams an item's primary image through unmodified.
// maxHeight is clamped to [80, 600] and quality to [10, 95].
func (c *Client) PrimaryImage(ctx context.Context, itemID string, maxHeight, quality int) (*Image, error) {
	if !c.cfg.Configured() {
		return nil, upstream.NotConfigured(Name)
	}

	q := url.Values{}
	q.Set("maxHeight", strconv.Itoa(clamp(maxHeight, 80, 600)))
	q.Set("quality", strconv.Itoa(clamp(quality, 10, 95)))

	resp, err := c.http.Do(ctx, upstream.Request{
		Service: Name,
		URL:     upstream.BaseURL(c.cfg.URL) + "/Items/" + url.PathEscape(itemID) + "/Images/Primary",
		Header:  c.headers(),
		Query:   q,
		Timeout: upstream.ImageTimeout,
	})
	if err != nil {
		return nil, err
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return &Image{ContentType: contentType, Data: resp.Body}, nil
}

// Status probes the public system info endpoint; it needs no token, so a
// missing API key only disables the content endpoints, not the health row.
func (c *Client) Status(ctx context.Context) (string, error) {
	if c.cfg.URL == "" {
		return "", upstream.NotConfigured(Name)
	}
	var out struct {
		Version string `json:"Version"`
	}
	err := c.http.GetJSON(ctx, upstream.Request{
		Service: Name,
		URL:     upstream.BaseURL(c.cfg.URL) + "/System/Info/Public",
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

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
