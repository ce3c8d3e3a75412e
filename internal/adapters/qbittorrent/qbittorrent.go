// Package qbittorrent wraps the torrent client's WebUI API. Every listing
// is preceded by a fresh login: sessions are not reused across dashboard
// requests, so a restarted or re-secured upstream never strands us with a
// dead cookie.
package qbittorrent

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"mediadash/internal/config"
	"mediadash/internal/upstream"
)

const Name = "qbittorrent"

// States counted as active even at zero instantaneous speed.
var activeStates = map[string]bool{
	"downloading": true,
	"metadl":      true,
	"stalleddl":   true,
	"queueddl":    true,
	"checkingdl":  true,
	"allocating":  true,
	"forceddl":    true,
}

type Client struct {
	cfg  config.QBittorrentSettings
	http *upstream.Client
}

func New(cfg config.QBittorrentSettings, httpc *upstream.Client) *Client {
	return &Client{cfg: cfg, http: httpc}
}

func (c *Client) Configured() bool { return c.cfg.Configured() }

// login authenticates on the given cookie jar. Success is the literal "Ok"
// substring in the body; the WebUI does not use a JSON envelope here.
func (c *Client) login(ctx context.Context, jar http.CookieJar) error {
	form := url.Values{}
	form.Set("username", c.cfg.Username)
	form.Set("password", c.cfg.Password)

	resp, err := c.http.Do(ctx, upstream.Request{
		Service: Name,
		Method:  http.MethodPost,
		URL:     upstream.BaseURL(c.cfg.URL) + "/api/v2/auth/login",
		Form:    form,
		Jar:     jar,
	})
	if err != nil {
		return err
	}
	if !strings.Contains(string(resp.Body), "Ok") {
		return &upstream.Error{
			Service: Name,
			Kind:    upstream.KindRejected,
			Status:  resp.Status,
			Body:    "login failed",
		}
	}
	return nil
}

func (c *Client) session(ctx context.Context) (http.CookieJar, error) {
	if !c.cfg.Configured() {
		return nil, upstream.NotConfigured(Name)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, &upstream.Error{Service: Name, Kind: upstream.KindUnreachable, Err: err}
	}
	if err := c.login(ctx, jar); err != nil {
		return nil, err
	}
	return jar, nil
}

type torrentInfo struct {
	Name     string  `json:"name"`
	State    string  `json:"state"`
	Progress float64 `json:"progress"`
	DLSpeed  int64   `json:"dlspeed"`
	UPSpeed  int64   `json:"upspeed"`
	ETA      int64   `json:"eta"`
	Size     int64   `json:"size"`
	AddedOn  int64   `json:"added_on"`
}

// TorrentSummary is the normalized listing entry.
type TorrentSummary struct {
	Name     string  `json:"name"`
	State    string  `json:"state"`
	Progress float64 `json:"progress"`
	DLSpeed  int64   `json:"dlspeed"`
	UPSpeed  int64   `json:"upspeed"`
	ETA      int64   `json:"eta"`
	Size     int64   `json:"size"`
	AddedOn  int64   `json:"addedOn"`
}

// isActive keeps torrents moving bytes right now, plus those in a state the
// WebUI itself treats as active (a stalled download is active, a paused one
// is not).
func isActive(t torrentInfo) bool {
	return t.DLSpeed > 0 || t.UPSpeed > 0 || activeStates[strings.ToLower(t.State)]
}

// Torrents lists torrents newest first. "downloading", "seeding",
// "completed" and "all" pass through to the upstream; "active" is resolved
// client-side because the WebUI's own notion of active excludes stalled
// downloads. limit <= 0 means no limit, otherwise capped at 50.
func (c *Client) Torrents(ctx context.Context, filter string, limit int) ([]TorrentSummary, error) {
	jar, err := c.session(ctx)
	if err != nil {
		return nil, err
	}

	upstreamFilter := filter
	if filter == "active" || filter == "" {
		upstreamFilter = "all"
	}

	q := url.Values{}
	q.Set("filter", upstreamFilter)
	q.Set("sort", "added_on")
	q.Set("reverse", "true")

	var torrents []torrentInfo
	err = c.http.GetJSON(ctx, upstream.Request{
		Service: Name,
		URL:     upstream.BaseURL(c.cfg.URL) + "/api/v2/torrents/info",
		Query:   q,
		Jar:     jar,
	}, &torrents)
	if err != nil {
		return nil, err
	}

	if filter == "active" || filter == "" {
		kept := torrents[:0]
		for _, t := range torrents {
			if isActive(t) {
				kept = append(kept, t)
			}
		}
		torrents = kept
	}

	if limit > 0 {
		if limit > 50 {
			limit = 50
		}
		if len(torrents) > limit {
			torrents = torrents[:limit]
		}
	}

	out := make([]TorrentSummary, 0, len(torrents))
	for _, t := range torrents {
		out = append(out, TorrentSummary{
			Name:     t.Name,
			State:    t.State,
			Progress: t.Progress,
			DLSpeed:  t.DLSpeed,
			UPSpeed:  t.UPSpeed,
			ETA:      t.ETA,
			Size:     t.Size,
			AddedOn:  t.AddedOn,
		})
	}
	return out, nil
}

// TransferInfo reports the client's global transfer speeds, used by the
// system card as the preferred network-throughput source.
type TransferInfo struct {
	DLSpeed int64 `json:"dl_info_speed"`
	UPSpeed int64 `json:"up_info_speed"`
}

func (c *Client) Transfer(ctx context.Context) (TransferInfo, error) {
	jar, err := c.session(ctx)
	if err != nil {
		return TransferInfo{}, err
	}
	var info TransferInfo
	err = c.http.GetJSON(ctx, upstream.Request{
		Service: Name,
		URL:     upstream.BaseURL(c.cfg.URL) + "/api/v2/transfer/info",
		Jar:     jar,
		Timeout: upstream.ProbeTimeout,
	}, &info)
	return info, err
}

// Status logs in and reads the application version.
func (c *Client) Status(ctx context.Context) (string, error) {
	if !c.cfg.Configured() {
		return "", upstream.NotConfigured(Name)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return "", &upstream.Error{Service: Name, Kind: upstream.KindUnreachable, Err: err}
	}
	if err := c.login(ctx, jar); err != nil {
		return "", err
	}
	resp, err := c.http.Do(ctx, upstream.Request{
		Service: Name,
		URL:     upstream.BaseURL(c.cfg.URL) + "/api/v2/app/version",
		Jar:     jar,
		Timeout: upstream.ProbeTimeout,
	})
	if err != nil {
		return "", err
	}
	v := strings.TrimSpace(string(resp.Body))
	if v == "" {
		return "ok", nil
	}
	return v, nil
}
