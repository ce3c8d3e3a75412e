// Package upstream is the shared HTTP layer under every service adapter:
// one request, one bounded timeout, raw body back. Failure policy lives in
// the adapters; this package only classifies what happened.
package upstream

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"mediadash/internal/utils"
)

// Timeout tiers. Probes stay short so the status fan-out joins quickly;
// the image proxy gets longer because thumbnails can be generated on demand.
const (
	ProbeTimeout = 5 * time.Second
	CallTimeout  = 10 * time.Second
	ImageTimeout = 15 * time.Second
)

// Request describes one upstream HTTP call.
type Request struct {
	Service string // upstream name used in error details
	Method  string // defaults to GET
	URL     string // absolute URL, query appended from Query
	Header  map[string]string
	Query   url.Values
	Form    url.Values    // form-encoded body (qBittorrent login)
	Timeout time.Duration // defaults to CallTimeout
	Jar     http.CookieJar
}

// Response carries the raw upstream result. Status is always < 400; any
// rejected call comes back as an *Error instead.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

type Client struct {
	transport http.RoundTripper
}

func NewClient() *Client {
	return &Client{transport: http.DefaultTransport}
}

// Do performs a single upstream call and returns the raw body. There are no
// retries anywhere in this codebase: the dashboard polls, so the client is
// the retry loop.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = CallTimeout
	}

	u := req.URL
	if len(req.Query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + req.Query.Encode()
	}

	var body io.Reader
	if req.Form != nil {
		body = strings.NewReader(req.Form.Encode())
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, &Error{Service: req.Service, Kind: KindUnreachable, Err: err}
	}
	if req.Form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}

	hc := &http.Client{Transport: c.transport, Jar: req.Jar}
	resp, err := hc.Do(httpReq)
	if err != nil {
		return nil, &Error{Service: req.Service, Kind: KindUnreachable, Err: err}
	}
	defer utils.Close(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Service: req.Service, Kind: KindUnreachable, Err: err}
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{
			Service:     req.Service,
			Kind:        KindRejected,
			Status:      resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        truncateBody(raw),
		}
	}

	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        raw,
	}, nil
}

// GetJSON performs the call and decodes the body into out. A body that does
// not decode is a malformed-upstream error carrying the content type and a
// truncated copy of the body for the logs.
func (c *Client) GetJSON(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &Error{
			Service:     req.Service,
			Kind:        KindMalformed,
			Status:      resp.Status,
			ContentType: resp.ContentType,
			Body:        truncateBody(resp.Body),
			Err:         err,
		}
	}
	return nil
}

// PostJSON sends payload as a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, req Request, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return &Error{Service: req.Service, Kind: KindMalformed, Err: err}
	}
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = CallTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, strings.NewReader(string(raw)))
	if err != nil {
		return &Error{Service: req.Service, Kind: KindUnreachable, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}

	hc := &http.Client{Transport: c.transport, Jar: req.Jar}
	resp, err := hc.Do(httpReq)
	if err != nil {
		return &Error{Service: req.Service, Kind: KindUnreachable, Err: err}
	}
	defer utils.Close(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Service: req.Service, Kind: KindUnreachable, Err: err}
	}
	if resp.StatusCode >= 400 {
		return &Error{
			Service:     req.Service,
			Kind:        KindRejected,
			Status:      resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        truncateBody(body),
		}
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return &Error{
				Service:     req.Service,
				Kind:        KindMalformed,
				Status:      resp.StatusCode,
				ContentType: resp.Header.Get("Content-Type"),
				Body:        truncateBody(body),
				Err:         err,
			}
		}
	}
	return nil
}

// BaseURL normalizes a configured base URL for path concatenation.
func BaseURL(u string) string { return strings.TrimRight(u, "/") }
