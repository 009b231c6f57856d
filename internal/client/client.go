// Package client is a typed HTTP client for the name statistics API.
// It encodes selections with the same codec the server decodes them with.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/prenoms/internal/domain"
	"github.com/pkordes/prenoms/internal/selection"
)

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// APIError is returned for any non-2xx response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s: %s", e.Status, e.Code, e.Message)
}

// Client calls the read API rooted at a base URL.
type Client struct {
	base *url.URL
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a Client for the API at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client.New: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client.New: unsupported scheme %q", u.Scheme)
	}
	c := &Client{base: u, http: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search calls GET /api/names/search.
func (c *Client) Search(ctx context.Context, query string) ([]domain.NameMatch, error) {
	var out []domain.NameMatch
	q := url.Values{"q": {query}}.Encode()
	if err := c.get(ctx, c.base.JoinPath("api", "names", "search"), q, &out); err != nil {
		return nil, fmt.Errorf("client.Client.Search: %w", err)
	}
	return out, nil
}

// Series calls GET /api/names/{name}/series.
func (c *Client) Series(ctx context.Context, name string) ([]domain.SeriesPoint, error) {
	var out []domain.SeriesPoint
	if err := c.get(ctx, c.base.JoinPath("api", "names", name, "series"), "", &out); err != nil {
		return nil, fmt.Errorf("client.Client.Series: %w", err)
	}
	return out, nil
}

// SeriesMultiple calls GET /api/series for the names of sel.
func (c *Client) SeriesMultiple(ctx context.Context, sel selection.Selection) ([]domain.NameRecord, error) {
	var out []domain.NameRecord
	query, err := sel.Encode()
	if err != nil {
		return nil, fmt.Errorf("client.Client.SeriesMultiple: %w", err)
	}
	if err := c.get(ctx, c.base.JoinPath("api", "series"), query, &out); err != nil {
		return nil, fmt.Errorf("client.Client.SeriesMultiple: %w", err)
	}
	return out, nil
}

// Chart calls GET /api/chart for the names of sel.
func (c *Client) Chart(ctx context.Context, sel selection.Selection, zeroFill bool) (domain.Chart, error) {
	var out domain.Chart
	query, err := sel.Encode()
	if err != nil {
		return domain.Chart{}, fmt.Errorf("client.Client.Chart: %w", err)
	}
	if zeroFill {
		query = joinQuery(query, "fill=zero")
	}
	if err := c.get(ctx, c.base.JoinPath("api", "chart"), query, &out); err != nil {
		return domain.Chart{}, fmt.Errorf("client.Client.Chart: %w", err)
	}
	return out, nil
}

// Discover calls GET /api/discover with every criterion spelled out.
func (c *Client) Discover(ctx context.Context, crit domain.DiscoverCriteria) ([]domain.GrowthStat, error) {
	q := url.Values{
		"reference_year": {strconv.Itoa(crit.ReferenceYear)},
		"min":            {strconv.Itoa(crit.MinCount)},
		"max":            {strconv.Itoa(crit.MaxCount)},
		"window":         {strconv.Itoa(crit.Window)},
		"start":          {strconv.Itoa(crit.Start)},
		"end":            {strconv.Itoa(crit.End)},
		"threshold":      {strconv.FormatFloat(crit.Threshold, 'f', -1, 64)},
		"sample":         {strconv.Itoa(crit.Sample)},
	}
	var out []domain.GrowthStat
	if err := c.get(ctx, c.base.JoinPath("api", "discover"), q.Encode(), &out); err != nil {
		return nil, fmt.Errorf("client.Client.Discover: %w", err)
	}
	return out, nil
}

// Ping calls GET /healthz and returns an error unless the store is up.
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, c.base.JoinPath("healthz"), "", &out); err != nil {
		return fmt.Errorf("client.Client.Ping: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, u *url.URL, rawQuery string, dest any) error {
	u.RawQuery = rawQuery
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && json.Unmarshal(raw, &body) == nil {
		apiErr.Code, apiErr.Message = body.Error.Code, body.Error.Message
	}
	return apiErr
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func joinQuery(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "&")
}
