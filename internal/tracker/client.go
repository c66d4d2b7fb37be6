// Package tracker is a read-only client for the aTimeLogger REST API.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/alexanderramin/timereport/internal/domain"
)

// Client reads categories and intervals from the time-tracking service.
type Client interface {
	// Types returns every category, groups included.
	Types(ctx context.Context) ([]domain.Category, error)

	// Intervals returns the intervals recorded in [from, to).
	Intervals(ctx context.Context, from, to int64) ([]domain.Interval, error)

	// AllIntervals returns the whole interval history, oldest first.
	AllIntervals(ctx context.Context) ([]domain.Interval, error)
}

// httpClient implements Client over HTTP. It fetches a password-grant
// token on first use and reuses it for the client's lifetime. Requests
// are never retried.
type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer

	mu    sync.Mutex
	token string
}

// NewHTTPClient creates a Client for the service at cfg.Endpoint.
func NewHTTPClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type guidRef struct {
	GUID string `json:"guid"`
}

type typeRecord struct {
	GUID     string   `json:"guid"`
	Group    bool     `json:"group"`
	Name     string   `json:"name"`
	Parent   *guidRef `json:"parent"`
	Order    int      `json:"order"`
	Color    int      `json:"color"`
	Deleted  bool     `json:"deleted"`
	Revision int      `json:"revision"`
	ImageID  string   `json:"imageId"`
}

type typesResponse struct {
	Types []typeRecord `json:"types"`
}

type intervalRecord struct {
	GUID         string  `json:"guid"`
	Type         guidRef `json:"type"`
	From         int64   `json:"from"`
	To           int64   `json:"to"`
	Comment      *string `json:"comment"`
	ActivityGUID string  `json:"activityGuid"`
}

type intervalsResponse struct {
	Intervals []intervalRecord `json:"intervals"`
}

func (c *httpClient) Types(ctx context.Context) ([]domain.Category, error) {
	var resp typesResponse
	if err := c.get(ctx, "/api/v2/types", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching types: %w", err)
	}
	if resp.Types == nil {
		return nil, fmt.Errorf("fetching types: %w: missing types", ErrMalformedResponse)
	}

	cats := make([]domain.Category, 0, len(resp.Types))
	for _, t := range resp.Types {
		cat := domain.Category{
			ID:       t.GUID,
			IsGroup:  t.Group,
			Name:     t.Name,
			Order:    t.Order,
			Color:    t.Color,
			Deleted:  t.Deleted,
			Revision: t.Revision,
			ImageID:  t.ImageID,
		}
		if t.Parent != nil && t.Parent.GUID != "" {
			parent := t.Parent.GUID
			cat.ParentID = &parent
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

func (c *httpClient) Intervals(ctx context.Context, from, to int64) ([]domain.Interval, error) {
	q := url.Values{}
	q.Set("from", strconv.FormatInt(from, 10))
	q.Set("to", strconv.FormatInt(to, 10))
	q.Set("limit", strconv.Itoa(c.cfg.Limit))
	return c.intervals(ctx, q)
}

func (c *httpClient) AllIntervals(ctx context.Context) ([]domain.Interval, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.cfg.Limit))
	q.Set("order", "asc")
	return c.intervals(ctx, q)
}

func (c *httpClient) intervals(ctx context.Context, q url.Values) ([]domain.Interval, error) {
	var resp intervalsResponse
	if err := c.get(ctx, "/api/v2/intervals", q, &resp); err != nil {
		return nil, fmt.Errorf("fetching intervals: %w", err)
	}
	if resp.Intervals == nil {
		return nil, fmt.Errorf("fetching intervals: %w: missing intervals", ErrMalformedResponse)
	}

	out := make([]domain.Interval, 0, len(resp.Intervals))
	for _, r := range resp.Intervals {
		iv := domain.Interval{
			ID:         r.GUID,
			TypeID:     r.Type.GUID,
			From:       r.From,
			To:         r.To,
			Comment:    r.Comment,
			ActivityID: r.ActivityGUID,
		}
		iv.Normalize()
		out = append(out, iv)
	}
	return out, nil
}

// authorize returns the cached bearer token, requesting one when needed.
func (c *httpClient) authorize(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}

	q := url.Values{}
	q.Set("username", c.cfg.Username)
	q.Set("password", c.cfg.Password)
	q.Set("grant_type", "password")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"/oauth/token?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	var tok tokenResponse
	if err := c.do(req, "/oauth/token", &tok); err != nil {
		return "", fmt.Errorf("requesting token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("requesting token: %w: empty access_token", ErrMalformedResponse)
	}
	c.token = tok.AccessToken
	return c.token, nil
}

func (c *httpClient) get(ctx context.Context, path string, q url.Values, out any) error {
	token, err := c.authorize(ctx)
	if err != nil {
		return err
	}

	target := c.cfg.Endpoint + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+token)
	req.Header.Set("Accept", "application/json")

	return c.do(req, path, out)
}

// do executes req and decodes a JSON body into out, translating failures
// into the package's sentinel errors.
func (c *httpClient) do(req *http.Request, path string, out any) error {
	start := time.Now()
	err := c.roundTrip(req, out)

	event := CallEvent{
		Path:      path,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	}
	if err == nil {
		event.Records = recordCount(out)
	}
	c.observer.OnCallComplete(event)
	return err
}

func (c *httpClient) roundTrip(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusBadRequest && req.Method == http.MethodPost:
		// the token endpoint answers bad credentials with invalid_grant
		return fmt.Errorf("%w: status %d: %s", ErrUnauthorized, resp.StatusCode, truncate(body))
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, truncate(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

func recordCount(out any) int {
	switch v := out.(type) {
	case *typesResponse:
		return len(v.Types)
	case *intervalsResponse:
		return len(v.Intervals)
	default:
		return 0
	}
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrMalformedResponse):
		return "MALFORMED"
	default:
		return "UNKNOWN"
	}
}
