// Package api is the HTTP client for the WasteWise bin backend.
//
// Each backend operation maps to one method issuing exactly one request.
// Failures come back as structured errors with one of three codes:
//
//	errors.ErrRequest  - the backend answered with a non-2xx status
//	errors.ErrNetwork  - no response was obtained
//	errors.ErrDecode   - the body was not the JSON shape expected
//
// The client never retries; polling and user actions decide what to do next.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wastewise/wastewise/internal/errors"
	"github.com/wastewise/wastewise/internal/logger"
	"golang.org/x/time/rate"
)

// Operation names, used in errors and log lines.
const (
	OpGetCurrentStats    = "get current stats"
	OpGetHistoricalStats = "get historical stats"
	OpGetAlerts          = "get alerts"
	OpDismissAlert       = "dismiss alert"
	OpGetSettings        = "get settings"
	OpSaveSettings       = "save settings"
	OpResetBin           = "reset bin"
)

// RequestIDHeader carries a per-request UUID for correlating client and server logs.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Client talks to one backend.
type Client struct {
	base      *url.URL
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	log       logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout on the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit caps outbound requests per second. Zero or less disables it.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for baseURL. The URL may point at the server root
// or at its /api prefix; both resolve to the same endpoints.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := normalizeBase(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		base:      base,
		http:      &http.Client{Timeout: 10 * time.Second},
		userAgent: "wastewise",
		log:       logger.NewEnvLogger("[api]"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func normalizeBase(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid API base URL %q", raw),
			"Use an absolute http(s) URL like http://localhost:5000/api")
	}
	p := strings.TrimRight(u.Path, "/")
	p = strings.TrimSuffix(p, "/api")
	u.Path = p
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// BaseURL returns the resolved API root (always ending in /api).
func (c *Client) BaseURL() string {
	return c.endpoint("")
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = c.base.Path + "/api" + path
	return u.String()
}

// GetCurrentStats fetches the latest reading.
func (c *Client) GetCurrentStats(ctx context.Context) (CurrentStats, error) {
	var out CurrentStats
	err := c.do(ctx, OpGetCurrentStats, http.MethodGet, "/current-stats", nil, &out)
	return out, err
}

// GetHistoricalStats fetches archived periods and their averages.
func (c *Client) GetHistoricalStats(ctx context.Context) (HistoricalStats, error) {
	var out HistoricalStats
	err := c.do(ctx, OpGetHistoricalStats, http.MethodGet, "/historical-stats", nil, &out)
	return out, err
}

// GetAlerts fetches active alerts in server order.
func (c *Client) GetAlerts(ctx context.Context) ([]Alert, error) {
	var out []Alert
	if err := c.do(ctx, OpGetAlerts, http.MethodGet, "/alerts", nil, nullable{&out}); err != nil {
		return nil, err
	}
	for i, a := range out {
		if a.ID == "" {
			return nil, errors.DecodeFailed(OpGetAlerts, fmt.Errorf("alert at index %d has no id", i))
		}
	}
	if out == nil {
		out = []Alert{}
	}
	return out, nil
}

// DismissAlert asks the backend to remove or archive one alert.
func (c *Client) DismissAlert(ctx context.Context, id AlertID) (Ack, error) {
	var out Ack
	if strings.TrimSpace(string(id)) == "" {
		return out, errors.New(errors.ErrInput,
			"Alert id is required",
			"Pass the id shown by 'wastewise alerts list'")
	}
	err := c.do(ctx, OpDismissAlert, http.MethodPost, "/alerts/"+url.PathEscape(string(id))+"/dismiss", nil, &out)
	return out, err
}

// GetSettings fetches the stored settings.
func (c *Client) GetSettings(ctx context.Context) (Settings, error) {
	var out Settings
	err := c.do(ctx, OpGetSettings, http.MethodGet, "/settings", nil, &out)
	return out, err
}

// SaveSettings stores a full settings object.
func (c *Client) SaveSettings(ctx context.Context, s Settings) (SaveResult, error) {
	var out SaveResult
	err := c.do(ctx, OpSaveSettings, http.MethodPost, "/settings", s, &out)
	return out, err
}

// ResetBin archives the current readings and starts a new accumulation period.
func (c *Client) ResetBin(ctx context.Context) (Ack, error) {
	var out Ack
	err := c.do(ctx, OpResetBin, http.MethodPost, "/reset-bin", nil, &out)
	return out, err
}

// serverError is the error body the backend sends with failure statuses.
type serverError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// nullable marks a decode target for which a JSON null body is valid. Go
// backends encode an empty slice as null.
type nullable struct{ v interface{} }

// do performs one request. body, if non-nil, is sent as JSON; out, if
// non-nil, receives the decoded 2xx response.
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.NetworkUnavailable(op, err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrInput,
				fmt.Sprintf("Failed to %s: cannot encode request", op), "")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return errors.NetworkUnavailable(op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("%s %s failed after %s [req %s]: %v", method, path, time.Since(start).Round(time.Millisecond), reqID, err)
		return errors.NetworkUnavailable(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return errors.NetworkUnavailable(op, err)
	}
	c.log.Debug("%s %s -> %d in %s [req %s]", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond), reqID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.RequestFailed(op, resp.StatusCode, failureCause(resp, data))
	}

	if out == nil {
		return nil
	}
	allowNull := false
	if n, ok := out.(nullable); ok {
		out, allowNull = n.v, true
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.DecodeFailed(op, fmt.Errorf("empty response body [req %s]", reqID))
	}
	if bytes.Equal(trimmed, []byte("null")) {
		if allowNull {
			return nil
		}
		return errors.DecodeFailed(op, fmt.Errorf("null response body [req %s]", reqID))
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return errors.DecodeFailed(op, fmt.Errorf("%w [req %s]", err, reqID))
	}
	return nil
}

// failureCause extracts the backend's error message, if any.
func failureCause(resp *http.Response, data []byte) error {
	var se serverError
	if json.Unmarshal(data, &se) == nil {
		if se.Error != "" {
			return fmt.Errorf("%s", se.Error)
		}
		if se.Message != "" {
			return fmt.Errorf("%s", se.Message)
		}
	}
	return fmt.Errorf("%s", resp.Status)
}
