// Package api provides a client for the remote text analysis service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/f3rmion/textlens/internal/analysis"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is used when no service address is configured.
	DefaultBaseURL = "http://localhost:8000"

	// MsgAnalyzeFailed is shown when the service gives no detail.
	MsgAnalyzeFailed = "Failed to analyze text"
	// MsgHistoryFailed is shown when the history cannot be loaded.
	MsgHistoryFailed = "Failed to load analysis history"
)

// ErrThrottled is returned when a submission exceeds the local rate limit.
var ErrThrottled = errors.New("too many analyses in a short time, try again in a moment")

// Error is a non-success HTTP response from the service.
type Error struct {
	Status int
	Detail string // The service's "detail" message, if any
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("unexpected status: %d %s", e.Status, http.StatusText(e.Status))
}

// Message reduces err to the one line shown to the user. Service details
// and throttling are shown as is, anything else becomes fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if errors.Is(err, ErrThrottled) {
		return ErrThrottled.Error()
	}
	return fallback
}

// Client talks to the analysis service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSubmitRate limits Analyze calls to perMinute, with an equal burst.
// Zero or less disables the limit.
func WithSubmitRate(perMinute int) Option {
	return func(c *Client) {
		if perMinute <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// Analyze submits text and returns the service's analysis of it.
func (c *Client) Analyze(ctx context.Context, text string) (*analysis.AnalysisResult, error) {
	refund, ok := c.reserveSubmit()
	if !ok {
		c.logger.Debug("analyze throttled locally")
		return nil, ErrThrottled
	}

	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		refund()
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var result analysis.AnalysisResult
	if err := c.do(ctx, http.MethodPost, "/analyze", bytes.NewReader(body), &result); err != nil {
		refund()
		return nil, err
	}
	return &result, nil
}

// reserveSubmit takes one submit token. Calling refund gives it back, so
// only successful submissions count against the budget.
func (c *Client) reserveSubmit() (refund func(), ok bool) {
	if c.limiter == nil {
		return func() {}, true
	}

	now := time.Now()
	r := c.limiter.ReserveN(now, 1)
	if !r.OK() {
		return nil, false
	}
	if r.DelayFrom(now) > 0 {
		r.CancelAt(now)
		return nil, false
	}
	return func() { r.CancelAt(now) }, true
}

// FetchHistory returns every analysis the service knows, in service order.
func (c *Client) FetchHistory(ctx context.Context) ([]analysis.AnalysisResult, error) {
	var results []analysis.AnalysisResult
	if err := c.do(ctx, http.MethodGet, "/history", nil, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []analysis.AnalysisResult{}
	}
	return results, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug("request done",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Status: resp.StatusCode, Detail: parseDetail(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshaling response: %w", err)
	}
	return nil
}

// parseDetail pulls a string "detail" out of an error body. Structured
// details, such as validation error lists, are ignored.
func parseDetail(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil || len(er.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(er.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}
