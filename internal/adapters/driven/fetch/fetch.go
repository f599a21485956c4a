// Package fetch provides the HTTP document fetcher used by the HTML-based
// discovery methods. It sends browser-like headers, since many IR sites
// reject anything that announces itself as a bot, and rate-limits all
// requests behind one shared token bucket.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ristream/ricast/internal/core/domain"
	"github.com/ristream/ricast/internal/core/ports/driven"
)

// maxBodyBytes caps how much of a response is read. Result pages are a few
// hundred kilobytes at most.
const maxBodyBytes = 10 << 20

var browserHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7",
}

var _ driven.Fetcher = (*Client)(nil)

// Client fetches documents over HTTP.
type Client struct {
	http    *http.Client
	limiter *RateLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRateLimit replaces the default rate limit.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(c *Client) { c.limiter = NewRateLimiter(cfg) }
}

// NewClient creates a fetcher with browser headers and the default rate
// limit.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: NewRateLimiter(DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs a rate-limited GET request for the URL.
func (c *Client) Fetch(ctx context.Context, url string) (*driven.FetchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", domain.ErrInvalidInput, err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", domain.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		c.limiter.RecordRateLimitError(retryAfter)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrNetwork, err)
	}

	return &driven.FetchResult{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}, nil
}
