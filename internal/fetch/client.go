// Package fetch is the outbound HTTP layer: page fetches for live scans and
// credentialed same-origin JSON requests for the probe and adapter stages.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/profilemap/internal/cache"
	"github.com/ppiankov/profilemap/internal/model"
	"github.com/ppiankov/profilemap/internal/util"
	"github.com/ppiankov/profilemap/internal/worker"
	"github.com/rs/zerolog"
)

const maxRedirects = 3

var (
	// ErrCrossOrigin is returned for a request outside the session origin
	ErrCrossOrigin = errors.New("cross-origin request refused")

	// ErrDisallowed is returned when robots.txt forbids the path
	ErrDisallowed = errors.New("disallowed by robots.txt")
)

// StatusError is a non-2xx response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

// Client holds the shared transport, pacing, robots rules and response cache
type Client struct {
	transport      http.RoundTripper
	httpClient     *http.Client
	userAgent      string
	maxBytes       int64
	requestTimeout time.Duration
	limiter        *worker.Limiter
	robots         *util.RobotsChecker
	cache          cache.Cache
	cacheTTL       time.Duration
	logger         zerolog.Logger
}

// NewClient builds a client from configuration. respc may be nil to disable
// response caching.
func NewClient(cfg *model.Config, respc cache.Cache, logger zerolog.Logger) *Client {
	transport := util.NewTransport(cfg.HTTP)

	c := &Client{
		transport: transport,
		httpClient: &http.Client{
			Transport:     transport,
			Timeout:       cfg.HTTP.Timeout,
			CheckRedirect: capRedirects(""),
		},
		userAgent:      cfg.HTTP.UserAgent,
		maxBytes:       cfg.HTTP.MaxBodyBytes,
		requestTimeout: cfg.Network.RequestTimeout,
		limiter:        worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize),
		cache:          respc,
		cacheTTL:       cfg.Cache.MemoryTTL,
		logger:         logger.With().Str("component", "fetch").Logger(),
	}
	if cfg.Network.RespectRobots {
		c.robots = util.NewRobotsChecker(c.httpClient, cfg.HTTP.UserAgent)
	}
	return c
}

// FetchResult contains the fetched HTML and metadata
type FetchResult struct {
	HTML        string
	FinalURL    string
	StatusCode  int
	ContentType string
}

// FetchPage retrieves an HTML document, following at most three redirects
func (c *Client) FetchPage(ctx context.Context, rawURL, cookieHeader string) (*FetchResult, error) {
	if c.robots != nil && !c.robots.IsAllowed(ctx, rawURL) {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, ErrDisallowed)
	}
	if err := c.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := c.readBody(resp)
	if err != nil {
		return nil, err
	}

	return &FetchResult{
		HTML:        string(body),
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// Snapshot fetches rawURL and wraps the document as an extraction input
func (c *Client) Snapshot(ctx context.Context, rawURL, cookieHeader string) (*model.Snapshot, error) {
	res, err := c.FetchPage(ctx, rawURL, cookieHeader)
	if err != nil {
		return nil, err
	}
	return &model.Snapshot{URL: res.FinalURL, HTML: res.HTML, Cookies: cookieHeader}, nil
}

func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// capRedirects limits redirect chains and, with a host set, keeps them on it
func capRedirects(host string) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		if host != "" && !strings.EqualFold(req.URL.Host, host) {
			return fmt.Errorf("redirect to %s: %w", req.URL.Host, ErrCrossOrigin)
		}
		return nil
	}
}
