package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/profilemap/internal/cache"
	"github.com/ppiankov/profilemap/internal/logging"
	"golang.org/x/net/publicsuffix"
)

// Session issues credentialed JSON requests against one origin, the way a
// page's own scripts would. Cookies set by responses are kept for later
// requests in the same session.
type Session struct {
	client     *Client
	origin     *url.URL
	cookieHash string
	httpClient *http.Client
}

// Session creates a session for origin seeded with a Cookie header value
func (c *Client) Session(origin, cookieHeader string) (*Session, error) {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid origin %q", origin)
	}
	u = &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	if cookieHeader != "" {
		if cookies, err := http.ParseCookie(cookieHeader); err == nil {
			jar.SetCookies(u, cookies)
		}
	}

	sum := sha256.Sum256([]byte(cookieHeader))
	return &Session{
		client:     c,
		origin:     u,
		cookieHash: hex.EncodeToString(sum[:8]),
		httpClient: &http.Client{
			Transport:     c.transport,
			Jar:           jar,
			CheckRedirect: capRedirects(u.Host),
		},
	}, nil
}

// GetJSON requests rawURL, which must be on the session origin.
// Successful bodies are cached per URL and cookie set.
func (s *Session) GetJSON(ctx context.Context, rawURL string) ([]byte, error) {
	c := s.client
	logger := logging.Or(ctx, c.logger)

	// 1. Same origin only
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}
	if !strings.EqualFold(target.Host, s.origin.Host) || target.Scheme != s.origin.Scheme {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrCrossOrigin)
	}

	// 2. Bound the whole call: robots lookup, pacing and request
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	// 3. Robots. A crawl delay the call cannot wait out counts as a refusal.
	var crawlDelay time.Duration
	if c.robots != nil {
		allowed, delay, _ := c.robots.CanFetch(ctx, rawURL)
		if !allowed {
			return nil, fmt.Errorf("%s: %w", target.Path, ErrDisallowed)
		}
		if c.requestTimeout > 0 && delay >= c.requestTimeout {
			return nil, fmt.Errorf("%s: crawl delay %s exceeds request timeout: %w", target.Path, delay, ErrDisallowed)
		}
		crawlDelay = delay
	}

	// 4. Cache
	key := cache.CacheKey(rawURL, s.cookieHash)
	if c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			logger.Debug().Str("url", rawURL).Msg("cache hit")
			return body, nil
		}
	}

	// 5. Pace
	if err := c.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	// 6. Request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
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

	if c.cache != nil {
		if err := c.cache.Set(key, body, c.cacheTTL); err != nil {
			logger.Debug().Err(err).Msg("cache write failed")
		}
	}

	logger.Debug().Str("url", rawURL).Int("bytes", len(body)).Msg("endpoint fetched")
	return body, nil
}
