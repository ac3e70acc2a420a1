package extract

import (
	"context"
	"net/url"
	"strings"

	"github.com/ppiankov/profilemap/internal/model"
	"github.com/ppiankov/profilemap/internal/validate"
)

var cookieNameMarkers = []string{"user", "profile", "email"}

// CookieCollector scans the cookie header for user-like cookies
type CookieCollector struct {
	walker *Walker
}

// NewCookieCollector creates a cookie collector
func NewCookieCollector(walker *Walker) *CookieCollector {
	return &CookieCollector{walker: walker}
}

func (c *CookieCollector) Name() string { return SourceCookies }

// Collect decodes each matching cookie as JSON. A value that is not JSON but
// is itself an email address is adopted as the email field.
func (c *CookieCollector) Collect(_ context.Context, page *Page) (*model.Bag, error) {
	out := model.NewBag()

	for _, part := range strings.Split(page.Snapshot.Cookies, ";") {
		name, raw, _ := strings.Cut(strings.TrimSpace(part), "=")
		if name == "" || !containsMarker(name, cookieNameMarkers) {
			continue
		}

		decoded, err := url.PathUnescape(raw)
		if err != nil {
			decoded = raw
		}

		parsed, err := model.ParseJSON([]byte(decoded))
		if err != nil {
			if validate.Plausible(validate.HintEmail, raw) {
				out.SetIfAbsent(string(validate.HintEmail), decoded)
			}
			continue
		}
		if isObject(parsed) {
			out.Merge(c.walker.Walk(parsed), false)
		}
	}

	return out, nil
}
