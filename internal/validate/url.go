package validate

import (
	"net/url"
	"strings"
)

const maxURLLen = 2048

// CleanURL requires a host and adds an https scheme when none is present.
// Protocol-relative values ("//cdn.example.com/a.jpg") get "https:" prepended.
func CleanURL(s string) (string, bool) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" || len(cleaned) > maxURLLen {
		return "", false
	}
	if containsAny(cleaned, styleMarkers) {
		return "", false
	}
	if strings.HasPrefix(strings.ToLower(cleaned), "data:") {
		return "", false
	}

	lower := strings.ToLower(cleaned)
	switch {
	case strings.HasPrefix(cleaned, "//"):
		cleaned = "https:" + cleaned
	case !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://"):
		cleaned = "https://" + cleaned
	}

	parsed, err := url.Parse(cleaned)
	if err != nil || parsed.Host == "" || strings.ContainsAny(parsed.Host, " \t") {
		return "", false
	}
	return cleaned, true
}
