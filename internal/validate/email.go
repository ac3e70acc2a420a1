package validate

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

	// densityPattern catches retina asset names like "logo@2x.png" or "icon@1.5x"
	densityPattern = regexp.MustCompile(`@\d(\.\d+)?x(\.|$)`)

	emailImageMarkers = []string{".png", ".jpg", ".svg"}
)

// CleanEmail lowercases and validates an address, rejecting asset file names
// that happen to look like addresses
func CleanEmail(s string) (string, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(s))
	if cleaned == "" || len(cleaned) > maxStringLen {
		return "", false
	}
	if !emailPattern.MatchString(cleaned) {
		return "", false
	}
	if containsAny(cleaned, emailImageMarkers) || densityPattern.MatchString(cleaned) {
		return "", false
	}
	return cleaned, true
}
