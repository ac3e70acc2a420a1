package validate

import (
	"regexp"
	"strings"
)

var phoneStripPattern = regexp.MustCompile(`[^\d+\-\s()]`)

// epochPrefixes mark digit strings that are more likely unix timestamps
// (seconds or milliseconds) than phone numbers
var epochPrefixes = []string{"17", "16", "20", "12"}

// CleanPhone keeps phone punctuation, requires 10 to 15 digits and rejects
// timestamp-shaped numbers. Ten-digit numbers are formatted as "+91 XXXXXXXXXX"
// and twelve-digit numbers with a 91 prefix as "+91XXXXXXXXXX".
func CleanPhone(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || len(trimmed) > maxStringLen {
		return "", false
	}

	cleaned := strings.TrimSpace(phoneStripPattern.ReplaceAllString(trimmed, ""))
	digits := digitsOnly(cleaned)
	if len(digits) < 10 || len(digits) > 15 {
		return "", false
	}

	if len(digits) == 10 || len(digits) == 13 {
		for _, prefix := range epochPrefixes {
			if strings.HasPrefix(digits, prefix) {
				return "", false
			}
		}
	}

	switch {
	case len(digits) == 10:
		return "+91 " + digits, true
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		return "+" + digits, true
	}
	return cleaned, true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
