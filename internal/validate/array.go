package validate

import (
	"strings"

	"github.com/ppiankov/profilemap/internal/model"
)

var (
	institutionKeywords = []string{
		"university", "college", "school", "degree",
		"bachelor", "master", "phd", "diploma",
	}

	// marketingFragments are product-listing phrases that mention colleges
	marketingFragments = []string{
		"college cool", "college favourites", "slim-fit", "washed denims",
	}
)

const minEducationLen = 10

// cleanStringArray keeps the string elements that pass the generic rule,
// plus the institution filter for education
func cleanStringArray(field model.Field, items []any) (any, bool) {
	var kept []string
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		var cleaned string
		if field == model.FieldEducation {
			cleaned, ok = cleanEducationItem(s)
		} else {
			cleaned, ok = CleanGenericString(s)
		}
		if ok {
			kept = append(kept, cleaned)
		}
	}
	if len(kept) == 0 {
		return nil, false
	}
	return kept, true
}

func cleanEducationItem(s string) (string, bool) {
	cleaned, ok := CleanGenericString(s)
	if !ok {
		return "", false
	}
	lower := strings.ToLower(cleaned)
	if len(lower) < minEducationLen || containsAny(lower, marketingFragments) {
		return "", false
	}
	if !containsAny(lower, institutionKeywords) {
		return "", false
	}
	return cleaned, true
}
