package validate

import (
	"strings"

	"github.com/ppiankov/profilemap/internal/model"
)

// builtinNoise lists known constant values that pass shape checks
// but belong to the site itself (support lines, no-reply addresses)
var builtinNoise = []model.NoiseRule{
	{Domain: "flipkart.com", Field: "email", Contains: []string{"flipkart.com"}},
	{Domain: "flipkart.com", Field: "phone", Contains: []string{"04445614700"}},
}

// NoiseFilter suppresses site-constant values per domain and field
type NoiseFilter struct {
	byDomain map[string][]compiledRule
	global   []compiledRule
}

type compiledRule struct {
	field    string
	contains []string
}

// NewNoiseFilter creates a filter from the built-in rules plus extra rules
func NewNoiseFilter(extra []model.NoiseRule) *NoiseFilter {
	f := &NoiseFilter{
		byDomain: make(map[string][]compiledRule),
	}

	for _, rule := range append(append([]model.NoiseRule{}, builtinNoise...), extra...) {
		cr := compiledRule{field: strings.ToLower(rule.Field)}
		for _, c := range rule.Contains {
			if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
				cr.contains = append(cr.contains, c)
			}
		}
		if len(cr.contains) == 0 {
			continue
		}

		domain := strings.ToLower(strings.TrimSpace(rule.Domain))
		if domain == "" {
			f.global = append(f.global, cr)
			continue
		}
		f.byDomain[domain] = append(f.byDomain[domain], cr)
	}

	return f
}

// IsNoise reports whether value is known noise for field on the given host.
// The host may be a full hostname; rules for a parent domain also apply.
func (f *NoiseFilter) IsNoise(host, field, value string) bool {
	if f == nil {
		return false
	}
	host = strings.ToLower(host)
	field = strings.ToLower(field)
	value = strings.ToLower(value)

	if matchRules(f.global, field, value) {
		return true
	}

	// Check explicit domain, then parent domains (www.flipkart.com -> flipkart.com)
	for domain, rules := range f.byDomain {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			if matchRules(rules, field, value) {
				return true
			}
		}
	}

	return false
}

func matchRules(rules []compiledRule, field, value string) bool {
	for _, r := range rules {
		if r.field != field {
			continue
		}
		for _, c := range r.contains {
			if strings.Contains(value, c) {
				return true
			}
		}
	}
	return false
}
