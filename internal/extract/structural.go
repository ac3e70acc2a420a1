package extract

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/profilemap/internal/model"
	"github.com/ppiankov/profilemap/internal/validate"
)

// SelectorGroup is an ordered selector list for one loose field
type SelectorGroup struct {
	Hint      validate.Hint
	Selectors []string
}

// DefaultSelectors is the structural query catalogue
var DefaultSelectors = []SelectorGroup{
	{validate.HintName, []string{
		`[data-testid*="user-name"]`,
		`[class*="user-name"]`,
		`[class*="profile-name"]`,
		`[class*="account-name"]`,
		`.user-info .name`,
		`.profile-info .name`,
		`.account-info .name`,
		`h1[class*="name"]`,
		`span[class*="display-name"]`,
		`[aria-label*="name"]`,
	}},
	{validate.HintEmail, []string{
		`[data-testid*="email"]`,
		`[class*="email"]`,
		`input[type="email"]`,
		`[href^="mailto:"]`,
		`.user-info .email`,
		`.profile-info .email`,
		`.account-info .email`,
	}},
	{validate.HintPhone, []string{
		`[data-testid*="phone"]`,
		`[class*="phone"]`,
		`[class*="mobile"]`,
		`input[type="tel"]`,
		`[href^="tel:"]`,
		`.user-info .phone`,
		`.profile-info .phone`,
		`.account-info .mobile`,
	}},
	{validate.HintAvatar, []string{
		`[data-testid*="avatar"]`,
		`[class*="avatar"]`,
		`[class*="profile-pic"]`,
		`[class*="user-image"]`,
		`.user-info img`,
		`.profile-info img`,
	}},
}

// StructuralCollector queries the document with a fixed selector catalogue.
// Per field, selectors are tried in order and the first plausible element wins.
type StructuralCollector struct {
	groups []SelectorGroup
	noise  *validate.NoiseFilter
}

// NewStructuralCollector creates a collector over DefaultSelectors
func NewStructuralCollector(noise *validate.NoiseFilter) *StructuralCollector {
	return &StructuralCollector{groups: DefaultSelectors, noise: noise}
}

func (c *StructuralCollector) Name() string { return SourceStructural }

// Collect runs the selector catalogue against the page document
func (c *StructuralCollector) Collect(_ context.Context, page *Page) (*model.Bag, error) {
	out := model.NewBag()
	if page.Doc == nil {
		return out, nil
	}

	for _, group := range c.groups {
		key := string(group.Hint)
		for _, sel := range group.Selectors {
			page.Doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				value := ElementValue(s, group.Hint, page.URL)
				if value == "" || !validate.Plausible(group.Hint, value) {
					return true
				}
				if c.noise.IsNoise(page.Host, key, value) {
					return true
				}
				out.Set(key, value)
				return false
			})
			if out.Has(key) {
				break
			}
		}
	}

	return out, nil
}

// ElementValue reads the value an element carries for a field: image source
// for avatars, input values, mailto/tel targets, otherwise trimmed text.
func ElementValue(s *goquery.Selection, hint validate.Hint, base *url.URL) string {
	tag := goquery.NodeName(s)

	switch {
	case hint == validate.HintAvatar && tag == "img":
		src, _ := s.Attr("src")
		return resolveAgainst(base, strings.TrimSpace(src))
	case tag == "input":
		v, _ := s.Attr("value")
		return strings.TrimSpace(v)
	case tag == "a" && hint == validate.HintEmail:
		href, _ := s.Attr("href")
		return strings.Replace(resolveAgainst(base, href), "mailto:", "", 1)
	case tag == "a" && hint == validate.HintPhone:
		href, _ := s.Attr("href")
		return strings.Replace(resolveAgainst(base, href), "tel:", "", 1)
	default:
		return strings.TrimSpace(s.Text())
	}
}

// resolveAgainst mirrors the browser's absolute src/href properties
func resolveAgainst(base *url.URL, ref string) string {
	if base == nil || ref == "" {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
