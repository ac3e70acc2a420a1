package extract

import (
	"bytes"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/profilemap/internal/model"
)

var windowAssignPattern = regexp.MustCompile(`window\.([A-Za-z_$][\w$]*)\s*=\s*`)

// HarvestScriptState collects state that pages embed in their markup:
// JSON script blocks with an id (such as __NEXT_DATA__) and inline
// "window.NAME = {...}" assignments whose right side is plain JSON.
func HarvestScriptState(doc *goquery.Document) *model.Bag {
	out := model.NewBag()

	doc.Find(`script[type="application/json"][id]`).Each(func(_ int, s *goquery.Selection) {
		id := s.AttrOr("id", "")
		if id == "" || out.Has(id) {
			return
		}
		if parsed, err := model.ParseJSON([]byte(s.Text())); err == nil && isObject(parsed) {
			out.Set(id, parsed)
		}
	})

	doc.Find("script:not([src])").Each(func(_ int, s *goquery.Selection) {
		if t := s.AttrOr("type", ""); t != "" && t != "text/javascript" && t != "module" {
			return
		}
		body := []byte(s.Text())
		for _, m := range windowAssignPattern.FindAllSubmatchIndex(body, -1) {
			name := string(body[m[2]:m[3]])
			if out.Has(name) {
				continue
			}
			rest := bytes.TrimLeft(body[m[1]:], " \t\r\n")
			if len(rest) == 0 || (rest[0] != '{' && rest[0] != '[') {
				continue
			}
			if parsed, err := model.ParseJSONPrefix(rest); err == nil {
				out.Set(name, parsed)
			}
		}
	})

	return out
}
