package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/profilemap/internal/model"
)

// MarkupCollector reads author/description meta tags and JSON-LD Person
// objects. Keys are emitted under their canonical names.
type MarkupCollector struct{}

// NewMarkupCollector creates a markup collector
func NewMarkupCollector() *MarkupCollector {
	return &MarkupCollector{}
}

func (c *MarkupCollector) Name() string { return SourceMarkup }

func (c *MarkupCollector) Collect(_ context.Context, page *Page) (*model.Bag, error) {
	out := model.NewBag()
	if page.Doc == nil {
		return out, nil
	}

	page.Doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name := strings.ToLower(s.AttrOr("name", ""))
		property := strings.ToLower(s.AttrOr("property", ""))
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if content == "" {
			return
		}
		if strings.Contains(name, "author") || strings.Contains(property, "author") {
			out.SetIfAbsent(string(model.FieldFullName), content)
		}
		if strings.Contains(name, "description") || strings.Contains(property, "description") {
			out.SetIfAbsent(string(model.FieldBio), content)
		}
	})

	page.Doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		parsed, err := model.ParseJSON([]byte(s.Text()))
		if err != nil {
			return
		}
		for _, obj := range ldObjects(parsed) {
			if t, _ := obj.Get("@type"); t != "Person" {
				continue
			}
			copyString(out, obj, "name", string(model.FieldFullName))
			copyString(out, obj, "email", string(model.FieldEmail))
			copyString(out, obj, "telephone", string(model.FieldPhone))
			copyString(out, obj, "jobTitle", string(model.FieldRole))
			copyString(out, obj, "worksFor.name", string(model.FieldCompany))
		}
	})

	return out, nil
}

// ldObjects flattens a JSON-LD document into its top-level objects,
// including @graph members
func ldObjects(v any) []*model.Bag {
	var out []*model.Bag
	switch t := v.(type) {
	case *model.Bag:
		out = append(out, t)
		if graph, ok := t.Get("@graph"); ok {
			out = append(out, ldObjects(graph)...)
		}
	case []any:
		for _, item := range t {
			if obj, ok := item.(*model.Bag); ok {
				out = append(out, obj)
			}
		}
	}
	return out
}

func copyString(out, obj *model.Bag, path, key string) {
	v, ok := obj.Lookup(path)
	if !ok {
		return
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		out.SetIfAbsent(key, s)
	}
}
