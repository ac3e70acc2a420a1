package adapters

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/profilemap/internal/extract"
	"github.com/ppiankov/profilemap/internal/model"
	"github.com/ppiankov/profilemap/internal/validate"
)

// Pick copies one value out of an object. Join is tried first: when every
// listed path holds a value they are joined with a space. Otherwise the
// first non-empty value among Paths is used.
type Pick struct {
	Key   string
	Paths []string
	Join  []string
}

// RESTStage requests site endpoints one after another and picks values from
// the first response that yields any
type RESTStage struct {
	Endpoints []string

	// Roots are tried in order; the whole body is used when none is an object
	Roots []string
	Picks []Pick
}

// StateStage reads global state. The first path holding an object that
// yields data is used. With Picks set values are copied directly, otherwise
// the object is searched with Rules.
type StateStage struct {
	Paths     []string
	Picks     []Pick
	Rules     []extract.FieldRule
	JoinNames bool
}

// DOMPick reads one field from the document. Without Scan only the first
// element of the first matching selector is read.
//
// Parts replaces the element value with the texts of the listed
// descendants joined by " - ". Match keeps only its first capture group and
// drops values it does not match. Nth skips that many accepted values and
// implies Scan.
type DOMPick struct {
	Key       string
	Selectors []string
	Attr      string
	Strip     []string
	Hint      validate.Hint
	Scan      bool
	Parts     []string
	Match     *regexp.Regexp
	Nth       int
}

// TableStage reads a label/value table, such as a profile details page.
// The first label fragment a row's label contains decides its key.
type TableStage struct {
	Rows   string
	Labels []TableLabel
	Skip   []string
}

// TableLabel maps a label fragment to a key. SplitName also fills
// first_name and last_name from a multi-word value.
type TableLabel struct {
	Contains  string
	Key       string
	SplitName bool
}

// Staged is a declarative adapter. Stages run in order (REST, state, DOM,
// table, profile) and each only fills keys still missing. Values the noise
// filter knows as site constants are dropped in every stage. Guard gates the
// account stages only; the table and profile stages read public profile
// pages and always run.
type Staged struct {
	Site    string
	Sites   []string
	Guard   string
	REST    *RESTStage
	State   []StateStage
	DOM     []DOMPick
	Table   *TableStage
	Profile []DOMPick
	noise   *validate.NoiseFilter
}

// Name returns the adapter name
func (s *Staged) Name() string { return s.Site }

// Domains returns the served domains
func (s *Staged) Domains() []string { return s.Sites }

// ExtractAccountData runs the configured stages against the page
func (s *Staged) ExtractAccountData(ctx context.Context, page *extract.Page) (*model.Bag, error) {
	out := model.NewBag()

	if s.guarded(page) {
		// 1. Site endpoints
		if s.REST != nil && page.Net != nil {
			if err := s.runREST(ctx, page, out); err != nil {
				return out, err
			}
		}

		// 2. Global state
		for _, stage := range s.State {
			s.runState(stage, page, out)
		}

		// 3. Document
		s.runDOM(s.DOM, page, out)
	}

	// 4. Profile tables and profile page markup
	if s.Table != nil && page.Doc != nil {
		s.runTable(page, out)
	}
	s.runDOM(s.Profile, page, out)

	return out, nil
}

func (s *Staged) guarded(page *extract.Page) bool {
	if s.Guard == "" {
		return true
	}
	v, ok := page.Globals.Lookup(s.Guard)
	return ok && truthy(v)
}

func (s *Staged) runDOM(picks []DOMPick, page *extract.Page, out *model.Bag) {
	if page.Doc == nil {
		return
	}
	for _, pick := range picks {
		if out.Has(pick.Key) {
			continue
		}
		if value := s.readDOM(pick, page); value != "" {
			out.Set(pick.Key, value)
		}
	}
}

func (s *Staged) runTable(page *extract.Page, out *model.Bag) {
	page.Doc.Find(s.Table.Rows).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		label := strings.ToLower(strings.TrimSpace(cells.First().Text()))
		value := strings.TrimSpace(cells.Last().Text())
		if value == "" || containsFold(s.Table.Skip, value) {
			return
		}

		for _, l := range s.Table.Labels {
			if !strings.Contains(label, l.Contains) {
				continue
			}
			if s.noise.IsNoise(page.Host, l.Key, value) {
				return
			}
			out.SetIfAbsent(l.Key, value)
			if l.SplitName {
				if first, last, ok := strings.Cut(value, " "); ok && strings.TrimSpace(last) != "" {
					out.SetIfAbsent("first_name", first)
					out.SetIfAbsent("last_name", strings.TrimSpace(last))
				}
			}
			return
		}
	})
}

func containsFold(list []string, value string) bool {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

func (s *Staged) runREST(ctx context.Context, page *extract.Page, out *model.Bag) error {
	for _, endpoint := range s.REST.Endpoints {
		if err := ctx.Err(); err != nil {
			return err
		}

		body, err := page.Net.GetJSON(ctx, page.Resolve(endpoint))
		if err != nil {
			continue
		}
		parsed, err := model.ParseJSON(body)
		if err != nil {
			continue
		}

		root := restRoot(parsed, s.REST.Roots)
		if root == nil {
			continue
		}
		found := s.applyPicks(s.REST.Picks, root, page.Host)
		if !found.IsEmpty() {
			out.Merge(found, false)
			return nil
		}
	}
	return nil
}

func (s *Staged) runState(stage StateStage, page *extract.Page, out *model.Bag) {
	var walker *extract.Walker
	if len(stage.Picks) == 0 {
		walker = &extract.Walker{
			MaxDepth:  extract.DefaultWalkDepth,
			Rules:     stage.Rules,
			JoinNames: stage.JoinNames,
			Reject: func(h validate.Hint, v string) bool {
				return s.noise.IsNoise(page.Host, string(h), v)
			},
		}
	}

	for _, path := range stage.Paths {
		value, ok := page.Globals.Lookup(path)
		if !ok {
			continue
		}
		obj, ok := value.(*model.Bag)
		if !ok || obj == nil {
			continue
		}

		var found *model.Bag
		if walker != nil {
			found = walker.Walk(obj)
		} else {
			found = s.applyPicks(stage.Picks, obj, page.Host)
		}
		if !found.IsEmpty() {
			out.Merge(found, false)
			return
		}
	}
}

func (s *Staged) applyPicks(picks []Pick, obj *model.Bag, host string) *model.Bag {
	out := model.NewBag()
	for _, p := range picks {
		value, ok := pickValue(p, obj)
		if !ok {
			continue
		}
		if str, isStr := value.(string); isStr && s.noise.IsNoise(host, p.Key, str) {
			continue
		}
		out.Set(p.Key, value)
	}
	return out
}

func pickValue(p Pick, obj *model.Bag) (any, bool) {
	if len(p.Join) > 0 {
		parts := make([]string, 0, len(p.Join))
		for _, path := range p.Join {
			v, ok := obj.Lookup(path)
			if !ok || !usable(v) {
				break
			}
			parts = append(parts, scalarString(v))
		}
		if len(parts) == len(p.Join) {
			return strings.Join(parts, " "), true
		}
	}
	for _, path := range p.Paths {
		if v, ok := obj.Lookup(path); ok && usable(v) {
			return v, true
		}
	}
	return nil, false
}

func (s *Staged) readDOM(pick DOMPick, page *extract.Page) string {
	for _, sel := range pick.Selectors {
		matches := page.Doc.Find(sel)
		if !pick.Scan && pick.Nth == 0 {
			matches = matches.First()
		}

		var value string
		skip := pick.Nth
		matches.EachWithBreak(func(_ int, el *goquery.Selection) bool {
			v := domValue(el, pick)
			if v != "" && pick.Match != nil {
				m := pick.Match.FindStringSubmatch(v)
				if m == nil {
					return true
				}
				v = strings.TrimSpace(m[min(1, len(m)-1)])
			}
			if v == "" {
				return true
			}
			if pick.Hint != "" && !validate.Plausible(pick.Hint, v) {
				return true
			}
			if s.noise.IsNoise(page.Host, pick.Key, v) {
				return true
			}
			if skip > 0 {
				skip--
				return true
			}
			value = v
			return false
		})
		if value != "" {
			return value
		}
	}
	return ""
}

func domValue(el *goquery.Selection, pick DOMPick) string {
	var raw string
	switch {
	case len(pick.Parts) > 0:
		var parts []string
		for _, sel := range pick.Parts {
			if t := strings.TrimSpace(el.Find(sel).First().Text()); t != "" {
				parts = append(parts, t)
			}
		}
		raw = strings.Join(parts, " - ")
	case pick.Attr != "":
		raw = el.AttrOr(pick.Attr, "")
	case goquery.NodeName(el) == "input":
		raw = el.AttrOr("value", "")
	default:
		raw = el.Text()
	}

	raw = strings.TrimSpace(raw)
	for _, s := range pick.Strip {
		raw = strings.Replace(raw, s, "", 1)
	}
	return strings.TrimSpace(raw)
}

// restRoot selects the object holding user attributes in an endpoint response
func restRoot(body any, roots []string) *model.Bag {
	obj, ok := body.(*model.Bag)
	if !ok || obj == nil {
		return nil
	}
	for _, r := range roots {
		if v, ok := obj.Get(r); ok && truthy(v) {
			nested, isObj := v.(*model.Bag)
			if !isObj {
				return nil
			}
			return nested
		}
	}
	return obj
}

// usable accepts non-blank strings and numbers
func usable(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) != ""
	case json.Number:
		return true
	}
	return false
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return ""
}

// truthy follows script truthiness for decoded JSON values
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	}
	return true
}
