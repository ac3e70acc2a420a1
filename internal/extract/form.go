package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/profilemap/internal/model"
	"github.com/ppiankov/profilemap/internal/validate"
)

// formRule classifies a form control by the words in its placeholder, name,
// id, aria-label and label text
type formRule struct {
	Key   string
	Hint  validate.Hint
	Words []string
}

// nameRules are exclusive: a control is at most one kind of name
var nameRules = []formRule{
	{Key: "first_name", Hint: validate.HintName, Words: []string{"first name", "firstname", "first_name", "fname", "given name"}},
	{Key: "last_name", Hint: validate.HintName, Words: []string{"last name", "lastname", "last_name", "lname", "surname", "family name"}},
	{Key: "full_name", Hint: validate.HintName, Words: []string{"full name", "display name", "username", "name"}},
}

// detailRules are tried in order and the first match classifies the control.
// Specific words come before the ones they contain ("zip" before "address").
var detailRules = []formRule{
	{Key: "email", Hint: validate.HintEmail, Words: []string{"email", "e-mail", "mail"}},
	{Key: "phone", Hint: validate.HintPhone, Words: []string{"phone", "mobile", "tel", "contact"}},
	{Key: "gender", Hint: validate.HintGender, Words: []string{"gender", "sex"}},
	{Key: "dob", Hint: validate.HintDOB, Words: []string{"dob", "date of birth", "birthday", "birth date"}},
	{Key: "zip_code", Hint: validate.HintAddress, Words: []string{"zip", "postal", "pincode"}},
	{Key: "city", Hint: validate.HintAddress, Words: []string{"city"}},
	{Key: "state", Hint: validate.HintAddress, Words: []string{"state", "province", "region"}},
	{Key: "country", Hint: validate.HintAddress, Words: []string{"country", "nation"}},
	{Key: "address", Hint: validate.HintAddress, Words: []string{"address", "street", "location"}},
}

// skippedInputTypes never carry profile values
var skippedInputTypes = map[string]bool{
	"hidden": true, "password": true, "submit": true, "button": true,
	"reset": true, "file": true, "image": true, "checkbox": true,
}

// FormCollector reads filled-in account forms. Each input, select and
// textarea with a value is classified by its descriptors; the first value
// per key wins.
type FormCollector struct {
	noise *validate.NoiseFilter
}

// NewFormCollector creates a form collector
func NewFormCollector(noise *validate.NoiseFilter) *FormCollector {
	return &FormCollector{noise: noise}
}

func (c *FormCollector) Name() string { return SourceForm }

// Collect classifies every filled form control in the document
func (c *FormCollector) Collect(_ context.Context, page *Page) (*model.Bag, error) {
	out := model.NewBag()
	if page.Doc == nil {
		return out, nil
	}

	page.Doc.Find("input, select, textarea").Each(func(_ int, s *goquery.Selection) {
		value := controlValue(s)
		if value == "" {
			return
		}
		text := describeControl(page.Doc, s)
		inputType := strings.ToLower(s.AttrOr("type", ""))

		if rule, ok := firstRule(nameRules, text); ok && !strings.Contains(value, "@") {
			c.keep(out, page.Host, rule, value)
		}

		switch {
		case inputType == "email" || strings.Contains(value, "@"):
			c.keep(out, page.Host, detailRules[0], value)
		case inputType == "tel":
			c.keep(out, page.Host, detailRules[1], value)
		default:
			if rule, ok := firstRule(detailRules, text); ok {
				c.keep(out, page.Host, rule, value)
			}
		}
	})

	return out, nil
}

func (c *FormCollector) keep(out *model.Bag, host string, rule formRule, value string) {
	if out.Has(rule.Key) || !validate.Plausible(rule.Hint, value) {
		return
	}
	if c.noise.IsNoise(host, string(rule.Hint), value) {
		return
	}
	out.Set(rule.Key, value)
}

func firstRule(rules []formRule, text string) (formRule, bool) {
	for _, r := range rules {
		for _, w := range r.Words {
			if strings.Contains(text, w) {
				return r, true
			}
		}
	}
	return formRule{}, false
}

// controlValue returns the submitted value of a form control, or "" when
// the control holds nothing worth reading
func controlValue(s *goquery.Selection) string {
	switch goquery.NodeName(s) {
	case "input":
		inputType := strings.ToLower(s.AttrOr("type", "text"))
		if skippedInputTypes[inputType] {
			return ""
		}
		if inputType == "radio" {
			if _, checked := s.Attr("checked"); !checked {
				return ""
			}
		}
		return strings.TrimSpace(s.AttrOr("value", ""))
	case "select":
		opt := s.Find("option[selected]").First()
		if opt.Length() == 0 {
			return ""
		}
		if v, ok := opt.Attr("value"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(opt.Text())
	case "textarea":
		return strings.TrimSpace(s.Text())
	}
	return ""
}

// describeControl joins the lowercased descriptors of a control. Labels are
// found through for= or an enclosing label element.
func describeControl(doc *goquery.Document, s *goquery.Selection) string {
	parts := []string{
		s.AttrOr("placeholder", ""),
		s.AttrOr("name", ""),
		s.AttrOr("id", ""),
		s.AttrOr("aria-label", ""),
	}
	if id := s.AttrOr("id", ""); id != "" {
		doc.Find("label").EachWithBreak(func(_ int, l *goquery.Selection) bool {
			if l.AttrOr("for", "") == id {
				parts = append(parts, l.Text())
				return false
			}
			return true
		})
	}
	if enclosing := s.Closest("label"); enclosing.Length() > 0 {
		parts = append(parts, enclosing.Text())
	}
	return strings.ToLower(strings.Join(parts, " "))
}
