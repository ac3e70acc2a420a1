// Package schema holds the canonical field table: synonym patterns,
// value kinds and specificity bonuses for every canonical field.
package schema

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ppiankov/profilemap/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed fields.yaml
var defaultFields []byte

// fileFormat mirrors fields.yaml
type fileFormat struct {
	Fields []struct {
		Name     string   `yaml:"name"`
		Kind     string   `yaml:"kind"`
		Bonus    int      `yaml:"bonus"`
		Synonyms []string `yaml:"synonyms"`
	} `yaml:"fields"`
}

// Entry describes one canonical field
type Entry struct {
	Field    model.Field
	Kind     model.Kind
	Bonus    int
	Synonyms []string
	Pattern  *regexp.Regexp
}

// Matches reports whether a raw key matches the field's synonym pattern
func (e *Entry) Matches(rawKey string) bool {
	return e.Pattern.MatchString(rawKey)
}

// Table is the immutable, ordered field table
type Table struct {
	entries []*Entry
	byField map[model.Field]*Entry
}

// Default returns the embedded field table
func Default() *Table {
	t, err := Parse(defaultFields)
	if err != nil {
		panic(fmt.Sprintf("schema: embedded fields.yaml: %v", err))
	}
	return t
}

// Load reads a field table from a YAML file. An empty path yields the default table.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fields file: %w", err)
	}
	return Parse(data)
}

// Parse builds a table from YAML. Only canonical fields are accepted; entries
// are kept in the declared canonical order regardless of file order.
func Parse(data []byte) (*Table, error) {
	var ff fileFormat
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("parse fields: %w", err)
	}

	parsed := make(map[model.Field]*Entry, len(ff.Fields))
	for _, f := range ff.Fields {
		field := model.Field(f.Name)
		if !model.IsCanonical(field) {
			return nil, fmt.Errorf("unknown field %q", f.Name)
		}
		if _, dup := parsed[field]; dup {
			return nil, fmt.Errorf("duplicate field %q", f.Name)
		}
		kind, ok := model.ParseKind(f.Kind)
		if !ok {
			return nil, fmt.Errorf("field %s: unknown kind %q", f.Name, f.Kind)
		}
		if len(f.Synonyms) == 0 {
			return nil, fmt.Errorf("field %s: no synonyms", f.Name)
		}
		pattern, err := CompileSynonyms(f.Synonyms)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		parsed[field] = &Entry{
			Field:    field,
			Kind:     kind,
			Bonus:    f.Bonus,
			Synonyms: f.Synonyms,
			Pattern:  pattern,
		}
	}

	t := &Table{byField: parsed}
	for _, field := range model.Fields() {
		if e, ok := parsed[field]; ok {
			t.entries = append(t.entries, e)
		}
	}
	return t, nil
}

// CompileSynonyms builds a case-insensitive, word-bounded alternation.
// Whitespace inside a synonym matches any run of spaces, underscores or hyphens.
func CompileSynonyms(synonyms []string) (*regexp.Regexp, error) {
	alts := make([]string, 0, len(synonyms))
	for _, s := range synonyms {
		words := strings.Fields(strings.ToLower(s))
		if len(words) == 0 {
			continue
		}
		quoted := make([]string, len(words))
		for i, w := range words {
			quoted[i] = regexp.QuoteMeta(w)
		}
		alts = append(alts, strings.Join(quoted, `[\s_-]*`))
	}
	if len(alts) == 0 {
		return nil, fmt.Errorf("empty synonym list")
	}
	return regexp.Compile(`(?i)\b(` + strings.Join(alts, "|") + `)\b`)
}

// Entries returns the table entries in canonical order
func (t *Table) Entries() []*Entry {
	out := make([]*Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup returns the entry for a field
func (t *Table) Lookup(f model.Field) (*Entry, bool) {
	e, ok := t.byField[f]
	return e, ok
}

// Kind returns the value kind of a field, defaulting to plain string
func (t *Table) Kind(f model.Field) model.Kind {
	if e, ok := t.byField[f]; ok {
		return e.Kind
	}
	return model.KindString
}

// Bonuses returns the specificity bonus per field
func (t *Table) Bonuses() map[model.Field]int {
	out := make(map[model.Field]int)
	for _, e := range t.entries {
		if e.Bonus != 0 {
			out[e.Field] = e.Bonus
		}
	}
	return out
}
