// Package mapper projects raw attribute bags onto the canonical record.
package mapper

import (
	"github.com/ppiankov/profilemap/internal/match"
	"github.com/ppiankov/profilemap/internal/model"
	"github.com/ppiankov/profilemap/internal/schema"
	"github.com/ppiankov/profilemap/internal/score"
	"github.com/ppiankov/profilemap/internal/validate"
)

// DefaultDepth is the nesting limit for deep mapping
const DefaultDepth = 3

// Selection records one projected field and the raw key it came from
type Selection struct {
	Candidate score.Candidate `json:"candidate"`
	Value     any             `json:"value"`
}

// Projector drives matching and cleaning over a bag
type Projector struct {
	table   *schema.Table
	matcher *match.Matcher
}

// NewProjector creates a projector for the given field table.
// A nil table uses the embedded default.
func NewProjector(table *schema.Table) *Projector {
	if table == nil {
		table = schema.Default()
	}
	return &Projector{
		table:   table,
		matcher: match.NewMatcher(table),
	}
}

// Table returns the field table in use
func (p *Projector) Table() *schema.Table {
	return p.table
}

// MapShallow maps the top-level keys of bag only
func (p *Projector) MapShallow(bag *model.Bag) *model.Record {
	rec, _ := p.project(bag)
	return rec
}

// Explain maps the top-level keys of bag and also returns which raw key
// fed each projected field
func (p *Projector) Explain(bag *model.Bag) (*model.Record, []Selection) {
	return p.project(bag)
}

// project walks fields in declared order. A key is claimed only when its
// value survives cleaning, so a rejected value leaves the key available to
// later fields. There is no retry with the runner-up key.
func (p *Projector) project(bag *model.Bag) (*model.Record, []Selection) {
	rec := model.NewRecord()
	var selections []Selection
	if bag.IsEmpty() {
		return rec, selections
	}

	claimed := make(map[string]bool)
	for _, entry := range p.table.Entries() {
		cand, ok := p.matcher.Best(entry, bag, claimed)
		if !ok {
			continue
		}

		raw, _ := bag.Get(cand.RawKey)
		cleaned, ok := validate.Clean(entry.Field, entry.Kind, raw)
		if !ok {
			continue
		}

		rec.Set(entry.Field, cleaned)
		claimed[cand.RawKey] = true
		selections = append(selections, Selection{Candidate: cand, Value: cleaned})
	}
	return rec, selections
}

// MapDeep maps bag and then every nested object value up to maxDepth levels.
// Fields resolved at a shallower level are never replaced by nested ones;
// among siblings the earlier key wins.
func (p *Projector) MapDeep(bag *model.Bag, maxDepth int) *model.Record {
	if bag == nil || maxDepth <= 0 {
		return model.NewRecord()
	}

	rec := p.MapShallow(bag)
	bag.Range(func(_ string, value any) bool {
		nested, ok := value.(*model.Bag)
		if !ok {
			return true
		}
		child := p.MapDeep(nested, maxDepth-1)
		for _, f := range child.Fields() {
			if rec.Has(f) {
				continue
			}
			v, _ := child.Get(f)
			rec.Set(f, v)
		}
		return true
	})
	return rec
}
