// Package match selects, for each canonical field, the raw key that best
// names it.
package match

import (
	"github.com/ppiankov/profilemap/internal/model"
	"github.com/ppiankov/profilemap/internal/schema"
	"github.com/ppiankov/profilemap/internal/score"
)

// Matcher pairs the synonym table with the deterministic scorer
type Matcher struct {
	table  *schema.Table
	scorer *score.Scorer
}

// NewMatcher creates a matcher over the given field table
func NewMatcher(table *schema.Table) *Matcher {
	return &Matcher{
		table:  table,
		scorer: score.NewScorer(table.Bonuses()),
	}
}

// Table returns the field table the matcher was built from
func (m *Matcher) Table() *schema.Table {
	return m.table
}

// Candidates scores every unclaimed key of bag that matches the entry's
// synonym pattern, in bag order
func (m *Matcher) Candidates(entry *schema.Entry, bag *model.Bag, claimed map[string]bool) []score.Candidate {
	var out []score.Candidate
	bag.Range(func(key string, _ any) bool {
		if claimed[key] || !entry.Matches(key) {
			return true
		}
		out = append(out, m.scorer.Calculate(entry.Field, key))
		return true
	})
	return out
}

// Best returns the highest-scoring candidate; ties keep the first key in bag order
func (m *Matcher) Best(entry *schema.Entry, bag *model.Bag, claimed map[string]bool) (score.Candidate, bool) {
	var best *score.Candidate
	for _, c := range m.Candidates(entry, bag, claimed) {
		if score.Better(c, best) {
			picked := c
			best = &picked
		}
	}
	if best == nil {
		return score.Candidate{}, false
	}
	return *best, true
}
