package score

import (
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/profilemap/internal/model"
)

const (
	baseScore      = 1
	exactNameBonus = 100
	shortKeyLimit  = 20
	noSepBonus     = 5
)

// Breakdown records how each scoring rule contributed
type Breakdown struct {
	Base        int `json:"base"`
	ExactName   int `json:"exact_name"`
	Specificity int `json:"specificity"`
	Brevity     int `json:"brevity"`
	NoSeparator int `json:"no_separator"`
}

// Candidate is a raw key considered for a canonical field
type Candidate struct {
	RawKey    string      `json:"raw_key"`
	Field     model.Field `json:"field"`
	Score     int         `json:"score"`
	Breakdown Breakdown   `json:"breakdown"`
}

// Scorer ranks raw keys against canonical fields
type Scorer struct {
	bonuses map[model.Field]int
}

// NewScorer creates a scorer with the given per-field specificity bonuses
func NewScorer(bonuses map[model.Field]int) *Scorer {
	copied := make(map[model.Field]int, len(bonuses))
	for f, b := range bonuses {
		copied[f] = b
	}
	return &Scorer{bonuses: copied}
}

// Calculate scores rawKey as a candidate for field. It does not test the
// synonym pattern; callers only score keys that already matched.
func (s *Scorer) Calculate(field model.Field, rawKey string) Candidate {
	var b Breakdown

	// 1. Every match starts at one
	b.Base = baseScore

	// 2. Key spelled exactly like the field
	if strings.EqualFold(rawKey, string(field)) {
		b.ExactName = exactNameBonus
	}

	// 3. Static per-field specificity
	b.Specificity = s.bonuses[field]

	// 4. Shorter keys are usually more specific
	if n := utf8.RuneCountInString(rawKey); n < shortKeyLimit {
		b.Brevity = shortKeyLimit - n
	}

	// 5. Keys without separators
	if !strings.ContainsAny(rawKey, "_- \t\n\r\f\v") {
		b.NoSeparator = noSepBonus
	}

	return Candidate{
		RawKey:    rawKey,
		Field:     field,
		Score:     b.Base + b.ExactName + b.Specificity + b.Brevity + b.NoSeparator,
		Breakdown: b,
	}
}

// Better reports whether c beats the current best. Ties keep the earlier key.
func Better(c Candidate, best *Candidate) bool {
	return best == nil || c.Score > best.Score
}
