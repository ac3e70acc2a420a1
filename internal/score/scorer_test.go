package score

import (
	"testing"

	"github.com/ppiankov/profilemap/internal/model"
)

func testBonuses() map[model.Field]int {
	return map[model.Field]int{
		model.FieldFirstName:      50,
		model.FieldSecondaryEmail: 40,
		model.FieldZipCode:        20,
	}
}

func TestScorer_Calculate(t *testing.T) {
	scorer := NewScorer(testBonuses())

	tests := []struct {
		name   string
		field  model.Field
		rawKey string
		want   int
	}{
		// 1 + 100 + 50 + (20-10) + 0
		{"exact with bonus", model.FieldFirstName, "first_name", 161},
		// 1 + 0 + 50 + (20-9) + 5
		{"camel case", model.FieldFirstName, "firstName", 67},
		// 1 + 0 + 0 + (20-4) + 5
		{"short generic", model.FieldFullName, "name", 22},
		// 1 + 100 + 0 + (20-5) + 5
		{"exact no bonus", model.FieldEmail, "EMAIL", 121},
		// 1 + 0 + 0 + 0 + 0
		{"long key", model.FieldFullName, "the_account_holder_name", 1},
		// 1 + 0 + 20 + 17 + 5
		{"zip", model.FieldZipCode, "zip", 43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Calculate(tt.field, tt.rawKey)
			if got.Score != tt.want {
				t.Errorf("Calculate(%s, %q) = %d, want %d (%+v)", tt.field, tt.rawKey, got.Score, tt.want, got.Breakdown)
			}
			if got.RawKey != tt.rawKey || got.Field != tt.field {
				t.Errorf("candidate identity mismatch: %+v", got)
			}
		})
	}
}

func TestScorer_SeparatorDetection(t *testing.T) {
	scorer := NewScorer(nil)

	for _, key := range []string{"full name", "full-name", "full_name"} {
		if got := scorer.Calculate(model.FieldFullName, key); got.Breakdown.NoSeparator != 0 {
			t.Errorf("%q: expected no separator bonus, got %d", key, got.Breakdown.NoSeparator)
		}
	}
	if got := scorer.Calculate(model.FieldFullName, "fullname"); got.Breakdown.NoSeparator != noSepBonus {
		t.Errorf("expected separator bonus for fullname, got %d", got.Breakdown.NoSeparator)
	}
}

func TestScorer_BonusesCopied(t *testing.T) {
	bonuses := testBonuses()
	scorer := NewScorer(bonuses)
	bonuses[model.FieldFirstName] = 0

	if got := scorer.Calculate(model.FieldFirstName, "fname"); got.Breakdown.Specificity != 50 {
		t.Errorf("expected scorer to keep its own bonus table, got %d", got.Breakdown.Specificity)
	}
}

func TestBetter_TieKeepsEarlier(t *testing.T) {
	first := Candidate{RawKey: "a", Score: 10}
	second := Candidate{RawKey: "b", Score: 10}

	if !Better(first, nil) {
		t.Fatal("any candidate beats no candidate")
	}
	if Better(second, &first) {
		t.Error("tie must keep the first-encountered key")
	}
	if !Better(Candidate{Score: 11}, &first) {
		t.Error("higher score should win")
	}
}
