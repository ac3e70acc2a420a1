package validate

import (
	"testing"

	"github.com/ppiankov/profilemap/internal/model"
)

func TestNoiseFilter_Builtin(t *testing.T) {
	filter := NewNoiseFilter(nil)

	tests := []struct {
		host  string
		field string
		value string
		want  bool
		desc  string
	}{
		{"www.flipkart.com", "email", "support@Flipkart.com", true, "site support address on subdomain"},
		{"flipkart.com", "phone", "044-45614700", false, "formatted differently"},
		{"flipkart.com", "phone", "04445614700", true, "support line"},
		{"flipkart.com", "email", "jane@example.com", false, "user address"},
		{"myntra.com", "email", "x@flipkart.com", false, "rule scoped to flipkart"},
		{"notflipkart.com", "email", "x@flipkart.com", false, "suffix must be a label boundary"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := filter.IsNoise(tt.host, tt.field, tt.value); got != tt.want {
				t.Errorf("IsNoise(%s, %s, %s) = %v, want %v", tt.host, tt.field, tt.value, got, tt.want)
			}
		})
	}
}

func TestNoiseFilter_ConfigRules(t *testing.T) {
	filter := NewNoiseFilter([]model.NoiseRule{
		{Field: "name", Contains: []string{"Guest"}},
		{Domain: "swiggy.com", Field: "phone", Contains: []string{" ", ""}},
		{Domain: "swiggy.com", Field: "email", Contains: []string{"noreply@"}},
	})

	if !filter.IsNoise("anything.example", "name", "Hello guest") {
		t.Error("expected global rule to apply everywhere")
	}
	if !filter.IsNoise("swiggy.com", "email", "NoReply@swiggy.in") {
		t.Error("expected domain rule to apply")
	}
	if filter.IsNoise("swiggy.com", "phone", "9876543210") {
		t.Error("blank fragments must be ignored")
	}

	var nilFilter *NoiseFilter
	if nilFilter.IsNoise("a.com", "name", "x") {
		t.Error("nil filter never suppresses")
	}
}
