package validate

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/ppiankov/profilemap/internal/model"
)

func TestCleanPhone(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
		desc   string
	}{
		{"123", "", false, "too short"},
		{"9876543210", "+91 9876543210", true, "ten digits get country code"},
		{"1700000000", "", false, "epoch seconds"},
		{"1700000000123", "", false, "epoch millis"},
		{"+91 98765 43210", "+919876543210", true, "twelve digits with 91 prefix"},
		{"Call: (415) 555-0100 x", "+91 4155550100", true, "labels stripped before counting"},
		{"+1 (415) 555-0100", "+1 (415) 555-0100", true, "eleven digits kept as cleaned"},
		{"1234567890123456", "", false, "too long"},
		{"1612345678901", "", false, "thirteen digits with 16 prefix"},
		{"   ", "", false, "blank"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, ok := CleanPhone(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("CleanPhone(%q) ok = %v, want %v (got %q)", tt.input, ok, tt.wantOK, got)
			}
			if ok && got != tt.want {
				t.Errorf("CleanPhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanPhone_ShortNumberNotEpoch(t *testing.T) {
	// 10 digits starting with 4 is not timestamp-like
	if _, ok := CleanPhone("4155550100"); !ok {
		t.Error("expected 4155550100 to be accepted")
	}
}

func TestCleanEmail(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"a@b.com", "a@b.com", true},
		{"  John.Doe@Example.COM ", "john.doe@example.com", true},
		{"logo@2x.png", "", false},
		{"icon@1.5x.webp", "", false},
		{"sprite@3x.svg", "", false},
		{"not-an-email", "", false},
		{"a@b", "", false},
		{"user@host.c", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := CleanEmail(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("CleanEmail(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("CleanEmail(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanCompactNumber(t *testing.T) {
	tests := []struct {
		input  string
		want   int64
		wantOK bool
	}{
		{"1.2K", 1200, true},
		{"3M", 3000000, true},
		{"2b", 2000000000, true},
		{"10,000+", 10000, true},
		{"1,2k", 12000, true},
		{"42", 42, true},
		{"1.005K", 1005, true},
		{"7.9", 7, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"K", 0, false},
		{"-5", 0, false},
		{"99999999999B", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := CleanCompactNumber(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("CleanCompactNumber(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("CleanCompactNumber(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanURL(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"linkedin.com/in/jane", "https://linkedin.com/in/jane", true},
		{"http://example.com", "http://example.com", true},
		{"https://cdn.example.com/a/avatar.jpg", "https://cdn.example.com/a/avatar.jpg", true},
		{"//cdn.example.com/p.png", "https://cdn.example.com/p.png", true},
		{"data:image/png;base64,AAAA", "", false},
		{"", "", false},
		{"position: absolute", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := CleanURL(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("CleanURL(%q) ok = %v, want %v (got %q)", tt.input, ok, tt.wantOK, got)
			}
			if got != tt.want {
				t.Errorf("CleanURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanGenericString(t *testing.T) {
	tests := []struct {
		input  string
		wantOK bool
		desc   string
	}{
		{"Jane Doe", true, "plain name"},
		{"", false, "empty"},
		{"12345678901", false, "long digit id"},
		{"123456789", true, "short digits"},
		{"d41d8cd98f00b204e9800998ecf8427e", false, "md5 hash"},
		{"@media (max-width: 600px)", false, "css at-rule"},
		{"banner.png", false, "image reference"},
		{string(make([]byte, 201)), false, "too long"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if _, ok := CleanGenericString(tt.input); ok != tt.wantOK {
				t.Errorf("CleanGenericString(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
		})
	}
}

func TestClean_EducationFiltering(t *testing.T) {
	got, ok := Clean(model.FieldEducation, model.KindStringArray,
		[]any{"Bachelor of Science - MIT", "Slim-fit washed denims"})
	if !ok {
		t.Fatal("expected education to be accepted")
	}
	want := []string{"Bachelor of Science - MIT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, ok := Clean(model.FieldEducation, model.KindStringArray, []any{"College cool tees", "short"}); ok {
		t.Error("expected marketing-only education list to be rejected")
	}
}

func TestClean_StringArrayNonEducation(t *testing.T) {
	got, ok := Clean(model.FieldBio, model.KindStringArray, []any{"Builder of things", 42, "", "logo.svg"})
	if !ok {
		t.Fatal("expected bio to be accepted")
	}
	if !reflect.DeepEqual(got, []string{"Builder of things"}) {
		t.Errorf("unexpected bio: %v", got)
	}

	got, ok = Clean(model.FieldBio, model.KindStringArray, "  Builds things  ")
	if !ok || got != "Builds things" {
		t.Errorf("scalar bio: got %v, %v", got, ok)
	}
}

func TestClean_ArrayForScalarKind(t *testing.T) {
	got, ok := Clean(model.FieldEmail, model.KindEmail, []any{"", "nope", "Jane@Example.com", "x@y.com"})
	if !ok || got != "jane@example.com" {
		t.Errorf("expected first valid email, got %v, %v", got, ok)
	}

	if _, ok := Clean(model.FieldPhone, model.KindPhone, []any{"123", "456"}); ok {
		t.Error("expected array without valid phone to be rejected")
	}
}

func TestClean_ValueTypes(t *testing.T) {
	tests := []struct {
		desc   string
		field  model.Field
		kind   model.Kind
		value  any
		want   any
		wantOK bool
	}{
		{"nil", model.FieldFullName, model.KindString, nil, nil, false},
		{"bool", model.FieldFullName, model.KindString, true, nil, false},
		{"object", model.FieldFullName, model.KindString, model.BagOf("a", "b"), nil, false},
		{"number for numeric", model.FieldFollowers, model.KindNumeric, json.Number("1500.7"), int64(1500), true},
		{"go int for numeric", model.FieldFollowers, model.KindNumeric, 12, int64(12), true},
		{"exponent for numeric", model.FieldFollowers, model.KindNumeric, json.Number("1.5e3"), int64(1500), true},
		{"max int64 for numeric", model.FieldFollowers, model.KindNumeric, json.Number("9223372036854775807"), nil, false},
		{"past int64 for numeric", model.FieldFollowers, model.KindNumeric, json.Number("9223372036854775808"), nil, false},
		{"huge exponent for numeric", model.FieldFollowers, model.KindNumeric, json.Number("1e400"), nil, false},
		{"negative for numeric", model.FieldFollowers, model.KindNumeric, json.Number("-3"), nil, false},
		{"large exact count", model.FieldFollowers, model.KindNumeric, json.Number("9000000000000000000"), int64(9000000000000000000), true},
		{"number for string", model.FieldZipCode, model.KindString, json.Number("560001"), json.Number("560001"), true},
		{"long number for string", model.FieldFullName, model.KindString, json.Number("12345678901"), nil, false},
		{"number for phone", model.FieldPhone, model.KindPhone, json.Number("9876543210"), "+91 9876543210", true},
		{"date string", model.FieldDOB, model.KindDate, " 1990-01-01 ", "1990-01-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, ok := Clean(tt.field, tt.kind, tt.value)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (got %v)", ok, tt.wantOK, got)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}
