// Package validate holds the per-kind value cleaners, the lightweight
// plausibility checks used by the source collectors, and the noise filter.
package validate

import (
	"encoding/json"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/profilemap/internal/model"
	"golang.org/x/text/unicode/norm"
)

const maxStringLen = 200

var (
	longDigitsPattern = regexp.MustCompile(`^[0-9]{10,}$`)
	hashPattern       = regexp.MustCompile(`(?i)^[a-f0-9]{32,}$`)

	// styleMarkers are fragments of CSS or asset references that leak from page markup
	styleMarkers = []string{"position:", "@keyframes", "@media"}
	imageMarkers = []string{"@2x", "@1x", ".svg", ".png", ".jpg"}
)

// Clean validates and normalizes a raw value for a canonical field of the
// given kind. The second return value is false when the value is rejected.
func Clean(field model.Field, kind model.Kind, value any) (any, bool) {
	switch v := normalizeValue(value).(type) {
	case nil, bool, *model.Bag:
		return nil, false
	case []any:
		if kind == model.KindStringArray {
			return cleanStringArray(field, v)
		}
		return firstValid(field, kind, v)
	case json.Number:
		return cleanNumber(field, kind, v)
	case string:
		return cleanString(field, kind, v)
	}
	return nil, false
}

// cleanString dispatches a string value by kind
func cleanString(field model.Field, kind model.Kind, s string) (any, bool) {
	switch kind {
	case model.KindPhone:
		return CleanPhone(s)
	case model.KindEmail:
		return CleanEmail(s)
	case model.KindURL:
		return CleanURL(s)
	case model.KindNumeric:
		return CleanCompactNumber(s)
	case model.KindStringArray:
		if field == model.FieldEducation {
			return cleanEducationItem(s)
		}
		return CleanGenericString(s)
	default:
		return CleanGenericString(s)
	}
}

// cleanNumber handles numeric JSON input. Numbers for numeric kinds are floored;
// for text kinds the digits must pass the same rule a string would.
func cleanNumber(field model.Field, kind model.Kind, n json.Number) (any, bool) {
	if kind == model.KindNumeric {
		// The float check only screens out huge exponents before the exact parse
		f, err := n.Float64()
		if err != nil || math.IsInf(f, 0) || math.Abs(f) >= maxCountFloat {
			return nil, false
		}
		value, ok := new(big.Rat).SetString(n.String())
		if !ok {
			return nil, false
		}
		count, ok := floorCount(value)
		if !ok {
			return nil, false
		}
		return count, true
	}

	cleaned, ok := cleanString(field, kind, n.String())
	if !ok {
		return nil, false
	}
	if kind == model.KindString || kind == model.KindDate {
		return n, true
	}
	return cleaned, true
}

// firstValid collapses an array for a scalar kind to its first element
// that cleans successfully
func firstValid(field model.Field, kind model.Kind, items []any) (any, bool) {
	for _, item := range items {
		if cleaned, ok := Clean(field, kind, item); ok {
			return cleaned, true
		}
	}
	return nil, false
}

// CleanGenericString applies the id, hash and markup guards shared by all text fields
func CleanGenericString(s string) (string, bool) {
	trimmed := norm.NFC.String(strings.TrimSpace(s))
	if trimmed == "" || len([]rune(trimmed)) > maxStringLen {
		return "", false
	}
	if containsAny(trimmed, styleMarkers) || containsAny(trimmed, imageMarkers) {
		return "", false
	}
	if longDigitsPattern.MatchString(trimmed) || hashPattern.MatchString(trimmed) {
		return "", false
	}
	return trimmed, true
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

// normalizeValue folds Go numeric and string-slice literals into bag value types
func normalizeValue(value any) any {
	switch v := value.(type) {
	case int:
		return json.Number(strconv.FormatInt(int64(v), 10))
	case int64:
		return json.Number(strconv.FormatInt(v, 10))
	case float64:
		return json.Number(strconv.FormatFloat(v, 'f', -1, 64))
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	}
	return value
}
