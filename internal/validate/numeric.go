package validate

import (
	"math/big"
	"regexp"
	"strings"
)

var compactNumberPattern = regexp.MustCompile(`(?i)^\d+[.,]?\d*[KMB]?\+?$`)

var suffixMultipliers = map[byte]int64{
	'K': 1_000,
	'M': 1_000_000,
	'B': 1_000_000_000,
}

// CleanCompactNumber expands counts such as "1.2K", "3M" or "10,000+"
// into whole numbers
func CleanCompactNumber(s string) (int64, bool) {
	cleaned := strings.TrimSpace(s)
	if !compactNumberPattern.MatchString(cleaned) {
		return 0, false
	}

	cleaned = strings.TrimSuffix(cleaned, "+")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	multiplier := int64(1)
	last := strings.ToUpper(cleaned[len(cleaned)-1:])[0]
	if m, ok := suffixMultipliers[last]; ok {
		multiplier = m
		cleaned = cleaned[:len(cleaned)-1]
	}
	cleaned = strings.TrimSuffix(cleaned, ".")

	value, ok := new(big.Rat).SetString(cleaned)
	if !ok {
		return 0, false
	}
	value.Mul(value, new(big.Rat).SetInt64(multiplier))

	return floorCount(value)
}

// maxCountFloat is 2^63, the first float64 past the int64 range
const maxCountFloat = 9223372036854775808.0

// floorCount floors a non-negative count. Negative values and values past
// the int64 range are rejected.
func floorCount(value *big.Rat) (int64, bool) {
	if value.Sign() < 0 {
		return 0, false
	}
	floored := new(big.Int).Quo(value.Num(), value.Denom())
	if !floored.IsInt64() {
		return 0, false
	}
	return floored.Int64(), true
}
