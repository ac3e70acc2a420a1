package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Hint names the loose field categories used by the source collectors
type Hint string

const (
	HintName    Hint = "name"
	HintEmail   Hint = "email"
	HintPhone   Hint = "phone"
	HintAvatar  Hint = "avatar"
	HintID      Hint = "id"
	HintAddress Hint = "address"
	HintDOB     Hint = "dob"
	HintGender  Hint = "gender"
)

var (
	looseEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	loosePhonePattern = regexp.MustCompile(`[\d\s\-+()]{10,}`)
	allDigitsPattern  = regexp.MustCompile(`^\d+$`)
)

// Plausible is the shape check a collector applies before keeping a value.
// Only non-empty strings qualify. It is deliberately weaker than Clean.
func Plausible(hint Hint, value any) bool {
	s, ok := value.(string)
	if !ok || s == "" {
		return false
	}

	switch hint {
	case HintEmail:
		return looseEmailPattern.MatchString(s)
	case HintPhone:
		return loosePhonePattern.MatchString(s)
	case HintName:
		n := utf8.RuneCountInString(s)
		return n > 1 && n < 100 && !allDigitsPattern.MatchString(s)
	case HintAvatar:
		return strings.HasPrefix(s, "http") || strings.HasPrefix(s, "data:image")
	default:
		return utf8.RuneCountInString(s) < 500
	}
}
