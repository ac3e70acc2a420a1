package extract

import (
	"github.com/ppiankov/profilemap/internal/model"
	"github.com/ppiankov/profilemap/internal/validate"
)

// DefaultWalkDepth bounds recursion into nested objects
const DefaultWalkDepth = 3

// FieldRule lists the raw key spellings searched for one loose field
type FieldRule struct {
	Hint validate.Hint
	Keys []string
}

// DefaultRules is the synonym table used by the generic collectors
var DefaultRules = []FieldRule{
	{validate.HintName, []string{"name", "fullName", "full_name", "displayName", "display_name",
		"firstName", "first_name", "lastName", "last_name", "username", "user_name"}},
	{validate.HintEmail, []string{"email", "emailAddress", "email_address", "mail", "userEmail", "user_email"}},
	{validate.HintPhone, []string{"phone", "phoneNumber", "phone_number", "mobile", "mobileNumber",
		"mobile_number", "contact", "contactNumber"}},
	{validate.HintAvatar, []string{"avatar", "profilePicture", "profile_picture", "profileImage",
		"profile_image", "photo", "picture", "image"}},
	{validate.HintID, []string{"id", "userId", "user_id", "uid", "accountId", "account_id"}},
	{validate.HintAddress, []string{"address", "location", "city", "state", "country"}},
	{validate.HintDOB, []string{"dob", "dateOfBirth", "date_of_birth", "birthDate", "birth_date"}},
	{validate.HintGender, []string{"gender", "sex"}},
}

// Walker searches nested objects for loosely named user fields.
// The first match for a field wins; nothing found later overwrites it.
type Walker struct {
	MaxDepth int
	Rules    []FieldRule

	// JoinNames fills name from firstName and lastName when no name key matched
	JoinNames bool

	// Reject, when set, drops values that pass the shape check but are known noise
	Reject func(hint validate.Hint, value string) bool
}

// NewWalker creates a walker over DefaultRules
func NewWalker(maxDepth int) *Walker {
	if maxDepth <= 0 {
		maxDepth = DefaultWalkDepth
	}
	return &Walker{MaxDepth: maxDepth, Rules: DefaultRules}
}

// Walk extracts fields from v, which may be an object or an array of objects
func (w *Walker) Walk(v any) *model.Bag {
	out := model.NewBag()
	w.walk(v, 0, out)
	return out
}

func (w *Walker) walk(v any, depth int, out *model.Bag) {
	if depth >= w.MaxDepth {
		return
	}

	switch node := v.(type) {
	case []any:
		// Only a top-level array is entered; nested arrays are skipped
		if depth > 0 {
			return
		}
		for _, item := range node {
			if obj, ok := item.(*model.Bag); ok {
				w.walk(obj, depth+1, out)
			}
		}
	case *model.Bag:
		if node == nil {
			return
		}
		w.matchDirect(node, out)
		node.Range(func(_ string, value any) bool {
			if child, ok := value.(*model.Bag); ok {
				w.walk(child, depth+1, out)
			}
			return true
		})
	}
}

func (w *Walker) matchDirect(obj *model.Bag, out *model.Bag) {
	for _, rule := range w.Rules {
		key := string(rule.Hint)
		if out.Has(key) {
			continue
		}
		for _, k := range rule.Keys {
			value, ok := obj.Get(k)
			if !ok || !validate.Plausible(rule.Hint, value) {
				continue
			}
			if w.Reject != nil && w.Reject(rule.Hint, value.(string)) {
				continue
			}
			out.Set(key, value)
			break
		}
	}

	if w.JoinNames && !out.Has(string(validate.HintName)) {
		first, _ := obj.Get("firstName")
		last, _ := obj.Get("lastName")
		fs, ok1 := first.(string)
		ls, ok2 := last.(string)
		if ok1 && ok2 && fs != "" && ls != "" {
			out.Set(string(validate.HintName), fs+" "+ls)
		}
	}
}
