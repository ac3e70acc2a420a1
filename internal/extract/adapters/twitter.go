package adapters

import (
	"context"

	"github.com/ppiankov/profilemap/internal/extract"
	"github.com/ppiankov/profilemap/internal/model"
)

// TwitterAdapter finds the signed-in user among the cached user entities
type TwitterAdapter struct{}

// NewTwitterAdapter creates the x.com / twitter.com adapter
func NewTwitterAdapter() *TwitterAdapter {
	return &TwitterAdapter{}
}

// Name returns the adapter name
func (a *TwitterAdapter) Name() string {
	return "twitter"
}

// Domains returns the served domains
func (a *TwitterAdapter) Domains() []string {
	return []string{"x.com", "twitter.com"}
}

// ExtractAccountData matches session.user_id against entities.users[*].id_str
func (a *TwitterAdapter) ExtractAccountData(_ context.Context, page *extract.Page) (*model.Bag, error) {
	out := model.NewBag()

	users, ok := lookupBag(page.Globals, "__INITIAL_STATE__.entities.users")
	if !ok {
		return out, nil
	}
	sessionID, _ := page.Globals.Lookup("__INITIAL_STATE__.session.user_id")
	want := scalarString(sessionID)
	if want == "" {
		return out, nil
	}

	users.Range(func(_ string, v any) bool {
		user, ok := v.(*model.Bag)
		if !ok || user == nil {
			return true
		}
		id, _ := user.Get("id_str")
		if scalarString(id) != want {
			return true
		}
		copyField(out, user, "name", "name")
		copyField(out, user, "screen_name", "username")
		copyField(out, user, "profile_image_url_https", "avatar")
		return false
	})

	return out, nil
}

func lookupBag(b *model.Bag, path string) (*model.Bag, bool) {
	v, ok := b.Lookup(path)
	if !ok {
		return nil, false
	}
	nested, ok := v.(*model.Bag)
	return nested, ok && nested != nil
}

func copyField(out, from *model.Bag, src, dst string) {
	if v, ok := from.Get(src); ok && usable(v) {
		out.Set(dst, v)
	}
}
