package extract

import (
	"context"

	"github.com/ppiankov/profilemap/internal/model"
)

// DefaultStatePaths are the conventional global state locations
var DefaultStatePaths = []string{
	"__INITIAL_STATE__",
	"__PRELOADED_STATE__",
	"__APOLLO_STATE__",
	"__NEXT_DATA__",
	"_user",
	"user",
	"currentUser",
	"userData",
	"userInfo",
	"profile",
	"account",
	"me",
	"self",
	"config.user",
	"app.user",
	"store.user",
	"state.user",
}

// GlobalsCollector resolves known state paths and walks every object found
type GlobalsCollector struct {
	paths  []string
	walker *Walker
}

// NewGlobalsCollector creates a collector over DefaultStatePaths
func NewGlobalsCollector(walker *Walker) *GlobalsCollector {
	return &GlobalsCollector{paths: DefaultStatePaths, walker: walker}
}

func (c *GlobalsCollector) Name() string { return SourceGlobals }

func (c *GlobalsCollector) Collect(_ context.Context, page *Page) (*model.Bag, error) {
	out := model.NewBag()
	for _, path := range c.paths {
		value, ok := page.Globals.Lookup(path)
		if !ok || !isObject(value) {
			continue
		}
		out.Merge(c.walker.Walk(value), false)
	}
	return out, nil
}

func isObject(v any) bool {
	switch t := v.(type) {
	case *model.Bag:
		return t != nil
	case []any:
		return true
	}
	return false
}
