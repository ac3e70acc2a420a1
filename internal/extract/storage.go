package extract

import (
	"context"
	"strings"

	"github.com/ppiankov/profilemap/internal/model"
)

var storageKeyMarkers = []string{"user", "profile", "account", "auth"}

// StorageCollector scans a key/value store for user-like entries holding JSON
type StorageCollector struct {
	name   string
	store  func(*model.Snapshot) *model.Bag
	walker *Walker
}

// NewLocalStorageCollector scans the snapshot's local store
func NewLocalStorageCollector(walker *Walker) *StorageCollector {
	return &StorageCollector{
		name:   SourceLocalStorage,
		store:  func(s *model.Snapshot) *model.Bag { return s.LocalStorage },
		walker: walker,
	}
}

// NewSessionStorageCollector scans the snapshot's session store
func NewSessionStorageCollector(walker *Walker) *StorageCollector {
	return &StorageCollector{
		name:   SourceSessionStorage,
		store:  func(s *model.Snapshot) *model.Bag { return s.SessionStorage },
		walker: walker,
	}
}

func (c *StorageCollector) Name() string { return c.name }

// Collect parses every matching entry; unparseable values are skipped
func (c *StorageCollector) Collect(_ context.Context, page *Page) (*model.Bag, error) {
	out := model.NewBag()
	c.store(page.Snapshot).Range(func(key string, raw any) bool {
		if !containsMarker(key, storageKeyMarkers) {
			return true
		}
		value := raw
		if s, ok := raw.(string); ok {
			parsed, err := model.ParseJSON([]byte(s))
			if err != nil {
				return true
			}
			value = parsed
		}
		if isObject(value) {
			out.Merge(c.walker.Walk(value), false)
		}
		return true
	})
	return out, nil
}

func containsMarker(key string, markers []string) bool {
	lower := strings.ToLower(key)
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
