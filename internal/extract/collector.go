// Package extract holds the generic raw source collectors and the recursive
// object walker they share.
package extract

import (
	"context"
	"fmt"

	"github.com/ppiankov/profilemap/internal/model"
)

// Source names used in logs and error messages
const (
	SourceAdapter        = "adapter"
	SourceStructural     = "structural"
	SourceGlobals        = "globals"
	SourceLocalStorage   = "local-storage"
	SourceSessionStorage = "session-storage"
	SourceCookies        = "cookies"
	SourceMarkup         = "markup"
	SourceForm           = "form"
	SourceProbe          = "network-probe"
)

// Collector extracts a raw bag from one kind of page source
type Collector interface {
	Name() string
	Collect(ctx context.Context, page *Page) (*model.Bag, error)
}

// SourceError is a collector failure. It never aborts an extraction.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Safe runs fn and turns errors and panics into an empty bag plus a SourceError
func Safe(source string, fn func() (*model.Bag, error)) (bag *model.Bag, err error) {
	defer func() {
		if r := recover(); r != nil {
			bag = model.NewBag()
			err = &SourceError{Source: source, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	bag, err = fn()
	if err != nil {
		return model.NewBag(), &SourceError{Source: source, Err: err}
	}
	if bag == nil {
		bag = model.NewBag()
	}
	return bag, nil
}

// Run is Safe for a Collector
func Run(ctx context.Context, c Collector, page *Page) (*model.Bag, error) {
	return Safe(c.Name(), func() (*model.Bag, error) {
		return c.Collect(ctx, page)
	})
}
