package extract

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/profilemap/internal/model"
)

// Requester performs same-origin credentialed JSON requests on behalf of a page
type Requester interface {
	GetJSON(ctx context.Context, rawURL string) ([]byte, error)
}

// Page is the parsed context every collector and adapter reads from
type Page struct {
	Snapshot *model.Snapshot
	URL      *url.URL
	Doc      *goquery.Document
	Globals  *model.Bag
	Host     string
	Domain   string

	// Net is nil when network stages are disabled
	Net Requester
}

// NewPage parses the snapshot document and harvests embedded script state
// into the global scope. Snapshot-provided globals take precedence.
func NewPage(snap *model.Snapshot) (*Page, error) {
	parsed, err := url.Parse(snap.URL)
	if err != nil {
		return nil, err
	}

	p := &Page{
		Snapshot: snap,
		URL:      parsed,
		Host:     parsed.Hostname(),
		Domain:   model.ExtractDomain(parsed.Hostname()),
		Globals:  model.NewBag(),
	}
	p.Globals.Merge(snap.Globals, true)

	if strings.TrimSpace(snap.HTML) != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(snap.HTML))
		if err != nil {
			return nil, err
		}
		p.Doc = doc
		p.Globals.Merge(HarvestScriptState(doc), false)
	}

	return p, nil
}

// Origin returns scheme://host of the page
func (p *Page) Origin() string {
	return p.URL.Scheme + "://" + p.URL.Host
}

// Resolve turns a path into an absolute URL on the page origin
func (p *Page) Resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return ""
	}
	return p.URL.ResolveReference(ref).String()
}
