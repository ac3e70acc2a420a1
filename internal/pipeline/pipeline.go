// Package pipeline runs one extraction: every raw source in parallel, a fixed
// order merge, then projection onto the canonical record.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/profilemap/internal/extract"
	"github.com/ppiankov/profilemap/internal/extract/adapters"
	"github.com/ppiankov/profilemap/internal/logging"
	"github.com/ppiankov/profilemap/internal/mapper"
	"github.com/ppiankov/profilemap/internal/model"
	"github.com/ppiankov/profilemap/internal/schema"
	"github.com/ppiankov/profilemap/internal/validate"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// TimestampLayout is the scrapedAt format (ISO-8601, milliseconds, UTC)
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

var nowFunc = time.Now

// ErrNoData is the total failure reason when every source came back empty
var ErrNoData = errors.New("no account data found")

// Opener returns a credentialed requester bound to one page origin
type Opener func(origin, cookieHeader string) (extract.Requester, error)

// Pipeline orchestrates the extraction process
type Pipeline struct {
	registry   *adapters.Registry
	collectors []extract.Collector
	probe      extract.Collector
	walker     *extract.Walker
	projector  *mapper.Projector
	open       Opener
	config     *model.Config
	logger     zerolog.Logger
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithRegistry replaces the built-in adapter registry
func WithRegistry(r *adapters.Registry) Option {
	return func(p *Pipeline) { p.registry = r }
}

// WithTable replaces the embedded field table
func WithTable(t *schema.Table) Option {
	return func(p *Pipeline) { p.projector = mapper.NewProjector(t) }
}

// WithNetwork enables the probe and adapter endpoint stages. It has no
// effect unless network.enabled is set.
func WithNetwork(open Opener) Option {
	return func(p *Pipeline) { p.open = open }
}

// WithLogger sets the pipeline logger
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// NewPipeline creates a pipeline with the given configuration
func NewPipeline(cfg *model.Config, opts ...Option) *Pipeline {
	noise := validate.NewNoiseFilter(cfg.Noise.Rules)
	walker := extract.NewWalker(cfg.Mapping.WalkerDepth)

	p := &Pipeline{
		registry: adapters.NewRegistry(noise),
		// Merge order is significant: earlier sources win
		collectors: []extract.Collector{
			extract.NewStructuralCollector(noise),
			extract.NewGlobalsCollector(walker),
			extract.NewLocalStorageCollector(walker),
			extract.NewSessionStorageCollector(walker),
			extract.NewCookieCollector(walker),
			extract.NewMarkupCollector(),
			extract.NewFormCollector(noise),
		},
		probe:     extract.NewProbeCollector(walker),
		walker:    walker,
		projector: mapper.NewProjector(nil),
		config:    cfg,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Projector returns the projector used for the final record
func (p *Pipeline) Projector() *mapper.Projector {
	return p.projector
}

// Extract runs every source against the snapshot and returns the projected
// result. It never returns nil and never panics on source failures; a run
// that yields nothing is reported with Method failed.
func (p *Pipeline) Extract(ctx context.Context, snap *model.Snapshot) *model.Result {
	domain := snap.Domain()
	scrapedAt := nowFunc().UTC().Format(TimestampLayout)
	base := p.logger.With().Str("domain", domain).Logger()
	ctx = logging.WithRunID(logging.WithLogger(ctx, &base), uuid.NewString())
	logger := *logging.FromContext(ctx)

	result := &model.Result{
		Source:    domain,
		URL:       snap.URL,
		ScrapedAt: scrapedAt,
	}

	// 1. Parse page
	page, err := extract.NewPage(snap)
	if err != nil {
		result.Method = model.MethodFailed
		result.Error = fmt.Sprintf("parse page: %v", err)
		logger.Warn().Err(err).Msg("extraction failed")
		return result
	}
	if p.config.Network.Enabled && p.open != nil {
		net, err := p.open(page.Origin(), snap.Cookies)
		if err != nil {
			logger.Debug().Err(err).Msg("network stages unavailable")
		} else {
			page.Net = net
		}
	}

	// 2. Collect all sources
	bags := p.collect(ctx, page, logger)

	// 3. Merge
	data, method := p.merge(bags)
	if data.IsEmpty() {
		result.Method = model.MethodFailed
		result.Error = ErrNoData.Error()
		if joined := errors.Join(bags.errs...); joined != nil {
			result.Error = joined.Error()
		}
		logger.Warn().Str("reason", result.Error).Msg("extraction failed")
		return result
	}
	result.Method = method

	// 4. Project
	final := model.NewBag()
	final.Set("source", domain)
	final.Set("scrapedAt", scrapedAt)
	final.Set("scraper_version", p.config.Mapping.Version)
	final.Merge(data, false)

	result.Raw = final
	result.Record = p.projector.MapDeep(final, p.config.Mapping.MaxDepth)

	logger.Info().
		Str("method", string(method)).
		Int("raw_keys", data.Len()).
		Int("fields", result.Record.Len()).
		Msg("extraction complete")
	return result
}

// sourceBags holds one slot per source so collection can run concurrently
type sourceBags struct {
	adapter *model.Bag
	generic []*model.Bag
	probe   *model.Bag
	errs    []error
}

func (p *Pipeline) collect(ctx context.Context, page *extract.Page, logger zerolog.Logger) *sourceBags {
	bags := &sourceBags{
		adapter: model.NewBag(),
		generic: make([]*model.Bag, len(p.collectors)),
		probe:   model.NewBag(),
	}
	errs := make([]error, len(p.collectors)+2)

	var g errgroup.Group

	if adapter, ok := p.registry.Lookup(page.Domain); ok {
		g.Go(func() error {
			bags.adapter, errs[0] = extract.Safe(extract.SourceAdapter, func() (*model.Bag, error) {
				return adapter.ExtractAccountData(ctx, page)
			})
			return nil
		})
	}

	for i, c := range p.collectors {
		g.Go(func() error {
			bags.generic[i], errs[i+1] = extract.Run(ctx, c, page)
			return nil
		})
	}

	g.Go(func() error {
		bags.probe, errs[len(errs)-1] = extract.Run(ctx, p.probe, page)
		return nil
	})

	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			logger.Debug().Err(err).Msg("source failed")
			bags.errs = append(bags.errs, err)
		}
	}
	return bags
}

// merge reduces the source bags in priority order. The adapter bag is taken
// whole, generic bags only fill missing keys and the probe bag overrides
// everything.
func (p *Pipeline) merge(bags *sourceBags) (*model.Bag, model.Method) {
	data := model.NewBag()
	method := model.MethodUnknown

	if !bags.adapter.IsEmpty() {
		data.Merge(bags.adapter, true)
		method = model.MethodSiteAdapter
	}
	for _, b := range bags.generic {
		data.Merge(b, false)
	}
	if !bags.probe.IsEmpty() {
		data.Merge(bags.probe, true)
		method = model.MethodNetworkIntercept
	}

	p.flatten(data)
	return data, method
}

// flatten walks top-level object values once more so canonical matches one
// level down surface at the top without replacing set keys
func (p *Pipeline) flatten(data *model.Bag) {
	var nested []*model.Bag
	data.Range(func(_ string, v any) bool {
		if b, ok := v.(*model.Bag); ok && b != nil {
			nested = append(nested, b)
		}
		return true
	})
	for _, b := range nested {
		data.Merge(p.walker.Walk(b), false)
	}
}

// Map runs schema mapping over an arbitrary object, shallow or deep
func (p *Pipeline) Map(bag *model.Bag, deep bool, depth int) *model.Record {
	if !deep {
		return p.projector.MapShallow(bag)
	}
	if depth <= 0 {
		depth = p.config.Mapping.MaxDepth
	}
	return p.projector.MapDeep(bag, depth)
}
