package extract

import (
	"context"

	"github.com/ppiankov/profilemap/internal/model"
)

// DefaultProbeEndpoints are conventional same-origin account endpoints,
// tried in this order
var DefaultProbeEndpoints = []string{
	"/api/user",
	"/api/profile",
	"/api/account",
	"/api/me",
	"/user/profile",
	"/account/details",
	"/profile/info",
	"/api/v1/user",
	"/api/v2/user",
	"/graphql",
}

// ProbeCollector requests the endpoint list strictly one after another and
// stops at the first JSON response that yields a recognized field
type ProbeCollector struct {
	endpoints []string
	walker    *Walker
}

// NewProbeCollector creates a probe over DefaultProbeEndpoints
func NewProbeCollector(walker *Walker) *ProbeCollector {
	return &ProbeCollector{endpoints: DefaultProbeEndpoints, walker: walker}
}

func (c *ProbeCollector) Name() string { return SourceProbe }

// Collect never reports per-endpoint failures; it only returns an error when
// the context ends before any endpoint succeeded
func (c *ProbeCollector) Collect(ctx context.Context, page *Page) (*model.Bag, error) {
	if page.Net == nil {
		return model.NewBag(), nil
	}

	for _, endpoint := range c.endpoints {
		if err := ctx.Err(); err != nil {
			return model.NewBag(), err
		}

		body, err := page.Net.GetJSON(ctx, page.Resolve(endpoint))
		if err != nil {
			continue
		}
		parsed, err := model.ParseJSON(body)
		if err != nil {
			continue
		}
		if found := c.walker.Walk(parsed); !found.IsEmpty() {
			return found, nil
		}
	}

	return model.NewBag(), nil
}
