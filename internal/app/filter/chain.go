package filter

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/harmony/internal/domain/track"
)

// Rejection records a link dropped by the chain.
type Rejection struct {
	Link string
	Code string
}

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain. The blank link filter is always first.
func NewChain() *Chain {
	return &Chain{
		filters: []Filter{&BlankLinkFilter{}},
	}
}

// Settings holds the configuration of one filter.
type Settings struct {
	Enabled  bool
	Settings map[string]any
}

// Build creates a chain from the enabled filters in configs, in name order.
func Build(configs map[string]Settings) (*Chain, error) {
	c := NewChain()
	for _, name := range RegisteredNames() {
		cfg, ok := configs[name]
		if !ok || !cfg.Enabled {
			continue
		}
		f := registry[name]()
		if err := f.ValidateConfig(cfg.Settings); err != nil {
			return nil, errors.Wrapf(err, "invalid config for filter %s", name)
		}
		c.Add(f)
		zlog.Info().Msgf("filter enabled: name=%s", name)
	}
	for name := range configs {
		if _, ok := registry[name]; !ok {
			return nil, errors.Newf("unknown filter: %s", name)
		}
	}
	return c, nil
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Execute runs all filters in sequence.
// Returns immediately if any filter rejects the link.
// Filters are only applied if they declare they apply to the link's origin.
func (c *Chain) Execute(ctx context.Context, req LinkRequest) Result {
	for _, f := range c.filters {
		if !f.AppliesTo(req.Origin) {
			continue
		}

		result := f.Check(ctx, req)
		if !result.Accepted {
			return result
		}
	}
	return Accept()
}

// Apply filters a submission of links, preserving entry order. Accepted
// links are returned trimmed.
func (c *Chain) Apply(ctx context.Context, links []string, origin track.Origin) ([]string, []Rejection) {
	kept := make([]string, 0, len(links))
	var rejected []Rejection

	for _, link := range links {
		req := LinkRequest{
			Link:   strings.TrimSpace(link),
			Origin: origin,
			Seen:   kept,
		}
		result := c.Execute(ctx, req)
		if !result.Accepted {
			zlog.Debug().Msgf("link rejected: link=%q origin=%s code=%s", link, origin, result.Code)
			rejected = append(rejected, Rejection{Link: link, Code: result.Code})
			continue
		}
		kept = append(kept, req.Link)
	}
	return kept, rejected
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}
