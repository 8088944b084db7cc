package catalog

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// ProviderWithMetadata wraps a provider with its metadata.
type ProviderWithMetadata struct {
	Provider    Provider
	DisplayName string
}

// ProviderChain concatenates the links of multiple providers in order.
type ProviderChain struct {
	providers []ProviderWithMetadata
}

// NewProviderChain creates a new provider chain.
func NewProviderChain(providers []ProviderWithMetadata) *ProviderChain {
	return &ProviderChain{
		providers: providers,
	}
}

// Links collects links from all providers. Failing providers are skipped and
// repeated links keep their first position.
func (c *ProviderChain) Links(ctx context.Context) ([]string, error) {
	var all []string
	seen := make(map[string]bool)
	failed := 0

	for i, pm := range c.providers {
		zlog.Debug().Msgf("trying provider: index=%d total=%d name=%s provider_type=%s",
			i+1, len(c.providers), pm.DisplayName, pm.Provider.Name())

		links, err := pm.Provider.Links(ctx)
		if err != nil {
			failed++
			zlog.Warn().Msgf("provider failed, trying next: provider=%s error=%v", pm.DisplayName, err)
			continue
		}

		added := 0
		for _, l := range links {
			l = strings.TrimSpace(l)
			if l == "" || seen[l] {
				continue
			}
			seen[l] = true
			all = append(all, l)
			added++
		}

		zlog.Info().Msgf("provider returned links: provider=%s count=%d total_so_far=%d",
			pm.DisplayName, added, len(all))
	}

	if len(c.providers) > 0 && failed == len(c.providers) {
		return nil, errors.New("all providers failed to return links")
	}

	return all, nil
}

// Name returns the chain name.
func (c *ProviderChain) Name() string {
	return "provider_chain"
}
