package catalog

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/harmony/internal/infra/config"
)

// NewProviderChainFromConfig creates a provider chain from configuration.
// Without configured providers the chain serves DefaultLinks.
func NewProviderChainFromConfig(cfg *config.Config) (*ProviderChain, error) {
	if len(cfg.Catalog.Providers) == 0 {
		zlog.Info().Msgf("no catalog providers configured, using default links: count=%d", len(DefaultLinks))
		p := &LinksProvider{config: &LinksProviderConfig{Links: DefaultLinks}}
		return NewProviderChain([]ProviderWithMetadata{{Provider: p, DisplayName: "default"}}), nil
	}

	var providers []ProviderWithMetadata

	for i, pcfg := range cfg.Catalog.Providers {
		var provider Provider
		var err error
		zlog.Debug().Msgf("creating catalog provider: index=%d type=%s settings=%+v", i+1, pcfg.Type, pcfg.Settings)
		switch pcfg.Type {
		case "links":
			provider, err = NewLinksProvider(pcfg.Settings)

		case "file":
			provider, err = NewFileProvider(pcfg.Settings)

		default:
			return nil, errors.Newf("unsupported provider type: %s (provider index %d)", pcfg.Type, i)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "failed to create provider (index %d, type %s)", i, pcfg.Type)
		}

		providers = append(providers, ProviderWithMetadata{
			Provider:    provider,
			DisplayName: pcfg.DisplayName,
		})

		zlog.Info().Msgf("registered catalog provider: index=%d type=%s display_name=%s", i+1, pcfg.Type, pcfg.DisplayName)
	}

	return NewProviderChain(providers), nil
}
