package catalog

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
)

type LinksProviderConfig struct {
	Links []string `yaml:"links" mapstructure:"links" validate:"required,min=1,dive,url"`
}

// LinksProvider serves a list of links written inline in the configuration.
type LinksProvider struct {
	config *LinksProviderConfig
}

// NewLinksProvider creates a new LinksProvider.
func NewLinksProvider(settings map[string]any) (*LinksProvider, error) {
	var config LinksProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	zlog.Debug().Msgf("links provider config: %+v", config)
	if err := validator.New().Struct(config); err != nil {
		zlog.Error().Msgf("links provider validation failed: %v", err)
		return nil, errors.Wrap(err, "validation failed")
	}
	return &LinksProvider{config: &config}, nil
}

// Links returns the configured links.
func (p *LinksProvider) Links(ctx context.Context) ([]string, error) {
	return append([]string(nil), p.config.Links...), nil
}

// Name returns the provider name.
func (p *LinksProvider) Name() string {
	return "links"
}
