package filter

import (
	"context"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/harmony/internal/domain/track"
)

// AllowedHostsConfig represents the configuration for AllowedHostsFilter.
type AllowedHostsConfig struct {
	Hosts []string `yaml:"hosts" mapstructure:"hosts" default:"[\"youtube.com\",\"www.youtube.com\",\"m.youtube.com\",\"music.youtube.com\",\"youtu.be\"]" validate:"min=1,dive,hostname_rfc1123"`
}

// AllowedHostsFilter only accepts links pointing at configured hosts.
type AllowedHostsFilter struct {
	config *AllowedHostsConfig
}

// NewAllowedHostsFilter creates a new allowed hosts filter.
func NewAllowedHostsFilter() *AllowedHostsFilter {
	return &AllowedHostsFilter{}
}

func (f *AllowedHostsFilter) Name() string {
	return "allowed_hosts"
}

func (f *AllowedHostsFilter) Description() string {
	return "Accepts only links whose host is in the configured list"
}

func (f *AllowedHostsFilter) ReturnCodes() []string {
	return []string{"host_not_allowed"}
}

func (f *AllowedHostsFilter) ValidateConfig(settings map[string]any) error {
	var config AllowedHostsConfig

	// Decode map[string]any to struct using mapstructure
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &config,
		TagName: "mapstructure",
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}

	if err := decoder.Decode(settings); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}

	if err := defaults.Set(&config); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}

	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.Wrap(err, "validation failed")
	}

	for i, h := range config.Hosts {
		config.Hosts[i] = strings.ToLower(h)
	}
	f.config = &config
	zlog.Info().Msgf("allowed hosts filter config: %+v", config)
	return nil
}

func (f *AllowedHostsFilter) AppliesTo(origin track.Origin) bool {
	return true
}

func (f *AllowedHostsFilter) Check(ctx context.Context, req LinkRequest) Result {
	// If config is not set, accept all links
	if f.config == nil {
		return Accept()
	}

	u, err := url.Parse(req.Link)
	if err != nil {
		return Reject("host_not_allowed")
	}
	host := strings.ToLower(u.Hostname())
	for _, allowed := range f.config.Hosts {
		if host == allowed {
			return Accept()
		}
	}
	return Reject("host_not_allowed")
}

func init() {
	Register("allowed_hosts", func() Filter {
		return &AllowedHostsFilter{}
	})
}
