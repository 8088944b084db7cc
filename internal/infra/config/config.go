// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig            `yaml:"server"`
	Auth     AuthConfig              `yaml:"auth"`
	API      APIConfig               `yaml:"api"`
	Metadata MetadataConfig          `yaml:"metadata"`
	Catalog  CatalogConfig           `yaml:"catalog"`
	Playback PlaybackConfig          `yaml:"playback"`
	Filters  map[string]FilterConfig `yaml:"filters"`
	Messages MessagesConfig          `yaml:"messages"`
	SongSvc  SongSvcConfig           `yaml:"songsvc" validate:"-"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr      string      `yaml:"addr" default:":8080"`
	PublicURL string      `yaml:"public_url" default:"http://localhost:8080" validate:"url"`
	Hooks     HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// AuthConfig represents the external login configuration.
type AuthConfig struct {
	BaseURL         string `yaml:"base_url" default:"http://localhost:5000" validate:"url"`
	CredentialParam string `yaml:"credential_param" default:"token" validate:"required"`
	CredentialPath  string `yaml:"credential_path" default:"./data/credential.yaml" validate:"required"`
}

// APIConfig represents the persistence service client configuration.
type APIConfig struct {
	BaseURL    string `yaml:"base_url" default:"http://localhost:5000" validate:"url"`
	TimeoutSec int    `yaml:"timeout_sec" default:"10" validate:"gte=1,lte=120"`
}

// MetadataConfig represents metadata enrichment configuration.
type MetadataConfig struct {
	OEmbedURL   string  `yaml:"oembed_url" default:"https://www.youtube.com/oembed" validate:"url"`
	Concurrency int     `yaml:"concurrency" default:"8" validate:"gte=0,lte=64"`
	RatePerSec  float64 `yaml:"rate_per_sec" validate:"gte=0"`
	TimeoutSec  int     `yaml:"timeout_sec" default:"5" validate:"gte=1,lte=60"`
}

// CatalogConfig represents the curated static list configuration.
type CatalogConfig struct {
	Providers []ProviderConfig `yaml:"providers" validate:"dive"`
}

// ProviderConfig represents a single catalog provider configuration.
type ProviderConfig struct {
	Type        string         `yaml:"type" validate:"required"`
	DisplayName string         `yaml:"display_name" validate:"required"`
	Settings    map[string]any `yaml:"settings" validate:"required"`
}

// PlaybackConfig represents playback control configuration.
type PlaybackConfig struct {
	InitialVolume      float64 `yaml:"initial_volume" default:"0.8" validate:"gte=0,lte=1"`
	Widget             string  `yaml:"widget" default:"clock" validate:"oneof=clock remote"`
	SimulatedTrackSec  int     `yaml:"simulated_track_sec" default:"180" validate:"gte=1"`
	ProgressIntervalMs int     `yaml:"progress_interval_ms" default:"500" validate:"gte=50,lte=10000"`
	WidgetToken        string  `yaml:"widget_token" validate:"required_if=Widget remote"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// MessagesConfig represents user-facing messages.
type MessagesConfig struct {
	Success        string `yaml:"success" default:"OK"`
	DefaultError   string `yaml:"default_error" default:"Something went wrong."`
	Saved          string `yaml:"saved" default:"Saved."`
	LoginRequired  string `yaml:"login_required" default:"Please log in first."`
	NotAdmin       string `yaml:"not_admin" default:"Only administrators can add global songs."`
	FetchFailed    string `yaml:"fetch_failed" default:"The song service is not reachable."`
	InvalidMode    string `yaml:"invalid_mode" default:"Unknown playlist mode."`
	InvalidIndex   string `yaml:"invalid_index" default:"No such track."`
	NoValidLinks   string `yaml:"no_valid_links" default:"No playable links were given."`
	BlankLink      string `yaml:"blank_link" default:"The link is empty."`
	DuplicateLink  string `yaml:"duplicate_link" default:"The link was entered twice."`
	HostNotAllowed string `yaml:"host_not_allowed" default:"Links from this site are not supported."`
	VideoIDMissing string `yaml:"video_id_missing" default:"The link does not point at a video."`
}

// SongSvcConfig represents the persistence service configuration.
type SongSvcConfig struct {
	Addr          string       `yaml:"addr" default:":5000"`
	DatabasePath  string       `yaml:"database_path" default:"./data/songs.db" validate:"required"`
	JWTSecret     string       `yaml:"jwt_secret" validate:"required,min=16"`
	TokenTTLHours int          `yaml:"token_ttl_hours" default:"168" validate:"gte=1"`
	FrontendURL   string       `yaml:"frontend_url" default:"http://localhost:8080" validate:"url"`
	AdminEmails   []string     `yaml:"admin_emails" validate:"dive,email"`
	Google        GoogleConfig `yaml:"google"`
}

// GoogleConfig represents Google OAuth2 client configuration.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id" validate:"required"`
	ClientSecret string `yaml:"client_secret" validate:"required"`
	RedirectURL  string `yaml:"redirect_url" default:"http://localhost:5000/auth/google/callback" validate:"url"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	return Parse(data)
}

// Parse parses configuration from YAML data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("HARMONY_WIDGET_TOKEN"); v != "" {
		c.Playback.WidgetToken = v
	}
	if v := os.Getenv("HARMONY_JWT_SECRET"); v != "" {
		c.SongSvc.JWTSecret = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		c.SongSvc.Google.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		c.SongSvc.Google.ClientSecret = v
	}
}

// GetMessage returns the message for the given code.
func (c *Config) GetMessage(code string) string {
	switch code {
	case "success":
		return c.Messages.Success
	case "saved":
		return c.Messages.Saved
	case "login_required":
		return c.Messages.LoginRequired
	case "not_admin":
		return c.Messages.NotAdmin
	case "fetch_failed":
		return c.Messages.FetchFailed
	case "invalid_mode":
		return c.Messages.InvalidMode
	case "invalid_index":
		return c.Messages.InvalidIndex
	case "no_valid_links":
		return c.Messages.NoValidLinks
	case "blank_link":
		return c.Messages.BlankLink
	case "duplicate_link":
		return c.Messages.DuplicateLink
	case "host_not_allowed":
		return c.Messages.HostNotAllowed
	case "video_id_missing":
		return c.Messages.VideoIDMissing
	default:
		return c.Messages.DefaultError
	}
}

// IsAdminEmail checks if the given email belongs to an administrator.
func (c *Config) IsAdminEmail(email string) bool {
	for _, e := range c.SongSvc.AdminEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

// Validate validates the player server configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// ValidateSongSvc validates the persistence service configuration.
func (c *Config) ValidateSongSvc() error {
	validate := validator.New()
	if err := validate.Struct(c.SongSvc); err != nil {
		return errors.Wrap(err, "songsvc validation failed")
	}
	return nil
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}

// APITimeout returns the persistence service request timeout.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// MetadataTimeout returns the metadata lookup timeout.
func (c *Config) MetadataTimeout() time.Duration {
	return time.Duration(c.Metadata.TimeoutSec) * time.Second
}

// TokenTTL returns the lifetime of issued credentials.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.SongSvc.TokenTTLHours) * time.Hour
}
