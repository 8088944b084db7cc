package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:5000", cfg.Auth.BaseURL)
	assert.Equal(t, "token", cfg.Auth.CredentialParam)
	assert.Equal(t, "https://www.youtube.com/oembed", cfg.Metadata.OEmbedURL)
	assert.Equal(t, 8, cfg.Metadata.Concurrency)
	assert.Equal(t, 0.8, cfg.Playback.InitialVolume)
	assert.Equal(t, "clock", cfg.Playback.Widget)
	assert.Equal(t, 10*time.Second, cfg.APITimeout())
	assert.Equal(t, 5*time.Second, cfg.MetadataTimeout())
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL())
	assert.Empty(t, cfg.Catalog.Providers)
}

func TestParse_File(t *testing.T) {
	data := `
server:
  addr: ":9090"
catalog:
  providers:
    - type: links
      display_name: Curated
      settings:
        links:
          - https://www.youtube.com/watch?v=gkCKTuR-ECI
playback:
  widget: remote
  widget_token: secret
filters:
  duplicate_link:
    enabled: true
  allowed_hosts:
    enabled: false
    settings:
      hosts: [youtube.com]
messages:
  login_required: "Log in to save songs"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	require.Len(t, cfg.Catalog.Providers, 1)
	assert.Equal(t, "links", cfg.Catalog.Providers[0].Type)
	assert.Equal(t, "remote", cfg.Playback.Widget)
	assert.True(t, cfg.IsFilterEnabled("duplicate_link"))
	assert.False(t, cfg.IsFilterEnabled("allowed_hosts"))
	assert.False(t, cfg.IsFilterEnabled("unknown"))
	assert.Equal(t, "Log in to save songs", cfg.GetMessage("login_required"))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			yaml:    "playback:\n  initial_volume: 0.5\n",
			wantErr: false,
		},
		{
			name:    "volume out of range",
			yaml:    "playback:\n  initial_volume: 1.5\n",
			wantErr: true,
			errMsg:  "InitialVolume",
		},
		{
			name:    "unknown widget",
			yaml:    "playback:\n  widget: iframe\n",
			wantErr: true,
			errMsg:  "Widget",
		},
		{
			name:    "remote widget without token",
			yaml:    "playback:\n  widget: remote\n",
			wantErr: true,
			errMsg:  "WidgetToken",
		},
		{
			name:    "invalid auth base url",
			yaml:    "auth:\n  base_url: not-a-url\n",
			wantErr: true,
			errMsg:  "BaseURL",
		},
		{
			name:    "provider without type",
			yaml:    "catalog:\n  providers:\n    - display_name: x\n      settings: {a: 1}\n",
			wantErr: true,
			errMsg:  "Type",
		},
		{
			name:    "songsvc section is not validated for the player server",
			yaml:    "songsvc:\n  jwt_secret: short\n",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))

			if tt.wantErr {
				require.Error(t, err, "expected validation to fail")
				assert.Contains(t, err.Error(), tt.errMsg,
					"error message should mention the problematic field")
			} else {
				assert.NoError(t, err, "expected validation to pass")
			}
		})
	}
}

func TestConfig_ValidateSongSvc(t *testing.T) {
	valid := `
songsvc:
  jwt_secret: 0123456789abcdef
  admin_emails: [admin@example.com]
  google:
    client_id: id
    client_secret: secret
`
	cfg, err := Parse([]byte(valid))
	require.NoError(t, err)
	assert.NoError(t, cfg.ValidateSongSvc())
	assert.True(t, cfg.IsAdminEmail("Admin@Example.com"))
	assert.False(t, cfg.IsAdminEmail("user@example.com"))

	cfg, err = Parse([]byte("songsvc:\n  jwt_secret: short\n"))
	require.NoError(t, err)
	err = cfg.ValidateSongSvc()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWTSecret")
}

func TestConfig_OverrideFromEnv(t *testing.T) {
	t.Setenv("HARMONY_WIDGET_TOKEN", "env-widget")
	t.Setenv("HARMONY_JWT_SECRET", "env-secret-0123456789")
	t.Setenv("GOOGLE_CLIENT_ID", "env-client")
	t.Setenv("GOOGLE_CLIENT_SECRET", "env-client-secret")

	cfg, err := Parse([]byte("playback:\n  widget: remote\n  widget_token: file-token\n"))
	require.NoError(t, err)

	assert.Equal(t, "env-widget", cfg.Playback.WidgetToken)
	assert.Equal(t, "env-secret-0123456789", cfg.SongSvc.JWTSecret)
	assert.Equal(t, "env-client", cfg.SongSvc.Google.ClientID)
	assert.Equal(t, "env-client-secret", cfg.SongSvc.Google.ClientSecret)
	assert.NoError(t, cfg.ValidateSongSvc())
}

func TestConfig_GetMessage(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	tests := []struct {
		code     string
		expected string
	}{
		{"success", cfg.Messages.Success},
		{"login_required", cfg.Messages.LoginRequired},
		{"not_admin", cfg.Messages.NotAdmin},
		{"fetch_failed", cfg.Messages.FetchFailed},
		{"no_valid_links", cfg.Messages.NoValidLinks},
		{"video_id_missing", cfg.Messages.VideoIDMissing},
		{"unknown_code", cfg.Messages.DefaultError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, cfg.GetMessage(tt.code))
			assert.NotEmpty(t, cfg.GetMessage(tt.code))
		})
	}
}
