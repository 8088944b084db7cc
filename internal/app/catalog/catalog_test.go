package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/harmony/internal/infra/config"
)

type failingProvider struct{}

func (p *failingProvider) Links(ctx context.Context) ([]string, error) {
	return nil, errors.New("unavailable")
}

func (p *failingProvider) Name() string { return "failing" }

func TestLinksProvider(t *testing.T) {
	p, err := NewLinksProvider(map[string]any{
		"links": []any{"https://y/watch?v=A", "https://y/watch?v=B"},
	})
	require.NoError(t, err)

	links, err := p.Links(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://y/watch?v=A", "https://y/watch?v=B"}, links)

	_, err = NewLinksProvider(map[string]any{"links": []any{}})
	assert.Error(t, err)
	_, err = NewLinksProvider(map[string]any{"links": []any{"not a url"}})
	assert.Error(t, err)
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.txt")
	content := "# curated\nhttps://y/watch?v=A\n\n  https://y/watch?v=B  \n# https://y/watch?v=C\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := NewFileProvider(map[string]any{"path": path})
	require.NoError(t, err)

	links, err := p.Links(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://y/watch?v=A", "https://y/watch?v=B"}, links)

	missing, err := NewFileProvider(map[string]any{"path": filepath.Join(t.TempDir(), "none.txt")})
	require.NoError(t, err)
	_, err = missing.Links(context.Background())
	assert.Error(t, err)

	_, err = NewFileProvider(map[string]any{})
	assert.Error(t, err)
}

func TestProviderChain(t *testing.T) {
	first := &LinksProvider{config: &LinksProviderConfig{Links: []string{"https://y/watch?v=A", "https://y/watch?v=B"}}}
	second := &LinksProvider{config: &LinksProviderConfig{Links: []string{"https://y/watch?v=B", "https://y/watch?v=C"}}}

	chain := NewProviderChain([]ProviderWithMetadata{
		{Provider: first, DisplayName: "first"},
		{Provider: &failingProvider{}, DisplayName: "broken"},
		{Provider: second, DisplayName: "second"},
	})

	links, err := chain.Links(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://y/watch?v=A", "https://y/watch?v=B", "https://y/watch?v=C"}, links)
}

func TestProviderChain_AllFail(t *testing.T) {
	chain := NewProviderChain([]ProviderWithMetadata{{Provider: &failingProvider{}, DisplayName: "broken"}})

	_, err := chain.Links(context.Background())
	assert.Error(t, err)
}

func TestNewProviderChainFromConfig(t *testing.T) {
	t.Run("default links", func(t *testing.T) {
		chain, err := NewProviderChainFromConfig(&config.Config{})
		require.NoError(t, err)

		links, err := chain.Links(context.Background())
		require.NoError(t, err)
		assert.Equal(t, DefaultLinks, links)
	})

	t.Run("configured providers", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Catalog.Providers = []config.ProviderConfig{
			{Type: "links", DisplayName: "inline", Settings: map[string]any{"links": []any{"https://y/watch?v=A"}}},
		}

		chain, err := NewProviderChainFromConfig(cfg)
		require.NoError(t, err)
		links, err := chain.Links(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"https://y/watch?v=A"}, links)
	})

	t.Run("unsupported type", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Catalog.Providers = []config.ProviderConfig{{Type: "spotify", DisplayName: "x", Settings: map[string]any{}}}

		_, err := NewProviderChainFromConfig(cfg)
		assert.Error(t, err)
	})
}
