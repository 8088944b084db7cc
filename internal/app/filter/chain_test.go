package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/harmony/internal/domain/track"
)

func TestChain_ApplyDropsBlankEntries(t *testing.T) {
	c := NewChain()

	kept, rejected := c.Apply(context.Background(),
		[]string{"https://y/watch?v=AAA", "  ", "https://y/watch?v=BBB"},
		track.OriginAdHocMulti)

	assert.Equal(t, []string{"https://y/watch?v=AAA", "https://y/watch?v=BBB"}, kept)
	require.Len(t, rejected, 1)
	assert.Equal(t, "blank_link", rejected[0].Code)
}

func TestChain_ApplyTrimsLinks(t *testing.T) {
	kept, _ := NewChain().Apply(context.Background(), []string{"  https://y/watch?v=A \n"}, track.OriginAdHocSingle)
	assert.Equal(t, []string{"https://y/watch?v=A"}, kept)
}

func TestBuild(t *testing.T) {
	c, err := Build(map[string]Settings{
		"duplicate_link":    {Enabled: true},
		"video_id_required": {Enabled: true},
		"allowed_hosts":     {Enabled: false},
	})
	require.NoError(t, err)

	var names []string
	for _, f := range c.Filters() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"blank_link", "duplicate_link", "video_id_required"}, names)

	kept, rejected := c.Apply(context.Background(), []string{
		"https://y/watch?v=A",
		"https://y/watch?v=A",
		"https://y/about",
		"",
		"https://y/watch?v=B",
	}, track.OriginAdHocMulti)

	assert.Equal(t, []string{"https://y/watch?v=A", "https://y/watch?v=B"}, kept)
	codes := make([]string, 0, len(rejected))
	for _, r := range rejected {
		codes = append(codes, r.Code)
	}
	assert.Equal(t, []string{"duplicate_link", "video_id_missing", "blank_link"}, codes)
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(map[string]Settings{"no_such_filter": {Enabled: true}})
	assert.Error(t, err)

	_, err = Build(map[string]Settings{
		"allowed_hosts": {Enabled: true, Settings: map[string]any{"hosts": []any{"bad host"}}},
	})
	assert.Error(t, err)
}

func TestRegisteredNames(t *testing.T) {
	assert.Equal(t, []string{"allowed_hosts", "duplicate_link", "video_id_required"}, RegisteredNames())
}
