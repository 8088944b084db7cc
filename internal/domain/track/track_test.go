package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVideoID(t *testing.T) {
	tests := []struct {
		name     string
		link     string
		expected string
	}{
		{name: "watch url", link: "https://www.youtube.com/watch?v=gkCKTuR-ECI", expected: "gkCKTuR-ECI"},
		{name: "extra params", link: "https://www.youtube.com/watch?v=XYZ&list=PL1&index=2", expected: "XYZ"},
		{name: "short link", link: "https://youtu.be/AAA", expected: "AAA"},
		{name: "surrounding spaces", link: "  https://y/watch?v=BBB  ", expected: "BBB"},
		{name: "no id", link: "https://www.youtube.com/", expected: ""},
		{name: "malformed", link: "://bad url%%", expected: ""},
		{name: "empty", link: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VideoID(tt.link))
		})
	}
}

func TestThumbnailURL(t *testing.T) {
	assert.Equal(t, "https://i.ytimg.com/vi/XYZ/hqdefault.jpg", ThumbnailURL("https://y/watch?v=XYZ"))
	assert.Equal(t, "", ThumbnailURL("not a video"))

	// Deterministic for the same input.
	assert.Equal(t, ThumbnailURL("://bad%%"), ThumbnailURL("://bad%%"))
}

func TestPlaylistID(t *testing.T) {
	assert.Equal(t, "RDgkCKTuR-ECI", PlaylistID("https://www.youtube.com/watch?v=gkCKTuR-ECI&list=RDgkCKTuR-ECI"))
	assert.Equal(t, "", PlaylistID("https://www.youtube.com/watch?v=gkCKTuR-ECI"))
}

func TestPending(t *testing.T) {
	tr := Pending("https://y/watch?v=AAA", OriginAdHocMulti)

	assert.Equal(t, UnknownTitle, tr.DisplayName)
	assert.Equal(t, UnknownArtist, tr.Artist)
	assert.Equal(t, "https://i.ytimg.com/vi/AAA/hqdefault.jpg", tr.ThumbnailURL)
	assert.Equal(t, OriginAdHocMulti, tr.Origin)
	assert.True(t, tr.IsPlayable())
}

func TestTrack_SameAndPlayable(t *testing.T) {
	a := Track{DisplayName: "A", MediaLink: "https://y/watch?v=1", Origin: OriginStatic}
	b := Track{DisplayName: "B", MediaLink: "https://y/watch?v=1", Origin: OriginPersonal}
	c := Track{MediaLink: "https://y/watch?v=2"}

	assert.True(t, a.Same(b))
	assert.False(t, a.Same(c))
	assert.False(t, Track{MediaLink: "   "}.IsPlayable())
	assert.True(t, Track{}.IsEmpty())
	assert.False(t, a.IsEmpty())
}

func TestOrigin_Enrichable(t *testing.T) {
	assert.True(t, OriginStatic.Enrichable())
	assert.True(t, OriginAdHocSingle.Enrichable())
	assert.True(t, OriginAdHocMulti.Enrichable())
	assert.False(t, OriginPersonal.Enrichable())
	assert.False(t, OriginGlobal.Enrichable())
	assert.Equal(t, "personal", OriginPersonal.String())
}
