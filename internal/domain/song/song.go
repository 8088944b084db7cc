// Package song provides the Song record served by the persistence service.
package song

import (
	"strings"
	"time"

	"github.com/osa030/harmony/internal/domain/track"
)

// Song is a saved entry as stored and served by the persistence service.
type Song struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	YouTubeURL string    `json:"youtubeUrl"`
	Thumbnail  string    `json:"thumbnail"`
	UserID     string    `json:"userId,omitempty"`
	IsGlobal   bool      `json:"isGlobal"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewSong is the body used to create a song entry.
type NewSong struct {
	YouTubeURL string `json:"youtubeUrl"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Thumbnail  string `json:"thumbnail"`
}

// Track normalizes the song into the Track shape.
// Global entries keep the Global origin so they can be told apart in the list.
func (s Song) Track() track.Track {
	origin := track.OriginPersonal
	if s.IsGlobal {
		origin = track.OriginGlobal
	}
	link := strings.TrimSpace(s.YouTubeURL)
	thumbnail := s.Thumbnail
	if thumbnail == "" {
		thumbnail = track.ThumbnailURL(link)
	}
	return track.Track{
		DisplayName:  s.Title,
		Artist:       s.Artist,
		ThumbnailURL: thumbnail,
		MediaLink:    link,
		Origin:       origin,
	}
}

// Tracks normalizes songs in their given order, dropping entries without a link.
func Tracks(songs []Song) []track.Track {
	tracks := make([]track.Track, 0, len(songs))
	for _, s := range songs {
		t := s.Track()
		if !t.IsPlayable() {
			continue
		}
		tracks = append(tracks, t)
	}
	return tracks
}
