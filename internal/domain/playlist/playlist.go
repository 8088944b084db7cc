// Package playlist provides the active sequence snapshot.
package playlist

import "github.com/osa030/harmony/internal/domain/track"

// Playlist is an immutable, ordered snapshot of tracks.
// It is always replaced as a whole, never mutated in place.
type Playlist struct {
	tracks []track.Track
}

// New creates a playlist from tracks, excluding tracks without a media link.
func New(tracks []track.Track) Playlist {
	kept := make([]track.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.IsPlayable() {
			kept = append(kept, t)
		}
	}
	return Playlist{tracks: kept}
}

// Len returns the number of tracks.
func (p Playlist) Len() int {
	return len(p.tracks)
}

// IsEmpty reports whether the playlist has no tracks.
func (p Playlist) IsEmpty() bool {
	return len(p.tracks) == 0
}

// At returns the track at index, or the empty placeholder record when out of range.
func (p Playlist) At(index int) track.Track {
	if index < 0 || index >= len(p.tracks) {
		return track.Track{}
	}
	return p.tracks[index]
}

// Tracks returns a copy of all tracks.
func (p Playlist) Tracks() []track.Track {
	result := make([]track.Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// Links returns all media links in order.
func (p Playlist) Links() []string {
	links := make([]string, len(p.tracks))
	for i, t := range p.tracks {
		links[i] = t.MediaLink
	}
	return links
}

// SameLinks reports whether p and other hold the same links in the same order,
// i.e. other only differs from p in display metadata.
func (p Playlist) SameLinks(other Playlist) bool {
	if len(p.tracks) != len(other.tracks) {
		return false
	}
	for i := range p.tracks {
		if !p.tracks[i].Same(other.tracks[i]) {
			return false
		}
	}
	return true
}
