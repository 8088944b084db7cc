// Package source resolves the loaded song sources into the active sequence.
package source

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/osa030/harmony/internal/domain/playlist"
	"github.com/osa030/harmony/internal/domain/track"
)

// ErrInvalidMode is returned when a mode name is not recognized.
var ErrInvalidMode = errors.New("invalid mode")

// Mode selects which source feeds the active sequence.
type Mode string

const (
	ModeStatic   Mode = "static"   // Curated list
	ModePersonal Mode = "personal" // Saved songs of the current identity plus global songs
	ModeSingle   Mode = "single"   // One pasted link
	ModeMultiple Mode = "multiple" // Several pasted links
)

// String returns the mode name.
func (m Mode) String() string {
	return string(m)
}

// RequiresLogin reports whether the mode is only available with a session credential.
func (m Mode) RequiresLogin() bool {
	return m == ModePersonal
}

// ParseMode parses a mode name. "user" is accepted as an alias of personal.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "static", "":
		return ModeStatic, nil
	case "personal", "user":
		return ModePersonal, nil
	case "single":
		return ModeSingle, nil
	case "multiple", "multi":
		return ModeMultiple, nil
	default:
		return "", errors.Wrapf(ErrInvalidMode, "%q", s)
	}
}

// Sources holds every loaded source sequence. Values are snapshots; callers
// replace slices instead of mutating them.
type Sources struct {
	Static        []track.Track // Curated list, possibly enriched
	Personal      []track.Track // Newest first, as served by the persistence service
	AdHocSingle   track.Track   // Zero value when no link was pasted
	AdHocMultiple []track.Track // User-entry order
}

// Resolve produces the active sequence for mode.
func Resolve(mode Mode, s Sources) playlist.Playlist {
	switch mode {
	case ModeStatic:
		return playlist.New(s.Static)
	case ModePersonal:
		return playlist.New(s.Personal)
	case ModeSingle:
		if !s.AdHocSingle.IsPlayable() {
			return playlist.Playlist{}
		}
		return playlist.New([]track.Track{s.AdHocSingle})
	case ModeMultiple:
		return playlist.New(s.AdHocMultiple)
	default:
		return playlist.Playlist{}
	}
}

// AdHocTracks builds pending tracks for pasted links, dropping blank entries
// and preserving entry order.
func AdHocTracks(links []string, origin track.Origin) []track.Track {
	tracks := make([]track.Track, 0, len(links))
	for _, l := range links {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		tracks = append(tracks, track.Pending(l, origin))
	}
	return tracks
}
