// Package track provides the Track domain entity.
package track

import (
	"fmt"
	"net/url"
	"strings"
)

// Placeholder display values used until (or instead of) metadata enrichment.
const (
	UnknownTitle  = "Unknown Title"
	UnknownArtist = "Unknown Artist"
)

const thumbnailPattern = "https://i.ytimg.com/vi/%s/hqdefault.jpg"

// Origin identifies which source produced a track.
type Origin int

const (
	OriginStatic      Origin = iota // Curated static list
	OriginPersonal                  // Saved by the current identity
	OriginGlobal                    // Shared global entry
	OriginAdHocSingle               // Single pasted link
	OriginAdHocMulti                // One of several pasted links
)

// String returns the string representation of the origin.
func (o Origin) String() string {
	switch o {
	case OriginStatic:
		return "static"
	case OriginPersonal:
		return "personal"
	case OriginGlobal:
		return "global"
	case OriginAdHocSingle:
		return "adhoc_single"
	case OriginAdHocMulti:
		return "adhoc_multi"
	default:
		return "unknown"
	}
}

// Enrichable reports whether tracks of this origin get their display
// metadata from the enrichment lookup.
func (o Origin) Enrichable() bool {
	return o == OriginStatic || o == OriginAdHocSingle || o == OriginAdHocMulti
}

// Track is one playable unit.
// Two tracks are the same track iff their MediaLink is equal.
type Track struct {
	DisplayName  string
	Artist       string
	ThumbnailURL string
	MediaLink    string // Canonical source URL
	Origin       Origin
}

// Pending returns a track for link whose display fields are placeholders
// awaiting enrichment.
func Pending(link string, origin Origin) Track {
	return Track{
		DisplayName:  UnknownTitle,
		Artist:       UnknownArtist,
		ThumbnailURL: ThumbnailURL(link),
		MediaLink:    link,
		Origin:       origin,
	}
}

// Same reports whether t and other refer to the same media.
func (t Track) Same(other Track) bool {
	return t.MediaLink == other.MediaLink
}

// IsPlayable reports whether the track may enter an active sequence.
func (t Track) IsPlayable() bool {
	return strings.TrimSpace(t.MediaLink) != ""
}

// IsEmpty reports whether t is the empty placeholder record.
func (t Track) IsEmpty() bool {
	return t == Track{}
}

// VideoID extracts the provider-assigned video identifier from link.
// It reads the "v" query parameter and also understands youtu.be short links.
// Returns "" when no identifier can be parsed.
func VideoID(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return ""
	}
	if id := u.Query().Get("v"); id != "" {
		return id
	}
	if strings.EqualFold(u.Hostname(), "youtu.be") {
		return strings.Trim(u.Path, "/")
	}
	return ""
}

// PlaylistID extracts the provider playlist identifier ("list" parameter) from link.
func PlaylistID(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return ""
	}
	return u.Query().Get("list")
}

// ThumbnailURL derives the still-image URL for link from its video id.
// Returns "" when the id cannot be parsed.
func ThumbnailURL(link string) string {
	id := VideoID(link)
	if id == "" {
		return ""
	}
	return fmt.Sprintf(thumbnailPattern, id)
}
