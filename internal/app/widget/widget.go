// Package widget provides the boundary to the external media embed.
//
// A Widget is one live embedded player instance. The Host owns at most one
// instance at a time, replaces it whenever the media link changes and
// delivers instance events to a Listener in order on a single goroutine.
package widget

import "github.com/osa030/harmony/internal/domain/track"

// Widget is a live embedded player instance.
type Widget interface {
	LoadAndMaybePlay(link string, startPlaying bool) error
	Play() error
	Pause() error
	SeekTo(fraction float64) error
	SetVolume(volume float64) error
	Destroy() error
}

// Listener receives widget events.
type Listener interface {
	OnReady()
	OnProgress(fraction float64)
	OnDuration(seconds float64)
	OnPlayStateChanged(playing bool)
	OnEnded()
}

// Emitter is handed to a widget instance to report its events.
type Emitter interface {
	Ready()
	Progress(fraction float64)
	Duration(seconds float64)
	PlayState(playing bool)
	Ended()
}

// Factory creates the widget instance identified by instance for spec.
type Factory func(instance uint64, spec EmbedSpec, emit Emitter) (Widget, error)

// EmbedKind represents the embed technology used for a link.
type EmbedKind int

const (
	EmbedURL      EmbedKind = iota // Generic video-as-audio embed keyed by URL
	EmbedPlaylist                  // Playlist-aware embed keyed by a provider playlist id
)

// String returns the string representation of the embed kind.
func (k EmbedKind) String() string {
	switch k {
	case EmbedURL:
		return "url"
	case EmbedPlaylist:
		return "playlist"
	default:
		return "unknown"
	}
}

// EmbedSpec describes what a widget instance must embed.
type EmbedSpec struct {
	Kind       EmbedKind
	Link       string
	VideoID    string
	PlaylistID string
}

// SpecFor returns the embed spec for link. Links carrying a playlist id use
// the playlist-aware embed.
func SpecFor(link string) EmbedSpec {
	spec := EmbedSpec{
		Kind:    EmbedURL,
		Link:    link,
		VideoID: track.VideoID(link),
	}
	if id := track.PlaylistID(link); id != "" {
		spec.Kind = EmbedPlaylist
		spec.PlaylistID = id
	}
	return spec
}

// EventKind represents a widget event type.
type EventKind int

const (
	EventReady EventKind = iota
	EventProgress
	EventDuration
	EventPlayState
	EventEnded
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventProgress:
		return "progress"
	case EventDuration:
		return "duration"
	case EventPlayState:
		return "play_state"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event is a widget event tagged with the instance that produced it.
type Event struct {
	Instance uint64
	Kind     EventKind
	Fraction float64
	Seconds  float64
	Playing  bool
}

// deliver forwards e to l.
func (e Event) deliver(l Listener) {
	switch e.Kind {
	case EventReady:
		l.OnReady()
	case EventProgress:
		l.OnProgress(e.Fraction)
	case EventDuration:
		l.OnDuration(e.Seconds)
	case EventPlayState:
		l.OnPlayStateChanged(e.Playing)
	case EventEnded:
		l.OnEnded()
	}
}
