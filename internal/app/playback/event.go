package playback

import "github.com/osa030/harmony/internal/domain/track"

// EventType represents a playback event type.
type EventType int

const (
	EventTrackChanged     EventType = iota // Current index moved to another track
	EventTrackRestarted                    // Current track restarted from the beginning (repeat)
	EventStateChanged                      // Play/pause state changed
	EventSequenceReplaced                  // Active sequence replaced, position reset
	EventSequenceUpdated                   // Display fields of the active sequence refreshed
	EventSettingsChanged                   // Volume, shuffle or repeat changed
	EventProgress                          // Played fraction or duration changed
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventTrackChanged:
		return "track_changed"
	case EventTrackRestarted:
		return "track_restarted"
	case EventStateChanged:
		return "state_changed"
	case EventSequenceReplaced:
		return "sequence_replaced"
	case EventSequenceUpdated:
		return "sequence_updated"
	case EventSettingsChanged:
		return "settings_changed"
	case EventProgress:
		return "progress"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type   EventType
	Status Status // Controller status right after the change
}

// Status is a consistent snapshot of the controller.
type Status struct {
	State           State
	Index           int
	Length          int
	Track           track.Track // Empty placeholder when the sequence is empty
	Playing         bool
	Volume          float64
	PlayedFraction  float64
	DurationSeconds float64
	ElapsedSeconds  float64
	Shuffle         bool
	Repeat          bool
}
