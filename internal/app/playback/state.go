// Package playback provides the transport state machine over the active sequence.
package playback

// State represents the playback state.
type State int

const (
	StateIdle    State = iota // No active sequence or empty sequence
	StateReady                // Sequence loaded, not playing
	StatePlaying              // Track is playing
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}
