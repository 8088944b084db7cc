// Package playerv1 defines the harmony.player.v1 wire messages, procedure
// names, codec and typed clients.
package playerv1

// Notification types
const (
	NotificationInitialState  = "initial_state"
	NotificationStatus        = "status"
	NotificationWidgetCommand = "widget_command"
)

// Empty is used by procedures without arguments or result.
type Empty struct{}

// Track is an entry of the active list.
type Track struct {
	DisplayName  string `json:"displayName"`
	Artist       string `json:"artist,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	MediaLink    string `json:"mediaLink"`
	Origin       string `json:"origin"`
}

// Status is a snapshot of the player.
type Status struct {
	SessionID       string  `json:"sessionId"`
	Mode            string  `json:"mode"`
	Authenticated   bool    `json:"authenticated"`
	State           string  `json:"state"`
	Index           int     `json:"index"`
	Length          int     `json:"length"`
	Track           *Track  `json:"track,omitempty"`
	Tracks          []Track `json:"tracks"`
	Playing         bool    `json:"playing"`
	Volume          float64 `json:"volume"`
	PlayedFraction  float64 `json:"playedFraction"`
	DurationSeconds float64 `json:"durationSeconds"`
	ElapsedSeconds  float64 `json:"elapsedSeconds"`
	Shuffle         bool    `json:"shuffle"`
	Repeat          bool    `json:"repeat"`
}

// Result is returned by operations that may carry a user notice.
type Result struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetStatusResponse carries the current status.
type GetStatusResponse struct {
	Status Status `json:"status"`
}

// SelectModeRequest switches the list mode ("static" or "personal").
type SelectModeRequest struct {
	Mode string `json:"mode"`
}

// SelectTrackRequest plays the entry at index.
type SelectTrackRequest struct {
	Index int `json:"index"`
}

// SeekRequest moves the position to a fraction of the current track.
type SeekRequest struct {
	Fraction float64 `json:"fraction"`
}

// SetVolumeRequest sets the volume in [0,1].
type SetVolumeRequest struct {
	Volume float64 `json:"volume"`
}

// SetFlagRequest toggles shuffle or repeat.
type SetFlagRequest struct {
	Enabled bool `json:"enabled"`
}

// PlaySingleRequest plays one link immediately.
type PlaySingleRequest struct {
	Link string `json:"link"`
}

// PlayMultipleRequest plays a list of links immediately.
type PlayMultipleRequest struct {
	Links []string `json:"links"`
}

// SearchPersonalRequest re-fetches the personal list filtered by title.
type SearchPersonalRequest struct {
	Search string `json:"search"`
}

// SaveTrackRequest saves a link to the persistence service.
type SaveTrackRequest struct {
	Link string `json:"link"`
}

// WidgetCommand is a command for the browser-side media widget.
type WidgetCommand struct {
	Instance     uint64  `json:"instance"`
	Action       string  `json:"action"`
	Kind         string  `json:"kind,omitempty"`
	Link         string  `json:"link,omitempty"`
	VideoID      string  `json:"videoId,omitempty"`
	PlaylistID   string  `json:"playlistId,omitempty"`
	StartPlaying bool    `json:"startPlaying,omitempty"`
	Fraction     float64 `json:"fraction,omitempty"`
	Volume       float64 `json:"volume,omitempty"`
}

// Notification is a message of the Subscribe stream.
type Notification struct {
	Type       string         `json:"type"`
	SequenceNo uint64         `json:"sequenceNo"`
	Status     *Status        `json:"status,omitempty"`
	Command    *WidgetCommand `json:"command,omitempty"`
}

// SessionInfo describes the session and its identity.
type SessionInfo struct {
	SessionID     string `json:"sessionId"`
	Mode          string `json:"mode"`
	Authenticated bool   `json:"authenticated"`
}

// LoginURLResponse carries the external login URL.
type LoginURLResponse struct {
	URL string `json:"url"`
}

// WidgetReport is an event reported by the browser-side media widget.
// Instance is the id of the widget command that created the embed.
type WidgetReport struct {
	Instance uint64  `json:"instance"`
	Fraction float64 `json:"fraction,omitempty"`
	Seconds  float64 `json:"seconds,omitempty"`
	Playing  bool    `json:"playing,omitempty"`
}

// WidgetTokenHeader carries the shared secret of the browser-side widget.
const WidgetTokenHeader = "X-Widget-Token"
