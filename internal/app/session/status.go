package session

import (
	playerv1 "github.com/osa030/harmony/internal/api/playerv1"
	"github.com/osa030/harmony/internal/app/playback"
	"github.com/osa030/harmony/internal/app/source"
	"github.com/osa030/harmony/internal/domain/track"
)

// Status is a snapshot of the session.
type Status struct {
	SessionID     string
	Mode          source.Mode
	Authenticated bool
	Playback      playback.Status
	Tracks        []track.Track
}

// GetStatus returns a snapshot of the session.
func (m *Manager) GetStatus() Status {
	return Status{
		SessionID:     m.stateMgr.GetSessionID(),
		Mode:          m.stateMgr.GetMode(),
		Authenticated: m.identity.Authenticated(),
		Playback:      m.playback.GetStatus(),
		Tracks:        m.playback.GetSequence().Tracks(),
	}
}

// ToWire converts a status snapshot to its wire form.
func ToWire(s Status) playerv1.Status {
	pb := s.Playback
	status := playerv1.Status{
		SessionID:       s.SessionID,
		Mode:            s.Mode.String(),
		Authenticated:   s.Authenticated,
		State:           pb.State.String(),
		Index:           pb.Index,
		Length:          pb.Length,
		Tracks:          make([]playerv1.Track, 0, len(s.Tracks)),
		Playing:         pb.Playing,
		Volume:          pb.Volume,
		PlayedFraction:  pb.PlayedFraction,
		DurationSeconds: pb.DurationSeconds,
		ElapsedSeconds:  pb.ElapsedSeconds,
		Shuffle:         pb.Shuffle,
		Repeat:          pb.Repeat,
	}
	if !pb.Track.IsEmpty() {
		t := wireTrack(pb.Track)
		status.Track = &t
	}
	for _, t := range s.Tracks {
		status.Tracks = append(status.Tracks, wireTrack(t))
	}
	return status
}

func wireTrack(t track.Track) playerv1.Track {
	return playerv1.Track{
		DisplayName:  t.DisplayName,
		Artist:       t.Artist,
		ThumbnailURL: t.ThumbnailURL,
		MediaLink:    t.MediaLink,
		Origin:       t.Origin.String(),
	}
}
