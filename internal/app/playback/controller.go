package playback

import (
	"context"
	"math/rand"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/harmony/internal/domain/playlist"
)

// Errors
var (
	ErrInvalidIndex = errors.New("track index out of range")
	ErrClosed       = errors.New("controller closed")
)

// Player is the single media widget driven by the controller.
type Player interface {
	Load(link string, startPlaying bool) error
	Play() error
	Pause() error
	SeekTo(fraction float64) error
	SetVolume(volume float64) error
	Destroy() error
}

// Config holds controller configuration.
type Config struct {
	InitialVolume float64         // Volume in [0,1] applied at start
	EventBuffer   int             // Size of the event channel buffer
	RandIntn      func(n int) int // Random source for shuffle (nil = math/rand)
}

// Controller holds the current index into the active sequence and drives the player.
type Controller struct {
	mu sync.Mutex

	player Player

	// Sequence and position
	sequence   playlist.Playlist
	index      int
	loadedLink string // Link last loaded into the player, "" when none

	// Transport state
	playing  bool
	volume   float64
	played   float64
	duration float64
	shuffle  bool
	repeat   bool

	randIntn func(n int) int

	// Events
	eventCh chan Event

	// Context
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// NewController creates a new playback controller.
func NewController(player Player, config Config) *Controller {
	ctx, cancel := context.WithCancel(context.Background())

	buffer := config.EventBuffer
	if buffer <= 0 {
		buffer = 64
	}
	randIntn := config.RandIntn
	if randIntn == nil {
		randIntn = rand.Intn
	}

	c := &Controller{
		player:   player,
		volume:   clamp(config.InitialVolume),
		randIntn: randIntn,
		eventCh:  make(chan Event, buffer),
		ctx:      ctx,
		cancel:   cancel,
	}
	if err := player.SetVolume(c.volume); err != nil {
		zlog.Warn().Msgf("playback: failed to set initial volume: error=%v", err)
	}
	return c
}

// Events returns the event channel.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// Play starts playback of the current track. No-op when idle or already playing.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sequence.IsEmpty() || c.playing {
		return nil
	}
	c.playing = true
	c.sendEventLocked(EventStateChanged)

	if c.loadedLink != c.currentLinkLocked() {
		return c.loadLocked()
	}
	return c.callLocked("play", c.player.Play)
}

// Pause pauses playback. No-op unless playing.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sequence.IsEmpty() || !c.playing {
		return nil
	}
	c.playing = false
	c.sendEventLocked(EventStateChanged)

	return c.callLocked("pause", c.player.Pause)
}

// TogglePlayPause flips between playing and paused.
func (c *Controller) TogglePlayPause() error {
	c.mu.Lock()
	playing := c.playing
	c.mu.Unlock()

	if playing {
		return c.Pause()
	}
	return c.Play()
}

// Next moves to the next track, or to a random other track when shuffle is on.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.nextLocked()
}

func (c *Controller) nextLocked() error {
	n := c.sequence.Len()
	if n == 0 {
		return nil
	}

	next := (c.index + 1) % n
	if c.shuffle {
		next = c.index
		if n > 1 {
			for next == c.index {
				next = c.randIntn(n)
			}
		}
	}
	return c.moveLocked(next)
}

// Previous moves to the previous track, wrapping to the last one.
func (c *Controller) Previous() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.sequence.Len()
	if n == 0 {
		return nil
	}
	return c.moveLocked((c.index - 1 + n) % n)
}

// Select plays the track at index.
func (c *Controller) Select(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.sequence.Len()
	if n == 0 {
		return nil
	}
	if index < 0 || index >= n {
		return errors.Wrapf(ErrInvalidIndex, "index=%d length=%d", index, n)
	}
	return c.moveLocked(index)
}

// moveLocked makes index current and starts playing it from the beginning.
func (c *Controller) moveLocked(index int) error {
	c.index = index
	c.played = 0
	c.duration = 0
	c.playing = true
	c.sendEventLocked(EventTrackChanged)

	return c.loadLocked()
}

// OnTrackEnded handles the end of the current track: it restarts the track
// when repeat is on and moves to the next one otherwise.
func (c *Controller) OnTrackEnded() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sequence.IsEmpty() {
		return nil
	}
	if !c.repeat {
		return c.nextLocked()
	}

	c.played = 0
	c.playing = true
	c.sendEventLocked(EventTrackRestarted)
	return c.loadLocked()
}

// Seek moves the playback position to fraction of the current track.
func (c *Controller) Seek(fraction float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sequence.IsEmpty() {
		return nil
	}
	c.played = clamp(fraction)
	c.sendEventLocked(EventProgress)

	return c.callLocked("seek", func() error { return c.player.SeekTo(c.played) })
}

// SetVolume sets the volume, clamped to [0,1].
func (c *Controller) SetVolume(volume float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.volume = clamp(volume)
	c.sendEventLocked(EventSettingsChanged)

	return c.callLocked("set volume", func() error { return c.player.SetVolume(c.volume) })
}

// SetShuffle enables or disables shuffle.
func (c *Controller) SetShuffle(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shuffle == enabled {
		return
	}
	c.shuffle = enabled
	c.sendEventLocked(EventSettingsChanged)
}

// SetRepeat enables or disables repeat.
func (c *Controller) SetRepeat(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.repeat == enabled {
		return
	}
	c.repeat = enabled
	c.sendEventLocked(EventSettingsChanged)
}

// Replace swaps in a new active sequence and resets the position to its first
// track. The new sequence starts playing only when autoplay is set.
func (c *Controller) Replace(p playlist.Playlist, autoplay bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	c.sequence = p
	c.index = 0
	c.played = 0
	c.duration = 0
	c.playing = autoplay && !p.IsEmpty()
	c.sendEventLocked(EventSequenceReplaced)

	zlog.Debug().Msgf("playback: sequence replaced: length=%d autoplay=%t", p.Len(), autoplay)

	if p.IsEmpty() {
		c.loadedLink = ""
		return c.callLocked("destroy", c.player.Destroy)
	}
	return c.loadLocked()
}

// Refresh swaps in a sequence carrying updated display fields. When the links
// are unchanged the position and play state are kept; otherwise it behaves
// like Replace without autoplay.
func (c *Controller) Refresh(p playlist.Playlist) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.sequence.SameLinks(p) {
		c.sequence = p
		c.sendEventLocked(EventSequenceUpdated)
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	return c.Replace(p, false)
}

// OnReady is called when the widget finished loading.
func (c *Controller) OnReady() {
	zlog.Debug().Msg("playback: widget ready")
}

// OnProgress records the played fraction reported by the widget.
func (c *Controller) OnProgress(fraction float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sequence.IsEmpty() {
		return
	}
	c.played = clamp(fraction)
	c.sendEventLocked(EventProgress)
}

// OnDuration records the track duration reported by the widget.
func (c *Controller) OnDuration(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sequence.IsEmpty() {
		return
	}
	if seconds < 0 {
		seconds = 0
	}
	c.duration = seconds
	c.sendEventLocked(EventProgress)
}

// OnPlayStateChanged follows play/pause changes made inside the widget.
func (c *Controller) OnPlayStateChanged(playing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sequence.IsEmpty() || c.playing == playing {
		return
	}
	c.playing = playing
	c.sendEventLocked(EventStateChanged)
}

// OnEnded is called when the widget reached the end of the media.
func (c *Controller) OnEnded() {
	if err := c.OnTrackEnded(); err != nil {
		zlog.Warn().Msgf("playback: failed to advance after track end: error=%v", err)
	}
}

// GetStatus returns a snapshot of the controller.
func (c *Controller) GetStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

// GetSequence returns the active sequence.
func (c *Controller) GetSequence() playlist.Playlist {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sequence
}

// Close stops event delivery.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	close(c.eventCh)
}

func (c *Controller) stateLocked() State {
	switch {
	case c.sequence.IsEmpty():
		return StateIdle
	case c.playing:
		return StatePlaying
	default:
		return StateReady
	}
}

func (c *Controller) statusLocked() Status {
	return Status{
		State:           c.stateLocked(),
		Index:           c.index,
		Length:          c.sequence.Len(),
		Track:           c.sequence.At(c.index),
		Playing:         c.playing,
		Volume:          c.volume,
		PlayedFraction:  c.played,
		DurationSeconds: c.duration,
		ElapsedSeconds:  c.played * c.duration,
		Shuffle:         c.shuffle,
		Repeat:          c.repeat,
	}
}

func (c *Controller) currentLinkLocked() string {
	return c.sequence.At(c.index).MediaLink
}

// loadLocked loads the current track into the player.
func (c *Controller) loadLocked() error {
	link := c.currentLinkLocked()
	if err := c.player.Load(link, c.playing); err != nil {
		c.loadedLink = ""
		zlog.Warn().Msgf("playback: failed to load track: link=%s error=%v", link, err)
		return errors.Wrap(err, "failed to load track")
	}
	c.loadedLink = link
	return nil
}

func (c *Controller) callLocked(op string, fn func() error) error {
	if err := fn(); err != nil {
		zlog.Warn().Msgf("playback: player command failed: op=%s error=%v", op, err)
		return errors.Wrapf(err, "failed to %s", op)
	}
	return nil
}

// sendEventLocked sends an event without blocking.
// Must be called with c.mu held.
func (c *Controller) sendEventLocked(t EventType) {
	if c.closed {
		return
	}
	select {
	case c.eventCh <- Event{Type: t, Status: c.statusLocked()}:
	case <-c.ctx.Done():
	default:
		zlog.Debug().Msgf("playback: event dropped: type=%s", t)
	}
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
