package playback

import (
	"fmt"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/harmony/internal/domain/playlist"
	"github.com/osa030/harmony/internal/domain/track"
)

type fakePlayer struct {
	mu      sync.Mutex
	calls   []string
	loads   []string
	volume  float64
	loadErr error
}

func (p *fakePlayer) record(call string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
}

func (p *fakePlayer) Load(link string, startPlaying bool) error {
	p.mu.Lock()
	p.loads = append(p.loads, link)
	err := p.loadErr
	p.mu.Unlock()
	p.record(fmt.Sprintf("load:%t", startPlaying))
	return err
}

func (p *fakePlayer) Play() error {
	p.record("play")
	return nil
}

func (p *fakePlayer) Pause() error {
	p.record("pause")
	return nil
}

func (p *fakePlayer) SeekTo(fraction float64) error {
	p.record(fmt.Sprintf("seek:%.2f", fraction))
	return nil
}

func (p *fakePlayer) SetVolume(volume float64) error {
	p.mu.Lock()
	p.volume = volume
	p.mu.Unlock()
	p.record("volume")
	return nil
}

func (p *fakePlayer) Destroy() error {
	p.record("destroy")
	return nil
}

func (p *fakePlayer) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *fakePlayer) lastLoad() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.loads) == 0 {
		return ""
	}
	return p.loads[len(p.loads)-1]
}

func (p *fakePlayer) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = nil
	p.loads = nil
}

func sequenceOf(n int) playlist.Playlist {
	tracks := make([]track.Track, 0, n)
	for i := 0; i < n; i++ {
		tracks = append(tracks, track.Pending(fmt.Sprintf("https://y/watch?v=T%d", i), track.OriginStatic))
	}
	return playlist.New(tracks)
}

func newTestController(t *testing.T, n int) (*Controller, *fakePlayer) {
	t.Helper()
	p := &fakePlayer{}
	c := NewController(p, Config{InitialVolume: 0.5, EventBuffer: 256})
	t.Cleanup(c.Close)
	if n > 0 {
		require.NoError(t, c.Replace(sequenceOf(n), false))
	}
	p.reset()
	return c, p
}

func TestController_EmptySequenceIsNoop(t *testing.T) {
	c, p := newTestController(t, 0)

	assert.Equal(t, StateIdle, c.GetStatus().State)
	assert.NoError(t, c.Play())
	assert.NoError(t, c.Next())
	assert.NoError(t, c.Previous())
	assert.NoError(t, c.Seek(0.5))
	assert.NoError(t, c.Select(3))
	assert.NoError(t, c.OnTrackEnded())
	c.OnProgress(0.4)

	assert.Equal(t, StateIdle, c.GetStatus().State)
	assert.Empty(t, p.Calls())
	assert.True(t, c.GetStatus().Track.IsEmpty())
	assert.Equal(t, 0.0, c.GetStatus().PlayedFraction)
}

func TestController_PlayPauseToggle(t *testing.T) {
	c, p := newTestController(t, 2)
	assert.Equal(t, StateReady, c.GetStatus().State)

	require.NoError(t, c.Play())
	assert.Equal(t, StatePlaying, c.GetStatus().State)
	require.NoError(t, c.Play())

	require.NoError(t, c.TogglePlayPause())
	assert.Equal(t, StateReady, c.GetStatus().State)
	require.NoError(t, c.TogglePlayPause())
	assert.Equal(t, StatePlaying, c.GetStatus().State)

	assert.Equal(t, []string{"play", "pause", "play"}, p.Calls())
}

func TestController_PlayReloadsAfterFailedLoad(t *testing.T) {
	p := &fakePlayer{loadErr: errors.New("embed refused")}
	c := NewController(p, Config{})
	defer c.Close()

	assert.Error(t, c.Replace(sequenceOf(1), false))

	p.mu.Lock()
	p.loadErr = nil
	p.mu.Unlock()
	p.reset()

	require.NoError(t, c.Play())
	assert.Equal(t, []string{"load:true"}, p.Calls())
}

func TestController_NextIsCyclic(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7} {
		t.Run(fmt.Sprintf("length=%d", n), func(t *testing.T) {
			c, _ := newTestController(t, n)
			for start := 0; start < n; start++ {
				require.NoError(t, c.Select(start))
				for i := 0; i < n; i++ {
					require.NoError(t, c.Next())
				}
				assert.Equal(t, start, c.GetStatus().Index)
			}
		})
	}
}

func TestController_PreviousInvertsNext(t *testing.T) {
	c, _ := newTestController(t, 5)
	for i := 0; i < 5; i++ {
		require.NoError(t, c.Select(i))
		require.NoError(t, c.Next())
		require.NoError(t, c.Previous())
		assert.Equal(t, i, c.GetStatus().Index)
	}
}

func TestController_NextPreviousWrap(t *testing.T) {
	c, p := newTestController(t, 3)

	require.NoError(t, c.Select(2))
	require.NoError(t, c.Previous())
	assert.Equal(t, 1, c.GetStatus().Index)

	require.NoError(t, c.Select(2))
	require.NoError(t, c.Next())
	status := c.GetStatus()
	assert.Equal(t, 0, status.Index)
	assert.Equal(t, StatePlaying, status.State)
	assert.Equal(t, "https://y/watch?v=T0", p.lastLoad())
}

func TestController_NextResetsProgress(t *testing.T) {
	c, _ := newTestController(t, 3)
	require.NoError(t, c.Play())
	c.OnDuration(200)
	c.OnProgress(0.6)
	assert.InDelta(t, 120, c.GetStatus().ElapsedSeconds, 1e-9)

	require.NoError(t, c.Next())
	status := c.GetStatus()
	assert.Equal(t, 0.0, status.PlayedFraction)
	assert.Equal(t, 0.0, status.ElapsedSeconds)
}

func TestController_ShuffleNeverRepeatsCurrent(t *testing.T) {
	c, _ := newTestController(t, 4)
	c.SetShuffle(true)

	for i := 0; i < 200; i++ {
		before := c.GetStatus().Index
		require.NoError(t, c.Next())
		assert.NotEqual(t, before, c.GetStatus().Index)
	}
}

func TestController_ShuffleRetriesUntilDifferent(t *testing.T) {
	draws := []int{0, 0, 0, 2}
	p := &fakePlayer{}
	c := NewController(p, Config{RandIntn: func(n int) int {
		v := draws[0]
		draws = draws[1:]
		return v
	}})
	defer c.Close()
	require.NoError(t, c.Replace(sequenceOf(3), false))
	c.SetShuffle(true)

	require.NoError(t, c.Next())
	assert.Equal(t, 2, c.GetStatus().Index)
	assert.Empty(t, draws)
}

func TestController_ShuffleSingleTrack(t *testing.T) {
	c, p := newTestController(t, 1)
	c.SetShuffle(true)

	require.NoError(t, c.Next())
	assert.Equal(t, 0, c.GetStatus().Index)
	assert.Equal(t, []string{"load:true"}, p.Calls())
}

func TestController_TrackEnded(t *testing.T) {
	t.Run("repeat restarts the same track", func(t *testing.T) {
		c, p := newTestController(t, 3)
		require.NoError(t, c.Select(1))
		c.SetRepeat(true)
		c.OnProgress(0.99)

		require.NoError(t, c.OnTrackEnded())

		status := c.GetStatus()
		assert.Equal(t, 1, status.Index)
		assert.Equal(t, 0.0, status.PlayedFraction)
		assert.Equal(t, StatePlaying, status.State)
		assert.Equal(t, "https://y/watch?v=T1", p.lastLoad())
	})

	t.Run("without repeat advances", func(t *testing.T) {
		c, _ := newTestController(t, 3)
		require.NoError(t, c.Select(2))

		c.OnEnded()

		assert.Equal(t, 0, c.GetStatus().Index)
	})
}

func TestController_Seek(t *testing.T) {
	c, p := newTestController(t, 2)

	require.NoError(t, c.Seek(0.25))
	assert.Equal(t, StateReady, c.GetStatus().State)
	require.NoError(t, c.Seek(3))

	assert.Equal(t, 1.0, c.GetStatus().PlayedFraction)
	assert.Equal(t, []string{"seek:0.25", "seek:1.00"}, p.Calls())
}

func TestController_SetVolume(t *testing.T) {
	tests := []struct {
		name     string
		volume   float64
		expected float64
	}{
		{name: "in range", volume: 0.3, expected: 0.3},
		{name: "below zero", volume: -1, expected: 0},
		{name: "above one", volume: 1.5, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, p := newTestController(t, 1)
			require.NoError(t, c.SetVolume(tt.volume))
			assert.Equal(t, tt.expected, c.GetStatus().Volume)
			assert.Equal(t, tt.expected, p.volume)
			assert.Equal(t, StateReady, c.GetStatus().State)
		})
	}
}

func TestController_PassiveUpdates(t *testing.T) {
	c, _ := newTestController(t, 2)

	c.OnDuration(-5)
	c.OnProgress(0.5)
	assert.Equal(t, StateReady, c.GetStatus().State)
	assert.Equal(t, 0.0, c.GetStatus().DurationSeconds)

	c.OnPlayStateChanged(true)
	assert.Equal(t, StatePlaying, c.GetStatus().State)
}

func TestController_Replace(t *testing.T) {
	t.Run("resets position without autoplay", func(t *testing.T) {
		c, p := newTestController(t, 3)
		require.NoError(t, c.Select(2))
		c.OnProgress(0.7)

		require.NoError(t, c.Replace(sequenceOf(2), false))

		status := c.GetStatus()
		assert.Equal(t, 0, status.Index)
		assert.Equal(t, 0.0, status.PlayedFraction)
		assert.False(t, status.Playing)
		assert.Equal(t, 2, status.Length)
		assert.Equal(t, "load:false", p.Calls()[len(p.Calls())-1])
	})

	t.Run("autoplay starts at first track", func(t *testing.T) {
		c, p := newTestController(t, 0)

		require.NoError(t, c.Replace(sequenceOf(2), true))

		status := c.GetStatus()
		assert.Equal(t, StatePlaying, status.State)
		assert.Equal(t, 0, status.Index)
		assert.Equal(t, []string{"load:true"}, p.Calls())
	})

	t.Run("empty sequence destroys the widget", func(t *testing.T) {
		c, p := newTestController(t, 2)
		require.NoError(t, c.Play())

		require.NoError(t, c.Replace(playlist.New(nil), true))

		assert.Equal(t, StateIdle, c.GetStatus().State)
		assert.Equal(t, []string{"play", "destroy"}, p.Calls())
	})
}

func TestController_RefreshKeepsPosition(t *testing.T) {
	c, p := newTestController(t, 3)
	require.NoError(t, c.Select(1))
	p.reset()

	tracks := sequenceOf(3).Tracks()
	tracks[1].DisplayName = "Enriched"
	require.NoError(t, c.Refresh(playlist.New(tracks)))

	status := c.GetStatus()
	assert.Equal(t, 1, status.Index)
	assert.True(t, status.Playing)
	assert.Equal(t, "Enriched", status.Track.DisplayName)
	assert.Empty(t, p.Calls())

	require.NoError(t, c.Refresh(sequenceOf(2)))
	assert.Equal(t, 0, c.GetStatus().Index)
	assert.False(t, c.GetStatus().Playing)
}

func TestController_SelectOutOfRange(t *testing.T) {
	c, _ := newTestController(t, 2)
	assert.ErrorIs(t, c.Select(2), ErrInvalidIndex)
	assert.ErrorIs(t, c.Select(-1), ErrInvalidIndex)
}

func TestController_Events(t *testing.T) {
	p := &fakePlayer{}
	c := NewController(p, Config{})

	require.NoError(t, c.Replace(sequenceOf(2), true))
	require.NoError(t, c.Next())
	c.Close()

	var types []EventType
	for e := range c.Events() {
		types = append(types, e.Type)
	}
	assert.Equal(t, []EventType{EventSequenceReplaced, EventTrackChanged}, types)
	assert.ErrorIs(t, c.Replace(sequenceOf(1), false), ErrClosed)
}
