package widget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockWidget_PlaysToEnd(t *testing.T) {
	h := NewHost(ClockFactory(ClockConfig{
		TrackDuration: 60 * time.Millisecond,
		Interval:      10 * time.Millisecond,
	}))
	defer h.Close()
	l := &recordingListener{}
	h.SetListener(l)

	require.NoError(t, h.Load("https://www.youtube.com/watch?v=A", true))

	assert.Eventually(t, func() bool {
		events := l.Events()
		return len(events) > 0 && events[len(events)-1] == "ended"
	}, 2*time.Second, 10*time.Millisecond)

	events := l.Events()
	assert.Equal(t, []string{"ready", "duration", "play_state"}, events[:3])
	assert.Contains(t, events, "progress")
}

func TestClockWidget_PausedDoesNotAdvance(t *testing.T) {
	h := NewHost(ClockFactory(ClockConfig{
		TrackDuration: 30 * time.Millisecond,
		Interval:      5 * time.Millisecond,
	}))
	defer h.Close()
	l := &recordingListener{}
	h.SetListener(l)

	require.NoError(t, h.Load("https://www.youtube.com/watch?v=A", false))
	time.Sleep(80 * time.Millisecond)

	assert.NotContains(t, l.Events(), "ended")
	assert.NotContains(t, l.Events(), "play_state")
}

func TestClockWidget_DestroyedRejectsCommands(t *testing.T) {
	f := ClockFactory(ClockConfig{})
	h := NewHost(f)
	defer h.Close()
	w, err := f(1, SpecFor("https://www.youtube.com/watch?v=A"), &emitter{host: h, instance: 1})
	require.NoError(t, err)

	require.NoError(t, w.Destroy())
	assert.ErrorIs(t, w.Play(), ErrDestroyed)
	assert.ErrorIs(t, w.LoadAndMaybePlay("x", true), ErrDestroyed)
}

type recordingPublisher struct {
	commands []Command
}

func (p *recordingPublisher) PublishCommand(cmd Command) {
	p.commands = append(p.commands, cmd)
}

func TestRemoteWidget_ForwardsCommands(t *testing.T) {
	pub := &recordingPublisher{}
	h := NewHost(RemoteFactory(pub))
	defer h.Close()

	require.NoError(t, h.Load("https://www.youtube.com/watch?v=A", true))
	id := h.Instance()
	require.NoError(t, h.Pause())
	require.NoError(t, h.Load("https://www.youtube.com/watch?v=B", false))

	require.Len(t, pub.commands, 6)
	assert.Equal(t, ActionVolume, pub.commands[0].Action)
	assert.Equal(t, ActionLoad, pub.commands[1].Action)
	assert.Equal(t, "A", pub.commands[1].VideoID)
	assert.True(t, pub.commands[1].StartPlaying)
	assert.Equal(t, ActionPause, pub.commands[2].Action)
	assert.Equal(t, ActionDestroy, pub.commands[3].Action)
	assert.Equal(t, id, pub.commands[3].Instance)
	assert.Equal(t, ActionVolume, pub.commands[4].Action)
	assert.NotEqual(t, id, pub.commands[4].Instance)
	assert.Equal(t, ActionLoad, pub.commands[5].Action)
	assert.False(t, pub.commands[5].StartPlaying)
}
