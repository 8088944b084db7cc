package widget

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrDestroyed is returned by commands sent to a destroyed instance.
var ErrDestroyed = errors.New("widget destroyed")

// ClockConfig holds configuration of the simulated widget.
type ClockConfig struct {
	TrackDuration time.Duration // Simulated length of every track
	Interval      time.Duration // Progress report interval
}

// ClockFactory returns a factory of headless widgets whose playback is driven
// by the wall clock instead of a real media element.
func ClockFactory(cfg ClockConfig) Factory {
	if cfg.TrackDuration <= 0 {
		cfg.TrackDuration = 3 * time.Minute
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 500 * time.Millisecond
	}
	return func(instance uint64, spec EmbedSpec, emit Emitter) (Widget, error) {
		return &clockWidget{config: cfg, emit: emit}, nil
	}
}

type clockWidget struct {
	mu        sync.Mutex
	config    ClockConfig
	emit      Emitter
	playing   bool
	position  time.Duration
	lastTick  time.Time
	volume    float64
	destroyed bool
	cancel    context.CancelFunc
}

func (w *clockWidget) LoadAndMaybePlay(link string, startPlaying bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrDestroyed
	}

	w.position = 0
	w.emit.Ready()
	w.emit.Duration(w.config.TrackDuration.Seconds())
	if startPlaying {
		w.playLocked()
	}
	return nil
}

func (w *clockWidget) Play() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrDestroyed
	}
	w.playLocked()
	return nil
}

func (w *clockWidget) playLocked() {
	if w.playing {
		return
	}
	w.playing = true
	w.lastTick = toWallTime(time.Now())
	w.emit.PlayState(true)

	if w.cancel == nil {
		ctx, cancel := context.WithCancel(context.Background())
		w.cancel = cancel
		go w.run(ctx)
	}
}

func (w *clockWidget) Pause() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrDestroyed
	}
	if !w.playing {
		return nil
	}
	w.advanceLocked()
	w.playing = false
	w.emit.PlayState(false)
	return nil
}

func (w *clockWidget) SeekTo(fraction float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrDestroyed
	}
	w.position = time.Duration(fraction * float64(w.config.TrackDuration))
	w.lastTick = toWallTime(time.Now())
	w.emit.Progress(fraction)
	return nil
}

func (w *clockWidget) SetVolume(volume float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrDestroyed
	}
	w.volume = volume
	return nil
}

func (w *clockWidget) Destroy() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.playing = false
	w.destroyed = true
	return nil
}

// run reports progress every interval until the track ends or the widget is destroyed.
func (w *clockWidget) run(ctx context.Context) {
	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.mu.Lock()
			if w.playing {
				w.advanceLocked()
				if w.position >= w.config.TrackDuration {
					w.position = w.config.TrackDuration
					w.playing = false
					w.emit.Progress(1)
					w.emit.Ended()
				} else {
					w.emit.Progress(float64(w.position) / float64(w.config.TrackDuration))
				}
			}
			w.mu.Unlock()
		}
	}
}

// advanceLocked adds the wall-clock time elapsed since the last tick.
func (w *clockWidget) advanceLocked() {
	now := toWallTime(time.Now())
	w.position += now.Sub(w.lastTick)
	w.lastTick = now
}

// toWallTime returns the time with monotonic clock stripped.
func toWallTime(t time.Time) time.Time {
	return time.Unix(t.Unix(), int64(t.Nanosecond()))
}
