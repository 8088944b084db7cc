package widget

import "sync"

// Action names of remote widget commands.
const (
	ActionLoad    = "load"
	ActionPlay    = "play"
	ActionPause   = "pause"
	ActionSeek    = "seek"
	ActionVolume  = "volume"
	ActionDestroy = "destroy"
)

// Command is an imperative command for a browser-side widget instance.
// The browser echoes Instance back with every event it reports.
type Command struct {
	Instance     uint64
	Action       string
	Kind         EmbedKind
	Link         string
	VideoID      string
	PlaylistID   string
	StartPlaying bool
	Fraction     float64
	Volume       float64
}

// Publisher delivers commands to the browser-side embed.
type Publisher interface {
	PublishCommand(cmd Command)
}

// RemoteFactory returns a factory of widgets that forward every command to
// the browser through pub. Their events arrive through Host.Dispatch.
func RemoteFactory(pub Publisher) Factory {
	return func(instance uint64, spec EmbedSpec, emit Emitter) (Widget, error) {
		return &remoteWidget{instance: instance, spec: spec, pub: pub}, nil
	}
}

type remoteWidget struct {
	mu        sync.Mutex
	instance  uint64
	spec      EmbedSpec
	pub       Publisher
	destroyed bool
}

func (w *remoteWidget) send(cmd Command) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return ErrDestroyed
	}
	cmd.Instance = w.instance
	if cmd.Action == ActionDestroy {
		w.destroyed = true
	}
	w.pub.PublishCommand(cmd)
	return nil
}

func (w *remoteWidget) LoadAndMaybePlay(link string, startPlaying bool) error {
	return w.send(Command{
		Action:       ActionLoad,
		Kind:         w.spec.Kind,
		Link:         link,
		VideoID:      w.spec.VideoID,
		PlaylistID:   w.spec.PlaylistID,
		StartPlaying: startPlaying,
	})
}

func (w *remoteWidget) Play() error {
	return w.send(Command{Action: ActionPlay})
}

func (w *remoteWidget) Pause() error {
	return w.send(Command{Action: ActionPause})
}

func (w *remoteWidget) SeekTo(fraction float64) error {
	return w.send(Command{Action: ActionSeek, Fraction: fraction})
}

func (w *remoteWidget) SetVolume(volume float64) error {
	return w.send(Command{Action: ActionVolume, Volume: volume})
}

func (w *remoteWidget) Destroy() error {
	w.mu.Lock()
	destroyed := w.destroyed
	w.mu.Unlock()
	if destroyed {
		return nil
	}
	return w.send(Command{Action: ActionDestroy})
}
