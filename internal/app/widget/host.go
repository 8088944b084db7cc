package widget

import (
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// ErrClosed is returned by commands issued after Close.
var ErrClosed = errors.New("widget host closed")

// Host owns the single live widget instance.
type Host struct {
	factory Factory

	mu       sync.Mutex
	current  Widget
	instance uint64 // id of the live instance, 0 when none
	nextID   uint64
	link     string
	volume   float64
	closed   bool

	listenerMu sync.RWMutex
	listener   Listener

	queue *eventQueue
}

// NewHost creates a host and starts its event pump.
func NewHost(factory Factory) *Host {
	h := &Host{
		factory: factory,
		volume:  1,
		queue:   newEventQueue(),
	}
	go h.pump()
	return h
}

// SetListener sets the receiver of widget events.
func (h *Host) SetListener(l Listener) {
	h.listenerMu.Lock()
	defer h.listenerMu.Unlock()
	h.listener = l
}

// Load shows link in the widget. A different link destroys the live instance
// and creates a new one; the same link restarts it from the beginning.
func (h *Host) Load(link string, startPlaying bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}

	if h.current != nil && h.link == link {
		if err := h.current.SeekTo(0); err != nil {
			return errors.Wrap(err, "failed to restart widget")
		}
		if startPlaying {
			return h.current.Play()
		}
		return h.current.Pause()
	}

	h.destroyLocked()

	h.nextID++
	id := h.nextID
	spec := SpecFor(link)

	w, err := h.factory(id, spec, &emitter{host: h, instance: id})
	if err != nil {
		return errors.Wrapf(err, "failed to create widget: kind=%s", spec.Kind)
	}
	h.current = w
	h.instance = id
	h.link = link

	loaded := false
	defer func() {
		if !loaded {
			h.destroyLocked()
		}
	}()

	if err := w.SetVolume(h.volume); err != nil {
		return errors.Wrap(err, "failed to set widget volume")
	}
	if err := w.LoadAndMaybePlay(link, startPlaying); err != nil {
		return errors.Wrap(err, "failed to load widget")
	}
	loaded = true

	zlog.Debug().Msgf("widget: instance created: instance=%d kind=%s link=%s", id, spec.Kind, link)
	return nil
}

// Play resumes the live instance. No-op without one.
func (h *Host) Play() error {
	return h.withCurrent(func(w Widget) error { return w.Play() })
}

// Pause pauses the live instance. No-op without one.
func (h *Host) Pause() error {
	return h.withCurrent(func(w Widget) error { return w.Pause() })
}

// SeekTo seeks the live instance. No-op without one.
func (h *Host) SeekTo(fraction float64) error {
	return h.withCurrent(func(w Widget) error { return w.SeekTo(fraction) })
}

// SetVolume sets the volume of the live instance and of every later instance.
func (h *Host) SetVolume(volume float64) error {
	h.mu.Lock()
	h.volume = volume
	h.mu.Unlock()
	return h.withCurrent(func(w Widget) error { return w.SetVolume(volume) })
}

// Destroy tears down the live instance, if any.
func (h *Host) Destroy() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyLocked()
	return nil
}

// Instance returns the id of the live instance, 0 when none.
func (h *Host) Instance() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.instance
}

// Link returns the link shown by the live instance.
func (h *Host) Link() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.link
}

// Dispatch queues an event reported for instance. Events of instances that
// are no longer live are dropped at delivery.
func (h *Host) Dispatch(e Event) {
	h.queue.push(e)
}

// Close destroys the live instance and stops the event pump.
func (h *Host) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.destroyLocked()
	h.mu.Unlock()

	h.queue.close()
}

func (h *Host) withCurrent(fn func(Widget) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return nil
	}
	return fn(h.current)
}

// destroyLocked must be called with h.mu held.
func (h *Host) destroyLocked() {
	if h.current == nil {
		return
	}
	if err := h.current.Destroy(); err != nil {
		zlog.Warn().Msgf("widget: destroy failed: instance=%d error=%v", h.instance, err)
	}
	zlog.Debug().Msgf("widget: instance destroyed: instance=%d", h.instance)
	h.current = nil
	h.instance = 0
	h.link = ""
}

func (h *Host) isLive(instance uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return instance != 0 && instance == h.instance
}

func (h *Host) pump() {
	for {
		events, ok := h.queue.next()
		if !ok {
			return
		}
		for _, e := range events {
			if !h.isLive(e.Instance) {
				zlog.Debug().Msgf("widget: dropped stale event: instance=%d kind=%s", e.Instance, e.Kind)
				continue
			}
			h.listenerMu.RLock()
			l := h.listener
			h.listenerMu.RUnlock()
			if l != nil {
				e.deliver(l)
			}
		}
	}
}

// emitter tags events with the instance that emits them.
type emitter struct {
	host     *Host
	instance uint64
}

func (e *emitter) Ready() {
	e.host.Dispatch(Event{Instance: e.instance, Kind: EventReady})
}

func (e *emitter) Progress(fraction float64) {
	e.host.Dispatch(Event{Instance: e.instance, Kind: EventProgress, Fraction: fraction})
}

func (e *emitter) Duration(seconds float64) {
	e.host.Dispatch(Event{Instance: e.instance, Kind: EventDuration, Seconds: seconds})
}

func (e *emitter) PlayState(playing bool) {
	e.host.Dispatch(Event{Instance: e.instance, Kind: EventPlayState, Playing: playing})
}

func (e *emitter) Ended() {
	e.host.Dispatch(Event{Instance: e.instance, Kind: EventEnded})
}

// eventQueue is an unbounded FIFO so that emitting never blocks a command.
type eventQueue struct {
	mu     sync.Mutex
	items  []Event
	signal chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newEventQueue() *eventQueue {
	return &eventQueue{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (q *eventQueue) push(e Event) {
	q.mu.Lock()
	q.items = append(q.items, e)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// next blocks until events are available or the queue is closed.
func (q *eventQueue) next() ([]Event, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			items := q.items
			q.items = nil
			q.mu.Unlock()
			return items, true
		}
		q.mu.Unlock()

		select {
		case <-q.signal:
		case <-q.done:
			return nil, false
		}
	}
}

func (q *eventQueue) close() {
	q.once.Do(func() { close(q.done) })
}
