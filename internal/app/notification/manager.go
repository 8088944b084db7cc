// Package notification provides the notification manager for broadcasting events.
package notification

import (
	"sync"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	playerv1 "github.com/osa030/harmony/internal/api/playerv1"
	"github.com/osa030/harmony/internal/app/widget"
)

// outboxSize bounds the notifications queued for one subscriber. A subscriber
// that falls further behind loses the overflow.
const outboxSize = 256

// Stream represents a notification stream for a subscriber.
type Stream interface {
	Send(*playerv1.Notification) error
}

// subscription represents a subscriber's subscription. Its stream is only
// written by the run goroutine, so sends never overlap and keep their order.
type subscription struct {
	id     string
	stream Stream
	outbox chan *playerv1.Notification
	quit   chan struct{}
	done   chan struct{}

	stopOnce sync.Once
}

func newSubscription(stream Stream) *subscription {
	return &subscription{
		id:     uuid.New().String(),
		stream: stream,
		outbox: make(chan *playerv1.Notification, outboxSize),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// run delivers initial, when set, followed by the queued notifications.
// Status notifications queued before initial are superseded by it and skipped.
func (s *subscription) run(initial *playerv1.Notification) {
	defer close(s.done)

	var since uint64
	if initial != nil {
		since = initial.SequenceNo
		s.send(initial)
	}

	for {
		select {
		case <-s.quit:
			return
		case n := <-s.outbox:
			if n.Type == playerv1.NotificationStatus && n.SequenceNo < since {
				continue
			}
			s.send(n)
		}
	}
}

func (s *subscription) stop() {
	s.stopOnce.Do(func() { close(s.quit) })
}

func (s *subscription) send(n *playerv1.Notification) {
	if err := s.stream.Send(n); err != nil {
		zlog.Debug().Msgf("notification: send failed: subscription=%s error=%v", s.id, err)
	}
}

// enqueue queues n without blocking. Must be called with Manager.mu held.
func (s *subscription) enqueue(n *playerv1.Notification) {
	select {
	case s.outbox <- n:
	default:
		zlog.Debug().Msgf("notification: outbox full, dropped: subscription=%s sequence=%d", s.id, n.SequenceNo)
	}
}

// Manager manages notification subscriptions and broadcasting.
type Manager struct {
	mu            sync.Mutex
	subscriptions map[string]*subscription
	sequenceNo    uint64
	closed        bool
}

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{
		subscriptions: make(map[string]*subscription),
	}
}

// Subscribe adds a new subscription and returns the subscription ID.
//
// Notifications broadcast from this point on are queued for the subscriber.
// When initial is not nil it is called once the subscription is registered and
// its result is delivered first, numbered after everything already queued.
func (m *Manager) Subscribe(stream Stream, initial func() *playerv1.Notification) string {
	sub := newSubscription(stream)

	m.mu.Lock()
	m.subscriptions[sub.id] = sub
	if m.closed {
		sub.stop()
	}
	m.mu.Unlock()

	var first *playerv1.Notification
	if initial != nil {
		first = initial()
	}
	if first != nil {
		m.mu.Lock()
		first.SequenceNo = m.nextSequenceNoLocked()
		m.mu.Unlock()
	}

	go sub.run(first)
	return sub.id
}

func (m *Manager) nextSequenceNoLocked() uint64 {
	m.sequenceNo++
	return m.sequenceNo
}

// Unsubscribe removes a subscription and waits for its delivery to stop.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	sub, ok := m.subscriptions[subscriptionID]
	if ok {
		delete(m.subscriptions, subscriptionID)
		sub.stop()
	}
	m.mu.Unlock()

	if ok {
		<-sub.done
	}
}

// Broadcast queues a notification for all subscribers. Numbering and queueing
// happen under one lock, so every subscriber sees broadcasts in sequence order.
func (m *Manager) Broadcast(notification *playerv1.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()

	notification.SequenceNo = m.nextSequenceNoLocked()
	if m.closed {
		return
	}
	for _, sub := range m.subscriptions {
		sub.enqueue(notification)
	}
}

// BroadcastStatus sends a status notification.
func (m *Manager) BroadcastStatus(status playerv1.Status) {
	m.Broadcast(&playerv1.Notification{
		Type:   playerv1.NotificationStatus,
		Status: &status,
	})
}

// PublishCommand forwards a command to the browser-side widget subscribers.
func (m *Manager) PublishCommand(cmd widget.Command) {
	m.Broadcast(&playerv1.Notification{
		Type: playerv1.NotificationWidgetCommand,
		Command: &playerv1.WidgetCommand{
			Instance:     cmd.Instance,
			Action:       cmd.Action,
			Kind:         cmd.Kind.String(),
			Link:         cmd.Link,
			VideoID:      cmd.VideoID,
			PlaylistID:   cmd.PlaylistID,
			StartPlaying: cmd.StartPlaying,
			Fraction:     cmd.Fraction,
			Volume:       cmd.Volume,
		},
	})
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscriptions)
}

// Close stops delivery to every subscriber. Subscribers stay registered until
// they unsubscribe, which waits for an in-flight send to finish.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	for _, sub := range m.subscriptions {
		sub.stop()
	}
}

var _ widget.Publisher = (*Manager)(nil)
