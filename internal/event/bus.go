package event

import (
	"sync"

	"go.uber.org/zap"
)

// Bus broadcasts controller events to every subscriber. Each subscriber has
// its own buffered channel; a subscriber that falls behind loses events
// rather than stalling the dispatch path.
type Bus struct {
	logger *zap.Logger

	mu       sync.RWMutex
	nextID   int
	subs     map[int]chan ControllerEvent
	capacity int
	closed   bool

	onDrop func()
}

// NewBus creates a Bus whose subscriber channels hold capacity events.
func NewBus(capacity int, logger *zap.Logger) *Bus {
	if capacity <= 0 {
		capacity = 100
	}
	return &Bus{
		logger:   logger,
		subs:     make(map[int]chan ControllerEvent),
		capacity: capacity,
	}
}

// OnDrop registers a callback invoked once per dropped event.
func (b *Bus) OnDrop(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onDrop = fn
}

// Subscribe registers a new listener. The returned cancel function removes
// the subscription and closes its channel; it is safe to call more than once.
func (b *Bus) Subscribe() (<-chan ControllerEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan ControllerEvent, b.capacity)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber without blocking. Events for full
// subscribers are dropped and counted.
func (b *Bus) Publish(ev ControllerEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			if b.onDrop != nil {
				b.onDrop()
			}
			b.logger.Debug("event dropped, subscriber channel full",
				zap.String("event", eventName(ev)),
			)
		}
	}
}

// Close removes all subscribers and closes their channels. Publish becomes
// a no-op afterwards.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

func eventName(ev ControllerEvent) string {
	switch ev.(type) {
	case Ping:
		return "ping"
	case AuthenticationOk:
		return "authentication_ok"
	case UserInfo:
		return "user_info"
	case RoomLoaded:
		return "room_loaded"
	case RoomModel:
		return "room_model"
	case RoomOpen:
		return "room_open"
	case RoomUserStatus:
		return "room_user_status"
	case RoomUsers:
		return "room_users"
	default:
		return "unknown"
	}
}
