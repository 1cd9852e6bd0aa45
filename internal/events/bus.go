package events

import (
	"sync"
	"sync/atomic"
	"time"
)

// Bus fans events out to named subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the event and the drop is counted.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
	dropped     atomic.Uint64
	now         func() time.Time
}

func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string]chan Event),
		now:         time.Now,
	}
}

// Subscribe creates the channel for name. An existing subscription under the
// same name is closed and replaced.
func (b *Bus) Subscribe(name string, buffer int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[name]; ok {
		close(old)
	}
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	b.subscribers[name] = ch
	return ch
}

// Unsubscribe closes and removes the subscription for name.
func (b *Bus) Unsubscribe(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[name]; ok {
		close(ch)
		delete(b.subscribers, name)
	}
}

// Publish delivers ev to every subscriber that has room.
func (b *Bus) Publish(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = b.now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
			b.dropped.Add(1)
		}
	}
}

// Dropped returns how many deliveries were skipped on full buffers.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close unsubscribes everyone.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for name, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, name)
	}
}
