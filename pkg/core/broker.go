package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

const defaultEventBuffer = 100

// broker fans events out to watchers. Each watcher owns a buffered
// channel so a slow reader never blocks a dispatch. When a watcher's
// buffer is full the event is dropped for that watcher and counted.
type broker struct {
	mu      sync.Mutex
	subs    map[uint64]*subscription
	nextID  uint64
	buffer  int
	dropped uint64
	logger  *slog.Logger
}

type subscription struct {
	pattern string
	ch      chan Event
}

func newBroker(buffer int, logger *slog.Logger) *broker {
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	return &broker{
		subs:   make(map[uint64]*subscription),
		buffer: buffer,
		logger: logger,
	}
}

// subscribe registers a watcher for events whose kind matches pattern.
// The channel is closed once ctx is done.
func (b *broker) subscribe(ctx context.Context, pattern string) (<-chan Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	sub := &subscription{pattern: pattern, ch: make(chan Event, b.buffer)}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.unsubscribe(id)
	}()

	return sub.ch, nil
}

func (b *broker) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(sub.ch)
	}
}

func (b *broker) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		if ok, _ := doublestar.Match(sub.pattern, string(e.Kind)); !ok {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			b.dropped++
			b.logger.Warn("event dropped, watcher buffer full", "kind", e.Kind, "id", e.ID, "buffer", b.buffer)
		}
	}
}

func (b *broker) stats() (watchers int, dropped uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs), b.dropped
}
