package ws

import (
	"context"
	"sync"
)

// Broker is the pub/sub fan-out primitive behind room broadcast groups.
// Publish order must be preserved per group for each subscriber; no
// ordering is defined across groups. Injected so tests can swap the
// Redis implementation for the in-memory one.
type Broker interface {
	Publish(ctx context.Context, group string, frame OutboundFrame) error
	// Subscribe registers a handler for a group and returns an
	// unsubscribe func. Unsubscribing twice is harmless.
	Subscribe(group string, handler func(OutboundFrame)) (func(), error)
}

// MemoryBroker is a process-local Broker for tests and single-node
// deployments. Handlers run synchronously in the publisher's goroutine,
// which trivially preserves per-group publish order.
type MemoryBroker struct {
	mu     sync.RWMutex
	nextID int64
	groups map[string]map[int64]func(OutboundFrame)
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		groups: make(map[string]map[int64]func(OutboundFrame)),
	}
}

func (b *MemoryBroker) Publish(ctx context.Context, group string, frame OutboundFrame) error {
	b.mu.RLock()
	handlers := make([]func(OutboundFrame), 0, len(b.groups[group]))
	for _, h := range b.groups[group] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(frame)
	}
	return nil
}

func (b *MemoryBroker) Subscribe(group string, handler func(OutboundFrame)) (func(), error) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	if b.groups[group] == nil {
		b.groups[group] = make(map[int64]func(OutboundFrame))
	}
	b.groups[group][id] = handler
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.groups[group], id)
			if len(b.groups[group]) == 0 {
				delete(b.groups, group)
			}
			b.mu.Unlock()
		})
	}
	return unsubscribe, nil
}
