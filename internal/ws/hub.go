package ws

import (
	"context"
	"log/slog"
	"sync"
)

// Hub tracks which local connections belong to which broadcast group
// and bridges them to the Broker. Group membership here is purely a
// delivery mechanism; authorization is decided against the database at
// connect time, never from hub state.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]*hubGroup
	broker Broker
	logger *slog.Logger
}

type hubGroup struct {
	clients     map[*Client]struct{}
	unsubscribe func()
}

func NewHub(broker Broker, logger *slog.Logger) *Hub {
	return &Hub{
		groups: make(map[string]*hubGroup),
		broker: broker,
		logger: logger,
	}
}

// Join registers a client in a group. The first local member of a group
// opens the broker subscription for it.
func (h *Hub) Join(group string, c *Client) error {
	h.mu.Lock()
	gr, ok := h.groups[group]
	if !ok {
		gr = &hubGroup{clients: make(map[*Client]struct{})}
		h.groups[group] = gr
	}
	gr.clients[c] = struct{}{}
	needsSub := gr.unsubscribe == nil
	h.mu.Unlock()

	if needsSub {
		unsub, err := h.broker.Subscribe(group, func(frame OutboundFrame) {
			h.deliver(group, frame)
		})
		if err != nil {
			h.Leave(group, c)
			return err
		}
		h.mu.Lock()
		if gr.unsubscribe == nil {
			gr.unsubscribe = unsub
		} else {
			// Lost the race with another joiner; drop the extra subscription.
			defer unsub()
		}
		h.mu.Unlock()
	}

	h.logger.Debug("client joined group", "group", group, "user", c.userID)
	return nil
}

// Leave removes a client from a group. Idempotent: leaving a group the
// client never joined, or leaving twice, is a no-op. The last member out
// closes the broker subscription.
func (h *Hub) Leave(group string, c *Client) {
	h.mu.Lock()
	gr, ok := h.groups[group]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, exists := gr.clients[c]; !exists {
		h.mu.Unlock()
		return
	}
	delete(gr.clients, c)
	var unsub func()
	if len(gr.clients) == 0 {
		unsub = gr.unsubscribe
		delete(h.groups, group)
	}
	h.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	h.logger.Debug("client left group", "group", group, "user", c.userID)
}

// Broadcast publishes a frame to every member of the group, across all
// processes. Local delivery happens via the broker subscription, so the
// sender receives their own message through the same path as everyone else.
func (h *Hub) Broadcast(ctx context.Context, group string, frame OutboundFrame) error {
	return h.broker.Publish(ctx, group, frame)
}

// Shutdown closes every connection and drops all group state.
func (h *Hub) Shutdown() {
	// Collect under the lock, do NOT perform I/O under mutex.
	h.mu.Lock()
	var clients []*Client
	var unsubs []func()
	for _, gr := range h.groups {
		for c := range gr.clients {
			clients = append(clients, c)
		}
		if gr.unsubscribe != nil {
			unsubs = append(unsubs, gr.unsubscribe)
		}
	}
	h.groups = make(map[string]*hubGroup)
	h.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	for _, c := range clients {
		c.Close()
	}
	for _, c := range clients {
		c.Wait()
	}
}

// deliver fans a frame out to the local members of a group.
func (h *Hub) deliver(group string, frame OutboundFrame) {
	h.mu.RLock()
	gr, ok := h.groups[group]
	if !ok {
		h.mu.RUnlock()
		return
	}
	targets := make([]*Client, 0, len(gr.clients))
	for c := range gr.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- frame:
		case <-c.done:
		default:
			// Backpressure: send buffer full, close slow client.
			h.logger.Warn("send buffer full, closing slow client", "group", group, "user", c.userID)
			c.Close()
		}
	}
}
