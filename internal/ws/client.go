package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const ( // ping pong (2-way heartbeat) to keep connection alive
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufSize    = 256
)

// IngestFunc persists a non-empty inbound message and broadcasts it.
// The connection handler builds one per connection, closed over the
// room identity resolved during authorization.
type IngestFunc func(ctx context.Context, text string)

// Client is a single authorized WebSocket connection bound to one
// broadcast group.
// Lifecycle: NewClient -> Start(ctx, cancel) -> [readPump, writePump] -> Close -> Wait.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan OutboundFrame
	userID   string
	username string
	group    string
	ingest   IngestFunc
	logger   *slog.Logger

	// done is the non-blocking guard used by Hub.deliver.
	done   chan struct{}
	cancel context.CancelFunc
	once   sync.Once
	wg     sync.WaitGroup
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, username, group string, ingest IngestFunc, logger *slog.Logger) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan OutboundFrame, sendBufSize),
		userID:   userID,
		username: username,
		group:    group,
		ingest:   ingest,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start launches the read and write pumps with controlled lifecycle.
func (c *Client) Start(ctx context.Context, cancel context.CancelFunc) {
	c.cancel = cancel
	c.wg.Add(2)
	go c.writePump(ctx)
	go c.readPump(ctx)
}

// Wait blocks until both pump goroutines have exited.
func (c *Client) Wait() {
	c.wg.Wait()
}

// Close signals the client to stop. Safe to call multiple times from any goroutine.
func (c *Client) Close() {
	c.once.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
		close(c.done)
		// Force both pumps to unblock (ReadMessage / WriteMessage will error).
		c.conn.Close()
	})
}

// readPump reads inbound frames. Empty or whitespace-only messages are
// silently discarded: no persistence, no broadcast, no error frame.
// Exits on read error, which also deregisters the client from its group.
func (c *Client) readPump(ctx context.Context) {
	defer c.wg.Done()
	defer func() {
		c.hub.Leave(c.group, c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("ws set read deadline", "user", c.userID, "error", err)
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("ws read", "user", c.userID, "error", err)
			}
			return
		}

		var frame InboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			// Malformed payloads are dropped, not answered.
			c.logger.Debug("ws malformed frame", "user", c.userID, "error", err)
			continue
		}

		text := strings.TrimSpace(frame.Message)
		if text == "" {
			continue
		}
		c.ingest(ctx, text)
	}
}

// writePump writes outbound frames and keeps the heartbeat going.
func (c *Client) writePump(ctx context.Context) {
	defer c.wg.Done()
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		case frame := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			data, err := json.Marshal(frame)
			if err != nil {
				c.logger.Error("ws marshal frame", "user", c.userID, "error", err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
