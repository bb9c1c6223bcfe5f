package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "chat:"

// RedisBroker fans frames out through Redis pub/sub so that every
// process serving WebSocket connections sees every room's traffic.
// Redis delivers messages on one channel in publish order, which gives
// the per-group ordering guarantee the chat protocol needs.
type RedisBroker struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisBroker(client *redis.Client, logger *slog.Logger) *RedisBroker {
	return &RedisBroker{client: client, logger: logger}
}

func (b *RedisBroker) Publish(ctx context.Context, group string, frame OutboundFrame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, channelPrefix+group, payload).Err()
}

func (b *RedisBroker) Subscribe(group string, handler func(OutboundFrame)) (func(), error) {
	pubsub := b.client.Subscribe(context.Background(), channelPrefix+group)
	// Force the subscription to be established before returning, so a
	// frame published right after Subscribe is not lost.
	if _, err := pubsub.Receive(context.Background()); err != nil {
		pubsub.Close()
		return nil, err
	}

	go func() {
		for msg := range pubsub.Channel() {
			var frame OutboundFrame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				b.logger.Error("broker: bad frame payload", "group", group, "error", err)
				continue
			}
			handler(frame)
		}
	}()

	unsubscribe := func() {
		if err := pubsub.Close(); err != nil {
			b.logger.Error("broker: unsubscribe failed", "group", group, "error", err)
		}
	}
	return unsubscribe, nil
}
