package ws

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryBroker_FanOutToAllSubscribers(t *testing.T) {
	b := NewMemoryBroker()

	var got1, got2 []OutboundFrame
	unsub1, err := b.Subscribe("dm_1", func(f OutboundFrame) { got1 = append(got1, f) })
	assert.NoError(t, err)
	defer unsub1()
	unsub2, err := b.Subscribe("dm_1", func(f OutboundFrame) { got2 = append(got2, f) })
	assert.NoError(t, err)
	defer unsub2()

	frame := OutboundFrame{Message: "hi", SenderID: "u1", SenderUsername: "alice"}
	assert.NoError(t, b.Publish(context.Background(), "dm_1", frame))

	assert.Equal(t, []OutboundFrame{frame}, got1)
	assert.Equal(t, []OutboundFrame{frame}, got2)
}

func TestMemoryBroker_PreservesPublishOrder(t *testing.T) {
	b := NewMemoryBroker()

	var got []string
	unsub, err := b.Subscribe("course_chat_7", func(f OutboundFrame) { got = append(got, f.Message) })
	assert.NoError(t, err)
	defer unsub()

	for _, msg := range []string{"first", "second", "third"} {
		assert.NoError(t, b.Publish(context.Background(), "course_chat_7", OutboundFrame{Message: msg}))
	}
	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestMemoryBroker_GroupsAreIsolated(t *testing.T) {
	b := NewMemoryBroker()

	var got []string
	unsub, _ := b.Subscribe("dm_1", func(f OutboundFrame) { got = append(got, f.Message) })
	defer unsub()

	b.Publish(context.Background(), "dm_2", OutboundFrame{Message: "other room"})
	assert.Empty(t, got)
}

func TestMemoryBroker_UnsubscribeIsIdempotent(t *testing.T) {
	b := NewMemoryBroker()

	var got []string
	unsub, _ := b.Subscribe("dm_1", func(f OutboundFrame) { got = append(got, f.Message) })

	unsub()
	unsub() // second call is harmless

	b.Publish(context.Background(), "dm_1", OutboundFrame{Message: "after"})
	assert.Empty(t, got)
}
