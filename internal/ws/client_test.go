package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

// ingestRecorder collects the texts the read pump hands to the ingest func.
type ingestRecorder struct {
	mu    sync.Mutex
	texts []string
}

func (r *ingestRecorder) record(text string) {
	r.mu.Lock()
	r.texts = append(r.texts, text)
	r.mu.Unlock()
}

func (r *ingestRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}

func TestReadPump_DiscardsBlankMessages(t *testing.T) {
	hub := NewHub(NewMemoryBroker(), testLogger())
	rec := &ingestRecorder{}
	group := DirectGroup(1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		ingest := func(ctx context.Context, text string) {
			rec.record(text)
			_ = hub.Broadcast(ctx, group, NewOutboundFrame(text, "user-1", "alice", time.Now()))
		}
		client := NewClient(hub, conn, "user-1", "alice", group, ingest, testLogger())
		if err := hub.Join(group, client); err != nil {
			t.Errorf("join: %v", err)
			conn.Close()
			return
		}
		ctx, cancel := context.WithCancel(context.Background())
		client.Start(ctx, cancel)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// None of these may persist or broadcast anything.
	dropped := []string{
		`{"message":""}`,
		`{"message":"   "}`,
		`{"message":"\n\t "}`,
		`not json`,
	}
	for _, payload := range dropped {
		assert.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(payload)))
	}
	assert.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"message":"hello"}`)))

	// Frames are handled in order, so the first broadcast that comes back
	// proves the blank ones produced nothing before it.
	assert.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var frame OutboundFrame
	assert.NoError(t, json.Unmarshal(raw, &frame))
	assert.Equal(t, "hello", frame.Message)
	assert.Equal(t, "user-1", frame.SenderID)
	assert.Equal(t, []string{"hello"}, rec.snapshot())
}
