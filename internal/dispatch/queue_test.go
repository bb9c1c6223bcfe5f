package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEagerQueue_RunsInlineAndPropagatesError(t *testing.T) {
	q := NewEagerQueue()

	ran := false
	err := q.Enqueue(context.Background(), "job", func(ctx context.Context) error {
		ran = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, ran)

	boom := errors.New("boom")
	err = q.Enqueue(context.Background(), "job", func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestWorkerQueue_DrainsBacklogOnShutdown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	q := NewWorkerQueue(2, logger)
	q.Start()

	var done atomic.Int32
	for i := 0; i < 20; i++ {
		err := q.Enqueue(context.Background(), "count", func(ctx context.Context) error {
			done.Add(1)
			return nil
		})
		assert.NoError(t, err)
	}

	q.Shutdown()
	assert.Equal(t, int32(20), done.Load())
}

func TestWorkerQueue_RejectsAfterShutdown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	q := NewWorkerQueue(1, logger)
	q.Start()
	q.Shutdown()

	err := q.Enqueue(context.Background(), "late", func(ctx context.Context) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestWorkerQueue_ConcurrentEnqueueDuringShutdown(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Enqueuers racing Shutdown must be rejected cleanly, never panic.
	for i := 0; i < 25; i++ {
		q := NewWorkerQueue(2, logger)
		q.Start()

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					err := q.Enqueue(context.Background(), "spam", func(ctx context.Context) error {
						return nil
					})
					if err != nil {
						assert.ErrorIs(t, err, ErrQueueClosed)
						return
					}
				}
			}()
		}

		q.Shutdown()
		wg.Wait()
	}
}
