package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{})
	_, err := q.Enqueue(Job{ID: "1"})
	require.Error(t, err)
}

func TestQueueCoalescesPendingKeys(t *testing.T) {
	block := make(chan struct{})
	var handled int32
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		<-block
		atomic.AddInt32(&handled, 1)
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 8})
	q.Start(context.Background())
	defer q.Stop()

	// first job is picked up by the worker and blocks it
	_, err := q.Enqueue(Job{ID: "busy"})
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	coalesced, err := q.Enqueue(Job{ID: "a", Key: "citra"})
	require.NoError(t, err)
	assert.False(t, coalesced)

	coalesced, err = q.Enqueue(Job{ID: "b", Key: "citra"})
	require.NoError(t, err)
	assert.True(t, coalesced)

	close(block)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&handled) == 2 }, time.Second, 5*time.Millisecond)
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var attempts int32
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("boom")
		}
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 3, RetryDelay: time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue(Job{ID: "retry", Key: "k"})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&attempts) == 3 }, time.Second, 5*time.Millisecond)
}
