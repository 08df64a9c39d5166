package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alifhakimiazwan/RateMyCitra/pkg/jobs"
)

type countingInvalidator struct {
	mu       sync.Mutex
	patterns []string
	done     chan struct{}
}

func (c *countingInvalidator) Invalidate(_ context.Context, pattern string) error {
	c.mu.Lock()
	c.patterns = append(c.patterns, pattern)
	c.mu.Unlock()
	c.done <- struct{}{}
	return nil
}

func TestInvalidationServiceClearsListings(t *testing.T) {
	cache := &countingInvalidator{done: make(chan struct{}, 4)}
	svc := NewInvalidationService(cache, zap.NewNop(), jobs.QueueConfig{Workers: 1, RetryDelay: 10 * time.Millisecond})
	svc.Start(context.Background())
	defer svc.Stop()

	svc.ScheduleInvalidation("rating submitted")

	select {
	case <-cache.done:
	case <-time.After(2 * time.Second):
		t.Fatal("invalidation did not run")
	}
	cache.mu.Lock()
	defer cache.mu.Unlock()
	require.Len(t, cache.patterns, 1)
	assert.Equal(t, CitraCachePattern, cache.patterns[0])
}

func TestCacheServiceInvalidateCountsKeys(t *testing.T) {
	repo := &stubCacheRepo{}
	cache := NewCacheService(repo, NewMetricsService(), time.Minute, zap.NewNop(), true)
	require.NoError(t, cache.Set(context.Background(), "citra:list:none:::", []string{"x"}, 0))

	require.NoError(t, cache.Invalidate(context.Background(), CitraCachePattern))
	assert.Equal(t, []string{CitraCachePattern}, repo.deleted)

	var dest []string
	hit, err := cache.Get(context.Background(), "citra:list:none:::", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	repo := &stubCacheRepo{}
	cache := NewCacheService(repo, nil, time.Minute, nil, false)
	require.NoError(t, cache.Set(context.Background(), "k", 1, 0))
	assert.Nil(t, repo.store)
}
