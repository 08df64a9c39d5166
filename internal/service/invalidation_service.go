package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alifhakimiazwan/RateMyCitra/pkg/jobs"
)

const invalidationJobType = "cache.invalidate"

type patternInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// InvalidationService clears cached subject listings in the background after
// writes. Requests scheduled while one is still queued are merged.
type InvalidationService struct {
	cache  patternInvalidator
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewInvalidationService builds the service and its worker queue.
func NewInvalidationService(cache patternInvalidator, logger *zap.Logger, cfg jobs.QueueConfig) *InvalidationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	s := &InvalidationService{cache: cache, logger: logger}
	s.queue = jobs.NewQueue("cache-invalidation", s.handle, cfg)
	return s
}

// Start launches the workers.
func (s *InvalidationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop waits for the workers to exit.
func (s *InvalidationService) Stop() {
	s.queue.Stop()
}

// ScheduleInvalidation queues removal of every cached subject listing.
func (s *InvalidationService) ScheduleInvalidation(reason string) {
	if s == nil || s.cache == nil {
		return
	}
	coalesced, err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    invalidationJobType,
		Key:     CitraCachePattern,
		Payload: reason,
	})
	if err != nil {
		s.logger.Warn("schedule cache invalidation", zap.String("reason", reason), zap.Error(err))
		return
	}
	if coalesced {
		s.logger.Debug("cache invalidation already pending", zap.String("reason", reason))
	}
}

func (s *InvalidationService) handle(ctx context.Context, job jobs.Job) error {
	if job.Type != invalidationJobType {
		return fmt.Errorf("unexpected job type %s", job.Type)
	}
	if err := s.cache.Invalidate(ctx, job.Key); err != nil {
		return fmt.Errorf("invalidate %s: %w", job.Key, err)
	}
	s.logger.Debug("cache invalidated", zap.String("pattern", job.Key), zap.Any("reason", job.Payload))
	return nil
}
