package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alifhakimiazwan/RateMyCitra/internal/aggregate"
	"github.com/alifhakimiazwan/RateMyCitra/internal/dto"
	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
	"github.com/alifhakimiazwan/RateMyCitra/internal/repository"
	appErrors "github.com/alifhakimiazwan/RateMyCitra/pkg/errors"
)

// CitraCachePattern matches every cached subject listing.
const CitraCachePattern = "citra:*"

const (
	defaultReviewLimit = 10
	maxReviewLimit     = 50
)

type citraRepository interface {
	ListWithSamples(ctx context.Context, filter models.CitraFilter) ([]models.CitraWithSamples, error)
	List(ctx context.Context, filter models.CitraFilter) ([]models.Citra, error)
	SamplesByCitra(ctx context.Context, citraID string) ([]models.RatingSample, error)
	FindByID(ctx context.Context, id string) (*models.Citra, error)
	FindByCode(ctx context.Context, code string) (*models.Citra, error)
	BulkCreate(ctx context.Context, citras []models.Citra) error
}

type citraReviewRepository interface {
	LatestByCitra(ctx context.Context, citraID string, limit int) ([]models.Rating, error)
}

// CitraInvalidator schedules removal of cached subject listings.
type CitraInvalidator interface {
	ScheduleInvalidation(reason string)
}

// CitraService serves subjects decorated with rating statistics.
type CitraService struct {
	repo        citraRepository
	reviews     citraReviewRepository
	cache       *CacheService
	invalidator CitraInvalidator
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	cacheTTL    time.Duration
}

// CitraServiceConfig bundles optional collaborators of CitraService.
type CitraServiceConfig struct {
	Cache       *CacheService
	CacheTTL    time.Duration
	Invalidator CitraInvalidator
	Metrics     *MetricsService
	Validator   *validator.Validate
	Logger      *zap.Logger
}

// NewCitraService constructs the service.
func NewCitraService(repo citraRepository, reviews citraReviewRepository, cfg CitraServiceConfig) *CitraService {
	if cfg.Validator == nil {
		cfg.Validator = validator.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &CitraService{
		repo:        repo,
		reviews:     reviews,
		cache:       cfg.Cache,
		invalidator: cfg.Invalidator,
		metrics:     cfg.Metrics,
		validator:   cfg.Validator,
		logger:      cfg.Logger,
		cacheTTL:    cfg.CacheTTL,
	}
}

// List returns every matching subject with statistics using a single joined
// query. The boolean reports whether the result came from cache.
func (s *CitraService) List(ctx context.Context, filter models.CitraFilter) ([]models.CitraSummary, bool, error) {
	if !filter.Sort.Valid() {
		return nil, false, invalidSort(filter.Sort)
	}

	cacheKey := citraCacheKey(filter)
	var cached []models.CitraSummary
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached, true, nil
	}

	start := time.Now()
	rows, err := s.repo.ListWithSamples(ctx, filter)
	if err != nil {
		s.logger.Error("list citras", zap.Error(err))
		return nil, false, appErrors.Internal(err, "failed to list citras")
	}
	s.metrics.ObserveDBQuery("citra_list_joined", time.Since(start))

	items := make([]models.CitraSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, aggregate.Decorate(row.Citra, row.Samples))
	}
	aggregate.Sort(items, filter.Sort)

	if err := s.cache.Set(ctx, cacheKey, items, s.cacheTTL); err != nil {
		s.logger.Warn("cache citra list", zap.Error(err))
	}
	return items, false, nil
}

// ListPerSubject returns the same result as List, loading each subject's
// ratings with its own query.
func (s *CitraService) ListPerSubject(ctx context.Context, filter models.CitraFilter) ([]models.CitraSummary, error) {
	if !filter.Sort.Valid() {
		return nil, invalidSort(filter.Sort)
	}

	start := time.Now()
	citras, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("list citras", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to list citras")
	}
	s.metrics.ObserveDBQuery("citra_list", time.Since(start))

	items := make([]models.CitraSummary, 0, len(citras))
	for _, citra := range citras {
		samples, err := s.samples(ctx, citra.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, aggregate.Decorate(citra, samples))
	}
	aggregate.Sort(items, filter.Sort)
	return items, nil
}

// Get returns one subject, addressed by id or course code, with statistics.
func (s *CitraService) Get(ctx context.Context, ref string) (*models.CitraSummary, error) {
	citra, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	samples, err := s.samples(ctx, citra.ID)
	if err != nil {
		return nil, err
	}
	summary := aggregate.Decorate(*citra, samples)
	return &summary, nil
}

// Search matches query against subject names and course codes, ignoring case.
func (s *CitraService) Search(ctx context.Context, query string, sort models.CitraSort) ([]models.CitraSummary, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "query is required")
	}
	return s.List(ctx, models.CitraFilter{Search: query, Sort: sort})
}

// Reviews returns the newest ratings of a subject. Non-positive limits use
// the default and large ones are capped.
func (s *CitraService) Reviews(ctx context.Context, ref string, limit int) ([]models.Rating, error) {
	citra, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultReviewLimit
	}
	if limit > maxReviewLimit {
		limit = maxReviewLimit
	}

	start := time.Now()
	ratings, err := s.reviews.LatestByCitra(ctx, citra.ID, limit)
	if err != nil {
		s.logger.Error("list reviews", zap.String("citra_id", citra.ID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load reviews")
	}
	s.metrics.ObserveDBQuery("rating_latest", time.Since(start))
	if ratings == nil {
		ratings = []models.Rating{}
	}
	return ratings, nil
}

// BulkCreate validates and inserts subjects atomically, returning how many
// were stored.
func (s *CitraService) BulkCreate(ctx context.Context, reqs []dto.CreateCitraRequest) (int, error) {
	if len(reqs) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "citraList must be a non-empty array")
	}

	citras := make([]models.Citra, 0, len(reqs))
	seen := make(map[string]struct{}, len(reqs))
	for i, req := range reqs {
		req.Name = strings.TrimSpace(req.Name)
		req.CourseCode = strings.ToUpper(strings.TrimSpace(req.CourseCode))
		req.CitraType = strings.TrimSpace(req.CitraType)
		req.Faculty = strings.TrimSpace(req.Faculty)
		if err := s.validator.Struct(req); err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("invalid citra at index %d", i))
		}
		if _, dup := seen[req.CourseCode]; dup {
			return 0, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("course code %s appears more than once", req.CourseCode))
		}
		seen[req.CourseCode] = struct{}{}
		citras = append(citras, models.Citra{
			Name:       req.Name,
			CourseCode: req.CourseCode,
			CitraType:  req.CitraType,
			Faculty:    req.Faculty,
		})
	}

	start := time.Now()
	if err := s.repo.BulkCreate(ctx, citras); err != nil {
		if errors.Is(err, repository.ErrDuplicateCourseCode) {
			return 0, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "course code already exists")
		}
		s.logger.Error("bulk create citras", zap.Error(err))
		return 0, appErrors.Internal(err, "failed to insert citras")
	}
	s.metrics.ObserveDBQuery("citra_bulk_insert", time.Since(start))

	if s.invalidator != nil {
		s.invalidator.ScheduleInvalidation("citra bulk insert")
	}
	return len(citras), nil
}

// Resolve finds a subject by uuid or, failing that form, by course code.
func (s *CitraService) Resolve(ctx context.Context, ref string) (*models.Citra, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "citra reference is required")
	}

	var (
		citra *models.Citra
		err   error
	)
	if _, parseErr := uuid.Parse(ref); parseErr == nil {
		citra, err = s.repo.FindByID(ctx, ref)
	} else {
		citra, err = s.repo.FindByCode(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "citra not found")
		}
		s.logger.Error("resolve citra", zap.String("ref", ref), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load citra")
	}
	return citra, nil
}

func (s *CitraService) samples(ctx context.Context, citraID string) ([]models.RatingSample, error) {
	start := time.Now()
	samples, err := s.repo.SamplesByCitra(ctx, citraID)
	if err != nil {
		s.logger.Error("load rating samples", zap.String("citra_id", citraID), zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load ratings")
	}
	s.metrics.ObserveDBQuery("rating_samples", time.Since(start))
	return samples, nil
}

func citraCacheKey(filter models.CitraFilter) string {
	return fmt.Sprintf("citra:list:%s:%s:%s:%s",
		filter.Sort,
		strings.ToLower(strings.TrimSpace(filter.Faculty)),
		strings.ToLower(strings.TrimSpace(filter.CitraType)),
		strings.ToLower(strings.TrimSpace(filter.Search)))
}

func invalidSort(sort models.CitraSort) error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported sort %q, expected none, name or ratings", sort))
}
