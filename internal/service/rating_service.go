package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/alifhakimiazwan/RateMyCitra/internal/contentfilter"
	"github.com/alifhakimiazwan/RateMyCitra/internal/dto"
	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
	appErrors "github.com/alifhakimiazwan/RateMyCitra/pkg/errors"
)

// RatingSubmittedMessage is returned after a rating is stored.
const RatingSubmittedMessage = "Rating submitted successfully"

type ratingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
}

type citraResolver interface {
	Resolve(ctx context.Context, ref string) (*models.Citra, error)
}

type contentChecker interface {
	Check(text string) contentfilter.Result
}

// RatingServiceConfig tunes rating submission.
type RatingServiceConfig struct {
	ReviewMinLength int
}

// RatingService accepts subject ratings from authenticated students.
type RatingService struct {
	repo        ratingRepository
	citras      citraResolver
	filter      contentChecker
	invalidator CitraInvalidator
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         RatingServiceConfig
}

// NewRatingService constructs the service.
func NewRatingService(repo ratingRepository, citras citraResolver, filter contentChecker, invalidator CitraInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg RatingServiceConfig) *RatingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if filter == nil {
		filter = contentfilter.New()
	}
	if cfg.ReviewMinLength <= 0 {
		cfg.ReviewMinLength = 10
	}
	return &RatingService{
		repo:        repo,
		citras:      citras,
		filter:      filter,
		invalidator: invalidator,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
	}
}

// Submit stores a rating by userID. Nothing is written unless the caller is
// identified, the payload is valid, the subject exists and the review passes
// the content filter.
func (s *RatingService) Submit(ctx context.Context, userID string, req dto.SubmitRatingRequest) error {
	if strings.TrimSpace(userID) == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "you must be signed in to rate a citra")
	}

	req.Review = strings.TrimSpace(req.Review)
	req.CitraID = strings.TrimSpace(req.CitraID)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rating payload")
	}
	if n := utf8.RuneCountInString(req.Review); n < s.cfg.ReviewMinLength {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("review must be at least %d characters", s.cfg.ReviewMinLength))
	}
	keywords, err := normalizeKeywords(req.Keywords)
	if err != nil {
		return err
	}

	if result := s.filter.Check(req.Review); result.Restricted {
		s.metrics.RecordContentRejection()
		s.logger.Info("rating rejected by content filter", zap.String("user_id", userID), zap.Strings("matches", result.Matches))
		return appErrors.ErrRestrictedContent
	}

	citra, err := s.citras.Resolve(ctx, req.CitraID)
	if err != nil {
		return err
	}
	if code := strings.TrimSpace(req.CourseCode); code != "" && !strings.EqualFold(code, citra.CourseCode) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("courseCode %s does not match citra %s", code, citra.CourseCode))
	}

	rating := &models.Rating{
		UserID:              userID,
		CitraID:             citra.ID,
		CourseCode:          citra.CourseCode,
		Difficulty:          req.Difficulty,
		Quality:             req.Quality,
		Mode:                models.DeliveryMode(req.Mode),
		TakeAgain:           bool(req.TakeAgain),
		SlidesProvided:      bool(req.SlidesProvided),
		AttendanceMandatory: bool(req.AttendanceMandatory),
		Grade:               req.Grade,
		Keywords:            keywords,
		Review:              req.Review,
	}

	start := time.Now()
	if err := s.repo.Create(ctx, rating); err != nil {
		s.logger.Error("create rating", zap.String("citra_id", citra.ID), zap.Error(err))
		return appErrors.Internal(err, "failed to submit rating")
	}
	s.metrics.ObserveDBQuery("rating_insert", time.Since(start))
	s.metrics.RecordRatingSubmitted()

	if s.invalidator != nil {
		s.invalidator.ScheduleInvalidation("rating submitted")
	}
	return nil
}

// CheckContent runs the content filter without storing anything.
func (s *RatingService) CheckContent(text string) contentfilter.Result {
	return s.filter.Check(text)
}

func normalizeKeywords(raw []string) (pq.StringArray, error) {
	allowed := make(map[string]string, len(models.Keywords))
	for _, k := range models.Keywords {
		allowed[strings.ToLower(k)] = k
	}
	keywords := make(pq.StringArray, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, k := range raw {
		canonical, ok := allowed[strings.ToLower(strings.TrimSpace(k))]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown keyword %q", k))
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		keywords = append(keywords, canonical)
	}
	return keywords, nil
}
