package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alifhakimiazwan/RateMyCitra/internal/dto"
	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
	appErrors "github.com/alifhakimiazwan/RateMyCitra/pkg/errors"
)

// ReportSubmittedMessage is returned after a report is stored.
const ReportSubmittedMessage = "Review reported successfully"

type reportRepository interface {
	Create(ctx context.Context, report *models.RatingReport) (bool, error)
}

type ratingLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ReportService records abuse reports against reviews.
type ReportService struct {
	repo      reportRepository
	ratings   ratingLookup
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(repo reportRepository, ratings ratingLookup, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, ratings: ratings, metrics: metrics, validator: validate, logger: logger}
}

// Submit reports a review on behalf of userID. A user can report a given
// review once; later attempts return a conflict.
func (s *ReportService) Submit(ctx context.Context, userID string, req dto.ReportRequest) error {
	if strings.TrimSpace(userID) == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "you must be signed in to report a review")
	}

	reviewID := strings.TrimSpace(req.ReviewID)
	if _, err := uuid.Parse(reviewID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "reviewId must be a valid id")
	}
	reason := strings.TrimSpace(req.Reason)
	req.Reason = reason
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}
	if reason == "" {
		reason = models.DefaultReportReason
	}

	exists, err := s.ratings.Exists(ctx, reviewID)
	if err != nil {
		s.logger.Error("check review", zap.String("review_id", reviewID), zap.Error(err))
		return appErrors.Internal(err, "failed to submit report")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "review not found")
	}

	start := time.Now()
	inserted, err := s.repo.Create(ctx, &models.RatingReport{RatingID: reviewID, UserID: userID, Reason: reason})
	if err != nil {
		s.logger.Error("create report", zap.String("review_id", reviewID), zap.Error(err))
		return appErrors.Internal(err, "failed to submit report")
	}
	s.metrics.ObserveDBQuery("report_insert", time.Since(start))
	if !inserted {
		s.metrics.RecordReport(ReportOutcomeDuplicate)
		return appErrors.Clone(appErrors.ErrConflict, "you have already reported this review")
	}
	s.metrics.RecordReport(ReportOutcomeCreated)
	return nil
}
