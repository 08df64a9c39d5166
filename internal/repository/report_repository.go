package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
)

// ReportRepository persists moderation reports against ratings.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create stores a report unless the user already reported the rating. The
// returned flag is false when the unique (rating_id, user_id) constraint
// suppressed the insert.
func (r *ReportRepository) Create(ctx context.Context, report *models.RatingReport) (bool, error) {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO rating_reports (id, rating_id, user_id, reason, created_at)
VALUES (:id, :rating_id, :user_id, :reason, :created_at)
ON CONFLICT (rating_id, user_id) DO NOTHING`
	res, err := r.db.NamedExecContext(ctx, query, report)
	if err != nil {
		return false, fmt.Errorf("create rating report: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rating report rows affected: %w", err)
	}
	return affected > 0, nil
}
