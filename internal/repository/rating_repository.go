package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
)

// RatingRepository persists subject ratings.
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository constructs the repository.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create inserts a rating with a generated id and server timestamp.
func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now().UTC()
	}
	if rating.Keywords == nil {
		rating.Keywords = pq.StringArray{}
	}
	const query = `INSERT INTO ratings (id, user_id, citra_id, course_code, difficulty, quality, mode, take_again, slides_provided, attendance_mandatory, grade, keywords, review, created_at)
VALUES (:id, :user_id, :citra_id, :course_code, :difficulty, :quality, :mode, :take_again, :slides_provided, :attendance_mandatory, :grade, :keywords, :review, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rating); err != nil {
		return fmt.Errorf("create rating: %w", err)
	}
	return nil
}

// Exists reports whether a rating with the id is stored.
func (r *RatingRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM ratings WHERE id = $1 LIMIT 1`, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check rating: %w", err)
	}
	return true, nil
}

// LatestByCitra returns the newest ratings of a subject.
func (r *RatingRepository) LatestByCitra(ctx context.Context, citraID string, limit int) ([]models.Rating, error) {
	const query = `SELECT id, user_id, citra_id, course_code, difficulty, quality, mode, take_again, slides_provided, attendance_mandatory, grade, keywords, review, created_at
FROM ratings WHERE citra_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	var ratings []models.Rating
	if err := r.db.SelectContext(ctx, &ratings, query, citraID, limit); err != nil {
		return nil, fmt.Errorf("list latest ratings: %w", err)
	}
	return ratings, nil
}
