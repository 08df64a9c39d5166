package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
)

func newReportRepoMock(t *testing.T) (*ReportRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewReportRepository(sqlxDB), mock, func() { _ = sqlxDB.Close() }
}

const insertReportPattern = "INSERT INTO rating_reports (id, rating_id, user_id, reason, created_at)"

func TestReportRepositoryCreateInserted(t *testing.T) {
	repo, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(insertReportPattern)).
		WithArgs(sqlmock.AnyArg(), "r-1", "user-1", "spam", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	report := &models.RatingReport{RatingID: "r-1", UserID: "user-1", Reason: "spam"}
	inserted, err := repo.Create(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotEmpty(t, report.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryCreateDuplicateSuppressed(t *testing.T) {
	repo, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (rating_id, user_id) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := repo.Create(context.Background(), &models.RatingReport{RatingID: "r-1", UserID: "user-1", Reason: models.DefaultReportReason})
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestReportRepositoryCreateError(t *testing.T) {
	repo, mock, cleanup := newReportRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(insertReportPattern)).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Create(context.Background(), &models.RatingReport{RatingID: "r-1", UserID: "user-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create rating report")
}
