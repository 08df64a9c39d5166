package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
)

// ErrDuplicateCourseCode is returned when an insert collides with an existing course code.
var ErrDuplicateCourseCode = errors.New("course code already exists")

const uniqueViolation = "23505"

// CitraRepository handles persistence for subjects.
type CitraRepository struct {
	db *sqlx.DB
}

// NewCitraRepository constructs a new repository.
func NewCitraRepository(db *sqlx.DB) *CitraRepository {
	return &CitraRepository{db: db}
}

type citraSampleRow struct {
	models.Citra
	Difficulty sql.NullInt64  `db:"difficulty"`
	Quality    sql.NullInt64  `db:"quality"`
	Mode       sql.NullString `db:"mode"`
	TakeAgain  sql.NullBool   `db:"take_again"`
}

// ListWithSamples loads every matching subject together with its rating
// samples in a single query. Subjects keep storage order and samples are
// ordered oldest first.
func (r *CitraRepository) ListWithSamples(ctx context.Context, filter models.CitraFilter) ([]models.CitraWithSamples, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT c.id, c.name, c.course_code, c.citra_type, c.faculty, c.created_at,
	r.difficulty, r.quality, r.mode, r.take_again
FROM citras c
LEFT JOIN ratings r ON r.citra_id = c.id
WHERE 1=1`)
	args := citraConditions(&builder, "c.", filter)
	builder.WriteString(" ORDER BY c.created_at ASC, c.id ASC, r.created_at ASC, r.id ASC")

	rows, err := r.db.QueryxContext(ctx, builder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list citras with ratings: %w", err)
	}
	defer rows.Close()

	var (
		items []models.CitraWithSamples
		index = make(map[string]int)
	)
	for rows.Next() {
		var row citraSampleRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("scan citra rating row: %w", err)
		}
		pos, ok := index[row.ID]
		if !ok {
			pos = len(items)
			index[row.ID] = pos
			items = append(items, models.CitraWithSamples{Citra: row.Citra})
		}
		if !row.Difficulty.Valid {
			continue
		}
		sample := models.RatingSample{
			Difficulty: int(row.Difficulty.Int64),
			Mode:       models.DeliveryMode(row.Mode.String),
			TakeAgain:  row.TakeAgain.Bool,
		}
		if row.Quality.Valid {
			q := int(row.Quality.Int64)
			sample.Quality = &q
		}
		items[pos].Samples = append(items[pos].Samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate citra rating rows: %w", err)
	}
	return items, nil
}

// List returns matching subjects in storage order.
func (r *CitraRepository) List(ctx context.Context, filter models.CitraFilter) ([]models.Citra, error) {
	var builder strings.Builder
	builder.WriteString("SELECT id, name, course_code, citra_type, faculty, created_at FROM citras WHERE 1=1")
	args := citraConditions(&builder, "", filter)
	builder.WriteString(" ORDER BY created_at ASC, id ASC")

	var citras []models.Citra
	if err := r.db.SelectContext(ctx, &citras, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list citras: %w", err)
	}
	return citras, nil
}

// SamplesByCitra returns the rating samples of one subject, oldest first.
func (r *CitraRepository) SamplesByCitra(ctx context.Context, citraID string) ([]models.RatingSample, error) {
	const query = `SELECT difficulty, quality, mode, take_again FROM ratings WHERE citra_id = $1 ORDER BY created_at ASC, id ASC`
	var samples []models.RatingSample
	if err := r.db.SelectContext(ctx, &samples, query, citraID); err != nil {
		return nil, fmt.Errorf("list rating samples: %w", err)
	}
	return samples, nil
}

// FindByID fetches a subject by its identifier.
func (r *CitraRepository) FindByID(ctx context.Context, id string) (*models.Citra, error) {
	const query = `SELECT id, name, course_code, citra_type, faculty, created_at FROM citras WHERE id = $1`
	var citra models.Citra
	if err := r.db.GetContext(ctx, &citra, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get citra: %w", err)
	}
	return &citra, nil
}

// FindByCode fetches a subject by course code, ignoring case.
func (r *CitraRepository) FindByCode(ctx context.Context, code string) (*models.Citra, error) {
	const query = `SELECT id, name, course_code, citra_type, faculty, created_at FROM citras WHERE UPPER(course_code) = UPPER($1)`
	var citra models.Citra
	if err := r.db.GetContext(ctx, &citra, query, strings.TrimSpace(code)); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get citra by code: %w", err)
	}
	return &citra, nil
}

// BulkCreate inserts all subjects in one transaction. Nothing is written if
// any course code already exists.
func (r *CitraRepository) BulkCreate(ctx context.Context, citras []models.Citra) (err error) {
	if len(citras) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin citra bulk insert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO citras (id, name, course_code, citra_type, faculty, created_at)
VALUES (:id, :name, :course_code, :citra_type, :faculty, :created_at)`
	now := time.Now().UTC()
	for i := range citras {
		if citras[i].ID == "" {
			citras[i].ID = uuid.NewString()
		}
		if citras[i].CreatedAt.IsZero() {
			citras[i].CreatedAt = now
		}
		if _, err = tx.NamedExecContext(ctx, query, citras[i]); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("insert citra %s: %w", citras[i].CourseCode, ErrDuplicateCourseCode)
			}
			return fmt.Errorf("insert citra %s: %w", citras[i].CourseCode, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit citra bulk insert: %w", err)
	}
	return nil
}

func citraConditions(builder *strings.Builder, alias string, filter models.CitraFilter) []interface{} {
	var args []interface{}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		fmt.Fprintf(builder, " AND (%sname ILIKE $%d OR %scourse_code ILIKE $%d)", alias, len(args), alias, len(args))
	}
	if faculty := strings.TrimSpace(filter.Faculty); faculty != "" {
		args = append(args, faculty)
		fmt.Fprintf(builder, " AND LOWER(%sfaculty) = LOWER($%d)", alias, len(args))
	}
	if citraType := strings.TrimSpace(filter.CitraType); citraType != "" {
		args = append(args, citraType)
		fmt.Fprintf(builder, " AND LOWER(%scitra_type) = LOWER($%d)", alias, len(args))
	}
	return args
}

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
