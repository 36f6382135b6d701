package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/huddlesocial/huddle/internal/pkg/apperrors"
	"github.com/huddlesocial/huddle/internal/pkg/logger"
	"github.com/huddlesocial/huddle/internal/rater"
	"github.com/jackc/pgx/v5"
)

var courseColumns = []string{
	"name", "average_gpa", "used_course_avg", "reviews", "summary", "strengths", "weaknesses",
}

// CourseRepository stores course records for the schedule rater. It is the
// database-backed course data source.
type CourseRepository struct {
	db DBTX
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

func scanCourse(row pgx.Row) (*rater.CourseRecord, error) {
	var (
		rec                            rater.CourseRecord
		reviews, strengths, weaknesses []byte
	)
	if err := row.Scan(&rec.Name, &rec.AverageGPA, &rec.UsedCourseAvg, &reviews, &rec.Summary, &strengths, &weaknesses); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(reviews, &rec.Reviews, "reviews"); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(strengths, &rec.Strengths, "strengths"); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(weaknesses, &rec.Weaknesses, "weaknesses"); err != nil {
		return nil, err
	}
	return &rec, nil
}

func unmarshalColumn(data []byte, dst interface{}, column string) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s column: %w", column, err)
	}
	return nil
}

func marshalColumn[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FetchCourse returns the record stored under the normalized name, or
// apperrors.ErrCourseNotFound.
func (r *CourseRepository) FetchCourse(ctx context.Context, name string) (*rater.CourseRecord, error) {
	normalized := rater.NormalizeCourseName(name)
	sql, args, err := psql.Select(courseColumns...).From("courses").Where(squirrel.Eq{"name": normalized}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	rec, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrCourseNotFound, normalized)
		}
		logger.Error().Err(err).Str("course", normalized).Msg("Error scanning course row")
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return rec, nil
}

// Upsert inserts rec or replaces the stored record of the same name.
func (r *CourseRepository) Upsert(ctx context.Context, rec *rater.CourseRecord) error {
	rec.Name = rater.NormalizeCourseName(rec.Name)

	reviews, err := marshalColumn(rec.Reviews)
	if err != nil {
		return fmt.Errorf("encode reviews: %w", err)
	}
	strengths, err := marshalColumn(rec.Strengths)
	if err != nil {
		return fmt.Errorf("encode strengths: %w", err)
	}
	weaknesses, err := marshalColumn(rec.Weaknesses)
	if err != nil {
		return fmt.Errorf("encode weaknesses: %w", err)
	}

	sql, args, err := psql.Insert("courses").
		Columns(courseColumns...).
		Values(rec.Name, rec.AverageGPA, rec.UsedCourseAvg, reviews, rec.Summary, strengths, weaknesses).
		Suffix(`ON CONFLICT (name) DO UPDATE SET
			average_gpa = EXCLUDED.average_gpa,
			used_course_avg = EXCLUDED.used_course_avg,
			reviews = EXCLUDED.reviews,
			summary = EXCLUDED.summary,
			strengths = EXCLUDED.strengths,
			weaknesses = EXCLUDED.weaknesses,
			updated_at = CURRENT_TIMESTAMP`).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert course SQL")
		return fmt.Errorf("failed to build upsert course query: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("course", rec.Name).Msg("Error executing upsert course query")
		return fmt.Errorf("error saving course: %w", err)
	}
	return nil
}

// List returns one page of courses ordered by name, optionally narrowed to
// names containing search.
func (r *CourseRepository) List(ctx context.Context, search string, offset uint64, limit int) ([]rater.CourseRecord, int64, error) {
	where := squirrel.And{}
	if s := strings.TrimSpace(search); s != "" {
		where = append(where, squirrel.ILike{"name": "%" + s + "%"})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("courses").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var total int64
	if err = r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting courses")
		return nil, 0, fmt.Errorf("error counting courses: %w", err)
	}

	sql, args, err := psql.Select(courseColumns...).From("courses").Where(where).
		OrderBy("name ASC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying courses")
		return nil, 0, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := []rater.CourseRecord{}
	for rows.Next() {
		rec, err := scanCourse(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning course row")
			return nil, 0, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating courses: %w", err)
	}
	return courses, total, nil
}
