package services

import (
	"context"
	"fmt"

	"github.com/huddlesocial/huddle/internal/app/models/dto"
	"github.com/huddlesocial/huddle/internal/pkg/apperrors"
	"github.com/huddlesocial/huddle/internal/pkg/helpers"
	"github.com/huddlesocial/huddle/internal/pkg/validation"
	"github.com/huddlesocial/huddle/internal/rater"
	"github.com/rs/zerolog"
)

// CourseService manages the course catalog the schedule rater composes from.
type CourseService struct {
	store  CourseStore
	logger zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(store CourseStore, logger zerolog.Logger) *CourseService {
	return &CourseService{store: store, logger: logger}
}

// List returns one page of the catalog.
func (s *CourseService) List(ctx context.Context, search string, page, size int) (*dto.CourseListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	courses, total, err := s.store.List(ctx, search, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return &dto.CourseListResponse{
		Courses:    courses,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// Get returns one course.
func (s *CourseService) Get(ctx context.Context, name string) (*rater.CourseRecord, error) {
	return s.store.FetchCourse(ctx, name)
}

// Upsert creates or replaces the named course.
func (s *CourseService) Upsert(ctx context.Context, name string, req *dto.UpsertCourseRequest) (*rater.CourseRecord, error) {
	if !validation.IsCourseName(name) {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("%q is not a course code", name)).
			WithDetails(map[string]interface{}{"name": name})
	}

	rec := req.ToRecord(rater.NormalizeCourseName(name))
	if err := s.store.Upsert(ctx, &rec); err != nil {
		return nil, err
	}
	s.logger.Info().Str("course", rec.Name).Int("reviews", len(rec.Reviews)).Msg("Course saved")
	return &rec, nil
}
