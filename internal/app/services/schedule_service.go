package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/huddlesocial/huddle/internal/app/models"
	"github.com/huddlesocial/huddle/internal/app/models/dto"
	"github.com/huddlesocial/huddle/internal/pkg/apperrors"
	"github.com/huddlesocial/huddle/internal/pkg/cache"
	"github.com/huddlesocial/huddle/internal/pkg/filestorage"
	"github.com/huddlesocial/huddle/internal/pkg/helpers"
	"github.com/huddlesocial/huddle/internal/pkg/metrics"
	"github.com/huddlesocial/huddle/internal/pkg/schema"
	"github.com/huddlesocial/huddle/internal/rater"
	"github.com/rs/zerolog"
)

const scheduleUploadDir = "schedules"

// ScheduleOptions tunes the ScheduleService.
type ScheduleOptions struct {
	// CacheTTL bounds how long a parsed upload stays in the cache.
	CacheTTL time.Duration
	// MaxUploadBytes rejects larger schedule files.
	MaxUploadBytes int64
}

// ScheduleService scores class schedules with the rater.
type ScheduleService struct {
	courses CourseDataSource
	uploads UploadStore
	cache   ScheduleCache
	storage filestorage.FileStorage
	opts    ScheduleOptions
	logger  zerolog.Logger
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(
	courses CourseDataSource,
	uploads UploadStore,
	cache ScheduleCache,
	storage filestorage.FileStorage,
	opts ScheduleOptions,
	logger zerolog.Logger,
) *ScheduleService {
	return &ScheduleService{
		courses: courses,
		uploads: uploads,
		cache:   cache,
		storage: storage,
		opts:    opts,
		logger:  logger,
	}
}

// resolveWeightage applies the default split to a missing weightage and
// rejects one that does not sum to 100.
func resolveWeightage(w *rater.Weightage) (rater.Weightage, error) {
	if w == nil {
		return rater.DefaultWeightage(), nil
	}
	if err := w.Validate(); err != nil {
		return rater.Weightage{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidWeightage, err)
	}
	return *w, nil
}

// decodeSchedule validates raw against the document schema and decodes it.
func decodeSchedule(raw []byte) (*rater.Dataset, error) {
	if err := schema.ValidateSchedule(raw); err != nil {
		return nil, err
	}
	ds, err := rater.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidSchedule, err)
	}
	return ds, nil
}

func (s *ScheduleService) scored(source string, w rater.Weightage, ps *rater.ParsedSchedule) *dto.ScoreResponse {
	ps.FinalScore = rater.CalculateFinalScore(w, ps)
	metrics.ObserveScore(source, ps.FinalScore)
	return &dto.ScoreResponse{Weightage: w, Parsed: ps}
}

// Score parses an inline schedule document and scores it with w.
func (s *ScheduleService) Score(ctx context.Context, raw json.RawMessage, w *rater.Weightage) (*dto.ScoreResponse, error) {
	weights, err := resolveWeightage(w)
	if err != nil {
		return nil, err
	}
	ds, err := decodeSchedule(raw)
	if err != nil {
		return nil, err
	}
	return s.scored(metrics.SourceInline, weights, rater.Parse(ds)), nil
}

// Compose builds a schedule from stored course records and scores it.
// Repeated course names are used once, at their first position.
func (s *ScheduleService) Compose(ctx context.Context, req *dto.ComposeRequest) (*dto.ScoreResponse, error) {
	weights, err := resolveWeightage(req.Weightage)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(req.Courses))
	records := make([]rater.CourseRecord, 0, len(req.Courses))
	for _, name := range req.Courses {
		key := rater.NormalizeCourseName(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		rec, err := s.courses.FetchCourse(ctx, key)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	ds := rater.Compose(records, rater.Scores{
		RMP:          req.Scores.RMP,
		BoilerGrades: req.Scores.BoilerGrades,
		Hecticness:   req.Scores.Hecticness,
	})
	return s.scored(metrics.SourceCompose, weights, rater.Parse(ds)), nil
}

// Upload validates a schedule file, stores it and returns its score under w.
func (s *ScheduleService) Upload(ctx context.Context, userID int64, fileHeader *multipart.FileHeader, w *rater.Weightage) (*dto.UploadResponse, error) {
	weights, err := resolveWeightage(w)
	if err != nil {
		return nil, err
	}

	raw, err := s.readUpload(fileHeader)
	if err != nil {
		return nil, err
	}
	ds, err := decodeSchedule(raw)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.SaveBytes(raw, fileHeader.Filename, scheduleUploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to store schedule file: %w", err)
	}

	upload := &models.ScheduleUpload{
		UserID:           userID,
		OriginalFilename: fileHeader.Filename,
		FileURL:          url,
		Payload:          raw,
	}
	if err := s.uploads.Create(ctx, upload); err != nil {
		if delErr := s.storage.DeleteFile(url); delErr != nil {
			s.logger.Warn().Err(delErr).Str("url", url).Msg("Could not remove orphaned schedule file")
		}
		return nil, err
	}

	parsed := rater.Parse(ds)
	s.cacheParsed(ctx, userID, upload.ID, parsed)

	s.logger.Info().Int64("uploadID", upload.ID).Int64("userID", userID).Int("courses", len(ds.Courses)).Msg("Schedule uploaded")

	resp := s.scored(metrics.SourceUpload, weights, parsed)
	return &dto.UploadResponse{
		UploadID:  upload.ID,
		FileURL:   url,
		Weightage: resp.Weightage,
		Parsed:    resp.Parsed,
	}, nil
}

func (s *ScheduleService) readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	if fileHeader.Size > s.opts.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds the %d byte limit", apperrors.ErrUploadTooLarge, fileHeader.Size, s.opts.MaxUploadBytes)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, s.opts.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(raw)) > s.opts.MaxUploadBytes {
		return nil, fmt.Errorf("%w: exceeds the %d byte limit", apperrors.ErrUploadTooLarge, s.opts.MaxUploadBytes)
	}
	return raw, nil
}

// GetUpload rescores a stored upload with w. The parsed form comes from the
// cache when present, otherwise from the stored payload.
func (s *ScheduleService) GetUpload(ctx context.Context, userID, uploadID int64, w *rater.Weightage) (*dto.ScoreResponse, error) {
	weights, err := resolveWeightage(w)
	if err != nil {
		return nil, err
	}

	parsed, err := s.loadParsed(ctx, userID, uploadID)
	if err != nil {
		return nil, err
	}
	return s.scored(metrics.SourceUpload, weights, parsed), nil
}

func (s *ScheduleService) loadParsed(ctx context.Context, userID, uploadID int64) (*rater.ParsedSchedule, error) {
	key := uploadCacheKey(userID, uploadID)

	var cached rater.ParsedSchedule
	err := s.cache.GetJSON(ctx, key, &cached)
	if err == nil {
		metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
		return &cached, nil
	}
	metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn().Err(err).Str("key", key).Msg("Schedule cache read failed, falling back to database")
	}

	upload, err := s.uploads.GetByIDForUser(ctx, uploadID, userID)
	if err != nil {
		return nil, err
	}
	ds, err := rater.Decode(upload.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: stored payload: %v", apperrors.ErrInvalidSchedule, err)
	}

	parsed := rater.Parse(ds)
	s.cacheParsed(ctx, userID, uploadID, parsed)
	return parsed, nil
}

func (s *ScheduleService) cacheParsed(ctx context.Context, userID, uploadID int64, parsed *rater.ParsedSchedule) {
	key := uploadCacheKey(userID, uploadID)
	if err := s.cache.SetJSON(ctx, key, parsed, s.opts.CacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Could not cache parsed schedule")
	}
}

// ListUploads returns one page of the user's uploads.
func (s *ScheduleService) ListUploads(ctx context.Context, userID int64, page, size int) (*dto.UploadListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	uploads, total, err := s.uploads.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule uploads: %w", err)
	}

	summaries := make([]dto.UploadSummary, 0, len(uploads))
	for _, u := range uploads {
		summaries = append(summaries, dto.UploadSummary{
			ID:               u.ID,
			OriginalFilename: u.OriginalFilename,
			FileURL:          u.FileURL,
			CreatedAt:        u.CreatedAt,
		})
	}
	return &dto.UploadListResponse{
		Uploads:    summaries,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// The user ID is part of the key so a cache hit never leaks another user's upload.
func uploadCacheKey(userID, uploadID int64) string {
	return fmt.Sprintf("upload:%d:%d", userID, uploadID)
}
