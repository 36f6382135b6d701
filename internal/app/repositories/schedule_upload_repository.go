package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/huddlesocial/huddle/internal/app/models"
	"github.com/huddlesocial/huddle/internal/pkg/apperrors"
	"github.com/huddlesocial/huddle/internal/pkg/dberrors"
	"github.com/huddlesocial/huddle/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

// ScheduleUploadRepository stores uploaded schedule documents.
type ScheduleUploadRepository struct {
	db DBTX
}

// NewScheduleUploadRepository creates a new ScheduleUploadRepository
func NewScheduleUploadRepository(db DBTX) *ScheduleUploadRepository {
	return &ScheduleUploadRepository{db: db}
}

// Create inserts upload and fills in its generated ID and creation time. The
// payload is stored verbatim.
func (r *ScheduleUploadRepository) Create(ctx context.Context, upload *models.ScheduleUpload) error {
	sql, args, err := psql.Insert("schedule_uploads").
		Columns("user_id", "original_filename", "file_url", "payload").
		Values(upload.UserID, upload.OriginalFilename, upload.FileURL, string(upload.Payload)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create upload SQL")
		return fmt.Errorf("failed to build create upload query: %w", err)
	}

	if err = r.db.QueryRow(ctx, sql, args...).Scan(&upload.ID, &upload.CreatedAt); err != nil {
		if dberrors.IsForeignKeyError(err, "schedule_uploads_user_id_fkey") {
			return apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", upload.UserID).Msg("Error executing create upload query")
		return fmt.Errorf("error creating schedule upload: %w", err)
	}
	return nil
}

// GetByIDForUser returns the upload with its payload. Uploads of other users
// are reported as not found.
func (r *ScheduleUploadRepository) GetByIDForUser(ctx context.Context, id, userID int64) (*models.ScheduleUpload, error) {
	sql, args, err := psql.Select("id", "user_id", "original_filename", "file_url", "payload", "created_at").
		From("schedule_uploads").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get upload query: %w", err)
	}

	u := &models.ScheduleUpload{}
	var payload []byte
	err = r.db.QueryRow(ctx, sql, args...).Scan(&u.ID, &u.UserID, &u.OriginalFilename, &u.FileURL, &payload, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUploadNotFound
		}
		logger.Error().Err(err).Int64("uploadID", id).Msg("Error scanning upload row")
		return nil, fmt.Errorf("error retrieving schedule upload: %w", err)
	}
	u.Payload = payload
	return u, nil
}

// ListByUser returns one page of the user's uploads, newest first, without
// payloads.
func (r *ScheduleUploadRepository) ListByUser(ctx context.Context, userID int64, offset uint64, limit int) ([]models.ScheduleUpload, int64, error) {
	countSQL, countArgs, err := psql.Select("COUNT(*)").From("schedule_uploads").
		Where(squirrel.Eq{"user_id": userID}).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count uploads query: %w", err)
	}

	var total int64
	if err = r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error counting uploads")
		return nil, 0, fmt.Errorf("error counting schedule uploads: %w", err)
	}

	sql, args, err := psql.Select("id", "user_id", "original_filename", "file_url", "created_at").
		From("schedule_uploads").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list uploads query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error querying uploads")
		return nil, 0, fmt.Errorf("error listing schedule uploads: %w", err)
	}
	defer rows.Close()

	uploads := []models.ScheduleUpload{}
	for rows.Next() {
		var u models.ScheduleUpload
		if err := rows.Scan(&u.ID, &u.UserID, &u.OriginalFilename, &u.FileURL, &u.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning schedule upload: %w", err)
		}
		uploads = append(uploads, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating schedule uploads: %w", err)
	}
	return uploads, total, nil
}
