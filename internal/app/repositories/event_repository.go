package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/huddlesocial/huddle/internal/app/models"
	"github.com/huddlesocial/huddle/internal/pkg/apperrors"
	"github.com/huddlesocial/huddle/internal/pkg/dberrors"
	"github.com/huddlesocial/huddle/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

var eventColumns = []string{
	"id", "title", "description", "category", "location", "starts_at", "ends_at",
	"organizer_id", "created_at", "updated_at",
}

// EventRepository handles campus event database operations
type EventRepository struct {
	db DBTX
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db DBTX) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	e := &models.Event{}
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Category, &e.Location,
		&e.StartsAt, &e.EndsAt, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts event and fills in its generated ID and timestamps.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	sql, args, err := psql.Insert("events").
		Columns("title", "description", "category", "location", "starts_at", "ends_at", "organizer_id").
		Values(event.Title, event.Description, event.Category, event.Location, event.StartsAt, event.EndsAt, event.OrganizerID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create event SQL")
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	if err = r.db.QueryRow(ctx, sql, args...).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt); err != nil {
		switch {
		case dberrors.IsCheckViolation(err):
			return apperrors.ErrInvalidTimeSpan
		case dberrors.IsForeignKeyError(err, "events_organizer_id_fkey"):
			return apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("organizerID", event.OrganizerID).Msg("Error executing create event query")
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := psql.Select(eventColumns...).From("events").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	event, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Int64("eventID", id).Msg("Error scanning event row")
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	return event, nil
}

// Update overwrites the editable fields of event.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	sql, args, err := psql.Update("events").
		Set("title", event.Title).
		Set("description", event.Description).
		Set("category", event.Category).
		Set("location", event.Location).
		Set("starts_at", event.StartsAt).
		Set("ends_at", event.EndsAt).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": event.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	if err = r.db.QueryRow(ctx, sql, args...).Scan(&event.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return apperrors.ErrEventNotFound
		case dberrors.IsCheckViolation(err):
			return apperrors.ErrInvalidTimeSpan
		}
		logger.Error().Err(err).Int64("eventID", event.ID).Msg("Error executing update event query")
		return fmt.Errorf("error updating event: %w", err)
	}
	return nil
}

// Delete removes an event
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("events").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete event query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", id).Msg("Error executing delete event query")
		return fmt.Errorf("error deleting event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// List returns one page of events matching filter and the total match count.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter, offset uint64, limit int) ([]models.Event, int64, error) {
	where := squirrel.And{}
	if filter.Category != "" {
		where = append(where, squirrel.Eq{"category": filter.Category})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"description": pattern},
			squirrel.ILike{"location": pattern},
		})
	}
	if filter.UpcomingAfter != nil {
		where = append(where, squirrel.GtOrEq{"ends_at": *filter.UpcomingAfter})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("events").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count events query: %w", err)
	}

	var total int64
	if err = r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting events")
		return nil, 0, fmt.Errorf("error counting events: %w", err)
	}

	order := "starts_at ASC"
	if filter.SortDesc {
		order = "starts_at DESC"
	}
	sql, args, err := psql.Select(eventColumns...).From("events").Where(where).
		OrderBy(order, "id ASC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying events")
		return nil, 0, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning event row")
			return nil, 0, fmt.Errorf("error scanning event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating events: %w", err)
	}
	return events, total, nil
}
