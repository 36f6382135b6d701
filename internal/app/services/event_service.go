package services

import (
	"context"
	"fmt"
	"time"

	appauth "github.com/huddlesocial/huddle/internal/app/auth"
	"github.com/huddlesocial/huddle/internal/app/models"
	"github.com/huddlesocial/huddle/internal/app/models/dto"
	"github.com/huddlesocial/huddle/internal/pkg/apperrors"
	"github.com/huddlesocial/huddle/internal/pkg/helpers"
	"github.com/huddlesocial/huddle/internal/pkg/websocket"
	"github.com/rs/zerolog"
)

// EventService manages campus events and announces changes on the live feed.
type EventService struct {
	repo   EventStore
	authz  *appauth.AuthorizationService
	feed   FeedPublisher
	logger zerolog.Logger
	now    func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(repo EventStore, authz *appauth.AuthorizationService, feed FeedPublisher, logger zerolog.Logger) *EventService {
	return &EventService{
		repo:   repo,
		authz:  authz,
		feed:   feed,
		logger: logger,
		now:    time.Now,
	}
}

// List returns one page of events.
func (s *EventService) List(ctx context.Context, query dto.EventListQuery, page, size int) (*dto.EventListResponse, error) {
	filter := models.EventFilter{
		Category: models.EventCategory(query.Category),
		Search:   query.Search,
		SortDesc: query.Sort == "desc",
	}
	if query.Upcoming {
		now := s.now()
		filter.UpcomingAfter = &now
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	events, total, err := s.repo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return &dto.EventListResponse{
		Events:     events,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// Get returns one event.
func (s *EventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new event organized by organizerID.
func (s *EventService) Create(ctx context.Context, organizerID int64, req *dto.EventRequest) (*models.Event, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, apperrors.ErrInvalidTimeSpan
	}

	event := req.ToModel(organizerID)
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventID", event.ID).Int64("organizerID", organizerID).Msg("Event created")
	s.announce(websocket.TypeEventCreated, event)
	return event, nil
}

// Update replaces the editable fields of an event the actor may change.
func (s *EventService) Update(ctx context.Context, id int64, actor appauth.Actor, req *dto.EventRequest) (*models.Event, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, apperrors.ErrInvalidTimeSpan
	}

	event, err := s.authz.ValidateEventOwnership(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Category = models.EventCategory(req.Category)
	event.Location = req.Location
	event.StartsAt = req.StartsAt
	event.EndsAt = req.EndsAt

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.announce(websocket.TypeEventUpdated, event)
	return event, nil
}

// Delete removes an event the actor may change.
func (s *EventService) Delete(ctx context.Context, id int64, actor appauth.Actor) error {
	event, err := s.authz.ValidateEventOwnership(ctx, id, actor)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("eventID", id).Int64("userID", actor.UserID).Msg("Event deleted")
	s.announce(websocket.TypeEventDeleted, event)
	return nil
}

func (s *EventService) announce(kind string, event *models.Event) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(&websocket.Message{
		Type:      kind,
		Category:  string(event.Category),
		Payload:   event,
		Timestamp: s.now(),
	})
}
