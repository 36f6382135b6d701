// Package auth decides whether an authenticated user may change a resource.
package auth

import (
	"context"

	"github.com/huddlesocial/huddle/internal/app/models"
	"github.com/huddlesocial/huddle/internal/pkg/apperrors"
	"github.com/huddlesocial/huddle/internal/pkg/logger"
)

// Actor is the authenticated user behind a request.
type Actor struct {
	UserID int64
	Role   models.RoleType
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// EventReader loads events for ownership checks.
type EventReader interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

// ListingReader loads housing listings for ownership checks.
type ListingReader interface {
	GetByID(ctx context.Context, id int64) (*models.HousingListing, error)
}

// AuthorizationService handles authorization operations
type AuthorizationService struct {
	events   EventReader
	listings ListingReader
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(events EventReader, listings ListingReader) *AuthorizationService {
	return &AuthorizationService{
		events:   events,
		listings: listings,
	}
}

// CanModify reports whether actor may change a resource owned by ownerID.
// Admins may change everything.
func CanModify(actor Actor, ownerID int64) bool {
	return actor.IsAdmin() || actor.UserID == ownerID
}

// ValidateEventOwnership returns the event when actor organizes it or is an admin.
func (s *AuthorizationService) ValidateEventOwnership(ctx context.Context, eventID int64, actor Actor) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !CanModify(actor, event.OrganizerID) {
		logger.Warn().Int64("eventID", eventID).Int64("userID", actor.UserID).Msg("Rejected change to event by non-organizer")
		return nil, apperrors.NewForbiddenError("only the organizer can change this event")
	}
	return event, nil
}

// ValidateListingOwnership returns the listing when actor posted it or is an admin.
func (s *AuthorizationService) ValidateListingOwnership(ctx context.Context, listingID int64, actor Actor) (*models.HousingListing, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !CanModify(actor, listing.PosterID) {
		logger.Warn().Int64("listingID", listingID).Int64("userID", actor.UserID).Msg("Rejected change to listing by non-poster")
		return nil, apperrors.NewForbiddenError("only the poster can change this listing")
	}
	return listing, nil
}
