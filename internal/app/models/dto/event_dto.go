package dto

import (
	"time"

	"github.com/huddlesocial/huddle/internal/app/models"
)

// EventRequest is the body of event create and update calls.
type EventRequest struct {
	Title       string    `json:"title" binding:"required,max=200"`
	Description string    `json:"description" binding:"max=5000"`
	Category    string    `json:"category" binding:"required,oneof=SOCIAL ACADEMIC SPORTS CAREER ARTS OTHER"`
	Location    string    `json:"location" binding:"required,max=200"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	EndsAt      time.Time `json:"endsAt" binding:"required,gtfield=StartsAt"`
}

// ToModel copies the request into a new event owned by organizerID.
func (r *EventRequest) ToModel(organizerID int64) *models.Event {
	return &models.Event{
		Title:       r.Title,
		Description: r.Description,
		Category:    models.EventCategory(r.Category),
		Location:    r.Location,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		OrganizerID: organizerID,
	}
}

// EventListQuery holds the query string of GET /events.
type EventListQuery struct {
	Category string `form:"category" binding:"omitempty,oneof=SOCIAL ACADEMIC SPORTS CAREER ARTS OTHER"`
	Search   string `form:"search" binding:"max=100"`
	Upcoming bool   `form:"upcoming"`
	Sort     string `form:"sort" binding:"omitempty,oneof=asc desc"`
}

// EventListResponse is one page of events.
type EventListResponse struct {
	Events     []models.Event `json:"events"`
	Pagination PaginationInfo `json:"pagination"`
}
