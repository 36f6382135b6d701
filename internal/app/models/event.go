package models

import "time"

// EventCategory groups campus events for filtering.
type EventCategory string

const (
	EventCategorySocial   EventCategory = "SOCIAL"
	EventCategoryAcademic EventCategory = "ACADEMIC"
	EventCategorySports   EventCategory = "SPORTS"
	EventCategoryCareer   EventCategory = "CAREER"
	EventCategoryArts     EventCategory = "ARTS"
	EventCategoryOther    EventCategory = "OTHER"
)

// Event is a row of the 'events' table.
type Event struct {
	ID          int64         `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description" db:"description"`
	Category    EventCategory `json:"category" db:"category"`
	Location    string        `json:"location" db:"location"`
	StartsAt    time.Time     `json:"startsAt" db:"starts_at"`
	EndsAt      time.Time     `json:"endsAt" db:"ends_at"`
	OrganizerID int64         `json:"organizerId" db:"organizer_id"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`
}

// EventFilter narrows an event listing. Zero values disable a filter.
type EventFilter struct {
	Category EventCategory
	Search   string
	// UpcomingAfter keeps events that have not ended by this instant.
	UpcomingAfter *time.Time
	SortDesc      bool
}
