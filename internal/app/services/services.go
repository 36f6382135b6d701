// Package services holds the business logic behind the HTTP controllers.
package services

import (
	"context"
	"time"

	"github.com/huddlesocial/huddle/internal/app/models"
	"github.com/huddlesocial/huddle/internal/pkg/websocket"
	"github.com/huddlesocial/huddle/internal/rater"
)

// UserStore persists users.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
}

// TokenStore persists refresh tokens.
type TokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetUserIDByToken(ctx context.Context, token string) (int64, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

// EventStore persists campus events.
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter models.EventFilter, offset uint64, limit int) ([]models.Event, int64, error)
}

// HousingStore persists housing listings.
type HousingStore interface {
	Create(ctx context.Context, listing *models.HousingListing) error
	GetByID(ctx context.Context, id int64) (*models.HousingListing, error)
	UpdatePhotoURL(ctx context.Context, id int64, photoURL string) error
	Delete(ctx context.Context, id int64) error
	ListMatching(ctx context.Context, filter models.HousingFilter) ([]models.HousingListing, error)
}

// CourseDataSource resolves a course name to its stored record. Unknown
// names yield apperrors.ErrCourseNotFound.
type CourseDataSource interface {
	FetchCourse(ctx context.Context, name string) (*rater.CourseRecord, error)
}

// CourseStore is the writable course catalog.
type CourseStore interface {
	CourseDataSource
	Upsert(ctx context.Context, rec *rater.CourseRecord) error
	List(ctx context.Context, search string, offset uint64, limit int) ([]rater.CourseRecord, int64, error)
}

// UploadStore persists uploaded schedule documents.
type UploadStore interface {
	Create(ctx context.Context, upload *models.ScheduleUpload) error
	GetByIDForUser(ctx context.Context, id, userID int64) (*models.ScheduleUpload, error)
	ListByUser(ctx context.Context, userID int64, offset uint64, limit int) ([]models.ScheduleUpload, int64, error)
}

// ScheduleCache keeps parsed uploads between requests.
type ScheduleCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// FeedPublisher pushes messages to live feed subscribers.
type FeedPublisher interface {
	Publish(message *websocket.Message)
}

// Services holds all the service instances
type Services struct {
	AuthService     *AuthService
	EventService    *EventService
	HousingService  *HousingService
	CourseService   *CourseService
	ScheduleService *ScheduleService
}
