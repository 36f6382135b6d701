// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	appauth "github.com/huddlesocial/huddle/internal/app/auth"
	"github.com/huddlesocial/huddle/internal/app/models"
	"github.com/huddlesocial/huddle/internal/app/models/dto"
	"github.com/huddlesocial/huddle/internal/middleware"
	"github.com/huddlesocial/huddle/internal/rater"
)

// AuthService is what AuthController needs from services.AuthService.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error)
	Logout(ctx context.Context, userID int64) error
}

// EventService is what EventController needs from services.EventService.
type EventService interface {
	List(ctx context.Context, query dto.EventListQuery, page, size int) (*dto.EventListResponse, error)
	Get(ctx context.Context, id int64) (*models.Event, error)
	Create(ctx context.Context, organizerID int64, req *dto.EventRequest) (*models.Event, error)
	Update(ctx context.Context, id int64, actor appauth.Actor, req *dto.EventRequest) (*models.Event, error)
	Delete(ctx context.Context, id int64, actor appauth.Actor) error
}

// HousingService is what HousingController needs from services.HousingService.
type HousingService interface {
	List(ctx context.Context, query dto.HousingListQuery, page, size int) (*dto.HousingListResponse, error)
	Get(ctx context.Context, id int64) (*dto.HousingResponse, error)
	Create(ctx context.Context, posterID int64, req *dto.CreateHousingRequest) (*dto.HousingResponse, error)
	Delete(ctx context.Context, id int64, actor appauth.Actor) error
	UploadPhoto(ctx context.Context, id int64, actor appauth.Actor, fileHeader *multipart.FileHeader) (*dto.HousingResponse, error)
}

// CourseService is what CourseController needs from services.CourseService.
type CourseService interface {
	List(ctx context.Context, search string, page, size int) (*dto.CourseListResponse, error)
	Get(ctx context.Context, name string) (*rater.CourseRecord, error)
	Upsert(ctx context.Context, name string, req *dto.UpsertCourseRequest) (*rater.CourseRecord, error)
}

// ScheduleService is what ScheduleController needs from services.ScheduleService.
type ScheduleService interface {
	Score(ctx context.Context, raw json.RawMessage, w *rater.Weightage) (*dto.ScoreResponse, error)
	Compose(ctx context.Context, req *dto.ComposeRequest) (*dto.ScoreResponse, error)
	Upload(ctx context.Context, userID int64, fileHeader *multipart.FileHeader, w *rater.Weightage) (*dto.UploadResponse, error)
	GetUpload(ctx context.Context, userID, uploadID int64, w *rater.Weightage) (*dto.ScoreResponse, error)
	ListUploads(ctx context.Context, userID int64, page, size int) (*dto.UploadListResponse, error)
}

var errInvalidID = errors.New("id must be a positive integer")

// parseIDParam parses an ID parameter from the request path
func parseIDParam(ctx *gin.Context, paramName string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// respondInvalidID writes the 400 for a malformed path ID.
func respondInvalidID(ctx *gin.Context, paramName string) {
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, errInvalidID.Error()).WithField(paramName)
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}

// respondBindError writes the 400 for a request that failed binding.
func respondBindError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}

// currentActor returns the authenticated caller. It writes a 401 and returns
// false when JWTAuth did not run.
func currentActor(ctx *gin.Context) (appauth.Actor, bool) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
		))
		return appauth.Actor{}, false
	}
	return appauth.Actor{UserID: userID, Role: models.RoleType(middleware.CurrentRole(ctx))}, true
}
