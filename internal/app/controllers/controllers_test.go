package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appauth "github.com/huddlesocial/huddle/internal/app/auth"
	"github.com/huddlesocial/huddle/internal/app/models"
	"github.com/huddlesocial/huddle/internal/app/models/dto"
	"github.com/huddlesocial/huddle/internal/middleware"
	"github.com/huddlesocial/huddle/internal/pkg/apperrors"
	"github.com/huddlesocial/huddle/internal/pkg/validation"
	"github.com/huddlesocial/huddle/internal/rater"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validation.RegisterRules(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// asUser stands in for JWTAuth.
func asUser(id int64, role models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextRoleType, string(role))
		c.Next()
	}
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorCode {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error, w.Body.String())
	return resp.Error.Code
}

type stubScheduleService struct {
	gotRaw     json.RawMessage
	gotWeights *rater.Weightage
	gotUser    int64
	gotUpload  int64
	gotFile    string
	err        error
}

func (s *stubScheduleService) Score(_ context.Context, raw json.RawMessage, w *rater.Weightage) (*dto.ScoreResponse, error) {
	s.gotRaw, s.gotWeights = raw, w
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ScoreResponse{Weightage: rater.DefaultWeightage(), Parsed: &rater.ParsedSchedule{}}, nil
}

func (s *stubScheduleService) Compose(_ context.Context, req *dto.ComposeRequest) (*dto.ScoreResponse, error) {
	s.gotWeights = req.Weightage
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ScoreResponse{Weightage: rater.DefaultWeightage(), Parsed: &rater.ParsedSchedule{}}, nil
}

func (s *stubScheduleService) Upload(_ context.Context, userID int64, fh *multipart.FileHeader, w *rater.Weightage) (*dto.UploadResponse, error) {
	s.gotUser, s.gotFile, s.gotWeights = userID, fh.Filename, w
	if s.err != nil {
		return nil, s.err
	}
	return &dto.UploadResponse{UploadID: 3, FileURL: "http://localhost/uploads/schedules/a.json"}, nil
}

func (s *stubScheduleService) GetUpload(_ context.Context, userID, uploadID int64, w *rater.Weightage) (*dto.ScoreResponse, error) {
	s.gotUser, s.gotUpload, s.gotWeights = userID, uploadID, w
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ScoreResponse{Weightage: *w, Parsed: &rater.ParsedSchedule{}}, nil
}

func (s *stubScheduleService) ListUploads(_ context.Context, userID int64, page, size int) (*dto.UploadListResponse, error) {
	s.gotUser = userID
	return &dto.UploadListResponse{Uploads: []dto.UploadSummary{}}, s.err
}

func scheduleRouter(svc ScheduleService, authed bool) *gin.Engine {
	c := NewScheduleController(svc, zerolog.Nop())
	r := gin.New()
	g := r.Group("/schedule-rater")
	if authed {
		g.Use(asUser(5, models.RoleStudent))
	}
	g.POST("/score", c.Score)
	g.POST("/compose", c.Compose)
	g.POST("/uploads", c.Upload)
	g.GET("/uploads", c.ListUploads)
	g.GET("/uploads/:id", c.GetUpload)
	return r
}

func TestScheduleController_Score(t *testing.T) {
	svc := &stubScheduleService{}
	r := scheduleRouter(svc, true)

	w := doJSON(r, http.MethodPost, "/schedule-rater/score",
		`{"schedule": {"rmp_final_score": 0.5}, "weightage": {"rmp": 50, "boilerGrades": 25, "hecticness": 25}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"rmp_final_score": 0.5}`, string(svc.gotRaw))
	require.NotNil(t, svc.gotWeights)
	assert.Equal(t, rater.Weightage{RMP: 50, BoilerGrades: 25, Hecticness: 25}, *svc.gotWeights)

	w = doJSON(r, http.MethodPost, "/schedule-rater/score", `{"weightage": {"rmp": 100}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, errorCode(t, w))

	svc.err = apperrors.ErrInvalidWeightage
	w = doJSON(r, http.MethodPost, "/schedule-rater/score", `{"schedule": {}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidWeightage, errorCode(t, w))
	assert.Nil(t, svc.gotWeights)
}

func TestScheduleController_Compose(t *testing.T) {
	svc := &stubScheduleService{}
	r := scheduleRouter(svc, true)

	w := doJSON(r, http.MethodPost, "/schedule-rater/compose",
		`{"courses": ["CS 18000", "MA 26100"], "scores": {"rmp": 0.5, "boilerGrades": 0.5, "hecticness": 0.5}}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/schedule-rater/compose", `{"courses": ["not a course"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, errorCode(t, w))

	w = doJSON(r, http.MethodPost, "/schedule-rater/compose", `{"courses": ["CS 18000"], "scores": {"rmp": 2}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = apperrors.ErrCourseNotFound
	w = doJSON(r, http.MethodPost, "/schedule-rater/compose", `{"courses": ["CS 99999"]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartBody(t *testing.T, fields map[string]string, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestScheduleController_Upload(t *testing.T) {
	svc := &stubScheduleService{}
	r := scheduleRouter(svc, true)

	body, ct := multipartBody(t, map[string]string{"rmp": "40", "boilerGrades": "40", "hecticness": "20"}, "fall.json", `{}`)
	req := httptest.NewRequest(http.MethodPost, "/schedule-rater/uploads", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(5), svc.gotUser)
	assert.Equal(t, "fall.json", svc.gotFile)
	require.NotNil(t, svc.gotWeights)
	assert.Equal(t, rater.Weightage{RMP: 40, BoilerGrades: 40, Hecticness: 20}, *svc.gotWeights)

	body, ct = multipartBody(t, nil, "", "")
	req = httptest.NewRequest(http.MethodPost, "/schedule-rater/uploads", body)
	req.Header.Set("Content-Type", ct)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = apperrors.ErrUploadTooLarge
	body, ct = multipartBody(t, nil, "big.json", `{}`)
	req = httptest.NewRequest(http.MethodPost, "/schedule-rater/uploads", body)
	req.Header.Set("Content-Type", ct)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Nil(t, svc.gotWeights)
}

func TestScheduleController_GetUpload(t *testing.T) {
	svc := &stubScheduleService{}
	r := scheduleRouter(svc, true)

	w := doJSON(r, http.MethodGet, "/schedule-rater/uploads/9?rmp=20&boilerGrades=30&hecticness=50", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(9), svc.gotUpload)
	assert.Equal(t, rater.Weightage{RMP: 20, BoilerGrades: 30, Hecticness: 50}, *svc.gotWeights)

	w = doJSON(r, http.MethodGet, "/schedule-rater/uploads/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/schedule-rater/uploads/9?rmp=ten", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = apperrors.ErrUploadNotFound
	w = doJSON(r, http.MethodGet, "/schedule-rater/uploads/10", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleController_RequiresUser(t *testing.T) {
	r := scheduleRouter(&stubScheduleService{}, false)

	w := doJSON(r, http.MethodGet, "/schedule-rater/uploads", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeUnauthorized, errorCode(t, w))
}

type stubEventService struct {
	actor appauth.Actor
	err   error
}

func (s *stubEventService) List(context.Context, dto.EventListQuery, int, int) (*dto.EventListResponse, error) {
	return &dto.EventListResponse{Events: []models.Event{}}, s.err
}

func (s *stubEventService) Get(_ context.Context, id int64) (*models.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Event{ID: id, Title: "Boiler Gold Rush"}, nil
}

func (s *stubEventService) Create(_ context.Context, organizerID int64, req *dto.EventRequest) (*models.Event, error) {
	return req.ToModel(organizerID), s.err
}

func (s *stubEventService) Update(_ context.Context, id int64, actor appauth.Actor, req *dto.EventRequest) (*models.Event, error) {
	s.actor = actor
	if s.err != nil {
		return nil, s.err
	}
	return req.ToModel(actor.UserID), nil
}

func (s *stubEventService) Delete(_ context.Context, _ int64, actor appauth.Actor) error {
	s.actor = actor
	return s.err
}

func TestEventController(t *testing.T) {
	svc := &stubEventService{}
	c := NewEventController(svc, zerolog.Nop())
	r := gin.New()
	r.GET("/events", c.ListEvents)
	r.GET("/events/:id", c.GetEvent)
	authed := r.Group("/events", asUser(8, models.RoleAdmin))
	authed.POST("", c.CreateEvent)
	authed.PUT("/:id", c.UpdateEvent)
	authed.DELETE("/:id", c.DeleteEvent)

	start := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	event := `{"title": "Trivia", "category": "SOCIAL", "location": "PMU", "startsAt": "` +
		start.Format(time.RFC3339) + `", "endsAt": "` + start.Add(2*time.Hour).Format(time.RFC3339) + `"}`

	w := doJSON(r, http.MethodPost, "/events", event)
	assert.Equal(t, http.StatusCreated, w.Code)

	backwards := `{"title": "Trivia", "category": "SOCIAL", "location": "PMU", "startsAt": "` +
		start.Format(time.RFC3339) + `", "endsAt": "` + start.Add(-time.Hour).Format(time.RFC3339) + `"}`
	w = doJSON(r, http.MethodPost, "/events", backwards)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, errorCode(t, w))

	w = doJSON(r, http.MethodGet, "/events?category=PARTY", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/events/0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodDelete, "/events/4", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, appauth.Actor{UserID: 8, Role: models.RoleAdmin}, svc.actor)

	svc.err = apperrors.ErrPermissionDenied
	w = doJSON(r, http.MethodPut, "/events/4", event)
	assert.Equal(t, http.StatusForbidden, w.Code)

	svc.err = apperrors.ErrEventNotFound
	w = doJSON(r, http.MethodGet, "/events/4", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type stubAuthService struct{ err error }

func (s *stubAuthService) Register(_ context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AuthResponse{User: dto.UserResponse{Email: req.Email}}, nil
}

func (s *stubAuthService) Login(context.Context, *dto.LoginRequest) (*dto.AuthResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AuthResponse{Token: dto.TokenResponse{AccessToken: "tok", TokenType: "Bearer"}}, nil
}

func (s *stubAuthService) RefreshToken(context.Context, string) (*dto.AuthResponse, error) {
	return &dto.AuthResponse{}, s.err
}

func (s *stubAuthService) GetProfile(_ context.Context, userID int64) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: userID}, s.err
}

func (s *stubAuthService) Logout(context.Context, int64) error { return s.err }

func TestAuthController(t *testing.T) {
	svc := &stubAuthService{}
	c := NewAuthController(svc, zerolog.Nop())
	r := gin.New()
	r.POST("/auth/register", c.Register)
	r.POST("/auth/login", c.Login)
	r.GET("/auth/profile", asUser(12, models.RoleStudent), c.Profile)
	r.POST("/auth/logout", c.Logout)

	w := doJSON(r, http.MethodPost, "/auth/register",
		`{"email": "pete@purdue.edu", "password": "boiler123", "firstName": "Purdue", "lastName": "Pete"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/auth/register", `{"email": "not-an-email", "password": "x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error.Message)

	w = doJSON(r, http.MethodGet, "/auth/profile", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":12`)

	w = doJSON(r, http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	svc.err = apperrors.ErrInvalidCredentials
	w = doJSON(r, http.MethodPost, "/auth/login", `{"email": "pete@purdue.edu", "password": "wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, errorCode(t, w))
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthController(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name     string
		db       Pinger
		cache    Pinger
		status   int
		expected string
	}{
		{"all up", up, up, http.StatusOK, "ok"},
		{"cache down", up, down, http.StatusOK, "degraded"},
		{"database down", down, up, http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewHealthController(zerolog.Nop(),
				HealthCheck{Name: "database", Target: tt.db, Required: true},
				HealthCheck{Name: "redis", Target: tt.cache},
			)
			r := gin.New()
			r.GET("/health", c.Health)

			w := doJSON(r, http.MethodGet, "/health", "")
			assert.Equal(t, tt.status, w.Code)

			var body struct {
				Success bool           `json:"success"`
				Data    HealthResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expected, body.Data.Status)
			assert.Equal(t, tt.status == http.StatusOK, body.Success)
			assert.Len(t, body.Data.Checks, 2)
		})
	}
}
