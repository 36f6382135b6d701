package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huddlesocial/huddle/internal/middleware"
	"github.com/huddlesocial/huddle/internal/pkg/auth"
	"github.com/stretchr/testify/assert"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "routes", AccessTokenExp: time.Hour, TokenIssuer: "huddle.test"})
	r := gin.New()
	SetupRouter(r, Handlers{}, middleware.NewAuthMiddleware(jwt))
	return r
}

func TestSetupRouter_RegistersRoutes(t *testing.T) {
	registered := map[string]bool{}
	for _, route := range newRouter().Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /ping",
		"GET /metrics",
		"GET /api/v1/health",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/refresh",
		"GET /api/v1/events/live",
		"GET /api/v1/events/:id",
		"PUT /api/v1/events/:id",
		"POST /api/v1/housing/:id/photo",
		"PUT /api/v1/courses/:name",
		"POST /api/v1/schedule-rater/score",
		"POST /api/v1/schedule-rater/compose",
		"GET /api/v1/schedule-rater/uploads/:id",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestSetupRouter_ProtectedRoutesNeedToken(t *testing.T) {
	r := newRouter()

	for _, target := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/schedule-rater/score"},
		{http.MethodGet, "/api/v1/schedule-rater/uploads"},
		{http.MethodPost, "/api/v1/events"},
		{http.MethodPut, "/api/v1/courses/CS%2018000"},
		{http.MethodGet, "/api/v1/auth/profile"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(target.method, target.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", target.method, target.path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
