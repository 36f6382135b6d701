package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huddlesocial/huddle/internal/app/controllers"
	"github.com/huddlesocial/huddle/internal/app/models"
	"github.com/huddlesocial/huddle/internal/middleware"
	"github.com/huddlesocial/huddle/internal/pkg/metrics"
	"github.com/huddlesocial/huddle/internal/pkg/websocket"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Auth     *controllers.AuthController
	Event    *controllers.EventController
	Housing  *controllers.HousingController
	Course   *controllers.CourseController
	Schedule *controllers.ScheduleController
	Health   *controllers.HealthController
	Live     *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	v1.GET("/health", h.Health.Health)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}

	// --- Public read routes ---
	v1.GET("/events", h.Event.ListEvents)
	v1.GET("/events/live", h.Live.ServeLive)
	v1.GET("/events/:id", h.Event.GetEvent)
	v1.GET("/housing", h.Housing.ListHousing)
	v1.GET("/housing/:id", h.Housing.GetHousing)
	v1.GET("/courses", h.Course.ListCourses)
	v1.GET("/courses/:name", h.Course.GetCourse)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/profile", h.Auth.Profile)
		authenticated.POST("/auth/logout", h.Auth.Logout)

		events := authenticated.Group("/events")
		{
			events.POST("", h.Event.CreateEvent)
			events.PUT("/:id", h.Event.UpdateEvent)
			events.DELETE("/:id", h.Event.DeleteEvent)
		}

		housing := authenticated.Group("/housing")
		{
			housing.POST("", h.Housing.CreateHousing)
			housing.DELETE("/:id", h.Housing.DeleteHousing)
			housing.POST("/:id/photo", h.Housing.UploadPhoto)
		}

		coursesAdmin := authenticated.Group("/courses")
		coursesAdmin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
		{
			coursesAdmin.PUT("/:name", h.Course.UpsertCourse)
		}

		rater := authenticated.Group("/schedule-rater")
		{
			rater.POST("/score", h.Schedule.Score)
			rater.POST("/compose", h.Schedule.Compose)
			rater.POST("/uploads", h.Schedule.Upload)
			rater.GET("/uploads", h.Schedule.ListUploads)
			rater.GET("/uploads/:id", h.Schedule.GetUpload)
		}
	}
}
