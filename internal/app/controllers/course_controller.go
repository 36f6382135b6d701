package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huddlesocial/huddle/internal/app/models/dto"
	"github.com/huddlesocial/huddle/internal/middleware"
	"github.com/huddlesocial/huddle/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// CourseController serves the course catalog
type CourseController struct {
	courseService CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger,
	}
}

// ListCourses godoc
// @Summary List courses
// @Tags courses
// @Produce json
// @Param search query string false "Course name contains"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse}
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.courseService.List(ctx.Request.Context(), ctx.Query("search"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetCourse godoc
// @Summary Get a course
// @Tags courses
// @Produce json
// @Param name path string true "Course name, e.g. CS 18000"
// @Success 200 {object} dto.APIResponse{data=rater.CourseRecord}
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{name} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.courseService.Get(ctx.Request.Context(), ctx.Param("name"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// UpsertCourse godoc
// @Summary Create or replace a course
// @Description Admin only. Replaces the grade data, reviews and summary of the course.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Course name, e.g. CS 18000"
// @Param request body dto.UpsertCourseRequest true "Course data"
// @Success 200 {object} dto.APIResponse{data=rater.CourseRecord}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /courses/{name} [put]
func (c *CourseController) UpsertCourse(ctx *gin.Context) {
	var req dto.UpsertCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	course, err := c.courseService.Upsert(ctx.Request.Context(), ctx.Param("name"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}
