package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huddlesocial/huddle/internal/app/models/dto"
	"github.com/huddlesocial/huddle/internal/middleware"
	"github.com/huddlesocial/huddle/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// ScheduleController exposes the schedule rater
type ScheduleController struct {
	scheduleService ScheduleService
	logger          zerolog.Logger
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(scheduleService ScheduleService, logger zerolog.Logger) *ScheduleController {
	return &ScheduleController{
		scheduleService: scheduleService,
		logger:          logger,
	}
}

// Score godoc
// @Summary Score a schedule document
// @Description Parses a ScheduleRaterJson document and recomputes its final score with the given weightage. A missing weightage uses the even split.
// @Tags schedule-rater
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ScoreRequest true "Schedule and weightage"
// @Success 200 {object} dto.APIResponse{data=dto.ScoreResponse}
// @Failure 400 {object} dto.ErrorResponse "Weightage does not sum to 100 or the schedule is invalid"
// @Router /schedule-rater/score [post]
func (c *ScheduleController) Score(ctx *gin.Context) {
	var req dto.ScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	resp, err := c.scheduleService.Score(ctx.Request.Context(), req.Schedule, req.Weightage)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Schedule rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Compose godoc
// @Summary Score a schedule built from the course catalog
// @Tags schedule-rater
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ComposeRequest true "Course names, aggregate scores and weightage"
// @Success 200 {object} dto.APIResponse{data=dto.ScoreResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Unknown course"
// @Router /schedule-rater/compose [post]
func (c *ScheduleController) Compose(ctx *gin.Context) {
	var req dto.ComposeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	resp, err := c.scheduleService.Compose(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Upload godoc
// @Summary Upload a schedule document
// @Description Validates and stores a ScheduleRaterJson file, then scores it. Weights may be sent as form fields.
// @Tags schedule-rater
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "ScheduleRaterJson document"
// @Param rmp formData int false "RMP weight"
// @Param boilerGrades formData int false "BoilerGrades weight"
// @Param hecticness formData int false "Hecticness weight"
// @Success 201 {object} dto.APIResponse{data=dto.UploadResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 413 {object} dto.ErrorResponse
// @Router /schedule-rater/uploads [post]
func (c *ScheduleController) Upload(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid or missing file").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	var weights dto.WeightageQuery
	if err := ctx.ShouldBind(&weights); err != nil {
		respondBindError(ctx, err)
		return
	}

	resp, err := c.scheduleService.Upload(ctx.Request.Context(), actor.UserID, file, weights.Resolve())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// ListUploads godoc
// @Summary List the caller's uploads
// @Tags schedule-rater
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.UploadListResponse}
// @Router /schedule-rater/uploads [get]
func (c *ScheduleController) ListUploads(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.scheduleService.ListUploads(ctx.Request.Context(), actor.UserID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetUpload godoc
// @Summary Rescore an upload
// @Description Returns a stored upload scored with the weightage in the query. All three weights go together; none means the even split.
// @Tags schedule-rater
// @Produce json
// @Security BearerAuth
// @Param id path int true "Upload ID"
// @Param rmp query int false "RMP weight"
// @Param boilerGrades query int false "BoilerGrades weight"
// @Param hecticness query int false "Hecticness weight"
// @Success 200 {object} dto.APIResponse{data=dto.ScoreResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /schedule-rater/uploads/{id} [get]
func (c *ScheduleController) GetUpload(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		respondInvalidID(ctx, "id")
		return
	}

	var weights dto.WeightageQuery
	if err := ctx.ShouldBindQuery(&weights); err != nil {
		respondBindError(ctx, err)
		return
	}

	resp, err := c.scheduleService.GetUpload(ctx.Request.Context(), actor.UserID, id, weights.Resolve())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
