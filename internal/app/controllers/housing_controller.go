package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huddlesocial/huddle/internal/app/models/dto"
	"github.com/huddlesocial/huddle/internal/middleware"
	"github.com/huddlesocial/huddle/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

// HousingController handles off-campus housing listings
type HousingController struct {
	housingService HousingService
	logger         zerolog.Logger
}

// NewHousingController creates a new HousingController
func NewHousingController(housingService HousingService, logger zerolog.Logger) *HousingController {
	return &HousingController{
		housingService: housingService,
		logger:         logger,
	}
}

// ListHousing godoc
// @Summary List housing
// @Description Lists housing listings with their distance from campus
// @Tags housing
// @Produce json
// @Param maxRent query number false "Maximum monthly rent"
// @Param minBedrooms query int false "Minimum bedrooms"
// @Param maxDistance query number false "Maximum distance from campus in miles"
// @Param sort query string false "newest (default), rent or distance"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.HousingListResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /housing [get]
func (c *HousingController) ListHousing(ctx *gin.Context) {
	var query dto.HousingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		respondBindError(ctx, err)
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.housingService.List(ctx.Request.Context(), query, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetHousing godoc
// @Summary Get a housing listing
// @Tags housing
// @Produce json
// @Param id path int true "Listing ID"
// @Success 200 {object} dto.APIResponse{data=dto.HousingResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /housing/{id} [get]
func (c *HousingController) GetHousing(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		respondInvalidID(ctx, "id")
		return
	}

	listing, err := c.housingService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(listing))
}

// CreateHousing godoc
// @Summary Post a housing listing
// @Tags housing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateHousingRequest true "Listing"
// @Success 201 {object} dto.APIResponse{data=dto.HousingResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /housing [post]
func (c *HousingController) CreateHousing(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req dto.CreateHousingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	listing, err := c.housingService.Create(ctx.Request.Context(), actor.UserID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(listing))
}

// DeleteHousing godoc
// @Summary Delete a housing listing
// @Description Only the poster or an admin may delete a listing
// @Tags housing
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /housing/{id} [delete]
func (c *HousingController) DeleteHousing(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		respondInvalidID(ctx, "id")
		return
	}

	if err := c.housingService.Delete(ctx.Request.Context(), id, actor); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "Listing deleted"}))
}

// UploadPhoto godoc
// @Summary Upload a listing photo
// @Description Replaces the photo of a listing. Accepts jpg, png and webp.
// @Tags housing
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param photo formData file true "Photo"
// @Success 200 {object} dto.APIResponse{data=dto.HousingResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /housing/{id}/photo [post]
func (c *HousingController) UploadPhoto(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		respondInvalidID(ctx, "id")
		return
	}

	photo, err := ctx.FormFile("photo")
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid or missing photo").WithField("photo")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	listing, err := c.housingService.UploadPhoto(ctx.Request.Context(), id, actor, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(listing))
}
