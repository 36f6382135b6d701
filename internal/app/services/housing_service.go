package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sort"
	"strings"

	appauth "github.com/huddlesocial/huddle/internal/app/auth"
	"github.com/huddlesocial/huddle/internal/app/models"
	"github.com/huddlesocial/huddle/internal/app/models/dto"
	"github.com/huddlesocial/huddle/internal/pkg/apperrors"
	"github.com/huddlesocial/huddle/internal/pkg/filestorage"
	"github.com/huddlesocial/huddle/internal/pkg/geo"
	"github.com/huddlesocial/huddle/internal/pkg/helpers"
	"github.com/rs/zerolog"
)

const (
	housingPhotoDir    = "housing"
	distanceSlackMiles = 0.05
)

var allowedPhotoExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

// HousingService manages off-campus housing listings.
type HousingService struct {
	repo    HousingStore
	authz   *appauth.AuthorizationService
	storage filestorage.FileStorage
	campus  geo.Point
	logger  zerolog.Logger
}

// NewHousingService creates a new HousingService. Distances are measured from campus.
func NewHousingService(repo HousingStore, authz *appauth.AuthorizationService, storage filestorage.FileStorage, campus geo.Point, logger zerolog.Logger) *HousingService {
	return &HousingService{
		repo:    repo,
		authz:   authz,
		storage: storage,
		campus:  campus,
		logger:  logger,
	}
}

func (s *HousingService) withDistance(l models.HousingListing) dto.HousingResponse {
	miles := geo.DistanceMiles(s.campus, geo.Point{Latitude: l.Latitude, Longitude: l.Longitude})
	return dto.HousingResponse{HousingListing: l, DistanceMiles: geo.RoundTenth(miles)}
}

// List returns one page of listings. Rent, bedroom and bounding box filters
// run in the database; exact distance filtering and sorting run here.
func (s *HousingService) List(ctx context.Context, query dto.HousingListQuery, page, size int) (*dto.HousingListResponse, error) {
	filter := models.HousingFilter{
		MaxRent:          query.MaxRent,
		MinBedrooms:      query.MinBedrooms,
		MaxDistanceMiles: query.MaxDistance,
		Sort:             models.HousingSort(query.Sort),
	}
	if filter.MaxDistanceMiles > 0 {
		// Distances are compared after rounding, so the box must reach a
		// little past the limit.
		area := geo.BoundingBox(s.campus, filter.MaxDistanceMiles+distanceSlackMiles)
		filter.Area = &area
	}

	listings, err := s.repo.ListMatching(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list housing: %w", err)
	}

	results := make([]dto.HousingResponse, 0, len(listings))
	for _, l := range listings {
		r := s.withDistance(l)
		if filter.MaxDistanceMiles > 0 && r.DistanceMiles > filter.MaxDistanceMiles {
			continue
		}
		results = append(results, r)
	}

	switch filter.Sort {
	case models.HousingSortRent:
		sort.SliceStable(results, func(i, j int) bool { return results[i].MonthlyRent < results[j].MonthlyRent })
	case models.HousingSortDistance:
		sort.SliceStable(results, func(i, j int) bool { return results[i].DistanceMiles < results[j].DistanceMiles })
	}

	_, limit := helpers.CalculateOffsetLimit(page, size)
	start, end := helpers.CalculateSliceIndices(page, limit, len(results))

	return &dto.HousingListResponse{
		Listings:   results[start:end],
		Pagination: helpers.NewPaginationInfo(int64(len(results)), page, limit),
	}, nil
}

// Get returns one listing with its distance from campus.
func (s *HousingService) Get(ctx context.Context, id int64) (*dto.HousingResponse, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r := s.withDistance(*l)
	return &r, nil
}

// Create stores a new listing posted by posterID.
func (s *HousingService) Create(ctx context.Context, posterID int64, req *dto.CreateHousingRequest) (*dto.HousingResponse, error) {
	listing := req.ToModel(posterID)
	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("listingID", listing.ID).Int64("posterID", posterID).Msg("Housing listing created")

	r := s.withDistance(*listing)
	return &r, nil
}

// Delete removes a listing the actor may change, along with its photo.
func (s *HousingService) Delete(ctx context.Context, id int64, actor appauth.Actor) error {
	listing, err := s.authz.ValidateListingOwnership(ctx, id, actor)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if listing.PhotoURL != nil {
		s.removePhoto(*listing.PhotoURL)
	}
	return nil
}

// UploadPhoto stores an image for a listing the actor may change and
// replaces any previous photo.
func (s *HousingService) UploadPhoto(ctx context.Context, id int64, actor appauth.Actor, fileHeader *multipart.FileHeader) (*dto.HousingResponse, error) {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedPhotoExtensions[ext] {
		return nil, apperrors.NewBadRequestError("photo must be a jpg, png or webp image").
			WithDetails(map[string]interface{}{"extension": ext})
	}

	listing, err := s.authz.ValidateListingOwnership(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.SaveFileWithPath(fileHeader, housingPhotoDir)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}
	if err := s.repo.UpdatePhotoURL(ctx, id, url); err != nil {
		s.removePhoto(url)
		return nil, err
	}

	if listing.PhotoURL != nil {
		s.removePhoto(*listing.PhotoURL)
	}
	listing.PhotoURL = &url

	r := s.withDistance(*listing)
	return &r, nil
}

func (s *HousingService) removePhoto(url string) {
	if err := s.storage.DeleteFile(url); err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("Could not delete listing photo")
	}
}
