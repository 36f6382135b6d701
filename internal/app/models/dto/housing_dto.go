package dto

import "github.com/huddlesocial/huddle/internal/app/models"

// CreateHousingRequest is the body of POST /housing.
type CreateHousingRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Address     string  `json:"address" binding:"required,max=300"`
	MonthlyRent float64 `json:"monthlyRent" binding:"gte=0"`
	Bedrooms    int     `json:"bedrooms" binding:"gte=0,lte=20"`
	Bathrooms   float64 `json:"bathrooms" binding:"gte=0,lte=20"`
	Latitude    float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" binding:"gte=-180,lte=180"`
}

// ToModel copies the request into a new listing owned by posterID.
func (r *CreateHousingRequest) ToModel(posterID int64) *models.HousingListing {
	return &models.HousingListing{
		Title:       r.Title,
		Address:     r.Address,
		MonthlyRent: r.MonthlyRent,
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		PosterID:    posterID,
	}
}

// HousingListQuery holds the query string of GET /housing.
type HousingListQuery struct {
	MaxRent     float64 `form:"maxRent" binding:"gte=0"`
	MinBedrooms int     `form:"minBedrooms" binding:"gte=0"`
	MaxDistance float64 `form:"maxDistance" binding:"gte=0"`
	Sort        string  `form:"sort" binding:"omitempty,oneof=newest rent distance"`
}

// HousingResponse is a listing plus its distance from campus.
type HousingResponse struct {
	models.HousingListing
	DistanceMiles float64 `json:"distanceMiles"`
}

// HousingListResponse is one page of listings.
type HousingListResponse struct {
	Listings   []HousingResponse `json:"listings"`
	Pagination PaginationInfo    `json:"pagination"`
}
