package models

import (
	"time"

	"github.com/huddlesocial/huddle/internal/pkg/geo"
)

// HousingListing is a row of the 'housing_listings' table.
type HousingListing struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Address     string    `json:"address" db:"address"`
	MonthlyRent float64   `json:"monthlyRent" db:"monthly_rent"`
	Bedrooms    int       `json:"bedrooms" db:"bedrooms"`
	Bathrooms   float64   `json:"bathrooms" db:"bathrooms"`
	Latitude    float64   `json:"latitude" db:"latitude"`
	Longitude   float64   `json:"longitude" db:"longitude"`
	PhotoURL    *string   `json:"photoUrl,omitempty" db:"photo_url"`
	PosterID    int64     `json:"posterId" db:"poster_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// HousingSort orders a housing listing page.
type HousingSort string

const (
	HousingSortNewest   HousingSort = "newest"
	HousingSortRent     HousingSort = "rent"
	HousingSortDistance HousingSort = "distance"
)

// HousingFilter narrows a housing listing. Zero values disable a filter.
type HousingFilter struct {
	MaxRent     float64
	MinBedrooms int
	// MaxDistanceMiles is applied after distances are derived from the campus point.
	MaxDistanceMiles float64
	// Area prefilters rows in the database when a distance limit is set.
	Area *geo.Box
	Sort HousingSort
}
