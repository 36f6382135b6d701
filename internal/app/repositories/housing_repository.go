package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/huddlesocial/huddle/internal/app/models"
	"github.com/huddlesocial/huddle/internal/pkg/apperrors"
	"github.com/huddlesocial/huddle/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

var housingColumns = []string{
	"id", "title", "address", "monthly_rent", "bedrooms", "bathrooms", "latitude", "longitude",
	"photo_url", "poster_id", "created_at", "updated_at",
}

// HousingRepository handles housing listing database operations
type HousingRepository struct {
	db DBTX
}

// NewHousingRepository creates a new HousingRepository
func NewHousingRepository(db DBTX) *HousingRepository {
	return &HousingRepository{db: db}
}

func scanListing(row pgx.Row) (*models.HousingListing, error) {
	l := &models.HousingListing{}
	err := row.Scan(&l.ID, &l.Title, &l.Address, &l.MonthlyRent, &l.Bedrooms, &l.Bathrooms,
		&l.Latitude, &l.Longitude, &l.PhotoURL, &l.PosterID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Create inserts listing and fills in its generated ID and timestamps.
func (r *HousingRepository) Create(ctx context.Context, listing *models.HousingListing) error {
	sql, args, err := psql.Insert("housing_listings").
		Columns("title", "address", "monthly_rent", "bedrooms", "bathrooms", "latitude", "longitude", "poster_id").
		Values(listing.Title, listing.Address, listing.MonthlyRent, listing.Bedrooms, listing.Bathrooms,
			listing.Latitude, listing.Longitude, listing.PosterID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create listing SQL")
		return fmt.Errorf("failed to build create listing query: %w", err)
	}

	if err = r.db.QueryRow(ctx, sql, args...).Scan(&listing.ID, &listing.CreatedAt, &listing.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("posterID", listing.PosterID).Msg("Error executing create listing query")
		return fmt.Errorf("error creating listing: %w", err)
	}
	return nil
}

// GetByID retrieves a listing by ID
func (r *HousingRepository) GetByID(ctx context.Context, id int64) (*models.HousingListing, error) {
	sql, args, err := psql.Select(housingColumns...).From("housing_listings").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get listing query: %w", err)
	}

	listing, err := scanListing(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrListingNotFound
		}
		logger.Error().Err(err).Int64("listingID", id).Msg("Error scanning listing row")
		return nil, fmt.Errorf("error retrieving listing: %w", err)
	}
	return listing, nil
}

// UpdatePhotoURL replaces the listing's photo URL.
func (r *HousingRepository) UpdatePhotoURL(ctx context.Context, id int64, photoURL string) error {
	sql, args, err := psql.Update("housing_listings").
		Set("photo_url", photoURL).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update photo query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("listingID", id).Msg("Error updating listing photo")
		return fmt.Errorf("error updating listing photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrListingNotFound
	}
	return nil
}

// Delete removes a listing
func (r *HousingRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("housing_listings").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete listing query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("listingID", id).Msg("Error executing delete listing query")
		return fmt.Errorf("error deleting listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrListingNotFound
	}
	return nil
}

// ListMatching returns every listing passing the rent, bedroom and area
// filters, newest first. Exact distance filtering and the remaining sorts need
// the campus point and happen in the service.
func (r *HousingRepository) ListMatching(ctx context.Context, filter models.HousingFilter) ([]models.HousingListing, error) {
	where := squirrel.And{}
	if filter.MaxRent > 0 {
		where = append(where, squirrel.LtOrEq{"monthly_rent": filter.MaxRent})
	}
	if filter.MinBedrooms > 0 {
		where = append(where, squirrel.GtOrEq{"bedrooms": filter.MinBedrooms})
	}
	if area := filter.Area; area != nil {
		where = append(where,
			squirrel.GtOrEq{"latitude": area.MinLatitude},
			squirrel.LtOrEq{"latitude": area.MaxLatitude})
		if !area.AllLongitudes {
			where = append(where,
				squirrel.GtOrEq{"longitude": area.MinLongitude},
				squirrel.LtOrEq{"longitude": area.MaxLongitude})
		}
	}

	sql, args, err := psql.Select(housingColumns...).From("housing_listings").Where(where).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list listings query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying listings")
		return nil, fmt.Errorf("error listing housing: %w", err)
	}
	defer rows.Close()

	listings := []models.HousingListing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning listing row")
			return nil, fmt.Errorf("error scanning listing: %w", err)
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}
	return listings, nil
}
