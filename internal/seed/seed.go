// Package seed creates the development data a fresh database starts with.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/huddlesocial/huddle/internal/app/models"
	"github.com/huddlesocial/huddle/internal/app/repositories"
	"github.com/huddlesocial/huddle/internal/pkg/apperrors"
	"github.com/huddlesocial/huddle/internal/pkg/auth"
	"github.com/huddlesocial/huddle/internal/rater"
	"github.com/rs/zerolog"
)

// Options configures the default admin account.
type Options struct {
	AdminEmail    string
	AdminPassword string
	// Campus anchors the sample housing listings.
	CampusLatitude  float64
	CampusLongitude float64
}

// CreateDefaultData creates the admin user, the demo course catalog and, on an
// empty database, sample events and housing. Failures are joined into the
// returned error.
func CreateDefaultData(ctx context.Context, repos *repositories.Repositories, opts Options, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	adminID, err := ensureAdmin(ctx, repos.UserRepository, opts, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		finalErr = errors.Join(finalErr, err)
	}

	for _, course := range rater.DemoCourses() {
		course := course
		if err := repos.CourseRepository.Upsert(ctx, &course); err != nil {
			lgr.Error().Err(err).Str("course", course.Name).Msg("Error seeding course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if adminID > 0 {
		finalErr = errors.Join(finalErr, seedEvents(ctx, repos.EventRepository, adminID, lgr))
		finalErr = errors.Join(finalErr, seedHousing(ctx, repos.HousingRepository, adminID, opts, lgr))
	}

	return finalErr
}

func ensureAdmin(ctx context.Context, users *repositories.UserRepository, opts Options, lgr zerolog.Logger) (int64, error) {
	existing, err := users.GetByEmail(ctx, opts.AdminEmail)
	if err == nil {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return existing.ID, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return 0, err
	}

	hashedPassword, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return 0, err
	}

	admin := &models.User{
		Email:     opts.AdminEmail,
		Password:  hashedPassword,
		FirstName: "Huddle",
		LastName:  "Administrator",
		RoleType:  models.RoleAdmin,
		IsActive:  true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return 0, err
	}
	lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created successfully")
	return admin.ID, nil
}

func seedEvents(ctx context.Context, events *repositories.EventRepository, organizerID int64, lgr zerolog.Logger) error {
	_, total, err := events.List(ctx, models.EventFilter{}, 0, 1)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	start := time.Now().Truncate(time.Hour).Add(48 * time.Hour)
	samples := []models.Event{
		{Title: "Welcome Week Mixer", Description: "Meet other students over pizza.", Category: models.EventCategorySocial, Location: "Purdue Memorial Union", StartsAt: start, EndsAt: start.Add(2 * time.Hour)},
		{Title: "CS 18000 Exam Review", Description: "Student-led review session.", Category: models.EventCategoryAcademic, Location: "Lawson B155", StartsAt: start.Add(24 * time.Hour), EndsAt: start.Add(26 * time.Hour)},
		{Title: "Career Fair Prep", Description: "Resume reviews and mock interviews.", Category: models.EventCategoryCareer, Location: "Krach Leadership Center", StartsAt: start.Add(72 * time.Hour), EndsAt: start.Add(75 * time.Hour)},
	}

	var errs error
	for i := range samples {
		samples[i].OrganizerID = organizerID
		if err := events.Create(ctx, &samples[i]); err != nil {
			lgr.Error().Err(err).Str("title", samples[i].Title).Msg("Error seeding event")
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

func seedHousing(ctx context.Context, housing *repositories.HousingRepository, posterID int64, opts Options, lgr zerolog.Logger) error {
	existing, err := housing.ListMatching(ctx, models.HousingFilter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	lat, lng := opts.CampusLatitude, opts.CampusLongitude
	samples := []models.HousingListing{
		{Title: "Studio near campus", Address: "100 N Grant St", MonthlyRent: 850, Bedrooms: 0, Bathrooms: 1, Latitude: lat + 0.004, Longitude: lng + 0.002},
		{Title: "Two bedroom by the Levee", Address: "200 Brown St", MonthlyRent: 1250, Bedrooms: 2, Bathrooms: 2, Latitude: lat - 0.006, Longitude: lng + 0.018},
		{Title: "Shared house", Address: "300 Salisbury St", MonthlyRent: 550, Bedrooms: 4, Bathrooms: 2, Latitude: lat + 0.012, Longitude: lng - 0.009},
	}

	var errs error
	for i := range samples {
		samples[i].PosterID = posterID
		if err := housing.Create(ctx, &samples[i]); err != nil {
			lgr.Error().Err(err).Str("title", samples[i].Title).Msg("Error seeding housing listing")
			errs = errors.Join(errs, err)
		}
	}
	return errs
}
