package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	appauth "github.com/huddlesocial/huddle/internal/app/auth"
	"github.com/huddlesocial/huddle/internal/app/models"
	"github.com/huddlesocial/huddle/internal/app/models/dto"
	"github.com/huddlesocial/huddle/internal/pkg/apperrors"
	"github.com/huddlesocial/huddle/internal/pkg/filestorage"
	"github.com/huddlesocial/huddle/internal/pkg/geo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUploadsURL = "http://localhost:8080/uploads"

var testCampus = geo.Point{Latitude: 40.4237, Longitude: -86.9212}

func newTestHousingService(t *testing.T) (*HousingService, *fakeListings, string) {
	t.Helper()
	listings := newFakeListings(
		models.HousingListing{Title: "On campus", MonthlyRent: 900, Bedrooms: 2, Latitude: 40.4237, Longitude: -86.9212, PosterID: 5},
		models.HousingListing{Title: "Levee", MonthlyRent: 600, Bedrooms: 1, Latitude: 40.4737, Longitude: -86.9212, PosterID: 5},
		models.HousingListing{Title: "Out of town", MonthlyRent: 500, Bedrooms: 3, Latitude: 41.4237, Longitude: -86.9212, PosterID: 6},
	)
	dir := t.TempDir()
	storage, err := filestorage.NewLocalStorage(dir, testUploadsURL)
	require.NoError(t, err)

	authz := appauth.NewAuthorizationService(newFakeEvents(), listings)
	return NewHousingService(listings, authz, storage, testCampus, zerolog.Nop()), listings, dir
}

func titles(listings []dto.HousingResponse) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.Title)
	}
	return out
}

func TestHousingService_ListSorting(t *testing.T) {
	svc, _, _ := newTestHousingService(t)
	ctx := context.Background()

	newest, err := svc.List(ctx, dto.HousingListQuery{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Out of town", "Levee", "On campus"}, titles(newest.Listings))

	byDistance, err := svc.List(ctx, dto.HousingListQuery{Sort: "distance"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"On campus", "Levee", "Out of town"}, titles(byDistance.Listings))
	assert.Equal(t, 0.0, byDistance.Listings[0].DistanceMiles)
	assert.InDelta(t, 3.5, byDistance.Listings[1].DistanceMiles, 0.1)

	byRent, err := svc.List(ctx, dto.HousingListQuery{Sort: "rent"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Out of town", "Levee", "On campus"}, titles(byRent.Listings))
}

func TestHousingService_ListFilters(t *testing.T) {
	svc, _, _ := newTestHousingService(t)
	ctx := context.Background()

	near, err := svc.List(ctx, dto.HousingListQuery{MaxDistance: 5}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Levee", "On campus"}, titles(near.Listings))
	assert.Equal(t, int64(2), near.Pagination.TotalItems)

	cheap, err := svc.List(ctx, dto.HousingListQuery{MaxRent: 700, Sort: "distance"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Levee", "Out of town"}, titles(cheap.Listings))

	page2, err := svc.List(ctx, dto.HousingListQuery{Sort: "distance"}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Out of town"}, titles(page2.Listings))

	beyond, err := svc.List(ctx, dto.HousingListQuery{}, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond.Listings)
}

func TestHousingService_ListBoundsDistanceInDatabase(t *testing.T) {
	svc, listings, _ := newTestHousingService(t)
	ctx := context.Background()

	_, err := svc.List(ctx, dto.HousingListQuery{}, 1, 10)
	require.NoError(t, err)
	assert.Nil(t, listings.lastFilter.Area)

	near, err := svc.List(ctx, dto.HousingListQuery{MaxDistance: 3.5}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Levee", "On campus"}, titles(near.Listings))

	area := listings.lastFilter.Area
	require.NotNil(t, area)
	assert.False(t, area.AllLongitudes)
	assert.True(t, area.Contains(geo.Point{Latitude: 40.4737, Longitude: -86.9212}))
	assert.False(t, area.Contains(geo.Point{Latitude: 41.4237, Longitude: -86.9212}))
}

func TestHousingService_CreateAndGet(t *testing.T) {
	svc, _, _ := newTestHousingService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, 9, &dto.CreateHousingRequest{
		Title: "Chauncey loft", Address: "1 State St", MonthlyRent: 1100, Bedrooms: 1, Bathrooms: 1,
		Latitude: 40.4237, Longitude: -86.9212,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), created.PosterID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chauncey loft", got.Title)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrListingNotFound)
}

func diskPath(dir, url string) string {
	return filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(url, testUploadsURL+"/")))
}

func TestHousingService_UploadPhoto(t *testing.T) {
	svc, listings, dir := newTestHousingService(t)
	ctx := context.Background()
	owner := appauth.Actor{UserID: 5, Role: models.RoleStudent}

	_, err := svc.UploadPhoto(ctx, 1, owner, newFileHeader(t, "photo", "anim.gif", []byte("GIF89a")))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	stranger := appauth.Actor{UserID: 6, Role: models.RoleStudent}
	_, err = svc.UploadPhoto(ctx, 1, stranger, newFileHeader(t, "photo", "front.png", []byte("png")))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	first, err := svc.UploadPhoto(ctx, 1, owner, newFileHeader(t, "photo", "front.PNG", []byte("png-1")))
	require.NoError(t, err)
	require.NotNil(t, first.PhotoURL)
	assert.True(t, strings.HasPrefix(*first.PhotoURL, testUploadsURL+"/housing/"))
	assert.True(t, strings.HasSuffix(*first.PhotoURL, ".png"))
	assert.FileExists(t, diskPath(dir, *first.PhotoURL))

	second, err := svc.UploadPhoto(ctx, 1, owner, newFileHeader(t, "photo", "back.jpg", []byte("jpg-2")))
	require.NoError(t, err)
	assert.Equal(t, *second.PhotoURL, *listings.byID[1].PhotoURL)
	assert.FileExists(t, diskPath(dir, *second.PhotoURL))
	assert.NoFileExists(t, diskPath(dir, *first.PhotoURL))

	require.NoError(t, svc.Delete(ctx, 1, owner))
	_, statErr := os.Stat(diskPath(dir, *second.PhotoURL))
	assert.True(t, os.IsNotExist(statErr))
}

func TestHousingService_AdminMayDelete(t *testing.T) {
	svc, listings, _ := newTestHousingService(t)
	admin := appauth.Actor{UserID: 1, Role: models.RoleAdmin}

	require.NoError(t, svc.Delete(context.Background(), 3, admin))
	assert.NotContains(t, listings.byID, int64(3))
}
