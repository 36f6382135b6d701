package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/huddlesocial/huddle/internal/app/models"
	"github.com/huddlesocial/huddle/internal/pkg/apperrors"
	"github.com/huddlesocial/huddle/internal/pkg/geo"
	"github.com/huddlesocial/huddle/internal/pkg/websocket"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[int64]*models.User
	nextID int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]*models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	cp := *user
	f.byID[user.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) UpdateLastLogin(_ context.Context, userID int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

type fakeToken struct {
	userID  int64
	expiry  time.Time
	revoked bool
}

type fakeTokens struct {
	mu     sync.Mutex
	tokens map[string]*fakeToken
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{tokens: map[string]*fakeToken{}}
}

func (f *fakeTokens) CreateToken(_ context.Context, token string, userID int64, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = &fakeToken{userID: userID, expiry: expiry}
	return nil
}

func (f *fakeTokens) GetUserIDByToken(_ context.Context, token string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	switch {
	case !ok:
		return 0, apperrors.ErrTokenNotFound
	case t.revoked:
		return 0, apperrors.ErrTokenRevoked
	case t.expiry.Before(time.Now()):
		return 0, apperrors.ErrTokenExpired
	}
	return t.userID, nil
}

func (f *fakeTokens) RevokeToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	t.revoked = true
	return nil
}

func (f *fakeTokens) RevokeAllUserTokens(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tokens {
		if t.userID == userID {
			t.revoked = true
		}
	}
	return nil
}

type fakeEvents struct {
	byID   map[int64]*models.Event
	nextID int64
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{byID: map[int64]*models.Event{}}
}

func (f *fakeEvents) Create(_ context.Context, e *models.Event) error {
	f.nextID++
	e.ID = f.nextID
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEvents) GetByID(_ context.Context, id int64) (*models.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEvents) Update(_ context.Context, e *models.Event) error {
	if _, ok := f.byID[e.ID]; !ok {
		return apperrors.ErrEventNotFound
	}
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeEvents) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEvents) List(_ context.Context, filter models.EventFilter, offset uint64, limit int) ([]models.Event, int64, error) {
	var out []models.Event
	for _, e := range f.byID {
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.UpcomingAfter != nil && e.EndsAt.Before(*filter.UpcomingAfter) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	total := int64(len(out))
	if int(offset) >= len(out) {
		return []models.Event{}, total, nil
	}
	end := int(offset) + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

type fakeListings struct {
	byID       map[int64]*models.HousingListing
	nextID     int64
	lastFilter models.HousingFilter
}

func newFakeListings(listings ...models.HousingListing) *fakeListings {
	f := &fakeListings{byID: map[int64]*models.HousingListing{}}
	for i := range listings {
		l := listings[i]
		f.nextID++
		if l.ID == 0 {
			l.ID = f.nextID
		}
		f.byID[l.ID] = &l
	}
	return f
}

func (f *fakeListings) Create(_ context.Context, l *models.HousingListing) error {
	f.nextID++
	l.ID = f.nextID
	cp := *l
	f.byID[l.ID] = &cp
	return nil
}

func (f *fakeListings) GetByID(_ context.Context, id int64) (*models.HousingListing, error) {
	l, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrListingNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeListings) UpdatePhotoURL(_ context.Context, id int64, url string) error {
	l, ok := f.byID[id]
	if !ok {
		return apperrors.ErrListingNotFound
	}
	l.PhotoURL = &url
	return nil
}

func (f *fakeListings) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrListingNotFound
	}
	delete(f.byID, id)
	return nil
}

// ListMatching returns listings in ID order, newest (highest ID) first.
func (f *fakeListings) ListMatching(_ context.Context, filter models.HousingFilter) ([]models.HousingListing, error) {
	f.lastFilter = filter
	var out []models.HousingListing
	for _, l := range f.byID {
		if filter.MaxRent > 0 && l.MonthlyRent > filter.MaxRent {
			continue
		}
		if filter.MinBedrooms > 0 && l.Bedrooms < filter.MinBedrooms {
			continue
		}
		if filter.Area != nil && !filter.Area.Contains(geo.Point{Latitude: l.Latitude, Longitude: l.Longitude}) {
			continue
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type fakeUploads struct {
	byID   map[int64]*models.ScheduleUpload
	nextID int64
	reads  int
}

func newFakeUploads() *fakeUploads {
	return &fakeUploads{byID: map[int64]*models.ScheduleUpload{}}
}

func (f *fakeUploads) Create(_ context.Context, u *models.ScheduleUpload) error {
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUploads) GetByIDForUser(_ context.Context, id, userID int64) (*models.ScheduleUpload, error) {
	f.reads++
	u, ok := f.byID[id]
	if !ok || u.UserID != userID {
		return nil, apperrors.ErrUploadNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUploads) ListByUser(_ context.Context, userID int64, offset uint64, limit int) ([]models.ScheduleUpload, int64, error) {
	var out []models.ScheduleUpload
	for _, u := range f.byID {
		if u.UserID == userID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, int64(len(out)), nil
}

type recordingFeed struct {
	messages []*websocket.Message
}

func (r *recordingFeed) Publish(m *websocket.Message) {
	r.messages = append(r.messages, m)
}

// newFileHeader builds a multipart file header the way gin hands one to a controller.
func newFileHeader(t *testing.T, field, filename string, data []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}
