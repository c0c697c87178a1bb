package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dipkrao/ECommerce-Backend/models"
)

// fakeBannerStore is an in-memory bannerStore mirroring the repository's
// ordering (order asc, created_at desc).
type fakeBannerStore struct {
	banners map[primitive.ObjectID]*models.Banner
}

func newFakeBannerStore() *fakeBannerStore {
	return &fakeBannerStore{banners: make(map[primitive.ObjectID]*models.Banner)}
}

func (f *fakeBannerStore) List(_ context.Context) ([]models.Banner, error) {
	out := make([]models.Banner, 0, len(f.banners))
	for _, b := range f.banners {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeBannerStore) ListVisible(ctx context.Context, now time.Time) ([]models.Banner, error) {
	all, _ := f.List(ctx)
	visible := make([]models.Banner, 0, len(all))
	for _, b := range all {
		if models.VisibleAt(b.IsActive, b.StartDate, b.EndDate, now) {
			visible = append(visible, b)
		}
	}
	return visible, nil
}

func (f *fakeBannerStore) Get(_ context.Context, id primitive.ObjectID) (*models.Banner, error) {
	b, ok := f.banners[id]
	if !ok {
		return nil, ErrBannerNotFound
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBannerStore) Insert(_ context.Context, banner *models.Banner) error {
	banner.ID = primitive.NewObjectID()
	now := time.Now()
	banner.CreatedAt = now
	banner.UpdatedAt = now
	clone := *banner
	f.banners[banner.ID] = &clone
	return nil
}

func (f *fakeBannerStore) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Banner, error) {
	return f.UpdateWithUnset(ctx, id, set, nil)
}

func (f *fakeBannerStore) UpdateWithUnset(_ context.Context, id primitive.ObjectID, set bson.M, unset bson.M) (*models.Banner, error) {
	b, ok := f.banners[id]
	if !ok {
		return nil, ErrBannerNotFound
	}
	for key, value := range set {
		switch key {
		case "title":
			b.Title = value.(string)
		case "description":
			b.Description = value.(string)
		case "link":
			b.Link = value.(string)
		case "button_text":
			b.ButtonText = value.(string)
		case "image":
			b.Image = value.(string)
		case "is_active":
			b.IsActive = value.(bool)
		case "order":
			b.Order = value.(int)
		case "start_date":
			b.StartDate = value.(time.Time)
		case "end_date":
			d := value.(time.Time)
			b.EndDate = &d
		}
	}
	if _, ok := unset["end_date"]; ok {
		b.EndDate = nil
	}
	b.UpdatedAt = time.Now()
	clone := *b
	return &clone, nil
}

func (f *fakeBannerStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.banners[id]; !ok {
		return ErrBannerNotFound
	}
	delete(f.banners, id)
	return nil
}

func (f *fakeBannerStore) SetOrder(_ context.Context, id primitive.ObjectID, order int) error {
	b, ok := f.banners[id]
	if !ok {
		return ErrBannerNotFound
	}
	b.Order = order
	b.UpdatedAt = time.Now()
	return nil
}

func bannerFormFixture() models.BannerForm {
	return models.BannerForm{
		Title:       "Summer sale",
		Description: "All swimwear 20% off",
	}
}

func TestParseDateLayouts(t *testing.T) {
	cases := []struct {
		value string
		want  time.Time
	}{
		{"2024-06-01T12:30:00Z", time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)},
		{"2024-06-01T12:30:00.500Z", time.Date(2024, 6, 1, 12, 30, 0, 500000000, time.UTC)},
		{"2024-06-01T12:30:00", time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)},
		{"2024-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		got, err := parseDate("startDate", tc.value)
		require.NoError(t, err, "value %q", tc.value)
		assert.True(t, tc.want.Equal(got), "value %q: got %s", tc.value, got)
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, value := range []string{"not-a-date", "01/06/2024", "2024-13-45"} {
		_, err := parseDate("endDate", value)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "value %q", value)
		assert.Equal(t, "endDate", validationErr.Field)
	}
}

func TestCreateRequiresImage(t *testing.T) {
	svc := NewBannerService(nil, nil)

	_, err := svc.Create(context.Background(), bannerFormFixture(), nil)
	assert.ErrorIs(t, err, ErrImageRequired)
}

func TestCreateRejectsBadDatesBeforeSavingImage(t *testing.T) {
	store := newTestStore(t, 5*1024*1024)
	svc := NewBannerService(nil, store)

	form := bannerFormFixture()
	bad := "yesterday"
	form.StartDate = &bad

	_, err := svc.Create(context.Background(), form, uploadedFile(t, "hero.png", "image/png", []byte("png")))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assertDirEmpty(t, store, BannerImageKind)
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc := NewBannerService(newFakeBannerStore(), newTestStore(t, 5*1024*1024))

	banner, err := svc.Create(context.Background(), bannerFormFixture(), uploadedFile(t, "hero.png", "image/png", []byte("png")))
	require.NoError(t, err)

	assert.Equal(t, models.DefaultButtonText, banner.ButtonText)
	assert.True(t, banner.IsActive)
	assert.True(t, banner.IsCurrentlyActive)
	assert.Nil(t, banner.EndDate)
	assert.NotEmpty(t, banner.Image)
}

func TestUpdateReplacesImageFile(t *testing.T) {
	store := newTestStore(t, 5*1024*1024)
	svc := NewBannerService(newFakeBannerStore(), store)

	banner, err := svc.Create(context.Background(), bannerFormFixture(), uploadedFile(t, "old.png", "image/png", []byte("old")))
	require.NoError(t, err)
	oldPath := banner.Image

	updated, err := svc.Update(context.Background(), banner.ID, models.BannerUpdateForm{}, uploadedFile(t, "new.png", "image/png", []byte("new")))
	require.NoError(t, err)

	assert.NotEqual(t, oldPath, updated.Image)
	assert.False(t, store.Exists(oldPath), "replaced image should be unlinked")
	assert.True(t, store.Exists(updated.Image))
}

func TestUpdateClearsEndDate(t *testing.T) {
	svc := NewBannerService(newFakeBannerStore(), newTestStore(t, 5*1024*1024))

	form := bannerFormFixture()
	end := "2030-01-01"
	form.EndDate = &end
	banner, err := svc.Create(context.Background(), form, uploadedFile(t, "hero.png", "image/png", []byte("png")))
	require.NoError(t, err)
	require.NotNil(t, banner.EndDate)

	cleared := "null"
	updated, err := svc.Update(context.Background(), banner.ID, models.BannerUpdateForm{EndDate: &cleared}, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.EndDate)
}

func TestDeleteRemovesImageFile(t *testing.T) {
	store := newTestStore(t, 5*1024*1024)
	repo := newFakeBannerStore()
	svc := NewBannerService(repo, store)

	banner, err := svc.Create(context.Background(), bannerFormFixture(), uploadedFile(t, "hero.png", "image/png", []byte("png")))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), banner.ID))
	assert.False(t, store.Exists(banner.Image))

	_, err = svc.Get(context.Background(), banner.ID)
	assert.ErrorIs(t, err, ErrBannerNotFound)
}

func TestToggleFlipsOnlyActiveFlag(t *testing.T) {
	svc := NewBannerService(newFakeBannerStore(), newTestStore(t, 5*1024*1024))

	banner, err := svc.Create(context.Background(), bannerFormFixture(), uploadedFile(t, "hero.png", "image/png", []byte("png")))
	require.NoError(t, err)
	require.True(t, banner.IsActive)

	toggled, err := svc.Toggle(context.Background(), banner.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)
	assert.False(t, toggled.IsCurrentlyActive)
	assert.Equal(t, banner.Title, toggled.Title)

	restored, err := svc.Toggle(context.Background(), banner.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsActive)
}

func TestReorderBestEffort(t *testing.T) {
	svc := NewBannerService(newFakeBannerStore(), newTestStore(t, 5*1024*1024))

	banner, err := svc.Create(context.Background(), bannerFormFixture(), uploadedFile(t, "hero.png", "image/png", []byte("png")))
	require.NoError(t, err)

	banners, failures, err := svc.Reorder(context.Background(), []models.BannerOrderItem{
		{ID: banner.ID.Hex(), Order: 5},
		{ID: "not-a-hex-id", Order: 1},
		{ID: primitive.NewObjectID().Hex(), Order: 2},
	})
	require.NoError(t, err)

	require.Len(t, failures, 2)
	require.Len(t, banners, 1)
	assert.Equal(t, 5, banners[0].Order)
}
