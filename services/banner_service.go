package services

import (
	"context"
	"mime/multipart"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dipkrao/ECommerce-Backend/internal/logger"
	"github.com/dipkrao/ECommerce-Backend/models"
)

// bannerStore is the repository surface the lifecycle service needs.
// *BannerRepository implements it.
type bannerStore interface {
	List(ctx context.Context) ([]models.Banner, error)
	ListVisible(ctx context.Context, now time.Time) ([]models.Banner, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Banner, error)
	Insert(ctx context.Context, banner *models.Banner) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Banner, error)
	UpdateWithUnset(ctx context.Context, id primitive.ObjectID, set bson.M, unset bson.M) (*models.Banner, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetOrder(ctx context.Context, id primitive.ObjectID, order int) error
}

// BannerService orchestrates banner writes across the repository and the
// image store. There is no transaction spanning the two: creates save the
// file before the record (a failed insert leaves an orphan for the sweep),
// and image replacement orders save-new, delete-old, persist-reference so the
// record write is the last durable action.
type BannerService struct {
	repo   bannerStore
	images *ImageStore
}

func NewBannerService(repo bannerStore, images *ImageStore) *BannerService {
	return &BannerService{
		repo:   repo,
		images: images,
	}
}

func (s *BannerService) ListAll(ctx context.Context) ([]models.Banner, error) {
	banners, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	computeDerived(banners, time.Now())
	return banners, nil
}

func (s *BannerService) ListVisible(ctx context.Context, now time.Time) ([]models.Banner, error) {
	banners, err := s.repo.ListVisible(ctx, now)
	if err != nil {
		return nil, err
	}
	computeDerived(banners, now)
	return banners, nil
}

func (s *BannerService) Get(ctx context.Context, id primitive.ObjectID) (*models.Banner, error) {
	banner, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	banner.ComputeDerived(time.Now())
	return banner, nil
}

func (s *BannerService) Create(ctx context.Context, form models.BannerForm, image *multipart.FileHeader) (*models.Banner, error) {
	if image == nil {
		return nil, ErrImageRequired
	}

	startDate := time.Now()
	if form.StartDate != nil && *form.StartDate != "" {
		parsed, err := parseDate("startDate", *form.StartDate)
		if err != nil {
			return nil, err
		}
		startDate = parsed
	}

	var endDate *time.Time
	if form.EndDate != nil && *form.EndDate != "" {
		parsed, err := parseDate("endDate", *form.EndDate)
		if err != nil {
			return nil, err
		}
		endDate = &parsed
	}

	imagePath, err := s.images.Save(image, BannerImageKind)
	if err != nil {
		return nil, err
	}

	banner := &models.Banner{
		Title:       form.Title,
		Description: form.Description,
		Image:       imagePath,
		ButtonText:  models.DefaultButtonText,
		IsActive:    true,
		StartDate:   startDate,
		EndDate:     endDate,
	}
	if form.Link != nil {
		banner.Link = *form.Link
	}
	if form.ButtonText != nil && *form.ButtonText != "" {
		banner.ButtonText = *form.ButtonText
	}
	if form.IsActive != nil {
		banner.IsActive = *form.IsActive
	}
	if form.Order != nil {
		banner.Order = *form.Order
	}

	if err := s.repo.Insert(ctx, banner); err != nil {
		// The saved file is now orphaned; the periodic sweep reclaims it.
		logger.Warn("Banner insert failed after image save", "image", imagePath, "error", err)
		return nil, err
	}

	banner.ComputeDerived(time.Now())
	return banner, nil
}

// Update merges the supplied fields only. When a replacement image arrives the
// new file is saved first, the previous file unlinked next, and the record
// updated last; a delete failure is logged, never surfaced.
func (s *BannerService) Update(ctx context.Context, id primitive.ObjectID, form models.BannerUpdateForm, image *multipart.FileHeader) (*models.Banner, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	unset := bson.M{}
	if form.Title != nil {
		set["title"] = *form.Title
	}
	if form.Description != nil {
		set["description"] = *form.Description
	}
	if form.Link != nil {
		set["link"] = *form.Link
	}
	if form.ButtonText != nil {
		set["button_text"] = *form.ButtonText
	}
	if form.IsActive != nil {
		set["is_active"] = *form.IsActive
	}
	if form.Order != nil {
		set["order"] = *form.Order
	}
	if form.StartDate != nil && *form.StartDate != "" {
		parsed, err := parseDate("startDate", *form.StartDate)
		if err != nil {
			return nil, err
		}
		set["start_date"] = parsed
	}
	if form.EndDate != nil {
		if *form.EndDate == "" || *form.EndDate == "null" {
			unset["end_date"] = ""
		} else {
			parsed, err := parseDate("endDate", *form.EndDate)
			if err != nil {
				return nil, err
			}
			set["end_date"] = parsed
		}
	}

	if image != nil {
		newPath, err := s.images.Save(image, BannerImageKind)
		if err != nil {
			return nil, err
		}
		if existing.Image != "" {
			if err := s.images.Delete(existing.Image); err != nil {
				logger.Warn("Failed to delete replaced banner image", "path", existing.Image, "error", err)
			}
		}
		set["image"] = newPath
	}

	banner, err := s.repo.UpdateWithUnset(ctx, id, set, unset)
	if err != nil {
		return nil, err
	}
	banner.ComputeDerived(time.Now())
	return banner, nil
}

// Delete removes the banner's image file and then its record. A file delete
// failure is logged and does not fail the operation; the record is the source
// of truth.
func (s *BannerService) Delete(ctx context.Context, id primitive.ObjectID) error {
	banner, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if banner.Image != "" {
		if err := s.images.Delete(banner.Image); err != nil {
			logger.Warn("Failed to delete banner image", "path", banner.Image, "error", err)
		}
	}

	return s.repo.Delete(ctx, id)
}

// Toggle flips the manual switch and nothing else.
func (s *BannerService) Toggle(ctx context.Context, id primitive.ObjectID) (*models.Banner, error) {
	banner, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, bson.M{"is_active": !banner.IsActive})
	if err != nil {
		return nil, err
	}
	updated.ComputeDerived(time.Now())
	return updated, nil
}

// ReorderFailure reports one reorder entry that could not be applied.
type ReorderFailure struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Reorder applies each order update independently, best-effort: a bad or
// unknown id is reported and skipped without reverting entries already
// applied. The returned list is the fresh authoritative ordering.
func (s *BannerService) Reorder(ctx context.Context, items []models.BannerOrderItem) ([]models.Banner, []ReorderFailure, error) {
	var failures []ReorderFailure
	for _, item := range items {
		id, err := primitive.ObjectIDFromHex(item.ID)
		if err != nil {
			failures = append(failures, ReorderFailure{ID: item.ID, Message: "invalid banner ID"})
			continue
		}
		if err := s.repo.SetOrder(ctx, id, item.Order); err != nil {
			if err == ErrBannerNotFound {
				failures = append(failures, ReorderFailure{ID: item.ID, Message: "banner not found"})
				continue
			}
			return nil, failures, err
		}
	}

	banners, err := s.ListAll(ctx)
	if err != nil {
		return nil, failures, err
	}
	return banners, failures, nil
}

func computeDerived(banners []models.Banner, now time.Time) {
	for i := range banners {
		banners[i].ComputeDerived(now)
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(field, value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ValidationError{Field: field, Message: "must be a valid ISO 8601 date"}
}
