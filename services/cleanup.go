package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dipkrao/ECommerce-Backend/internal/logger"
)

// orphanMinAge keeps the sweep away from files whose record insert may still
// be in flight.
const orphanMinAge = time.Hour

// CleanupService reclaims image files left behind by failed inserts or missed
// delete-on-replace cleanups. Disk drift is an operational cost, not a
// correctness problem, so every failure here is logged and swallowed.
type CleanupService struct {
	banners  *BannerRepository
	products *mongo.Collection
	images   *ImageStore
}

func NewCleanupService(banners *BannerRepository, db *mongo.Database, images *ImageStore) *CleanupService {
	return &CleanupService{
		banners:  banners,
		products: db.Collection("products"),
		images:   images,
	}
}

// SweepOrphanImages removes unreferenced files from the banner and product
// upload directories.
func (s *CleanupService) SweepOrphanImages(ctx context.Context) {
	referenced, err := s.banners.ReferencedImages(ctx)
	if err != nil {
		logger.Warn("Orphan sweep: failed to load banner image references", "error", err)
		return
	}
	removed := s.images.SweepOrphans(BannerImageKind, referenced, orphanMinAge)

	productRefs, err := s.referencedProductImages(ctx)
	if err != nil {
		logger.Warn("Orphan sweep: failed to load product image references", "error", err)
		return
	}
	removed += s.images.SweepOrphans(ProductImageKind, productRefs, orphanMinAge)

	if removed > 0 {
		logger.Info("Orphan sweep removed files", "count", removed)
	}
}

func (s *CleanupService) referencedProductImages(ctx context.Context) (map[string]bool, error) {
	values, err := s.products.Distinct(ctx, "image", bson.M{})
	if err != nil {
		return nil, err
	}
	referenced := make(map[string]bool, len(values))
	for _, v := range values {
		if path, ok := v.(string); ok && path != "" {
			referenced[path] = true
		}
	}
	return referenced, nil
}
