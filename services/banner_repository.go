package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dipkrao/ECommerce-Backend/models"
)

// bannerSort orders by priority ascending, newest first on ties.
var bannerSort = bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: -1}}

// BannerRepository wraps the banners collection. The visibility window check
// for ListVisible is pushed into the Mongo filter so the public listing never
// fetches suppressed rows; visibleFilter must stay equivalent to
// models.VisibleAt.
type BannerRepository struct {
	collection *mongo.Collection
}

func NewBannerRepository(db *mongo.Database) *BannerRepository {
	return &BannerRepository{
		collection: db.Collection("banners"),
	}
}

func (r *BannerRepository) List(ctx context.Context) ([]models.Banner, error) {
	return r.find(ctx, bson.M{})
}

func (r *BannerRepository) ListVisible(ctx context.Context, now time.Time) ([]models.Banner, error) {
	return r.find(ctx, visibleFilter(now))
}

func (r *BannerRepository) find(ctx context.Context, filter bson.M) ([]models.Banner, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bannerSort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	banners := []models.Banner{}
	if err := cursor.All(ctx, &banners); err != nil {
		return nil, err
	}
	return banners, nil
}

func (r *BannerRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Banner, error) {
	var banner models.Banner
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&banner)
	if err == mongo.ErrNoDocuments {
		return nil, ErrBannerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &banner, nil
}

// Insert assigns the id and timestamps and persists the banner.
func (r *BannerRepository) Insert(ctx context.Context, banner *models.Banner) error {
	banner.ID = primitive.NewObjectID()
	now := time.Now()
	banner.CreatedAt = now
	banner.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, banner)
	return err
}

// Update applies the given $set fields and returns the fresh document. Fields
// absent from set are left untouched.
func (r *BannerRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Banner, error) {
	set["updated_at"] = time.Now()

	var banner models.Banner
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&banner)
	if err == mongo.ErrNoDocuments {
		return nil, ErrBannerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &banner, nil
}

// UpdateWithUnset applies a $set and additionally removes the unset fields
// (used to clear a nulled end date).
func (r *BannerRepository) UpdateWithUnset(ctx context.Context, id primitive.ObjectID, set bson.M, unset bson.M) (*models.Banner, error) {
	set["updated_at"] = time.Now()

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var banner models.Banner
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&banner)
	if err == mongo.ErrNoDocuments {
		return nil, ErrBannerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *BannerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrBannerNotFound
	}
	return nil
}

// SetOrder updates a single banner's order. Used by bulk reorder; each call is
// an independent write with no atomicity across the batch.
func (r *BannerRepository) SetOrder(ctx context.Context, id primitive.ObjectID, order int) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"order": order, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrBannerNotFound
	}
	return nil
}

// ReferencedImages returns the set of image paths currently referenced by any
// banner, for the orphan sweep.
func (r *BannerRepository) ReferencedImages(ctx context.Context) (map[string]bool, error) {
	values, err := r.collection.Distinct(ctx, "image", bson.M{})
	if err != nil {
		return nil, err
	}
	referenced := make(map[string]bool, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			referenced[s] = true
		}
	}
	return referenced, nil
}

// visibleFilter is the storage-level equivalent of models.VisibleAt: manual
// switch on, start at or before now (or missing), end at or after now (or
// null/missing). Bounds are inclusive on both ends.
func visibleFilter(now time.Time) bson.M {
	return bson.M{
		"is_active": true,
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"start_date": bson.M{"$lte": now}},
				bson.M{"start_date": bson.M{"$exists": false}},
			}},
			bson.M{"$or": bson.A{
				bson.M{"end_date": nil},
				bson.M{"end_date": bson.M{"$gte": now}},
				bson.M{"end_date": bson.M{"$exists": false}},
			}},
		},
	}
}
