package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Banner is a promotional banner shown on the storefront. Whether it is
// actually displayed is derived at read time from the manual is_active switch
// and the [StartDate, EndDate] window; see VisibleAt. An EndDate before
// StartDate is representable and simply never resolves visible.
type Banner struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
	Link        string             `bson:"link,omitempty" json:"link,omitempty"`
	ButtonText  string             `bson:"button_text" json:"buttonText"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	Order       int                `bson:"order" json:"order"`
	StartDate   time.Time          `bson:"start_date" json:"startDate"`
	EndDate     *time.Time         `bson:"end_date,omitempty" json:"endDate,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`

	// Derived, never persisted. Populated via ComputeDerived before
	// serialization.
	IsCurrentlyActive bool `bson:"-" json:"isCurrentlyActive"`
}

// DefaultButtonText is applied when a banner is created without one.
const DefaultButtonText = "Shop Now"

// VisibleAt reports whether a banner with the given manual switch and date
// window is displayable at the given instant. Both bounds are inclusive; a nil
// endDate means the window never closes and a zero startDate means it was
// always open. The public listing filter and the serialized derived field must
// both go through this predicate.
func VisibleAt(isActive bool, startDate time.Time, endDate *time.Time, now time.Time) bool {
	if !isActive {
		return false
	}
	if !startDate.IsZero() && now.Before(startDate) {
		return false
	}
	if endDate != nil && now.After(*endDate) {
		return false
	}
	return true
}

// ComputeDerived fills IsCurrentlyActive for serialization.
func (b *Banner) ComputeDerived(now time.Time) {
	b.IsCurrentlyActive = VisibleAt(b.IsActive, b.StartDate, b.EndDate, now)
}

// BannerForm carries the multipart form fields of a create request. The image
// itself arrives as a separate file part.
type BannerForm struct {
	Title       string  `form:"title" binding:"required,min=1,max=100"`
	Description string  `form:"description" binding:"required,min=1,max=500"`
	Link        *string `form:"link" binding:"omitempty,url"`
	ButtonText  *string `form:"buttonText" binding:"omitempty,max=50"`
	IsActive    *bool   `form:"isActive"`
	Order       *int    `form:"order" binding:"omitempty,min=0"`
	StartDate   *string `form:"startDate"`
	EndDate     *string `form:"endDate"`
}

// BannerUpdateForm is the partial variant: nil fields were not supplied and
// must not be touched by the update.
type BannerUpdateForm struct {
	Title       *string `form:"title" binding:"omitempty,min=1,max=100"`
	Description *string `form:"description" binding:"omitempty,min=1,max=500"`
	Link        *string `form:"link" binding:"omitempty,url"`
	ButtonText  *string `form:"buttonText" binding:"omitempty,max=50"`
	IsActive    *bool   `form:"isActive"`
	Order       *int    `form:"order" binding:"omitempty,min=0"`
	StartDate   *string `form:"startDate"`
	EndDate     *string `form:"endDate"`
}

// BannerOrderItem is one entry of a bulk reorder request.
type BannerOrderItem struct {
	ID    string `json:"id" binding:"required"`
	Order int    `json:"order" binding:"min=0"`
}

type ReorderRequest struct {
	BannerOrders []BannerOrderItem `json:"bannerOrders" binding:"required,min=1,dive"`
}
