package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Legal page types accepted by the API.
const (
	PageTypePrivacyPolicy  = "privacy-policy"
	PageTypeTermsOfService = "terms-of-service"
	PageTypeCookiePolicy   = "cookie-policy"
)

func ValidPageType(t string) bool {
	switch t {
	case PageTypePrivacyPolicy, PageTypeTermsOfService, PageTypeCookiePolicy:
		return true
	}
	return false
}

type LegalSubsection struct {
	ID      string `bson:"id" json:"id" binding:"required"`
	Title   string `bson:"title" json:"title" binding:"required"`
	Content string `bson:"content" json:"content" binding:"required"`
}

type LegalSection struct {
	ID          string            `bson:"id" json:"id" binding:"required"`
	Title       string            `bson:"title" json:"title" binding:"required"`
	Content     string            `bson:"content" json:"content" binding:"required"`
	Subsections []LegalSubsection `bson:"subsections,omitempty" json:"subsections,omitempty" binding:"omitempty,dive"`
}

type LegalContent struct {
	Sections []LegalSection `bson:"sections" json:"sections" binding:"dive"`
}

type LegalMeta struct {
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Keywords    string `bson:"keywords,omitempty" json:"keywords,omitempty"`
}

// LegalPage is the one entity with an optimistic version counter: Version is
// incremented and LastUpdated bumped whenever Content changes.
type LegalPage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PageType    string             `bson:"page_type" json:"pageType"`
	Title       string             `bson:"title" json:"title"`
	LastUpdated time.Time          `bson:"last_updated" json:"lastUpdated"`
	Content     LegalContent       `bson:"content" json:"content"`
	Meta        LegalMeta          `bson:"meta,omitempty" json:"meta,omitempty"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	Version     int                `bson:"version" json:"version"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

type CreateLegalPageRequest struct {
	PageType string       `json:"pageType" binding:"required"`
	Title    string       `json:"title" binding:"required"`
	Content  LegalContent `json:"content" binding:"required"`
	Meta     LegalMeta    `json:"meta"`
}

type UpdateLegalPageRequest struct {
	Title    *string       `json:"title"`
	Content  *LegalContent `json:"content"`
	Meta     *LegalMeta    `json:"meta"`
	IsActive *bool         `json:"isActive"`
}

// PublicLegalPage strips admin-only fields for the public endpoint.
type PublicLegalPage struct {
	PageType    string       `json:"pageType"`
	Title       string       `json:"title"`
	LastUpdated time.Time    `json:"lastUpdated"`
	Content     LegalContent `json:"content"`
	Meta        LegalMeta    `json:"meta,omitempty"`
}
