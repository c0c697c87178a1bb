package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	IsActive    *bool  `json:"isActive"`
}

type Product struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description" json:"description"`
	Price       float64             `bson:"price" json:"price"`
	Stock       int                 `bson:"stock" json:"stock"`
	Image       string              `bson:"image,omitempty" json:"image,omitempty"`
	CategoryID  *primitive.ObjectID `bson:"category_id,omitempty" json:"categoryId,omitempty"`
	IsActive    bool                `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updatedAt"`
}

// ProductForm carries the multipart form fields of a product write; the image
// file, if any, is a separate part.
type ProductForm struct {
	Name        *string  `form:"name" binding:"omitempty,min=1,max=200"`
	Description *string  `form:"description" binding:"omitempty,max=2000"`
	Price       *float64 `form:"price" binding:"omitempty,min=0"`
	Stock       *int     `form:"stock" binding:"omitempty,min=0"`
	CategoryID  *string  `form:"categoryId" binding:"omitempty,len=24"`
	IsActive    *bool    `form:"isActive"`
}
