package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Product represents a catalog product. Stock is decremented only by the
// order placement flow; admin edits overwrite it directly.
type Product struct {
	ID          bson.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name        string          `json:"name" bson:"name"`
	Price       Money           `json:"price" bson:"price"`
	Stock       int             `json:"stock" bson:"stock"`
	Description string          `json:"description" bson:"description"`
	Images      []string        `json:"images" bson:"images"`
	Categories  []bson.ObjectID `json:"categories" bson:"categories"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" bson:"updated_at"`
}

func (p *Product) IsInStock() bool {
	return p.Stock > 0
}

// SetTimestamps sets created_at on first call and always updates updated_at
func (p *Product) SetTimestamps() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Price       Money    `json:"price" binding:"gte=0"`
	Stock       int      `json:"stock" binding:"gte=0"`
	Description string   `json:"description" binding:"required"`
	Images      []string `json:"images"`
	Categories  []string `json:"categories"`
}

func (req *CreateProductRequest) ToProduct(categories []bson.ObjectID) *Product {
	product := &Product{
		ID:          bson.NewObjectID(),
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Images:      req.Images,
		Categories:  categories,
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if product.Categories == nil {
		product.Categories = []bson.ObjectID{}
	}
	product.SetTimestamps()
	return product
}

// UpdateProductRequest is a typed partial update; nil fields are untouched.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *Money   `json:"price" binding:"omitempty,gte=0"`
	Stock       *int     `json:"stock" binding:"omitempty,gte=0"`
	Description *string  `json:"description"`
	Images      []string `json:"images"`
	Categories  []string `json:"categories"`
}
