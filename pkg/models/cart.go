package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// CartItem is one (product, quantity) line in a cart. A product appears at
// most once per cart; repeat adds merge quantities.
type CartItem struct {
	Product  bson.ObjectID `json:"product" bson:"product"`
	Quantity int           `json:"quantity" bson:"quantity"`
}

// Cart is the per-user transient collection of desired items. Each user owns
// at most one cart (unique index on user).
type Cart struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	User      bson.ObjectID `json:"user" bson:"user"`
	Items     []CartItem    `json:"items" bson:"items"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

// FindItem returns the line for a product, or nil if not in the cart.
func (c *Cart) FindItem(productID bson.ObjectID) *CartItem {
	for i := range c.Items {
		if c.Items[i].Product == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// PopulatedCartItem is a cart line with the product resolved to its current
// catalog state. Product is nil when the referenced product no longer exists.
type PopulatedCartItem struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

type PopulatedCart struct {
	ID    bson.ObjectID       `json:"id,omitempty"`
	User  bson.ObjectID       `json:"user"`
	Items []PopulatedCartItem `json:"items"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}
