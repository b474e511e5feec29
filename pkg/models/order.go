package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// OrderItem is a line item snapshot. Price is the product's unit price at the
// moment of purchase and is never recomputed from the current catalog price.
type OrderItem struct {
	Product  bson.ObjectID `json:"product" bson:"product"`
	Quantity int           `json:"quantity" bson:"quantity"`
	Price    Money         `json:"price" bson:"price"`
}

// Order is an immutable record of a completed purchase. Orders are created
// only by the order placement flow and are never updated or deleted.
type Order struct {
	ID          bson.ObjectID `json:"id" bson:"_id,omitempty"`
	User        bson.ObjectID `json:"user" bson:"user"`
	Items       []OrderItem   `json:"items" bson:"items"`
	TotalAmount Money         `json:"totalAmount" bson:"total_amount"`
	CreatedAt   time.Time     `json:"createdAt" bson:"created_at"`
}

// ComputeTotal sums frozen line prices times quantities, exactly.
func (o *Order) ComputeTotal() Money {
	var total Money
	for _, item := range o.Items {
		total += item.Price.Mul(item.Quantity)
	}
	return total
}

// PopulatedOrderItem resolves the line's product reference to full product
// detail. Product is nil when the product was deleted after purchase; the
// frozen Price and Quantity remain authoritative either way.
type PopulatedOrderItem struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
	Price    Money    `json:"price"`
}

type PopulatedOrder struct {
	ID          bson.ObjectID        `json:"id"`
	User        bson.ObjectID        `json:"user"`
	Items       []PopulatedOrderItem `json:"items"`
	TotalAmount Money                `json:"totalAmount"`
	CreatedAt   time.Time            `json:"createdAt"`
}
