package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/preneur/storefront-api/pkg/models"
)

// GetCartByUser returns the user's cart, or nil when the user has none.
func GetCartByUser(ctx context.Context, userID bson.ObjectID) (*models.Cart, error) {
	collection := GetCollection("carts")

	var cart models.Cart
	err := collection.FindOne(ctx, bson.D{{Key: "user", Value: userID}}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func CreateCart(ctx context.Context, userID bson.ObjectID, items []models.CartItem) (*models.Cart, error) {
	collection := GetCollection("carts")

	cart := &models.Cart{User: userID, Items: items}
	now := time.Now()
	cart.CreatedAt = now
	cart.UpdatedAt = now

	result, err := collection.InsertOne(ctx, cart)
	if err != nil {
		return nil, err
	}
	cart.ID = result.InsertedID.(bson.ObjectID)
	return cart, nil
}

// SaveCartItems replaces the cart's line items.
func SaveCartItems(ctx context.Context, cartID bson.ObjectID, items []models.CartItem) error {
	collection := GetCollection("carts")

	_, err := collection.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: cartID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "items", Value: items},
			{Key: "updated_at", Value: time.Now()},
		}}},
	)
	return err
}

// DeleteCart removes the whole cart document.
func DeleteCart(ctx context.Context, cartID bson.ObjectID) error {
	collection := GetCollection("carts")

	_, err := collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: cartID}})
	return err
}

// PopulateCart resolves each cart line to full product detail. Lines whose
// product has been deleted keep a nil product rather than disappearing.
func PopulateCart(ctx context.Context, cart *models.Cart) (*models.PopulatedCart, error) {
	productIDs := make([]bson.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		productIDs = append(productIDs, item.Product)
	}

	byID, err := GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	populated := &models.PopulatedCart{
		ID:    cart.ID,
		User:  cart.User,
		Items: make([]models.PopulatedCartItem, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		populated.Items = append(populated.Items, models.PopulatedCartItem{
			Product:  byID[item.Product],
			Quantity: item.Quantity,
		})
	}
	return populated, nil
}
