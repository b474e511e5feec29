package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/preneur/storefront-api/pkg/models"
)

func CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	collection := GetCollection("orders")

	result, err := collection.InsertOne(ctx, order)
	if err != nil {
		return nil, err
	}
	order.ID = result.InsertedID.(bson.ObjectID)
	return order, nil
}

// GetOrdersByUser returns all of the user's orders, newest first, with each
// line item resolved to full product detail. Items whose product was later
// deleted keep their frozen price and quantity with a nil product.
func GetOrdersByUser(ctx context.Context, userID bson.ObjectID) ([]*models.PopulatedOrder, error) {
	collection := GetCollection("orders")

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := collection.Find(ctx, bson.D{{Key: "user", Value: userID}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []*models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	seen := make(map[bson.ObjectID]bool)
	productIDs := []bson.ObjectID{}
	for _, order := range orders {
		for _, item := range order.Items {
			if !seen[item.Product] {
				seen[item.Product] = true
				productIDs = append(productIDs, item.Product)
			}
		}
	}

	byID, err := GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	populated := make([]*models.PopulatedOrder, 0, len(orders))
	for _, order := range orders {
		items := make([]models.PopulatedOrderItem, 0, len(order.Items))
		for _, item := range order.Items {
			items = append(items, models.PopulatedOrderItem{
				Product:  byID[item.Product],
				Quantity: item.Quantity,
				Price:    item.Price,
			})
		}
		populated = append(populated, &models.PopulatedOrder{
			ID:          order.ID,
			User:        order.User,
			Items:       items,
			TotalAmount: order.TotalAmount,
			CreatedAt:   order.CreatedAt,
		})
	}
	return populated, nil
}
