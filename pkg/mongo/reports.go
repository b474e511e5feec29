package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/preneur/storefront-api/pkg/models"
)

type TopProduct struct {
	ProductID    bson.ObjectID `json:"productId" bson:"product_id"`
	Name         string        `json:"name" bson:"name"`
	TotalSold    int           `json:"totalSold" bson:"total_sold"`
	TotalRevenue models.Money  `json:"totalRevenue" bson:"total_revenue"`
}

type ReportSummary struct {
	TotalOrders  int64        `json:"totalOrders"`
	TotalRevenue models.Money `json:"totalRevenue"`
	TopProducts  []TopProduct `json:"topProducts"`
}

// GetReportSummary aggregates order count, exact revenue in minor units, and
// the three best-selling products with their revenue.
func GetReportSummary(ctx context.Context) (*ReportSummary, error) {
	collection := GetCollection("orders")

	summaryCursor, err := collection.Aggregate(ctx, bson.A{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_orders", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "total_revenue", Value: bson.D{{Key: "$sum", Value: "$total_amount"}}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer summaryCursor.Close(ctx)

	var totals []struct {
		TotalOrders  int64        `bson:"total_orders"`
		TotalRevenue models.Money `bson:"total_revenue"`
	}
	if err := summaryCursor.All(ctx, &totals); err != nil {
		return nil, err
	}

	summary := &ReportSummary{TopProducts: []TopProduct{}}
	if len(totals) > 0 {
		summary.TotalOrders = totals[0].TotalOrders
		summary.TotalRevenue = totals[0].TotalRevenue
	}

	topCursor, err := collection.Aggregate(ctx, bson.A{
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$items.product"},
			{Key: "total_sold", Value: bson.D{{Key: "$sum", Value: "$items.quantity"}}},
			{Key: "total_revenue", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$multiply", Value: bson.A{"$items.price", "$items.quantity"}},
			}}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "total_sold", Value: -1}}}},
		bson.D{{Key: "$limit", Value: 3}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "products"},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "product"},
		}}},
		bson.D{{Key: "$unwind", Value: "$product"}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "product_id", Value: "$_id"},
			{Key: "name", Value: "$product.name"},
			{Key: "total_sold", Value: 1},
			{Key: "total_revenue", Value: 1},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer topCursor.Close(ctx)

	if err := topCursor.All(ctx, &summary.TopProducts); err != nil {
		return nil, err
	}
	return summary, nil
}
