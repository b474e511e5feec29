package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/preneur/storefront-api/pkg/models"
)

const recommendationLimit = 12

// Recommendation is a product with the reason it was picked.
type Recommendation struct {
	*models.Product
	Reason string `json:"reason"`
}

type recommendationSet struct {
	seen    map[bson.ObjectID]bool
	results []Recommendation
}

func (r *recommendationSet) add(products []*models.Product, reason string) {
	for _, product := range products {
		if r.full() {
			return
		}
		if r.seen[product.ID] {
			continue
		}
		r.seen[product.ID] = true
		r.results = append(r.results, Recommendation{Product: product, Reason: reason})
	}
}

func (r *recommendationSet) full() bool {
	return len(r.results) >= recommendationLimit
}

// GetRecommendations builds a rule-based product list for the user.
//
// Priority: products from categories the user purchased from, then products
// matching frequent searches, then recent searches, then top sellers, then
// newest arrivals as the final fallback. Only in-stock products qualify.
func GetRecommendations(ctx context.Context, userID bson.ObjectID) ([]Recommendation, error) {
	set := &recommendationSet{seen: make(map[bson.ObjectID]bool)}

	user, err := GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user != nil && len(user.PurchasedProducts) > 0 {
		if err := addCategoryRecommendations(ctx, set, user.PurchasedProducts); err != nil {
			return nil, err
		}
	}

	if !set.full() {
		if err := addSearchRecommendations(ctx, set, userID, true); err != nil {
			return nil, err
		}
	}
	if !set.full() {
		if err := addSearchRecommendations(ctx, set, userID, false); err != nil {
			return nil, err
		}
	}
	if !set.full() {
		if err := addTopSellerRecommendations(ctx, set); err != nil {
			return nil, err
		}
	}
	if !set.full() {
		if err := addNewestRecommendations(ctx, set); err != nil {
			return nil, err
		}
	}

	if set.results == nil {
		return []Recommendation{}, nil
	}
	return set.results, nil
}

// addCategoryRecommendations suggests in-stock products from the categories
// the user has bought from, excluding products they already own.
func addCategoryRecommendations(ctx context.Context, set *recommendationSet, purchased []bson.ObjectID) error {
	collection := GetCollection("products")

	cursor, err := collection.Find(ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: purchased}}}},
		options.Find().SetProjection(bson.D{{Key: "categories", Value: 1}}),
	)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var owned []*models.Product
	if err := cursor.All(ctx, &owned); err != nil {
		return err
	}

	seenCategory := make(map[bson.ObjectID]bool)
	categoryIDs := []bson.ObjectID{}
	for _, product := range owned {
		for _, categoryID := range product.Categories {
			if !seenCategory[categoryID] {
				seenCategory[categoryID] = true
				categoryIDs = append(categoryIDs, categoryID)
			}
		}
	}
	if len(categoryIDs) == 0 {
		return nil
	}

	products, err := findProducts(ctx, bson.D{
		{Key: "categories", Value: bson.D{{Key: "$in", Value: categoryIDs}}},
		{Key: "_id", Value: bson.D{{Key: "$nin", Value: purchased}}},
		{Key: "stock", Value: bson.D{{Key: "$gt", Value: 0}}},
	}, nil, recommendationLimit)
	if err != nil {
		return err
	}

	set.add(products, "Based on your purchase history")
	return nil
}

func addSearchRecommendations(ctx context.Context, set *recommendationSet, userID bson.ObjectID, frequent bool) error {
	var searches []*models.SearchHistory
	var err error
	if frequent {
		searches, err = GetFrequentSearches(ctx, userID, 5)
	} else {
		searches, err = GetRecentSearches(ctx, userID, 5)
	}
	if err != nil {
		return err
	}

	for _, search := range searches {
		if set.full() {
			return nil
		}

		pattern := bson.D{{Key: "$regex", Value: search.Keyword}, {Key: "$options", Value: "i"}}
		products, err := findProducts(ctx, bson.D{
			{Key: "$or", Value: bson.A{
				bson.D{{Key: "name", Value: pattern}},
				bson.D{{Key: "description", Value: pattern}},
			}},
			{Key: "stock", Value: bson.D{{Key: "$gt", Value: 0}}},
		}, nil, 4)
		if err != nil {
			return err
		}

		reason := `Matches your search: "` + search.Keyword + `"`
		if !frequent {
			reason = `Recently searched: "` + search.Keyword + `"`
		}
		set.add(products, reason)
	}
	return nil
}

// addTopSellerRecommendations aggregates order line items into units sold
// per product and suggests the best sellers still in stock.
func addTopSellerRecommendations(ctx context.Context, set *recommendationSet) error {
	collection := GetCollection("orders")

	pipeline := bson.A{
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$items.product"},
			{Key: "total_sold", Value: bson.D{{Key: "$sum", Value: "$items.quantity"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "total_sold", Value: -1}}}},
		bson.D{{Key: "$limit", Value: recommendationLimit}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ProductID bson.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return err
	}

	productIDs := make([]bson.ObjectID, 0, len(rows))
	for _, row := range rows {
		if !set.seen[row.ProductID] {
			productIDs = append(productIDs, row.ProductID)
		}
	}
	if len(productIDs) == 0 {
		return nil
	}

	products, err := findProducts(ctx, bson.D{
		{Key: "_id", Value: bson.D{{Key: "$in", Value: productIDs}}},
		{Key: "stock", Value: bson.D{{Key: "$gt", Value: 0}}},
	}, nil, recommendationLimit)
	if err != nil {
		return err
	}

	set.add(products, "Popular product")
	return nil
}

func addNewestRecommendations(ctx context.Context, set *recommendationSet) error {
	products, err := findProducts(ctx,
		bson.D{{Key: "stock", Value: bson.D{{Key: "$gt", Value: 0}}}},
		bson.D{{Key: "created_at", Value: -1}},
		recommendationLimit,
	)
	if err != nil {
		return err
	}

	set.add(products, "New arrival")
	return nil
}

func findProducts(ctx context.Context, query bson.D, sort bson.D, limit int) ([]*models.Product, error) {
	collection := GetCollection("products")

	opts := options.Find().SetLimit(int64(limit))
	if sort != nil {
		opts = opts.SetSort(sort)
	}

	cursor, err := collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}
