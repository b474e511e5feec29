package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/preneur/storefront-api/pkg/models"
)

type ProductFilter struct {
	Search     string
	Categories []bson.ObjectID
	Page       int
	Limit      int
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type ProductPage struct {
	Products   []*models.Product `json:"products"`
	Pagination Pagination        `json:"pagination"`
}

func CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	collection := GetCollection("products")

	result, err := collection.InsertOne(ctx, product)
	if err != nil {
		return nil, err
	}
	product.ID = result.InsertedID.(bson.ObjectID)
	return product, nil
}

// GetProductByID returns the product, or nil when it does not exist.
func GetProductByID(ctx context.Context, productID bson.ObjectID) (*models.Product, error) {
	collection := GetCollection("products")

	var product models.Product
	err := collection.FindOne(ctx, bson.D{{Key: "_id", Value: productID}}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductsByIDs fetches a batch of products keyed by ID. Missing products
// are simply absent from the map.
func GetProductsByIDs(ctx context.Context, productIDs []bson.ObjectID) (map[bson.ObjectID]*models.Product, error) {
	byID := make(map[bson.ObjectID]*models.Product, len(productIDs))
	if len(productIDs) == 0 {
		return byID, nil
	}

	collection := GetCollection("products")
	cursor, err := collection.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: productIDs}}}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	for _, product := range products {
		byID[product.ID] = product
	}
	return byID, nil
}

// ListProducts returns one page of products, newest first, optionally
// filtered by a case-insensitive name/description search and category IDs.
func ListProducts(ctx context.Context, filter ProductFilter) (*ProductPage, error) {
	collection := GetCollection("products")

	query := bson.D{}
	if filter.Search != "" {
		pattern := bson.D{{Key: "$regex", Value: filter.Search}, {Key: "$options", Value: "i"}}
		query = append(query, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: pattern}},
			bson.D{{Key: "description", Value: pattern}},
		}})
	}
	if len(filter.Categories) > 0 {
		query = append(query, bson.E{Key: "categories", Value: bson.D{{Key: "$in", Value: filter.Categories}}})
	}

	total, err := collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, err
	}

	skip := int64((filter.Page - 1) * filter.Limit)
	limit := int64(filter.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := []*models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	pages := (total + limit - 1) / limit
	return &ProductPage{
		Products: products,
		Pagination: Pagination{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

// UpdateProduct applies a partial update and returns the updated document,
// or nil when the product does not exist.
func UpdateProduct(ctx context.Context, productID bson.ObjectID, updates bson.D) (*models.Product, error) {
	collection := GetCollection("products")

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product models.Product
	err := collection.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: productID}},
		bson.D{{Key: "$set", Value: updates}},
		opts,
	).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes the product, returning the deleted document for
// cache cleanup, or nil when it did not exist.
func DeleteProduct(ctx context.Context, productID bson.ObjectID) (*models.Product, error) {
	collection := GetCollection("products")

	var product models.Product
	err := collection.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: productID}}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
