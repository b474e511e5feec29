package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/preneur/storefront-api/pkg/models"
)

// ErrCategoryExists is returned when a category with the same slug already
// exists; the unique slug index is the backstop.
var ErrCategoryExists = errors.New("category already exists")

func CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	collection := GetCollection("categories")

	category.SetTimestamps()
	result, err := collection.InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	category.ID = result.InsertedID.(bson.ObjectID)
	return category, nil
}

// ListCategories returns all categories sorted by name.
func ListCategories(ctx context.Context) ([]*models.Category, error) {
	collection := GetCollection("categories")

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := []*models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategoryBySlug returns the category, or nil when it does not exist.
func GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	collection := GetCollection("categories")

	var category models.Category
	err := collection.FindOne(ctx, bson.D{{Key: "slug", Value: slug}}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory renames the category, regenerating its slug, and returns
// the updated document, or nil when it does not exist.
func UpdateCategory(ctx context.Context, categoryID bson.ObjectID, name string) (*models.Category, error) {
	collection := GetCollection("categories")

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var category models.Category
	err := collection.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: categoryID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "name", Value: name},
			{Key: "slug", Value: models.Slugify(name)},
			{Key: "updated_at", Value: time.Now()},
		}}},
		opts,
	).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes the category, reporting whether it existed.
func DeleteCategory(ctx context.Context, categoryID bson.ObjectID) (bool, error) {
	collection := GetCollection("categories")

	result, err := collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: categoryID}})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}
