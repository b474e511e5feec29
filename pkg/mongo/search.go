package mongo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/preneur/storefront-api/pkg/models"
)

// RecordSearch upserts the (user, keyword) counter used by recommendations.
func RecordSearch(ctx context.Context, userID bson.ObjectID, keyword string) error {
	collection := GetCollection("search_history")

	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}

	opts := options.UpdateOne().SetUpsert(true)
	_, err := collection.UpdateOne(ctx,
		bson.D{
			{Key: "user", Value: userID},
			{Key: "keyword", Value: keyword},
		},
		bson.D{
			{Key: "$inc", Value: bson.D{{Key: "count", Value: 1}}},
			{Key: "$set", Value: bson.D{{Key: "last_searched_at", Value: time.Now()}}},
		},
		opts,
	)
	return err
}

func GetFrequentSearches(ctx context.Context, userID bson.ObjectID, limit int) ([]*models.SearchHistory, error) {
	return findSearches(ctx, userID, bson.D{{Key: "count", Value: -1}}, limit)
}

func GetRecentSearches(ctx context.Context, userID bson.ObjectID, limit int) ([]*models.SearchHistory, error) {
	return findSearches(ctx, userID, bson.D{{Key: "last_searched_at", Value: -1}}, limit)
}

func findSearches(ctx context.Context, userID bson.ObjectID, sort bson.D, limit int) ([]*models.SearchHistory, error) {
	collection := GetCollection("search_history")

	opts := options.Find().SetSort(sort).SetLimit(int64(limit))
	cursor, err := collection.Find(ctx, bson.D{{Key: "user", Value: userID}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var searches []*models.SearchHistory
	if err := cursor.All(ctx, &searches); err != nil {
		return nil, err
	}
	return searches, nil
}
