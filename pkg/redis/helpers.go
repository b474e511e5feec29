package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/preneur/storefront-api/pkg/models"
)

const productCacheTTL = 24 * time.Hour

func productKey(productID bson.ObjectID) string {
	return fmt.Sprintf("product:%s", productID.Hex())
}

// CacheProduct stores a product under product:{id} for a day. Callers treat
// cache failures as non-fatal; Mongo remains the source of truth.
func CacheProduct(ctx context.Context, product *models.Product) error {
	client := RedisClient()
	defer client.Close()

	productJSON, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product %s: %w", product.ID.Hex(), err)
	}

	return client.Set(ctx, productKey(product.ID), productJSON, productCacheTTL).Err()
}

// GetProductFromCache returns the cached product, or an error on a miss.
func GetProductFromCache(ctx context.Context, productID bson.ObjectID) (*models.Product, error) {
	client := RedisClient()
	defer client.Close()

	productJSON, err := client.Get(ctx, productKey(productID)).Result()
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal([]byte(productJSON), &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}

	return &product, nil
}

// InvalidateProduct drops the cached copy after a mutation so the next read
// sees fresh stock and pricing.
func InvalidateProduct(ctx context.Context, productID bson.ObjectID) error {
	client := RedisClient()
	defer client.Close()

	return client.Del(ctx, productKey(productID)).Err()
}

// InvalidateProducts drops several cached products in one pipeline. Used
// after an order is placed, when every line item's stock has changed.
func InvalidateProducts(ctx context.Context, productIDs []bson.ObjectID) error {
	if len(productIDs) == 0 {
		return nil
	}

	client := RedisClient()
	defer client.Close()

	pipe := client.TxPipeline()
	for _, productID := range productIDs {
		pipe.Del(ctx, productKey(productID))
	}
	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to invalidate product cache: %w", err)
	}
	return nil
}
