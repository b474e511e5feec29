package router

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/preneur/storefront-api/pkg/global"
	"github.com/preneur/storefront-api/pkg/models"
	"github.com/preneur/storefront-api/pkg/mongo"
	"github.com/preneur/storefront-api/pkg/redis"
)

// ListProducts returns one page of the catalog. Supports ?search= over name
// and description, ?category= by slug, and ?page=/?limit= pagination. A
// non-empty search by an authenticated user is recorded for recommendations.
func ListProducts(c *gin.Context) {
	ctx := c.Request.Context()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}

	filter := mongo.ProductFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Page:   page,
		Limit:  limit,
	}

	if slug := c.Query("category"); slug != "" {
		category, err := mongo.GetCategoryBySlug(ctx, slug)
		if err != nil {
			log.Printf("Error resolving category %q: %v", slug, err)
			c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch products", nil))
			return
		}
		if category == nil {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Category not found", []global.ValidationError{
				{Field: "category", Message: "No category exists with this slug", Code: "not_found"},
			}))
			return
		}
		filter.Categories = []bson.ObjectID{category.ID}
	}

	result, err := mongo.ListProducts(ctx, filter)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch products", nil))
		return
	}

	if filter.Search != "" {
		if userID, exists := c.Get(contextUserID); exists {
			if err := mongo.RecordSearch(ctx, userID.(bson.ObjectID), filter.Search); err != nil {
				log.Printf("Warning: failed to record search: %v", err)
			}
		}
	}

	c.JSON(http.StatusOK, global.SuccessResponse(result))
}

// GetProduct retrieves a product by ID, serving from the Redis cache when
// possible.
func GetProduct(c *gin.Context) {
	productID, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if product, err := redis.GetProductFromCache(ctx, productID); err == nil {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, global.SuccessResponse(product))
		return
	}

	product, err := mongo.GetProductByID(ctx, productID)
	if err != nil {
		log.Printf("Error fetching product: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch product", nil))
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", []global.ValidationError{
			{Field: "id", Message: "No product exists with this ID", Code: "not_found"},
		}))
		return
	}

	if cacheErr := redis.CacheProduct(ctx, product); cacheErr != nil {
		log.Printf("Warning: failed to cache product: %v", cacheErr)
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	categories, ok := parseObjectIDs(c, req.Categories, "categories")
	if !ok {
		return
	}

	created, err := mongo.CreateProduct(c.Request.Context(), req.ToProduct(categories))
	if err != nil {
		log.Printf("Error creating product: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create product", nil))
		return
	}

	if cacheErr := redis.CacheProduct(c.Request.Context(), created); cacheErr != nil {
		log.Printf("Warning: failed to cache product: %v", cacheErr)
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(created))
}

func UpdateProduct(c *gin.Context) {
	productID, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	updates := bson.D{}
	if req.Name != nil {
		updates = append(updates, bson.E{Key: "name", Value: *req.Name})
	}
	if req.Price != nil {
		updates = append(updates, bson.E{Key: "price", Value: *req.Price})
	}
	if req.Stock != nil {
		updates = append(updates, bson.E{Key: "stock", Value: *req.Stock})
	}
	if req.Description != nil {
		updates = append(updates, bson.E{Key: "description", Value: *req.Description})
	}
	if req.Images != nil {
		updates = append(updates, bson.E{Key: "images", Value: req.Images})
	}
	if req.Categories != nil {
		categories, ok := parseObjectIDs(c, req.Categories, "categories")
		if !ok {
			return
		}
		updates = append(updates, bson.E{Key: "categories", Value: categories})
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("No updates provided", []global.ValidationError{
			{Field: "body", Message: "Request body must contain at least one field to update", Code: "empty_updates"},
		}))
		return
	}
	updates = append(updates, bson.E{Key: "updated_at", Value: time.Now()})

	updated, err := mongo.UpdateProduct(c.Request.Context(), productID, updates)
	if err != nil {
		log.Printf("Error updating product: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update product", nil))
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", []global.ValidationError{
			{Field: "id", Message: "No product exists with this ID", Code: "not_found"},
		}))
		return
	}

	if cacheErr := redis.CacheProduct(c.Request.Context(), updated); cacheErr != nil {
		log.Printf("Warning: failed to refresh product cache: %v", cacheErr)
	}

	c.JSON(http.StatusOK, global.SuccessResponse(updated))
}

func DeleteProduct(c *gin.Context) {
	productID, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	deleted, err := mongo.DeleteProduct(c.Request.Context(), productID)
	if err != nil {
		log.Printf("Error deleting product: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to delete product", nil))
		return
	}
	if deleted == nil {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", []global.ValidationError{
			{Field: "id", Message: "No product exists with this ID", Code: "not_found"},
		}))
		return
	}

	if cacheErr := redis.InvalidateProduct(c.Request.Context(), productID); cacheErr != nil {
		log.Printf("Warning: failed to invalidate product cache: %v", cacheErr)
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]interface{}{
		"deleted_product": deleted,
		"message":         "Product successfully deleted",
	}))
}

func parseObjectID(c *gin.Context, raw, field string) (bson.ObjectID, bool) {
	objectID, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid ID format", []global.ValidationError{
			{Field: field, Message: "Must be a valid MongoDB ObjectID", Code: "invalid_format"},
		}))
		return bson.ObjectID{}, false
	}
	return objectID, true
}

func parseObjectIDs(c *gin.Context, raw []string, field string) ([]bson.ObjectID, bool) {
	ids := make([]bson.ObjectID, 0, len(raw))
	for _, value := range raw {
		id, err := bson.ObjectIDFromHex(value)
		if err != nil {
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid ID format", []global.ValidationError{
				{Field: field, Message: "Each entry must be a valid MongoDB ObjectID", Code: "invalid_format"},
			}))
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
