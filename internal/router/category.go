package router

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/preneur/storefront-api/pkg/global"
	"github.com/preneur/storefront-api/pkg/models"
	"github.com/preneur/storefront-api/pkg/mongo"
)

func ListCategories(c *gin.Context) {
	categories, err := mongo.ListCategories(c.Request.Context())
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch categories", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(categories))
}

func GetCategoryBySlug(c *gin.Context) {
	category, err := mongo.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		log.Printf("Error fetching category: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch category", nil))
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Category not found", []global.ValidationError{
			{Field: "slug", Message: "No category exists with this slug", Code: "not_found"},
		}))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(category))
}

func CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "name", Message: "name is required", Code: "required"},
		}))
		return
	}

	category := &models.Category{
		Name: req.Name,
		Slug: models.Slugify(req.Name),
	}

	created, err := mongo.CreateCategory(c.Request.Context(), category)
	if err != nil {
		if errors.Is(err, mongo.ErrCategoryExists) {
			c.JSON(http.StatusConflict, global.ErrorResponse("Category already exists", []global.ValidationError{
				{Field: "name", Message: "A category with this name already exists", Code: "duplicate_slug"},
			}))
			return
		}
		log.Printf("Error creating category: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create category", nil))
		return
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(created))
}

func UpdateCategory(c *gin.Context) {
	categoryID, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	var req models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "name", Message: "name is required", Code: "required"},
		}))
		return
	}

	updated, err := mongo.UpdateCategory(c.Request.Context(), categoryID, req.Name)
	if err != nil {
		log.Printf("Error updating category: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update category", nil))
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Category not found", []global.ValidationError{
			{Field: "id", Message: "No category exists with this ID", Code: "not_found"},
		}))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(updated))
}

func DeleteCategory(c *gin.Context) {
	categoryID, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	existed, err := mongo.DeleteCategory(c.Request.Context(), categoryID)
	if err != nil {
		log.Printf("Error deleting category: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to delete category", nil))
		return
	}
	if !existed {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Category not found", []global.ValidationError{
			{Field: "id", Message: "No category exists with this ID", Code: "not_found"},
		}))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"message": "Category deleted"}))
}
