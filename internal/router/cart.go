package router

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/preneur/storefront-api/pkg/global"
	"github.com/preneur/storefront-api/pkg/models"
	"github.com/preneur/storefront-api/pkg/mongo"
)

// AddToCart adds a product to the caller's cart, creating the cart on first
// use. Adding a product already in the cart merges quantities, and the merged
// quantity is validated against current stock.
func AddToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "productId", Message: "productId is required", Code: "required"},
		}))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid quantity", []global.ValidationError{
			{Field: "quantity", Message: "Quantity must be at least 1", Code: "invalid_value"},
		}))
		return
	}

	productID, ok := parseObjectID(c, req.ProductID, "productId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	userID := currentUserID(c)

	product, err := mongo.GetProductByID(ctx, productID)
	if err != nil {
		log.Printf("Error fetching product: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to add to cart", nil))
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", []global.ValidationError{
			{Field: "productId", Message: "No product exists with this ID", Code: "not_found"},
		}))
		return
	}

	cart, err := mongo.GetCartByUser(ctx, userID)
	if err != nil {
		log.Printf("Error fetching cart: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to add to cart", nil))
		return
	}

	requested := req.Quantity
	if cart != nil {
		if line := cart.FindItem(productID); line != nil {
			requested += line.Quantity
		}
	}
	if product.Stock < requested {
		message := fmt.Sprintf("Insufficient stock for %q. Available: %d, Requested: %d",
			product.Name, product.Stock, requested)
		c.JSON(http.StatusBadRequest, global.ErrorResponse(message, []global.ValidationError{
			{Field: "quantity", Message: message, Code: "insufficient_stock"},
		}))
		return
	}

	if cart == nil {
		cart, err = mongo.CreateCart(ctx, userID, []models.CartItem{{Product: productID, Quantity: req.Quantity}})
	} else {
		if line := cart.FindItem(productID); line != nil {
			line.Quantity = requested
		} else {
			cart.Items = append(cart.Items, models.CartItem{Product: productID, Quantity: req.Quantity})
		}
		err = mongo.SaveCartItems(ctx, cart.ID, cart.Items)
	}
	if err != nil {
		log.Printf("Error saving cart: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to add to cart", nil))
		return
	}

	respondWithCart(c, http.StatusOK, cart)
}

// GetCart returns the caller's cart with each line resolved to full product
// detail. A user with no cart gets an empty one.
func GetCart(c *gin.Context) {
	cart, err := mongo.GetCartByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		log.Printf("Error fetching cart: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch cart", nil))
		return
	}
	if cart == nil {
		c.JSON(http.StatusOK, global.SuccessResponse(models.PopulatedCart{
			User:  currentUserID(c),
			Items: []models.PopulatedCartItem{},
		}))
		return
	}

	respondWithCart(c, http.StatusOK, cart)
}

// RemoveFromCart removes one product line entirely, regardless of quantity.
func RemoveFromCart(c *gin.Context) {
	productID, ok := parseObjectID(c, c.Param("productId"), "productId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	cart, err := mongo.GetCartByUser(ctx, currentUserID(c))
	if err != nil {
		log.Printf("Error fetching cart: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update cart", nil))
		return
	}
	if cart == nil || cart.FindItem(productID) == nil {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Product not in cart", []global.ValidationError{
			{Field: "productId", Message: "This product is not in the cart", Code: "not_found"},
		}))
		return
	}

	items := make([]models.CartItem, 0, len(cart.Items)-1)
	for _, line := range cart.Items {
		if line.Product != productID {
			items = append(items, line)
		}
	}
	cart.Items = items

	if err := mongo.SaveCartItems(ctx, cart.ID, cart.Items); err != nil {
		log.Printf("Error saving cart: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update cart", nil))
		return
	}

	respondWithCart(c, http.StatusOK, cart)
}

func respondWithCart(c *gin.Context, status int, cart *models.Cart) {
	populated, err := mongo.PopulateCart(c.Request.Context(), cart)
	if err != nil {
		log.Printf("Error populating cart: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch cart", nil))
		return
	}
	c.JSON(status, global.SuccessResponse(populated))
}
