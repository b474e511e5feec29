package router

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/preneur/storefront-api/pkg/checkout"
	"github.com/preneur/storefront-api/pkg/events"
	"github.com/preneur/storefront-api/pkg/global"
	"github.com/preneur/storefront-api/pkg/models"
	"github.com/preneur/storefront-api/pkg/mongo"
	"github.com/preneur/storefront-api/pkg/redis"
)

var checkoutService = mongo.NewCheckoutService()

// PlaceOrder converts the caller's cart into an order. Cart and stock
// problems come back as 400s naming the cause; an infrastructure failure
// comes back as a generic 500 with the cause kept in server logs.
func PlaceOrder(c *gin.Context) {
	userID := currentUserID(c)

	order, err := checkoutService.PlaceOrder(c.Request.Context(), userID)
	if err != nil {
		var notFound *checkout.ProductNotFoundError
		var noStock *checkout.InsufficientStockError
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Cart is empty", []global.ValidationError{
				{Field: "cart", Message: "Add items to the cart before placing an order", Code: "empty_cart"},
			}))
		case errors.As(err, &notFound):
			c.JSON(http.StatusBadRequest, global.ErrorResponse("A product in the cart no longer exists", []global.ValidationError{
				{Field: "cart", Message: notFound.Error(), Code: "product_not_found"},
			}))
		case errors.As(err, &noStock):
			c.JSON(http.StatusBadRequest, global.ErrorResponse(noStock.Error(), []global.ValidationError{
				{Field: "cart", Message: noStock.Error(), Code: "insufficient_stock"},
			}))
		default:
			log.Printf("Error placing order for user %s: %v", userID.Hex(), err)
			c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to place order", nil))
		}
		return
	}

	// Post-commit side effects never touch the response.
	go afterOrderPlaced(order)

	c.JSON(http.StatusCreated, global.SuccessResponse(order))
}

func afterOrderPlaced(order *models.PopulatedOrder) {
	ctx := context.Background()

	events.PublishOrderCreated(ctx, order)

	productIDs := make([]bson.ObjectID, 0, len(order.Items))
	for _, item := range order.Items {
		if item.Product != nil {
			productIDs = append(productIDs, item.Product.ID)
		}
	}
	if err := redis.InvalidateProducts(ctx, productIDs); err != nil {
		log.Printf("Warning: %v", err)
	}
}

// GetMyOrders lists the caller's orders, newest first.
func GetMyOrders(c *gin.Context) {
	orders, err := mongo.GetOrdersByUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		log.Printf("Error fetching orders: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch orders", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(orders))
}
