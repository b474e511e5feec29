package router

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/preneur/storefront-api/pkg/global"
	"github.com/preneur/storefront-api/pkg/mongo"
)

// GetRecommendations returns a personalized product list for the caller.
func GetRecommendations(c *gin.Context) {
	recommendations, err := mongo.GetRecommendations(c.Request.Context(), currentUserID(c))
	if err != nil {
		log.Printf("Error building recommendations: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch recommendations", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(recommendations))
}
