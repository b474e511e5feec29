package router

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/preneur/storefront-api/pkg/ai"
	"github.com/preneur/storefront-api/pkg/global"
	"github.com/preneur/storefront-api/pkg/mongo"
)

func GetReportSummary(c *gin.Context) {
	summary, err := mongo.GetReportSummary(c.Request.Context())
	if err != nil {
		log.Printf("Error building report summary: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to build report", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(summary))
}

func GetAISalesInsights(c *gin.Context) {
	insights, err := ai.GenerateSalesInsights(c.Request.Context())
	if err != nil {
		log.Printf("Error generating sales insights: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to build report", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(insights))
}
