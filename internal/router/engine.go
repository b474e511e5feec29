package router

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/preneur/storefront-api/pkg/global"
)

var Router *gin.Engine

func InitEngine() {
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	Router = gin.Default()

	origins := strings.Split(global.GetEnvOrDefault("CORS_ORIGINS",
		"http://localhost:3000,http://localhost:5173"), ",")

	Router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	Router.Use(RequestIDMiddleware())
}

func InitializeRoutes() {
	api := Router.Group("/api")
	{
		api.GET("/health", HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", Register)
			auth.POST("/login", Login)
			auth.POST("/refresh-token", RefreshToken)
			auth.POST("/logout", AuthMiddleware(), Logout)
		}

		products := api.Group("/products")
		{
			products.GET("/", OptionalAuthMiddleware(), ListProducts)
			products.GET("/:id", GetProduct)
			products.POST("/", AuthMiddleware(), AdminMiddleware(), CreateProduct)
			products.PUT("/:id", AuthMiddleware(), AdminMiddleware(), UpdateProduct)
			products.DELETE("/:id", AuthMiddleware(), AdminMiddleware(), DeleteProduct)
		}

		categories := api.Group("/categories")
		{
			categories.GET("/", ListCategories)
			categories.GET("/:slug", GetCategoryBySlug)
			categories.POST("/", AuthMiddleware(), AdminMiddleware(), CreateCategory)
			categories.PUT("/:id", AuthMiddleware(), AdminMiddleware(), UpdateCategory)
			categories.DELETE("/:id", AuthMiddleware(), AdminMiddleware(), DeleteCategory)
		}

		cart := api.Group("/cart")
		cart.Use(AuthMiddleware())
		{
			cart.GET("/", GetCart)
			cart.POST("/", AddToCart)
			cart.DELETE("/:productId", RemoveFromCart)
		}

		orders := api.Group("/orders")
		orders.Use(AuthMiddleware())
		{
			orders.POST("/", PlaceOrder)
			orders.GET("/", GetMyOrders)
		}

		api.GET("/recommendations", AuthMiddleware(), GetRecommendations)

		reports := api.Group("/reports")
		reports.Use(AuthMiddleware(), AdminMiddleware())
		{
			reports.GET("/summary", GetReportSummary)
			reports.GET("/ai-insights", GetAISalesInsights)
		}
	}
}
