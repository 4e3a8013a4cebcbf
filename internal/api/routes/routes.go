package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"reviewhub/internal/api/handlers"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/config"
	"reviewhub/internal/services"
	"reviewhub/pkg/logger"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg))

	// Initialize services
	var s3Service *services.S3Service
	if cfg.S3Bucket != "" {
		s3Service = services.NewS3Service(cfg.AWSRegion, cfg.S3Bucket, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)
	}

	summaryService := services.NewRatingSummaryService(db)
	imageService := services.NewImageStorageService(db, s3Service)
	responseService := services.NewResponseService(db)
	reviewService := services.NewReviewService(db, summaryService, imageService, responseService)
	helpfulnessService := services.NewHelpfulnessService(db)

	// Initialize handlers
	reviewHandler := handlers.NewReviewHandler(reviewService, helpfulnessService, responseService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	imageHandler := handlers.NewImageHandler(imageService)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "Server is running"})
	})

	// API routes
	api := router.Group("/api/v1")

	// Review routes
	reviews := api.Group("/reviews")
	{
		reviews.POST("/", reviewHandler.CreateReview)
		reviews.GET("/", reviewHandler.GetReviewsByEntity)
		reviews.GET("/flagged", reviewHandler.GetFlaggedReviews)
		reviews.GET("/user/:user_id", reviewHandler.GetReviewsByUser)
		reviews.GET("/:review_id", reviewHandler.GetReview)
		reviews.PUT("/:review_id", reviewHandler.UpdateReview)
		reviews.DELETE("/:review_id", reviewHandler.DeleteReview)
		reviews.POST("/:review_id/helpfulness", reviewHandler.MarkHelpfulness)
		reviews.POST("/:review_id/responses", reviewHandler.AddResponse)
		reviews.POST("/:review_id/flag", reviewHandler.FlagReview)
		reviews.POST("/:review_id/moderate", reviewHandler.ModerateReview)
	}

	// Rating summary routes
	ratings := api.Group("/ratings")
	{
		ratings.GET("/", summaryHandler.GetRatingSummary)
		ratings.POST("/refresh", summaryHandler.RefreshRatingSummary)
	}

	// Image routes
	images := api.Group("/images")
	{
		images.GET("/:image_id", imageHandler.GetImage)
		images.DELETE("/:image_id", imageHandler.DeleteImage)
	}

	logger.Info("Routes initialized successfully")
}
