package router

import (
	"github.com/gin-gonic/gin"
	"github.com/glowsouk/glowsouk-backend/config"
	"github.com/glowsouk/glowsouk-backend/internal/app/controller"
	"github.com/glowsouk/glowsouk-backend/internal/middleware"
)

type Router struct {
	authController    *controller.AuthController
	productController *controller.ProductController
	reviewController  *controller.ReviewController
	rankingController *controller.RankingController
	uploadController  *controller.UploadController
	reportController  *controller.ReportController
	streamController  *controller.StreamController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	reviewController *controller.ReviewController,
	rankingController *controller.RankingController,
	uploadController *controller.UploadController,
	reportController *controller.ReportController,
	streamController *controller.StreamController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		productController: productController,
		reviewController:  reviewController,
		rankingController: rankingController,
		uploadController:  uploadController,
		reportController:  reportController,
		streamController:  streamController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "GLOWSOUK API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
		}

		users := v1.Group("/users")
		users.Use(r.authMiddleware.Authenticate())
		{
			users.GET("/me", r.authController.GetProfile)
			users.PUT("/me", r.authController.UpdateProfile)
			users.GET("/me/reviews", r.reviewController.GetMyReviews)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetProducts)
			products.GET("/categories", r.productController.GetCategories)
			products.GET("/:id", r.productController.GetProduct)

			// 리뷰 피드는 비로그인 열람 가능, 로그인 시 투표 여부 포함
			products.GET("/:id/reviews",
				r.authMiddleware.OptionalAuthenticate(),
				r.reviewController.GetProductReviews,
			)
			products.POST("/:id/reviews",
				r.authMiddleware.Authenticate(),
				r.reviewController.CreateReview,
			)

			products.POST("",
				r.authMiddleware.Authenticate(),
				r.productController.CreateProduct,
			)
		}

		reviews := v1.Group("/reviews")
		reviews.Use(r.authMiddleware.Authenticate())
		{
			reviews.DELETE("/:id", r.reviewController.DeleteReview)
			reviews.POST("/:id/helpful", r.reviewController.ToggleHelpfulVote)
		}

		v1.GET("/ranking", r.rankingController.GetRanking)

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presign", r.uploadController.GetPresignedURL)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.PUT("/products/:id", r.productController.UpdateProduct)
			admin.DELETE("/products/:id", r.productController.DeleteProduct)
			admin.GET("/reports/products", r.reportController.ExportProductReport)
		}

		// 제품 리뷰 실시간 스트림 (비로그인 구독 허용)
		v1.GET("/ws/products/:id", r.streamController.StreamProductReviews)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
