package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging
	"time"    // Time durations

	"github.com/uk1619/freshwala-api/internal/api"        // Custom package for API handlers
	"github.com/uk1619/freshwala-api/internal/config"     // Custom package for configuration
	"github.com/uk1619/freshwala-api/internal/middleware" // Custom package for middleware

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// CORS: the SPA sends credentials, so the origin must be explicit
	origins := []string{"http://localhost:5173", "http://localhost:5174"}
	if cfg.FrontendURL != "" {
		origins = []string{cfg.FrontendURL}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded images
	r.Static("/uploads", cfg.UploadDir)

	// Health check route
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Backend is running"})
	})

	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret) // Session guard shared across groups

	// Auth routes
	authGroup := r.Group("/api/auth")
	authGroup.POST("/signup", api.SignupHandler(db, cfg.AdminKey))                 // Registration endpoint
	authGroup.POST("/login", api.LoginHandler(db, cfg.JWTSecret, cfg.IsProd))      // Login endpoint
	authGroup.GET("/logout", api.LogoutHandler(cfg.IsProd))                        // Logout endpoint
	authGroup.GET("/profile", auth, api.ProfileHandler(db))                        // Profile endpoint
	authGroup.PUT("/profile", auth, api.UpdateProfileHandler(db, cfg.UploadDir))   // Profile update endpoint
	authGroup.PUT("/changePassword", auth, api.ChangePasswordHandler(db))          // Password change endpoint

	// Product routes (public reads, seller writes)
	productGroup := r.Group("/api/product")
	productGroup.POST("/addProduct", auth, middleware.SellerOnlyMiddleware(), api.AddProductHandler(db, redisClient, cfg.UploadDir))
	productGroup.PUT("/editProductDetails/:productId", auth, middleware.SellerOnlyMiddleware(), api.EditProductDetailsHandler(db, redisClient, cfg.UploadDir))
	productGroup.GET("/getAllProducts", api.GetAllProductsHandler(db, redisClient))
	productGroup.GET("/getProductById/:productId", api.GetProductByIDHandler(db, redisClient))
	productGroup.DELETE("/deleteProduct/:productId", auth, api.DeleteProductHandler(db, redisClient))
	productGroup.PUT("/toggleProductStatus/:productId", auth, api.ToggleProductStatusHandler(db, redisClient))
	productGroup.GET("/getSellerProducts/:sellerId", api.GetSellerProductsHandler(db))
	productGroup.POST("/searchProducts", api.SearchProductsHandler(db))
	productGroup.GET("/searchByCategory", api.SearchByCategoryHandler(db))

	// Cart routes (protected by JWT)
	cartGroup := r.Group("/api/cart")
	cartGroup.Use(auth)
	cartGroup.POST("/addToCart", api.AddToCartHandler(db))          // Add or update a line item
	cartGroup.GET("/getMyCart", api.GetCartHandler(db))             // Get the populated cart
	cartGroup.DELETE("/clearMyCart", api.ClearCartHandler(db))      // Clear the cart
	cartGroup.DELETE("/:productId", api.RemoveFromCartHandler(db))  // Remove one product

	// Order routes
	orderGroup := r.Group("/api/order")
	orderGroup.POST("/orderFromCart", auth, api.PlaceOrderFromCartHandler(db)) // Place from stored cart
	orderGroup.POST("/orderDirect", auth, api.PlaceOrderDirectHandler(db))     // Place from client items
	orderGroup.GET("/getMyOrders", auth, api.GetUserOrdersHandler(db))         // Own order history
	orderGroup.GET("/getMyOrder/:id", auth, api.GetOrderByIDHandler(db))       // Single own order
	orderGroup.GET("/", auth, middleware.AdminOnlyMiddleware(db), api.GetAllOrdersHandler(db))
	orderGroup.PUT("/updateOrderStatus/:id", auth, middleware.AdminOnlyMiddleware(db), api.UpdateOrderStatusHandler(db))

	// Review routes (public reads, authenticated writes)
	reviewGroup := r.Group("/api/review")
	reviewGroup.POST("/reviewProduct/:productId", auth, api.ReviewProductHandler(db, redisClient))
	reviewGroup.GET("/product/:productId", api.GetProductReviewsHandler(db))
	reviewGroup.GET("/product/:productId/mine", auth, api.GetMyProductReviewHandler(db))
	reviewGroup.DELETE("/product/:productId", auth, api.DeleteProductReviewHandler(db, redisClient))
	reviewGroup.GET("/product/:productId/average", api.GetProductAverageRatingHandler(db, redisClient))
	reviewGroup.POST("/reviewSeller/:sellerId", auth, api.ReviewSellerHandler(db, redisClient))
	reviewGroup.GET("/seller/:sellerId", api.GetSellerReviewsHandler(db))
	reviewGroup.GET("/seller/:sellerId/mine", auth, api.GetMySellerReviewHandler(db))
	reviewGroup.DELETE("/seller/:sellerId", auth, api.DeleteSellerReviewHandler(db, redisClient))
	reviewGroup.GET("/seller/:sellerId/average", api.GetSellerAverageRatingHandler(db, redisClient))

	// Wishlist routes (protected by JWT)
	wishlistGroup := r.Group("/api/wishlist")
	wishlistGroup.Use(auth)
	wishlistGroup.POST("/toggle/:productId", api.ToggleWishlistHandler(db)) // Toggle a saved product
	wishlistGroup.GET("/view", api.GetWishlistHandler(db))                  // View saved products
	wishlistGroup.DELETE("/clear", api.ClearWishlistHandler(db))            // Clear the wishlist

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/api/admin")
	adminGroup.Use(auth, middleware.AdminOnlyMiddleware(db))
	adminGroup.GET("/users", api.ListUsersHandler(db, redisClient))     // List users endpoint
	adminGroup.PUT("/banUser/:id", api.BanUserHandler(db, redisClient)) // Toggle a user's ban flag

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
