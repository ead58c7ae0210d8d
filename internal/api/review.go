package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error comparison
	"net/http" // HTTP status codes
	"time"     // Time durations

	"github.com/uk1619/freshwala-api/internal/domain" // Importing domain models
	"github.com/uk1619/freshwala-api/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Review cache keys
const (
	productRatingCachePrefix  = "reviews:product:avg:" // Product average rating cache
	supplierRatingCachePrefix = "reviews:seller:avg:"  // Seller average rating cache
	ratingCacheTTL            = 60 * time.Second
)

// ReviewRequest represents a review submission
type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"` // Rating from 1 to 5
	Comment string `json:"comment"`                               // Optional comment
}

// ratingAggregate is the grouped average over a review target
type ratingAggregate struct {
	AverageRating float64 `json:"averageRating"` // Mean rating
	TotalReviews  int64   `json:"totalReviews"`  // Review count
}

// hasOrderedProduct reports whether the user has any order containing the product
func hasOrderedProduct(db *gorm.DB, userID uint, productID string) (bool, error) {
	var count int64
	err := db.Model(&domain.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.customer_id = ? AND order_items.product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

// hasOrderedFromSeller reports whether the user has any order containing a
// product supplied by the seller
func hasOrderedFromSeller(db *gorm.DB, userID uint, sellerID string) (bool, error) {
	var count int64
	err := db.Model(&domain.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.customer_id = ? AND products.supplier_id = ?", userID, sellerID).
		Count(&count).Error
	return count > 0, err
}

// ReviewProductHandler creates or updates the reviewer's review of a product.
// Only buyers who have ordered the product may review it, and a second
// submission updates the existing review instead of duplicating it.
func ReviewProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated reviewer
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		productID := c.Param("productId") // Review target
		var req ReviewRequest             // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Rating is required."})
			return
		}
		// Eligibility gate: a qualifying order must exist
		eligible, err := hasOrderedProduct(db, userID, productID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit review"})
			return
		}
		if !eligible {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You can only review products you have ordered."})
			return
		}
		var product domain.Product // The target must still exist
		if err := db.First(&product, productID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found."})
			return
		}
		var existing domain.ProductReview // One review per (reviewer, product)
		err = db.Where("product_id = ? AND reviewer_id = ?", product.ID, userID).First(&existing).Error
		if err == nil {
			// Update in place rather than duplicating
			existing.Rating = req.Rating
			existing.Comment = req.Comment
			if err := db.Save(&existing).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit review"})
				return
			}
			_ = utils.DeleteCache(context.Background(), rdb, productRatingCachePrefix+productID) // Average changed
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review updated."})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit review"})
			return
		}
		review := domain.ProductReview{
			ProductID:  product.ID, // Review target
			ReviewerID: userID,     // Reviewer
			Rating:     req.Rating, // Submitted rating
			Comment:    req.Comment, // Submitted comment
		}
		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit review"})
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, productRatingCachePrefix+productID) // Average changed
		// Log the new review
		logrus.WithFields(logrus.Fields{
			"product_id":  product.ID, // Reviewed product
			"reviewer_id": userID,     // Reviewer
			"rating":      req.Rating, // Rating given
		}).Info("Product review submitted")
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Review submitted."})
	}
}

// GetProductReviewsHandler lists a product's reviews, newest first, paginated
func GetProductReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, offset := getPagination(c) // Pagination parameters
		productID := c.Param("productId")       // Review target
		var total int64                         // Total reviews
		if err := db.Model(&domain.ProductReview{}).Where("product_id = ?", productID).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reviews"})
			return
		}
		var reviews []domain.ProductReview // Page of reviews with reviewers populated
		if err := db.Preload("Reviewer").Where("product_id = ?", productID).
			Order("created_at desc").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reviews"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"total":   total,
			"page":    page,
			"pages":   (int(total) + limit - 1) / limit,
			"reviews": reviews,
		})
	}
}

// GetMyProductReviewHandler returns the authenticated user's review of a product
func GetMyProductReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated reviewer
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		var review domain.ProductReview // The reviewer's own review
		if err := db.Where("product_id = ? AND reviewer_id = ?", c.Param("productId"), userID).
			First(&review).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Review not found."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
	}
}

// DeleteProductReviewHandler removes the authenticated user's review of a product
func DeleteProductReviewHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated reviewer
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		productID := c.Param("productId") // Review target
		res := db.Where("product_id = ? AND reviewer_id = ?", productID, userID).Delete(&domain.ProductReview{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete review"})
			return
		}
		// Nothing deleted means there was no review
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Review not found."})
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, productRatingCachePrefix+productID) // Average changed
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted."})
	}
}

// GetProductAverageRatingHandler returns the grouped average rating for a
// product, zero-valued when it has no reviews; the aggregate is cached
func GetProductAverageRatingHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID := c.Param("productId")                   // Review target
		ctx := context.Background()                         // Context for Redis operations
		cacheKey := productRatingCachePrefix + productID    // Cache key for the aggregate
		var agg ratingAggregate
		// Try to get from cache
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &agg); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"success": true, "averageRating": agg.AverageRating, "totalReviews": agg.TotalReviews, "cached": true})
			return
		}
		// Grouped aggregation: count and mean over all reviews for the target
		if err := db.Model(&domain.ProductReview{}).Where("product_id = ?", productID).
			Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS total_reviews").
			Scan(&agg).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch rating"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, agg, ratingCacheTTL) // Cache the aggregate
		c.JSON(http.StatusOK, gin.H{"success": true, "averageRating": agg.AverageRating, "totalReviews": agg.TotalReviews, "cached": false})
	}
}

// ReviewSellerHandler creates or updates the reviewer's review of a seller,
// gated on having ordered from that seller at least once
func ReviewSellerHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated reviewer
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		sellerID := c.Param("sellerId") // Review target
		var req ReviewRequest           // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Rating is required."})
			return
		}
		// Eligibility gate: an order from this seller must exist
		eligible, err := hasOrderedFromSeller(db, userID, sellerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit review"})
			return
		}
		if !eligible {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "You can only review sellers you have ordered from."})
			return
		}
		var seller domain.User // The target must be a seller
		if err := db.First(&seller, sellerID).Error; err != nil || seller.Role != domain.RoleSeller {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Seller not found."})
			return
		}
		var existing domain.SupplierReview // One review per (reviewer, seller)
		err = db.Where("supplier_id = ? AND reviewer_id = ?", seller.ID, userID).First(&existing).Error
		if err == nil {
			// Update in place rather than duplicating
			existing.Rating = req.Rating
			existing.Comment = req.Comment
			if err := db.Save(&existing).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit review"})
				return
			}
			_ = utils.DeleteCache(context.Background(), rdb, supplierRatingCachePrefix+sellerID) // Average changed
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review updated."})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit review"})
			return
		}
		review := domain.SupplierReview{
			SupplierID: seller.ID,   // Review target
			ReviewerID: userID,      // Reviewer
			Rating:     req.Rating,  // Submitted rating
			Comment:    req.Comment, // Submitted comment
		}
		if err := db.Create(&review).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to submit review"})
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, supplierRatingCachePrefix+sellerID) // Average changed
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Review submitted."})
	}
}

// GetSellerReviewsHandler lists a seller's reviews, newest first, paginated
func GetSellerReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, offset := getPagination(c) // Pagination parameters
		sellerID := c.Param("sellerId")         // Review target
		var total int64                         // Total reviews
		if err := db.Model(&domain.SupplierReview{}).Where("supplier_id = ?", sellerID).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reviews"})
			return
		}
		var reviews []domain.SupplierReview // Page of reviews with reviewers populated
		if err := db.Preload("Reviewer").Where("supplier_id = ?", sellerID).
			Order("created_at desc").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch reviews"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"total":   total,
			"page":    page,
			"pages":   (int(total) + limit - 1) / limit,
			"reviews": reviews,
		})
	}
}

// GetMySellerReviewHandler returns the authenticated user's review of a seller
func GetMySellerReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated reviewer
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		var review domain.SupplierReview // The reviewer's own review
		if err := db.Where("supplier_id = ? AND reviewer_id = ?", c.Param("sellerId"), userID).
			First(&review).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Review not found."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "review": review})
	}
}

// DeleteSellerReviewHandler removes the authenticated user's review of a seller
func DeleteSellerReviewHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated reviewer
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		sellerID := c.Param("sellerId") // Review target
		res := db.Where("supplier_id = ? AND reviewer_id = ?", sellerID, userID).Delete(&domain.SupplierReview{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete review"})
			return
		}
		// Nothing deleted means there was no review
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Review not found."})
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, supplierRatingCachePrefix+sellerID) // Average changed
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted."})
	}
}

// GetSellerAverageRatingHandler returns the grouped average rating for a
// seller, zero-valued when there are no reviews; the aggregate is cached
func GetSellerAverageRatingHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.Param("sellerId")                 // Review target
		ctx := context.Background()                     // Context for Redis operations
		cacheKey := supplierRatingCachePrefix + sellerID // Cache key for the aggregate
		var agg ratingAggregate
		// Try to get from cache
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &agg); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"success": true, "averageRating": agg.AverageRating, "totalReviews": agg.TotalReviews, "cached": true})
			return
		}
		// Grouped aggregation: count and mean over all reviews for the target
		if err := db.Model(&domain.SupplierReview{}).Where("supplier_id = ?", sellerID).
			Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS total_reviews").
			Scan(&agg).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch rating"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, agg, ratingCacheTTL) // Cache the aggregate
		c.JSON(http.StatusOK, gin.H{"success": true, "averageRating": agg.AverageRating, "totalReviews": agg.TotalReviews, "cached": false})
	}
}
