package api

import (
	"errors"   // Error comparison
	"net/http" // HTTP status codes

	"github.com/uk1619/freshwala-api/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// ToggleWishlistHandler adds the product to the user's wishlist or removes
// it when already present, reporting which way it went
func ToggleWishlistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		var product domain.Product // The product must exist
		if err := db.First(&product, c.Param("productId")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found."})
			return
		}
		var wishlist domain.Wishlist // Find or create the user's wishlist
		err := db.Where("user_id = ?", userID).First(&wishlist).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			wishlist = domain.Wishlist{UserID: userID}
			if err := db.Create(&wishlist).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update wishlist"})
				return
			}
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update wishlist"})
			return
		}
		var item domain.WishlistItem // Toggle the product
		err = db.Where("wishlist_id = ? AND product_id = ?", wishlist.ID, product.ID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Not saved yet: add it
			item = domain.WishlistItem{WishlistID: wishlist.ID, ProductID: product.ID}
			if err := db.Create(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update wishlist"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "added": true})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update wishlist"})
			return
		}
		// Already saved: remove it
		if err := db.Delete(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update wishlist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "added": false})
	}
}

// GetWishlistHandler returns the user's saved products; an absent wishlist
// reads as an empty one
func GetWishlistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		var wishlist domain.Wishlist // Fetch the wishlist with products populated
		err := db.Preload("Items.Product").Where("user_id = ?", userID).First(&wishlist).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": true, "products": []domain.Product{}})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch wishlist"})
			return
		}
		products := make([]domain.Product, 0, len(wishlist.Items)) // Flatten to a product list
		for _, item := range wishlist.Items {
			if item.Product != nil {
				products = append(products, *item.Product)
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
	}
}

// ClearWishlistHandler empties the user's wishlist. Safe to call with no wishlist.
func ClearWishlistHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		var wishlist domain.Wishlist // Fetch the wishlist
		err := db.Where("user_id = ?", userID).First(&wishlist).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Nothing to clear
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Wishlist cleared."})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to clear wishlist"})
			return
		}
		if err := db.Where("wishlist_id = ?", wishlist.ID).Delete(&domain.WishlistItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to clear wishlist"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Wishlist cleared."})
	}
}
