package api

import (
	"errors"   // Error comparison
	"net/http" // HTTP status codes

	"github.com/uk1619/freshwala-api/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// AddToCartRequest represents an add-or-update cart request
type AddToCartRequest struct {
	ProductID uint `json:"productId" binding:"required"`        // Product to add
	Quantity  int  `json:"quantity" binding:"required,min=1"`   // Desired quantity (overwrites, not additive)
}

// currentUserID pulls the authenticated user's ID out of the gin context
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userID") // Set by the JWT middleware
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// AddToCartHandler adds a product to the user's cart or overwrites the
// quantity of an existing line item. Price and discount are snapshotted at
// add time and never refreshed from the live product.
func AddToCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		var req AddToCartRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "productId and a positive quantity are required"})
			return
		}
		var product domain.Product // Fetch product from database
		if err := db.First(&product, req.ProductID).Error; err != nil || !product.IsActive {
			// Missing and inactive products look the same to the cart
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found or inactive"})
			return
		}
		// Stock check at add time; carts hold no reservation, the real check
		// happens again at order placement
		if req.Quantity > product.QuantityAvailable {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Requested quantity not available"})
			return
		}
		var cart domain.Cart // Find the user's cart
		err := db.Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// First add creates the cart with a single line item
			cart = domain.Cart{
				UserID: userID,
				Items: []domain.CartItem{{
					ProductID:         product.ID,           // Referenced product
					Quantity:          req.Quantity,         // Requested quantity
					PriceAtAddTime:    product.PricePerUnit, // Price snapshot
					DiscountAtAddTime: product.Discount,     // Discount snapshot
				}},
			}
			cart.RecalculateTotal() // Derive the total from the items
			if err := db.Create(&cart).Error; err != nil {
				logrus.WithFields(logrus.Fields{
					"user_id": userID,      // User ID
					"error":   err.Error(), // Error message
				}).Error("Failed to create cart") // Log cart creation failure
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add to cart"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Item updated in cart", "cart": cart})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add to cart"})
			return
		}
		var item domain.CartItem // Look for an existing line item for this product
		err = db.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Append a new line item with fresh snapshots
			item = domain.CartItem{
				CartID:            cart.ID,              // Owning cart
				ProductID:         product.ID,           // Referenced product
				Quantity:          req.Quantity,         // Requested quantity
				PriceAtAddTime:    product.PricePerUnit, // Price snapshot
				DiscountAtAddTime: product.Discount,     // Discount snapshot
			}
			if err := db.Create(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add to cart"})
				return
			}
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add to cart"})
			return
		} else {
			// Same product again: overwrite the quantity, keep the original snapshots
			item.Quantity = req.Quantity
			if err := db.Save(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update cart item"})
				return
			}
		}
		// Reload the items and recompute the stored total
		if err := db.Where("cart_id = ?", cart.ID).Find(&cart.Items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add to cart"})
			return
		}
		cart.RecalculateTotal()
		if err := db.Model(&cart).Update("total_price", cart.TotalPrice).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to add to cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item updated in cart", "cart": cart})
	}
}

// GetCartHandler returns the user's populated cart, or an explicit empty
// sentinel when there is nothing in it
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		var cart domain.Cart // Fetch cart with products populated
		err := db.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(cart.Items) == 0) {
			// Missing and empty carts are both reported as empty, not as errors
			c.JSON(http.StatusOK, gin.H{"message": "Cart is empty", "cart": nil})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

// RemoveFromCartHandler removes a single product's line item and recomputes the total
func RemoveFromCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		productID := c.Param("productId") // Product to remove
		var cart domain.Cart              // Fetch the user's cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
			return
		}
		// Drop the line item; removing an absent product is a no-op
		if err := db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).Delete(&domain.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove item from cart"})
			return
		}
		// Recompute the stored total from the remaining items
		if err := db.Where("cart_id = ?", cart.ID).Find(&cart.Items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove item from cart"})
			return
		}
		cart.RecalculateTotal()
		if err := db.Model(&cart).Update("total_price", cart.TotalPrice).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove item from cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart", "cart": cart})
	}
}

// ClearCartHandler empties the user's cart. Safe to call with no cart at all.
func ClearCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		var cart domain.Cart // Fetch the user's cart
		err := db.Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Nothing to clear
			c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to clear cart"})
			return
		}
		// Delete the items and reset the total
		if err := db.Where("cart_id = ?", cart.ID).Delete(&domain.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to clear cart"})
			return
		}
		if err := db.Model(&cart).Update("total_price", 0).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
	}
}
