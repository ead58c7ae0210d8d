package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Time durations

	"github.com/uk1619/freshwala-api/internal/domain" // Importing domain models
	"github.com/uk1619/freshwala-api/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Catalog cache keys
const (
	productCachePrefix     = "product:id:"  // Single product cache
	productListCachePrefix = "products:"    // Listing/search caches
	productCacheTTL        = 60 * time.Second
)

// getPagination reads page/limit query parameters with the catalog defaults
func getPagination(c *gin.Context) (page, limit, offset int) {
	page = 1   // Default page
	limit = 10 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v // Set limit if valid
		}
	}
	return page, limit, (page - 1) * limit
}

// invalidateProductCaches drops the single-product entry and every listing page
func invalidateProductCaches(rdb *redis.Client, productID uint) {
	ctx := context.Background()                                                        // Context for Redis operations
	_ = utils.DeleteCache(ctx, rdb, productCachePrefix+strconv.Itoa(int(productID)))   // Drop the product entry
	_ = utils.DeleteCacheByPrefix(ctx, rdb, productListCachePrefix)                    // Drop all listing pages
}

// paginatedProducts is the cached shape of product listings
type paginatedProducts struct {
	Products   []domain.Product `json:"products"`   // Page of products
	Total      int64            `json:"total"`      // Total matching products
	Page       int              `json:"page"`       // Current page
	TotalPages int              `json:"totalPages"` // Total pages
	Limit      int              `json:"limit"`      // Page size
}

// AddProductHandler creates a product for the authenticated seller. Every
// scalar field and the image are required.
func AddProductHandler(db *gorm.DB, rdb *redis.Client, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated seller
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		// All scalar fields are required on create
		name := c.PostForm("name")
		description := c.PostForm("description")
		category := c.PostForm("category")
		priceStr := c.PostForm("pricePerUnit")
		unit := c.PostForm("unit")
		quantityStr := c.PostForm("quantityAvailable")
		discountStr := c.PostForm("discount")
		isActiveStr := c.PostForm("isActive")
		if name == "" || description == "" || category == "" || priceStr == "" ||
			unit == "" || quantityStr == "" || discountStr == "" || isActiveStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required."})
			return
		}
		// Category and unit come from fixed sets
		if !domain.IsValidCategory(category) || !domain.IsValidUnit(unit) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category or unit."})
			return
		}
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid pricePerUnit."})
			return
		}
		quantity, err := strconv.Atoi(quantityStr)
		if err != nil || quantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid quantityAvailable."})
			return
		}
		discount, err := strconv.ParseFloat(discountStr, 64)
		if err != nil || discount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid discount."})
			return
		}
		isActive := isActiveStr == "true" // Anything else lists as inactive
		// The product image is required
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Product image is required."})
			return
		}
		imageURL, err := utils.SaveUploadedImage(c, file, uploadDir, "product_images")
		if err != nil {
			if err == utils.ErrInvalidImageType {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while adding product"})
			return
		}
		product := domain.Product{
			Name:              name,        // Product name
			Description:       description, // Product description
			Category:          category,    // Validated category
			PricePerUnit:      price,       // Parsed price
			Unit:              unit,        // Validated unit
			QuantityAvailable: quantity,    // Initial stock
			ImageURL:          imageURL,    // Stored image URL
			Discount:          discount,    // Per-unit discount
			SupplierID:        userID,      // Owning seller
			IsActive:          isActive,    // Listing flag
		}
		// Persist the product
		if err := db.Create(&product).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"supplier_id": userID,      // Seller ID
				"error":       err.Error(), // Error message
			}).Error("Failed to add product") // Log creation failure
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while adding product"})
			return
		}
		invalidateProductCaches(rdb, product.ID) // New product changes the listings
		// Log successful creation
		logrus.WithFields(logrus.Fields{
			"supplier_id": userID,     // Seller ID
			"product_id":  product.ID, // New product ID
		}).Info("Product added")
		c.JSON(http.StatusCreated, gin.H{"message": "Product added successfully", "product": product})
	}
}

// EditProductDetailsHandler applies a partial update to a product owned by
// the authenticated seller; only provided fields change
func EditProductDetailsHandler(db *gorm.DB, rdb *redis.Client, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated seller
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		var product domain.Product // Fetch the product
		if err := db.First(&product, c.Param("productId")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found."})
			return
		}
		// Only the owning seller may edit
		if product.SupplierID != userID {
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to edit this product."})
			return
		}
		updates := map[string]any{} // Only provided fields are written
		if name := c.PostForm("name"); name != "" {
			updates["name"] = name
		}
		if description := c.PostForm("description"); description != "" {
			updates["description"] = description
		}
		if category := c.PostForm("category"); category != "" {
			if !domain.IsValidCategory(category) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category or unit."})
				return
			}
			updates["category"] = category
		}
		if priceStr := c.PostForm("pricePerUnit"); priceStr != "" {
			price, err := strconv.ParseFloat(priceStr, 64)
			if err != nil || price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid pricePerUnit."})
				return
			}
			updates["price_per_unit"] = price
		}
		if unit := c.PostForm("unit"); unit != "" {
			if !domain.IsValidUnit(unit) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category or unit."})
				return
			}
			updates["unit"] = unit
		}
		if quantityStr := c.PostForm("quantityAvailable"); quantityStr != "" {
			quantity, err := strconv.Atoi(quantityStr)
			if err != nil || quantity < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid quantityAvailable."})
				return
			}
			updates["quantity_available"] = quantity
		}
		if discountStr := c.PostForm("discount"); discountStr != "" {
			discount, err := strconv.ParseFloat(discountStr, 64)
			if err != nil || discount < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid discount."})
				return
			}
			updates["discount"] = discount
		}
		if isActiveStr := c.PostForm("isActive"); isActiveStr != "" {
			updates["is_active"] = isActiveStr == "true"
		}
		// Optional replacement image
		if file, err := c.FormFile("image"); err == nil {
			imageURL, err := utils.SaveUploadedImage(c, file, uploadDir, "product_images")
			if err != nil {
				if err == utils.ErrInvalidImageType {
					c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while updating product"})
				return
			}
			updates["image_url"] = imageURL
		}
		// Reject requests that change nothing
		if len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No changes to update."})
			return
		}
		if err := db.Model(&product).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while updating product"})
			return
		}
		// Re-read so the response reflects the stored state
		if err := db.First(&product, product.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while updating product"})
			return
		}
		invalidateProductCaches(rdb, product.ID) // Edits change cached listings
		c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully.", "product": product})
	}
}

// GetAllProductsHandler lists products with pagination and an optional
// case-insensitive category substring filter; pages are cached in Redis
func GetAllProductsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, offset := getPagination(c) // Pagination parameters
		category := c.Query("category")         // Optional category filter
		ctx := context.Background()             // Context for Redis operations
		cacheKey := productListCachePrefix + "all:page=" + strconv.Itoa(page) +
			":limit=" + strconv.Itoa(limit) + ":category=" + strings.ToLower(category)
		var cached paginatedProducts
		// Try to get from cache
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"success":    true,
				"products":   cached.Products,
				"pagination": gin.H{"totalProducts": cached.Total, "currentPage": cached.Page, "totalPages": cached.TotalPages, "perPage": cached.Limit},
				"cached":     true,
			})
			return
		}
		query := db.Model(&domain.Product{}) // Start building the query
		if category != "" {
			query = query.Where("LOWER(category) LIKE ?", "%"+strings.ToLower(category)+"%") // Substring match
		}
		var total int64 // Total matching products
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while fetching products"})
			return
		}
		var products []domain.Product // Page of products
		if err := query.Offset(offset).Limit(limit).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while fetching products"})
			return
		}
		totalPages := (int(total) + limit - 1) / limit // Calculate total pages
		// Cache the page for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, paginatedProducts{
			Products: products, Total: total, Page: page, TotalPages: totalPages, Limit: limit,
		}, productCacheTTL)
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"products":   products,
			"pagination": gin.H{"totalProducts": total, "currentPage": page, "totalPages": totalPages, "perPage": limit},
			"cached":     false,
		})
	}
}

// GetProductByIDHandler returns one product, cached in Redis
func GetProductByIDHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()                        // Context for Redis operations
		cacheKey := productCachePrefix + c.Param("productId") // Cache key for the product
		var product domain.Product
		// Try to get from cache
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &product); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"success": true, "product": product, "cached": true})
			return
		}
		// If not in cache, fetch from DB
		if err := db.First(&product, c.Param("productId")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found."})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, product, productCacheTTL) // Cache the product
		c.JSON(http.StatusOK, gin.H{"success": true, "product": product, "cached": false})
	}
}

// DeleteProductHandler removes a product; allowed for the owning seller or an admin
func DeleteProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		role, _ := c.Get("userRole")   // Role claim from the token
		var product domain.Product     // Fetch the product
		if err := db.First(&product, c.Param("productId")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found."})
			return
		}
		// Owner or admin only
		if product.SupplierID != userID && role != domain.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to delete this product."})
			return
		}
		if err := db.Delete(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while deleting product"})
			return
		}
		invalidateProductCaches(rdb, product.ID) // Deleted products leave the listings
		// Log the deletion
		logrus.WithFields(logrus.Fields{
			"product_id": product.ID, // Deleted product ID
			"user_id":    userID,     // Acting user
		}).Info("Product deleted")
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted successfully."})
	}
}

// ToggleProductStatusHandler flips a product's active flag; owner or admin only
func ToggleProductStatusHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		role, _ := c.Get("userRole") // Role claim from the token
		var product domain.Product   // Fetch the product
		if err := db.First(&product, c.Param("productId")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found."})
			return
		}
		// Owner or admin only
		if product.SupplierID != userID && role != domain.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"message": "You are not authorized to update this product."})
			return
		}
		// Flip the flag
		product.IsActive = !product.IsActive
		if err := db.Model(&product).Update("is_active", product.IsActive).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while updating product status"})
			return
		}
		invalidateProductCaches(rdb, product.ID) // Status changes cached listings
		state := "inactive"
		if product.IsActive {
			state = "active"
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product is now " + state + ".", "product": product})
	}
}

// GetSellerProductsHandler lists a seller's active products with pagination
func GetSellerProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, offset := getPagination(c) // Pagination parameters
		sellerID := c.Param("sellerId")         // Seller whose products are listed
		var products []domain.Product
		if err := db.Where("supplier_id = ? AND is_active = ?", sellerID, true).
			Offset(offset).Limit(limit).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while fetching seller's products."})
			return
		}
		// An empty page is reported as not found, matching the catalog contract
		if len(products) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "No active products found for this seller."})
			return
		}
		var total int64 // Total active products for this seller
		if err := db.Model(&domain.Product{}).Where("supplier_id = ? AND is_active = ?", sellerID, true).
			Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while fetching seller's products."})
			return
		}
		totalPages := (int(total) + limit - 1) / limit
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"products":   products,
			"pagination": gin.H{"totalProducts": total, "currentPage": page, "totalPages": totalPages, "perPage": limit},
		})
	}
}

// SearchProductsHandler performs a case-insensitive substring search on
// product names with pagination
func SearchProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, offset := getPagination(c) // Pagination parameters
		keyword := c.Query("keyword")           // Search keyword
		query := db.Model(&domain.Product{})    // Start building the query
		if keyword != "" {
			query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(keyword)+"%") // Substring match
		}
		var total int64 // Total matching products
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while searching for products"})
			return
		}
		var products []domain.Product // Page of products
		if err := query.Offset(offset).Limit(limit).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error while searching for products"})
			return
		}
		totalPages := (int(total) + limit - 1) / limit
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"products":   products,
			"pagination": gin.H{"totalProducts": total, "currentPage": page, "totalPages": totalPages, "perPage": limit},
		})
	}
}

// SearchByCategoryHandler returns every active product in an exact category
func SearchByCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.Query("category") // Required category
		if category == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Category is required"})
			return
		}
		var products []domain.Product // Matching active products
		if err := db.Where("category = ? AND is_active = ?", category, true).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(products), "products": products})
	}
}
