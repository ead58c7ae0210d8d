package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"github.com/uk1619/freshwala-api/internal/domain" // Importing domain models
	"github.com/uk1619/freshwala-api/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID           uint   `json:"id"`           // User ID
	Name         string `json:"name"`         // Display name
	Email        string `json:"email"`        // Email address
	Role         string `json:"role"`         // User role
	BusinessName string `json:"businessName"` // Sellers only
	IsBanned     bool   `json:"isBanned"`     // Ban flag
}

// ListUsersHandler returns all users, paginated and cached
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		// Create a cache key based on pagination parameters
		cacheKey := "admin:users:page=" + c.DefaultQuery("page", "1") + ":limit=" + c.DefaultQuery("limit", "10")
		// Try to get cached response
		var cached struct {
			Users      []UserAdminResponse `json:"users"`      // List of users
			Page       int                 `json:"page"`       // Current page
			Limit      int                 `json:"limit"`      // Page size
			Total      int64               `json:"total"`      // Total number of users
			TotalPages int                 `json:"totalPages"` // Total pages
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"users":      cached.Users,      // List of users
				"page":       cached.Page,       // Current page
				"limit":      cached.Limit,      // Page size
				"total":      cached.Total,      // Total number of users
				"totalPages": cached.TotalPages, // Total pages
				"cached":     true,              // Indicate response is from cache
			})
			return
		}
		page, limit, offset := getPagination(c) // Pagination parameters
		var total int64                         // Total user count
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to count users"}) // Return on error
			return
		}
		var users []domain.User // Slice to hold users
		if err := db.Offset(offset).Limit(limit).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch users"}) // Return on error
			return
		}
		totalPages := (int(total) + limit - 1) / limit // Calculate total pages
		// Map users to the admin response shape
		resp := make([]UserAdminResponse, len(users))
		for i, u := range users {
			resp[i] = UserAdminResponse{
				ID:           u.ID,           // User ID
				Name:         u.Name,         // Display name
				Email:        u.Email,        // Email address
				Role:         u.Role,         // User role
				BusinessName: u.BusinessName, // Business name
				IsBanned:     u.IsBanned,     // Ban flag
			}
		}
		// Prepare final response data
		respData := gin.H{
			"users":      resp,       // List of users
			"page":       page,       // Current page
			"limit":      limit,      // Page size
			"total":      total,      // Total number of users
			"totalPages": totalPages, // Total pages
			"cached":     false,      // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData) // Return the response
	}
}

// BanUserHandler toggles a user's ban flag; banned users cannot log in
func BanUserHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user domain.User // Fetch the target user
		if err := db.First(&user, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		// Admins cannot be banned
		if user.Role == domain.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot ban an admin"})
			return
		}
		// Flip the ban flag
		user.IsBanned = !user.IsBanned
		if err := db.Model(&user).Update("is_banned", user.IsBanned).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user"})
			return
		}
		// User listing caches are stale now
		_ = utils.DeleteCacheByPrefix(context.Background(), rdb, "admin:users:")
		// Log the ban change
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,       // Target user
			"is_banned": user.IsBanned, // New ban state
		}).Info("User ban toggled")
		state := "unbanned"
		if user.IsBanned {
			state = "banned"
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User " + state + " successfully", "userId": strconv.Itoa(int(user.ID)), "isBanned": user.IsBanned})
	}
}
