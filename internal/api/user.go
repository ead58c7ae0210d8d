package api

import (
	"net/http" // HTTP status codes

	"github.com/uk1619/freshwala-api/internal/domain" // Importing domain models
	"github.com/uk1619/freshwala-api/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`       // Current password must be provided
	NewPassword     string `json:"newPassword" binding:"required,min=6"`     // New password, at least 6 characters
}

// ProfileHandler returns the authenticated user's profile
func ProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, userID).Error; err != nil {
			// If user not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": user}) // Password is excluded by the model's json tag
	}
}

// UpdateProfileHandler applies a partial update to the authenticated user's
// profile; only provided fields change, businessName is seller-only
func UpdateProfileHandler(db *gorm.DB, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		role, _ := c.Get("userRole") // Role claim from the token

		updates := map[string]any{} // Only provided fields are written
		if name := c.PostForm("name"); name != "" {
			updates["name"] = name
		}
		if phone := c.PostForm("phone"); phone != "" {
			updates["phone"] = phone
		}
		if address := c.PostForm("address"); address != "" {
			updates["address"] = address
		}
		// Business name only applies to sellers
		if businessName := c.PostForm("businessName"); businessName != "" && role == domain.RoleSeller {
			updates["business_name"] = businessName
		}
		// Optional profile photo upload
		if file, err := c.FormFile("profilePhoto"); err == nil {
			url, err := utils.SaveUploadedImage(c, file, uploadDir, "user_profiles")
			if err != nil {
				// Reject bad image types, fail on storage errors
				if err == utils.ErrInvalidImageType {
					c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
					return
				}
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store profile photo"})
				return
			}
			updates["profile_photo"] = url
		}
		var user domain.User // Fetch the user to update
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		// Apply the partial update
		if len(updates) > 0 {
			if err := db.Model(&user).Updates(updates).Error; err != nil {
				logrus.WithFields(logrus.Fields{
					"user_id": userID,      // User ID
					"error":   err.Error(), // Error message
				}).Error("Profile update failed") // Log update failure
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Profile update failed"})
				return
			}
			// Re-read so the response reflects the stored state
			if err := db.First(&user, userID).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Profile update failed"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Profile updated successfully",
			"user":    user,
		})
	}
}

// ChangePasswordHandler verifies the current password and stores a new hash
func ChangePasswordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		var req ChangePasswordRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Both current and new passwords are required"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		// Verify the current password before accepting the new one
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Incorrect current password"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Password change failed"})
			return
		}
		// Store the new hash
		if err := db.Model(&user).Update("password", string(hash)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Password change failed"})
			return
		}
		// Log the password change
		logrus.WithFields(logrus.Fields{
			"user_id": userID, // User ID
		}).Info("Password changed")
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
	}
}
