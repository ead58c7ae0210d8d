package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"github.com/uk1619/freshwala-api/internal/domain" // Importing domain models
	"github.com/uk1619/freshwala-api/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Session cookie lifetime in seconds, matches the token expiry
const sessionCookieMaxAge = 3600

// SignupRequest represents a signup request
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`           // Display name must be provided
	Email    string `json:"email" binding:"required,email"`    // Valid email must be provided
	Password string `json:"password" binding:"required,min=6"` // Password must be at least 6 characters
	Role     string `json:"role"`                              // Optional role, defaults to user
	AdminKey string `json:"adminKey"`                          // Required when signing up as admin
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// UserSummary is the public shape of a user returned by auth endpoints
type UserSummary struct {
	ID    uint   `json:"id"`    // User ID
	Name  string `json:"name"`  // Display name
	Email string `json:"email"` // Email address
	Role  string `json:"role"`  // Role
}

// SignupHandler registers a new user, seller or admin
func SignupHandler(db *gorm.DB, adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Name, email, password, and role are required"})
			return
		}
		// Default missing role to user
		if req.Role == "" {
			req.Role = domain.RoleUser
		}
		// Validate the role against the allowed set
		if !domain.IsValidRole(req.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role provided"})
			return
		}
		// Admin signups must present the admin key
		if req.Role == domain.RoleAdmin && req.AdminKey != adminKey {
			c.JSON(http.StatusForbidden, gin.H{"message": "Invalid admin key"})
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email)) // Emails are stored lowercase
		var existing domain.User
		// Reject duplicate emails up front for a friendlier message
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists with this email"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Signup failed"})
			return
		}
		user := domain.User{
			Name:         strings.TrimSpace(req.Name), // Display name
			Email:        email,                       // Lowercased email
			Password:     string(hash),                // Bcrypt hash
			Role:         req.Role,                    // Validated role
			ProfilePhoto: domain.DefaultProfilePhoto,  // Default avatar
		}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"email": email,       // Attempted email
				"error": err.Error(), // Error message
			}).Error("Signup failed") // Log signup failure
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists with this email"})
			return
		}
		// Log successful signup
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,   // New user ID
			"role":    user.Role, // Registered role
		}).Info("User registered")
		// Return the new user's public shape
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "User registered successfully as " + user.Role,
			"user":    UserSummary{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
		})
	}
}

// LoginHandler authenticates a user and sets the session cookie
func LoginHandler(db *gorm.DB, jwtSecret string, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		// Banned accounts cannot log in
		if user.IsBanned {
			c.JSON(http.StatusForbidden, gin.H{"message": user.Role + " is banned, contact admin"})
			return
		}
		// Generate JWT token carrying id and role
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
			return
		}
		// Log successful login
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,   // User ID
			"role":    user.Role, // User role
		}).Info("User logged in")
		c.SetSameSite(http.SameSiteStrictMode)                                  // Match the SPA's strict cookie policy
		c.SetCookie("token", token, sessionCookieMaxAge, "/", "", secureCookie, true) // HTTP-only session cookie
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Login successful",
			"user":    UserSummary{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role},
		})
	}
}

// LogoutHandler clears the session cookie
func LogoutHandler(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteStrictMode)               // Same cookie policy as login
		c.SetCookie("token", "", -1, "/", "", secureCookie, true) // Expire the cookie immediately
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
	}
}
