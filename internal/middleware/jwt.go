package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"github.com/uk1619/freshwala-api/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// JWTAuthMiddleware validates the session token and extracts user information.
// The SPA sends the token as an HTTP-only cookie; a Bearer header is accepted
// as a fallback for API clients.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("token") // Session cookie set at login
		if err != nil || tokenStr == "" {
			// Fall back to the Authorization header
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				// If neither is present, abort with unauthorized status
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
				return
			}
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}
		c.Set("userID", claims.UserID) // Store userID in context
		c.Set("userRole", claims.Role) // Store role in context
		c.Next()                       // Proceed to the next handler
	}
}

// SellerOnlyMiddleware restricts a route to authenticated sellers
func SellerOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("userRole") // Get role from context
		// Check if role exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		// Check if user role is seller
		if role != "seller" {
			// If not seller, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: Access restricted to sellers only"})
			return
		}
		c.Next() // Proceed to the next handler
	}
}
