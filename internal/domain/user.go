package domain

import "time"

// User roles
const (
	RoleUser   = "user"   // Regular buyer
	RoleSeller = "seller" // Supplier/seller
	RoleAdmin  = "admin"  // Administrator
)

// Default avatar used until the user uploads a profile photo
const DefaultProfilePhoto = "https://static.vecteezy.com/system/resources/previews/032/176/197/non_2x/business-avatar-profile-black-icon-man-of-user-symbol-in-trendy-flat-style-isolated-on-male-profile-people-diverse-face-for-social-network-or-web-vector.jpg"

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`              // Primary key
	Name         string    `gorm:"not null" json:"name"`              // Display name
	Email        string    `gorm:"uniqueIndex;not null" json:"email"` // Unique email, stored lowercase
	Password     string    `gorm:"not null" json:"-"`                 // Bcrypt hash, never serialized
	Phone        string    `json:"phone,omitempty"`                   // Contact phone
	Role         string    `gorm:"default:user" json:"role"`          // Role: user, seller or admin
	Address      string    `json:"address,omitempty"`                 // Delivery address
	BusinessName string    `json:"businessName,omitempty"`            // Sellers only
	IsBanned     bool      `gorm:"default:false" json:"-"`            // Ban flag, checked at login
	ProfilePhoto string    `json:"profilePhoto"`                      // Avatar URL
	CreatedAt    time.Time `json:"createdAt"`                         // Timestamp of creation
	UpdatedAt    time.Time `json:"updatedAt"`                         // Timestamp of last update
}

// IsValidRole reports whether role is one of the allowed user roles
func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleSeller, RoleAdmin:
		return true
	}
	return false
}
