package domain

import "time"

// Wishlist Model (one wishlist per user)
type Wishlist struct {
	ID        uint           `gorm:"primaryKey" json:"id"`                                       // Primary key
	UserID    uint           `gorm:"uniqueIndex;not null" json:"userId"`                         // One wishlist per user
	Items     []WishlistItem `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE" json:"items"` // Saved products
	CreatedAt time.Time      `json:"createdAt"`                                                  // Timestamp of creation
	UpdatedAt time.Time      `json:"updatedAt"`                                                  // Timestamp of last update
}

// WishlistItem Model
type WishlistItem struct {
	ID         uint     `gorm:"primaryKey" json:"id"`                       // Primary key
	WishlistID uint     `gorm:"index;not null" json:"wishlistId"`           // Owning wishlist
	ProductID  uint     `gorm:"not null" json:"productId"`                  // Saved product
	Product    *Product `json:"product,omitempty"`                          // Product relation, populated on reads
}
