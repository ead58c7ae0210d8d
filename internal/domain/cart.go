package domain

import "time"

// Cart Model (one cart per user)
type Cart struct {
	ID         uint       `gorm:"primaryKey" json:"id"`                                            // Primary key
	UserID     uint       `gorm:"uniqueIndex;not null" json:"userId"`                              // One cart per user
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`      // Line items, removed with the cart
	TotalPrice float64    `gorm:"not null;default:0" json:"totalPrice"`                            // Derived: see RecalculateTotal
	CreatedAt  time.Time  `json:"createdAt"`                                                       // Timestamp of creation
	UpdatedAt  time.Time  `json:"updatedAt"`                                                       // Timestamp of last update
}

// CartItem Model
type CartItem struct {
	ID                uint     `gorm:"primaryKey" json:"id"`            // Primary key
	CartID            uint     `gorm:"index;not null" json:"cartId"`    // Owning cart
	ProductID         uint     `gorm:"not null" json:"productId"`       // Referenced product
	Product           *Product `json:"product,omitempty"`               // Product relation, populated on reads
	Quantity          int      `gorm:"not null" json:"quantity"`        // Requested quantity
	PriceAtAddTime    float64  `gorm:"not null" json:"priceAtAddTime"`  // Price snapshot taken when added
	DiscountAtAddTime float64  `gorm:"default:0" json:"discountAtAddTime"` // Per-unit discount snapshot
}

// RecalculateTotal recomputes the cart total from its line item snapshots.
// TotalPrice must always equal the sum of (price - discount) * quantity.
func (c *Cart) RecalculateTotal() {
	total := 0.0
	for _, item := range c.Items {
		itemTotal := item.PriceAtAddTime * float64(item.Quantity)
		itemDiscount := item.DiscountAtAddTime * float64(item.Quantity)
		total += itemTotal - itemDiscount
	}
	c.TotalPrice = total
}
