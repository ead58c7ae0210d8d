package domain

import "time"

// ProductReview Model (one review per reviewer per product)
type ProductReview struct {
	ID         uint      `gorm:"primaryKey" json:"id"`                              // Primary key
	ProductID  uint      `gorm:"index;not null" json:"productId"`                   // Reviewed product
	ReviewerID uint      `gorm:"index;not null" json:"reviewerId"`                  // Reviewing user
	Reviewer   *User     `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`   // Reviewer relation
	Rating     int       `gorm:"not null" json:"rating"`                            // 1 to 5
	Comment    string    `json:"comment,omitempty"`                                 // Optional comment
	CreatedAt  time.Time `json:"createdAt"`                                         // Timestamp of creation
	UpdatedAt  time.Time `json:"updatedAt"`                                         // Timestamp of last update
}

// SupplierReview Model (one review per reviewer per seller)
type SupplierReview struct {
	ID         uint      `gorm:"primaryKey" json:"id"`                            // Primary key
	SupplierID uint      `gorm:"index;not null" json:"supplierId"`                // Reviewed seller
	ReviewerID uint      `gorm:"index;not null" json:"reviewerId"`                // Reviewing user
	Reviewer   *User     `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"` // Reviewer relation
	Rating     int       `gorm:"not null" json:"rating"`                          // 1 to 5
	Comment    string    `json:"comment,omitempty"`                               // Optional comment
	CreatedAt  time.Time `json:"createdAt"`                                       // Timestamp of creation
	UpdatedAt  time.Time `json:"updatedAt"`                                       // Timestamp of last update
}
