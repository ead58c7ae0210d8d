package domain

import "time"

// Product categories (fixed set from the catalog)
var ProductCategories = []string{"vegetables", "fruits", "spices", "grains", "dairy", "beaverages", "packaged", "others"}

// Measurement units a product can be sold in
var ProductUnits = []string{"kg", "l", "ml", "pcs", "gm"}

// Product Model
type Product struct {
	ID                uint      `gorm:"primaryKey" json:"id"`                    // Primary key
	Name              string    `gorm:"not null" json:"name"`                    // Product name
	Description       string    `gorm:"not null" json:"description"`             // Product description
	Category          string    `gorm:"not null;index" json:"category"`          // One of ProductCategories
	PricePerUnit      float64   `gorm:"not null" json:"pricePerUnit"`            // Price per unit
	Unit              string    `gorm:"not null" json:"unit"`                    // One of ProductUnits
	QuantityAvailable int       `gorm:"not null" json:"quantityAvailable"`       // Stock counter
	ImageURL          string    `json:"imageUrl"`                                // Uploaded image URL
	Discount          float64   `gorm:"default:0" json:"discount"`               // Per-unit discount amount
	SupplierID        uint      `gorm:"not null;index" json:"supplierId"`        // Owning seller
	Supplier          *User     `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"` // Seller relation
	IsActive          bool      `gorm:"default:true;index" json:"isActive"`      // Listing flag
	TotalSold         int       `gorm:"default:0" json:"totalSold"`              // Units sold counter
	CreatedAt         time.Time `json:"createdAt"`                               // Timestamp of creation
	UpdatedAt         time.Time `json:"updatedAt"`                               // Timestamp of last update
}

// IsValidCategory reports whether category is in the fixed category set
func IsValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

// IsValidUnit reports whether unit is in the fixed unit set
func IsValidUnit(unit string) bool {
	for _, u := range ProductUnits {
		if u == unit {
			return true
		}
	}
	return false
}
