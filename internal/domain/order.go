package domain

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses
const (
	OrderStatusPending    = "pending"    // Order placed, awaiting processing
	OrderStatusProcessing = "processing" // Being prepared
	OrderStatusShipped    = "shipped"    // Out for delivery
	OrderStatusDelivered  = "delivered"  // Delivered to the customer
	OrderStatusCancelled  = "cancelled"  // Cancelled, reachable from any state
)

// Payment methods
const (
	PaymentMethodCash = "cash" // Cash on delivery
	PaymentMethodUPI  = "upi"  // UPI payment
)

// Payment statuses
const (
	PaymentStatusPending = "pending" // Awaiting payment
	PaymentStatusPaid    = "paid"    // Payment received
	PaymentStatusFailed  = "failed"  // Payment failed
)

// Order Model
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`                                        // Primary key
	CustomerID      uint        `gorm:"index;not null" json:"customerId"`                            // Ordering user
	Customer        *User       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`             // Customer relation
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"` // Purchased line items
	TotalPrice      float64     `json:"totalPrice"`                                                  // Sum of unitPrice * quantity
	DiscountApplied float64     `json:"discountApplied"`                                             // Sum of discount * quantity
	FinalPrice      float64     `json:"finalPrice"`                                                  // TotalPrice - DiscountApplied
	Status          string      `gorm:"default:pending" json:"status"`                               // One of the order statuses
	DeliveryAddress string      `json:"deliveryAddress"`                                             // Resolved at placement time
	PaymentMethod   string      `gorm:"not null" json:"paymentMethod"`                               // cash or upi
	PaymentStatus   string      `gorm:"default:pending" json:"paymentStatus"`                        // pending, paid or failed
	CreatedAt       time.Time   `json:"createdAt"`                                                   // Timestamp of creation
	UpdatedAt       time.Time   `json:"updatedAt"`                                                   // Timestamp of last update
}

// OrderItem Model (immutable snapshot of a purchased line item)
type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`         // Primary key
	OrderID   uint     `gorm:"index;not null" json:"orderId"` // Owning order
	ProductID uint     `gorm:"not null" json:"productId"`    // Referenced product
	Product   *Product `json:"product,omitempty"`            // Product relation, populated on reads
	Quantity  int      `gorm:"not null" json:"quantity"`     // Purchased quantity
	UnitPrice float64  `gorm:"not null" json:"unitPrice"`    // Price charged per unit
	Discount  float64  `gorm:"default:0" json:"discount"`    // Per-unit discount applied
}

// ComputeTotals fills TotalPrice, DiscountApplied and FinalPrice from the line items
func (o *Order) ComputeTotals() {
	total := 0.0
	discount := 0.0
	for _, item := range o.Items {
		total += item.UnitPrice * float64(item.Quantity)
		discount += item.Discount * float64(item.Quantity)
	}
	o.TotalPrice = total
	o.DiscountApplied = discount
	o.FinalPrice = total - discount
}

// BeforeSave recomputes order totals before every persist, mirroring a
// document pre-save hook. Status updates that load the order with its
// items keep the totals consistent as well.
func (o *Order) BeforeSave(tx *gorm.DB) error {
	if len(o.Items) > 0 {
		o.ComputeTotals()
	}
	return nil
}

// IsValidOrderStatus reports whether status is a member of the order status enum
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsValidPaymentStatus reports whether status is a member of the payment status enum
func IsValidPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// IsValidPaymentMethod reports whether method is a supported payment method
func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodUPI:
		return true
	}
	return false
}
