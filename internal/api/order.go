package api

import (
	"errors"   // Error comparison
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"github.com/uk1619/freshwala-api/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Fallback delivery address when neither the request nor the profile has one
const fallbackDeliveryAddress = "Address to be updated"

// PlaceOrderRequest represents an order-from-cart request
type PlaceOrderRequest struct {
	PaymentMethod   string `json:"paymentMethod" binding:"omitempty,oneof=cash upi"` // Defaults to cash
	DeliveryAddress string `json:"deliveryAddress"`                                  // Optional override
}

// DirectOrderItem is a client-supplied line item for direct orders
type DirectOrderItem struct {
	ProductID uint `json:"productId" binding:"required"`      // Product to order
	Quantity  int  `json:"quantity" binding:"omitempty,min=1"` // Defaults to 1
}

// PlaceOrderDirectRequest represents a direct order request that bypasses the stored cart
type PlaceOrderDirectRequest struct {
	PaymentMethod   string            `json:"paymentMethod" binding:"omitempty,oneof=cash upi"` // Defaults to cash
	DeliveryAddress string            `json:"deliveryAddress"`                                  // Optional override
	CartItems       []DirectOrderItem `json:"cartItems" binding:"required,min=1,dive"`          // Items to order
}

// UpdateOrderStatusRequest represents an admin status update
type UpdateOrderStatusRequest struct {
	Status        string `json:"status"`        // Optional new order status
	PaymentStatus string `json:"paymentStatus"` // Optional new payment status
}

// outOfStockError aborts placement when a product cannot cover the requested quantity
type outOfStockError struct{ name string }

func (e *outOfStockError) Error() string { return "Out of stock: " + e.name }

// unavailableProductError aborts placement for missing or inactive products
type unavailableProductError struct{ name string }

func (e *unavailableProductError) Error() string { return "Product not found: " + e.name }

// reserveStock performs an atomic conditional decrement of a product's stock
// and bumps its sold counter. The guard closes the check-then-decrement race:
// two concurrent orders cannot both take the last units.
func reserveStock(tx *gorm.DB, productID uint, quantity int) (bool, error) {
	res := tx.Model(&domain.Product{}).
		Where("id = ? AND quantity_available >= ?", productID, quantity).
		Updates(map[string]any{
			"quantity_available": gorm.Expr("quantity_available - ?", quantity), // Decrement stock
			"total_sold":         gorm.Expr("total_sold + ?", quantity),         // Increment sold counter
		})
	if res.Error != nil {
		return false, res.Error // Database error
	}
	return res.RowsAffected > 0, nil // False when the guard rejected the decrement
}

// resolveDeliveryAddress picks the request address, then the profile address,
// then the hard-coded fallback
func resolveDeliveryAddress(requested string, user *domain.User) string {
	if requested != "" {
		return requested
	}
	if user.Address != "" {
		return user.Address
	}
	return fallbackDeliveryAddress
}

// paymentStatusFor maps the payment method to the initial payment status:
// cash settles on delivery, anything else is treated as paid up front
func paymentStatusFor(method string) string {
	if method == domain.PaymentMethodCash {
		return domain.PaymentStatusPending
	}
	return domain.PaymentStatusPaid
}

// PlaceOrderFromCartHandler converts the user's stored cart into an order.
// Line items carry the cart's snapshot prices. Stock decrement, order insert
// and cart deletion run in one transaction so a failed placement leaves
// nothing behind.
func PlaceOrderFromCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		var req PlaceOrderRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order request"})
			return
		}
		if req.PaymentMethod == "" {
			req.PaymentMethod = domain.PaymentMethodCash // Default payment method
		}
		var cart domain.Cart // Fetch the user's populated cart
		err := db.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && len(cart.Items) == 0) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cart is empty"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Order placement failed"})
			return
		}
		var user domain.User // Fetch the ordering user
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User not found"})
			return
		}
		order := domain.Order{
			CustomerID:      userID,                                             // Ordering user
			PaymentMethod:   req.PaymentMethod,                                  // Validated method
			PaymentStatus:   paymentStatusFor(req.PaymentMethod),                // Initial payment status
			DeliveryAddress: resolveDeliveryAddress(req.DeliveryAddress, &user), // Resolved address
		}
		// Reserve stock, insert the order and drop the cart as one unit
		err = db.Transaction(func(tx *gorm.DB) error {
			for _, item := range cart.Items {
				if item.Product == nil {
					// Product row vanished since it was added to the cart
					return &unavailableProductError{name: "product " + strconv.Itoa(int(item.ProductID))}
				}
				reserved, err := reserveStock(tx, item.ProductID, item.Quantity)
				if err != nil {
					return err // Return error to rollback
				}
				if !reserved {
					return &outOfStockError{name: item.Product.Name} // Named shortfall aborts everything
				}
				// Line items use the cart's snapshots, not the live product price
				order.Items = append(order.Items, domain.OrderItem{
					ProductID: item.ProductID,        // Referenced product
					Quantity:  item.Quantity,         // Purchased quantity
					UnitPrice: item.PriceAtAddTime,   // Snapshot price
					Discount:  item.DiscountAtAddTime, // Snapshot discount
				})
			}
			// Totals are computed by the model's BeforeSave hook
			if err := tx.Create(&order).Error; err != nil {
				return err // Return error to rollback
			}
			// Clear the cart: items first, then the cart row
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&domain.CartItem{}).Error; err != nil {
				return err // Return error to rollback
			}
			if err := tx.Delete(&domain.Cart{}, cart.ID).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			var oos *outOfStockError
			var unavailable *unavailableProductError
			if errors.As(err, &oos) || errors.As(err, &unavailable) {
				// Validation failures are the client's problem
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"error":   err.Error(), // Error message
			}).Error("Order placement failed") // Log placement failure
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Order placement failed"})
			return
		}
		// Log successful placement
		logrus.WithFields(logrus.Fields{
			"user_id":     userID,           // User ID
			"order_id":    order.ID,         // New order ID
			"final_price": order.FinalPrice, // Amount due
			"items":       len(order.Items), // Line item count
		}).Info("Order placed")
		c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
	}
}

// PlaceOrderDirectHandler places an order from a client-supplied item list
// instead of the stored cart. Products are re-fetched so prices are current,
// not snapshotted; the cart is not touched.
func PlaceOrderDirectHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		var req PlaceOrderDirectRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No items provided for order"})
			return
		}
		if req.PaymentMethod == "" {
			req.PaymentMethod = domain.PaymentMethodCash // Default payment method
		}
		var user domain.User // Fetch the ordering user
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User not found"})
			return
		}
		order := domain.Order{
			CustomerID:      userID,                                             // Ordering user
			PaymentMethod:   req.PaymentMethod,                                  // Validated method
			PaymentStatus:   paymentStatusFor(req.PaymentMethod),                // Initial payment status
			DeliveryAddress: resolveDeliveryAddress(req.DeliveryAddress, &user), // Resolved address
		}
		// Validate items against live products and place the order atomically
		err := db.Transaction(func(tx *gorm.DB) error {
			for _, item := range req.CartItems {
				quantity := item.Quantity
				if quantity == 0 {
					quantity = 1 // Missing quantity defaults to one unit
				}
				var product domain.Product // Re-fetch the product for current price and state
				if err := tx.First(&product, item.ProductID).Error; err != nil || !product.IsActive {
					return &unavailableProductError{name: "product " + strconv.Itoa(int(item.ProductID))}
				}
				reserved, err := reserveStock(tx, product.ID, quantity)
				if err != nil {
					return err // Return error to rollback
				}
				if !reserved {
					return &outOfStockError{name: product.Name} // Named shortfall aborts everything
				}
				// Live price and discount, unlike the cart path
				order.Items = append(order.Items, domain.OrderItem{
					ProductID: product.ID,           // Referenced product
					Quantity:  quantity,             // Purchased quantity
					UnitPrice: product.PricePerUnit, // Current price
					Discount:  product.Discount,     // Current discount
				})
			}
			// Totals are computed by the model's BeforeSave hook
			return tx.Create(&order).Error
		})
		// Handle transaction result
		if err != nil {
			var oos *outOfStockError
			var unavailable *unavailableProductError
			if errors.As(err, &oos) || errors.As(err, &unavailable) {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"error":   err.Error(), // Error message
			}).Error("Direct order placement failed") // Log placement failure
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Direct order placement failed"})
			return
		}
		// Log successful placement
		logrus.WithFields(logrus.Fields{
			"user_id":     userID,           // User ID
			"order_id":    order.ID,         // New order ID
			"final_price": order.FinalPrice, // Amount due
			"items":       len(order.Items), // Line item count
		}).Info("Direct order placed")
		c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
	}
}

// GetUserOrdersHandler returns every order of the authenticated user, newest first
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		var orders []domain.Order // Fetch orders with products populated
		if err := db.Preload("Items.Product").Where("customer_id = ?", userID).
			Order("created_at desc").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetOrderByIDHandler returns one order, only to its owner
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Authenticated user
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Please log in first"})
			return
		}
		var order domain.Order // Fetch the order with products populated
		if err := db.Preload("Items.Product").First(&order, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		// Ownership check
		if order.CustomerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GetAllOrdersHandler returns every order in the system (admin only)
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []domain.Order // Fetch all orders with customers and products populated
		if err := db.Preload("Customer").Preload("Items.Product").
			Order("created_at desc").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// UpdateOrderStatusHandler lets an admin move an order through the status
// enums. Values outside the enums are rejected and the order stays untouched.
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid update request"})
			return
		}
		var order domain.Order // Fetch the order
		if err := db.First(&order, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		// Validate both fields before mutating anything
		if req.Status != "" && !domain.IsValidOrderStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order status"})
			return
		}
		if req.PaymentStatus != "" && !domain.IsValidPaymentStatus(req.PaymentStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payment status"})
			return
		}
		updates := map[string]any{} // Only provided fields change
		if req.Status != "" {
			updates["status"] = req.Status
		}
		if req.PaymentStatus != "" {
			updates["payment_status"] = req.PaymentStatus
		}
		if len(updates) > 0 {
			if err := db.Model(&order).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order"})
				return
			}
			// Re-read so the response reflects the stored state
			if err := db.First(&order, order.ID).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order"})
				return
			}
		}
		// Log the status change
		logrus.WithFields(logrus.Fields{
			"order_id":       order.ID,          // Order ID
			"status":         order.Status,      // New order status
			"payment_status": order.PaymentStatus, // New payment status
		}).Info("Order updated")
		c.JSON(http.StatusOK, gin.H{"message": "Order updated successfully", "order": order})
	}
}
