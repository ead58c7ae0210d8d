package api

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/uk1619/freshwala-api/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// addToCart is a shortcut for building a cart via the real handler
func addToCart(t *testing.T, db *gorm.DB, userID, productID uint, quantity int) {
	t.Helper()
	c, w := testContext(t, "POST", "/api/cart/addToCart", gin.H{"productId": productID, "quantity": quantity})
	asUser(c, userID, domain.RoleUser)
	AddToCartHandler(db)(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPlaceOrderFromCartSuccess(t *testing.T) {
	db := setupTestDB(t)
	seller := seedUser(t, db, "Seller", domain.RoleSeller)
	buyer := seedUser(t, db, "Buyer", domain.RoleUser)
	product := seedProduct(t, db, seller.ID, "Tomatoes", 100, 10, 50)
	addToCart(t, db, buyer.ID, product.ID, 2)

	c, w := testContext(t, "POST", "/api/order/orderFromCart", gin.H{"paymentMethod": "cash"})
	asUser(c, buyer.ID, domain.RoleUser)
	PlaceOrderFromCartHandler(db)(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var order domain.Order
	require.NoError(t, db.Preload("Items").Where("customer_id = ?", buyer.ID).First(&order).Error)
	assert.Equal(t, 200.0, order.TotalPrice)
	assert.Equal(t, 20.0, order.DiscountApplied)
	assert.Equal(t, 180.0, order.FinalPrice)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.PaymentStatusPending, order.PaymentStatus) // Cash settles on delivery
	assert.Equal(t, buyer.Address, order.DeliveryAddress)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)

	// Stock was decremented and the sold counter bumped
	var fresh domain.Product
	require.NoError(t, db.First(&fresh, product.ID).Error)
	assert.Equal(t, 48, fresh.QuantityAvailable)
	assert.Equal(t, 2, fresh.TotalSold)

	// The cart row is gone, not just emptied
	var carts int64
	db.Model(&domain.Cart{}).Where("user_id = ?", buyer.ID).Count(&carts)
	assert.Zero(t, carts)
}

func TestPlaceOrderUPIMarksPaid(t *testing.T) {
	db := setupTestDB(t)
	seller := seedUser(t, db, "Seller", domain.RoleSeller)
	buyer := seedUser(t, db, "Buyer", domain.RoleUser)
	product := seedProduct(t, db, seller.ID, "Paneer", 300, 0, 10)
	addToCart(t, db, buyer.ID, product.ID, 1)

	c, w := testContext(t, "POST", "/api/order/orderFromCart", gin.H{"paymentMethod": "upi"})
	asUser(c, buyer.ID, domain.RoleUser)
	PlaceOrderFromCartHandler(db)(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var order domain.Order
	require.NoError(t, db.Where("customer_id = ?", buyer.ID).First(&order).Error)
	assert.Equal(t, domain.PaymentStatusPaid, order.PaymentStatus)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	buyer := seedUser(t, db, "Buyer", domain.RoleUser)

	c, w := testContext(t, "POST", "/api/order/orderFromCart", gin.H{})
	asUser(c, buyer.ID, domain.RoleUser)
	PlaceOrderFromCartHandler(db)(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var orders int64
	db.Model(&domain.Order{}).Count(&orders)
	assert.Zero(t, orders)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	db := setupTestDB(t)
	seller := seedUser(t, db, "Seller", domain.RoleSeller)
	buyer := seedUser(t, db, "Buyer", domain.RoleUser)
	plenty := seedProduct(t, db, seller.ID, "Potatoes", 40, 0, 100)
	scarce := seedProduct(t, db, seller.ID, "Saffron", 900, 0, 5)
	addToCart(t, db, buyer.ID, plenty.ID, 2)
	addToCart(t, db, buyer.ID, scarce.ID, 3)

	// Stock drops between add and placement
	require.NoError(t, db.Model(&scarce).Update("quantity_available", 1).Error)

	c, w := testContext(t, "POST", "/api/order/orderFromCart", gin.H{})
	asUser(c, buyer.ID, domain.RoleUser)
	PlaceOrderFromCartHandler(db)(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["message"], "Saffron") // Shortfall names the product

	// Nothing happened: no order, stock untouched, cart intact
	var orders int64
	db.Model(&domain.Order{}).Count(&orders)
	assert.Zero(t, orders)
	var fresh domain.Product
	require.NoError(t, db.First(&fresh, plenty.ID).Error)
	assert.Equal(t, 100, fresh.QuantityAvailable)
	assert.Zero(t, fresh.TotalSold)
	var cart domain.Cart
	require.NoError(t, db.Preload("Items").Where("user_id = ?", buyer.ID).First(&cart).Error)
	assert.Len(t, cart.Items, 2)
}

func TestPlaceOrderUsesSnapshotPrice(t *testing.T) {
	db := setupTestDB(t)
	seller := seedUser(t, db, "Seller", domain.RoleSeller)
	buyer := seedUser(t, db, "Buyer", domain.RoleUser)
	product := seedProduct(t, db, seller.ID, "Mangoes", 150, 0, 30)
	addToCart(t, db, buyer.ID, product.ID, 2)

	// Price hike after the product was carted
	require.NoError(t, db.Model(&product).Update("price_per_unit", 200).Error)

	c, w := testContext(t, "POST", "/api/order/orderFromCart", gin.H{})
	asUser(c, buyer.ID, domain.RoleUser)
	PlaceOrderFromCartHandler(db)(c)
	require.Equal(t, http.StatusCreated, w.Code)

	// Cart orders charge the add-time price, not the hiked one
	var order domain.Order
	require.NoError(t, db.Preload("Items").Where("customer_id = ?", buyer.ID).First(&order).Error)
	assert.Equal(t, 150.0, order.Items[0].UnitPrice)
	assert.Equal(t, 300.0, order.FinalPrice)
}

func TestPlaceOrderDirectUsesLivePrice(t *testing.T) {
	db := setupTestDB(t)
	seller := seedUser(t, db, "Seller", domain.RoleSeller)
	buyer := seedUser(t, db, "Buyer", domain.RoleUser)
	product := seedProduct(t, db, seller.ID, "Mangoes", 150, 0, 30)
	require.NoError(t, db.Model(&product).Update("price_per_unit", 200).Error)

	c, w := testContext(t, "POST", "/api/order/orderDirect", gin.H{
		"cartItems": []gin.H{{"productId": product.ID, "quantity": 2}},
	})
	asUser(c, buyer.ID, domain.RoleUser)
	PlaceOrderDirectHandler(db)(c)
	require.Equal(t, http.StatusCreated, w.Code)

	// Direct orders re-fetch the product, so the current price applies
	var order domain.Order
	require.NoError(t, db.Preload("Items").Where("customer_id = ?", buyer.ID).First(&order).Error)
	assert.Equal(t, 200.0, order.Items[0].UnitPrice)
	assert.Equal(t, 400.0, order.FinalPrice)
}

func TestPlaceOrderDirectDefaultsQuantity(t *testing.T) {
	db := setupTestDB(t)
	seller := seedUser(t, db, "Seller", domain.RoleSeller)
	buyer := seedUser(t, db, "Buyer", domain.RoleUser)
	product := seedProduct(t, db, seller.ID, "Honey", 450, 50, 8)

	c, w := testContext(t, "POST", "/api/order/orderDirect", gin.H{
		"cartItems": []gin.H{{"productId": product.ID}},
	})
	asUser(c, buyer.ID, domain.RoleUser)
	PlaceOrderDirectHandler(db)(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var order domain.Order
	require.NoError(t, db.Preload("Items").Where("customer_id = ?", buyer.ID).First(&order).Error)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 1, order.Items[0].Quantity)
	assert.Equal(t, 400.0, order.FinalPrice) // (450-50)*1
}

func TestPlaceOrderDirectRejectsInactiveProduct(t *testing.T) {
	db := setupTestDB(t)
	seller := seedUser(t, db, "Seller", domain.RoleSeller)
	buyer := seedUser(t, db, "Buyer", domain.RoleUser)
	product := seedProduct(t, db, seller.ID, "Jaggery", 90, 0, 20)
	require.NoError(t, db.Model(&product).Update("is_active", false).Error)

	c, w := testContext(t, "POST", "/api/order/orderDirect", gin.H{
		"cartItems": []gin.H{{"productId": product.ID, "quantity": 1}},
	})
	asUser(c, buyer.ID, domain.RoleUser)
	PlaceOrderDirectHandler(db)(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var orders int64
	db.Model(&domain.Order{}).Count(&orders)
	assert.Zero(t, orders)
}

func TestGetOrderByIDOwnership(t *testing.T) {
	db := setupTestDB(t)
	seller := seedUser(t, db, "Seller", domain.RoleSeller)
	buyer := seedUser(t, db, "Buyer", domain.RoleUser)
	other := seedUser(t, db, "Other", domain.RoleUser)
	product := seedProduct(t, db, seller.ID, "Eggs", 7, 0, 200)
	addToCart(t, db, buyer.ID, product.ID, 12)

	c, w := testContext(t, "POST", "/api/order/orderFromCart", gin.H{})
	asUser(c, buyer.ID, domain.RoleUser)
	PlaceOrderFromCartHandler(db)(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var order domain.Order
	require.NoError(t, db.Where("customer_id = ?", buyer.ID).First(&order).Error)
	orderID := strconv.Itoa(int(order.ID))

	// The owner can read it
	c, w = testContext(t, "GET", "/api/order/getMyOrder/"+orderID, nil)
	c.Params = gin.Params{{Key: "id", Value: orderID}}
	asUser(c, buyer.ID, domain.RoleUser)
	GetOrderByIDHandler(db)(c)
	assert.Equal(t, http.StatusOK, w.Code)

	// Anyone else gets forbidden, not a leaky 404
	c, w = testContext(t, "GET", "/api/order/getMyOrder/"+orderID, nil)
	c.Params = gin.Params{{Key: "id", Value: orderID}}
	asUser(c, other.ID, domain.RoleUser)
	GetOrderByIDHandler(db)(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	db := setupTestDB(t)
	seller := seedUser(t, db, "Seller", domain.RoleSeller)
	buyer := seedUser(t, db, "Buyer", domain.RoleUser)
	product := seedProduct(t, db, seller.ID, "Bread", 35, 0, 60)
	addToCart(t, db, buyer.ID, product.ID, 1)

	c, w := testContext(t, "POST", "/api/order/orderFromCart", gin.H{})
	asUser(c, buyer.ID, domain.RoleUser)
	PlaceOrderFromCartHandler(db)(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var order domain.Order
	require.NoError(t, db.Where("customer_id = ?", buyer.ID).First(&order).Error)
	orderID := strconv.Itoa(int(order.ID))

	// A value outside the enum is rejected and nothing changes
	c, w = testContext(t, "PUT", "/api/order/updateOrderStatus/"+orderID, gin.H{"status": "teleported"})
	c.Params = gin.Params{{Key: "id", Value: orderID}}
	UpdateOrderStatusHandler(db)(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var unchanged domain.Order
	require.NoError(t, db.First(&unchanged, order.ID).Error)
	assert.Equal(t, domain.OrderStatusPending, unchanged.Status)

	// A valid transition applies to both fields
	c, w = testContext(t, "PUT", "/api/order/updateOrderStatus/"+orderID, gin.H{
		"status":        "shipped",
		"paymentStatus": "paid",
	})
	c.Params = gin.Params{{Key: "id", Value: orderID}}
	UpdateOrderStatusHandler(db)(c)
	require.Equal(t, http.StatusOK, w.Code)
	var updated domain.Order
	require.NoError(t, db.First(&updated, order.ID).Error)
	assert.Equal(t, domain.OrderStatusShipped, updated.Status)
	assert.Equal(t, domain.PaymentStatusPaid, updated.PaymentStatus)
}
