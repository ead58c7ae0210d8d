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

// seedOrder inserts a delivered order for one product so review gates open
func seedOrder(t *testing.T, db *gorm.DB, customerID, productID uint) {
	t.Helper()
	order := domain.Order{
		CustomerID:    customerID,
		PaymentMethod: domain.PaymentMethodCash,
		Status:        domain.OrderStatusDelivered,
		Items: []domain.OrderItem{{
			ProductID: productID,
			Quantity:  1,
			UnitPrice: 100,
		}},
	}
	require.NoError(t, db.Create(&order).Error)
}

func submitProductReview(t *testing.T, db *gorm.DB, userID, productID uint, rating int, comment string) int {
	t.Helper()
	id := strconv.Itoa(int(productID))
	c, w := testContext(t, "POST", "/api/review/product/"+id, gin.H{"rating": rating, "comment": comment})
	c.Params = gin.Params{{Key: "productId", Value: id}}
	asUser(c, userID, domain.RoleUser)
	ReviewProductHandler(db, newTestRedis())(c)
	return w.Code
}

func TestReviewProductRequiresOrder(t *testing.T) {
	db := setupTestDB(t)
	seller := seedUser(t, db, "Seller", domain.RoleSeller)
	buyer := seedUser(t, db, "Buyer", domain.RoleUser)
	product := seedProduct(t, db, seller.ID, "Tomatoes", 100, 0, 50)

	code := submitProductReview(t, db, buyer.ID, product.ID, 5, "never bought it")

	assert.Equal(t, http.StatusForbidden, code)
	var count int64
	db.Model(&domain.ProductReview{}).Count(&count)
	assert.Zero(t, count)
}

func TestReviewProductCreateThenUpdate(t *testing.T) {
	db := setupTestDB(t)
	seller := seedUser(t, db, "Seller", domain.RoleSeller)
	buyer := seedUser(t, db, "Buyer", domain.RoleUser)
	product := seedProduct(t, db, seller.ID, "Apples", 180, 0, 50)
	seedOrder(t, db, buyer.ID, product.ID)

	code := submitProductReview(t, db, buyer.ID, product.ID, 4, "good")
	assert.Equal(t, http.StatusCreated, code)

	// A second submission updates the same row instead of adding one
	code = submitProductReview(t, db, buyer.ID, product.ID, 2, "went bad quickly")
	assert.Equal(t, http.StatusOK, code)

	var reviews []domain.ProductReview
	require.NoError(t, db.Where("product_id = ?", product.ID).Find(&reviews).Error)
	require.Len(t, reviews, 1)
	assert.Equal(t, 2, reviews[0].Rating)
	assert.Equal(t, "went bad quickly", reviews[0].Comment)
}

func TestProductAverageRating(t *testing.T) {
	db := setupTestDB(t)
	seller := seedUser(t, db, "Seller", domain.RoleSeller)
	first := seedUser(t, db, "First", domain.RoleUser)
	second := seedUser(t, db, "Second", domain.RoleUser)
	product := seedProduct(t, db, seller.ID, "Grapes", 120, 0, 50)
	seedOrder(t, db, first.ID, product.ID)
	seedOrder(t, db, second.ID, product.ID)

	code := submitProductReview(t, db, first.ID, product.ID, 4, "")
	require.Equal(t, http.StatusCreated, code)
	code = submitProductReview(t, db, second.ID, product.ID, 2, "")
	require.Equal(t, http.StatusCreated, code)

	id := strconv.Itoa(int(product.ID))
	c, w := testContext(t, "GET", "/api/review/product/"+id+"/average", nil)
	c.Params = gin.Params{{Key: "productId", Value: id}}
	GetProductAverageRatingHandler(db, newTestRedis())(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, 3.0, body["averageRating"])
	assert.Equal(t, 2.0, body["totalReviews"]) // JSON numbers decode as float64
}

func TestProductAverageRatingNoReviews(t *testing.T) {
	db := setupTestDB(t)

	c, w := testContext(t, "GET", "/api/review/product/42/average", nil)
	c.Params = gin.Params{{Key: "productId", Value: "42"}}
	GetProductAverageRatingHandler(db, newTestRedis())(c)

	// Zero-valued aggregate, not an error
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, 0.0, body["averageRating"])
	assert.Equal(t, 0.0, body["totalReviews"])
}

func TestDeleteProductReview(t *testing.T) {
	db := setupTestDB(t)
	seller := seedUser(t, db, "Seller", domain.RoleSeller)
	buyer := seedUser(t, db, "Buyer", domain.RoleUser)
	product := seedProduct(t, db, seller.ID, "Carrots", 45, 0, 50)
	seedOrder(t, db, buyer.ID, product.ID)
	id := strconv.Itoa(int(product.ID))

	// Deleting a review that does not exist
	c, w := testContext(t, "DELETE", "/api/review/product/"+id, nil)
	c.Params = gin.Params{{Key: "productId", Value: id}}
	asUser(c, buyer.ID, domain.RoleUser)
	DeleteProductReviewHandler(db, newTestRedis())(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	code := submitProductReview(t, db, buyer.ID, product.ID, 5, "")
	require.Equal(t, http.StatusCreated, code)

	c, w = testContext(t, "DELETE", "/api/review/product/"+id, nil)
	c.Params = gin.Params{{Key: "productId", Value: id}}
	asUser(c, buyer.ID, domain.RoleUser)
	DeleteProductReviewHandler(db, newTestRedis())(c)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&domain.ProductReview{}).Count(&count)
	assert.Zero(t, count)
}

func TestReviewSellerGate(t *testing.T) {
	db := setupTestDB(t)
	seller := seedUser(t, db, "Seller", domain.RoleSeller)
	buyer := seedUser(t, db, "Buyer", domain.RoleUser)
	stranger := seedUser(t, db, "Stranger", domain.RoleUser)
	product := seedProduct(t, db, seller.ID, "Cheese", 220, 0, 30)
	seedOrder(t, db, buyer.ID, product.ID)
	id := strconv.Itoa(int(seller.ID))

	// Never ordered from this seller
	c, w := testContext(t, "POST", "/api/review/seller/"+id, gin.H{"rating": 1})
	c.Params = gin.Params{{Key: "sellerId", Value: id}}
	asUser(c, stranger.ID, domain.RoleUser)
	ReviewSellerHandler(db, newTestRedis())(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A qualifying order opens the gate
	c, w = testContext(t, "POST", "/api/review/seller/"+id, gin.H{"rating": 5, "comment": "fast delivery"})
	c.Params = gin.Params{{Key: "sellerId", Value: id}}
	asUser(c, buyer.ID, domain.RoleUser)
	ReviewSellerHandler(db, newTestRedis())(c)
	assert.Equal(t, http.StatusCreated, w.Code)

	var reviews []domain.SupplierReview
	require.NoError(t, db.Where("supplier_id = ?", seller.ID).Find(&reviews).Error)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].Rating)
}

func TestReviewSellerRejectsNonSeller(t *testing.T) {
	db := setupTestDB(t)
	// A plain user who somehow supplies a product is still not reviewable as a seller
	supplier := seedUser(t, db, "Supplier", domain.RoleUser)
	buyer := seedUser(t, db, "Buyer", domain.RoleUser)
	product := seedProduct(t, db, supplier.ID, "Pickles", 150, 0, 10)
	seedOrder(t, db, buyer.ID, product.ID)
	id := strconv.Itoa(int(supplier.ID))

	c, w := testContext(t, "POST", "/api/review/seller/"+id, gin.H{"rating": 3})
	c.Params = gin.Params{{Key: "sellerId", Value: id}}
	asUser(c, buyer.ID, domain.RoleUser)
	ReviewSellerHandler(db, newTestRedis())(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProductReviewsPagination(t *testing.T) {
	db := setupTestDB(t)
	seller := seedUser(t, db, "Seller", domain.RoleSeller)
	product := seedProduct(t, db, seller.ID, "Yogurt", 55, 0, 50)
	for i := 0; i < 3; i++ {
		reviewer := seedUser(t, db, "Reviewer"+strconv.Itoa(i), domain.RoleUser)
		seedOrder(t, db, reviewer.ID, product.ID)
		code := submitProductReview(t, db, reviewer.ID, product.ID, i+1, "")
		require.Equal(t, http.StatusCreated, code)
	}
	id := strconv.Itoa(int(product.ID))

	c, w := testContext(t, "GET", "/api/review/product/"+id+"?page=1&limit=2", nil)
	c.Params = gin.Params{{Key: "productId", Value: id}}
	GetProductReviewsHandler(db)(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, 3.0, body["total"])
	assert.Equal(t, 2.0, body["pages"])
	assert.Len(t, body["reviews"], 2)
}
