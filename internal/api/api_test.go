package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/uk1619/freshwala-api/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logrus.SetLevel(logrus.FatalLevel) // Keep test output readable
	os.Exit(m.Run())
}

// setupTestDB opens a uniquely named in-memory SQLite database and migrates
// the full schema into it
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.Cart{},
		&domain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.ProductReview{},
		&domain.SupplierReview{},
		&domain.Wishlist{},
		&domain.WishlistItem{},
	))
	return db
}

// newTestRedis returns a client pointed at a closed port. Cache reads fail
// and are treated as misses, cache invalidation errors are ignored, so the
// handlers under test behave as if the cache were always cold.
func newTestRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

// testContext builds a gin context with an optional JSON body
func testContext(t *testing.T, method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

// asUser marks the context as authenticated, the way the JWT middleware would
func asUser(c *gin.Context, id uint, role string) {
	c.Set("userID", id)
	c.Set("userRole", role)
}

// decodeBody unmarshals a recorded JSON response into a map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) domain.User {
	t.Helper()
	user := domain.User{
		Name:     name,
		Email:    strings.ToLower(name) + "@example.com",
		Password: "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		Role:     role,
		Address:  "12 Market Road",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, supplierID uint, name string, price, discount float64, stock int) domain.Product {
	t.Helper()
	product := domain.Product{
		Name:              name,
		Description:       name + " description",
		Category:          "vegetables",
		PricePerUnit:      price,
		Unit:              "kg",
		QuantityAvailable: stock,
		Discount:          discount,
		SupplierID:        supplierID,
		IsActive:          true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}
