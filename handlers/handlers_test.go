package handlers_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"localmart-api/config"
	"localmart-api/middleware"
	"localmart-api/models"
	"localmart-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRouter spins up the full route tree against a throwaway sqlite
// database, so tests exercise the same path production requests take.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Product{},
		&models.Order{},
		&models.OrderStatusHistory{},
		&models.Announcement{},
		&models.PremiumPayment{},
	); err != nil {
		t.Fatal(err)
	}
	config.DB = db

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

// createUser inserts a user directly and returns a usable bearer token
func createUser(t *testing.T, user *models.User) string {
	t.Helper()
	user.PasswordHash = "x" // not exercised; login path has its own coverage
	if err := config.DB.Create(user).Error; err != nil {
		t.Fatal(err)
	}
	token, err := middleware.GenerateToken(user)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, w.Body.String())
	}
	return out
}

// testPhotoDataURL builds a tiny valid PNG wrapped as a data URL, for
// proof-photo and upload paths that recompress before storage.
func testPhotoDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// seedOrder inserts a pending order directly
func seedOrder(t *testing.T, customerID, businessID uint) *models.Order {
	t.Helper()
	order := &models.Order{
		DisplayID:       "LM-TEST0001",
		CustomerID:      customerID,
		CustomerName:    "Test Customer",
		CustomerPhone:   "9000000001",
		DeliveryAddress: "42 Test Lane, Pune",
		BusinessID:      businessID,
		ShopName:        "Test Shop",
		ShopAddress:     "1 Market Road",
		ShopPhone:       "9000000002",
		ProductID:       1,
		ProductTitle:    "Masala Chai",
		ProductPrice:    40,
		Status:          models.StatusPending,
	}
	if err := config.DB.Create(order).Error; err != nil {
		t.Fatal(err)
	}
	return order
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d\nbody: %s", w.Code, want, w.Body.String())
	}
}
