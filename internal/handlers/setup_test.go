package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lemawe69/milky-shaky-backend/internal/auth"
	"github.com/lemawe69/milky-shaky-backend/internal/db"
	"github.com/lemawe69/milky-shaky-backend/internal/handlers"
	"github.com/lemawe69/milky-shaky-backend/internal/models"
	"github.com/lemawe69/milky-shaky-backend/internal/notifier"
)

// stubNotifier records deliveries instead of sending them. Setting fail
// makes every delivery error, for checking that notification failures
// never surface to callers.
type stubNotifier struct {
	mu     sync.Mutex
	fail   bool
	emails []notifier.OrderSummary
	smses  []uint
}

func (s *stubNotifier) SendOrderEmail(recipientEmail string, summary notifier.OrderSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return fmt.Errorf("stub email failure")
	}
	s.emails = append(s.emails, summary)
	return nil
}

func (s *stubNotifier) SendOrderSMS(toPhoneNumber string, orderID uint, totalAmount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return fmt.Errorf("stub sms failure")
	}
	s.smses = append(s.smses, orderID)
	return nil
}

func (s *stubNotifier) emailCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.emails)
}

func (s *stubNotifier) lastEmail() (notifier.OrderSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.emails) == 0 {
		return notifier.OrderSummary{}, false
	}
	return s.emails[len(s.emails)-1], true
}

// waitFor polls until the condition holds or the deadline passes.
// Notifications are dispatched on goroutines, so assertions on them need
// to wait.
func waitFor(t *testing.T, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return condition()
}

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *stubNotifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret-key")

	// One in-memory SQLite database per test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect test database: " + err.Error())
	}

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Lookup{},
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentMethod{},
		&models.Audit{},
	)
	if err != nil {
		panic("failed to auto-migrate models: " + err.Error())
	}

	originalDB := db.DB
	db.SetTestDB(testDB)
	t.Cleanup(func() {
		db.SetTestDB(originalDB)
	})

	stub := &stubNotifier{}
	h := handlers.New(testDB, stub)

	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")

	orders := api.Group("/orders")
	{
		orders.POST("", auth.RequireAuth(), h.CreateOrder)
		orders.POST("/preview", auth.OptionalAuth(), h.PreviewQuote)
		orders.GET("/mine", auth.RequireAuth(), h.ListMine)
		orders.POST("/cancel", auth.RequireAuth(), h.CancelOrder)
		orders.GET("/:id", auth.RequireAuth(), h.GetOrder)
		orders.POST("/:id/confirm", auth.RequireAuth(), h.ConfirmPayment)
	}

	lookups := api.Group("/lookups")
	{
		lookups.GET("", h.ListLookups)
		lookups.POST("", auth.RequireAuth(), auth.RequireManager(), h.CreateLookup)
		lookups.PUT("/:id", auth.RequireAuth(), auth.RequireManager(), h.UpdateLookup)
		lookups.DELETE("/:id", auth.RequireAuth(), auth.RequireManager(), h.DeleteLookup)
	}

	users := api.Group("/users", auth.RequireAuth())
	{
		users.GET("/profile", h.GetProfile)
		users.PUT("/profile", h.UpdateProfile)
		users.GET("/payment-methods", h.ListPaymentMethods)
		users.POST("/payment-methods", h.AddPaymentMethod)
		users.DELETE("/payment-methods/:id", h.DeletePaymentMethod)
	}

	reports := api.Group("/reports", auth.RequireAuth(), auth.RequireManager())
	{
		reports.GET("/orders", h.OrdersPerPeriod)
		reports.GET("/top-flavours", h.TopFlavours)
		reports.GET("/customers", h.CustomerVolumes)
		reports.GET("/order-stats", h.OrderStats)
		reports.GET("/weekly", h.WeeklyStats)
		reports.GET("/monthly", h.MonthlyStats)
		reports.GET("/audit", h.AuditTrail)
	}

	return r, testDB, stub
}

func tokenFor(t *testing.T, userID uint) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, time.Hour)
	if err != nil {
		panic("failed to generate test token: " + err.Error())
	}
	return token
}

func performRequest(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func seedUser(t *testing.T, testDB *gorm.DB, name string, role models.Role) models.User {
	t.Helper()
	user := models.User{
		Name:  name,
		Email: fmt.Sprintf("%s@example.com", name),
		Phone: "0821234567",
		Role:  role,
	}
	if err := testDB.Create(&user).Error; err != nil {
		panic("failed to seed user: " + err.Error())
	}
	return user
}

func seedLookup(t *testing.T, testDB *gorm.DB, lookupType, key, value string, active bool) models.Lookup {
	t.Helper()
	lookup := models.Lookup{Type: lookupType, Key: key, Value: value, Active: active}
	if err := testDB.Create(&lookup).Error; err != nil {
		panic("failed to seed lookup: " + err.Error())
	}
	return lookup
}

func seedStandardPrices(t *testing.T, testDB *gorm.DB) {
	t.Helper()
	seedLookup(t, testDB, models.LookupFlavour, "Vanilla", "50.00", true)
	seedLookup(t, testDB, models.LookupTopping, "Choc", "10.00", true)
	seedLookup(t, testDB, models.LookupConsistency, "Thick", "0.00", true)
}

func futurePickup() string {
	return time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
}
