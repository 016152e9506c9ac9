package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/lemawe69/milky-shaky-backend/internal/auth"
	"github.com/lemawe69/milky-shaky-backend/internal/db"
	"github.com/lemawe69/milky-shaky-backend/internal/handlers"
	"github.com/lemawe69/milky-shaky-backend/internal/notifier"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	db.Init()

	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOriginFunc = func(origin string) bool { return true }
	corsCfg.AllowCredentials = true
	corsCfg.AddAllowHeaders("Authorization")
	r.Use(cors.New(corsCfg))

	h := handlers.New(db.DB, notifier.New())

	// ── public endpoints ──
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	api := r.Group("/api")

	// ── orders ──
	orders := api.Group("/orders")
	{
		orders.POST("", auth.RequireAuth(), h.CreateOrder)
		orders.POST("/preview", auth.OptionalAuth(), h.PreviewQuote)
		orders.GET("/mine", auth.RequireAuth(), h.ListMine)
		orders.POST("/cancel", auth.RequireAuth(), h.CancelOrder)
		orders.GET("/:id", auth.RequireAuth(), h.GetOrder)
		orders.POST("/:id/confirm", auth.RequireAuth(), h.ConfirmPayment)
	}

	// ── lookups: public read, manager-only mutation ──
	lookups := api.Group("/lookups")
	{
		lookups.GET("", h.ListLookups)
		lookups.POST("", auth.RequireAuth(), auth.RequireManager(), h.CreateLookup)
		lookups.PUT("/:id", auth.RequireAuth(), auth.RequireManager(), h.UpdateLookup)
		lookups.DELETE("/:id", auth.RequireAuth(), auth.RequireManager(), h.DeleteLookup)
	}

	// ── profile & payment methods ──
	users := api.Group("/users", auth.RequireAuth())
	{
		users.GET("/profile", h.GetProfile)
		users.PUT("/profile", h.UpdateProfile)
		users.GET("/payment-methods", h.ListPaymentMethods)
		users.POST("/payment-methods", h.AddPaymentMethod)
		users.DELETE("/payment-methods/:id", h.DeletePaymentMethod)
	}

	// ── manager reports ──
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

	r.Run(":" + getEnv("PORT", "8080"))
}

func getEnv(key, fallback string) string {

	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return fallback
}
