package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lemawe69/milky-shaky-backend/internal/audit"
	"github.com/lemawe69/milky-shaky-backend/internal/models"
)

// Reporting endpoints. All of them sit behind the manager middleware.

type PeriodBucket struct {
	Period  string  `json:"period"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type FlavourVolume struct {
	Flavour string `json:"flavour"`
	Volume  int    `json:"volume"`
}

type CustomerVolume struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Orders     int     `json:"orders"`
	TotalSpent float64 `json:"total_spent"`
}

type OrderStatsRow struct {
	MinOrder float64 `json:"min_order"`
	MaxOrder float64 `json:"max_order"`
}

func parseReportDate(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	return fallback
}

// bucketOrders groups orders created since the cutoff by the given period
// key. Bucketing happens in Go so the same query runs unchanged on
// postgres and the sqlite test database.
func (h *Handler) bucketOrders(since time.Time, until time.Time, key func(time.Time) string) ([]PeriodBucket, error) {
	var orders []models.Order
	err := h.DB.Select("created_at, total").
		Where("created_at BETWEEN ? AND ?", since, until).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	buckets := map[string]*PeriodBucket{}
	for _, order := range orders {
		period := key(order.CreatedAt)
		bucket, ok := buckets[period]
		if !ok {
			bucket = &PeriodBucket{Period: period}
			buckets[period] = bucket
		}
		bucket.Orders++
		bucket.Revenue += order.Total
	}

	result := make([]PeriodBucket, 0, len(buckets))
	for _, bucket := range buckets {
		result = append(result, *bucket)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Period < result[j].Period })
	return result, nil
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func weekKey(t time.Time) string {
	// Monday of the week the order falls in.
	monday := t.AddDate(0, 0, -((int(t.Weekday()) + 6) % 7))
	return monday.Format("2006-01-02")
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// OrdersPerPeriod reports daily order counts and revenue over a date
// range, defaulting to the last 30 days.
func (h *Handler) OrdersPerPeriod(c *gin.Context) {
	now := time.Now()
	from := parseReportDate(c.Query("from"), now.AddDate(0, 0, -30))
	to := parseReportDate(c.Query("to"), now)

	buckets, err := h.bucketOrders(from, to, dayKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, buckets)
}

func (h *Handler) WeeklyStats(c *gin.Context) {
	now := time.Now()
	buckets, err := h.bucketOrders(now.AddDate(0, 0, -12*7), now, weekKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, buckets)
}

func (h *Handler) MonthlyStats(c *gin.Context) {
	now := time.Now()
	buckets, err := h.bucketOrders(now.AddDate(0, -12, 0), now, monthKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, buckets)
}

// TopFlavours lists the ten best-selling flavours by drink volume.
func (h *Handler) TopFlavours(c *gin.Context) {
	var rows []FlavourVolume
	err := h.DB.Model(&models.OrderItem{}).
		Select("flavour, SUM(qty) as volume").
		Group("flavour").
		Order("volume DESC").
		Limit(10).
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// CustomerVolumes ranks customers by lifetime spend.
func (h *Handler) CustomerVolumes(c *gin.Context) {
	var rows []CustomerVolume
	err := h.DB.Table("users").
		Select("users.id, users.name, COUNT(orders.id) as orders, COALESCE(SUM(orders.total), 0) as total_spent").
		Joins("LEFT JOIN orders ON orders.user_id = users.id").
		Group("users.id, users.name").
		Having("COUNT(orders.id) > 0").
		Order("total_spent DESC").
		Limit(100).
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *Handler) OrderStats(c *gin.Context) {
	var stats OrderStatsRow
	err := h.DB.Model(&models.Order{}).
		Select("COALESCE(MIN(total), 0) as min_order, COALESCE(MAX(total), 0) as max_order").
		Scan(&stats).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// AuditTrail returns the most recent audit entries, newest first.
func (h *Handler) AuditTrail(c *gin.Context) {
	entries, err := h.Audit.ListRecent(audit.DefaultTrailLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch audit trail"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
