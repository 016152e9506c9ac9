package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lemawe69/milky-shaky-backend/internal/auth"
	"github.com/lemawe69/milky-shaky-backend/internal/models"
	"github.com/lemawe69/milky-shaky-backend/internal/notifier"
	"github.com/lemawe69/milky-shaky-backend/internal/pricing"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type PreviewQuoteRequest struct {
	Items []pricing.CartItem `json:"items"`
}

type CreateOrderRequest struct {
	Items           []pricing.CartItem `json:"items"`
	Restaurant      string             `json:"restaurant" binding:"required"`
	PickupAt        string             `json:"pickup_at" binding:"required"`
	MakePayment     bool               `json:"make_payment"`
	PaymentMethodID *uint              `json:"payment_method_id"`
}

type CancelOrderRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// -------- Helpers --------

// Generate unique order reference, e.g. 20250908130500-<uuid4>
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// priorOrderCount feeds discount tier selection. Read without locking:
// two concurrent creations by the same user may observe the same count
// and both earn a tier; that relaxation is accepted.
func (h *Handler) priorOrderCount(userID uint) (int, error) {
	var count int64
	err := h.DB.Model(&models.Order{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}

func orderSummary(order *models.Order, customerName string, cancelled bool) notifier.OrderSummary {
	items := make([]pricing.PricedItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, pricing.PricedItem{
			CartItem: pricing.CartItem{
				Flavour:     item.Flavour,
				Topping:     item.Topping,
				Consistency: item.Consistency,
				Qty:         item.Qty,
			},
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}
	return notifier.OrderSummary{
		OrderID:      order.ID,
		Reference:    order.Reference,
		CustomerName: customerName,
		Items:        items,
		// The persisted columns are authoritative; the subtotal is
		// derived from them, never re-quoted.
		Subtotal:   order.Total + order.Discount - order.VATAmount,
		Discount:   order.Discount,
		VAT:        order.VATAmount,
		Total:      order.Total,
		Restaurant: order.Restaurant,
		PickupAt:   order.PickupAt,
		Cancelled:  cancelled,
	}
}

// dispatchNotifications runs on its own goroutine. Failures are logged
// and swallowed; they never reach the caller's response path.
func (h *Handler) dispatchNotifications(user models.User, summary notifier.OrderSummary, withSMS bool) {
	if user.Email != "" {
		if err := h.Notifier.SendOrderEmail(user.Email, summary); err != nil {
			log.Printf("Failed to send email for order %d to %s: %v\n", summary.OrderID, user.Email, err)
		}
	}
	if withSMS && user.Phone != "" {
		if err := h.Notifier.SendOrderSMS(user.Phone, summary.OrderID, summary.Total); err != nil {
			log.Printf("Failed to send SMS for order %d to %s: %v\n", summary.OrderID, user.Phone, err)
		}
	}
}

// -------- Core Logic --------

// PreviewQuote prices a cart without persisting anything. Anonymous
// callers get a quote with no loyalty discount.
func (h *Handler) PreviewQuote(c *gin.Context) {
	var req PreviewQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	priorOrders := 0
	if user, ok := auth.CurrentUser(c); ok {
		var err error
		priorOrders, err = h.priorOrderCount(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read order history"})
			return
		}
	}

	snapshot, err := pricing.LoadSnapshot(h.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup data unavailable"})
		return
	}

	quote, err := pricing.ComputeQuote(req.Items, priorOrders, snapshot)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "pricing": quote})
}

// CreateOrder prices the cart and persists the order header together with
// its items in one transaction. The order starts PAID when payment is
// elected with a valid, caller-owned payment method, else PENDING.
func (h *Handler) CreateOrder(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items required"})
		return
	}

	pickupAt, err := time.Parse(time.RFC3339, req.PickupAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pickup_at, want RFC3339"})
		return
	}
	if pickupAt.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pickup_at must not be in the past"})
		return
	}

	snapshot, err := pricing.LoadSnapshot(h.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup data unavailable"})
		return
	}

	if drinks := pricing.TotalDrinks(req.Items); drinks > snapshot.Config.MaxDrinks {
		errorMessage := fmt.Sprintf("order exceeds the maximum of %d drinks", snapshot.Config.MaxDrinks)
		c.JSON(http.StatusBadRequest, gin.H{"error": errorMessage})
		return
	}

	priorOrders, err := h.priorOrderCount(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read order history"})
		return
	}

	quote, err := pricing.ComputeQuote(req.Items, priorOrders, snapshot)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.OrderStatusPending
	if req.MakePayment {
		if req.PaymentMethodID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment_method_id required when make_payment is set"})
			return
		}
		var method models.PaymentMethod
		err := h.DB.Where("id = ? AND user_id = ? AND active = ?", *req.PaymentMethodID, user.ID, true).
			First(&method).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment method not found"})
			return
		}
		status = models.OrderStatusPaid
	}

	order := models.Order{
		Reference:  generateOrderRef(),
		UserID:     user.ID,
		Restaurant: req.Restaurant,
		PickupAt:   pickupAt,
		Status:     status,
		Total:      quote.Total,
		VATAmount:  quote.VAT,
		Discount:   quote.Discount,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		orderItems := make([]models.OrderItem, 0, len(quote.Items))
		for _, item := range quote.Items {
			orderItems = append(orderItems, models.OrderItem{
				OrderID:     order.ID,
				Flavour:     item.Flavour,
				Topping:     item.Topping,
				Consistency: item.Consistency,
				Qty:         item.Qty,
				UnitPrice:   item.UnitPrice,
				LineTotal:   item.LineTotal,
			})
		}

		return tx.CreateInBatches(&orderItems, len(orderItems)).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}

	if err := h.DB.Preload("Items").First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve order with items"})
		return
	}

	go h.dispatchNotifications(*user, orderSummary(&order, user.Name, false), true)

	c.JSON(http.StatusCreated, gin.H{"success": true, "order": order, "pricing": quote})
}

// GetOrder returns an order with its items to the owner or a manager.
func (h *Handler) GetOrder(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var order models.Order
	if err := h.DB.Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}

	if !CanViewOrder(user, &order) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListMine returns the caller's orders, newest first, with items.
func (h *Handler) ListMine(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var orders []models.Order
	err := h.DB.Preload("Items").
		Where("user_id = ?", user.ID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// ConfirmPayment moves the order to PAID. Confirming an already-PAID
// order succeeds again and simply re-sends the receipt. The receipt is
// built from the persisted totals so that later price changes never leak
// into it.
func (h *Handler) ConfirmPayment(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var order models.Order
	if err := h.DB.Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}

	if !CanViewOrder(user, &order) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	if !order.Status.CanTransitionTo(models.OrderStatusPaid) {
		c.JSON(http.StatusConflict, gin.H{"error": "order is cancelled"})
		return
	}

	if err := h.DB.Model(&order).Update("status", models.OrderStatusPaid).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm payment"})
		return
	}

	var owner models.User
	if err := h.DB.First(&owner, order.UserID).Error; err == nil {
		go h.dispatchNotifications(owner, orderSummary(&order, owner.Name, false), false)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CancelOrder cancels the caller's own order. Ownership is checked as
// part of the lookup: a non-owner learns nothing beyond "not found".
func (h *Handler) CancelOrder(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_id required"})
		return
	}

	var order models.Order
	if err := h.DB.Preload("Items").First(&order, req.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
		return
	}

	if !CanCancelOrder(user, &order) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	if order.Status == models.OrderStatusCancelled {
		c.JSON(http.StatusConflict, gin.H{"error": "order is already cancelled"})
		return
	}

	if err := h.DB.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel order"})
		return
	}

	// The cancellation email carries the original total as the refund
	// amount.
	go h.dispatchNotifications(*user, orderSummary(&order, user.Name, true), false)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "order cancelled successfully, refund will be processed"})
}
