package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lemawe69/milky-shaky-backend/internal/auth"
	"github.com/lemawe69/milky-shaky-backend/internal/models"
)

type AddPaymentMethodRequest struct {
	CardholderName string `json:"cardholder_name"`
	CardNumber     string `json:"card_number"`
	ExpiryMonth    int    `json:"expiry_month"`
	ExpiryYear     int    `json:"expiry_year"`
	CVV            string `json:"cvv"`
	Brand          string `json:"brand"`
}

// ListPaymentMethods returns the caller's stored cards. The model only
// serializes the masked fields.
func (h *Handler) ListPaymentMethods(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var methods []models.PaymentMethod
	err := h.DB.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&methods).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch payment methods"})
		return
	}

	c.JSON(http.StatusOK, methods)
}

func (h *Handler) AddPaymentMethod(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req AddPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.CardholderName == "" || req.CardNumber == "" || req.ExpiryMonth == 0 || req.ExpiryYear == 0 || req.CVV == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required card fields"})
		return
	}

	if len(req.CardNumber) < 4 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card number"})
		return
	}

	method := models.PaymentMethod{
		UserID:         user.ID,
		Provider:       "card",
		CardholderName: req.CardholderName,
		CardNumber:     req.CardNumber,
		CVV:            req.CVV,
		Last4:          req.CardNumber[len(req.CardNumber)-4:],
		Brand:          req.Brand,
		ExpiryMonth:    req.ExpiryMonth,
		ExpiryYear:     req.ExpiryYear,
		Active:         true,
	}

	if err := h.DB.Create(&method).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create payment method"})
		return
	}

	c.JSON(http.StatusCreated, method)
}

func (h *Handler) DeletePaymentMethod(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	methodID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method id"})
		return
	}

	result := h.DB.Where("id = ? AND user_id = ?", methodID, user.ID).Delete(&models.PaymentMethod{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete payment method"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment method not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
