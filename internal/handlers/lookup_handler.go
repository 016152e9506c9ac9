package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lemawe69/milky-shaky-backend/internal/auth"
	"github.com/lemawe69/milky-shaky-backend/internal/models"
)

type LookupRequest struct {
	Type   string `json:"type" binding:"required"`
	Key    string `json:"key" binding:"required"`
	Value  string `json:"value" binding:"required"`
	Active *bool  `json:"active"`
}

// ListLookups returns active rows only. Inactive rows are invisible even
// if an older client still offers them.
func (h *Handler) ListLookups(c *gin.Context) {
	query := h.DB.Where("active = ?", true)
	if lookupType := c.Query("type"); lookupType != "" {
		query = query.Where("type = ?", lookupType)
	}

	var lookups []models.Lookup
	if err := query.Order("id ASC").Find(&lookups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch lookups"})
		return
	}

	c.JSON(http.StatusOK, lookups)
}

// CreateLookup is manager-only and writes an audit entry carrying the
// created row.
func (h *Handler) CreateLookup(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidLookupType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lookup type"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	lookup := models.Lookup{
		Type:   req.Type,
		Key:    req.Key,
		Value:  req.Value,
		Active: active,
	}

	if err := h.DB.Create(&lookup).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create lookup"})
		return
	}

	if err := h.Audit.Record(actorID(user), "lookups", lookup.ID, models.AuditActionCreate, lookup); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record audit entry"})
		return
	}

	c.JSON(http.StatusCreated, lookup)
}

// UpdateLookup is manager-only; the audit entry carries the full old and
// new rows.
func (h *Handler) UpdateLookup(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	lookupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lookup id"})
		return
	}

	var req LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidLookupType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lookup type"})
		return
	}

	var old models.Lookup
	if err := h.DB.First(&old, lookupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lookup not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch lookup"})
		return
	}

	active := old.Active
	if req.Active != nil {
		active = *req.Active
	}

	updated := old
	updated.Type = req.Type
	updated.Key = req.Key
	updated.Value = req.Value
	updated.Active = active

	if err := h.DB.Save(&updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update lookup"})
		return
	}

	changes := gin.H{"old": old, "new": updated}
	if err := h.Audit.Record(actorID(user), "lookups", updated.ID, models.AuditActionUpdate, changes); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record audit entry"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteLookup is manager-only; the audit entry carries the deleted row.
func (h *Handler) DeleteLookup(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	lookupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lookup id"})
		return
	}

	var old models.Lookup
	if err := h.DB.First(&old, lookupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lookup not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch lookup"})
		return
	}

	if err := h.DB.Delete(&models.Lookup{}, old.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete lookup"})
		return
	}

	if err := h.Audit.Record(actorID(user), "lookups", old.ID, models.AuditActionDelete, old); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record audit entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func actorID(user *models.User) *uint {
	if user == nil {
		return nil
	}
	id := user.ID
	return &id
}
