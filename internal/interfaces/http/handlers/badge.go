// internal/interfaces/http/handlers/badge.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/digitalstore-backend/internal/domain/catalog"
)

// BadgeHandler handles admin featured badge management
type BadgeHandler struct {
	service *catalog.BadgeService
}

// NewBadgeHandler creates a new badge handler
func NewBadgeHandler(service *catalog.BadgeService) *BadgeHandler {
	return &BadgeHandler{
		service: service,
	}
}

// GetBadges handles GET /admin/badges
func (h *BadgeHandler) GetBadges(c *gin.Context) {
	badges, err := h.service.GetBadges()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve badges",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Badges retrieved successfully",
		"data":    badges,
	})
}

// CreateBadge handles POST /admin/badges
func (h *BadgeHandler) CreateBadge(c *gin.Context) {
	var req catalog.BadgeCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	badge, err := h.service.CreateBadge(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create badge",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Badge created successfully",
		"data":    badge,
	})
}

// UpdateBadge handles PUT /admin/badges/:id
func (h *BadgeHandler) UpdateBadge(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid badge ID",
		})
		return
	}

	var req catalog.BadgeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	badge, err := h.service.UpdateBadge(c.Request.Context(), uint(id), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update badge",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Badge updated successfully",
		"data":    badge,
	})
}

// DeleteBadge handles DELETE /admin/badges/:id
func (h *BadgeHandler) DeleteBadge(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid badge ID",
		})
		return
	}

	if err := h.service.DeleteBadge(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete badge",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Badge deleted successfully",
	})
}
