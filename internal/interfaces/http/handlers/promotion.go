// internal/interfaces/http/handlers/promotion.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/digitalstore-backend/internal/domain/promotion"
)

// PromotionHandler handles admin promotion management
type PromotionHandler struct {
	service *promotion.Service
}

// NewPromotionHandler creates a new promotion handler
func NewPromotionHandler(service *promotion.Service) *PromotionHandler {
	return &PromotionHandler{
		service: service,
	}
}

// GetPromotions handles GET /admin/promotions
func (h *PromotionHandler) GetPromotions(c *gin.Context) {
	promotions, err := h.service.GetPromotions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve promotions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotions retrieved successfully",
		"data":    promotions,
	})
}

// GetPromotion handles GET /admin/promotions/:id
func (h *PromotionHandler) GetPromotion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid promotion ID",
		})
		return
	}

	promo, err := h.service.GetPromotion(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Promotion not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotion retrieved successfully",
		"data":    promo,
	})
}

// CreatePromotion handles POST /admin/promotions
func (h *PromotionHandler) CreatePromotion(c *gin.Context) {
	var req promotion.PromotionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	promo, err := h.service.CreatePromotion(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to create promotion",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Promotion created successfully",
		"data":    promo,
	})
}

// UpdatePromotion handles PUT /admin/promotions/:id
func (h *PromotionHandler) UpdatePromotion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid promotion ID",
		})
		return
	}

	var req promotion.PromotionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	promo, err := h.service.UpdatePromotion(c.Request.Context(), uint(id), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to update promotion",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotion updated successfully",
		"data":    promo,
	})
}

// DeletePromotion handles DELETE /admin/promotions/:id
func (h *PromotionHandler) DeletePromotion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid promotion ID",
		})
		return
	}

	if err := h.service.DeletePromotion(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete promotion",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotion deleted successfully",
	})
}
