// internal/interfaces/http/handlers/coupon.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/digitalstore-backend/internal/domain/coupon"
)

// CouponHandler handles admin coupon management
type CouponHandler struct {
	service *coupon.Service
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(service *coupon.Service) *CouponHandler {
	return &CouponHandler{
		service: service,
	}
}

// GetCoupons handles GET /admin/coupons
func (h *CouponHandler) GetCoupons(c *gin.Context) {
	coupons, err := h.service.GetCoupons()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve coupons",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupons retrieved successfully",
		"data":    coupons,
	})
}

// GetCoupon handles GET /admin/coupons/:id
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid coupon ID",
		})
		return
	}

	result, err := h.service.GetCoupon(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Coupon not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon retrieved successfully",
		"data":    result,
	})
}

// CreateCoupon handles POST /admin/coupons
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req coupon.CouponCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.service.CreateCoupon(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to create coupon",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Coupon created successfully",
		"data":    result,
	})
}

// UpdateCoupon handles PUT /admin/coupons/:id
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid coupon ID",
		})
		return
	}

	var req coupon.CouponUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.service.UpdateCoupon(c.Request.Context(), uint(id), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to update coupon",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon updated successfully",
		"data":    result,
	})
}

// DeleteCoupon handles DELETE /admin/coupons/:id
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid coupon ID",
		})
		return
	}

	if err := h.service.DeleteCoupon(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete coupon",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon deleted successfully",
	})
}
