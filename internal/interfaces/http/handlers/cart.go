// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/digitalstore-backend/internal/domain/cart"
	"github.com/your-org/digitalstore-backend/internal/domain/storefront"
)

// CartHandler handles session cart operations
type CartHandler struct {
	cartService       *cart.Service
	storefrontService *storefront.Service
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *cart.Service, storefrontService *storefront.Service) *CartHandler {
	return &CartHandler{
		cartService:       cartService,
		storefrontService: storefrontService,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	cartResponse, err := h.cartService.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartResponse,
	})
}

// AddItemRequest represents the payload for adding a product to the cart
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// AddItem handles POST /cart/items. The line item's title, image and unit
// price are snapshotted from the current catalog, not taken from the client.
func (h *CartHandler) AddItem(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.storefrontService.ProductByID(req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	cartResponse, err := h.cartService.AddItem(c.Request.Context(), sessionID, &cart.AddItemRequest{
		ProductID: item.Product.ID,
		Title:     item.Product.Title,
		Image:     item.Product.PrimaryImage(),
		UnitPrice: item.EffectivePrice,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add item to cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cartResponse,
	})
}

// UpdateQuantityRequest represents the payload for a quantity change
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem handles PUT /cart/items/:id. A quantity of zero or less
// removes the line item.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cartResponse, err := h.cartService.UpdateQuantity(c.Request.Context(), sessionID, uint(productID), req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update cart item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    cartResponse,
	})
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	cartResponse, err := h.cartService.RemoveItem(c.Request.Context(), sessionID, uint(productID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove cart item",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    cartResponse,
	})
}

// ClearCart handles DELETE /cart. Line items are removed; an applied
// coupon stays on the cart.
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	cartResponse, err := h.cartService.ClearCart(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    cartResponse,
	})
}

// ApplyCouponRequest represents the payload for applying a coupon
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// ApplyCoupon handles POST /cart/coupon. The code is validated against the
// current coupon snapshot; an invalid code never reaches the cart.
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	applied := h.storefrontService.ValidateCoupon(req.Code)
	if applied == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Invalid or expired coupon code",
		})
		return
	}

	cartResponse, err := h.cartService.ApplyCoupon(c.Request.Context(), sessionID, *applied)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to apply coupon",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon applied successfully",
		"data":    cartResponse,
	})
}

// RemoveCoupon handles DELETE /cart/coupon
func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	sessionID := h.getOrCreateSessionID(c)

	cartResponse, err := h.cartService.RemoveCoupon(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to remove coupon",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon removed successfully",
		"data":    cartResponse,
	})
}

// getOrCreateSessionID gets the session ID from the cookie or creates a new one
func (h *CartHandler) getOrCreateSessionID(c *gin.Context) string {
	sessionID, err := c.Cookie("session_id")
	if err != nil || sessionID == "" {
		sessionID = uuid.New().String()
		c.SetCookie("session_id", sessionID, 86400, "/", "", false, true)
	}

	return sessionID
}
