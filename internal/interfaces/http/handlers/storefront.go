// internal/interfaces/http/handlers/storefront.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/digitalstore-backend/internal/domain/storefront"
)

// StorefrontHandler serves the public catalog from mirror snapshots
type StorefrontHandler struct {
	service *storefront.Service
}

// NewStorefrontHandler creates a new storefront handler
func NewStorefrontHandler(service *storefront.Service) *StorefrontHandler {
	return &StorefrontHandler{
		service: service,
	}
}

// GetCatalog handles GET /storefront/catalog
func (h *StorefrontHandler) GetCatalog(c *gin.Context) {
	category := c.Query("category")

	items := h.service.Catalog(category)

	c.JSON(http.StatusOK, gin.H{
		"message": "Catalog retrieved successfully",
		"data":    items,
		"total":   len(items),
	})
}

// GetProduct handles GET /storefront/products/:id
func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	item, err := h.service.ProductByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    item,
	})
}

// GetCategories handles GET /storefront/categories
func (h *StorefrontHandler) GetCategories(c *gin.Context) {
	categories := h.service.Categories()

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    categories,
	})
}

// GetBadges handles GET /storefront/badges
func (h *StorefrontHandler) GetBadges(c *gin.Context) {
	badges := h.service.Badges()

	c.JSON(http.StatusOK, gin.H{
		"message": "Badges retrieved successfully",
		"data":    badges,
	})
}
