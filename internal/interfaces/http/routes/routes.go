// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/digitalstore-backend/internal/config"
	"github.com/your-org/digitalstore-backend/internal/domain/cart"
	"github.com/your-org/digitalstore-backend/internal/domain/catalog"
	"github.com/your-org/digitalstore-backend/internal/domain/coupon"
	"github.com/your-org/digitalstore-backend/internal/domain/order"
	"github.com/your-org/digitalstore-backend/internal/domain/promotion"
	"github.com/your-org/digitalstore-backend/internal/domain/storefront"
	"github.com/your-org/digitalstore-backend/internal/infrastructure/changefeed"
	"github.com/your-org/digitalstore-backend/internal/interfaces/http/handlers"
	"github.com/your-org/digitalstore-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// Dependencies carries the shared infrastructure the route groups wire
// their services from. The storefront service is built once around the
// mirror so cart and catalog reads share the same snapshots.
type Dependencies struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Config     *config.Config
	Feed       changefeed.Publisher
	Storefront *storefront.Service
	Cart       *cart.Service
}

// SetupStorefrontRoutes sets up the public catalog routes
func SetupStorefrontRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	storefrontHandler := handlers.NewStorefrontHandler(deps.Storefront)

	shop := rg.Group("/storefront")
	{
		shop.GET("/catalog", storefrontHandler.GetCatalog)
		shop.GET("/products/:id", storefrontHandler.GetProduct)
		shop.GET("/categories", storefrontHandler.GetCategories)
		shop.GET("/badges", storefrontHandler.GetBadges)
	}
}

// SetupCartRoutes sets up the session cart routes
func SetupCartRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Cart, deps.Storefront)

	carts := rg.Group("/cart")
	{
		carts.GET("", cartHandler.GetCart)
		carts.DELETE("", cartHandler.ClearCart)
		carts.POST("/items", cartHandler.AddItem)
		carts.PUT("/items/:id", cartHandler.UpdateItem)
		carts.DELETE("/items/:id", cartHandler.RemoveItem)
		carts.POST("/coupon", cartHandler.ApplyCoupon)
		carts.DELETE("/coupon", cartHandler.RemoveCoupon)
	}
}

// SetupCheckoutRoutes sets up the public checkout route
func SetupCheckoutRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	orderHandler := handlers.NewOrderHandler(order.NewService(deps.DB, deps.Cart))

	rg.POST("/checkout", orderHandler.Checkout)
}

// SetupAdminRoutes sets up the credential gate and the protected
// management routes
func SetupAdminRoutes(rg *gin.RouterGroup, deps *Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Config)
	productHandler := handlers.NewProductHandler(catalog.NewService(deps.DB, deps.Feed, deps.Config))
	categoryHandler := handlers.NewCategoryHandler(catalog.NewCategoryService(deps.DB, deps.Feed, deps.Config))
	badgeHandler := handlers.NewBadgeHandler(catalog.NewBadgeService(deps.DB, deps.Feed))
	promotionHandler := handlers.NewPromotionHandler(promotion.NewService(deps.DB, deps.Feed))
	couponHandler := handlers.NewCouponHandler(coupon.NewService(deps.DB, deps.Feed))
	orderHandler := handlers.NewOrderHandler(order.NewService(deps.DB, deps.Cart))

	admin := rg.Group("/admin")
	{
		admin.POST("/login", authHandler.Login)

		protected := admin.Group("")
		protected.Use(middleware.AuthMiddleware(deps.Config))
		protected.Use(middleware.AdminMiddleware())
		{
			protected.GET("/products", productHandler.GetProducts)
			protected.GET("/products/:id", productHandler.GetProduct)
			protected.POST("/products", productHandler.CreateProduct)
			protected.PUT("/products/:id", productHandler.UpdateProduct)
			protected.DELETE("/products/:id", productHandler.DeleteProduct)

			protected.GET("/categories", categoryHandler.GetCategories)
			protected.POST("/categories", categoryHandler.CreateCategory)
			protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)

			protected.GET("/badges", badgeHandler.GetBadges)
			protected.POST("/badges", badgeHandler.CreateBadge)
			protected.PUT("/badges/:id", badgeHandler.UpdateBadge)
			protected.DELETE("/badges/:id", badgeHandler.DeleteBadge)

			protected.GET("/promotions", promotionHandler.GetPromotions)
			protected.GET("/promotions/:id", promotionHandler.GetPromotion)
			protected.POST("/promotions", promotionHandler.CreatePromotion)
			protected.PUT("/promotions/:id", promotionHandler.UpdatePromotion)
			protected.DELETE("/promotions/:id", promotionHandler.DeletePromotion)

			protected.GET("/coupons", couponHandler.GetCoupons)
			protected.GET("/coupons/:id", couponHandler.GetCoupon)
			protected.POST("/coupons", couponHandler.CreateCoupon)
			protected.PUT("/coupons/:id", couponHandler.UpdateCoupon)
			protected.DELETE("/coupons/:id", couponHandler.DeleteCoupon)

			protected.GET("/orders", orderHandler.GetOrders)
			protected.GET("/orders/:id", orderHandler.GetOrder)
		}
	}
}
