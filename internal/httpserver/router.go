package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avdeenkov/marketplace/internal/middleware/auth"
)

type Deps struct {
	Auth          *auth.Middleware
	AuthHandler   *AuthHTTP
	Products      *ProductHTTP
	Categories    *CategoryHTTP
	Cart          *CartHTTP
	Orders        *OrderHTTP
	Shipping      *ShippingHTTP
	Notifications *NotificationHTTP
	Admin         *AdminHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/refresh", d.AuthHandler.Refresh)
	v1.POST("/logout", d.AuthHandler.Logout, d.Auth.RequireAuth)

	products := v1.Group("/products")
	products.GET("", d.Products.GetProducts)
	products.GET("/search", d.Products.SearchProducts)
	products.GET("/:id", d.Products.GetProduct)
	products.POST("", d.Products.CreateProduct, d.Auth.RequireVendor)
	products.PATCH("/:id", d.Products.PatchProduct, d.Auth.RequireVendor)
	products.DELETE("/:id", d.Products.DeleteProduct, d.Auth.RequireVendor)

	categories := v1.Group("/categories")
	categories.GET("", d.Categories.ListCategories)
	categories.GET("/:id", d.Categories.GetCategory)
	categories.POST("", d.Categories.CreateCategory, d.Auth.RequireAdmin)
	categories.PATCH("/:id", d.Categories.PatchCategory, d.Auth.RequireAdmin)
	categories.DELETE("/:id", d.Categories.DeleteCategory, d.Auth.RequireAdmin)

	cart := v1.Group("/cart", d.Auth.RequireAuth)
	cart.GET("", d.Cart.GetCart)
	cart.POST("", d.Cart.AddToCart)
	cart.DELETE("/:productId", d.Cart.RemoveFromCart)
	cart.DELETE("", d.Cart.ClearCart)

	orders := v1.Group("/orders", d.Auth.RequireAuth)
	orders.POST("", d.Orders.CreateOrder)
	orders.POST("/checkout", d.Orders.Checkout)
	orders.GET("", d.Orders.ListOrders)
	orders.GET("/:id", d.Orders.GetOrder)
	orders.GET("/:id/payments", d.Orders.ListPayments)
	orders.POST("/:id/pay", d.Orders.PayOrder)
	orders.POST("/:id/refund", d.Orders.RefundOrder)
	orders.PATCH("/:id/ship", d.Orders.ShipOrder)
	orders.PATCH("/:id/deliver", d.Orders.DeliverOrder)
	orders.DELETE("/:id", d.Orders.CancelOrder)

	v1.GET("/shipping/estimate", d.Shipping.EstimateShipping, d.Auth.RequireAuth)

	notifications := v1.Group("/notifications", d.Auth.RequireAuth)
	notifications.GET("", d.Notifications.List)
	notifications.PATCH("/:id/read", d.Notifications.MarkRead)
	notifications.DELETE("/:id", d.Notifications.Delete)

	v1.GET("/admin/stats", d.Admin.Stats, d.Auth.RequireAdmin)
}
