package routes

import (
	"net/http"

	"order-service/controllers"
	"order-service/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	router *gin.Engine,
	jwtSecret string,
	orderController *controllers.OrderController,
	inventoryController *controllers.InventoryController,
	webhookController *controllers.WebhookController,
) {
	// Public
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "order-service"})
	})

	// Stripe calls this directly; authentication is the signature check
	router.POST("/webhooks/stripe", webhookController.HandleStripeWebhook)

	auth := middleware.AuthMiddleware(jwtSecret)

	orders := router.Group("/orders", auth)
	{
		orders.POST("/preview", orderController.GetOrderPreview)
		orders.POST("", orderController.CreateOrder)
		orders.GET("", orderController.GetOrders)
		orders.GET("/:id", orderController.GetOrderByID)
		orders.POST("/:id/cancel", orderController.CancelOrder)
		orders.POST("/:id/payment-intent", orderController.CreatePaymentIntent)
		orders.POST("/:id/checkout-session", orderController.CreateCheckoutSession)
	}

	adminOrders := router.Group("/admin/orders", auth, middleware.AdminOnly())
	{
		adminOrders.GET("", orderController.GetAllOrders)
		adminOrders.PATCH("/:id/status", orderController.UpdateOrderStatus)
		adminOrders.DELETE("/:id", orderController.DeleteOrder)
	}

	inventory := router.Group("/inventory", auth)
	{
		inventory.GET("/:variantId/availability", inventoryController.CheckStock)
	}

	adminInventory := router.Group("/admin/inventory", auth, middleware.AdminOnly())
	{
		adminInventory.POST("", inventoryController.CreateInventory)
		adminInventory.GET("/:variantId", inventoryController.GetStockLevels)
		adminInventory.PATCH("/:variantId/quantity", inventoryController.UpdateQuantity)
	}
}
