package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yashrajoria/storefront-backend/controllers"
	"github.com/yashrajoria/storefront-backend/middleware"
)

// Register wires every route. The webhook endpoint carries no auth
// middleware: the gateway signature is its authentication.
func Register(
	r *gin.Engine,
	jwtSecret string,
	cart *controllers.CartController,
	checkout *controllers.CheckoutController,
	orders *controllers.OrderController,
	payments *controllers.PaymentController,
	webhooks *controllers.WebhookController,
) {
	auth := middleware.AuthMiddleware(jwtSecret)

	cartGroup := r.Group("/cart")
	cartGroup.Use(auth)
	cartGroup.GET("", cart.GetCart)
	cartGroup.PUT("", cart.SaveCart)
	cartGroup.DELETE("", cart.ClearCart)

	checkoutGroup := r.Group("/checkout")
	checkoutGroup.Use(auth)
	checkoutGroup.POST("/verify-totals", checkout.VerifyTotals)
	checkoutGroup.POST("/cod", checkout.PlaceCODOrder)
	checkoutGroup.POST("/gateway", checkout.InitiateGatewayCheckout)

	orderGroup := r.Group("/orders")
	orderGroup.Use(auth)
	orderGroup.GET("", orders.ListOrders)
	orderGroup.GET("/:id", orders.GetOrder)
	orderGroup.GET("/:id/tracking", orders.TrackOrder)

	paymentGroup := r.Group("/payments")
	paymentGroup.POST("/verify", auth, payments.VerifyPayment)

	// Gateway webhook (no auth)
	r.POST("/payments/webhook", webhooks.HandleWebhook)
}
