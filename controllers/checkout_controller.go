package controllers

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yashrajoria/storefront-backend/middleware"
	"github.com/yashrajoria/storefront-backend/models"
	"github.com/yashrajoria/storefront-backend/pkg/apperrors"
	"github.com/yashrajoria/storefront-backend/repository"
	"github.com/yashrajoria/storefront-backend/services"
)

// gatewayCurrency is the only currency this storefront charges in.
const gatewayCurrency = "INR"

type CheckoutController struct {
	Verifier *services.OrderVerifier
	Orders   repository.OrderRepository
	Carts    *repository.CartRepository
	Coupons  repository.CouponRepository
	Gateway  services.GatewayClient
	KeyID    string
	Logger   *zap.Logger
}

// VerifyTotals recomputes trusted totals for a submitted cart. The response
// is what the storefront displays; nothing the client claims about prices is
// used anywhere.
func (cc *CheckoutController) VerifyTotals(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	totals, err := cc.Verifier.Verify(c.Request.Context(), req.Items, req.CouponCode)
	if err != nil {
		cc.respondVerifyError(c, err)
		return
	}

	c.JSON(http.StatusOK, totals)
}

// PlaceCODOrder accepts a Cash-on-Delivery order. COD has no gateway
// round-trip, so server-side total verification is the entire authorization.
func (cc *CheckoutController) PlaceCODOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	totals, err := cc.Verifier.Verify(c.Request.Context(), req.Items, req.CouponCode)
	if err != nil {
		cc.respondVerifyError(c, err)
		return
	}

	order := &models.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Items:         totals.Items,
		Subtotal:      totals.VerifiedTotal,
		Discount:      totals.Discount,
		Total:         totals.FinalTotal,
		CouponCode:    req.CouponCode,
		PaymentMethod: models.PaymentMethodCOD,
		Status:        models.OrderStatusPlaced,
	}
	if err := cc.Orders.Create(c.Request.Context(), order); err != nil {
		cc.Logger.Error("Failed to create COD order", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	cc.clearCart(c, userID)
	cc.redeemCoupon(c, req.CouponCode, totals.Discount)

	cc.Logger.Info("COD order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Float64("total", order.Total),
	)
	c.JSON(http.StatusCreated, order)
}

// InitiateGatewayCheckout verifies totals, creates a gateway order for the
// trusted amount, and persists a pending order carrying the gateway order id.
func (cc *CheckoutController) InitiateGatewayCheckout(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if cc.Gateway == nil || cc.KeyID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment gateway not configured"})
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	totals, err := cc.Verifier.Verify(c.Request.Context(), req.Items, req.CouponCode)
	if err != nil {
		cc.respondVerifyError(c, err)
		return
	}

	orderID := uuid.NewString()
	amountPaise := int64(math.Round(totals.FinalTotal * 100))

	gatewayOrderID, err := cc.Gateway.CreateOrder(amountPaise, gatewayCurrency, orderID, map[string]interface{}{
		"user_id": userID,
	})
	if err != nil {
		cc.Logger.Error("Gateway order creation failed", zap.String("order_id", orderID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create payment order"})
		return
	}

	order := &models.Order{
		ID:             orderID,
		UserID:         userID,
		Items:          totals.Items,
		Subtotal:       totals.VerifiedTotal,
		Discount:       totals.Discount,
		Total:          totals.FinalTotal,
		CouponCode:     req.CouponCode,
		PaymentMethod:  models.PaymentMethodRazorpay,
		Status:         models.OrderStatusPendingPayment,
		GatewayOrderID: gatewayOrderID,
	}
	if err := cc.Orders.Create(c.Request.Context(), order); err != nil {
		cc.Logger.Error("Failed to persist pending order",
			zap.String("order_id", orderID),
			zap.String("gateway_order_id", gatewayOrderID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	cc.clearCart(c, userID)
	cc.redeemCoupon(c, req.CouponCode, totals.Discount)

	c.JSON(http.StatusCreated, gin.H{
		"order_id":          order.ID,
		"razorpay_order_id": gatewayOrderID,
		"amount":            amountPaise,
		"currency":          gatewayCurrency,
		"key_id":            cc.KeyID,
	})
}

func (cc *CheckoutController) respondVerifyError(c *gin.Context, err error) {
	var notFound *apperrors.ProductNotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Product not found",
			"product_id": notFound.ProductID,
		})
		return
	}
	cc.Logger.Error("Total verification failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify order total"})
}

// redeemCoupon bumps the usage counter once an order carrying a discount has
// been persisted. Best effort: a missed increment under-counts redemptions,
// it never blocks the order.
func (cc *CheckoutController) redeemCoupon(c *gin.Context, code string, discount float64) {
	if cc.Coupons == nil || code == "" || discount <= 0 {
		return
	}
	if err := cc.Coupons.IncrementUsage(c.Request.Context(), code); err != nil {
		cc.Logger.Warn("Failed to increment coupon usage", zap.String("code", code), zap.Error(err))
	}
}

// clearCart empties the stored cart after an order is placed. Best effort: a
// stale cart is a nuisance, not a correctness problem.
func (cc *CheckoutController) clearCart(c *gin.Context, userID string) {
	if cc.Carts == nil {
		return
	}
	if err := cc.Carts.DeleteCart(c.Request.Context(), userID); err != nil {
		cc.Logger.Warn("Failed to clear cart after checkout", zap.String("user_id", userID), zap.Error(err))
	}
}
