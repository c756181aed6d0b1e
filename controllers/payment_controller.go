package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/storefront-backend/middleware"
	"github.com/yashrajoria/storefront-backend/models"
	"github.com/yashrajoria/storefront-backend/pkg/apperrors"
	"github.com/yashrajoria/storefront-backend/pkg/aws"
	"github.com/yashrajoria/storefront-backend/repository"
	"github.com/yashrajoria/storefront-backend/services"
)

type PaymentController struct {
	Signatures *services.SignatureVerifier
	Ledger     repository.LedgerRepository
	Orders     repository.OrderRepository
	SNS        aws.SNSPublisher
	TopicArn   string
	Logger     *zap.Logger
}

// VerifyPayment handles the synchronous post-checkout verification call.
// The ledger record's existence is the sole idempotency signal: a repeated
// payment id short-circuits before any signature or side-effect work.
func (pc *PaymentController) VerifyPayment(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	prior, err := pc.Ledger.GetProcessedPayment(ctx, req.RazorpayPaymentID)
	if err != nil {
		pc.Logger.Error("Ledger lookup failed", zap.String("payment_id", req.RazorpayPaymentID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment"})
		return
	}
	if prior != nil {
		c.JSON(http.StatusOK, gin.H{
			"verified":          true,
			"already_processed": true,
			"order_id":          prior.OrderID,
			"payment_id":        prior.PaymentID,
		})
		return
	}

	if err := pc.Signatures.VerifyPaymentSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature); err != nil {
		if errors.Is(err, apperrors.ErrConfiguration) {
			pc.Logger.Error("Gateway API secret not configured")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payment verification unavailable"})
			return
		}
		pc.Logger.Warn("Payment signature verification failed",
			zap.String("payment_id", req.RazorpayPaymentID),
			zap.String("gateway_order_id", req.RazorpayOrderID),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"verified": false,
			"error":    "Signature verification failed",
		})
		return
	}

	userID := middleware.GetUserID(c)
	record := &models.ProcessedPayment{
		PaymentID: req.RazorpayPaymentID,
		OrderID:   req.RazorpayOrderID,
		UserID:    userID,
		Status:    models.ProcessedPaymentStatus,
		CreatedAt: time.Now().UTC(),
	}

	created, existing, err := pc.Ledger.ClaimPayment(ctx, record)
	if err != nil {
		pc.Logger.Error("Ledger claim failed", zap.String("payment_id", req.RazorpayPaymentID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment"})
		return
	}
	if !created {
		// A concurrent verify for the same payment id won the claim.
		c.JSON(http.StatusOK, gin.H{
			"verified":          true,
			"already_processed": true,
			"order_id":          existing.OrderID,
			"payment_id":        existing.PaymentID,
		})
		return
	}

	// The ledger record is durable at this point; order transitions and
	// notifications after it are repaired by the webhook path if they fail.
	matched, err := pc.Orders.UpdateStatusByGatewayOrderID(ctx, req.RazorpayOrderID, models.OrderStatusPaid, req.RazorpayPaymentID)
	if err != nil {
		pc.Logger.Error("Failed to mark order paid",
			zap.String("gateway_order_id", req.RazorpayOrderID),
			zap.Error(err),
		)
	} else if !matched {
		pc.Logger.Warn("No order found for verified payment",
			zap.String("gateway_order_id", req.RazorpayOrderID),
			zap.String("payment_id", req.RazorpayPaymentID),
		)
	}

	pc.publishPaymentEvent(ctx, models.PaymentEvent{
		Type:      "payment_verified",
		OrderID:   req.RazorpayOrderID,
		UserID:    userID,
		PaymentID: req.RazorpayPaymentID,
		Timestamp: time.Now().UTC(),
	})

	pc.Logger.Info("Payment verified",
		zap.String("payment_id", req.RazorpayPaymentID),
		zap.String("gateway_order_id", req.RazorpayOrderID),
		zap.String("user_id", userID),
	)
	c.JSON(http.StatusOK, gin.H{
		"verified":          true,
		"already_processed": false,
		"order_id":          req.RazorpayOrderID,
		"payment_id":        req.RazorpayPaymentID,
	})
}

// publishPaymentEvent marshals a PaymentEvent and publishes it to SNS.
// Best effort: notification failures never affect verification outcomes.
func (pc *PaymentController) publishPaymentEvent(ctx context.Context, event models.PaymentEvent) {
	if pc.SNS == nil || pc.TopicArn == "" {
		return
	}
	payload, _ := json.Marshal(event)
	if err := pc.SNS.Publish(ctx, pc.TopicArn, payload); err != nil {
		pc.Logger.Error("Failed to publish payment event",
			zap.String("event_type", event.Type),
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		return
	}
	pc.Logger.Info("Payment event published",
		zap.String("event_type", event.Type),
		zap.String("order_id", event.OrderID),
	)
}
