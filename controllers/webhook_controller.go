package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/storefront-backend/models"
	"github.com/yashrajoria/storefront-backend/pkg/apperrors"
	"github.com/yashrajoria/storefront-backend/repository"
	"github.com/yashrajoria/storefront-backend/services"
)

type WebhookController struct {
	Signatures *services.SignatureVerifier
	Ledger     repository.LedgerRepository
	Router     *services.WebhookRouter
	Logger     *zap.Logger
}

// HandleWebhook processes an asynchronous gateway notification. Response
// codes drive the gateway's retry behavior: 2xx only once the event is
// durably recorded as processed (or intentionally no-op'd), 5xx on any
// processing failure so the gateway retries.
func (wc *WebhookController) HandleWebhook(c *gin.Context) {
	// The signature covers the exact raw body bytes; verify before parsing.
	rawBody, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if err := wc.Signatures.VerifyWebhookSignature(rawBody, signature); err != nil {
		if errors.Is(err, apperrors.ErrConfiguration) {
			wc.Logger.Error("Webhook secret not configured")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Webhook processing unavailable"})
			return
		}
		wc.Logger.Warn("Webhook signature verification failed", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook signature"})
		return
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		wc.Logger.Warn("Malformed webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed webhook body"})
		return
	}

	eventID := event.ID
	if eventID == "" {
		eventID = c.GetHeader("X-Razorpay-Event-Id")
	}
	if eventID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing event id"})
		return
	}
	event.ID = eventID

	ctx := c.Request.Context()

	prior, err := wc.Ledger.GetProcessedEvent(ctx, eventID)
	if err != nil {
		wc.Logger.Error("Ledger lookup failed", zap.String("event_id", eventID), zap.Error(err))
		c.JSON(apperrors.ErrProcessing.Code, gin.H{"error": apperrors.ErrProcessing.Message})
		return
	}
	if prior != nil {
		c.JSON(http.StatusOK, gin.H{
			"received":          true,
			"already_processed": true,
			"event_id":          eventID,
			"event_type":        prior.EventType,
		})
		return
	}

	wc.Logger.Info("Processing webhook event",
		zap.String("event_id", eventID),
		zap.String("event_type", event.Event),
	)

	paymentID, err := wc.Router.Route(ctx, &event)
	if err != nil {
		// No ledger record is written on failure: the event stays replayable
		// and the 5xx makes the gateway retry. Possible duplicate side-effect
		// attempts are preferred over silently dropping an event.
		wc.Logger.Error("Webhook event handling failed",
			zap.String("event_id", eventID),
			zap.String("event_type", event.Event),
			zap.Error(err),
		)
		c.JSON(apperrors.ErrProcessing.Code, gin.H{"error": apperrors.ErrProcessing.Message})
		return
	}

	record := &models.ProcessedWebhookEvent{
		EventID:     eventID,
		EventType:   event.Event,
		PaymentID:   paymentID,
		ProcessedAt: time.Now().UTC(),
		Status:      models.ProcessedWebhookEventStatus,
		RetryCount:  0,
	}
	created, existing, err := wc.Ledger.ClaimEvent(ctx, record)
	if err != nil {
		wc.Logger.Error("Ledger write failed", zap.String("event_id", eventID), zap.Error(err))
		c.JSON(apperrors.ErrProcessing.Code, gin.H{"error": apperrors.ErrProcessing.Message})
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{
			"received":          true,
			"already_processed": true,
			"event_id":          eventID,
			"event_type":        existing.EventType,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received":          true,
		"already_processed": false,
		"event_id":          eventID,
		"event_type":        event.Event,
	})
}
