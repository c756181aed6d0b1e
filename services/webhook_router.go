package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yashrajoria/storefront-backend/models"
	"github.com/yashrajoria/storefront-backend/pkg/aws"
)

// WebhookRouter dispatches a validated, de-duplicated gateway event to its
// per-type side effects. Unrecognized event types are a no-op success so they
// never block the gateway; a failure while handling a recognized type
// propagates so the caller skips the ledger write and returns a server error,
// making the gateway retry.
type WebhookRouter struct {
	orders   OrderStatusStore
	sns      aws.SNSPublisher
	topicArn string
	logger   *zap.Logger
}

// OrderStatusStore is the slice of the order repository the router needs.
type OrderStatusStore interface {
	UpdateStatusByGatewayOrderID(ctx context.Context, gatewayOrderID, status, paymentID string) (bool, error)
	UpdateStatusByPaymentID(ctx context.Context, paymentID, status string) (bool, error)
}

func NewWebhookRouter(orders OrderStatusStore, sns aws.SNSPublisher, topicArn string, logger *zap.Logger) *WebhookRouter {
	return &WebhookRouter{
		orders:   orders,
		sns:      sns,
		topicArn: topicArn,
		logger:   logger,
	}
}

// Route applies the side effects for the event and returns the gateway
// payment id it extracted, if any.
func (r *WebhookRouter) Route(ctx context.Context, event *models.WebhookEvent) (string, error) {
	switch event.Event {
	case models.EventPaymentAuthorized:
		payment, err := paymentEntity(event)
		if err != nil {
			return "", err
		}
		r.logger.Info("Payment authorized",
			zap.String("payment_id", payment.ID),
			zap.String("gateway_order_id", payment.OrderID),
		)
		r.publish(ctx, "payment_authorized", payment.OrderID, payment.ID, payment.Amount, payment.Currency)
		return payment.ID, nil

	case models.EventPaymentCaptured:
		payment, err := paymentEntity(event)
		if err != nil {
			return "", err
		}
		if err := r.transitionByGatewayOrder(ctx, payment.OrderID, models.OrderStatusPaid, payment.ID); err != nil {
			return "", err
		}
		r.publish(ctx, "payment_captured", payment.OrderID, payment.ID, payment.Amount, payment.Currency)
		return payment.ID, nil

	case models.EventPaymentFailed:
		payment, err := paymentEntity(event)
		if err != nil {
			return "", err
		}
		if err := r.transitionByGatewayOrder(ctx, payment.OrderID, models.OrderStatusPaymentFailed, payment.ID); err != nil {
			return "", err
		}
		r.publish(ctx, "payment_failed", payment.OrderID, payment.ID, payment.Amount, payment.Currency)
		return payment.ID, nil

	case models.EventOrderPaid:
		if event.Payload.Order == nil {
			return "", fmt.Errorf("event %s: missing order entity", event.Event)
		}
		order := event.Payload.Order.Entity
		paymentID := ""
		if event.Payload.Payment != nil {
			paymentID = event.Payload.Payment.Entity.ID
		}
		if err := r.transitionByGatewayOrder(ctx, order.ID, models.OrderStatusPaid, paymentID); err != nil {
			return "", err
		}
		r.publish(ctx, "order_paid", order.ID, paymentID, order.AmountPaid, order.Currency)
		return paymentID, nil

	case models.EventRefundCreated:
		if event.Payload.Refund == nil {
			return "", fmt.Errorf("event %s: missing refund entity", event.Event)
		}
		refund := event.Payload.Refund.Entity
		matched, err := r.orders.UpdateStatusByPaymentID(ctx, refund.PaymentID, models.OrderStatusRefunded)
		if err != nil {
			return "", fmt.Errorf("event %s: order update: %w", event.Event, err)
		}
		if !matched {
			r.logger.Warn("No order found for refunded payment",
				zap.String("payment_id", refund.PaymentID),
				zap.String("refund_id", refund.ID),
			)
		}
		r.publish(ctx, "refund_created", "", refund.PaymentID, refund.Amount, "")
		return refund.PaymentID, nil

	default:
		// Unknown event types must not block the gateway.
		r.logger.Info("Ignoring unhandled webhook event type",
			zap.String("event_type", event.Event),
			zap.String("event_id", event.ID),
		)
		return "", nil
	}
}

func paymentEntity(event *models.WebhookEvent) (*models.PaymentEntity, error) {
	if event.Payload.Payment == nil {
		return nil, fmt.Errorf("event %s: missing payment entity", event.Event)
	}
	return &event.Payload.Payment.Entity, nil
}

func (r *WebhookRouter) transitionByGatewayOrder(ctx context.Context, gatewayOrderID, status, paymentID string) error {
	matched, err := r.orders.UpdateStatusByGatewayOrderID(ctx, gatewayOrderID, status, paymentID)
	if err != nil {
		return fmt.Errorf("order update for %s: %w", gatewayOrderID, err)
	}
	if !matched {
		// An order created outside this storefront can legitimately be
		// missing here; log and move on rather than blocking retries forever.
		r.logger.Warn("No order found for gateway order",
			zap.String("gateway_order_id", gatewayOrderID),
			zap.String("target_status", status),
		)
	}
	return nil
}

// publish sends a best-effort payment event to SNS. Publish failures are
// logged and never fail the webhook: the order-state transition is the
// durable side effect, not the notification.
func (r *WebhookRouter) publish(ctx context.Context, eventType, gatewayOrderID, paymentID string, amountPaise int64, currency string) {
	if r.sns == nil || r.topicArn == "" {
		return
	}

	payload, err := json.Marshal(models.PaymentEvent{
		Type:      eventType,
		OrderID:   gatewayOrderID,
		PaymentID: paymentID,
		Amount:    float64(amountPaise) / 100,
		Currency:  currency,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		r.logger.Error("Failed to marshal payment event", zap.Error(err))
		return
	}

	if err := r.sns.Publish(ctx, r.topicArn, payload); err != nil {
		r.logger.Error("Failed to publish payment event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	r.logger.Info("Payment event published",
		zap.String("event_type", eventType),
		zap.String("payment_id", paymentID),
	)
}
