package services

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"
)

// GatewayClient creates payment orders with the gateway. Amounts are in the
// currency's minor unit (paise).
type GatewayClient interface {
	CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (string, error)
}

// RazorpayClient implements GatewayClient on the Razorpay SDK.
type RazorpayClient struct {
	client *razorpay.Client
	logger *zap.Logger
}

func NewRazorpayClient(keyID, keySecret string, logger *zap.Logger) *RazorpayClient {
	return &RazorpayClient{
		client: razorpay.NewClient(keyID, keySecret),
		logger: logger,
	}
}

// CreateOrder creates a gateway order and returns its id.
func (c *RazorpayClient) CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (string, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	order, err := c.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("gateway order create: %w", err)
	}

	id, ok := order["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("gateway order create: missing order id in response")
	}

	c.logger.Info("Gateway order created",
		zap.String("gateway_order_id", id),
		zap.Int64("amount", amountPaise),
		zap.String("currency", currency),
	)
	return id, nil
}
