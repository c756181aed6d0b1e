package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/yashrajoria/storefront-backend/models"
)

// OrderVerifier recomputes a trusted order total for a client-submitted cart.
// It is the sole authority for order acceptance: the client-claimed total is
// never trusted or even consulted.
type OrderVerifier struct {
	pricing *PricingService
	coupons *CouponService
	logger  *zap.Logger
}

func NewOrderVerifier(pricing *PricingService, coupons *CouponService, logger *zap.Logger) *OrderVerifier {
	return &OrderVerifier{pricing: pricing, coupons: coupons, logger: logger}
}

// Verify resolves authoritative prices for every cart line, applies the
// optional coupon against the recomputed subtotal, and returns the trusted
// totals. Any unresolvable product id aborts the whole verification.
func (v *OrderVerifier) Verify(ctx context.Context, items []models.CartItem, couponCode string) (*models.VerifiedTotals, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}

	prices, err := v.pricing.ResolvePrices(ctx, ids)
	if err != nil {
		return nil, err
	}

	verified := PriceItems(items, prices)

	var subtotal float64
	for _, line := range verified {
		subtotal += line.LineTotal
	}

	var discount float64
	if couponCode != "" {
		result, err := v.coupons.Evaluate(ctx, couponCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount = result.Discount
	}

	finalTotal := subtotal - discount
	if finalTotal < 0 {
		finalTotal = 0
	}

	return &models.VerifiedTotals{
		VerifiedTotal: subtotal,
		Discount:      discount,
		FinalTotal:    finalTotal,
		Items:         verified,
	}, nil
}
