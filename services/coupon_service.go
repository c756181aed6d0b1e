package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/yashrajoria/storefront-backend/models"
	"github.com/yashrajoria/storefront-backend/repository"
)

// CouponService evaluates coupon codes against a verified subtotal. A coupon
// that is missing, inactive, expired, exhausted, or below its minimum order
// amount yields a zero discount, never an error: coupon absence is not a
// failure of the order.
type CouponService struct {
	repo   repository.CouponRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewCouponService(repo repository.CouponRepository, logger *zap.Logger) *CouponService {
	return &CouponService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Evaluate returns the discount for the code at the given verified subtotal.
// Currency amounts are floored, never rounded up, and the discount is clamped
// to [0, subtotal] regardless of the stored coupon value.
func (s *CouponService) Evaluate(ctx context.Context, code string, verifiedSubtotal float64) (*models.CouponResult, error) {
	coupon, err := s.repo.FindActiveByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return &models.CouponResult{Applied: false, Message: "Coupon not found or inactive"}, nil
	}

	if s.now().After(coupon.ExpiryDate) {
		return &models.CouponResult{Applied: false, Message: "Coupon has expired"}, nil
	}

	if coupon.UsageCount >= coupon.UsageLimit {
		return &models.CouponResult{Applied: false, Message: "Coupon usage limit reached"}, nil
	}

	if verifiedSubtotal < coupon.MinOrderAmount {
		return &models.CouponResult{
			Applied: false,
			Message: fmt.Sprintf("Minimum order amount of %.0f required", coupon.MinOrderAmount),
		}, nil
	}

	var discount float64
	switch coupon.Type {
	case models.CouponTypePercentage:
		discount = math.Floor(verifiedSubtotal * coupon.Value / 100)
	case models.CouponTypeFixed:
		discount = math.Floor(coupon.Value)
	default:
		s.logger.Warn("Unknown coupon type", zap.String("code", coupon.Code), zap.String("type", string(coupon.Type)))
		return &models.CouponResult{Applied: false, Message: "Coupon not applicable"}, nil
	}

	// Malformed coupon data (negative or >100% values) must never produce a
	// negative total.
	if discount < 0 {
		discount = 0
	}
	if discount > verifiedSubtotal {
		discount = verifiedSubtotal
	}

	s.logger.Info("Coupon applied",
		zap.String("code", coupon.Code),
		zap.String("type", string(coupon.Type)),
		zap.Float64("discount", discount),
	)

	return &models.CouponResult{Discount: discount, Applied: true, Message: "Coupon applied"}, nil
}
