package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/yashrajoria/storefront-backend/models"
)

// --- Mock coupon repository ---

type mockCouponRepo struct {
	coupons map[string]*models.Coupon
}

func (m *mockCouponRepo) FindActiveByCode(_ context.Context, code string) (*models.Coupon, error) {
	c, ok := m.coupons[strings.ToUpper(strings.TrimSpace(code))]
	if !ok || !c.IsActive {
		return nil, nil
	}
	return c, nil
}

func (m *mockCouponRepo) IncrementUsage(_ context.Context, code string) error {
	if c, ok := m.coupons[strings.ToUpper(strings.TrimSpace(code))]; ok {
		c.UsageCount++
	}
	return nil
}

func newCouponService(coupons ...*models.Coupon) *CouponService {
	repo := &mockCouponRepo{coupons: make(map[string]*models.Coupon)}
	for _, c := range coupons {
		repo.coupons[c.Code] = c
	}
	logger, _ := zap.NewDevelopment()
	return NewCouponService(repo, logger)
}

func percentageCoupon(code string, value, minOrder float64) *models.Coupon {
	return &models.Coupon{
		Code:           code,
		Type:           models.CouponTypePercentage,
		Value:          value,
		MinOrderAmount: minOrder,
		ExpiryDate:     time.Now().Add(24 * time.Hour),
		IsActive:       true,
		UsageLimit:     100,
		UsageCount:     0,
	}
}

func fixedCoupon(code string, value, minOrder float64) *models.Coupon {
	c := percentageCoupon(code, value, minOrder)
	c.Type = models.CouponTypeFixed
	return c
}

// --- Tests ---

func TestEvaluate_PercentageFloors(t *testing.T) {
	svc := newCouponService(percentageCoupon("SAVE10", 10, 0))

	result, err := svc.Evaluate(context.Background(), "SAVE10", 1000)
	assert.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, float64(100), result.Discount)

	// 10% of 1005 floors to 100, never 100.5
	result, err = svc.Evaluate(context.Background(), "SAVE10", 1005)
	assert.NoError(t, err)
	assert.Equal(t, float64(100), result.Discount)
}

func TestEvaluate_FixedCappedAtSubtotal(t *testing.T) {
	svc := newCouponService(fixedCoupon("FLAT500", 500, 0))

	result, err := svc.Evaluate(context.Background(), "FLAT500", 300)
	assert.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, float64(300), result.Discount)
}

func TestEvaluate_MinOrderBoundary(t *testing.T) {
	svc := newCouponService(percentageCoupon("MIN1000", 10, 1000))

	// 999 is below the minimum
	result, err := svc.Evaluate(context.Background(), "MIN1000", 999)
	assert.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, float64(0), result.Discount)

	// exactly 1000 qualifies
	result, err = svc.Evaluate(context.Background(), "MIN1000", 1000)
	assert.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, float64(100), result.Discount)
}

func TestEvaluate_ExpiredCoupon(t *testing.T) {
	expired := percentageCoupon("OLD", 10, 0)
	expired.ExpiryDate = time.Now().Add(-time.Hour)
	svc := newCouponService(expired)

	result, err := svc.Evaluate(context.Background(), "OLD", 1000)
	assert.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, float64(0), result.Discount)
}

func TestEvaluate_UsageLimitReached(t *testing.T) {
	exhausted := percentageCoupon("POPULAR", 10, 0)
	exhausted.UsageLimit = 5
	exhausted.UsageCount = 5
	svc := newCouponService(exhausted)

	result, err := svc.Evaluate(context.Background(), "POPULAR", 1000)
	assert.NoError(t, err)
	assert.False(t, result.Applied)
}

func TestEvaluate_UnknownCodeIsNotAnError(t *testing.T) {
	svc := newCouponService()

	result, err := svc.Evaluate(context.Background(), "NOPE", 1000)
	assert.NoError(t, err)
	assert.False(t, result.Applied)
	assert.Equal(t, float64(0), result.Discount)
}

func TestEvaluate_MalformedPercentageClamped(t *testing.T) {
	// value > 100 must never discount more than the subtotal
	svc := newCouponService(percentageCoupon("BROKEN", 150, 0))

	result, err := svc.Evaluate(context.Background(), "BROKEN", 200)
	assert.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, float64(200), result.Discount)
}

func TestEvaluate_ExpiryControlledClock(t *testing.T) {
	coupon := percentageCoupon("TIMED", 10, 0)
	coupon.ExpiryDate = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	svc := newCouponService(coupon)

	svc.now = func() time.Time { return time.Date(2026, 5, 31, 23, 59, 59, 0, time.UTC) }
	result, _ := svc.Evaluate(context.Background(), "TIMED", 1000)
	assert.True(t, result.Applied)

	svc.now = func() time.Time { return time.Date(2026, 6, 1, 0, 0, 1, 0, time.UTC) }
	result, _ = svc.Evaluate(context.Background(), "TIMED", 1000)
	assert.False(t, result.Applied)
}
