package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/yashrajoria/storefront-backend/models"
	"github.com/yashrajoria/storefront-backend/pkg/apperrors"
)

func newVerifier(products []models.Product, coupons ...*models.Coupon) *OrderVerifier {
	logger, _ := zap.NewDevelopment()
	pricing := NewPricingService(&mockProductRepo{products: products}, logger)

	repo := &mockCouponRepo{coupons: make(map[string]*models.Coupon)}
	for _, c := range coupons {
		repo.coupons[c.Code] = c
	}
	return NewOrderVerifier(pricing, NewCouponService(repo, logger), logger)
}

func TestVerify_RecomputesFromStoredPrices(t *testing.T) {
	v := newVerifier([]models.Product{{ID: "A", Price: "₹500"}})

	totals, err := v.Verify(context.Background(), []models.CartItem{
		{ProductID: "A", Quantity: 2},
	}, "")
	assert.NoError(t, err)
	assert.Equal(t, float64(1000), totals.VerifiedTotal)
	assert.Equal(t, float64(0), totals.Discount)
	assert.Equal(t, float64(1000), totals.FinalTotal)

	assert.Len(t, totals.Items, 1)
	assert.Equal(t, float64(500), totals.Items[0].UnitPrice)
	assert.Equal(t, float64(1000), totals.Items[0].LineTotal)
}

func TestVerify_CouponAppliedAgainstVerifiedSubtotal(t *testing.T) {
	v := newVerifier(
		[]models.Product{{ID: "A", Price: "₹500"}},
		percentageCoupon("SAVE10", 10, 0),
	)

	totals, err := v.Verify(context.Background(), []models.CartItem{
		{ProductID: "A", Quantity: 2},
	}, "SAVE10")
	assert.NoError(t, err)
	assert.Equal(t, float64(1000), totals.VerifiedTotal)
	assert.Equal(t, float64(100), totals.Discount)
	assert.Equal(t, float64(900), totals.FinalTotal)
}

func TestVerify_UnresolvableProductAborts(t *testing.T) {
	v := newVerifier([]models.Product{{ID: "A", Price: "₹500"}})

	_, err := v.Verify(context.Background(), []models.CartItem{
		{ProductID: "A", Quantity: 1},
		{ProductID: "missing", Quantity: 1},
	}, "")

	var notFound *apperrors.ProductNotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ProductID)
}

func TestVerify_DuplicateCartLinesPricedIndependently(t *testing.T) {
	v := newVerifier([]models.Product{{ID: "A", Price: "₹250"}})

	totals, err := v.Verify(context.Background(), []models.CartItem{
		{ProductID: "A", Quantity: 1},
		{ProductID: "A", Quantity: 3},
	}, "")
	assert.NoError(t, err)
	assert.Equal(t, float64(1000), totals.VerifiedTotal)
	assert.Len(t, totals.Items, 2)
}

func TestVerify_FinalTotalNeverNegative(t *testing.T) {
	v := newVerifier(
		[]models.Product{{ID: "A", Price: "₹300"}},
		fixedCoupon("FLAT500", 500, 0),
	)

	totals, err := v.Verify(context.Background(), []models.CartItem{
		{ProductID: "A", Quantity: 1},
	}, "FLAT500")
	assert.NoError(t, err)
	assert.Equal(t, float64(300), totals.Discount)
	assert.Equal(t, float64(0), totals.FinalTotal)
}
