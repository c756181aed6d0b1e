package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/yashrajoria/storefront-backend/models"
	"github.com/yashrajoria/storefront-backend/pkg/apperrors"
)

// --- Mock product repository ---

type mockProductRepo struct {
	products []models.Product
	batches  [][]string
	err      error
}

func (m *mockProductRepo) FindByAnyID(_ context.Context, ids []string) ([]models.Product, error) {
	m.batches = append(m.batches, ids)
	if m.err != nil {
		return nil, m.err
	}

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	var out []models.Product
	for _, p := range m.products {
		if _, ok := want[p.ID]; ok {
			out = append(out, p)
			continue
		}
		if _, ok := want[p.SecondaryID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func newPricingService(repo *mockProductRepo) *PricingService {
	logger, _ := zap.NewDevelopment()
	return NewPricingService(repo, logger)
}

// --- Tests ---

func TestParseDisplayPrice(t *testing.T) {
	cases := []struct {
		in   string
		out  float64
		ok   bool
	}{
		{"₹1,599", 1599, true},
		{"₹500", 500, true},
		{"1299.50", 1299.5, true},
		{"Rs. 2,000", 2000, true},
		{"Rs. 2,000.50", 2000.5, true},
		{"INR 49.99", 49.99, true},
		{"", 0, false},
		{"free", 0, false},
		{".", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseDisplayPrice(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if ok {
			assert.Equal(t, tc.out, got, "input %q", tc.in)
		}
	}
}

func TestResolvePrices_BatchesAtStoreLimit(t *testing.T) {
	repo := &mockProductRepo{}
	ids := make([]string, 0, 23)
	for i := 0; i < 23; i++ {
		id := string(rune('a'+i/10)) + string(rune('0'+i%10))
		ids = append(ids, id)
		repo.products = append(repo.products, models.Product{ID: id, Price: "₹100"})
	}

	svc := newPricingService(repo)
	prices, err := svc.ResolvePrices(context.Background(), ids)
	assert.NoError(t, err)
	assert.Len(t, prices, 23)

	assert.Len(t, repo.batches, 3)
	assert.Len(t, repo.batches[0], 10)
	assert.Len(t, repo.batches[1], 10)
	assert.Len(t, repo.batches[2], 3)
}

func TestResolvePrices_SecondaryIDResolves(t *testing.T) {
	repo := &mockProductRepo{products: []models.Product{
		{ID: "mongo-oid-1", SecondaryID: "legacy-42", Price: "₹1,599"},
	}}

	svc := newPricingService(repo)
	prices, err := svc.ResolvePrices(context.Background(), []string{"legacy-42"})
	assert.NoError(t, err)
	assert.Equal(t, float64(1599), prices["legacy-42"])
}

func TestResolvePrices_MissingProductFailsWhole(t *testing.T) {
	repo := &mockProductRepo{products: []models.Product{
		{ID: "A", Price: "₹500"},
	}}

	svc := newPricingService(repo)
	_, err := svc.ResolvePrices(context.Background(), []string{"A", "ghost"})

	var notFound *apperrors.ProductNotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "ghost", notFound.ProductID)
}

func TestResolvePrices_UnparseablePriceIsNotFound(t *testing.T) {
	// A product whose stored price cannot be parsed must not price at zero.
	repo := &mockProductRepo{products: []models.Product{
		{ID: "A", Price: "call us"},
	}}

	svc := newPricingService(repo)
	_, err := svc.ResolvePrices(context.Background(), []string{"A"})

	var notFound *apperrors.ProductNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestResolvePrices_StoreErrorPropagates(t *testing.T) {
	repo := &mockProductRepo{err: errors.New("store unavailable")}

	svc := newPricingService(repo)
	_, err := svc.ResolvePrices(context.Background(), []string{"A"})
	assert.Error(t, err)

	var notFound *apperrors.ProductNotFoundError
	assert.False(t, errors.As(err, &notFound))
}
