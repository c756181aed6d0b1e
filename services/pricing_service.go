package services

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/yashrajoria/storefront-backend/models"
	"github.com/yashrajoria/storefront-backend/pkg/apperrors"
	"github.com/yashrajoria/storefront-backend/repository"
)

// priceLookupBatchSize is the store's limit on "field in [...]" queries.
const priceLookupBatchSize = 10

// PricingService resolves authoritative unit prices from the trusted store.
// Client-supplied prices are never consulted.
type PricingService struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewPricingService(products repository.ProductRepository, logger *zap.Logger) *PricingService {
	return &PricingService{products: products, logger: logger}
}

// ResolvePrices returns a unit price for every requested product id. An id
// that resolves to no product, or to a product whose stored price cannot be
// parsed, fails the whole lookup with ProductNotFoundError: the caller must
// reject the order rather than silently price the item at zero.
func (s *PricingService) ResolvePrices(ctx context.Context, productIDs []string) (map[string]float64, error) {
	ids := dedupeIDs(productIDs)
	prices := make(map[string]float64, len(ids))

	for start := 0; start < len(ids); start += priceLookupBatchSize {
		end := start + priceLookupBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		products, err := s.products.FindByAnyID(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}

		for i := range products {
			price, ok := parseDisplayPrice(products[i].Price)
			if !ok {
				s.logger.Warn("Unparseable stored price",
					zap.String("product_id", products[i].ID),
					zap.String("price", products[i].Price),
				)
				continue
			}
			// A product is addressable by either key; record both.
			prices[products[i].ID] = price
			if products[i].SecondaryID != "" {
				prices[products[i].SecondaryID] = price
			}
		}
	}

	for _, id := range ids {
		if _, ok := prices[id]; !ok {
			return nil, apperrors.NewProductNotFound(id)
		}
	}
	return prices, nil
}

// PriceItems builds verified line items for a cart from resolved prices.
func PriceItems(items []models.CartItem, prices map[string]float64) []models.VerifiedLineItem {
	verified := make([]models.VerifiedLineItem, 0, len(items))
	for _, item := range items {
		unit := prices[item.ProductID]
		verified = append(verified, models.VerifiedLineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unit,
			LineTotal: unit * float64(item.Quantity),
		})
	}
	return verified
}

// parseDisplayPrice strips everything but digits from a stored display string
// ("₹1,599" -> 1599). A dot survives only as a decimal separator, with digits
// on both sides; the abbreviation dot in "Rs. 2,000" must not turn the price
// into a fraction.
func parseDisplayPrice(s string) (float64, bool) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '.' && b.Len() > 0 && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9':
			b.WriteByte(c)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
