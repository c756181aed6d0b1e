package repository

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yashrajoria/storefront-backend/database"
	"github.com/yashrajoria/storefront-backend/models"
)

// CouponRepository defines the coupon access the evaluator and checkout need.
// Usage counts are incremented at order placement, never at evaluation.
type CouponRepository interface {
	// FindActiveByCode returns the active coupon for a normalized code, or
	// (nil, nil) when no such coupon exists.
	FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error)
	// IncrementUsage bumps the usage counter for a redeemed code.
	IncrementUsage(ctx context.Context, code string) error
}

// MongoCouponRepository implements CouponRepository on the trusted store.
type MongoCouponRepository struct {
	collection *mongo.Collection
}

func NewMongoCouponRepository(db *mongo.Database) *MongoCouponRepository {
	return &MongoCouponRepository{collection: db.Collection(database.CouponsCollection)}
}

func (r *MongoCouponRepository) FindActiveByCode(ctx context.Context, code string) (*models.Coupon, error) {
	filter := bson.M{
		"code":      strings.ToUpper(strings.TrimSpace(code)),
		"is_active": true,
	}

	var coupon models.Coupon
	err := r.collection.FindOne(ctx, filter).Decode(&coupon)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *MongoCouponRepository) IncrementUsage(ctx context.Context, code string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"code": strings.ToUpper(strings.TrimSpace(code))},
		bson.M{"$inc": bson.M{"usage_count": 1}},
	)
	return err
}
