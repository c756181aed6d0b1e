package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yashrajoria/storefront-backend/database"
	"github.com/yashrajoria/storefront-backend/models"
)

// ProductRepository defines catalog reads the pricing layer needs.
type ProductRepository interface {
	// FindByAnyID returns every product whose primary key or secondary id
	// field matches one of the given ids. Callers chunk the id list to the
	// store's $in limit before calling.
	FindByAnyID(ctx context.Context, ids []string) ([]models.Product, error)
}

// MongoProductRepository implements ProductRepository on the trusted store.
type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{collection: db.Collection(database.ProductsCollection)}
}

// FindByAnyID matches against both _id and the legacy id field so a product
// addressable by either resolves.
func (r *MongoProductRepository) FindByAnyID(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	filter := bson.M{"$or": bson.A{
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"id": bson.M{"$in": ids}},
	}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}
