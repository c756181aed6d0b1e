package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yashrajoria/storefront-backend/database"
	"github.com/yashrajoria/storefront-backend/models"
)

// LedgerRepository is the idempotency ledger: keyed "already processed"
// markers for gateway payment ids and webhook event ids. Claims use the
// store's conditional-create (insert on _id), so check-and-claim is a single
// atomic operation and a duplicate-key result means another request already
// holds the key.
type LedgerRepository interface {
	GetProcessedPayment(ctx context.Context, paymentID string) (*models.ProcessedPayment, error)
	// ClaimPayment inserts the record if the payment id is unclaimed.
	// Returns (true, nil, nil) on a fresh claim, or (false, prior, nil) when
	// the id was already processed.
	ClaimPayment(ctx context.Context, rec *models.ProcessedPayment) (bool, *models.ProcessedPayment, error)

	GetProcessedEvent(ctx context.Context, eventID string) (*models.ProcessedWebhookEvent, error)
	// ClaimEvent is ClaimPayment for webhook event ids.
	ClaimEvent(ctx context.Context, rec *models.ProcessedWebhookEvent) (bool, *models.ProcessedWebhookEvent, error)
}

// MongoLedgerRepository implements LedgerRepository on the trusted store.
type MongoLedgerRepository struct {
	payments *mongo.Collection
	events   *mongo.Collection
}

func NewMongoLedgerRepository(db *mongo.Database) *MongoLedgerRepository {
	return &MongoLedgerRepository{
		payments: db.Collection(database.ProcessedPaymentsCol),
		events:   db.Collection(database.ProcessedWebhookEventsCol),
	}
}

func (r *MongoLedgerRepository) GetProcessedPayment(ctx context.Context, paymentID string) (*models.ProcessedPayment, error) {
	var rec models.ProcessedPayment
	err := r.payments.FindOne(ctx, bson.M{"_id": paymentID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *MongoLedgerRepository) ClaimPayment(ctx context.Context, rec *models.ProcessedPayment) (bool, *models.ProcessedPayment, error) {
	_, err := r.payments.InsertOne(ctx, rec)
	if err == nil {
		return true, nil, nil
	}
	if mongo.IsDuplicateKeyError(err) {
		prior, ferr := r.GetProcessedPayment(ctx, rec.PaymentID)
		if ferr != nil {
			return false, nil, ferr
		}
		return false, prior, nil
	}
	return false, nil, err
}

func (r *MongoLedgerRepository) GetProcessedEvent(ctx context.Context, eventID string) (*models.ProcessedWebhookEvent, error) {
	var rec models.ProcessedWebhookEvent
	err := r.events.FindOne(ctx, bson.M{"_id": eventID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *MongoLedgerRepository) ClaimEvent(ctx context.Context, rec *models.ProcessedWebhookEvent) (bool, *models.ProcessedWebhookEvent, error) {
	_, err := r.events.InsertOne(ctx, rec)
	if err == nil {
		return true, nil, nil
	}
	if mongo.IsDuplicateKeyError(err) {
		prior, ferr := r.GetProcessedEvent(ctx, rec.EventID)
		if ferr != nil {
			return false, nil, ferr
		}
		return false, prior, nil
	}
	return false, nil, err
}
