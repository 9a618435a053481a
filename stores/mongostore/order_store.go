package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Ayushpcode/Project/models"
)

type OrderStore struct {
	col *mongo.Collection
}

func NewOrderStore(col *mongo.Collection) *OrderStore {
	return &OrderStore{col: col}
}

// EnsureIndexes creates the unique index backing payment-id idempotency, so
// two concurrent verifications of the same payment cannot both insert.
// Partial, because COD orders and address drafts carry no payment id.
func (s *OrderStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "paymentId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"paymentId": bson.M{"$type": "string"}}),
	})
	return err
}

// draftFilter matches the transient address-holding order: still pending
// and with no items, so placed orders (which are also pending at first)
// never match.
func draftFilter(userID primitive.ObjectID) bson.M {
	return bson.M{
		"userId": userID,
		"status": models.OrderStatusPending,
		"items":  bson.M{"$size": 0},
	}
}

func (s *OrderStore) Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("unexpected inserted id type")
	}
	return id, nil
}

func (s *OrderStore) FindAddressDraft(ctx context.Context, userID primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.col.FindOne(ctx, draftFilter(userID)).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) UpsertAddressDraft(ctx context.Context, userID primitive.ObjectID, addr models.ShippingAddress) (*models.Order, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"shippingAddress": addr,
			"updatedAt":       now,
		},
		"$setOnInsert": bson.M{
			"items":           []models.OrderItem{},
			"totalPrice":      0,
			"discountApplied": 0,
			"paymentMethod":   models.PaymentMethodCOD,
			"paymentStatus":   models.PaymentStatusPending,
			"createdAt":       now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var order models.Order
	if err := s.col.FindOneAndUpdate(ctx, draftFilter(userID), update, opts).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) FindByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	if paymentID == "" {
		return nil, nil
	}
	var order models.Order
	err := s.col.FindOne(ctx, bson.M{"paymentId": paymentID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.list(ctx, bson.M{"userId": userID})
}

func (s *OrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.list(ctx, bson.M{})
}

func (s *OrderStore) list(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (s *OrderStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *OrderStore) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
