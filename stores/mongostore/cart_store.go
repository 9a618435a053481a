package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Ayushpcode/Project/models"
)

type CartStore struct {
	col *mongo.Collection
}

func NewCartStore(col *mongo.Collection) *CartStore {
	return &CartStore{col: col}
}

func (s *CartStore) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Clear empties the cart but keeps the document so the next add does not
// have to recreate it.
func (s *CartStore) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{
			"products":   []models.CartLine{},
			"totalPrice": 0,
			"updatedAt":  time.Now(),
		}},
	)
	return err
}
