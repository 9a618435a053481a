package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Ayushpcode/Project/models"
)

type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(col *mongo.Collection) *UserStore {
	return &UserStore{col: col}
}

func (s *UserStore) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ClaimFirstOrder flips hasOrdered false -> true in one conditional update.
// Concurrent claims race on the same filter; Mongo matches the document for
// exactly one of them.
func (s *UserStore) ClaimFirstOrder(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": userID, "hasOrdered": false},
		bson.M{"$set": bson.M{"hasOrdered": true}},
	).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *UserStore) RevertFirstOrder(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"hasOrdered": false}},
	)
	return err
}

func (s *UserStore) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	cursor, err := s.col.Find(ctx, bson.M{"role": role})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
