// Package mongostore implements the store interfaces over MongoDB
// collections. Stock deduction and the first-order claim use single
// conditional updates so the check and the write are one atomic step.
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

type ProductStore struct {
	col *mongo.Collection
}

func NewProductStore(col *mongo.Collection) *ProductStore {
	return &ProductStore{col: col}
}

func (s *ProductStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DeductStock decrements the size's stock only when the document still has
// at least qty units, in one atomic update. A zero match means the product
// is gone, the size label is gone, or the stock ran out; the caller decides
// which by re-reading.
func (s *ProductStore) DeductStock(ctx context.Context, productID primitive.ObjectID, size string, qty int) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{
			"_id": productID,
			"sizes": bson.M{"$elemMatch": bson.M{
				"size":  size,
				"stock": bson.M{"$gte": qty},
			}},
		},
		bson.M{
			"$inc": bson.M{"sizes.$.stock": -qty},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (s *ProductStore) RestoreStock(ctx context.Context, productID primitive.ObjectID, size string, qty int) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": productID, "sizes.size": size},
		bson.M{
			"$inc": bson.M{"sizes.$.stock": qty},
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	return err
}

// RefreshStatus recomputes the derived display status after stock changed.
// Best effort; the stock counters themselves are already consistent.
func (s *ProductStore) RefreshStatus(ctx context.Context, productID primitive.ObjectID) error {
	product, err := s.Get(ctx, productID)
	if err != nil || product == nil {
		return err
	}
	status := models.StockStatus(product.Sizes)
	if status == product.Status {
		return nil
	}
	_, err = s.col.UpdateOne(ctx,
		bson.M{"_id": productID},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}},
	)
	return err
}
