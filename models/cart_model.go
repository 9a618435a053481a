package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine references a product by id rather than embedding it, so checkout
// can price the line from the live product at placement time.
type CartLine struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId" validate:"required"`
	Quantity  int                `bson:"quantity" json:"quantity" validate:"required,min=1"`
	Size      string             `bson:"size" json:"size" validate:"required"`
}

// Cart holds one user's pending line items. It is created lazily on the
// first add and emptied, not deleted, when an order is placed.
type Cart struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Lines      []CartLine         `bson:"products" json:"products"`
	TotalPrice float64            `bson:"totalPrice" json:"totalPrice"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FindLine returns the index of the line matching product and size, or -1.
func (c *Cart) FindLine(productID primitive.ObjectID, size string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID && l.Size == size {
			return i
		}
	}
	return -1
}
