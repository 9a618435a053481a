package checkout

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Ayushpcode/Project/models"
)

// ProductStore is the inventory ledger. DeductStock must perform the
// stock >= qty check and the decrement as one atomic step per (product,
// size); two concurrent deductions of the last unit must not both succeed.
type ProductStore interface {
	// Get returns (nil, nil) when the product does not exist.
	Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	// DeductStock returns false when the product, size, or quantity could
	// not be matched atomically. It never leaves a partial decrement.
	DeductStock(ctx context.Context, productID primitive.ObjectID, size string, qty int) (bool, error)
	// RestoreStock reverses an earlier deduction of the same line.
	RestoreStock(ctx context.Context, productID primitive.ObjectID, size string, qty int) error
	// RefreshStatus recomputes the derived product status from total stock.
	RefreshStatus(ctx context.Context, productID primitive.ObjectID) error
}

type CartStore interface {
	// Get returns (nil, nil) when the user has no cart yet.
	Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	// Clear empties the cart's lines and zeroes its total without deleting it.
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	// FindAddressDraft returns the user's transient address-holding order,
	// or (nil, nil) when none exists.
	FindAddressDraft(ctx context.Context, userID primitive.ObjectID) (*models.Order, error)
	// UpsertAddressDraft writes the shipping address onto the draft,
	// creating it when the user has none.
	UpsertAddressDraft(ctx context.Context, userID primitive.ObjectID, addr models.ShippingAddress) (*models.Order, error)
	// FindByPaymentID returns (nil, nil) when no order carries the gateway
	// payment id. Used to keep retried verifications idempotent.
	FindByPaymentID(ctx context.Context, paymentID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	// UpdateStatus reports whether the order existed.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserStore interface {
	// Get returns (nil, nil) when the user does not exist.
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// ClaimFirstOrder atomically flips hasOrdered from false to true and
	// reports whether this call won the flip. Exactly one of any number of
	// concurrent claims succeeds.
	ClaimFirstOrder(ctx context.Context, userID primitive.ObjectID) (bool, error)
	// RevertFirstOrder undoes a claim whose order never persisted.
	RevertFirstOrder(ctx context.Context, userID primitive.ObjectID) error
}
