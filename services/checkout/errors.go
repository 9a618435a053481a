package checkout

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrMissingAddress   = errors.New("no saved shipping address")
	ErrProductNotFound  = errors.New("product not found")
	ErrSizeNotFound     = errors.New("size not available")
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrInvalidStatus    = errors.New("invalid order status")
	ErrOrderNotFound    = errors.New("order not found")
)

// OutOfStockError reports exactly which cart line could not be reserved.
type OutOfStockError struct {
	ProductID primitive.ObjectID
	Name      string
	Size      string
	Available int
	Requested int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q - Size %s. Available: %d, Requested: %d",
		e.Name, e.Size, e.Available, e.Requested)
}

// ValidationError identifies the offending field of a rejected request.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}
