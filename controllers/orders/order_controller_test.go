package controllers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Ayushpcode/Project/services/checkout"
)

func TestPlacementStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"empty cart", checkout.ErrEmptyCart, fiber.StatusBadRequest},
		{"missing address", checkout.ErrMissingAddress, fiber.StatusBadRequest},
		{"product gone", fmt.Errorf("%w: abc", checkout.ErrProductNotFound), fiber.StatusNotFound},
		{"unknown size", fmt.Errorf("%w: size %q", checkout.ErrSizeNotFound, "XXL"), fiber.StatusBadRequest},
		{"out of stock", &checkout.OutOfStockError{ProductID: primitive.NewObjectID(), Name: "Tee", Size: "M", Available: 1, Requested: 3}, fiber.StatusBadRequest},
		{"bad signature", checkout.ErrInvalidSignature, fiber.StatusBadRequest},
		{"validation", &checkout.ValidationError{Field: "city"}, fiber.StatusBadRequest},
		{"unknown", errors.New("mongo down"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, msg := PlacementStatus(tc.err)
			assert.Equal(t, tc.status, status)
			assert.NotEmpty(t, msg)
		})
	}

	// Internals never leak on unexpected errors.
	_, msg := PlacementStatus(errors.New("dial tcp 10.0.0.2: connection refused"))
	assert.NotContains(t, msg, "dial tcp")
}
