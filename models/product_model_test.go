package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStockStatus(t *testing.T) {
	require.Equal(t, ProductStatusOutOfStock, StockStatus(nil))
	require.Equal(t, ProductStatusOutOfStock, StockStatus([]SizeStock{{Size: "M", Stock: 0}}))
	require.Equal(t, ProductStatusLimited, StockStatus([]SizeStock{{Size: "M", Stock: 5}, {Size: "L", Stock: 9}}))
	require.Equal(t, ProductStatusActive, StockStatus([]SizeStock{{Size: "M", Stock: 10}, {Size: "L", Stock: 5}}))
}

func TestShippingAddressMissingField(t *testing.T) {
	addr := ShippingAddress{
		FullName:    "A Buyer",
		PhoneNumber: "9999999999",
		Line1:       "1 Main St",
		City:        "Pune",
		State:       "MH",
		PostalCode:  "411001",
	}
	require.Equal(t, "", addr.MissingField())

	addr.Line2 = ""
	require.Equal(t, "", addr.MissingField(), "line2 is optional")

	addr.City = ""
	require.Equal(t, "city", addr.MissingField())
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, s := range []string{OrderStatusPending, OrderStatusShipping, OrderStatusDelivered, OrderStatusCancelled} {
		require.True(t, IsValidOrderStatus(s))
	}
	require.False(t, IsValidOrderStatus("processing"))
	require.False(t, IsValidOrderStatus(""))
}
