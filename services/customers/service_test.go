package customers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Ayushpcode/Project/models"
	"github.com/Ayushpcode/Project/stores/memstore"
)

func newFixture() (*Service, *memstore.UserStore, *memstore.OrderStore) {
	users := memstore.NewUserStore()
	orders := memstore.NewOrderStore()
	return New(users, orders, zap.NewNop()), users, orders
}

func seedOrder(t *testing.T, orders *memstore.OrderStore, userID primitive.ObjectID, total float64, createdAt time.Time, phone string) {
	t.Helper()
	_, err := orders.Insert(context.Background(), &models.Order{
		UserID:     userID,
		Items:      []models.OrderItem{{Name: "anything", Quantity: 1}},
		TotalPrice: total,
		Status:     models.OrderStatusPending,
		ShippingAddress: models.ShippingAddress{
			PhoneNumber: phone,
		},
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
}

func TestListCustomersAggregates(t *testing.T) {
	svc, users, orders := newFixture()
	ctx := context.Background()

	buyer := primitive.NewObjectID()
	users.Put(&models.User{Id: buyer, Email: "asha@example.com", Role: models.RoleUser, Status: "active"})
	users.Put(&models.User{Id: primitive.NewObjectID(), Email: "admin@example.com", Role: models.RoleAdmin})

	older := time.Now().Add(-48 * time.Hour)
	newer := time.Now().Add(-1 * time.Hour)
	seedOrder(t, orders, buyer, 500, older, "111")
	seedOrder(t, orders, buyer, 700, newer, "222")

	summaries, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1, "admins are not customers")

	got := summaries[0]
	require.Equal(t, "asha", got.Name, "name falls back to the email local part")
	require.Equal(t, 2, got.TotalOrders)
	require.Equal(t, float64(1200), got.TotalSpent)
	require.NotNil(t, got.LastOrderDate)
	require.WithinDuration(t, newer, *got.LastOrderDate, time.Second)
}

func TestGetCustomerNotFound(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.GetCustomer(context.Background(), primitive.NewObjectID())
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestDeleteCustomerCascadesToOrders(t *testing.T) {
	svc, users, orders := newFixture()
	ctx := context.Background()

	buyer := primitive.NewObjectID()
	other := primitive.NewObjectID()
	users.Put(&models.User{Id: buyer, Email: "gone@example.com", Role: models.RoleUser})
	users.Put(&models.User{Id: other, Email: "stays@example.com", Role: models.RoleUser})

	seedOrder(t, orders, buyer, 100, time.Now(), "")
	seedOrder(t, orders, buyer, 200, time.Now(), "")
	seedOrder(t, orders, other, 300, time.Now(), "")

	require.NoError(t, svc.DeleteCustomer(ctx, buyer))

	gone, err := users.Get(ctx, buyer)
	require.NoError(t, err)
	require.Nil(t, gone)

	remaining, err := orders.ListByUser(ctx, buyer)
	require.NoError(t, err)
	require.Empty(t, remaining, "no orphaned orders for the deleted customer")

	kept, err := orders.ListByUser(ctx, other)
	require.NoError(t, err)
	require.Len(t, kept, 1, "other customers' orders are untouched")
}

func TestDeleteCustomerNotFound(t *testing.T) {
	svc, _, _ := newFixture()

	err := svc.DeleteCustomer(context.Background(), primitive.NewObjectID())
	require.ErrorIs(t, err, ErrCustomerNotFound)
}
