package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Ayushpcode/Project/models"
)

type OrderStore struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]*models.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[primitive.ObjectID]*models.Order)}
}

func (s *OrderStore) Insert(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	// Mirrors the unique paymentId index the Mongo store maintains.
	if order.PaymentID != "" {
		for _, o := range s.orders {
			if o.PaymentID == order.PaymentID {
				return primitive.NilObjectID, fmt.Errorf("duplicate payment id %q", order.PaymentID)
			}
		}
	}
	id := primitive.NewObjectID()
	clone := cloneOrder(order)
	clone.ID = id
	s.orders[id] = clone
	return id, nil
}

func (s *OrderStore) FindAddressDraft(ctx context.Context, userID primitive.ObjectID) (*models.Order, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.UserID == userID && o.IsAddressDraft() {
			return cloneOrder(o), nil
		}
	}
	return nil, nil
}

func (s *OrderStore) UpsertAddressDraft(ctx context.Context, userID primitive.ObjectID, addr models.ShippingAddress) (*models.Order, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, o := range s.orders {
		if o.UserID == userID && o.IsAddressDraft() {
			o.ShippingAddress = addr
			o.UpdatedAt = now
			return cloneOrder(o), nil
		}
	}
	draft := &models.Order{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		ShippingAddress: addr,
		PaymentMethod:   models.PaymentMethodCOD,
		PaymentStatus:   models.PaymentStatusPending,
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.orders[draft.ID] = draft
	return cloneOrder(draft), nil
}

func (s *OrderStore) FindByPaymentID(ctx context.Context, paymentID string) (*models.Order, error) {
	_ = ctx
	if paymentID == "" {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.PaymentID == paymentID {
			return cloneOrder(o), nil
		}
	}
	return nil, nil
}

func (s *OrderStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *cloneOrder(o))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *OrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *cloneOrder(o))
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return false, nil
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return true, nil
}

func (s *OrderStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, id)
	return nil
}

func (s *OrderStore) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, o := range s.orders {
		if o.UserID == userID {
			delete(s.orders, id)
			n++
		}
	}
	return n, nil
}

func (s *OrderStore) GetByID(id primitive.ObjectID) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil
	}
	return cloneOrder(o)
}

func sortNewestFirst(orders []models.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

func cloneOrder(o *models.Order) *models.Order {
	clone := *o
	clone.Items = append([]models.OrderItem(nil), o.Items...)
	return &clone
}
