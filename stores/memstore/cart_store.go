package memstore

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Ayushpcode/Project/models"
)

type CartStore struct {
	mu    sync.Mutex
	carts map[primitive.ObjectID]*models.Cart
}

func NewCartStore() *CartStore {
	return &CartStore{carts: make(map[primitive.ObjectID]*models.Cart)}
}

func (s *CartStore) Put(c *models.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[c.UserID] = cloneCart(c)
}

func (s *CartStore) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		return nil, nil
	}
	return cloneCart(c), nil
}

func (s *CartStore) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[userID]; ok {
		c.Lines = nil
		c.TotalPrice = 0
		c.UpdatedAt = time.Now()
	}
	return nil
}

func cloneCart(c *models.Cart) *models.Cart {
	clone := *c
	clone.Lines = append([]models.CartLine(nil), c.Lines...)
	return &clone
}
