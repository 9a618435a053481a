// Package memstore holds mutex-guarded in-memory implementations of the
// store interfaces, used by the service tests. The mutexes give the same
// serialization guarantees the Mongo conditional updates provide.
package memstore

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Ayushpcode/Project/models"
)

type ProductStore struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]*models.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[primitive.ObjectID]*models.Product)}
}

func (s *ProductStore) Put(p *models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = cloneProduct(p)
}

func (s *ProductStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (s *ProductStore) DeductStock(ctx context.Context, productID primitive.ObjectID, size string, qty int) (bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return false, nil
	}
	for i := range p.Sizes {
		if p.Sizes[i].Size == size && p.Sizes[i].Stock >= qty {
			p.Sizes[i].Stock -= qty
			return true, nil
		}
	}
	return false, nil
}

func (s *ProductStore) RestoreStock(ctx context.Context, productID primitive.ObjectID, size string, qty int) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return nil
	}
	for i := range p.Sizes {
		if p.Sizes[i].Size == size {
			p.Sizes[i].Stock += qty
			return nil
		}
	}
	return nil
}

func (s *ProductStore) RefreshStatus(ctx context.Context, productID primitive.ObjectID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[productID]; ok {
		p.Status = models.StockStatus(p.Sizes)
	}
	return nil
}

func cloneProduct(p *models.Product) *models.Product {
	clone := *p
	clone.Sizes = append([]models.SizeStock(nil), p.Sizes...)
	return &clone
}
