package memstore

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Ayushpcode/Project/models"
)

type UserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (s *UserStore) Put(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *u
	s.users[u.Id] = &clone
}

func (s *UserStore) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (s *UserStore) ClaimFirstOrder(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok || u.HasOrdered {
		return false, nil
	}
	u.HasOrdered = true
	return true, nil
}

func (s *UserStore) RevertFirstOrder(ctx context.Context, userID primitive.ObjectID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.HasOrdered = false
	}
	return nil
}

func (s *UserStore) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}
