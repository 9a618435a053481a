package customers

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Ayushpcode/Project/models"
)

var ErrCustomerNotFound = errors.New("customer not found")

type UserStore interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type OrderStore interface {
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// Summary is the per-customer aggregate shown on the admin customer list.
type Summary struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	JoinDate      time.Time  `json:"joinDate"`
	TotalOrders   int        `json:"totalOrders"`
	TotalSpent    float64    `json:"totalSpent"`
	LastOrderDate *time.Time `json:"lastOrderDate"`
	Status        string     `json:"status"`
}

type Detail struct {
	Summary
	Orders []models.Order `json:"orders"`
}

type Service struct {
	users  UserStore
	orders OrderStore
	log    *zap.Logger
}

func New(users UserStore, orders OrderStore, log *zap.Logger) *Service {
	return &Service{users: users, orders: orders, log: log}
}

func (s *Service) ListCustomers(ctx context.Context) ([]Summary, error) {
	users, err := s.users.ListByRole(ctx, models.RoleUser)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(users))
	for _, u := range users {
		orders, err := s.orders.ListByUser(ctx, u.Id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summarize(u, orders))
	}
	return summaries, nil
}

func (s *Service) GetCustomer(ctx context.Context, id primitive.ObjectID) (*Detail, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrCustomerNotFound
	}

	orders, err := s.orders.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Detail{Summary: summarize(*user, orders), Orders: orders}, nil
}

// DeleteCustomer removes the customer and every order they placed, orders
// first so a failure cannot leave orders pointing at a deleted user.
func (s *Service) DeleteCustomer(ctx context.Context, id primitive.ObjectID) error {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrCustomerNotFound
	}

	deleted, err := s.orders.DeleteByUser(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("customer deleted",
		zap.String("customerId", id.Hex()),
		zap.Int64("ordersDeleted", deleted))
	return nil
}

func summarize(u models.User, orders []models.Order) Summary {
	sum := Summary{
		ID:          u.Id.Hex(),
		Name:        displayName(u),
		Email:       u.Email,
		Phone:       "N/A",
		JoinDate:    u.CreatedAt,
		TotalOrders: len(orders),
		Status:      u.Status,
	}
	var last time.Time
	for _, o := range orders {
		sum.TotalSpent += o.TotalPrice
		if o.CreatedAt.After(last) {
			last = o.CreatedAt
		}
		if sum.Phone == "N/A" && o.ShippingAddress.PhoneNumber != "" {
			sum.Phone = o.ShippingAddress.PhoneNumber
		}
	}
	if !last.IsZero() {
		sum.LastOrderDate = &last
	}
	return sum
}

// displayName falls back to the email local part when the profile has no
// name set, matching what the admin screens expect.
func displayName(u models.User) string {
	if u.Name != "" {
		return u.Name
	}
	if i := strings.Index(u.Email, "@"); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}
