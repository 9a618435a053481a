package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Ayushpcode/Project/metrics"
	"github.com/Ayushpcode/Project/models"
	"github.com/Ayushpcode/Project/services/payments"
	"github.com/Ayushpcode/Project/services/pricing"
)

// Service owns the cart-to-order transition. It is the only component that
// deducts stock or flips a user's hasOrdered flag.
type Service struct {
	products ProductStore
	carts    CartStore
	orders   OrderStore
	users    UserStore
	// secret is the gateway key secret used for settlement signature checks.
	secret string
	log    *zap.Logger
}

func New(products ProductStore, carts CartStore, orders OrderStore, users UserStore, gatewaySecret string, log *zap.Logger) *Service {
	return &Service{
		products: products,
		carts:    carts,
		orders:   orders,
		users:    users,
		secret:   gatewaySecret,
		log:      log,
	}
}

// PaymentDetails carries the gateway's settlement callback fields.
type PaymentDetails struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

// PlacementInput parameterizes one order placement. Address is required for
// the gateway flow (supplied at verification time); the COD flow reads the
// address previously staged on the user's draft order. ClientTotal is the
// client's advisory figure and is never charged.
type PlacementInput struct {
	PaymentMethod string
	ClientTotal   float64
	Address       *models.ShippingAddress
	Payment       *PaymentDetails
}

// PlaceOrder runs the placement workflow: load cart, resolve the address,
// verify the payment signature (gateway flow), reserve stock for every line
// atomically, claim the one-time discount, price the order server-side,
// persist it, and clear the cart. Any failure before persistence restores
// every deduction already made, so either the whole placement commits or
// none of it does.
func (s *Service) PlaceOrder(ctx context.Context, userID primitive.ObjectID, in PlacementInput) (*models.Order, error) {
	order, err := s.placeOrder(ctx, userID, in)
	if err != nil {
		metrics.PlacementFailures.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}
	metrics.OrdersPlaced.WithLabelValues(in.PaymentMethod).Inc()
	return order, nil
}

func (s *Service) placeOrder(ctx context.Context, userID primitive.ObjectID, in PlacementInput) (*models.Order, error) {
	gateway := in.PaymentMethod == models.PaymentMethodRazorpay

	if gateway {
		if in.Payment == nil {
			return nil, &ValidationError{Field: "payment"}
		}
		// The signature gates everything that follows, the duplicate lookup
		// included: a failed check must leave stock, cart, and orders
		// untouched, and must never echo back an existing order.
		if !payments.VerifySignature(in.Payment.GatewayOrderID, in.Payment.PaymentID, in.Payment.Signature, s.secret) {
			metrics.SignatureRejections.Inc()
			return nil, ErrInvalidSignature
		}
		// Re-verifying an already settled payment must not create a second
		// order; hand back the one the payment id already belongs to, but
		// only to the user who placed it. A replay of someone else's payment
		// id must not expose their order.
		existing, err := s.orders.FindByPaymentID(ctx, in.Payment.PaymentID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.UserID != userID {
				s.log.Warn("payment id replayed by a different user",
					zap.String("paymentId", in.Payment.PaymentID),
					zap.String("orderUserId", existing.UserID.Hex()),
					zap.String("callerUserId", userID.Hex()))
				return nil, ErrInvalidSignature
			}
			s.log.Info("duplicate payment verification, returning existing order",
				zap.String("paymentId", in.Payment.PaymentID),
				zap.String("orderId", existing.ID.Hex()))
			return existing, nil
		}
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	draft, err := s.orders.FindAddressDraft(ctx, userID)
	if err != nil {
		return nil, err
	}

	var addr models.ShippingAddress
	if gateway {
		if in.Address == nil {
			return nil, ErrMissingAddress
		}
		if f := in.Address.MissingField(); f != "" {
			return nil, &ValidationError{Field: f}
		}
		addr = *in.Address
	} else {
		if draft == nil || draft.ShippingAddress.IsZero() {
			return nil, ErrMissingAddress
		}
		addr = draft.ShippingAddress
	}

	// Snapshot every line against the live product before touching stock.
	items := make([]models.OrderItem, 0, len(cart.Lines))
	lines := make([]pricing.Line, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		product, err := s.products.Get(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID.Hex())
		}
		if _, ok := models.FindSize(product.Sizes, line.Size); !ok {
			return nil, fmt.Errorf("%w: size %q for product %q", ErrSizeNotFound, line.Size, product.Name)
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Size:      line.Size,
			Image:     product.Image,
		})
		lines = append(lines, pricing.Line{UnitPrice: product.Price, Quantity: line.Quantity})
	}

	reserved, err := s.reserveStock(ctx, items)
	if err != nil {
		return nil, err
	}

	// The flip decides discount eligibility and must happen at most once
	// per user, even across concurrent checkouts.
	firstOrder, err := s.users.ClaimFirstOrder(ctx, userID)
	if err != nil {
		s.releaseStock(ctx, reserved)
		return nil, err
	}

	quote := pricing.ComputeTotal(lines, firstOrder)
	if pricing.MismatchExceedsTolerance(in.ClientTotal, quote.Total) {
		s.log.Warn("client total differs from server total",
			zap.String("userId", userID.Hex()),
			zap.Float64("clientTotal", in.ClientTotal),
			zap.Float64("serverTotal", quote.Total))
	}

	now := time.Now()
	order := &models.Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: addr,
		TotalPrice:      quote.Total,
		DiscountApplied: quote.Discount,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if gateway {
		order.PaymentStatus = models.PaymentStatusPaid
		order.RazorpayOrderID = in.Payment.GatewayOrderID
		order.PaymentID = in.Payment.PaymentID
	}

	id, err := s.orders.Insert(ctx, order)
	if err != nil {
		// The order never completed, so the claim and the deductions are
		// rolled back together.
		if firstOrder {
			if rerr := s.users.RevertFirstOrder(ctx, userID); rerr != nil {
				s.log.Error("failed to revert first-order claim",
					zap.String("userId", userID.Hex()), zap.Error(rerr))
			}
		}
		s.releaseStock(ctx, reserved)
		if gateway {
			// A concurrent verification of the same payment may have won the
			// insert under the unique payment-id index; settle on its order.
			if existing, ferr := s.orders.FindByPaymentID(ctx, in.Payment.PaymentID); ferr == nil && existing != nil && existing.UserID == userID {
				s.log.Info("concurrent verification already settled this payment",
					zap.String("paymentId", in.Payment.PaymentID),
					zap.String("orderId", existing.ID.Hex()))
				return existing, nil
			}
		}
		return nil, err
	}
	order.ID = id

	// The order exists from here on; cleanup failures are logged, not fatal.
	if err := s.carts.Clear(ctx, userID); err != nil {
		s.log.Error("failed to clear cart after order",
			zap.String("userId", userID.Hex()),
			zap.String("orderId", id.Hex()),
			zap.Error(err))
	}
	if draft != nil {
		if err := s.orders.Delete(ctx, draft.ID); err != nil {
			s.log.Error("failed to delete address draft",
				zap.String("draftId", draft.ID.Hex()), zap.Error(err))
		}
	}
	s.refreshStatuses(ctx, items)

	s.log.Info("order placed",
		zap.String("userId", userID.Hex()),
		zap.String("orderId", id.Hex()),
		zap.String("paymentMethod", in.PaymentMethod),
		zap.Float64("total", quote.Total),
		zap.Float64("discount", quote.Discount))

	return order, nil
}

// reserveStock deducts every line, restoring anything already taken when a
// later line fails so the batch is all-or-nothing.
func (s *Service) reserveStock(ctx context.Context, items []models.OrderItem) ([]models.OrderItem, error) {
	reserved := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		ok, err := s.products.DeductStock(ctx, it.ProductID, it.Size, it.Quantity)
		if err != nil {
			s.releaseStock(ctx, reserved)
			return nil, err
		}
		if !ok {
			s.releaseStock(ctx, reserved)
			return nil, &OutOfStockError{
				ProductID: it.ProductID,
				Name:      it.Name,
				Size:      it.Size,
				Available: s.availableStock(ctx, it.ProductID, it.Size),
				Requested: it.Quantity,
			}
		}
		reserved = append(reserved, it)
	}
	return reserved, nil
}

func (s *Service) releaseStock(ctx context.Context, reserved []models.OrderItem) {
	for _, it := range reserved {
		if err := s.products.RestoreStock(ctx, it.ProductID, it.Size, it.Quantity); err != nil {
			s.log.Error("failed to restore reserved stock",
				zap.String("productId", it.ProductID.Hex()),
				zap.String("size", it.Size),
				zap.Int("quantity", it.Quantity),
				zap.Error(err))
		}
	}
}

func (s *Service) availableStock(ctx context.Context, productID primitive.ObjectID, size string) int {
	product, err := s.products.Get(ctx, productID)
	if err != nil || product == nil {
		return 0
	}
	entry, ok := models.FindSize(product.Sizes, size)
	if !ok {
		return 0
	}
	return entry.Stock
}

func (s *Service) refreshStatuses(ctx context.Context, items []models.OrderItem) {
	seen := make(map[primitive.ObjectID]struct{}, len(items))
	for _, it := range items {
		if _, done := seen[it.ProductID]; done {
			continue
		}
		seen[it.ProductID] = struct{}{}
		if err := s.products.RefreshStatus(ctx, it.ProductID); err != nil {
			s.log.Error("failed to refresh product status",
				zap.String("productId", it.ProductID.Hex()), zap.Error(err))
		}
	}
}

// SaveShippingAddress stages the address on the user's draft order ahead of
// a COD checkout, creating the draft when none exists.
func (s *Service) SaveShippingAddress(ctx context.Context, userID primitive.ObjectID, addr models.ShippingAddress) (*models.Order, error) {
	if f := addr.MissingField(); f != "" {
		return nil, &ValidationError{Field: f}
	}
	return s.orders.UpsertAddressDraft(ctx, userID, addr)
}

// ListUserOrders returns the user's orders, newest first, excluding the
// transient address draft.
func (s *Service) ListUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dropDrafts(orders), nil
}

// ListAllOrders returns every placed order, newest first. Admin only.
func (s *Service) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return dropDrafts(orders), nil
}

func dropDrafts(orders []models.Order) []models.Order {
	out := orders[:0]
	for _, o := range orders {
		if !o.IsAddressDraft() {
			out = append(out, o)
		}
	}
	return out
}

// UpdateOrderStatus overwrites the fulfillment status. Only the enumerated
// statuses are accepted; anything else leaves the order untouched.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID primitive.ObjectID, status string) error {
	if !models.IsValidOrderStatus(status) {
		return ErrInvalidStatus
	}
	found, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return err
	}
	if !found {
		return ErrOrderNotFound
	}
	return nil
}

// FirstOrderEligible reports whether the user still qualifies for the
// welcome discount.
func (s *Service) FirstOrderEligible(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return !user.HasOrdered, nil
}

func failureReason(err error) string {
	var oos *OutOfStockError
	var ve *ValidationError
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrMissingAddress):
		return "missing_address"
	case errors.Is(err, ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, ErrSizeNotFound):
		return "size_not_found"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.As(err, &oos):
		return "out_of_stock"
	case errors.As(err, &ve):
		return "validation"
	}
	return "server_error"
}
