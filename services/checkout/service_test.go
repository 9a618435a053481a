package checkout

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Ayushpcode/Project/models"
	"github.com/Ayushpcode/Project/stores/memstore"
)

const testSecret = "test_gateway_secret"

type CheckoutSuite struct {
	suite.Suite

	products *memstore.ProductStore
	carts    *memstore.CartStore
	orders   *memstore.OrderStore
	users    *memstore.UserStore
	svc      *Service

	userID primitive.ObjectID
	shoeID primitive.ObjectID
	teeID  primitive.ObjectID
}

func TestCheckoutSuite(t *testing.T) {
	suite.Run(t, new(CheckoutSuite))
}

func (s *CheckoutSuite) SetupTest() {
	s.products = memstore.NewProductStore()
	s.carts = memstore.NewCartStore()
	s.orders = memstore.NewOrderStore()
	s.users = memstore.NewUserStore()
	s.svc = New(s.products, s.carts, s.orders, s.users, testSecret, zap.NewNop())

	s.userID = primitive.NewObjectID()
	s.shoeID = primitive.NewObjectID()
	s.teeID = primitive.NewObjectID()

	s.users.Put(&models.User{Id: s.userID, Email: "buyer@example.com", Role: models.RoleUser})

	s.products.Put(&models.Product{
		ID:    s.shoeID,
		Name:  "Runner Shoe",
		Price: 2000,
		Image: "shoe.jpg",
		Sizes: []models.SizeStock{{Size: "9", Stock: 10}, {Size: "10", Stock: 5}},
	})
	s.products.Put(&models.Product{
		ID:    s.teeID,
		Name:  "Plain Tee",
		Price: 500,
		Sizes: []models.SizeStock{{Size: "M", Stock: 3}},
	})
}

func (s *CheckoutSuite) putCart(lines ...models.CartLine) {
	s.carts.Put(&models.Cart{
		ID:     primitive.NewObjectID(),
		UserID: s.userID,
		Lines:  lines,
	})
}

func (s *CheckoutSuite) saveAddress() {
	_, err := s.svc.SaveShippingAddress(context.Background(), s.userID, testAddress())
	s.Require().NoError(err)
}

func testAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FullName:    "A Buyer",
		PhoneNumber: "9999999999",
		Line1:       "1 Main St",
		City:        "Pune",
		State:       "MH",
		PostalCode:  "411001",
	}
}

func (s *CheckoutSuite) stockOf(productID primitive.ObjectID, size string) int {
	p, err := s.products.Get(context.Background(), productID)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	entry, ok := models.FindSize(p.Sizes, size)
	s.Require().True(ok)
	return entry.Stock
}

func signPayment(orderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(testSecret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

func (s *CheckoutSuite) TestCODOrderDeductsStockAndAppliesDiscount() {
	ctx := context.Background()
	s.saveAddress()
	s.putCart(
		models.CartLine{ProductID: s.shoeID, Quantity: 2, Size: "9"},
		models.CartLine{ProductID: s.teeID, Quantity: 1, Size: "M"},
	)

	order, err := s.svc.PlaceOrder(ctx, s.userID, PlacementInput{PaymentMethod: models.PaymentMethodCOD})
	s.Require().NoError(err)
	s.Require().NotNil(order)

	// subtotal 4500, discount round(4500*0.05)=225, total 4500+65-225
	s.Equal(float64(225), order.DiscountApplied)
	s.Equal(float64(4340), order.TotalPrice)
	s.Equal(models.PaymentMethodCOD, order.PaymentMethod)
	s.Equal(models.PaymentStatusPending, order.PaymentStatus)
	s.Equal(models.OrderStatusPending, order.Status)
	s.Equal(testAddress(), order.ShippingAddress)
	s.Len(order.Items, 2)
	s.Equal("Runner Shoe", order.Items[0].Name)
	s.Equal(float64(2000), order.Items[0].Price)

	s.Equal(8, s.stockOf(s.shoeID, "9"))
	s.Equal(5, s.stockOf(s.shoeID, "10"), "untouched size keeps its stock")
	s.Equal(2, s.stockOf(s.teeID, "M"))

	cart, err := s.carts.Get(ctx, s.userID)
	s.Require().NoError(err)
	s.Empty(cart.Lines, "cart is emptied, not deleted")
	s.Zero(cart.TotalPrice)

	draft, err := s.orders.FindAddressDraft(ctx, s.userID)
	s.Require().NoError(err)
	s.Nil(draft, "address draft is deleted after placement")

	user, err := s.users.Get(ctx, s.userID)
	s.Require().NoError(err)
	s.True(user.HasOrdered)
}

func (s *CheckoutSuite) TestDiscountAppliesOnlyOnce() {
	ctx := context.Background()
	s.saveAddress()
	s.putCart(models.CartLine{ProductID: s.shoeID, Quantity: 1, Size: "9"})

	first, err := s.svc.PlaceOrder(ctx, s.userID, PlacementInput{PaymentMethod: models.PaymentMethodCOD})
	s.Require().NoError(err)
	s.Equal(float64(100), first.DiscountApplied)

	s.saveAddress()
	s.putCart(models.CartLine{ProductID: s.shoeID, Quantity: 1, Size: "9"})

	second, err := s.svc.PlaceOrder(ctx, s.userID, PlacementInput{PaymentMethod: models.PaymentMethodCOD})
	s.Require().NoError(err)
	s.Zero(second.DiscountApplied)
	s.Equal(float64(2065), second.TotalPrice)
}

func (s *CheckoutSuite) TestOutOfStockAbortsWholeBatch() {
	ctx := context.Background()
	s.saveAddress()
	s.putCart(
		models.CartLine{ProductID: s.shoeID, Quantity: 2, Size: "9"},
		models.CartLine{ProductID: s.teeID, Quantity: 4, Size: "M"}, // only 3 in stock
	)

	_, err := s.svc.PlaceOrder(ctx, s.userID, PlacementInput{PaymentMethod: models.PaymentMethodCOD})
	s.Require().Error(err)

	var oos *OutOfStockError
	s.Require().ErrorAs(err, &oos)
	s.Equal("Plain Tee", oos.Name)
	s.Equal("M", oos.Size)
	s.Equal(3, oos.Available)
	s.Equal(4, oos.Requested)

	s.Equal(10, s.stockOf(s.shoeID, "9"), "earlier line's deduction is rolled back")
	s.Equal(3, s.stockOf(s.teeID, "M"))

	user, err := s.users.Get(ctx, s.userID)
	s.Require().NoError(err)
	s.False(user.HasOrdered, "failed placement must not consume the discount")

	orders, err := s.svc.ListUserOrders(ctx, s.userID)
	s.Require().NoError(err)
	s.Empty(orders)
}

func (s *CheckoutSuite) TestEmptyCart() {
	s.saveAddress()

	_, err := s.svc.PlaceOrder(context.Background(), s.userID, PlacementInput{PaymentMethod: models.PaymentMethodCOD})
	s.ErrorIs(err, ErrEmptyCart)
}

func (s *CheckoutSuite) TestCODWithoutSavedAddress() {
	s.putCart(models.CartLine{ProductID: s.shoeID, Quantity: 1, Size: "9"})

	_, err := s.svc.PlaceOrder(context.Background(), s.userID, PlacementInput{PaymentMethod: models.PaymentMethodCOD})
	s.ErrorIs(err, ErrMissingAddress)
	s.Equal(10, s.stockOf(s.shoeID, "9"))
}

func (s *CheckoutSuite) TestUnknownSizeLabel() {
	s.saveAddress()
	s.putCart(models.CartLine{ProductID: s.shoeID, Quantity: 1, Size: "14"})

	_, err := s.svc.PlaceOrder(context.Background(), s.userID, PlacementInput{PaymentMethod: models.PaymentMethodCOD})
	s.ErrorIs(err, ErrSizeNotFound)
}

func (s *CheckoutSuite) TestRemovedProduct() {
	s.saveAddress()
	s.putCart(models.CartLine{ProductID: primitive.NewObjectID(), Quantity: 1, Size: "9"})

	_, err := s.svc.PlaceOrder(context.Background(), s.userID, PlacementInput{PaymentMethod: models.PaymentMethodCOD})
	s.ErrorIs(err, ErrProductNotFound)
}

func (s *CheckoutSuite) TestGatewayPlacementSucceeds() {
	ctx := context.Background()
	s.putCart(models.CartLine{ProductID: s.shoeID, Quantity: 1, Size: "10"})

	addr := testAddress()
	order, err := s.svc.PlaceOrder(ctx, s.userID, PlacementInput{
		PaymentMethod: models.PaymentMethodRazorpay,
		Address:       &addr,
		Payment: &PaymentDetails{
			GatewayOrderID: "order_123",
			PaymentID:      "pay_456",
			Signature:      signPayment("order_123", "pay_456"),
		},
	})
	s.Require().NoError(err)

	s.Equal(models.PaymentStatusPaid, order.PaymentStatus)
	s.Equal(models.OrderStatusPending, order.Status)
	s.Equal("order_123", order.RazorpayOrderID)
	s.Equal("pay_456", order.PaymentID)
	s.Equal(4, s.stockOf(s.shoeID, "10"))
}

func (s *CheckoutSuite) TestTamperedSignatureTouchesNothing() {
	ctx := context.Background()
	s.putCart(models.CartLine{ProductID: s.shoeID, Quantity: 1, Size: "10"})

	addr := testAddress()
	_, err := s.svc.PlaceOrder(ctx, s.userID, PlacementInput{
		PaymentMethod: models.PaymentMethodRazorpay,
		Address:       &addr,
		Payment: &PaymentDetails{
			GatewayOrderID: "order_123",
			PaymentID:      "pay_456",
			Signature:      signPayment("order_123", "pay_999"), // signs a different payment
		},
	})
	s.ErrorIs(err, ErrInvalidSignature)

	s.Equal(5, s.stockOf(s.shoeID, "10"))

	cart, err := s.carts.Get(ctx, s.userID)
	s.Require().NoError(err)
	s.Len(cart.Lines, 1, "cart survives a rejected verification")

	orders, err := s.svc.ListUserOrders(ctx, s.userID)
	s.Require().NoError(err)
	s.Empty(orders)

	user, err := s.users.Get(ctx, s.userID)
	s.Require().NoError(err)
	s.False(user.HasOrdered)
}

func (s *CheckoutSuite) TestDuplicatePaymentVerificationIsIdempotent() {
	ctx := context.Background()
	s.putCart(models.CartLine{ProductID: s.shoeID, Quantity: 1, Size: "10"})

	addr := testAddress()
	in := PlacementInput{
		PaymentMethod: models.PaymentMethodRazorpay,
		Address:       &addr,
		Payment: &PaymentDetails{
			GatewayOrderID: "order_123",
			PaymentID:      "pay_456",
			Signature:      signPayment("order_123", "pay_456"),
		},
	}

	first, err := s.svc.PlaceOrder(ctx, s.userID, in)
	s.Require().NoError(err)

	// A retried callback for the same payment must not deduct again or
	// create a second order, even with items back in the cart.
	s.putCart(models.CartLine{ProductID: s.shoeID, Quantity: 1, Size: "10"})

	second, err := s.svc.PlaceOrder(ctx, s.userID, in)
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
	s.Equal(4, s.stockOf(s.shoeID, "10"))

	orders, err := s.svc.ListUserOrders(ctx, s.userID)
	s.Require().NoError(err)
	s.Len(orders, 1)
}

func (s *CheckoutSuite) TestReplayedPaymentIDNeverLeaksAnotherUsersOrder() {
	ctx := context.Background()
	s.putCart(models.CartLine{ProductID: s.shoeID, Quantity: 1, Size: "10"})

	addr := testAddress()
	victimOrder, err := s.svc.PlaceOrder(ctx, s.userID, PlacementInput{
		PaymentMethod: models.PaymentMethodRazorpay,
		Address:       &addr,
		Payment: &PaymentDetails{
			GatewayOrderID: "order_123",
			PaymentID:      "pay_456",
			Signature:      signPayment("order_123", "pay_456"),
		},
	})
	s.Require().NoError(err)

	attacker := primitive.NewObjectID()
	s.users.Put(&models.User{Id: attacker, Email: "mallory@example.com", Role: models.RoleUser})

	// A known payment id with a forged signature must fail like any other
	// bad signature, not short-circuit into the existing order.
	got, err := s.svc.PlaceOrder(ctx, attacker, PlacementInput{
		PaymentMethod: models.PaymentMethodRazorpay,
		Address:       &addr,
		Payment: &PaymentDetails{
			GatewayOrderID: "order_123",
			PaymentID:      "pay_456",
			Signature:      "totally-bogus",
		},
	})
	s.ErrorIs(err, ErrInvalidSignature)
	s.Nil(got)

	// Even a correctly signed replay only ever returns the order to the
	// user who placed it.
	got, err = s.svc.PlaceOrder(ctx, attacker, PlacementInput{
		PaymentMethod: models.PaymentMethodRazorpay,
		Address:       &addr,
		Payment: &PaymentDetails{
			GatewayOrderID: "order_123",
			PaymentID:      "pay_456",
			Signature:      signPayment("order_123", "pay_456"),
		},
	})
	s.ErrorIs(err, ErrInvalidSignature)
	s.Nil(got)

	s.Equal(s.userID, s.orders.GetByID(victimOrder.ID).UserID)
}

func (s *CheckoutSuite) TestConcurrentVerificationsSettleOnOneOrder() {
	ctx := context.Background()
	s.putCart(models.CartLine{ProductID: s.shoeID, Quantity: 1, Size: "9"})

	addr := testAddress()
	in := PlacementInput{
		PaymentMethod: models.PaymentMethodRazorpay,
		Address:       &addr,
		Payment: &PaymentDetails{
			GatewayOrderID: "order_807",
			PaymentID:      "pay_807",
			Signature:      signPayment("order_807", "pay_807"),
		},
	}

	results := make([]*models.Order, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.svc.PlaceOrder(ctx, s.userID, in)
		}(i)
	}
	wg.Wait()

	var ids []primitive.ObjectID
	for i := range results {
		if errs[i] == nil {
			ids = append(ids, results[i].ID)
			continue
		}
		// The loser may only see the cart the winner already cleared.
		s.ErrorIs(errs[i], ErrEmptyCart)
	}
	s.Require().NotEmpty(ids, "at least one verification settles the payment")
	for _, id := range ids {
		s.Equal(ids[0], id, "every success settles on the same order")
	}

	orders, err := s.svc.ListUserOrders(ctx, s.userID)
	s.Require().NoError(err)
	s.Len(orders, 1, "one payment id never yields two orders")
	s.Equal(9, s.stockOf(s.shoeID, "9"), "stock is deducted exactly once")

	// The store refuses a second insert outright, mirroring the unique
	// paymentId index.
	_, err = s.orders.Insert(ctx, &models.Order{UserID: s.userID, PaymentID: "pay_807"})
	s.Require().Error(err)
}

func (s *CheckoutSuite) TestConcurrentCheckoutOfLastUnit() {
	ctx := context.Background()

	lastOne := primitive.NewObjectID()
	s.products.Put(&models.Product{
		ID:    lastOne,
		Name:  "Limited Sneaker",
		Price: 5000,
		Sizes: []models.SizeStock{{Size: "8", Stock: 1}},
	})

	otherUser := primitive.NewObjectID()
	s.users.Put(&models.User{Id: otherUser, Email: "rival@example.com", Role: models.RoleUser})

	for _, uid := range []primitive.ObjectID{s.userID, otherUser} {
		s.carts.Put(&models.Cart{
			ID:     primitive.NewObjectID(),
			UserID: uid,
			Lines:  []models.CartLine{{ProductID: lastOne, Quantity: 1, Size: "8"}},
		})
		_, err := s.svc.SaveShippingAddress(ctx, uid, testAddress())
		s.Require().NoError(err)
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, uid := range []primitive.ObjectID{s.userID, otherUser} {
		wg.Add(1)
		go func(i int, uid primitive.ObjectID) {
			defer wg.Done()
			_, errs[i] = s.svc.PlaceOrder(ctx, uid, PlacementInput{PaymentMethod: models.PaymentMethodCOD})
		}(i, uid)
	}
	wg.Wait()

	var successes, outOfStock int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var oos *OutOfStockError
		s.Require().ErrorAs(err, &oos)
		outOfStock++
	}
	s.Equal(1, successes, "exactly one checkout wins the last unit")
	s.Equal(1, outOfStock)
	s.Equal(0, s.stockOf(lastOne, "8"))
}

func (s *CheckoutSuite) TestConcurrentCheckoutsClaimDiscountAtMostOnce() {
	ctx := context.Background()
	s.saveAddress()
	s.putCart(models.CartLine{ProductID: s.shoeID, Quantity: 1, Size: "9"})

	results := make([]*models.Order, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.svc.PlaceOrder(ctx, s.userID, PlacementInput{PaymentMethod: models.PaymentMethodCOD})
		}(i)
	}
	wg.Wait()

	var successes, discounted int
	for i := range results {
		if errs[i] != nil {
			continue
		}
		successes++
		if results[i].DiscountApplied > 0 {
			discounted++
		}
	}
	s.GreaterOrEqual(successes, 1)
	s.LessOrEqual(discounted, 1, "the welcome discount never applies twice")

	user, err := s.users.Get(ctx, s.userID)
	s.Require().NoError(err)
	s.True(user.HasOrdered)
}

func (s *CheckoutSuite) TestUpdateOrderStatus() {
	ctx := context.Background()
	s.saveAddress()
	s.putCart(models.CartLine{ProductID: s.shoeID, Quantity: 1, Size: "9"})

	order, err := s.svc.PlaceOrder(ctx, s.userID, PlacementInput{PaymentMethod: models.PaymentMethodCOD})
	s.Require().NoError(err)

	s.Require().NoError(s.svc.UpdateOrderStatus(ctx, order.ID, models.OrderStatusShipping))
	s.Equal(models.OrderStatusShipping, s.orders.GetByID(order.ID).Status)

	err = s.svc.UpdateOrderStatus(ctx, order.ID, "misplaced")
	s.ErrorIs(err, ErrInvalidStatus)
	s.Equal(models.OrderStatusShipping, s.orders.GetByID(order.ID).Status, "rejected status leaves the order unchanged")

	err = s.svc.UpdateOrderStatus(ctx, primitive.NewObjectID(), models.OrderStatusDelivered)
	s.ErrorIs(err, ErrOrderNotFound)
}

func (s *CheckoutSuite) TestSaveShippingAddressValidation() {
	addr := testAddress()
	addr.PostalCode = ""

	_, err := s.svc.SaveShippingAddress(context.Background(), s.userID, addr)
	s.Require().Error(err)

	var ve *ValidationError
	s.Require().ErrorAs(err, &ve)
	s.Equal("postalCode", ve.Field)
}

func (s *CheckoutSuite) TestSaveShippingAddressReusesDraft() {
	ctx := context.Background()

	first, err := s.svc.SaveShippingAddress(ctx, s.userID, testAddress())
	s.Require().NoError(err)

	updated := testAddress()
	updated.City = "Mumbai"
	second, err := s.svc.SaveShippingAddress(ctx, s.userID, updated)
	s.Require().NoError(err)

	s.Equal(first.ID, second.ID, "revisiting the address step updates the same draft")
	s.Equal("Mumbai", second.ShippingAddress.City)
}

func (s *CheckoutSuite) TestFirstOrderEligible() {
	ctx := context.Background()

	eligible, err := s.svc.FirstOrderEligible(ctx, s.userID)
	s.Require().NoError(err)
	s.True(eligible)

	s.saveAddress()
	s.putCart(models.CartLine{ProductID: s.shoeID, Quantity: 1, Size: "9"})
	_, err = s.svc.PlaceOrder(ctx, s.userID, PlacementInput{PaymentMethod: models.PaymentMethodCOD})
	s.Require().NoError(err)

	eligible, err = s.svc.FirstOrderEligible(ctx, s.userID)
	s.Require().NoError(err)
	s.False(eligible)
}

func (s *CheckoutSuite) TestListUserOrdersHidesAddressDraft() {
	ctx := context.Background()
	s.saveAddress()

	orders, err := s.svc.ListUserOrders(ctx, s.userID)
	s.Require().NoError(err)
	s.Empty(orders, "the address draft is not a real order")
}

func TestFailureReason(t *testing.T) {
	require.Equal(t, "empty_cart", failureReason(ErrEmptyCart))
	require.Equal(t, "out_of_stock", failureReason(&OutOfStockError{}))
	require.Equal(t, "validation", failureReason(&ValidationError{Field: "city"}))
	require.Equal(t, "server_error", failureReason(context.DeadlineExceeded))
}
