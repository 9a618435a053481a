package pricing

import "math"

// Flat surcharges added to every order, and the one-time welcome discount
// granted on a customer's first order.
const (
	ShippingCharge         = 15
	DeliveryCharge         = 50
	FirstOrderDiscountRate = 0.05

	// MismatchTolerance is how far a client-reported total may drift from
	// the server total before the difference is worth logging. The client
	// figure is advisory only and is never used for charging.
	MismatchTolerance = 2
)

// Line is one cart line priced from the live product at placement time.
type Line struct {
	UnitPrice float64
	Quantity  int
}

type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Delivery float64 `json:"delivery"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// ComputeTotal prices an order server-side. The discount applies only when
// this is the customer's first order at the moment of evaluation.
func ComputeTotal(lines []Line, firstOrder bool) Quote {
	var subtotal float64
	for _, l := range lines {
		subtotal += l.UnitPrice * float64(l.Quantity)
	}

	var discount float64
	if firstOrder {
		discount = math.Round(subtotal * FirstOrderDiscountRate)
	}

	total := math.Round(subtotal + ShippingCharge + DeliveryCharge - discount)

	return Quote{
		Subtotal: subtotal,
		Shipping: ShippingCharge,
		Delivery: DeliveryCharge,
		Discount: discount,
		Total:    total,
	}
}

// MismatchExceedsTolerance reports whether a client-supplied total differs
// from the server total by more than the accepted tolerance. A zero client
// total means the client did not send one.
func MismatchExceedsTolerance(clientTotal, serverTotal float64) bool {
	if clientTotal == 0 {
		return false
	}
	return math.Abs(clientTotal-serverTotal) > MismatchTolerance
}
