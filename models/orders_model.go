package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShippingAddress is stored on the order itself so later address-book edits
// never alter where a historical order was sent.
type ShippingAddress struct {
	FullName    string `json:"fullName" bson:"fullName"`
	PhoneNumber string `json:"phoneNumber" bson:"phoneNumber"`
	Line1       string `json:"line1" bson:"line1"`
	Line2       string `json:"line2,omitempty" bson:"line2,omitempty"`
	City        string `json:"city" bson:"city"`
	State       string `json:"state" bson:"state"`
	PostalCode  string `json:"postalCode" bson:"postalCode"`
}

// MissingField reports the first required address field that is empty, or ""
// when the address is complete. Line2 is optional.
func (a ShippingAddress) MissingField() string {
	switch {
	case a.FullName == "":
		return "fullName"
	case a.PhoneNumber == "":
		return "phoneNumber"
	case a.Line1 == "":
		return "line1"
	case a.City == "":
		return "city"
	case a.State == "":
		return "state"
	case a.PostalCode == "":
		return "postalCode"
	}
	return ""
}

func (a ShippingAddress) IsZero() bool {
	return a == ShippingAddress{}
}

// OrderItem is a snapshot of a product at purchase time. Name, price and
// image are copied from the live product so catalog edits do not rewrite
// order history.
type OrderItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Name      string             `json:"name" bson:"name"`
	Price     float64            `json:"price" bson:"price"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Size      string             `json:"size" bson:"size,omitempty"`
	Image     string             `json:"image,omitempty" bson:"image,omitempty"`
}

const (
	PaymentMethodCOD      = "COD"
	PaymentMethodRazorpay = "RAZORPAY"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"

	OrderStatusPending   = "pending"
	OrderStatusShipping  = "shipping"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// IsValidOrderStatus reports whether s is one of the admin-settable statuses.
func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusShipping, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a customer order. An order with no items and status "pending" is
// the transient draft used to stage a shipping address before checkout; it
// is deleted once a real order is created from it.
type Order struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	Items           []OrderItem        `json:"items" bson:"items"`
	ShippingAddress ShippingAddress    `json:"shippingAddress" bson:"shippingAddress"`
	TotalPrice      float64            `json:"totalPrice" bson:"totalPrice"`
	DiscountApplied float64            `json:"discountApplied" bson:"discountApplied"`
	PaymentMethod   string             `json:"paymentMethod" bson:"paymentMethod"`
	PaymentStatus   string             `json:"paymentStatus" bson:"paymentStatus"`
	Status          string             `json:"status" bson:"status"`
	RazorpayOrderID string             `json:"razorpayOrderId,omitempty" bson:"razorpayOrderId,omitempty"`
	PaymentID       string             `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsAddressDraft reports whether the order is only staging a shipping
// address and has not yet been placed.
func (o *Order) IsAddressDraft() bool {
	return len(o.Items) == 0 && o.Status == OrderStatusPending
}
