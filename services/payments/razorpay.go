package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/razorpay/razorpay-go"
)

// Gateway creates remote order objects at the payment provider. The opaque
// id it returns is what the provider later signs during settlement.
type Gateway interface {
	CreateRemoteOrder(ctx context.Context, amount float64, currency, receipt string) (string, error)
}

// RazorpayGateway wraps the Razorpay client behind the Gateway interface.
// Constructed once at startup and injected where needed.
type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *RazorpayGateway) CreateRemoteOrder(ctx context.Context, amount float64, currency, receipt string) (string, error) {
	_ = ctx // the razorpay client does not accept a context

	if currency == "" {
		currency = "INR"
	}

	data := map[string]interface{}{
		"amount":   int64(amount * 100), // smallest currency unit
		"currency": currency,
		"receipt":  receipt,
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay order create: %w", err)
	}

	id, ok := order["id"].(string)
	if !ok {
		return "", fmt.Errorf("razorpay order create: response missing order id")
	}
	return id, nil
}

// NewReceiptID builds a unique receipt reference for a gateway order.
func NewReceiptID(userID string) string {
	return "receipt_" + userID + "_" + uuid.NewString()
}
