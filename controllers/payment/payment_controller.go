package paymentController

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	ordersController "github.com/Ayushpcode/Project/controllers/orders"
	"github.com/Ayushpcode/Project/models"
	"github.com/Ayushpcode/Project/responses"
	"github.com/Ayushpcode/Project/services/checkout"
	"github.com/Ayushpcode/Project/services/payments"
	"github.com/Ayushpcode/Project/services/pricing"
)

type PaymentController struct {
	checkout *checkout.Service
	gateway  payments.Gateway
	keyID    string
	log      *zap.Logger
}

func NewPaymentController(svc *checkout.Service, gateway payments.Gateway, keyID string, log *zap.Logger) *PaymentController {
	return &PaymentController{checkout: svc, gateway: gateway, keyID: keyID, log: log}
}

type CreateOrderRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// VerifyPaymentRequest mirrors the gateway checkout callback plus the
// shipping address collected on the payment page.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string                 `json:"razorpay_order_id"`
	RazorpayPaymentID string                 `json:"razorpay_payment_id"`
	RazorpaySignature string                 `json:"razorpay_signature"`
	TotalPrice        float64                `json:"totalPrice"`
	ShippingAddress   models.ShippingAddress `json:"shippingAddress"`
}

// CreateOrder asks the gateway for a remote order object the client pays
// against. Nothing local is created yet; the order workflow runs at
// verification time.
func (pc *PaymentController) CreateOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}

	if req.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid amount",
			Result:  nil,
		})
	}

	receipt := payments.NewReceiptID(userId)
	remoteOrderID, err := pc.gateway.CreateRemoteOrder(ctx, req.Amount, req.Currency, receipt)
	if err != nil {
		pc.log.Error("gateway order creation failed",
			zap.String("userId", userId),
			zap.Float64("amount", req.Amount),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create payment order",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Payment order created successfully",
		Result: &fiber.Map{
			"razorpayOrderId": remoteOrderID,
			"amount":          req.Amount,
			"currency":        req.Currency,
			"receipt":         receipt,
			"key_id":          pc.keyID,
		},
	})
}

// VerifyPayment runs the full order workflow for the gateway flow: the
// signature gates stock deduction and order creation.
func (pc *PaymentController) VerifyPayment(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, errResp := requireUser(c)
	if errResp != nil {
		return errResp(c)
	}

	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}

	order, err := pc.checkout.PlaceOrder(ctx, userObjectID, checkout.PlacementInput{
		PaymentMethod: models.PaymentMethodRazorpay,
		ClientTotal:   req.TotalPrice,
		Address:       &req.ShippingAddress,
		Payment: &checkout.PaymentDetails{
			GatewayOrderID: req.RazorpayOrderID,
			PaymentID:      req.RazorpayPaymentID,
			Signature:      req.RazorpaySignature,
		},
	})
	if err != nil {
		status, msg := ordersController.PlacementStatus(err)
		if status == fiber.StatusInternalServerError {
			pc.log.Error("payment verification failed",
				zap.String("userId", userObjectID.Hex()),
				zap.String("paymentId", req.RazorpayPaymentID),
				zap.Error(err))
		}
		return c.Status(status).JSON(responses.UserResponse{
			Status:  status,
			Message: msg,
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Payment verified successfully",
		Result: &fiber.Map{
			"order": order,
		},
	})
}

// CheckDiscount reports whether the welcome discount still applies to the
// authenticated user.
func (pc *PaymentController) CheckDiscount(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, errResp := requireUser(c)
	if errResp != nil {
		return errResp(c)
	}

	eligible, err := pc.checkout.FirstOrderEligible(ctx, userObjectID)
	if err != nil {
		pc.log.Error("discount eligibility check failed",
			zap.String("userId", userObjectID.Hex()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal Server Error",
			Result:  nil,
		})
	}

	percent := 0.0
	if eligible {
		percent = pricing.FirstOrderDiscountRate * 100
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Discount eligibility fetched successfully",
		Result: &fiber.Map{
			"eligible":        eligible,
			"discountPercent": percent,
		},
	})
}

func requireUser(c *fiber.Ctx) (primitive.ObjectID, func(*fiber.Ctx) error) {
	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		return primitive.NilObjectID, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "User ID not found in token",
				Result:  nil,
			})
		}
	}
	userObjectID, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return primitive.NilObjectID, func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
				Status:  fiber.StatusUnauthorized,
				Message: "Invalid User ID format",
				Result:  nil,
			})
		}
	}
	return userObjectID, nil
}
