package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Ayushpcode/Project/models"
	"github.com/Ayushpcode/Project/responses"
	"github.com/Ayushpcode/Project/services/checkout"
)

type OrderController struct {
	checkout *checkout.Service
	log      *zap.Logger
}

func NewOrderController(svc *checkout.Service, log *zap.Logger) *OrderController {
	return &OrderController{checkout: svc, log: log}
}

// PlaceCODOrderRequest carries the client's advisory total, used only to
// log display drift. The server total is authoritative.
type PlaceCODOrderRequest struct {
	TotalPrice float64 `json:"totalPrice"`
}

func (oc *OrderController) SaveShippingAddress(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, errResp := requireUser(c)
	if errResp != nil {
		return errResp(c)
	}

	var addr models.ShippingAddress
	if err := c.BodyParser(&addr); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}

	draft, err := oc.checkout.SaveShippingAddress(ctx, userObjectID, addr)
	if err != nil {
		var ve *checkout.ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
				Status:  fiber.StatusBadRequest,
				Message: "All required address fields must be provided: " + ve.Field,
				Result:  nil,
			})
		}
		oc.log.Error("save shipping address failed", zap.String("userId", userObjectID.Hex()), zap.Error(err))
		return serverError(c)
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Shipping address saved successfully",
		Result: &fiber.Map{
			"shippingAddress": draft.ShippingAddress,
		},
	})
}

func (oc *OrderController) PlaceCODOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, errResp := requireUser(c)
	if errResp != nil {
		return errResp(c)
	}

	var req PlaceCODOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}

	order, err := oc.checkout.PlaceOrder(ctx, userObjectID, checkout.PlacementInput{
		PaymentMethod: models.PaymentMethodCOD,
		ClientTotal:   req.TotalPrice,
	})
	if err != nil {
		return oc.placementError(c, userObjectID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(responses.UserResponse{
		Status:  fiber.StatusCreated,
		Message: "COD order placed successfully",
		Result: &fiber.Map{
			"order": order,
		},
	})
}

func (oc *OrderController) GetMyOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, errResp := requireUser(c)
	if errResp != nil {
		return errResp(c)
	}

	orders, err := oc.checkout.ListUserOrders(ctx, userObjectID)
	if err != nil {
		oc.log.Error("list user orders failed", zap.String("userId", userObjectID.Hex()), zap.Error(err))
		return serverError(c)
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "User orders fetched successfully",
		Result: &fiber.Map{
			"totalOrders": len(orders),
			"orders":      orders,
		},
	})
}

// GetAllOrders lists every placed order for the admin dashboard.
func (oc *OrderController) GetAllOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	orders, err := oc.checkout.ListAllOrders(ctx)
	if err != nil {
		oc.log.Error("list all orders failed", zap.Error(err))
		return serverError(c)
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "All orders fetched successfully",
		Result: &fiber.Map{
			"totalOrders": len(orders),
			"orders":      orders,
		},
	})
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (oc *OrderController) UpdateOrderStatus(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	orderObjectID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid order ID format",
			Result:  nil,
		})
	}

	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}

	if err := oc.checkout.UpdateOrderStatus(ctx, orderObjectID, req.Status); err != nil {
		switch {
		case errors.Is(err, checkout.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Invalid status value",
				Result:  nil,
			})
		case errors.Is(err, checkout.ErrOrderNotFound):
			return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
				Status:  fiber.StatusNotFound,
				Message: "Order not found",
				Result:  nil,
			})
		}
		oc.log.Error("update order status failed", zap.String("orderId", orderObjectID.Hex()), zap.Error(err))
		return serverError(c)
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Order status updated to " + req.Status,
		Result: &fiber.Map{
			"orderId": orderObjectID.Hex(),
			"status":  req.Status,
		},
	})
}

func (oc *OrderController) placementError(c *fiber.Ctx, userID primitive.ObjectID, err error) error {
	status, msg := PlacementStatus(err)
	if status == fiber.StatusInternalServerError {
		oc.log.Error("order placement failed",
			zap.String("userId", userID.Hex()),
			zap.Error(err))
	}
	return c.Status(status).JSON(responses.UserResponse{
		Status:  status,
		Message: msg,
		Result:  nil,
	})
}

// PlacementStatus maps workflow errors onto HTTP statuses and messages the
// storefront understands. Unknown errors stay generic so internals never
// leak to the client.
func PlacementStatus(err error) (int, string) {
	var oos *checkout.OutOfStockError
	var ve *checkout.ValidationError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return fiber.StatusBadRequest, "Cart is empty. Cannot place order."
	case errors.Is(err, checkout.ErrMissingAddress):
		return fiber.StatusBadRequest, "No saved address found"
	case errors.Is(err, checkout.ErrProductNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, checkout.ErrSizeNotFound):
		return fiber.StatusBadRequest, err.Error()
	case errors.As(err, &oos):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, checkout.ErrInvalidSignature):
		return fiber.StatusBadRequest, "Invalid payment signature"
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, err.Error()
	}
	return fiber.StatusInternalServerError, "Server error while placing order"
}

// requireUser resolves the authenticated user id set by the auth
// middleware. The second return is non-nil when the request must be
// rejected.
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

func serverError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
		Status:  fiber.StatusInternalServerError,
		Message: "Internal Server Error",
		Result:  nil,
	})
}
