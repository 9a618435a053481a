package customerController

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Ayushpcode/Project/responses"
	"github.com/Ayushpcode/Project/services/customers"
)

type CustomerController struct {
	customers *customers.Service
	log       *zap.Logger
}

func NewCustomerController(svc *customers.Service, log *zap.Logger) *CustomerController {
	return &CustomerController{customers: svc, log: log}
}

func (cc *CustomerController) GetAllCustomers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	summaries, err := cc.customers.ListCustomers(ctx)
	if err != nil {
		cc.log.Error("list customers failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching customers",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Customers fetched successfully",
		Result: &fiber.Map{
			"customers": summaries,
		},
	})
}

func (cc *CustomerController) GetCustomerById(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	customerID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid customer ID format",
			Result:  nil,
		})
	}

	detail, err := cc.customers.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, customers.ErrCustomerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
				Status:  fiber.StatusNotFound,
				Message: "Customer not found",
				Result:  nil,
			})
		}
		cc.log.Error("get customer failed", zap.String("customerId", customerID.Hex()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching customer details",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Customer fetched successfully",
		Result: &fiber.Map{
			"customer": detail,
		},
	})
}

// DeleteCustomer removes the customer and cascades to their orders.
func (cc *CustomerController) DeleteCustomer(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	customerID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid customer ID format",
			Result:  nil,
		})
	}

	if err := cc.customers.DeleteCustomer(ctx, customerID); err != nil {
		if errors.Is(err, customers.ErrCustomerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
				Status:  fiber.StatusNotFound,
				Message: "Customer not found",
				Result:  nil,
			})
		}
		cc.log.Error("delete customer failed", zap.String("customerId", customerID.Hex()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error deleting customer",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Customer and their orders deleted successfully",
		Result:  nil,
	})
}
