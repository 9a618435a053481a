package cartController

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/Ayushpcode/Project/models"
	"github.com/Ayushpcode/Project/responses"
)

// CartController mutates cart documents directly. Carts never hold prices;
// every read resolves lines against the live product catalog so the client
// always sees current name, price and image.
type CartController struct {
	carts    *mongo.Collection
	products *mongo.Collection
	log      *zap.Logger
}

func NewCartController(carts, products *mongo.Collection, log *zap.Logger) *CartController {
	return &CartController{carts: carts, products: products, log: log}
}

type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

// ResolvedCartItem is a cart line joined with its product for display.
type ResolvedCartItem struct {
	ProductID primitive.ObjectID `json:"productId"`
	Name      string             `json:"name"`
	Price     float64            `json:"price"`
	Image     string             `json:"image"`
	Size      string             `json:"size"`
	Quantity  int                `json:"quantity"`
	Subtotal  float64            `json:"subtotal"`
}

func (cc *CartController) AddToCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, errResp := requireUser(c)
	if errResp != nil {
		return errResp(c)
	}

	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	if req.Size == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Size is required",
			Result:  nil,
		})
	}

	productObjectID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product ID format",
			Result:  nil,
		})
	}

	var product models.Product
	err = cc.products.FindOne(ctx, bson.M{"_id": productObjectID}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "Product not found",
			Result:  nil,
		})
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching product",
			Result:  nil,
		})
	}
	if _, ok := models.FindSize(product.Sizes, req.Size); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Selected size is not available for this product",
			Result:  nil,
		})
	}

	cart, err := cc.loadCart(ctx, userObjectID)
	if err != nil {
		return cc.cartError(c, "load cart failed", userObjectID, err)
	}
	if cart == nil {
		// Lazy creation on the first add.
		cart = &models.Cart{
			UserID: userObjectID,
			Lines:  []models.CartLine{},
		}
	}

	if i := cart.FindLine(productObjectID, req.Size); i >= 0 {
		cart.Lines[i].Quantity += req.Quantity
	} else {
		cart.Lines = append(cart.Lines, models.CartLine{
			ProductID: productObjectID,
			Quantity:  req.Quantity,
			Size:      req.Size,
		})
	}

	if err := cc.saveCart(ctx, cart); err != nil {
		return cc.cartError(c, "save cart failed", userObjectID, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Product added to cart",
		Result: &fiber.Map{
			"cart": cart,
		},
	})
}

// GetCart returns the cart with each line resolved against the catalog.
// Lines whose product was deleted are skipped rather than failing the read.
func (cc *CartController) GetCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, errResp := requireUser(c)
	if errResp != nil {
		return errResp(c)
	}

	cart, err := cc.loadCart(ctx, userObjectID)
	if err != nil {
		return cc.cartError(c, "load cart failed", userObjectID, err)
	}

	items := []ResolvedCartItem{}
	var totalPrice float64
	if cart != nil {
		for _, line := range cart.Lines {
			var product models.Product
			err := cc.products.FindOne(ctx, bson.M{"_id": line.ProductID}).Decode(&product)
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			} else if err != nil {
				return cc.cartError(c, "resolve cart line failed", userObjectID, err)
			}
			subtotal := product.Price * float64(line.Quantity)
			items = append(items, ResolvedCartItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Image:     product.Image,
				Size:      line.Size,
				Quantity:  line.Quantity,
				Subtotal:  subtotal,
			})
			totalPrice += subtotal
		}
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Cart fetched successfully",
		Result: &fiber.Map{
			"items":      items,
			"totalPrice": totalPrice,
		},
	})
}

func (cc *CartController) RemoveFromCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, errResp := requireUser(c)
	if errResp != nil {
		return errResp(c)
	}

	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}
	productObjectID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product ID format",
			Result:  nil,
		})
	}

	cart, err := cc.loadCart(ctx, userObjectID)
	if err != nil {
		return cc.cartError(c, "load cart failed", userObjectID, err)
	}
	if cart == nil {
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "Cart not found",
			Result:  nil,
		})
	}

	i := cart.FindLine(productObjectID, req.Size)
	if i < 0 {
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "Item not found in cart",
			Result:  nil,
		})
	}
	cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)

	if err := cc.saveCart(ctx, cart); err != nil {
		return cc.cartError(c, "save cart failed", userObjectID, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Item removed from cart",
		Result: &fiber.Map{
			"cart": cart,
		},
	})
}

func (cc *CartController) UpdateQuantity(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, errResp := requireUser(c)
	if errResp != nil {
		return errResp(c)
	}

	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}
	if req.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Quantity must be at least 1",
			Result:  nil,
		})
	}
	productObjectID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product ID format",
			Result:  nil,
		})
	}

	cart, err := cc.loadCart(ctx, userObjectID)
	if err != nil {
		return cc.cartError(c, "load cart failed", userObjectID, err)
	}
	if cart == nil {
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "Cart not found",
			Result:  nil,
		})
	}

	i := cart.FindLine(productObjectID, req.Size)
	if i < 0 {
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "Item not found in cart",
			Result:  nil,
		})
	}
	cart.Lines[i].Quantity = req.Quantity

	if err := cc.saveCart(ctx, cart); err != nil {
		return cc.cartError(c, "save cart failed", userObjectID, err)
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Quantity updated",
		Result: &fiber.Map{
			"cart": cart,
		},
	})
}

func (cc *CartController) loadCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := cc.carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (cc *CartController) saveCart(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()
	if cart.ID.IsZero() {
		result, err := cc.carts.InsertOne(ctx, cart)
		if err != nil {
			return err
		}
		cart.ID = result.InsertedID.(primitive.ObjectID)
		return nil
	}
	_, err := cc.carts.UpdateOne(ctx, bson.M{"_id": cart.ID}, bson.M{"$set": bson.M{
		"products":  cart.Lines,
		"updatedAt": cart.UpdatedAt,
	}})
	return err
}

func (cc *CartController) cartError(c *fiber.Ctx, msg string, userID primitive.ObjectID, err error) error {
	cc.log.Error(msg, zap.String("userId", userID.Hex()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
		Status:  fiber.StatusInternalServerError,
		Message: "Internal Server Error",
		Result:  nil,
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
