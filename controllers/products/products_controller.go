package controllers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Ayushpcode/Project/models"
	"github.com/Ayushpcode/Project/responses"
)

// ProductController serves the catalog. Stock mutation during checkout
// belongs to the order workflow; this controller only handles admin edits
// and browsing.
type ProductController struct {
	products *mongo.Collection
	log      *zap.Logger
}

func NewProductController(products *mongo.Collection, log *zap.Logger) *ProductController {
	return &ProductController{products: products, log: log}
}

// Only for admin
func (pc *ProductController) AddProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Error parsing product data",
			Result:  nil,
		})
	}

	if msg := validateProduct(&product); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: msg,
			Result:  nil,
		})
	}

	now := time.Now()
	product.ID = primitive.NilObjectID
	product.Category = strings.ToLower(product.Category)
	product.Status = models.StockStatus(product.Sizes)
	product.CreatedAt = now
	product.UpdatedAt = now

	result, err := pc.products.InsertOne(ctx, product)
	if err != nil {
		pc.log.Error("insert product failed", zap.String("name", product.Name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error inserting product",
			Result:  nil,
		})
	}
	product.ID = result.InsertedID.(primitive.ObjectID)

	return c.Status(fiber.StatusCreated).JSON(responses.UserResponse{
		Status:  fiber.StatusCreated,
		Message: "Product added successfully",
		Result: &fiber.Map{
			"product": product,
		},
	})
}

func (pc *ProductController) GetAllProducts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
	if err != nil || limit < 1 {
		limit = 10
	}

	filter := bson.M{}
	if category := c.Query("category"); category != "" {
		filter["category"] = strings.ToLower(category)
	}

	totalProducts, err := pc.products.CountDocuments(ctx, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error counting products",
			Result:  nil,
		})
	}

	findOptions := options.Find()
	findOptions.SetSkip((page - 1) * limit)
	findOptions.SetLimit(limit)

	cursor, err := pc.products.Find(ctx, filter, findOptions)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching products",
			Result:  nil,
		})
	}

	var products []models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error parsing products",
			Result:  nil,
		})
	}
	totalPages := (totalProducts + limit - 1) / limit

	status := "success"
	if len(products) == 0 {
		status = "no more products"
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Fetched Products",
		Result: &fiber.Map{
			"status":        status,
			"currentPage":   page,
			"totalPages":    totalPages,
			"totalProducts": totalProducts,
			"products":      products,
		},
	})
}

func (pc *ProductController) GetProductById(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	objectId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product ID format",
			Result:  nil,
		})
	}

	var product models.Product
	err = pc.products.FindOne(ctx, bson.M{"_id": objectId}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "Product not found",
			Result:  nil,
		})
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching product details",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Product fetched successfully",
		Result: &fiber.Map{
			"product": product,
		},
	})
}

// UpdateProductRequest holds the optional fields an admin may change.
type UpdateProductRequest struct {
	Name        *string            `json:"name"`
	Brand       *string            `json:"brand"`
	Description *string            `json:"description"`
	Price       *float64           `json:"price"`
	Category    *string            `json:"category"`
	Subcategory *string            `json:"subcategory"`
	Image       *string            `json:"image"`
	Sizes       []models.SizeStock `json:"sizes"`
}

func (pc *ProductController) UpdateProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	objectId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product ID format",
			Result:  nil,
		})
	}

	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Error parsing product data",
			Result:  nil,
		})
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Brand != nil {
		set["brand"] = *req.Brand
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.Category != nil {
		set["category"] = strings.ToLower(*req.Category)
	}
	if req.Subcategory != nil {
		set["subcategory"] = *req.Subcategory
	}
	if req.Image != nil {
		set["image"] = *req.Image
	}
	if req.Sizes != nil {
		for _, s := range req.Sizes {
			if s.Size == "" || s.Stock < 0 {
				return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
					Status:  fiber.StatusBadRequest,
					Message: "Invalid sizes format",
					Result:  nil,
				})
			}
		}
		set["sizes"] = req.Sizes
		// Sizes changed, so the derived status changes with them.
		set["status"] = models.StockStatus(req.Sizes)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product models.Product
	err = pc.products.FindOneAndUpdate(ctx, bson.M{"_id": objectId}, bson.M{"$set": set}, opts).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "Product not found",
			Result:  nil,
		})
	} else if err != nil {
		pc.log.Error("update product failed", zap.String("productId", objectId.Hex()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error updating product",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Product updated successfully",
		Result: &fiber.Map{
			"product": product,
		},
	})
}

// CheckProductExists lets the storefront drop stale cart entries without
// fetching the whole product.
func (pc *ProductController) CheckProductExists(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	objectId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product ID format",
			Result:  nil,
		})
	}

	count, err := pc.products.CountDocuments(ctx, bson.M{"_id": objectId})
	if err != nil {
		pc.log.Error("product existence check failed", zap.String("productId", objectId.Hex()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error checking product",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Product existence checked",
		Result: &fiber.Map{
			"exists": count > 0,
		},
	})
}

func (pc *ProductController) DeleteProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	objectId, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product ID format",
			Result:  nil,
		})
	}

	result, err := pc.products.DeleteOne(ctx, bson.M{"_id": objectId})
	if err != nil {
		pc.log.Error("delete product failed", zap.String("productId", objectId.Hex()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error deleting product",
			Result:  nil,
		})
	}
	if result.DeletedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "Product not found",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Product deleted successfully",
		Result:  nil,
	})
}

func validateProduct(p *models.Product) string {
	switch {
	case p.Name == "":
		return "Required field missing: name"
	case p.Brand == "":
		return "Required field missing: brand"
	case p.Price <= 0:
		return "Required field missing: price"
	case p.Category == "":
		return "Required field missing: category"
	case len(p.Sizes) == 0:
		return "Sizes array is required"
	}
	for _, s := range p.Sizes {
		if s.Size == "" || s.Stock < 0 {
			return "Invalid sizes format"
		}
	}
	return ""
}
