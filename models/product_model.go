package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SizeStock tracks the remaining inventory for one size label of a product.
type SizeStock struct {
	Size  string `bson:"size" json:"size" validate:"required"`
	Stock int    `bson:"stock" json:"stock" validate:"min=0"`
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Brand       string             `bson:"brand" json:"brand" validate:"required"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price" validate:"required,gt=0"`
	Category    string             `bson:"category" json:"category" validate:"required"`
	Subcategory string             `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Sizes       []SizeStock        `bson:"sizes" json:"sizes" validate:"required,min=1"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	ProductStatusActive     = "Active"
	ProductStatusLimited    = "Limited"
	ProductStatusOutOfStock = "Out of Stock"
)

// limitedStockThreshold is the total stock below which a product is shown as Limited.
const limitedStockThreshold = 15

// StockStatus derives the display status from the total stock across all sizes.
func StockStatus(sizes []SizeStock) string {
	total := 0
	for _, s := range sizes {
		total += s.Stock
	}
	if total == 0 {
		return ProductStatusOutOfStock
	}
	if total < limitedStockThreshold {
		return ProductStatusLimited
	}
	return ProductStatusActive
}

// FindSize returns the stock entry for the given size label, if the product carries it.
func FindSize(sizes []SizeStock, label string) (SizeStock, bool) {
	for _, s := range sizes {
		if s.Size == label {
			return s, true
		}
	}
	return SizeStock{}, false
}
