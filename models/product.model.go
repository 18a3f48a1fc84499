package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry owned by a single seller.
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Price         float64            `bson:"price" json:"price"`
	OriginalPrice float64            `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	Category      string             `bson:"category" json:"category"`
	Brand         string             `bson:"brand" json:"brand"`
	Seller        primitive.ObjectID `bson:"seller" json:"seller"`
	Image         string             `bson:"image" json:"image"`
	Discount      int                `bson:"discount" json:"discount"`
	Rating        float64            `bson:"rating" json:"rating"`
	Reviews       int                `bson:"reviews" json:"reviews"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ComputeDiscount returns the percentage off originalPrice, rounded half up.
// A zero originalPrice means there is no reference price.
func ComputeDiscount(price, originalPrice float64) int {
	if originalPrice == 0 {
		return 0
	}
	return int(math.Floor((originalPrice-price)/originalPrice*100 + 0.5))
}

// IsOwnedBy reports whether sellerID owns the product.
func (p *Product) IsOwnedBy(sellerID primitive.ObjectID) bool {
	return !sellerID.IsZero() && p.Seller == sellerID
}
