package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Seller is a merchant account. Every product is owned by exactly one seller.
type Seller struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	BusinessName  string             `bson:"businessName" json:"businessName"`
	ContactPerson string             `bson:"contactPerson" json:"contactPerson"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone" json:"phone"`
	Password      string             `bson:"password" json:"-"`
	Verified      bool               `bson:"verified" json:"verified"`
	Address       string             `bson:"address,omitempty" json:"address,omitempty"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
