package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique email indexes that back signup and the
// seller index used by the seller dashboard. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	uniqueEmail := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	}

	for _, name := range []string{CustomerCollection, SellerCollection} {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, uniqueEmail); err != nil {
			return fmt.Errorf("creating email index on %s: %w", name, err)
		}
	}

	bySeller := mongo.IndexModel{
		Keys:    bson.D{{Key: "seller", Value: 1}},
		Options: options.Index().SetName("seller"),
	}
	if _, err := db.Collection(ProductCollection).Indexes().CreateOne(ctx, bySeller); err != nil {
		return fmt.Errorf("creating seller index on %s: %w", ProductCollection, err)
	}

	return nil
}
