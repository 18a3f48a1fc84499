package repository

import (
	"context"
	"insta-marketplace/errs"
	"insta-marketplace/models"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{collection: db.Collection(ProductCollection)}
}

func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "CreateProduct").Msg("")
		return err
	}
	return nil
}

// List returns products in insertion order.
func (r *MongoProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := bson.D{}
	if !filter.Seller.IsZero() {
		query = append(query, bson.E{Key: "seller", Value: filter.Seller})
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ListProducts").Msg("")
		return nil, err
	}

	products := []models.Product{}
	if err = cursor.All(ctx, &products); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "ListProducts").Msg("")
		return nil, err
	}
	return products, nil
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "FindProductByID").Msg("")
		return nil, err
	}
	return &product, nil
}

// Update rewrites the mutable fields of product. Ownership and creation
// time are never changed.
func (r *MongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now().UTC()

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: product.Title},
		{Key: "description", Value: product.Description},
		{Key: "price", Value: product.Price},
		{Key: "originalPrice", Value: product.OriginalPrice},
		{Key: "quantity", Value: product.Quantity},
		{Key: "category", Value: product.Category},
		{Key: "brand", Value: product.Brand},
		{Key: "image", Value: product.Image},
		{Key: "discount", Value: product.Discount},
		{Key: "updatedAt", Value: product.UpdatedAt},
	}}}

	result, err := r.collection.UpdateOne(ctx, bson.D{{Key: "_id", Value: product.ID}}, update)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "UpdateProduct").Msg("Failed to update product")
		return err
	}

	if result.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return err
	}

	if result.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}
