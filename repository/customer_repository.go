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
)

type MongoCustomerRepository struct {
	collection *mongo.Collection
}

func NewMongoCustomerRepository(db *mongo.Database) *MongoCustomerRepository {
	return &MongoCustomerRepository{collection: db.Collection(CustomerCollection)}
}

func (r *MongoCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	if customer.ID.IsZero() {
		customer.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, customer)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.ErrDuplicateEmail
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "CreateCustomer").Msg("")
		return err
	}
	return nil
}

func (r *MongoCustomerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.collection.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&customer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "FindCustomerByEmail").Msg("")
		return nil, err
	}
	return &customer, nil
}
