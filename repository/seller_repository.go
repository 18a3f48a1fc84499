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

type MongoSellerRepository struct {
	collection *mongo.Collection
}

func NewMongoSellerRepository(db *mongo.Database) *MongoSellerRepository {
	return &MongoSellerRepository{collection: db.Collection(SellerCollection)}
}

func (r *MongoSellerRepository) Create(ctx context.Context, seller *models.Seller) error {
	now := time.Now().UTC()
	seller.CreatedAt = now
	seller.UpdatedAt = now
	if seller.ID.IsZero() {
		seller.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, seller)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.ErrDuplicateEmail
		}
		log.Ctx(ctx).Error().Err(err).Str("component", "CreateSeller").Msg("")
		return err
	}
	return nil
}

func (r *MongoSellerRepository) FindByEmail(ctx context.Context, email string) (*models.Seller, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}}, "FindSellerByEmail")
}

func (r *MongoSellerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Seller, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}}, "FindSellerByID")
}

func (r *MongoSellerRepository) findOne(ctx context.Context, filter bson.D, component string) (*models.Seller, error) {
	var seller models.Seller
	err := r.collection.FindOne(ctx, filter).Decode(&seller)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errs.ErrNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str("component", component).Msg("")
		return nil, err
	}
	return &seller, nil
}

// FindByIDs loads the sellers referenced by a page of products. Unknown
// ids are simply absent from the result.
func (r *MongoSellerRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Seller, error) {
	sellers := make(map[primitive.ObjectID]models.Seller, len(ids))
	if len(ids) == 0 {
		return sellers, nil
	}

	cursor, err := r.collection.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "FindSellersByIDs").Msg("")
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var seller models.Seller
		if err := cursor.Decode(&seller); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "FindSellersByIDs").Msg("")
			return nil, err
		}
		sellers[seller.ID] = seller
	}

	if err := cursor.Err(); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "FindSellersByIDs").Msg("")
		return nil, err
	}
	return sellers, nil
}
