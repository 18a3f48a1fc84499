package repository

import (
	"context"
	"insta-marketplace/errs"
	"insta-marketplace/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoCustomerRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns id and timestamps", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoCustomerRepository(mt.DB)

		customer := &models.Customer{Name: "Ada", Email: "ada@x.com", Password: "hash"}
		require.NoError(mt, repo.Create(context.Background(), customer))
		assert.False(mt, customer.ID.IsZero())
		assert.False(mt, customer.CreatedAt.IsZero())
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: instaseller.Customer index: email_unique",
		}))
		repo := NewMongoCustomerRepository(mt.DB)

		err := repo.Create(context.Background(), &models.Customer{Email: "ada@x.com"})
		assert.ErrorIs(mt, err, errs.ErrDuplicateEmail)
	})

	mt.Run("find by email", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "instaseller.Customer", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Ada"},
			{Key: "email", Value: "ada@x.com"},
			{Key: "password", Value: "hash"},
		}))
		repo := NewMongoCustomerRepository(mt.DB)

		customer, err := repo.FindByEmail(context.Background(), "ada@x.com")
		require.NoError(mt, err)
		assert.Equal(mt, id, customer.ID)
		assert.Equal(mt, "hash", customer.Password)
	})

	mt.Run("find by email misses", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "instaseller.Customer", mtest.FirstBatch))
		repo := NewMongoCustomerRepository(mt.DB)

		_, err := repo.FindByEmail(context.Background(), "nobody@x.com")
		assert.ErrorIs(mt, err, errs.ErrNotFound)
	})
}

func TestMongoSellerRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))
		repo := NewMongoSellerRepository(mt.DB)

		err := repo.Create(context.Background(), &models.Seller{Email: "acme@x.com"})
		assert.ErrorIs(mt, err, errs.ErrDuplicateEmail)
	})

	mt.Run("find by ids", func(mt *mtest.T) {
		a, b := primitive.NewObjectID(), primitive.NewObjectID()
		first := mtest.CreateCursorResponse(1, "instaseller.Seller", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: a}, {Key: "businessName", Value: "Acme"}},
		)
		second := mtest.CreateCursorResponse(1, "instaseller.Seller", mtest.NextBatch,
			bson.D{{Key: "_id", Value: b}, {Key: "businessName", Value: "Globex"}},
		)
		done := mtest.CreateCursorResponse(0, "instaseller.Seller", mtest.NextBatch)
		mt.AddMockResponses(first, second, done)
		repo := NewMongoSellerRepository(mt.DB)

		sellers, err := repo.FindByIDs(context.Background(), []primitive.ObjectID{a, b})
		require.NoError(mt, err)
		assert.Len(mt, sellers, 2)
		assert.Equal(mt, "Acme", sellers[a].BusinessName)
		assert.Equal(mt, "Globex", sellers[b].BusinessName)
	})

	mt.Run("find by ids with no ids skips the query", func(mt *mtest.T) {
		repo := NewMongoSellerRepository(mt.DB)

		sellers, err := repo.FindByIDs(context.Background(), nil)
		require.NoError(mt, err)
		assert.Empty(mt, sellers)
	})

	mt.Run("find by id misses", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "instaseller.Seller", mtest.FirstBatch))
		repo := NewMongoSellerRepository(mt.DB)

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, errs.ErrNotFound)
	})
}

func TestMongoProductRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list", func(mt *mtest.T) {
		seller := primitive.NewObjectID()
		first := mtest.CreateCursorResponse(1, "instaseller.products", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "Lamp"}, {Key: "price", Value: 100.0}, {Key: "seller", Value: seller}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "title", Value: "Rug"}, {Key: "price", Value: 250.0}, {Key: "seller", Value: seller}},
		)
		done := mtest.CreateCursorResponse(0, "instaseller.products", mtest.NextBatch)
		mt.AddMockResponses(first, done)
		repo := NewMongoProductRepository(mt.DB)

		products, err := repo.List(context.Background(), ProductFilter{Seller: seller})
		require.NoError(mt, err)
		require.Len(mt, products, 2)
		assert.Equal(mt, "Lamp", products[0].Title)
		assert.Equal(mt, 250.0, products[1].Price)
	})

	mt.Run("list empty is not nil", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "instaseller.products", mtest.FirstBatch))
		repo := NewMongoProductRepository(mt.DB)

		products, err := repo.List(context.Background(), ProductFilter{})
		require.NoError(mt, err)
		assert.NotNil(mt, products)
		assert.Empty(mt, products)
	})

	mt.Run("update missing product", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})
		repo := NewMongoProductRepository(mt.DB)

		err := repo.Update(context.Background(), &models.Product{ID: primitive.NewObjectID()})
		assert.ErrorIs(mt, err, errs.ErrNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "acknowledged", Value: true}, {Key: "n", Value: 1}})
		repo := NewMongoProductRepository(mt.DB)

		assert.NoError(mt, repo.Delete(context.Background(), primitive.NewObjectID()))
	})

	mt.Run("delete missing product", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "acknowledged", Value: true}, {Key: "n", Value: 0}})
		repo := NewMongoProductRepository(mt.DB)

		err := repo.Delete(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, errs.ErrNotFound)
	})

	mt.Run("find by id surfaces driver errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad value",
		}))
		repo := NewMongoProductRepository(mt.DB)

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, errs.ErrNotFound)
	})
}
