package repository

import (
	"context"
	"insta-marketplace/errs"
	"insta-marketplace/models"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryCustomersRejectDuplicateEmail(t *testing.T) {
	customers := NewMemoryStore().Customers()
	ctx := context.Background()

	require.NoError(t, customers.Create(ctx, &models.Customer{Name: "Ada", Email: "ada@x.com"}))
	err := customers.Create(ctx, &models.Customer{Name: "Ada 2", Email: "ada@x.com"})
	assert.ErrorIs(t, err, errs.ErrDuplicateEmail)

	found, err := customers.FindByEmail(ctx, "ada@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", found.Name)

	_, err = customers.FindByEmail(ctx, "ADA@x.com")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestMemorySellersConcurrentSignupSingleWinner(t *testing.T) {
	sellers := NewMemoryStore().Sellers()
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- sellers.Create(ctx, &models.Seller{BusinessName: "Acme", Email: "acme@x.com"})
		}()
	}
	wg.Wait()
	close(results)

	var ok, dup int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, errs.ErrDuplicateEmail):
			dup++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 19, dup)
}

func TestMemoryProducts(t *testing.T) {
	store := NewMemoryStore()
	products := store.Products()
	ctx := context.Background()
	acme, globex := primitive.NewObjectID(), primitive.NewObjectID()

	lamp := &models.Product{Title: "Lamp", Seller: acme}
	rug := &models.Product{Title: "Rug", Seller: globex}
	vase := &models.Product{Title: "Vase", Seller: acme}
	for _, p := range []*models.Product{lamp, rug, vase} {
		require.NoError(t, products.Create(ctx, p))
	}

	all, err := products.List(ctx, ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Lamp", all[0].Title)
	assert.Equal(t, "Vase", all[2].Title)

	mine, err := products.List(ctx, ProductFilter{Seller: acme})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	lamp.Title = "Desk lamp"
	lamp.Seller = globex
	require.NoError(t, products.Update(ctx, lamp))
	stored, err := products.FindByID(ctx, lamp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk lamp", stored.Title)
	assert.Equal(t, acme, stored.Seller)

	require.NoError(t, products.Delete(ctx, rug.ID))
	assert.ErrorIs(t, products.Delete(ctx, rug.ID), errs.ErrNotFound)
	_, err = products.FindByID(ctx, rug.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	all, err = products.List(ctx, ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
