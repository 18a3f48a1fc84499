package repository

import (
	"context"
	"insta-marketplace/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CustomerCollection = "Customer"
	SellerCollection   = "Seller"
	ProductCollection  = "products"
)

// CustomerRepository persists buyer accounts. Create fails with
// errs.ErrDuplicateEmail when the email is taken; lookups fail with
// errs.ErrNotFound.
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
}

// SellerRepository persists merchant accounts.
type SellerRepository interface {
	Create(ctx context.Context, seller *models.Seller) error
	FindByEmail(ctx context.Context, email string) (*models.Seller, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Seller, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Seller, error)
}

// ProductFilter narrows List. A zero Seller lists every product.
type ProductFilter struct {
	Seller primitive.ObjectID
}

// ProductRepository persists catalog entries.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
