package repository

import (
	"context"
	"insta-marketplace/errs"
	"insta-marketplace/models"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps every collection in process memory. It honours the
// same uniqueness and not-found contracts as the Mongo repositories and is
// selected with DB_DRIVER=memory.
type MemoryStore struct {
	mu        sync.RWMutex
	customers map[string]models.Customer // by email
	sellers   map[primitive.ObjectID]models.Seller
	emails    map[string]primitive.ObjectID // seller email -> id
	products  map[primitive.ObjectID]models.Product
	order     []primitive.ObjectID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers: map[string]models.Customer{},
		sellers:   map[primitive.ObjectID]models.Seller{},
		emails:    map[string]primitive.ObjectID{},
		products:  map[primitive.ObjectID]models.Product{},
	}
}

func (s *MemoryStore) Customers() CustomerRepository { return memoryCustomers{s} }

func (s *MemoryStore) Sellers() SellerRepository { return memorySellers{s} }

func (s *MemoryStore) Products() ProductRepository { return memoryProducts{s} }

type memoryCustomers struct{ s *MemoryStore }

func (m memoryCustomers) Create(ctx context.Context, customer *models.Customer) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, taken := m.s.customers[customer.Email]; taken {
		return errs.ErrDuplicateEmail
	}
	now := time.Now().UTC()
	customer.CreatedAt, customer.UpdatedAt = now, now
	if customer.ID.IsZero() {
		customer.ID = primitive.NewObjectID()
	}
	m.s.customers[customer.Email] = *customer
	return nil
}

func (m memoryCustomers) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	customer, ok := m.s.customers[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &customer, nil
}

type memorySellers struct{ s *MemoryStore }

func (m memorySellers) Create(ctx context.Context, seller *models.Seller) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, taken := m.s.emails[seller.Email]; taken {
		return errs.ErrDuplicateEmail
	}
	now := time.Now().UTC()
	seller.CreatedAt, seller.UpdatedAt = now, now
	if seller.ID.IsZero() {
		seller.ID = primitive.NewObjectID()
	}
	m.s.sellers[seller.ID] = *seller
	m.s.emails[seller.Email] = seller.ID
	return nil
}

func (m memorySellers) FindByEmail(ctx context.Context, email string) (*models.Seller, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	id, ok := m.s.emails[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	seller := m.s.sellers[id]
	return &seller, nil
}

func (m memorySellers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Seller, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	seller, ok := m.s.sellers[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &seller, nil
}

func (m memorySellers) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Seller, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	out := make(map[primitive.ObjectID]models.Seller, len(ids))
	for _, id := range ids {
		if seller, ok := m.s.sellers[id]; ok {
			out[id] = seller
		}
	}
	return out, nil
}

type memoryProducts struct{ s *MemoryStore }

func (m memoryProducts) Create(ctx context.Context, product *models.Product) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	now := time.Now().UTC()
	product.CreatedAt, product.UpdatedAt = now, now
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	m.s.products[product.ID] = *product
	m.s.order = append(m.s.order, product.ID)
	return nil
}

func (m memoryProducts) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	products := []models.Product{}
	for _, id := range m.s.order {
		p := m.s.products[id]
		if !filter.Seller.IsZero() && p.Seller != filter.Seller {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

func (m memoryProducts) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	p, ok := m.s.products[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &p, nil
}

func (m memoryProducts) Update(ctx context.Context, product *models.Product) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	stored, ok := m.s.products[product.ID]
	if !ok {
		return errs.ErrNotFound
	}
	product.UpdatedAt = time.Now().UTC()
	product.CreatedAt = stored.CreatedAt
	product.Seller = stored.Seller
	product.Rating = stored.Rating
	product.Reviews = stored.Reviews
	m.s.products[product.ID] = *product
	return nil
}

func (m memoryProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.products[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.s.products, id)
	for i, existing := range m.s.order {
		if existing == id {
			m.s.order = append(m.s.order[:i], m.s.order[i+1:]...)
			break
		}
	}
	return nil
}
