package mocks

import (
	"context"

	"github.com/cinehall/cinehall/internal/domain"
)

type MockCustomerRepo struct {
	domain.CustomerRepository
	GetByIDFunc func(ctx context.Context, id int) (*domain.Customer, error)
	CreateFunc  func(ctx context.Context, customer *domain.Customer) error
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, id int) (*domain.Customer, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockCustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	return m.CreateFunc(ctx, customer)
}
