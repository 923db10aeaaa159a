package mocks

import (
	"context"

	"github.com/cinehall/cinehall/internal/domain"
)

type MockShowroomRepo struct {
	domain.ShowroomRepository
	GetAllFunc  func(ctx context.Context) ([]domain.Showroom, error)
	GetByIDFunc func(ctx context.Context, id int) (*domain.Showroom, error)
}

func (m *MockShowroomRepo) GetAll(ctx context.Context) ([]domain.Showroom, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockShowroomRepo) GetByID(ctx context.Context, id int) (*domain.Showroom, error) {
	return m.GetByIDFunc(ctx, id)
}
