package mocks

import (
	"context"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
)

type MockScreeningRepo struct {
	domain.ScreeningRepository
	GetByIDFunc         func(ctx context.Context, id int) (*domain.Screening, error)
	GetByTimeWindowFunc func(ctx context.Context, from, to *time.Time, pagination domain.Pagination) ([]domain.Screening, *domain.Metadata, error)
}

func (m *MockScreeningRepo) GetByID(ctx context.Context, id int) (*domain.Screening, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockScreeningRepo) GetByTimeWindow(ctx context.Context, from, to *time.Time, pagination domain.Pagination) ([]domain.Screening, *domain.Metadata, error) {
	return m.GetByTimeWindowFunc(ctx, from, to, pagination)
}
