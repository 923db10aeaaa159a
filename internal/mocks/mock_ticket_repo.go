package mocks

import (
	"context"

	"github.com/cinehall/cinehall/internal/domain"
)

type MockTicketRepo struct {
	domain.TicketRepository
	GetDetailFunc     func(ctx context.Context, id int) (*domain.TicketDetail, error)
	GetByCustomerFunc func(ctx context.Context, customerID int) ([]domain.Ticket, error)
}

func (m *MockTicketRepo) GetDetail(ctx context.Context, id int) (*domain.TicketDetail, error) {
	return m.GetDetailFunc(ctx, id)
}

func (m *MockTicketRepo) GetByCustomer(ctx context.Context, customerID int) ([]domain.Ticket, error) {
	return m.GetByCustomerFunc(ctx, customerID)
}
