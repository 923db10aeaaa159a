package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/shopspring/decimal"
)

// LayoutService owns showrooms and their physical seat grids.
type LayoutService struct {
	logger        *slog.Logger
	tx            domain.TxManager
	showrooms     domain.ShowroomRepository
	showroomSeats domain.ShowroomSeatRepository
	screenings    domain.ScreeningRepository
	tickets       domain.TicketRepository
	customers     domain.CustomerRepository
	cascade       *CascadeCoordinator
}

func NewLayoutService(
	logger *slog.Logger,
	tx domain.TxManager,
	showrooms domain.ShowroomRepository,
	showroomSeats domain.ShowroomSeatRepository,
	screenings domain.ScreeningRepository,
	tickets domain.TicketRepository,
	customers domain.CustomerRepository,
	cascade *CascadeCoordinator,
) *LayoutService {
	return &LayoutService{
		logger:        logger,
		tx:            tx,
		showrooms:     showrooms,
		showroomSeats: showroomSeats,
		screenings:    screenings,
		tickets:       tickets,
		customers:     customers,
		cascade:       cascade,
	}
}

// CreateShowroom creates the showroom and its rows*seatsPerRow seats in one
// transaction. Row letters run A..Z from row 0; seat numbers run 1..seatsPerRow.
func (s *LayoutService) CreateShowroom(ctx context.Context, letter string, rows, seatsPerRow int) (int, error) {
	var violations []string
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		violations = append(violations, "showroom letter must be a single letter A-Z")
	}
	if rows < 1 {
		violations = append(violations, "number of rows cannot be zero")
	}
	if rows > domain.MaxShowroomRows {
		violations = append(violations, fmt.Sprintf("number of rows cannot exceed %d", domain.MaxShowroomRows))
	}
	if seatsPerRow < 1 {
		violations = append(violations, "number of seats per row cannot be zero")
	}
	if seatsPerRow > domain.MaxSeatsPerRow {
		violations = append(violations, fmt.Sprintf("number of seats per row cannot exceed %d", domain.MaxSeatsPerRow))
	}
	if len(violations) > 0 {
		return 0, domain.NewValidationError(violations...)
	}

	exists, err := s.showrooms.ExistsByLetter(ctx, letter)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, domain.NewClashError("showroom with room letter %s already exists", letter)
	}

	var showroomID int

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		showroom := &domain.Showroom{
			Letter:      letter,
			Rows:        rows,
			SeatsPerRow: seatsPerRow,
		}
		if err := s.showrooms.Create(ctx, showroom); err != nil {
			return err
		}

		seats := make([]domain.ShowroomSeat, 0, rows*seatsPerRow)
		for row := 0; row < rows; row++ {
			for num := 1; num <= seatsPerRow; num++ {
				seats = append(seats, domain.ShowroomSeat{
					ShowroomID: showroom.ID,
					RowLetter:  domain.RowLetter(row),
					SeatNumber: num,
				})
			}
		}
		if err := s.showroomSeats.CreateBatch(ctx, seats); err != nil {
			return err
		}

		showroomID = showroom.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("created showroom", "letter", letter, "rows", rows, "seats_per_row", seatsPerRow)

	return showroomID, nil
}

// SeatsOf returns the showroom's seats ordered by (row letter, seat number).
// Per-screening seats are instantiated in exactly this order.
func (s *LayoutService) SeatsOf(ctx context.Context, showroomID int) ([]domain.ShowroomSeat, error) {
	if _, err := s.showrooms.GetByID(ctx, showroomID); err != nil {
		return nil, err
	}
	return s.showroomSeats.GetByShowroom(ctx, showroomID)
}

func (s *LayoutService) ShowroomByLetter(ctx context.Context, letter string) (*domain.Showroom, error) {
	return s.showrooms.GetByLetter(ctx, letter)
}

func (s *LayoutService) Showrooms(ctx context.Context) ([]domain.Showroom, error) {
	return s.showrooms.GetAll(ctx)
}

// DeletionImpact summarizes what tearing down a showroom or screening costs
// before it happens.
type DeletionImpact struct {
	SeatsToDelete      int
	ScreeningsToDelete int
	TicketsToRefund    int
	RefundTotal        decimal.Decimal
}

// ShowroomDeletionImpact reports the blast radius of deleting the showroom.
func (s *LayoutService) ShowroomDeletionImpact(ctx context.Context, showroomID int) (*DeletionImpact, error) {
	if _, err := s.showrooms.GetByID(ctx, showroomID); err != nil {
		return nil, err
	}

	seats, err := s.showroomSeats.GetByShowroom(ctx, showroomID)
	if err != nil {
		return nil, err
	}
	screenings, err := s.screenings.GetByShowroom(ctx, showroomID)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.GetByShowroom(ctx, showroomID)
	if err != nil {
		return nil, err
	}

	impact := &DeletionImpact{
		SeatsToDelete:      len(seats),
		ScreeningsToDelete: len(screenings),
		TicketsToRefund:    len(tickets),
		RefundTotal:        decimal.Zero,
	}
	for _, t := range tickets {
		impact.RefundTotal = impact.RefundTotal.Add(t.Type.Price())
	}

	return impact, nil
}

// DeleteShowroom credits every outstanding ticket in the showroom back to its
// owner as tokens, then cascades the showroom's subtree. Deleting the room
// invalidates sold tickets regardless of the refund window, so the credit is
// unconditional.
func (s *LayoutService) DeleteShowroom(ctx context.Context, showroomID int) error {
	if _, err := s.showrooms.GetByID(ctx, showroomID); err != nil {
		return err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		tickets, err := s.tickets.GetByShowroom(ctx, showroomID)
		if err != nil {
			return err
		}
		for _, t := range tickets {
			if err := s.customers.CreditTokens(ctx, t.CustomerID, t.Type.TokenValue()); err != nil {
				return err
			}
		}
		return s.cascade.Delete(ctx, KindShowroom, showroomID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("deleted showroom", "id", showroomID)

	return nil
}
