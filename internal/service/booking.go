package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/google/uuid"
)

// BookingService sells and refunds tickets. Seat claims are conditional
// writes, so two customers racing for the same seat resolve to exactly one
// ticket regardless of interleaving.
type BookingService struct {
	logger         *slog.Logger
	tx             domain.TxManager
	screenings     domain.ScreeningRepository
	screeningSeats domain.ScreeningSeatRepository
	showroomSeats  domain.ShowroomSeatRepository
	tickets        domain.TicketRepository
	customers      domain.CustomerRepository
	cards          domain.PaymentCardRepository
	cascade        *CascadeCoordinator
	notifier       domain.Notifier

	now func() time.Time
}

func NewBookingService(
	logger *slog.Logger,
	tx domain.TxManager,
	screenings domain.ScreeningRepository,
	screeningSeats domain.ScreeningSeatRepository,
	showroomSeats domain.ShowroomSeatRepository,
	tickets domain.TicketRepository,
	customers domain.CustomerRepository,
	cards domain.PaymentCardRepository,
	cascade *CascadeCoordinator,
	notifier domain.Notifier,
) *BookingService {
	return &BookingService{
		logger:         logger,
		tx:             tx,
		screenings:     screenings,
		screeningSeats: screeningSeats,
		showroomSeats:  showroomSeats,
		tickets:        tickets,
		customers:      customers,
		cards:          cards,
		cascade:        cascade,
		notifier:       notifier,
		now:            time.Now,
	}
}

type BookSeatParams struct {
	CustomerID      int
	ScreeningSeatID int
	PaymentCardID   *int
	Type            domain.TicketType
	TokensToApply   int
}

// BookSeat purchases the seat for the customer. Preconditions are checked
// up front for precise errors, but the claim and the token debit are both
// conditional writes inside one transaction, so stale reads cannot produce
// a double booking or a negative balance.
func (s *BookingService) BookSeat(ctx context.Context, params BookSeatParams) (*domain.Ticket, error) {
	if !params.Type.Valid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid ticket type: %s", params.Type))
	}
	if params.TokensToApply < 0 {
		return nil, domain.NewValidationError("tokens to apply cannot be negative")
	}

	customer, err := s.customers.GetByID(ctx, params.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.AuthorityValid {
		return nil, domain.NewInvalidActionError("customer is not permitted to purchase tickets")
	}
	if params.TokensToApply > customer.Tokens {
		return nil, domain.NewInvalidActionError("cannot apply %d tokens, balance is %d", params.TokensToApply, customer.Tokens)
	}

	if params.PaymentCardID != nil {
		card, err := s.cards.GetByID(ctx, *params.PaymentCardID)
		if err != nil {
			return nil, err
		}
		if card.CustomerID != customer.ID {
			return nil, domain.NewInvalidActionError("payment card does not belong to customer")
		}
		if card.Expired(s.now()) {
			return nil, domain.NewInvalidActionError("cannot purchase ticket with expired payment card")
		}
	}

	seat, err := s.screeningSeats.GetByID(ctx, params.ScreeningSeatID)
	if err != nil {
		return nil, err
	}
	if seat.Booked() {
		return nil, domain.NewInvalidActionError("seat is already booked")
	}

	screening, err := s.screenings.GetByID(ctx, seat.ScreeningID)
	if err != nil {
		return nil, err
	}
	if !screening.ShowTime.After(s.now()) {
		return nil, domain.NewInvalidActionError("cannot purchase ticket for a past screening")
	}

	ticket := &domain.Ticket{
		RefCode:         uuid.New(),
		CustomerID:      customer.ID,
		ScreeningSeatID: seat.ID,
		PaymentCardID:   params.PaymentCardID,
		Type:            params.Type,
		Status:          domain.TicketStatusValid,
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.tickets.Create(ctx, ticket); err != nil {
			return err
		}
		if err := s.screeningSeats.Claim(ctx, seat.ID, ticket.ID); err != nil {
			if errors.Is(err, domain.ErrEditConflict) {
				return domain.NewInvalidActionError("seat is already booked")
			}
			return err
		}
		if params.TokensToApply > 0 {
			if err := s.customers.DebitTokens(ctx, customer.ID, params.TokensToApply); err != nil {
				if errors.Is(err, domain.ErrEditConflict) {
					return domain.NewInvalidActionError("cannot apply %d tokens, balance is insufficient", params.TokensToApply)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booked seat",
		"ticket_id", ticket.ID,
		"ref_code", ticket.RefCode,
		"customer_id", customer.ID,
		"screening_seat_id", seat.ID,
	)

	s.background(func() {
		detail, err := s.tickets.GetDetail(context.WithoutCancel(ctx), ticket.ID)
		if err != nil {
			s.logger.Error("failed to load ticket detail for confirmation", "ticket_id", ticket.ID, "error", err)
			return
		}
		body := fmt.Sprintf(
			"Your ticket %s for %s, showroom %s, seat %s at %s is confirmed.",
			detail.RefCode, detail.MovieTitle, detail.ShowroomLetter,
			detail.SeatDesignation, detail.ShowTime.Format(time.RFC1123),
		)
		if err := s.notifier.Notify(context.WithoutCancel(ctx), detail.CustomerEmail, "Ticket confirmation", body); err != nil {
			s.logger.Error("failed to send booking confirmation", "ticket_id", ticket.ID, "error", err)
		}
	})

	return ticket, nil
}

// IsRefundable reports whether the ticket can still be refunded: the
// screening must be in the future by strictly more than three days.
func (s *BookingService) IsRefundable(ctx context.Context, ticketID int) (bool, error) {
	detail, err := s.tickets.GetDetail(ctx, ticketID)
	if err != nil {
		return false, err
	}
	return domain.Refundable(detail.ShowTime, s.now()), nil
}

// RefundTicket releases the seat and removes the ticket. Card-funded
// purchases are refunded to the card outside this system; anything without a
// usable card is credited back as tokens. The credit and the removal share
// one transaction so the seat never points at a deleted ticket.
func (s *BookingService) RefundTicket(ctx context.Context, ticketID int) error {
	detail, err := s.tickets.GetDetail(ctx, ticketID)
	if err != nil {
		return err
	}
	if !domain.Refundable(detail.ShowTime, s.now()) {
		return domain.NewInvalidActionError("ticket can only be refunded more than 3 days before the screening")
	}

	creditTokens, err := s.refundableOnlyAsTokens(ctx, detail)
	if err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if creditTokens {
			if err := s.customers.CreditTokens(ctx, detail.CustomerID, detail.Type.TokenValue()); err != nil {
				return err
			}
		}
		return s.cascade.Delete(ctx, KindTicket, ticketID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("refunded ticket",
		"ticket_id", ticketID,
		"customer_id", detail.CustomerID,
		"as_tokens", creditTokens,
	)

	s.background(func() {
		body := fmt.Sprintf("Your ticket %s for %s at %s was refunded to your payment card.",
			detail.RefCode, detail.MovieTitle, detail.ShowTime.Format(time.RFC1123))
		if creditTokens {
			body = fmt.Sprintf(
				"Your ticket %s for %s at %s was refunded. %d tokens were credited to your account.",
				detail.RefCode, detail.MovieTitle, detail.ShowTime.Format(time.RFC1123),
				detail.Type.TokenValue(),
			)
		}
		if err := s.notifier.Notify(context.WithoutCancel(ctx), detail.CustomerEmail, "Ticket refund", body); err != nil {
			s.logger.Error("failed to send refund notification", "ticket_id", ticketID, "error", err)
		}
	})

	return nil
}

// refundableOnlyAsTokens reports whether the refund has to be issued as
// tokens: the ticket was token-funded, or its card is gone or expired.
func (s *BookingService) refundableOnlyAsTokens(ctx context.Context, detail *domain.TicketDetail) (bool, error) {
	if detail.PaymentCardID == nil {
		return true, nil
	}

	card, err := s.cards.GetByID(ctx, *detail.PaymentCardID)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return true, nil
		}
		return false, err
	}

	return card.Expired(s.now()), nil
}

// TrashTicket marks the ticket as pulled by management without refunding it.
// The seat stays claimed so it cannot be resold.
func (s *BookingService) TrashTicket(ctx context.Context, ticketID int) error {
	detail, err := s.tickets.GetDetail(ctx, ticketID)
	if err != nil {
		return err
	}
	if detail.Status == domain.TicketStatusAdminTrashed {
		return domain.NewInvalidActionError("ticket is already trashed")
	}
	return s.tickets.UpdateStatus(ctx, ticketID, domain.TicketStatusAdminTrashed)
}

func (s *BookingService) TicketDetail(ctx context.Context, ticketID int) (*domain.TicketDetail, error) {
	return s.tickets.GetDetail(ctx, ticketID)
}

func (s *BookingService) TicketsOfCustomer(ctx context.Context, customerID int) ([]domain.Ticket, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.tickets.GetByCustomer(ctx, customerID)
}

func (s *BookingService) background(fn func()) {
	go func() {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("recovered from panic in background task", "error", fmt.Sprintf("%v", err))
			}
		}()
		fn()
	}()
}
