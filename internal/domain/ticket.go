package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TicketType string

const (
	TicketTypeChild  TicketType = "CHILD"
	TicketTypeAdult  TicketType = "ADULT"
	TicketTypeSenior TicketType = "SENIOR"
)

var ticketPrices = map[TicketType]decimal.Decimal{
	TicketTypeChild:  decimal.NewFromInt(8),
	TicketTypeAdult:  decimal.NewFromInt(12),
	TicketTypeSenior: decimal.NewFromInt(9),
}

// Price returns the ticket tier's price. Unknown tiers price to zero; the
// validation boundary rejects them before they reach the engine.
func (t TicketType) Price() decimal.Decimal {
	return ticketPrices[t]
}

// TokenValue is the tier price expressed in tokens, the internal whole-unit
// refund currency.
func (t TicketType) TokenValue() int {
	return int(ticketPrices[t].IntPart())
}

func (t TicketType) Valid() bool {
	_, ok := ticketPrices[t]
	return ok
}

type TicketStatus string

const (
	TicketStatusValid        TicketStatus = "VALID"
	TicketStatusAdminTrashed TicketStatus = "ADMIN_TRASHED"
)

// Ticket binds a customer to a screening seat. PaymentCardID is nil for
// token-only purchases or after the funding card was deleted.
type Ticket struct {
	ID              int
	RefCode         uuid.UUID
	CustomerID      int
	ScreeningSeatID int
	PaymentCardID   *int
	Type            TicketType
	Status          TicketStatus
	CreatedAt       time.Time
}

// TicketDetail carries the joined fields needed for confirmations and
// deletion summaries.
type TicketDetail struct {
	TicketID        int
	RefCode         uuid.UUID
	CustomerID      int
	CustomerEmail   string
	MovieTitle      string
	ShowroomLetter  string
	SeatDesignation string
	ShowTime        time.Time
	EndTime         time.Time
	Type            TicketType
	Status          TicketStatus
	PaymentCardID   *int
}

// Refundable is the single source of truth for the 3-day refund rule: a
// ticket is refundable only while its show time is strictly more than 72
// hours away.
func Refundable(showTime, now time.Time) bool {
	return now.Before(showTime) && showTime.Sub(now) > 3*24*time.Hour
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *Ticket) error
	GetByID(ctx context.Context, id int) (*Ticket, error)
	GetDetail(ctx context.Context, id int) (*TicketDetail, error)
	ExistsByID(ctx context.Context, id int) (bool, error)
	GetByCustomer(ctx context.Context, customerID int) ([]Ticket, error)
	// GetByScreening returns tickets held against any seat of the screening.
	GetByScreening(ctx context.Context, screeningID int) ([]Ticket, error)
	// GetByShowroom returns tickets held against any screening in the showroom.
	GetByShowroom(ctx context.Context, showroomID int) ([]Ticket, error)
	GetByPaymentCard(ctx context.Context, cardID int) ([]Ticket, error)
	UpdateStatus(ctx context.Context, id int, status TicketStatus) error
	// DetachPaymentCard nulls the card reference of every ticket funded by the
	// card; the tickets survive as token-backed.
	DetachPaymentCard(ctx context.Context, cardID int) error
	Delete(ctx context.Context, id int) error
}
