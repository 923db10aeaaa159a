package domain

import (
	"context"
	"time"
)

// Customer is the purchasing authority of a user account. Tokens is the
// internal refund currency and never goes negative. CensoredByID is a weak
// reference to the moderator that censored the customer, if any.
type Customer struct {
	ID             int
	UserID         int
	Email          string
	Tokens         int
	AuthorityValid bool
	CensoredByID   *int
	CreatedAt      time.Time
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	GetByID(ctx context.Context, id int) (*Customer, error)
	GetByUserID(ctx context.Context, userID int) (*Customer, error)
	// CreditTokens adds amount to the customer's balance.
	CreditTokens(ctx context.Context, customerID, amount int) error
	// DebitTokens subtracts amount from the balance; the update is conditional
	// on the balance staying non-negative and yields ErrEditConflict otherwise.
	DebitTokens(ctx context.Context, customerID, amount int) error
	Delete(ctx context.Context, id int) error
}
