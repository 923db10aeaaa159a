package domain

import (
	"context"
	"encoding/base64"
	"time"
)

// MaxPaymentCardsPerCustomer caps how many cards one customer may store.
const MaxPaymentCardsPerCustomer = 5

// PaymentCard stores an encoded card number; the card is never charged by
// this system. Expiration has (month, year) granularity: a card expiring in
// the current month is still usable.
type PaymentCard struct {
	ID              int
	CustomerID      int
	EncodedNumber   string
	Last4           string
	ExpirationMonth time.Month
	ExpirationYear  int
}

// EncodeCardNumber obscures a card number for storage. The raw number is
// never persisted or logged.
func EncodeCardNumber(number string) string {
	return base64.StdEncoding.EncodeToString([]byte(number))
}

// Expired reports whether the card's expiration month has fully passed.
func (c PaymentCard) Expired(now time.Time) bool {
	if c.ExpirationYear != now.Year() {
		return c.ExpirationYear < now.Year()
	}
	return c.ExpirationMonth < now.Month()
}

type PaymentCardRepository interface {
	Create(ctx context.Context, card *PaymentCard) error
	GetByID(ctx context.Context, id int) (*PaymentCard, error)
	ExistsByID(ctx context.Context, id int) (bool, error)
	GetByCustomer(ctx context.Context, customerID int) ([]PaymentCard, error)
	CountByCustomer(ctx context.Context, customerID int) (int, error)
	Delete(ctx context.Context, id int) error
}
