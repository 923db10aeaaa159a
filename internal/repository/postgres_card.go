package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresPaymentCardRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPaymentCardRepository(db *pgxpool.Pool) *PostgresPaymentCardRepository {
	return &PostgresPaymentCardRepository{
		db: db,
	}
}

func (p *PostgresPaymentCardRepository) Create(ctx context.Context, card *domain.PaymentCard) error {
	// The card cap is enforced here with a guarded insert so two concurrent
	// adds cannot both squeeze past a service-level count.
	query := `INSERT INTO payment_cards (customer_id, encoded_number, last4, expiration_month, expiration_year)
		SELECT $1, $2, $3, $4, $5
		WHERE (SELECT COUNT(*) FROM payment_cards WHERE customer_id = $1) < $6
		RETURNING id`

	err := queryEngine(ctx, p.db).QueryRow(
		ctx,
		query,
		card.CustomerID,
		card.EncodedNumber,
		card.Last4,
		int(card.ExpirationMonth),
		card.ExpirationYear,
		domain.MaxPaymentCardsPerCustomer).Scan(&card.ID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewInvalidActionError("customer already has %d payment cards", domain.MaxPaymentCardsPerCustomer)
		}
		return err
	}

	return nil
}

func (p *PostgresPaymentCardRepository) GetByID(ctx context.Context, id int) (*domain.PaymentCard, error) {
	query := `SELECT id, customer_id, encoded_number, last4, expiration_month, expiration_year
		FROM payment_cards
		WHERE id = $1`

	var card domain.PaymentCard
	var month int
	err := queryEngine(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&card.ID,
		&card.CustomerID,
		&card.EncodedNumber,
		&card.Last4,
		&month,
		&card.ExpirationYear,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("payment card", "id", id)
		}
		return nil, err
	}

	card.ExpirationMonth = time.Month(month)
	return &card, nil
}

func (p *PostgresPaymentCardRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM payment_cards WHERE id = $1)`

	var exists bool
	if err := queryEngine(ctx, p.db).QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (p *PostgresPaymentCardRepository) GetByCustomer(ctx context.Context, customerID int) ([]domain.PaymentCard, error) {
	query := `SELECT id, customer_id, encoded_number, last4, expiration_month, expiration_year
		FROM payment_cards
		WHERE customer_id = $1
		ORDER BY id`

	rows, err := queryEngine(ctx, p.db).Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []domain.PaymentCard
	for rows.Next() {
		var card domain.PaymentCard
		var month int
		if err := rows.Scan(
			&card.ID,
			&card.CustomerID,
			&card.EncodedNumber,
			&card.Last4,
			&month,
			&card.ExpirationYear,
		); err != nil {
			return nil, err
		}
		card.ExpirationMonth = time.Month(month)
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

func (p *PostgresPaymentCardRepository) CountByCustomer(ctx context.Context, customerID int) (int, error) {
	query := `SELECT COUNT(*) FROM payment_cards WHERE customer_id = $1`

	var count int
	if err := queryEngine(ctx, p.db).QueryRow(ctx, query, customerID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (p *PostgresPaymentCardRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM payment_cards WHERE id = $1`

	tag, err := queryEngine(ctx, p.db).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
