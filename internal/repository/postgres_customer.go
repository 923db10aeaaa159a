package repository

import (
	"context"
	"errors"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresCustomerRepository struct {
	db *pgxpool.Pool
}

func NewPostgresCustomerRepository(db *pgxpool.Pool) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		db: db,
	}
}

func (p *PostgresCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `INSERT INTO customers (user_id, email, tokens, authority_valid, censored_by_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := queryEngine(ctx, p.db).QueryRow(
		ctx,
		query,
		customer.UserID,
		customer.Email,
		customer.Tokens,
		customer.AuthorityValid,
		customer.CensoredByID).Scan(&customer.ID, &customer.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.NewClashError("customer with email %s already exists", customer.Email)
		}
		return err
	}

	return nil
}

func (p *PostgresCustomerRepository) GetByID(ctx context.Context, id int) (*domain.Customer, error) {
	query := `SELECT id, user_id, email, tokens, authority_valid, censored_by_id, created_at
		FROM customers
		WHERE id = $1`

	customer, err := scanCustomer(queryEngine(ctx, p.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("customer", "id", id)
		}
		return nil, err
	}

	return customer, nil
}

func (p *PostgresCustomerRepository) GetByUserID(ctx context.Context, userID int) (*domain.Customer, error) {
	query := `SELECT id, user_id, email, tokens, authority_valid, censored_by_id, created_at
		FROM customers
		WHERE user_id = $1`

	customer, err := scanCustomer(queryEngine(ctx, p.db).QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("customer", "user id", userID)
		}
		return nil, err
	}

	return customer, nil
}

func (p *PostgresCustomerRepository) CreditTokens(ctx context.Context, customerID, amount int) error {
	query := `UPDATE customers SET tokens = tokens + $1 WHERE id = $2`

	tag, err := queryEngine(ctx, p.db).Exec(ctx, query, amount, customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("customer", "id", customerID)
	}
	return nil
}

// DebitTokens only matches when the balance covers the debit, so a stale
// balance read by the caller surfaces as ErrEditConflict instead of a
// negative balance.
func (p *PostgresCustomerRepository) DebitTokens(ctx context.Context, customerID, amount int) error {
	query := `UPDATE customers
		SET tokens = tokens - $1
		WHERE id = $2 AND tokens >= $1`

	tag, err := queryEngine(ctx, p.db).Exec(ctx, query, amount, customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEditConflict
	}
	return nil
}

func (p *PostgresCustomerRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM customers WHERE id = $1`

	tag, err := queryEngine(ctx, p.db).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var customer domain.Customer
	err := row.Scan(
		&customer.ID,
		&customer.UserID,
		&customer.Email,
		&customer.Tokens,
		&customer.AuthorityValid,
		&customer.CensoredByID,
		&customer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
