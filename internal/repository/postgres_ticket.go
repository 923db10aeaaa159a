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

type PostgresTicketRepository struct {
	db *pgxpool.Pool
}

func NewPostgresTicketRepository(db *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{
		db: db,
	}
}

func (p *PostgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	query := `INSERT INTO tickets (ref_code, customer_id, screening_seat_id, payment_card_id, type, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := queryEngine(ctx, p.db).QueryRow(
		ctx,
		query,
		ticket.RefCode,
		ticket.CustomerID,
		ticket.ScreeningSeatID,
		ticket.PaymentCardID,
		ticket.Type,
		ticket.Status).Scan(&ticket.ID, &ticket.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrEditConflict
		}
		return err
	}

	return nil
}

func (p *PostgresTicketRepository) GetByID(ctx context.Context, id int) (*domain.Ticket, error) {
	query := `SELECT id, ref_code, customer_id, screening_seat_id, payment_card_id, type, status, created_at
		FROM tickets
		WHERE id = $1`

	var ticket domain.Ticket
	err := queryEngine(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.RefCode,
		&ticket.CustomerID,
		&ticket.ScreeningSeatID,
		&ticket.PaymentCardID,
		&ticket.Type,
		&ticket.Status,
		&ticket.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("ticket", "id", id)
		}
		return nil, err
	}

	return &ticket, nil
}

func (p *PostgresTicketRepository) GetDetail(ctx context.Context, id int) (*domain.TicketDetail, error) {
	query := `SELECT t.id, t.ref_code, t.customer_id, c.email,
			m.title, w.letter, ws.row_letter, ws.seat_number,
			s.show_time, s.end_time, t.type, t.status, t.payment_card_id
		FROM tickets t
		JOIN customers c ON c.id = t.customer_id
		JOIN screening_seats ss ON ss.id = t.screening_seat_id
		JOIN showroom_seats ws ON ws.id = ss.showroom_seat_id
		JOIN screenings s ON s.id = ss.screening_id
		JOIN movies m ON m.id = s.movie_id
		JOIN showrooms w ON w.id = s.showroom_id
		WHERE t.id = $1`

	var detail domain.TicketDetail
	var rowLetter string
	var seatNumber int

	err := queryEngine(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&detail.TicketID,
		&detail.RefCode,
		&detail.CustomerID,
		&detail.CustomerEmail,
		&detail.MovieTitle,
		&detail.ShowroomLetter,
		&rowLetter,
		&seatNumber,
		&detail.ShowTime,
		&detail.EndTime,
		&detail.Type,
		&detail.Status,
		&detail.PaymentCardID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("ticket", "id", id)
		}
		return nil, err
	}

	detail.SeatDesignation = domain.ShowroomSeat{RowLetter: rowLetter, SeatNumber: seatNumber}.Designation()
	return &detail, nil
}

func (p *PostgresTicketRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM tickets WHERE id = $1)`

	var exists bool
	if err := queryEngine(ctx, p.db).QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (p *PostgresTicketRepository) GetByCustomer(ctx context.Context, customerID int) ([]domain.Ticket, error) {
	query := `SELECT id, ref_code, customer_id, screening_seat_id, payment_card_id, type, status, created_at
		FROM tickets
		WHERE customer_id = $1
		ORDER BY id`

	rows, err := queryEngine(ctx, p.db).Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTickets(rows)
}

func (p *PostgresTicketRepository) GetByScreening(ctx context.Context, screeningID int) ([]domain.Ticket, error) {
	query := `SELECT t.id, t.ref_code, t.customer_id, t.screening_seat_id, t.payment_card_id, t.type, t.status, t.created_at
		FROM tickets t
		JOIN screening_seats ss ON ss.id = t.screening_seat_id
		WHERE ss.screening_id = $1
		ORDER BY t.id`

	rows, err := queryEngine(ctx, p.db).Query(ctx, query, screeningID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTickets(rows)
}

func (p *PostgresTicketRepository) GetByShowroom(ctx context.Context, showroomID int) ([]domain.Ticket, error) {
	query := `SELECT t.id, t.ref_code, t.customer_id, t.screening_seat_id, t.payment_card_id, t.type, t.status, t.created_at
		FROM tickets t
		JOIN screening_seats ss ON ss.id = t.screening_seat_id
		JOIN screenings s ON s.id = ss.screening_id
		WHERE s.showroom_id = $1
		ORDER BY t.id`

	rows, err := queryEngine(ctx, p.db).Query(ctx, query, showroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTickets(rows)
}

func (p *PostgresTicketRepository) GetByPaymentCard(ctx context.Context, cardID int) ([]domain.Ticket, error) {
	query := `SELECT id, ref_code, customer_id, screening_seat_id, payment_card_id, type, status, created_at
		FROM tickets
		WHERE payment_card_id = $1
		ORDER BY id`

	rows, err := queryEngine(ctx, p.db).Query(ctx, query, cardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTickets(rows)
}

func (p *PostgresTicketRepository) UpdateStatus(ctx context.Context, id int, status domain.TicketStatus) error {
	query := `UPDATE tickets SET status = $1 WHERE id = $2`

	tag, err := queryEngine(ctx, p.db).Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (p *PostgresTicketRepository) DetachPaymentCard(ctx context.Context, cardID int) error {
	query := `UPDATE tickets SET payment_card_id = NULL WHERE payment_card_id = $1`

	_, err := queryEngine(ctx, p.db).Exec(ctx, query, cardID)
	return err
}

func (p *PostgresTicketRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM tickets WHERE id = $1`

	tag, err := queryEngine(ctx, p.db).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func collectTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(
			&t.ID,
			&t.RefCode,
			&t.CustomerID,
			&t.ScreeningSeatID,
			&t.PaymentCardID,
			&t.Type,
			&t.Status,
			&t.CreatedAt,
		); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}
