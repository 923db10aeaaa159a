package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresScreeningRepository struct {
	db *pgxpool.Pool
}

func NewPostgresScreeningRepository(db *pgxpool.Pool) *PostgresScreeningRepository {
	return &PostgresScreeningRepository{
		db: db,
	}
}

func (p *PostgresScreeningRepository) Create(ctx context.Context, screening *domain.Screening) error {
	query := `INSERT INTO screenings (movie_id, showroom_id, show_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return queryEngine(ctx, p.db).QueryRow(
		ctx,
		query,
		screening.MovieID,
		screening.ShowroomID,
		screening.ShowTime,
		screening.EndTime).Scan(&screening.ID)
}

func (p *PostgresScreeningRepository) GetByID(ctx context.Context, id int) (*domain.Screening, error) {
	query := `SELECT id, movie_id, showroom_id, show_time, end_time FROM screenings WHERE id = $1`

	var screening domain.Screening
	err := queryEngine(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&screening.ID,
		&screening.MovieID,
		&screening.ShowroomID,
		&screening.ShowTime,
		&screening.EndTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("screening", "id", id)
		}
		return nil, err
	}

	return &screening, nil
}

func (p *PostgresScreeningRepository) GetByShowroom(ctx context.Context, showroomID int) ([]domain.Screening, error) {
	query := `SELECT id, movie_id, showroom_id, show_time, end_time
		FROM screenings
		WHERE showroom_id = $1
		ORDER BY show_time`

	rows, err := queryEngine(ctx, p.db).Query(ctx, query, showroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectScreenings(rows)
}

func (p *PostgresScreeningRepository) GetByMovie(ctx context.Context, movieID int, pagination domain.Pagination) ([]domain.Screening, *domain.Metadata, error) {
	query := `SELECT id, movie_id, showroom_id, show_time, end_time,
			COUNT(*) OVER() AS total_count
		FROM screenings
		WHERE movie_id = $1
		ORDER BY show_time
		LIMIT $2 OFFSET $3`

	rows, err := queryEngine(ctx, p.db).Query(ctx, query, movieID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	return collectScreeningsPage(rows, pagination)
}

func (p *PostgresScreeningRepository) GetByTimeWindow(ctx context.Context, from, to *time.Time, pagination domain.Pagination) ([]domain.Screening, *domain.Metadata, error) {
	query := `SELECT id, movie_id, showroom_id, show_time, end_time,
			COUNT(*) OVER() AS total_count
		FROM screenings
		WHERE ($1::timestamptz IS NULL OR show_time >= $1)
		  AND ($2::timestamptz IS NULL OR show_time < $2)
		ORDER BY show_time
		LIMIT $3 OFFSET $4`

	rows, err := queryEngine(ctx, p.db).Query(ctx, query, from, to, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	return collectScreeningsPage(rows, pagination)
}

// LockShowroomSchedule takes a transaction-scoped advisory lock keyed by the
// showroom. Concurrent scheduling attempts against the same showroom queue
// behind it until the transaction ends, so the overlap scan and the insert
// behave as one atomic step.
func (p *PostgresScreeningRepository) LockShowroomSchedule(ctx context.Context, showroomID int) error {
	query := `SELECT pg_advisory_xact_lock($1, $2)`

	_, err := queryEngine(ctx, p.db).Exec(ctx, query, showroomScheduleLockClass, showroomID)
	return err
}

// showroomScheduleLockClass namespaces schedule advisory locks away from any
// other advisory lock user of the database.
const showroomScheduleLockClass = 1001

func (p *PostgresScreeningRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM screenings WHERE id = $1`

	tag, err := queryEngine(ctx, p.db).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func collectScreenings(rows pgx.Rows) ([]domain.Screening, error) {
	var screenings []domain.Screening
	for rows.Next() {
		var s domain.Screening
		if err := rows.Scan(&s.ID, &s.MovieID, &s.ShowroomID, &s.ShowTime, &s.EndTime); err != nil {
			return nil, err
		}
		screenings = append(screenings, s)
	}
	return screenings, rows.Err()
}

func collectScreeningsPage(rows pgx.Rows, pagination domain.Pagination) ([]domain.Screening, *domain.Metadata, error) {
	screenings := make([]domain.Screening, 0, pagination.PageSize)
	var totalCount int

	for rows.Next() {
		var s domain.Screening
		if err := rows.Scan(&s.ID, &s.MovieID, &s.ShowroomID, &s.ShowTime, &s.EndTime, &totalCount); err != nil {
			return nil, nil, err
		}
		screenings = append(screenings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return screenings, domain.NewMetadata(totalCount, pagination.Page, pagination.PageSize), nil
}

type PostgresScreeningSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresScreeningSeatRepository(db *pgxpool.Pool) *PostgresScreeningSeatRepository {
	return &PostgresScreeningSeatRepository{
		db: db,
	}
}

func (p *PostgresScreeningSeatRepository) CreateBatch(ctx context.Context, seats []domain.ScreeningSeat) error {
	query := `INSERT INTO screening_seats (screening_id, showroom_seat_id)
		VALUES ($1, $2)
		RETURNING id`

	q := queryEngine(ctx, p.db)
	for i := range seats {
		err := q.QueryRow(ctx, query, seats[i].ScreeningID, seats[i].ShowroomSeatID).
			Scan(&seats[i].ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *PostgresScreeningSeatRepository) GetByID(ctx context.Context, id int) (*domain.ScreeningSeat, error) {
	query := `SELECT id, screening_id, showroom_seat_id, ticket_id FROM screening_seats WHERE id = $1`

	var seat domain.ScreeningSeat
	err := queryEngine(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&seat.ID,
		&seat.ScreeningID,
		&seat.ShowroomSeatID,
		&seat.TicketID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("screening seat", "id", id)
		}
		return nil, err
	}

	return &seat, nil
}

func (p *PostgresScreeningSeatRepository) GetByScreening(ctx context.Context, screeningID int) ([]domain.ScreeningSeat, error) {
	query := `SELECT ss.id, ss.screening_id, ss.showroom_seat_id, ss.ticket_id
		FROM screening_seats ss
		JOIN showroom_seats ws ON ws.id = ss.showroom_seat_id
		WHERE ss.screening_id = $1
		ORDER BY ws.row_letter, ws.seat_number`

	rows, err := queryEngine(ctx, p.db).Query(ctx, query, screeningID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectScreeningSeats(rows)
}

func (p *PostgresScreeningSeatRepository) GetByShowroomSeat(ctx context.Context, showroomSeatID int) ([]domain.ScreeningSeat, error) {
	query := `SELECT id, screening_id, showroom_seat_id, ticket_id
		FROM screening_seats
		WHERE showroom_seat_id = $1
		ORDER BY id`

	rows, err := queryEngine(ctx, p.db).Query(ctx, query, showroomSeatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectScreeningSeats(rows)
}

// Claim is the booking engine's compare-and-set: the WHERE clause only
// matches an unbooked seat, so of two concurrent claims exactly one updates
// a row and the other reports ErrEditConflict.
func (p *PostgresScreeningSeatRepository) Claim(ctx context.Context, seatID, ticketID int) error {
	query := `UPDATE screening_seats
		SET ticket_id = $1
		WHERE id = $2 AND ticket_id IS NULL`

	tag, err := queryEngine(ctx, p.db).Exec(ctx, query, ticketID, seatID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEditConflict
	}
	return nil
}

func (p *PostgresScreeningSeatRepository) Release(ctx context.Context, seatID int) error {
	query := `UPDATE screening_seats SET ticket_id = NULL WHERE id = $1`

	_, err := queryEngine(ctx, p.db).Exec(ctx, query, seatID)
	return err
}

func (p *PostgresScreeningSeatRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM screening_seats WHERE id = $1`

	tag, err := queryEngine(ctx, p.db).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func collectScreeningSeats(rows pgx.Rows) ([]domain.ScreeningSeat, error) {
	var seats []domain.ScreeningSeat
	for rows.Next() {
		var seat domain.ScreeningSeat
		if err := rows.Scan(&seat.ID, &seat.ScreeningID, &seat.ShowroomSeatID, &seat.TicketID); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}
	return seats, rows.Err()
}
