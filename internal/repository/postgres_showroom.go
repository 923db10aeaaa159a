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

type PostgresShowroomRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowroomRepository(db *pgxpool.Pool) *PostgresShowroomRepository {
	return &PostgresShowroomRepository{
		db: db,
	}
}

func (p *PostgresShowroomRepository) Create(ctx context.Context, showroom *domain.Showroom) error {
	query := `INSERT INTO showrooms (letter, rows, seats_per_row)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := queryEngine(ctx, p.db).QueryRow(
		ctx,
		query,
		showroom.Letter,
		showroom.Rows,
		showroom.SeatsPerRow).Scan(&showroom.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.NewClashError("showroom with room letter %s already exists", showroom.Letter)
		}
		return err
	}

	return nil
}

func (p *PostgresShowroomRepository) GetByID(ctx context.Context, id int) (*domain.Showroom, error) {
	query := `SELECT id, letter, rows, seats_per_row FROM showrooms WHERE id = $1`

	var showroom domain.Showroom
	err := queryEngine(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&showroom.ID,
		&showroom.Letter,
		&showroom.Rows,
		&showroom.SeatsPerRow,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("showroom", "id", id)
		}
		return nil, err
	}

	return &showroom, nil
}

func (p *PostgresShowroomRepository) GetByLetter(ctx context.Context, letter string) (*domain.Showroom, error) {
	query := `SELECT id, letter, rows, seats_per_row FROM showrooms WHERE letter = $1`

	var showroom domain.Showroom
	err := queryEngine(ctx, p.db).QueryRow(ctx, query, letter).Scan(
		&showroom.ID,
		&showroom.Letter,
		&showroom.Rows,
		&showroom.SeatsPerRow,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("showroom", "letter", letter)
		}
		return nil, err
	}

	return &showroom, nil
}

func (p *PostgresShowroomRepository) ExistsByLetter(ctx context.Context, letter string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM showrooms WHERE letter = $1)`

	var exists bool
	if err := queryEngine(ctx, p.db).QueryRow(ctx, query, letter).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (p *PostgresShowroomRepository) GetAll(ctx context.Context) ([]domain.Showroom, error) {
	query := `SELECT id, letter, rows, seats_per_row FROM showrooms ORDER BY letter`

	rows, err := queryEngine(ctx, p.db).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var showrooms []domain.Showroom
	for rows.Next() {
		var showroom domain.Showroom
		if err := rows.Scan(&showroom.ID, &showroom.Letter, &showroom.Rows, &showroom.SeatsPerRow); err != nil {
			return nil, err
		}
		showrooms = append(showrooms, showroom)
	}

	return showrooms, rows.Err()
}

func (p *PostgresShowroomRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM showrooms WHERE id = $1`

	tag, err := queryEngine(ctx, p.db).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

type PostgresShowroomSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowroomSeatRepository(db *pgxpool.Pool) *PostgresShowroomSeatRepository {
	return &PostgresShowroomSeatRepository{
		db: db,
	}
}

func (p *PostgresShowroomSeatRepository) CreateBatch(ctx context.Context, seats []domain.ShowroomSeat) error {
	query := `INSERT INTO showroom_seats (showroom_id, row_letter, seat_number)
		VALUES ($1, $2, $3)
		RETURNING id`

	// CopyFrom cannot return generated ids, and seat grids top out at
	// 26x50 rows, so a per-row insert inside the enclosing transaction is fine.
	q := queryEngine(ctx, p.db)
	for i := range seats {
		err := q.QueryRow(ctx, query, seats[i].ShowroomID, seats[i].RowLetter, seats[i].SeatNumber).
			Scan(&seats[i].ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *PostgresShowroomSeatRepository) GetByID(ctx context.Context, id int) (*domain.ShowroomSeat, error) {
	query := `SELECT id, showroom_id, row_letter, seat_number FROM showroom_seats WHERE id = $1`

	var seat domain.ShowroomSeat
	err := queryEngine(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&seat.ID,
		&seat.ShowroomID,
		&seat.RowLetter,
		&seat.SeatNumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("showroom seat", "id", id)
		}
		return nil, err
	}

	return &seat, nil
}

func (p *PostgresShowroomSeatRepository) GetByShowroom(ctx context.Context, showroomID int) ([]domain.ShowroomSeat, error) {
	query := `SELECT id, showroom_id, row_letter, seat_number
		FROM showroom_seats
		WHERE showroom_id = $1
		ORDER BY row_letter, seat_number`

	rows, err := queryEngine(ctx, p.db).Query(ctx, query, showroomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []domain.ShowroomSeat
	for rows.Next() {
		var seat domain.ShowroomSeat
		if err := rows.Scan(&seat.ID, &seat.ShowroomID, &seat.RowLetter, &seat.SeatNumber); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	return seats, rows.Err()
}

func (p *PostgresShowroomSeatRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM showroom_seats WHERE id = $1`

	tag, err := queryEngine(ctx, p.db).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
