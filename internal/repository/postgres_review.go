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

type PostgresReviewRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReviewRepository(db *pgxpool.Pool) *PostgresReviewRepository {
	return &PostgresReviewRepository{
		db: db,
	}
}

func (p *PostgresReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `INSERT INTO reviews (movie_id, customer_id, rating, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := queryEngine(ctx, p.db).QueryRow(
		ctx,
		query,
		review.MovieID,
		review.CustomerID,
		review.Rating,
		review.Body).Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.NewClashError("customer already reviewed this movie")
		}
		return err
	}

	return nil
}

func (p *PostgresReviewRepository) GetByID(ctx context.Context, id int) (*domain.Review, error) {
	query := `SELECT id, movie_id, customer_id, rating, body, created_at FROM reviews WHERE id = $1`

	var review domain.Review
	err := queryEngine(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.MovieID,
		&review.CustomerID,
		&review.Rating,
		&review.Body,
		&review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("review", "id", id)
		}
		return nil, err
	}

	return &review, nil
}

func (p *PostgresReviewRepository) GetByMovie(ctx context.Context, movieID int) ([]domain.Review, error) {
	return p.list(ctx, `SELECT id, movie_id, customer_id, rating, body, created_at
		FROM reviews WHERE movie_id = $1 ORDER BY id`, movieID)
}

func (p *PostgresReviewRepository) GetByCustomer(ctx context.Context, customerID int) ([]domain.Review, error) {
	return p.list(ctx, `SELECT id, movie_id, customer_id, rating, body, created_at
		FROM reviews WHERE customer_id = $1 ORDER BY id`, customerID)
}

func (p *PostgresReviewRepository) list(ctx context.Context, query string, arg any) ([]domain.Review, error) {
	rows, err := queryEngine(ctx, p.db).Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID,
			&review.MovieID,
			&review.CustomerID,
			&review.Rating,
			&review.Body,
			&review.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}

func (p *PostgresReviewRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM reviews WHERE id = $1`

	tag, err := queryEngine(ctx, p.db).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

type PostgresReviewVoteRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReviewVoteRepository(db *pgxpool.Pool) *PostgresReviewVoteRepository {
	return &PostgresReviewVoteRepository{
		db: db,
	}
}

func (p *PostgresReviewVoteRepository) Create(ctx context.Context, vote *domain.ReviewVote) error {
	query := `INSERT INTO review_votes (review_id, customer_id, upvote)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := queryEngine(ctx, p.db).QueryRow(
		ctx,
		query,
		vote.ReviewID,
		vote.CustomerID,
		vote.Upvote).Scan(&vote.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.NewClashError("customer already voted on this review")
		}
		return err
	}

	return nil
}

func (p *PostgresReviewVoteRepository) GetByReview(ctx context.Context, reviewID int) ([]domain.ReviewVote, error) {
	return p.list(ctx, `SELECT id, review_id, customer_id, upvote
		FROM review_votes WHERE review_id = $1 ORDER BY id`, reviewID)
}

func (p *PostgresReviewVoteRepository) GetByCustomer(ctx context.Context, customerID int) ([]domain.ReviewVote, error) {
	return p.list(ctx, `SELECT id, review_id, customer_id, upvote
		FROM review_votes WHERE customer_id = $1 ORDER BY id`, customerID)
}

func (p *PostgresReviewVoteRepository) list(ctx context.Context, query string, arg any) ([]domain.ReviewVote, error) {
	rows, err := queryEngine(ctx, p.db).Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var votes []domain.ReviewVote
	for rows.Next() {
		var vote domain.ReviewVote
		if err := rows.Scan(&vote.ID, &vote.ReviewID, &vote.CustomerID, &vote.Upvote); err != nil {
			return nil, err
		}
		votes = append(votes, vote)
	}

	return votes, rows.Err()
}

func (p *PostgresReviewVoteRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM review_votes WHERE id = $1`

	tag, err := queryEngine(ctx, p.db).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
