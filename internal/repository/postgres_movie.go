package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cinehall/cinehall/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	movie.SearchTitle = domain.NormalizeSearchTitle(movie.Title)

	query := `INSERT INTO movies (title, search_title, director, synopsis, duration_minutes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	return queryEngine(ctx, p.db).QueryRow(
		ctx,
		query,
		movie.Title,
		movie.SearchTitle,
		movie.Director,
		movie.Synopsis,
		int(movie.Duration.Minutes())).Scan(&movie.ID)
}

func (p *PostgresMovieRepository) GetByID(ctx context.Context, id int) (*domain.Movie, error) {
	query := `SELECT id, title, search_title, director, synopsis, duration_minutes
		FROM movies
		WHERE id = $1`

	movie, err := scanMovie(queryEngine(ctx, p.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("movie", "id", id)
		}
		return nil, err
	}

	return movie, nil
}

func (p *PostgresMovieRepository) GetByTitleLike(ctx context.Context, search string, pagination domain.Pagination) ([]domain.Movie, *domain.Metadata, error) {
	query := `SELECT id, title, search_title, director, synopsis, duration_minutes,
			COUNT(*) OVER() AS total_count
		FROM movies
		WHERE search_title LIKE '%' || $1 || '%'
		ORDER BY title
		LIMIT $2 OFFSET $3`

	needle := domain.NormalizeSearchTitle(search)

	rows, err := queryEngine(ctx, p.db).Query(ctx, query, needle, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0, pagination.PageSize)
	var totalCount int

	for rows.Next() {
		var movie domain.Movie
		var minutes int
		if err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.SearchTitle,
			&movie.Director,
			&movie.Synopsis,
			&minutes,
			&totalCount,
		); err != nil {
			return nil, nil, err
		}
		movie.Duration = time.Duration(minutes) * time.Minute
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return movies, domain.NewMetadata(totalCount, pagination.Page, pagination.PageSize), nil
}

func (p *PostgresMovieRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM movies WHERE id = $1`

	tag, err := queryEngine(ctx, p.db).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func scanMovie(row pgx.Row) (*domain.Movie, error) {
	var movie domain.Movie
	var minutes int

	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.SearchTitle,
		&movie.Director,
		&movie.Synopsis,
		&minutes,
	)
	if err != nil {
		return nil, err
	}

	movie.Duration = time.Duration(minutes) * time.Minute
	return &movie, nil
}
